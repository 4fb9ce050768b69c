package api

type SourceRequest struct {
	Path string `json:"path" binding:"required"`
}

type ParameterInfo struct {
	Name    string  `json:"name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Value   float64 `json:"value"`
}

type FilterInfo struct {
	Name       string          `json:"name"`
	Parameters []ParameterInfo `json:"parameters"`
}

type ParameterRequest struct {
	Name  string  `json:"name" binding:"required"`
	Value float64 `json:"value"`
}

type State struct {
	Source   string `json:"source"`
	Filter   string `json:"filter,omitempty"`
	Applying bool   `json:"applying"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type SaveResponse struct {
	Filename string `json:"filename"`
}

type SavedImage struct {
	Filename  string `json:"filename"`
	Source    string `json:"source,omitempty"`
	Filter    string `json:"filter,omitempty"`
	Hash      string `json:"hash"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"created_at"`
}
