package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarlsen/filterlab/api"
	"github.com/akarlsen/filterlab/photo/filters"
)

func (h *PhotoHandler) ListFilters(c *gin.Context) {
	infos := make([]api.FilterInfo, 0, len(filters.Names()))
	for _, name := range filters.Names() {
		f, ok := filters.New(name)
		if !ok {
			continue
		}

		info := api.FilterInfo{Name: name}
		for _, p := range f.Parameters() {
			info.Parameters = append(info.Parameters, api.ParameterInfo{
				Name:    p.Name,
				Min:     p.Min,
				Max:     p.Max,
				Default: p.Default,
				Value:   p.Value,
			})
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, infos)
}

func (h *PhotoHandler) ApplyFilter(c *gin.Context) {
	name := c.Param("name")

	f, ok := filters.New(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown filter: " + name})
		return
	}

	h.component.ApplyFilter(f)
	c.JSON(http.StatusOK, h.state())
}

// SetParameter updates a parameter on the attached filter and re-dispatches
// it against the baseline image.
func (h *PhotoHandler) SetParameter(c *gin.Context) {
	req := &api.ParameterRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.component.SetFilterParameter(req.Name, req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.component.ReApplyFilter()
	c.JSON(http.StatusOK, h.state())
}

func (h *PhotoHandler) ResetFilter(c *gin.Context) {
	h.component.ResetFilter()
	c.JSON(http.StatusOK, h.state())
}

func (h *PhotoHandler) Commit(c *gin.Context) {
	h.component.ApplyCurrentFilter()
	c.JSON(http.StatusOK, h.state())
}
