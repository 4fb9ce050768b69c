package domain

import "image"

// Parameter describes a single tunable value exposed by a filter.
type Parameter struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
	Value   float64
}

// Filter defines the interface for an asynchronous image filter collaborator.
// This allows the component to be decoupled from concrete filter
// implementations: a filter can apply a transform to an image asynchronously,
// reset its own parameters, and report its parameter schema.
//
// Apply dispatches the filter against img and returns immediately; the result
// arrives later through the callback registered with OnApplied. Apply reports
// whether the dispatch was accepted (a filter may reject a nil image or a
// dispatch while a previous one is still in flight).
type Filter interface {
	Name() string
	Apply(img image.Image) bool
	ResetParameters()
	Parameters() []Parameter
	SetParameter(name string, value float64) error
	OnApplied(fn func(image.Image))
}
