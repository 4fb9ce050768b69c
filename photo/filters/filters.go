package filters

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/akarlsen/filterlab/photo/domain"
)

// imageFunc performs the actual pixel work for a filter. It runs on a
// background goroutine and must not retain the input image.
type imageFunc func(img image.Image, params []domain.Parameter) image.Image

// asyncFilter is the shared implementation behind every concrete filter.
// Apply dispatches fn on a goroutine and delivers the result through the
// callback registered with OnApplied. A dispatch is rejected while a previous
// one is still in flight.
type asyncFilter struct {
	name   string
	fn     imageFunc
	busy   atomic.Bool
	mu     sync.Mutex
	params []domain.Parameter
	cb     func(image.Image)
}

var _ domain.Filter = (*asyncFilter)(nil)

func (f *asyncFilter) Name() string {
	return f.name
}

func (f *asyncFilter) Apply(img image.Image) bool {
	if img == nil {
		return false
	}
	if !f.busy.CompareAndSwap(false, true) {
		return false
	}

	f.mu.Lock()
	params := cloneParams(f.params)
	cb := f.cb
	f.mu.Unlock()

	go func() {
		out := f.fn(img, params)
		f.busy.Store(false)
		if cb != nil {
			cb(out)
		}
	}()

	return true
}

func (f *asyncFilter) ResetParameters() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.params {
		f.params[i].Value = f.params[i].Default
	}
}

func (f *asyncFilter) Parameters() []domain.Parameter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneParams(f.params)
}

func (f *asyncFilter) SetParameter(name string, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.params {
		if f.params[i].Name != name {
			continue
		}
		if value < f.params[i].Min {
			value = f.params[i].Min
		}
		if value > f.params[i].Max {
			value = f.params[i].Max
		}
		f.params[i].Value = value
		return nil
	}
	return fmt.Errorf("filter %s has no parameter %q", f.name, name)
}

func (f *asyncFilter) OnApplied(fn func(image.Image)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cb = fn
}

func cloneParams(params []domain.Parameter) []domain.Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]domain.Parameter, len(params))
	copy(out, params)
	return out
}

// param looks up a parameter value by name, falling back to def when the
// snapshot does not carry it.
func param(params []domain.Parameter, name string, def float64) float64 {
	for i := range params {
		if params[i].Name == name {
			return params[i].Value
		}
	}
	return def
}
