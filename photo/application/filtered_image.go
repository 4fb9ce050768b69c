package application

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/akarlsen/filterlab/photo/domain"
	"github.com/akarlsen/filterlab/photo/imaging"
)

// NotificationKind identifies which aspect of the component changed.
type NotificationKind string

const (
	SourceChanged   NotificationKind = "source-changed"
	ImageChanged    NotificationKind = "image-changed"
	ApplyingChanged NotificationKind = "applying-changed"
	ImageSaved      NotificationKind = "image-saved"
)

// Notification is delivered to subscribers whenever the component mutates.
// Only the fields relevant to the kind are populated.
type Notification struct {
	Kind     NotificationKind `json:"kind"`
	Source   string           `json:"source,omitempty"`
	Applying bool             `json:"applying"`
	Filename string           `json:"filename,omitempty"`
}

const subscriberBuffer = 16

// FilteredImage holds a decoded baseline image, an optional filtered result,
// and the currently attached filter collaborator. All state transitions are
// serialized by an internal mutex; filter completions arrive asynchronously
// from filter goroutines and are folded in under the same lock.
//
// Invariant: IsApplyingFilter() == true implies a filter dispatch is
// outstanding and has neither completed nor been reset.
type FilteredImage struct {
	mu       sync.Mutex
	source   string
	img      image.Image // baseline, orientation-corrected
	filtered image.Image // nil means no filter result yet
	filter   domain.Filter
	applying bool
	size     domain.Size
	dirty    bool

	// generation tags each dispatch; completions carrying a stale
	// generation are discarded instead of overwriting a newer result.
	generation uint64

	store domain.ImageStore
	saves domain.SavedImageRepository

	subMu   sync.Mutex
	subs    map[int]chan Notification
	nextSub int
}

func NewFilteredImage(store domain.ImageStore, saves domain.SavedImageRepository) *FilteredImage {
	return &FilteredImage{
		store: store,
		saves: saves,
		subs:  map[int]chan Notification{},
	}
}

// Source returns the path of the currently loaded image file.
func (s *FilteredImage) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Image returns the filtered result when one is present, otherwise the
// baseline image. Nil when nothing has been loaded.
func (s *FilteredImage) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filtered != nil {
		return s.filtered
	}
	return s.img
}

// Size returns the display size computed from the orientation-corrected
// baseline.
func (s *FilteredImage) Size() domain.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *FilteredImage) IsApplyingFilter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applying
}

// SetSource loads the image at path, corrects its orientation, and makes it
// the new baseline. Setting the current path again is a no-op and fires no
// notifications. A decode failure leaves the previous state untouched.
func (s *FilteredImage) SetSource(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == path {
		return nil
	}

	img, err := imaging.Load(path)
	if err != nil {
		return err
	}

	s.source = path
	s.img = img
	s.filtered = nil
	s.generation++
	s.size = domain.SizeOf(img)
	s.dirty = true

	s.notify(Notification{Kind: SourceChanged, Source: path})
	s.notify(Notification{Kind: ImageChanged})
	return nil
}

// ApplyFilter detaches any previously attached filter and attaches f.
// A nil f behaves like ResetFilter. A parameterless filter is dispatched
// immediately against the baseline; a filter with configurable parameters is
// never auto-dispatched and ends in the reset state, awaiting an explicit
// ReApplyFilter once its parameters are set.
func (s *FilteredImage) ApplyFilter(f domain.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter != nil {
		// Detaching orphans any completion the previous filter still has in
		// flight.
		s.filter.OnApplied(nil)
		s.generation++
	}
	s.filter = f

	if f == nil {
		s.resetFilter()
		return
	}

	if len(f.Parameters()) == 0 {
		if s.dispatch(f) {
			s.setApplying(true)
		} else {
			s.setApplying(false)
		}
		return
	}

	s.resetFilter()
}

// ReApplyFilter re-dispatches the attached filter against the baseline.
// Called after parameters change.
func (s *FilteredImage) ReApplyFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter == nil {
		return
	}
	if s.dispatch(s.filter) {
		s.setApplying(true)
	}
}

// ResetFilter resets the attached filter's parameters to their defaults and
// replaces the filter result with the unfiltered baseline.
func (s *FilteredImage) ResetFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetFilter()
}

// ApplyCurrentFilter commits the current filter result into the baseline.
// A second call is a no-op since the result has already been promoted.
func (s *FilteredImage) ApplyCurrentFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyCurrentFilter()
}

// SetFilterParameter forwards a parameter change to the attached filter.
func (s *FilteredImage) SetFilterParameter(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter == nil {
		return fmt.Errorf("no filter attached")
	}
	return s.filter.SetParameter(name, value)
}

// Filter returns the currently attached filter collaborator, or nil.
func (s *FilteredImage) Filter() domain.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SaveImage commits the current filter result and writes the baseline to the
// image store. The generated filename is announced to subscribers only after
// the write succeeds.
func (s *FilteredImage) SaveImage(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyCurrentFilter()

	if s.img == nil {
		return "", fmt.Errorf("no image loaded")
	}

	file, err := s.store.Write(ctx, s.img)
	if err != nil {
		return "", err
	}

	if s.saves != nil {
		record := &domain.SavedImage{
			Filename: file.Filename,
			Source:   s.source,
			Hash:     file.Hash,
			Width:    s.size.Width,
			Height:   s.size.Height,
		}
		if s.filter != nil {
			record.Filter = s.filter.Name()
		}
		if err := s.saves.RecordSave(ctx, record); err != nil {
			log.Warn().Err(err).Str("filename", file.Filename).Msg("Failed to record save")
		}
	}

	s.notify(Notification{Kind: ImageSaved, Filename: file.Filename})
	return file.Filename, nil
}

// Frame returns the image the renderer should draw (filtered result when
// present, otherwise the baseline), the display size, and whether the image
// changed since the last call. The dirty flag is consumed.
func (s *FilteredImage) Frame() (image.Image, domain.Size, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img := s.img
	if s.filtered != nil {
		img = s.filtered
	}
	dirty := s.dirty
	s.dirty = false
	return img, s.size, dirty
}

// Subscribe registers a notification channel. The returned cancel function
// unregisters and closes it. Slow subscribers never block the component;
// notifications that do not fit the channel buffer are dropped.
func (s *FilteredImage) Subscribe() (<-chan Notification, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Notification, subscriberBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// dispatch wires a fresh completion callback tagged with the next generation
// and hands the baseline to the filter. The generation advances only when the
// filter accepts the dispatch; a rejected dispatch must not invalidate a
// completion that is still in flight. Caller holds s.mu.
func (s *FilteredImage) dispatch(f domain.Filter) bool {
	gen := s.generation + 1
	f.OnApplied(func(out image.Image) {
		s.filterApplied(gen, out)
	})
	if !f.Apply(s.img) {
		cur := s.generation
		f.OnApplied(func(out image.Image) {
			s.filterApplied(cur, out)
		})
		return false
	}
	s.generation = gen
	return true
}

// filterApplied folds an asynchronous filter completion into component state.
func (s *FilteredImage) filterApplied(gen uint64, out image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Debug().Uint64("generation", gen).Msg("Discarding stale filter completion")
		return
	}

	s.filtered = out
	s.dirty = true
	s.notify(Notification{Kind: ImageChanged})
	s.setApplying(false)
}

func (s *FilteredImage) resetFilter() {
	if s.filter != nil {
		s.filter.ResetParameters()
	}

	s.generation++
	s.filtered = s.img
	s.dirty = true
	s.notify(Notification{Kind: ImageChanged})
	s.setApplying(false)
}

func (s *FilteredImage) applyCurrentFilter() {
	if s.filtered == nil {
		return
	}
	s.img = s.filtered
	s.filtered = nil
}

func (s *FilteredImage) setApplying(v bool) {
	if s.applying == v {
		return
	}
	s.applying = v
	s.notify(Notification{Kind: ApplyingChanged, Applying: v})
}

func (s *FilteredImage) notify(n Notification) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- n:
		default:
		}
	}
}
