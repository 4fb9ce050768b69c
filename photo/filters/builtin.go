package filters

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/akarlsen/filterlab/photo/domain"
)

// NewGrayscale returns a parameterless filter that drops all color
// information.
func NewGrayscale() domain.Filter {
	return &asyncFilter{
		name: "grayscale",
		fn: func(img image.Image, _ []domain.Parameter) image.Image {
			return imaging.Grayscale(img)
		},
	}
}

// NewInvert returns a parameterless filter that inverts every channel.
func NewInvert() domain.Filter {
	return &asyncFilter{
		name: "invert",
		fn: func(img image.Image, _ []domain.Parameter) image.Image {
			return imaging.Invert(img)
		},
	}
}

// NewSepia returns a parameterless filter applying the classic sepia tone
// matrix.
func NewSepia() domain.Filter {
	return &asyncFilter{
		name: "sepia",
		fn: func(img image.Image, _ []domain.Parameter) image.Image {
			return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
				r := float64(c.R)
				g := float64(c.G)
				b := float64(c.B)
				return color.NRGBA{
					R: clamp8(0.393*r + 0.769*g + 0.189*b),
					G: clamp8(0.349*r + 0.686*g + 0.168*b),
					B: clamp8(0.272*r + 0.534*g + 0.131*b),
					A: c.A,
				}
			})
		},
	}
}

// NewBlur returns a Gaussian blur filter with a tunable sigma.
func NewBlur() domain.Filter {
	return &asyncFilter{
		name: "blur",
		params: []domain.Parameter{
			{Name: "sigma", Min: 0.1, Max: 10, Default: 2, Value: 2},
		},
		fn: func(img image.Image, params []domain.Parameter) image.Image {
			return imaging.Blur(img, param(params, "sigma", 2))
		},
	}
}

// NewSharpen returns an unsharp-mask filter with a tunable sigma.
func NewSharpen() domain.Filter {
	return &asyncFilter{
		name: "sharpen",
		params: []domain.Parameter{
			{Name: "sigma", Min: 0.1, Max: 5, Default: 1, Value: 1},
		},
		fn: func(img image.Image, params []domain.Parameter) image.Image {
			return imaging.Sharpen(img, param(params, "sigma", 1))
		},
	}
}

// NewBrightness returns a brightness adjustment filter. The percentage
// parameter ranges from -100 (black) to 100 (white).
func NewBrightness() domain.Filter {
	return &asyncFilter{
		name: "brightness",
		params: []domain.Parameter{
			{Name: "percentage", Min: -100, Max: 100, Default: 0, Value: 0},
		},
		fn: func(img image.Image, params []domain.Parameter) image.Image {
			return imaging.AdjustBrightness(img, param(params, "percentage", 0))
		},
	}
}

// NewContrast returns a contrast adjustment filter. The percentage parameter
// ranges from -100 (gray) to 100 (maximum contrast).
func NewContrast() domain.Filter {
	return &asyncFilter{
		name: "contrast",
		params: []domain.Parameter{
			{Name: "percentage", Min: -100, Max: 100, Default: 0, Value: 0},
		},
		fn: func(img image.Image, params []domain.Parameter) image.Image {
			return imaging.AdjustContrast(img, param(params, "percentage", 0))
		},
	}
}

var registry = map[string]func() domain.Filter{
	"grayscale":  NewGrayscale,
	"invert":     NewInvert,
	"sepia":      NewSepia,
	"blur":       NewBlur,
	"sharpen":    NewSharpen,
	"brightness": NewBrightness,
	"contrast":   NewContrast,
}

// New instantiates a registered filter by name.
func New(name string) (domain.Filter, bool) {
	ctor, ok := registry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Names lists all registered filter names in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clamp8(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v + 0.5)
}
