// Package chart renders minimal data-ink SVG charts: a single series line
// chart and small multiples sharing one scale.
package chart

type Margin struct {
	Top    float64 `yaml:"top" validate:"gte=0"`
	Right  float64 `yaml:"right" validate:"gte=0"`
	Bottom float64 `yaml:"bottom" validate:"gte=0"`
	Left   float64 `yaml:"left" validate:"gte=0"`
}

// Options describe chart geometry and styling. For small multiples Width and
// Height are panel dimensions.
type Options struct {
	Width       float64 `yaml:"width" validate:"gte=0"`
	Height      float64 `yaml:"height" validate:"gte=0"`
	Margin      Margin  `yaml:"margin"`
	Stroke      string  `yaml:"stroke"`
	StrokeWidth float64 `yaml:"stroke_width" validate:"gte=0"`
	FontSize    float64 `yaml:"font_size" validate:"gte=0"`
	FontFamily  string  `yaml:"font_family"`
	Columns     int     `yaml:"columns" validate:"gte=0"`
	Title       string  `yaml:"title,omitempty"`
}

func DefaultOptions() Options {
	return Options{
		Width:       400,
		Height:      300,
		Margin:      Margin{Top: 20, Right: 20, Bottom: 30, Left: 40},
		Stroke:      "#333",
		StrokeWidth: 1.5,
		FontSize:    12,
		FontFamily:  "Georgia, serif",
		Columns:     2,
	}
}

// Merge returns copy of o with every non-zero field of over applied.
func (o Options) Merge(over Options) Options {
	if over.Width > 0 {
		o.Width = over.Width
	}
	if over.Height > 0 {
		o.Height = over.Height
	}
	if over.Margin.Top > 0 {
		o.Margin.Top = over.Margin.Top
	}
	if over.Margin.Right > 0 {
		o.Margin.Right = over.Margin.Right
	}
	if over.Margin.Bottom > 0 {
		o.Margin.Bottom = over.Margin.Bottom
	}
	if over.Margin.Left > 0 {
		o.Margin.Left = over.Margin.Left
	}
	if len(over.Stroke) > 0 {
		o.Stroke = over.Stroke
	}
	if over.StrokeWidth > 0 {
		o.StrokeWidth = over.StrokeWidth
	}
	if over.FontSize > 0 {
		o.FontSize = over.FontSize
	}
	if len(over.FontFamily) > 0 {
		o.FontFamily = over.FontFamily
	}
	if over.Columns > 0 {
		o.Columns = over.Columns
	}
	if len(over.Title) > 0 {
		o.Title = over.Title
	}
	return o
}

// plot returns drawing area dimensions.
func (o Options) plot() (w, h float64) {
	return o.Width - o.Margin.Left - o.Margin.Right, o.Height - o.Margin.Top - o.Margin.Bottom
}
