package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

const (
	svgNS            = "http://www.w3.org/2000/svg"
	classLine        = "tufte-line-chart"
	classMultiples   = "tufte-small-multiples"
	defaultMultTitle = "Small multiples"
)

// chart ids are stable for the same input
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("uxkit/chart"))

// Renderer produces SVG documents.
type Renderer struct {
	opts Options
	log  *zap.Logger
}

// New returns renderer using opts as given, zero margins included. Start from
// DefaultOptions to get the usual layout.
func New(opts Options, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{opts: opts, log: log.Named("chart")}
}

func (r *Renderer) Options() Options {
	return r.opts
}

type scale struct {
	min, max float64
}

func (s scale) span() float64 {
	if d := s.max - s.min; d != 0 {
		return d
	}
	return 1
}

func newScale(series ...[]Point) (scale, error) {
	s := scale{min: math.Inf(1), max: math.Inf(-1)}
	for i, points := range series {
		if len(points) == 0 {
			return s, fmt.Errorf("series %d: %w", i, ErrNoData)
		}
		for j, p := range points {
			v := float64(p)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return s, fmt.Errorf("series %d, point %d: value is not finite", i, j)
			}
			s.min = math.Min(s.min, v)
			s.max = math.Max(s.max, v)
		}
	}
	return s, nil
}

func (r *Renderer) checkArea() (w, h float64, err error) {
	w, h = r.opts.plot()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("plot area %sx%s is empty, check width, height and margins", num(w), num(h))
	}
	return w, h, nil
}

// Line renders single series chart with max and min labels.
func (r *Renderer) Line(points []Point) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	w, h, err := r.checkArea()
	if err != nil {
		return nil, err
	}
	sc, err := newScale(points)
	if err != nil {
		return nil, err
	}

	doc, svg := r.document(r.opts.Width, r.opts.Height, classLine, points)
	if len(r.opts.Title) > 0 {
		svg.CreateElement("title").SetText(r.opts.Title)
	}
	r.panel(svg, points, sc, w, h, false)

	r.log.Debug("Line chart rendered", zap.Int("points", len(points)), zap.Float64("min", sc.min), zap.Float64("max", sc.max))
	return write(doc)
}

// SmallMultiples renders one panel per series laid out in Columns columns.
// All panels use the same vertical scale.
func (r *Renderer) SmallMultiples(series [][]Point) ([]byte, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}
	w, h, err := r.checkArea()
	if err != nil {
		return nil, err
	}
	sc, err := newScale(series...)
	if err != nil {
		return nil, err
	}

	cols := max(r.opts.Columns, 1)
	rows := (len(series) + cols - 1) / cols

	doc, svg := r.document(r.opts.Width*float64(cols), r.opts.Height*float64(rows), classMultiples, series...)
	title := r.opts.Title
	if len(title) == 0 {
		title = defaultMultTitle
	}
	svg.CreateElement("title").SetText(title)

	for i, points := range series {
		x := float64(i%cols) * r.opts.Width
		y := float64(i/cols) * r.opts.Height
		g := svg.CreateElement("g")
		g.CreateAttr("transform", "translate("+num(x)+","+num(y)+")")
		inner := g.CreateElement("g")
		inner.CreateAttr("class", "panel")
		r.panel(inner, points, sc, w, h, true)
	}

	r.log.Debug("Small multiples rendered", zap.Int("panels", len(series)), zap.Int("columns", cols), zap.Int("rows", rows))
	return write(doc)
}

func (r *Renderer) document(width, height float64, class string, series ...[]Point) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", svgNS)
	svg.CreateAttr("id", "chart-"+chartID(class, r.opts, series).String())
	svg.CreateAttr("viewBox", "0 0 "+num(width)+" "+num(height))
	svg.CreateAttr("width", num(width))
	svg.CreateAttr("height", num(height))
	svg.CreateAttr("class", class)
	svg.CreateAttr("role", "img")
	return doc, svg
}

func (r *Renderer) panel(parent *etree.Element, points []Point, sc scale, w, h float64, filled bool) {
	m := r.opts.Margin
	var d strings.Builder
	for i, p := range points {
		x := m.Left + float64(i)/float64(max(len(points)-1, 1))*w
		y := m.Top + h - (float64(p)-sc.min)/sc.span()*h
		if i == 0 {
			d.WriteString("M ")
		} else {
			d.WriteString(" L ")
		}
		d.WriteString(num(x) + "," + num(y))
	}

	path := parent.CreateElement("path")
	path.CreateAttr("d", d.String())
	path.CreateAttr("fill", "none")
	path.CreateAttr("stroke", r.opts.Stroke)
	path.CreateAttr("stroke-width", num(r.opts.StrokeWidth))

	for _, l := range []struct {
		y     float64
		value float64
	}{
		{m.Top - 6, sc.max},
		{m.Top + h + 4, sc.min},
	} {
		text := parent.CreateElement("text")
		text.CreateAttr("x", num(m.Left))
		text.CreateAttr("y", num(l.y))
		text.CreateAttr("font-size", num(r.opts.FontSize))
		text.CreateAttr("font-family", r.opts.FontFamily)
		if filled {
			text.CreateAttr("fill", r.opts.Stroke)
		}
		text.SetText(strconv.FormatFloat(l.value, 'f', 1, 64))
	}
}

func chartID(class string, opts Options, series [][]Point) uuid.UUID {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%+v", class, opts)
	for _, points := range series {
		b.WriteByte('|')
		for _, p := range points {
			b.WriteString(num(float64(p)))
			b.WriteByte(',')
		}
	}
	return uuid.NewSHA1(idNamespace, []byte(b.String()))
}

func write(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("unable to write svg: %w", err)
	}
	return buf.Bytes(), nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
