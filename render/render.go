// Package render draws simulation frames as PNG charts: one center-line
// profile per axis plus, for fields of two or more dimensions, a heatmap of
// the central plane.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/mazznoer/colorgrad"
	xdraw "golang.org/x/image/draw"

	"github.com/pthm-cable/wavegrid/field"
	"github.com/pthm-cable/wavegrid/sim"
)

// Minimum frame size go-chart can lay out a panel in.
const (
	MinWidth  = 160
	MinHeight = 120
)

// ErrUnknownGradient is returned for an unrecognized heatmap gradient name.
var ErrUnknownGradient = errors.New("unknown gradient")

// Options configures a Renderer.
type Options struct {
	Dir      string // Frame directory, created if missing
	Width    int
	Height   int
	YMin     float64 // Value range shared by profiles and heatmap
	YMax     float64
	Heatmap  bool
	Gradient string
}

// DefaultOptions returns the stock frame layout.
func DefaultOptions() Options {
	return Options{
		Dir:      "frames",
		Width:    1280,
		Height:   720,
		YMin:     -1,
		YMax:     1,
		Heatmap:  true,
		Gradient: "viridis",
	}
}

// Renderer writes one numbered PNG per sample.
type Renderer struct {
	opts    Options
	palette []color.Color
}

// New validates opts and prepares the frame directory.
func New(opts Options) (*Renderer, error) {
	if opts.Width < MinWidth || opts.Height < MinHeight {
		return nil, fmt.Errorf("frame size %dx%d below minimum %dx%d",
			opts.Width, opts.Height, MinWidth, MinHeight)
	}
	if !(opts.YMax > opts.YMin) {
		return nil, fmt.Errorf("value range [%v, %v] is empty", opts.YMin, opts.YMax)
	}
	palette, err := Palette(opts.Gradient)
	if err != nil {
		return nil, err
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("creating frame directory: %w", err)
		}
	}
	return &Renderer{
		opts:    opts,
		palette: palette,
	}, nil
}

// Options returns the renderer's configuration.
func (r *Renderer) Options() Options { return r.opts }

// Render draws s and writes it to FramePath(Dir, s.Index).
func (r *Renderer) Render(s sim.FrameSample) (string, error) {
	img, err := r.Image(s)
	if err != nil {
		return "", err
	}
	path := FramePath(r.opts.Dir, s.Index)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// Image draws s without writing it. The field is only read.
func (r *Renderer) Image(s sim.FrameSample) (*image.RGBA, error) {
	w, h := r.opts.Width, r.opts.Height
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	drawTitle(canvas, Title(s.Dims, s.Scheme), s.Time)

	n := s.Dims
	heatmap := r.opts.Heatmap && s.Dims >= 2
	if heatmap {
		n++
	}
	cells := layout(n, image.Rect(0, titleHeight, w, h))

	xs := s.Axis()
	for a := 0; a < s.Dims; a++ {
		panel, err := r.profilePanel(AxisName(a), xs, s.Profile(a), cells[a].Dx(), cells[a].Dy())
		if err != nil {
			return nil, fmt.Errorf("frame %d axis %s: %w", s.Index, AxisName(a), err)
		}
		xdraw.Draw(canvas, cells[a], panel, panel.Bounds().Min, xdraw.Src)
	}
	if heatmap {
		r.drawHeatmap(canvas, cells[n-1], s)
	}
	return canvas, nil
}

// Title names the equation being solved, e.g. "2D, u_tt = u_xx + u_yy".
func Title(dims int, scheme field.Scheme) string {
	terms := make([]string, dims)
	for a := range terms {
		n := AxisName(a)
		terms[a] = "u_" + n + n
	}
	lhs := "u_tt"
	if scheme == field.Diffusion {
		lhs = "u_t"
	}
	return fmt.Sprintf("%dD, %s = %s", dims, lhs, strings.Join(terms, " + "))
}

// AxisName labels axis a: x, y, z, w, then x5, x6, ...
func AxisName(a int) string {
	if a < 4 {
		return string("xyzw"[a])
	}
	return fmt.Sprintf("x%d", a+1)
}

// FramePath is the file for snapshot i: <dir>/0000.png, <dir>/0001.png, ...
func FramePath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%04d.png", i))
}

// FramePaths lists the first n frame paths in order.
func FramePaths(dir string, n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = FramePath(dir, i)
	}
	return paths
}

// paletteSize is the number of heatmap color steps.
const paletteSize = 256

// Palette samples the named heatmap gradient. Empty selects viridis.
func Palette(name string) ([]color.Color, error) {
	switch strings.ToLower(name) {
	case "", "viridis":
		return colorgrad.Viridis().Colors(paletteSize), nil
	case "inferno":
		return colorgrad.Inferno().Colors(paletteSize), nil
	case "magma":
		return colorgrad.Magma().Colors(paletteSize), nil
	case "plasma":
		return colorgrad.Plasma().Colors(paletteSize), nil
	case "turbo":
		return colorgrad.Turbo().Colors(paletteSize), nil
	case "rdbu":
		return colorgrad.RdBu().Colors(paletteSize), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGradient, name)
}

// layout splits area into n near-square cells, row-major.
func layout(n int, area image.Rectangle) []image.Rectangle {
	cols := 1
	for cols*cols < n {
		cols++
	}
	rows := (n + cols - 1) / cols
	cw, ch := area.Dx()/cols, area.Dy()/rows

	cells := make([]image.Rectangle, n)
	for i := range cells {
		x0 := area.Min.X + (i%cols)*cw
		y0 := area.Min.Y + (i/cols)*ch
		cells[i] = image.Rect(x0, y0, x0+cw, y0+ch)
	}
	return cells
}
