package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"

	"github.com/pthm-cable/wavegrid/sim"
)

const titleHeight = 28

var profileColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	{R: 255, G: 165, B: 0, A: 255},
}

// profilePanel charts one center-line profile on the fixed [-1, 1] x
// [YMin, YMax] window.
func (r *Renderer) profilePanel(axis string, xs, ys []float64, w, h int) (image.Image, error) {
	graph := chart.Chart{
		Title:  "u along " + axis,
		Width:  w,
		Height: h,
		Background: chart.Style{
			Padding: chart.Box{Top: 32, Left: 16, Right: 24, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  axis,
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: -1, Max: 1},
		},
		YAxis: chart.YAxis{
			Name:  "u",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: r.opts.YMin, Max: r.opts.YMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    axis,
				XValues: xs,
				YValues: clampValues(ys, r.opts.YMin, r.opts.YMax),
				Style:   chart.Style{StrokeColor: profileColor(axis), StrokeWidth: 2.0},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decoding chart: %w", err)
	}
	return img, nil
}

func profileColor(axis string) drawing.Color {
	for i, n := range []string{"x", "y", "z", "w"} {
		if n == axis {
			return profileColors[i]
		}
	}
	return chart.ColorBlack
}

// clampValues pins values to [lo, hi]. NaN is pinned to hi so a blown-up
// field still draws.
func clampValues(vals []float64, lo, hi float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		switch {
		case math.IsNaN(v) || v > hi:
			out[i] = hi
		case v < lo:
			out[i] = lo
		default:
			out[i] = v
		}
	}
	return out
}

// drawHeatmap paints the central axes-0/1 plane into cell, scaled up
// square with nearest-neighbor sampling. Rows run along axis 0 (down),
// columns along axis 1.
func (r *Renderer) drawHeatmap(dst *image.RGBA, cell image.Rectangle, s sim.FrameSample) {
	rows, cols, vals := s.Plane()
	src := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			src.Set(j, i, r.colorFor(vals[i*cols+j]))
		}
	}

	target := heatmapRect(cell)
	if target.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, target, src, src.Bounds(), xdraw.Src, nil)

	label := fmt.Sprintf("%s-%s plane", AxisName(0), AxisName(1))
	addLabel(dst, target.Min.X, target.Min.Y-6, label, color.Black)
}

// heatmapRect is the square centered in cell that the heatmap fills.
func heatmapRect(cell image.Rectangle) image.Rectangle {
	const margin = 24
	side := min(cell.Dx(), cell.Dy()) - 2*margin
	if side < 1 {
		return image.Rectangle{}
	}
	x0 := cell.Min.X + (cell.Dx()-side)/2
	y0 := cell.Min.Y + (cell.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// colorFor maps v in [YMin, YMax] onto the palette.
func (r *Renderer) colorFor(v float64) color.Color {
	t := (v - r.opts.YMin) / (r.opts.YMax - r.opts.YMin)
	if math.IsNaN(t) || t > 1 {
		t = 1
	} else if t < 0 {
		t = 0
	}
	return r.palette[int(t*float64(len(r.palette)-1))]
}

func drawTitle(dst *image.RGBA, title string, simTime float64) {
	addLabel(dst, 12, titleHeight-9, fmt.Sprintf("%s    t = %.4f", title, simTime), color.Black)
}

// addLabel draws a text label with its baseline at y.
func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}
