package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pthm-cable/wavegrid/field"
	"github.com/pthm-cable/wavegrid/sim"
)

func firstSample(t *testing.T, dims, numGrid int) sim.FrameSample {
	t.Helper()
	seq, err := sim.Run(sim.Params{Dims: dims, NumGrid: numGrid, NumSnapshots: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for s := range seq {
		// Detach from the grid so the sample outlives the range.
		s.Field = slices.Clone(s.Field)
		return s
	}
	t.Fatal("no samples")
	return sim.FrameSample{}
}

func testOptions(dir string) Options {
	opts := DefaultOptions()
	opts.Dir = dir
	opts.Width = 400
	opts.Height = 300
	return opts
}

func TestTitle(t *testing.T) {
	tests := []struct {
		dims   int
		scheme field.Scheme
		want   string
	}{
		{1, field.Wave, "1D, u_tt = u_xx"},
		{2, field.Wave, "2D, u_tt = u_xx + u_yy"},
		{3, field.Diffusion, "3D, u_t = u_xx + u_yy + u_zz"},
		{5, field.Wave, "5D, u_tt = u_xx + u_yy + u_zz + u_ww + u_x5x5"},
	}
	for _, tt := range tests {
		if got := Title(tt.dims, tt.scheme); got != tt.want {
			t.Errorf("Title(%d, %v) = %q, want %q", tt.dims, tt.scheme, got, tt.want)
		}
	}
}

func TestFramePaths(t *testing.T) {
	if got := FramePath("out", 7); got != filepath.Join("out", "0007.png") {
		t.Errorf("FramePath = %q", got)
	}
	paths := FramePaths("f", 3)
	want := []string{filepath.Join("f", "0000.png"), filepath.Join("f", "0001.png"), filepath.Join("f", "0002.png")}
	if !slices.Equal(paths, want) {
		t.Errorf("FramePaths = %v", paths)
	}
}

func TestLayout(t *testing.T) {
	area := image.Rect(0, 0, 400, 200)
	tests := []struct {
		n, cols, rows int
	}{
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
	}
	for _, tt := range tests {
		cells := layout(tt.n, area)
		if len(cells) != tt.n {
			t.Fatalf("layout(%d) returned %d cells", tt.n, len(cells))
		}
		wantW, wantH := 400/tt.cols, 200/tt.rows
		for i, c := range cells {
			if c.Dx() != wantW || c.Dy() != wantH {
				t.Errorf("layout(%d) cell %d is %v, want %dx%d", tt.n, i, c, wantW, wantH)
			}
			if !c.In(area) {
				t.Errorf("layout(%d) cell %d %v outside area", tt.n, i, c)
			}
			for _, o := range cells[:i] {
				if c.Overlaps(o) {
					t.Errorf("layout(%d) cells %v and %v overlap", tt.n, c, o)
				}
			}
		}
	}
}

func TestPalette(t *testing.T) {
	p, err := Palette("")
	if err != nil || len(p) != paletteSize {
		t.Fatalf("default palette: %d colors, err %v", len(p), err)
	}
	if _, err := Palette("Turbo"); err != nil {
		t.Errorf("Turbo: %v", err)
	}
	if _, err := Palette("sepia"); !errors.Is(err, ErrUnknownGradient) {
		t.Errorf("err = %v, want ErrUnknownGradient", err)
	}
}

func TestNewValidation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"too small", func(o *Options) { o.Width = 10 }},
		{"empty range", func(o *Options) { o.YMin, o.YMax = 1, 1 }},
		{"bad gradient", func(o *Options) { o.Gradient = "sepia" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(dir)
			tt.modify(&opts)
			if _, err := New(opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestClampValues(t *testing.T) {
	got := clampValues([]float64{-3, 0.5, 7, math.NaN()}, -1, 1)
	if !slices.Equal(got, []float64{-1, 0.5, 1, 1}) {
		t.Errorf("clampValues = %v", got)
	}
}

func TestRenderWritesFrame(t *testing.T) {
	for _, dims := range []int{1, 2, 3} {
		dir := filepath.Join(t.TempDir(), "frames")
		r, err := New(testOptions(dir))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		s := firstSample(t, dims, 11)
		s.Index = 3
		before := slices.Clone(s.Field)

		path, err := r.Render(s)
		if err != nil {
			t.Fatalf("%dD Render: %v", dims, err)
		}
		if path != FramePath(dir, 3) {
			t.Errorf("path = %q, want %q", path, FramePath(dir, 3))
		}
		if !slices.Equal(s.Field, before) {
			t.Errorf("%dD Render modified the field", dims)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decoding %s: %v", path, err)
		}
		if cfg.Width != 400 || cfg.Height != 300 {
			t.Errorf("%dD frame is %dx%d, want 400x300", dims, cfg.Width, cfg.Height)
		}
	}
}

func TestHeatmapCenterColor(t *testing.T) {
	r, err := New(testOptions(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	s := firstSample(t, 2, 11)
	img, err := r.Image(s)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}

	// Three panels: two profiles and the heatmap in the last cell.
	cells := layout(3, image.Rect(0, titleHeight, 400, 300))
	target := heatmapRect(cells[2])
	mid := image.Pt((target.Min.X+target.Max.X)/2, (target.Min.Y+target.Max.Y)/2)

	want := color.RGBAModel.Convert(r.palette[len(r.palette)-1])
	if got := img.At(mid.X, mid.Y); got != want {
		t.Errorf("heatmap center = %v, want top of palette %v", got, want)
	}
}
