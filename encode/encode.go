// Package encode assembles rendered PNG frames into an animation.
package encode

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrMissingFrame is returned when a frame file does not exist.
	ErrMissingFrame = errors.New("missing frame")
	// ErrUnknownFormat is returned by New for an unrecognized format name.
	ErrUnknownFormat = errors.New("unknown format")
)

// Format names accepted by New.
const (
	FormatAPNG  = "apng"
	FormatMJPEG = "mjpeg"
)

// Encoder writes an animation from frame paths in display order.
type Encoder interface {
	Encode(ctx context.Context, paths []string) error
}

// Options configures an encoder.
type Options struct {
	Output      string
	DelayNum    uint16 // Frame delay numerator, seconds
	DelayDen    uint16 // Frame delay denominator
	Loops       uint   // APNG plays; 0 = forever
	JPEGQuality int    // MJPEG only
	Workers     int    // Concurrent frame decoders
}

// DefaultOptions returns 20 frames per second, looping forever.
func DefaultOptions() Options {
	return Options{
		DelayNum:    1,
		DelayDen:    20,
		JPEGQuality: 90,
		Workers:     4,
	}
}

// New returns the encoder for format.
func New(format string, opts Options) (Encoder, error) {
	if opts.Output == "" {
		return nil, errors.New("encode: output path is empty")
	}
	if opts.DelayNum == 0 || opts.DelayDen == 0 {
		return nil, fmt.Errorf("encode: frame delay %d/%d must be positive", opts.DelayNum, opts.DelayDen)
	}
	switch strings.ToLower(format) {
	case FormatAPNG:
		return &APNG{opts: opts}, nil
	case FormatMJPEG:
		if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
			return nil, fmt.Errorf("encode: jpeg quality %d not in [1, 100]", opts.JPEGQuality)
		}
		return &MJPEG{opts: opts}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// DefaultOutput names the animation file for a run: wave_2d.png, wave_3d.avi, ...
func DefaultOutput(format string, dims int) string {
	ext := ".png"
	if strings.EqualFold(format, FormatMJPEG) {
		ext = ".avi"
	}
	return fmt.Sprintf("wave_%dd%s", dims, ext)
}

// LoadFrames decodes the PNG files at paths concurrently, with at most
// workers decoders (< 1 means one). Frames are returned in path order. A
// missing file fails the whole load with ErrMissingFrame.
func LoadFrames(ctx context.Context, paths []string, workers int) ([]image.Image, error) {
	if len(paths) == 0 {
		return nil, errors.New("no frames to load")
	}
	if workers < 1 {
		workers = 1
	}

	frames := make([]image.Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodePNG(path)
			if err != nil {
				return err
			}
			frames[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingFrame, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
