package encode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"
)

// MJPEG writes an AVI of JPEG frames at DelayDen/DelayNum frames per second.
type MJPEG struct {
	opts Options
}

// FPS returns the video frame rate, at least 1.
func (e *MJPEG) FPS() int32 {
	return max(1, int32(e.opts.DelayDen)/int32(e.opts.DelayNum))
}

// Encode writes all frames to the configured output.
func (e *MJPEG) Encode(ctx context.Context, paths []string) (err error) {
	frames, err := LoadFrames(ctx, paths, e.opts.Workers)
	if err != nil {
		return err
	}

	b := frames[0].Bounds()
	aw, err := mjpeg.New(e.opts.Output, int32(b.Dx()), int32(b.Dy()), e.FPS())
	if err != nil {
		return fmt.Errorf("creating mjpeg writer: %w", err)
	}
	defer func() {
		if cerr := aw.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing mjpeg writer: %w", cerr))
		}
	}()

	var buf bytes.Buffer
	jopts := &jpeg.Options{Quality: e.opts.JPEGQuality}
	for i, img := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if img.Bounds().Size() != b.Size() {
			return fmt.Errorf("frame %s is %v, want %v", paths[i], img.Bounds().Size(), b.Size())
		}
		if err := jpeg.Encode(&buf, img, jopts); err != nil {
			return fmt.Errorf("encoding frame %s: %w", paths[i], err)
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			return fmt.Errorf("adding frame %s: %w", paths[i], err)
		}
		buf.Reset()
	}
	return nil
}
