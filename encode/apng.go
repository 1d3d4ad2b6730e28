package encode

import (
	"context"
	"fmt"
	"os"

	"github.com/kettek/apng"
)

// APNG writes an animated PNG with a uniform frame delay.
type APNG struct {
	opts Options
}

// Encode writes all frames to the configured output.
func (e *APNG) Encode(ctx context.Context, paths []string) error {
	frames, err := LoadFrames(ctx, paths, e.opts.Workers)
	if err != nil {
		return err
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: e.opts.Loops,
	}
	for i, img := range frames {
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   e.opts.DelayNum,
			DelayDenominator: e.opts.DelayDen,
		}
	}

	return writeFile(e.opts.Output, func(f *os.File) error {
		if err := apng.Encode(f, a); err != nil {
			return fmt.Errorf("writing apng: %w", err)
		}
		return nil
	})
}
