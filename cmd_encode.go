package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/wavegrid/encode"
	"github.com/pthm-cable/wavegrid/render"
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [frames-dir]",
		Short: "Assemble an animation from an existing frame directory",
		Long: `Encode reads the numbered frames 0000.png, 0001.png, ... from frames-dir
(default <output.dir>/<output.frames_dir>) and writes them as one animation.
A gap in the numbering is an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetString("format"); v != "" {
				cfg.Encode.Format = v
			}
			if v, _ := cmd.Flags().GetString("output"); v != "" {
				cfg.Encode.Output = v
			}

			dir := framesDir(cfg)
			if len(args) == 1 {
				dir = args[0]
			}
			paths, err := framePathsIn(dir)
			if err != nil {
				return err
			}

			opts := encodeOptions(cfg)
			enc, err := encode.New(cfg.Encode.Format, opts)
			if err != nil {
				return err
			}
			if err := enc.Encode(cmd.Context(), paths); err != nil {
				return fmt.Errorf("encoding %s: %w", dir, err)
			}
			slog.Info("animation written", "path", opts.Output, "frames", len(paths))
			return nil
		},
	}
	cmd.Flags().String("format", "", "Animation format: apng | mjpeg (empty = use config)")
	cmd.Flags().String("output", "", "Animation file (empty = <output-dir>/wave_<dims>d.<ext>)")
	return cmd
}

// framePathsIn lists the numbered frames 0..max found in dir, in order. Paths
// for frames missing below the highest index are still listed so the
// encoder reports them.
func framePathsIn(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	last := -1
	for _, m := range matches {
		n, err := strconv.Atoi(strings.TrimSuffix(filepath.Base(m), ".png"))
		if err != nil || n < 0 {
			continue
		}
		last = max(last, n)
	}
	if last < 0 {
		return nil, fmt.Errorf("no frames in %s", dir)
	}
	return render.FramePaths(dir, last+1), nil
}
