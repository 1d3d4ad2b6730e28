package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/wavegrid/encode"
	"github.com/pthm-cable/wavegrid/render"
	"github.com/pthm-cable/wavegrid/telemetry"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("output %q missing version %s", out, version)
	}
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run",
		"--dims", "1",
		"--num-grid", "21",
		"--snapshots", "3",
		"--steps", "2",
		"--courant", "1",
		"--output-dir", dir,
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, p := range append(render.FramePaths(filepath.Join(dir, "frames"), 3),
		filepath.Join(dir, "wave_1d.png"),
		filepath.Join(dir, telemetry.ProbeFile),
		filepath.Join(dir, telemetry.PerfFile),
		filepath.Join(dir, telemetry.ConfigFile),
	) {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}

	probe, err := os.ReadFile(filepath.Join(dir, telemetry.ProbeFile))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(probe), "\n"); n != 4 {
		t.Errorf("probe.csv has %d lines, want header + 3", n)
	}
}

func TestRunCmdNoRender(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run",
		"--dims", "3",
		"--num-grid", "9",
		"--snapshots", "2",
		"--steps", "1",
		"--scheme", "diffusion",
		"--no-render",
		"--output-dir", dir,
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "frames")); !os.IsNotExist(err) {
		t.Error("frames written with --no-render")
	}
	if _, err := os.Stat(filepath.Join(dir, telemetry.ProbeFile)); err != nil {
		t.Errorf("probe.csv missing: %v", err)
	}
}

func TestRunCmdInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"grid too small", []string{"--num-grid", "2"}},
		{"unknown scheme", []string{"--scheme", "spectral"}},
		{"unknown format", []string{"--format", "gif"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "--output-dir", t.TempDir(), "--snapshots", "1"}, tt.args...)
			if _, err := execute(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncodeCmd(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "run", "--dims", "2", "--num-grid", "11", "--snapshots", "2",
		"--steps", "1", "--no-encode", "--output-dir", dir); err != nil {
		t.Fatalf("run: %v", err)
	}
	frames := filepath.Join(dir, "frames")
	out := filepath.Join(dir, "clip.avi")
	if _, err := execute(t, "encode", frames, "--format", "mjpeg", "--output", out); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Errorf("animation not written: %v", err)
	}

	// A gap in the numbering fails instead of skipping the frame.
	if err := os.Remove(render.FramePath(frames, 0)); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "encode", frames, "--output", filepath.Join(dir, "gap.png"))
	if !errors.Is(err, encode.ErrMissingFrame) {
		t.Errorf("err = %v, want ErrMissingFrame", err)
	}
}

func TestFramePathsInEmpty(t *testing.T) {
	if _, err := framePathsIn(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}
