// Command wavegrid runs an explicit finite-difference wave simulation on a
// 1-4 dimensional grid and renders it as an animation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/wavegrid/config"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wavegrid",
		Short: "Finite-difference wave simulation on an N-dimensional grid",
		Long: `wavegrid integrates u_tt = u_xx + u_yy + ... on [-1, 1]^D from a Gaussian
pulse, renders center-line profiles of the field at fixed intervals, and
assembles the frames into an animated PNG or MJPEG video.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log JSON to stderr instead of text")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newEncodeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func setupLogging(cmd *cobra.Command) {
	jsonOut, _ := cmd.Flags().GetBool("log-json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	if jsonOut {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig initializes the global config from --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if err := config.Init(path); err != nil {
		return nil, err
	}
	return config.Cfg(), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wavegrid version %s\n", version)
		},
	}
}
