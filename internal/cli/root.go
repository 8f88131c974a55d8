// Package cli implements the reel command line.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thruflo/reel/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Frame-sequence animation player",
	Long: `Reel plays a movie made of still images: single frames, numbered
sequences or sprite sheets, preloaded in the background and played at a
fixed frame rate in the terminal. Named clips of the movie can be played
one at a time or as a queue.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("reel version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logging.SetOutput(log.New(f, "", log.LstdFlags))
	}
	return nil
}
