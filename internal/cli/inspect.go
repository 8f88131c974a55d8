package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thruflo/reel/internal/config"
	"github.com/thruflo/reel/internal/frame"
	"github.com/thruflo/reel/internal/sequence"
)

var inspectOptions []string

var inspectCmd = &cobra.Command{
	Use:   "inspect [movie]",
	Short: "Show a movie's settings, frames and clips",
	Long: `Loads a movie file without playing it and prints its settings, the
images it is built from and its clip queue.

With --get only the named options are printed, one per line. Nested
options use dotted names.

Example:
  reel inspect movies/walk
  reel inspect movie.yaml --get fps --get grid.rows`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringArrayVar(&inspectOptions, "get", nil, "print a single option by name (repeatable)")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path, err := findMovie(args)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load movie: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(inspectOptions) > 0 {
		return printOptions(out, cfg, inspectOptions)
	}

	images, err := sequence.Resolve(cfg.Images, cfg.Sequence, cfg.From, cfg.To, cfg.Step)
	if err != nil {
		return fmt.Errorf("failed to resolve images: %w", err)
	}
	index := frame.NewIndex(images, cfg.Grid)

	fmt.Fprintln(out, "Movie")
	fmt.Fprintln(out, "=====")
	fmt.Fprintln(out)
	printField(out, "File", path)
	printField(out, "Folder", cfg.Folder)
	printField(out, "Images", fmt.Sprintf("%d", len(images)))
	printField(out, "Frames", fmt.Sprintf("%d (%d per image)", index.Total(), cfg.Grid.PerImage()))
	printField(out, "Size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	printField(out, "Grid", fmt.Sprintf("%dx%d cells of %dx%d", cfg.Grid.Rows, cfg.Grid.Columns, cfg.Grid.Width, cfg.Grid.Height))
	printField(out, "Frame rate", fmt.Sprintf("%g fps (%s per frame)", cfg.FPS, cfg.Interval().Round(time.Millisecond)))
	printField(out, "Playback", playbackFlags(cfg))
	printField(out, "Loading", fmt.Sprintf("%d parallel, %d retries", cfg.LoadParallel, cfg.Retry.Attempts))
	fmt.Fprintln(out)

	if len(images) > 0 {
		fmt.Fprintln(out, "Images")
		fmt.Fprintln(out, "------")
		for i, img := range images {
			first, last, _ := index.FramesOf(i)
			fmt.Fprintf(out, "  %-4d %s (frames %d-%d)\n", i+1, img, first, last)
		}
		fmt.Fprintln(out)
	}

	printClips(out, cfg.Clips)
	return nil
}

func printOptions(out io.Writer, cfg *config.Config, names []string) error {
	for _, name := range names {
		value, err := config.GetOption(cfg, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s=%v\n", name, value)
	}
	return nil
}

func printClips(out io.Writer, clips []config.Clip) {
	if len(clips) == 0 {
		fmt.Fprintln(out, "No clips.")
		return
	}

	nameWidth := len("CLIP")
	for _, c := range clips {
		if len(c.Name) > nameWidth {
			nameWidth = len(c.Name)
		}
	}

	fmt.Fprintf(out, "%-*s  %5s  %5s  %s\n", nameWidth, "CLIP", "START", "END", "PAUSE")
	fmt.Fprintf(out, "%s  %s  %s  %s\n", strings.Repeat("-", nameWidth), "-----", "-----", "-----")
	for _, c := range clips {
		fmt.Fprintf(out, "%-*s  %5d  %5d  %s\n", nameWidth, c.Name, c.Start, c.End, c.Pause())
	}
}

func playbackFlags(cfg *config.Config) string {
	var flags []string
	if cfg.Repeat {
		flags = append(flags, "repeat")
	}
	if cfg.PlayBackwards {
		flags = append(flags, "backwards")
	}
	if cfg.PlayOnLoad {
		flags = append(flags, "play on load")
	}
	if cfg.PerformStop {
		flags = append(flags, "stop at end")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ", ")
}

func printField(out io.Writer, label, value string) {
	fmt.Fprintf(out, "  %-14s %s\n", label+":", value)
}
