package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/reel/internal/sequence"
)

var (
	expandFrom int
	expandTo   int
	expandStep int
)

var expandCmd = &cobra.Command{
	Use:   "expand <pattern>",
	Short: "List the image names a sequence pattern produces",
	Long: `Expands a sequence pattern into image names, one per line.

The first run of # characters in the pattern is replaced by the frame
index, zero-padded to the length of the run. Indices wider than the run
are never truncated.

Example:
  reel expand "frame###.png" --from 1 --to 3
  reel expand "shot#.jpg" --from 0 --to 20 --step 5`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().IntVar(&expandFrom, "from", 0, "first index")
	expandCmd.Flags().IntVar(&expandTo, "to", 1, "last index (inclusive)")
	expandCmd.Flags().IntVar(&expandStep, "step", 1, "index increment")

	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	names, err := sequence.Expand(args[0], expandFrom, expandTo, expandStep)
	if err != nil {
		return fmt.Errorf("failed to expand %q: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
