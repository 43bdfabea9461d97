// Command ringtool is the host-side developer tool for a Persist Region:
// it dumps and decodes a region snapshot, derives and stamps identifiers,
// injects the corruption patterns the recovery property tests require,
// and replays a live region's frames to stdout. It plays the role
// original_source's xtask crate plays for the Rust implementation this
// was ported from.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ringtool",
	Short: "Inspect and manipulate defmt-persist ring buffer regions",
}

func init() {
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newCorruptCmd())
	rootCmd.AddCommand(newIdentCmd())
	rootCmd.AddCommand(newReplayCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
