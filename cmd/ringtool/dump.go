package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/width"

	"github.com/korken89/defmt-persist/internal/frontend"
	"github.com/korken89/defmt-persist/internal/ringbuf"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <region-file>",
		Short: "Decode and print the frames currently persisted in a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

func runDump(path string) error {
	mem, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ringtool dump: read %q: %w", path, err)
	}

	snap, err := ringbuf.Inspect(mem)
	if err != nil {
		return fmt.Errorf("ringtool dump: %w", err)
	}

	fmt.Printf("header valid: %v  identifier: %x  read: %d  write: %d  data_len: %d\n",
		snap.HeaderValid, snap.Identifier, snap.Read, snap.Write, snap.DataLen)

	a, b := snap.Bytes()
	if a == nil && b == nil {
		fmt.Println("(indices out of range; region needs recovery before it can be read)")
		return nil
	}

	full := append(append([]byte{}, a...), b...)
	for i, frame := range splitFrames(full) {
		decoded := frontend.DecodeCOBS(frame)
		text, cols := renderWide(decoded)
		fmt.Printf("frame %3d: %-*s (%d bytes, %d cols)\n", i, cols, text, len(decoded), cols)
	}
	return nil
}

// splitFrames breaks the readable byte range into zero-delimited frames,
// dropping a final partial frame that has no trailing delimiter yet (for
// example, the producer is mid-write).
func splitFrames(data []byte) [][]byte {
	var frames [][]byte
	start := 0
	for i, b := range data {
		if b == 0 {
			frames = append(frames, data[start:i])
			start = i + 1
		}
	}
	return frames
}

// renderWide returns decoded as text plus its terminal column width:
// east-asian wide and fullwidth runes occupy two columns, so a naive
// byte- or rune-count would misalign the frame table once any frame
// contains such text.
func renderWide(decoded []byte) (string, int) {
	var b strings.Builder
	cols := 0
	for _, r := range string(decoded) {
		b.WriteRune(r)
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			cols += 2
		default:
			cols++
		}
	}
	return b.String(), cols
}
