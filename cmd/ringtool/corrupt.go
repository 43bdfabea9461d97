package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/korken89/defmt-persist/internal/ringbuf"
)

func newCorruptCmd() *cobra.Command {
	var field, pattern string

	cmd := &cobra.Command{
		Use:   "corrupt <region-file>",
		Short: "Inject a corruption pattern into a region, for recovery property tests",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCorrupt(args[0], field, pattern)
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "header|read|write")
	cmd.Flags().StringVar(&pattern, "pattern", "", "invalid-magic|high-byte-0xff|both-oor")
	cmd.MarkFlagRequired("field")
	cmd.MarkFlagRequired("pattern")

	return cmd
}

func runCorrupt(path, field, pattern string) error {
	mem, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ringtool corrupt: read %q: %w", path, err)
	}

	_, headerOff, _, readOff, writeOff, _ := ringbuf.CompiledLayout()

	apply := func(off int) error {
		switch pattern {
		case "invalid-magic":
			mem[off] ^= 0xFF
		case "high-byte-0xff":
			mem[off+3] = 0xFF
		case "both-oor":
			mem[readOff] = 0xFF
			mem[readOff+1] = 0xFF
			mem[readOff+2] = 0xFF
			mem[readOff+3] = 0xFF
			mem[writeOff] = 0xFF
			mem[writeOff+1] = 0xFF
			mem[writeOff+2] = 0xFF
			mem[writeOff+3] = 0xFF
		default:
			return fmt.Errorf("ringtool corrupt: unknown pattern %q", pattern)
		}
		return nil
	}

	var off int
	switch field {
	case "header":
		off = headerOff
	case "read":
		off = readOff
	case "write":
		off = writeOff
	default:
		return fmt.Errorf("ringtool corrupt: unknown field %q", field)
	}

	if err := apply(off); err != nil {
		return err
	}

	if err := os.WriteFile(path, mem, 0o644); err != nil {
		return fmt.Errorf("ringtool corrupt: write %q: %w", path, err)
	}
	return nil
}
