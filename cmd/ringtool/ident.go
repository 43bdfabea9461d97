package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/blake2s"

	"github.com/korken89/defmt-persist/internal/ringbuf"
)

func newIdentCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "ident <region-file>",
		Short: "Derive an identifier from a firmware build artifact and stamp it into a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runIdent(args[0], from)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "path to the firmware binary to hash (required)")
	cmd.MarkFlagRequired("from")

	return cmd
}

// deriveIdentifier hashes the firmware artifact at path with BLAKE2s-256
// and keeps the first IdentifierSize bytes of the digest — "an opaque tag,
// typically a firmware-image hash" needs no more entropy than that to
// distinguish builds in practice.
func deriveIdentifier(path string) (ringbuf.Identifier, error) {
	var id ringbuf.Identifier

	data, err := os.ReadFile(path)
	if err != nil {
		return id, fmt.Errorf("ringtool ident: read %q: %w", path, err)
	}

	sum := blake2s.Sum256(data)
	copy(id[:], sum[:])
	return id, nil
}

func runIdent(regionPath, firmwarePath string) error {
	id, err := deriveIdentifier(firmwarePath)
	if err != nil {
		return err
	}

	mem, err := os.ReadFile(regionPath)
	if err != nil {
		return fmt.Errorf("ringtool ident: read %q: %w", regionPath, err)
	}

	_, _, identifierOff, _, _, _ := ringbuf.CompiledLayout()
	copy(mem[identifierOff:identifierOff+ringbuf.IdentifierSize], id[:])

	if err := os.WriteFile(regionPath, mem, 0o644); err != nil {
		return fmt.Errorf("ringtool ident: write %q: %w", regionPath, err)
	}

	fmt.Printf("identifier: %x\n", id)
	return nil
}
