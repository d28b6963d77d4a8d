package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gocaterva/bstore/filter"
	"github.com/gocaterva/bstore/format"
)

func shuffleFilterID(bit bool) format.FilterID {
	if bit {
		return format.FilterBitShuffle
	}

	return format.FilterShuffle
}

func newShuffleCommand(bit bool) *cobra.Command {
	name := "shuffle"
	if bit {
		name = "bitshuffle"
	}

	return &cobra.Command{
		Use:   name + " <out>",
		Short: "apply " + name + " to 1M int32 values and verify the inverse recovers them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := sampleInt32s(sampleCount)

			f := filter.Get(shuffleFilterID(bit))
			if f == nil {
				return fmt.Errorf("filter %s not registered", name)
			}

			shuffled := make([]byte, len(src))
			if err := f.Forward(shuffled, src, 4, 0); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			if err := os.WriteFile(args[0], shuffled, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}

			back := make([]byte, len(src))
			if err := f.Inverse(back, shuffled, 4, 0); err != nil {
				return fmt.Errorf("un%s: %w", name, err)
			}
			if !bytes.Equal(back, src) {
				return fmt.Errorf("round trip mismatch: %d/%d bytes differ", countDiff(back, src), len(src))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d bytes\n", len(src))

			return nil
		},
	}
}

func newUnshuffleCommand(bit bool) *cobra.Command {
	name := "unshuffle"
	if bit {
		name = "bitunshuffle"
	}

	return &cobra.Command{
		Use:   name + " <in>",
		Short: "invert " + strings.Replace(name, "un", "", 1) + " on a file previously written by " + strings.Replace(name, "un", "", 1) + " and verify it recovers the 1M int32 values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			f := filter.Get(shuffleFilterID(bit))
			if f == nil {
				return fmt.Errorf("filter not registered")
			}

			out := make([]byte, len(data))
			if err := f.Inverse(out, data, 4, 0); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			want := sampleInt32s(sampleCount)
			if !bytes.Equal(out, want) {
				return fmt.Errorf("round trip mismatch: %d/%d bytes differ", countDiff(out, want), len(want))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d bytes\n", len(out))

			return nil
		},
	}
}
