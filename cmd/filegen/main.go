// Command filegen is a diagnostic round-trip utility, not part of the
// library's contract: it generates 1M int32 values, runs them through one
// pipeline stage (a codec or a shuffle filter), and confirms the inverse
// operation reproduces the original bytes exactly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "filegen",
		Short: "round-trip diagnostics for codecs and filters",
	}

	root.AddCommand(
		newCompressCommand(),
		newDecompressCommand(),
		newShuffleCommand(false),
		newShuffleCommand(true),
		newUnshuffleCommand(false),
		newUnshuffleCommand(true),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sampleInt32s returns n deterministic int32 values as little-endian bytes:
// a slowly-varying ramp, compressible enough for every codec here to do
// something useful with it while still exercising multiple blocks.
func sampleInt32s(n int) []byte {
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := uint32(i / 17)
		buf[i*4+0] = byte(v)
		buf[i*4+1] = byte(v >> 8)
		buf[i*4+2] = byte(v >> 16)
		buf[i*4+3] = byte(v >> 24)
	}

	return buf
}

const sampleCount = 1_000_000
