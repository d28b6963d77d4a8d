package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gocaterva/bstore/chunk"
	"github.com/gocaterva/bstore/ctx"
	"github.com/gocaterva/bstore/format"
)

var codecByName = map[string]format.CodecID{
	"blosclz": format.CodecBloscLZ,
	"lz4":     format.CodecLZ4,
	"lz4hc":   format.CodecLZ4HC,
	"zlib":    format.CodecZlib,
	"zstd":    format.CodecZstd,
	"snappy":  format.CodecSnappy,
}

func parseCodec(name string) (format.CodecID, error) {
	id, ok := codecByName[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown codec %q", name)
	}

	return id, nil
}

func newCompressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compress <codec> <out>",
		Short: "compress 1M int32 values and verify the round trip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			codecID, err := parseCodec(args[0])
			if err != nil {
				return err
			}

			src := sampleInt32s(sampleCount)

			cp, err := ctx.NewCParams(ctx.WithCodec(codecID), ctx.WithTypesize(4), ctx.WithCodecLevel(5))
			if err != nil {
				return err
			}

			cctx := ctx.NewCompressContext(cp.Freeze())
			c, err := chunk.Compress(cctx, src)
			if err != nil {
				return fmt.Errorf("compress: %w", err)
			}

			if err := os.WriteFile(args[1], c.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", args[1], err)
			}

			dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
			got, err := chunk.Decompress(dctx, c, nil)
			if err != nil {
				return fmt.Errorf("decompress: %w", err)
			}
			if !bytes.Equal(got, src) {
				return fmt.Errorf("round trip mismatch: %d/%d bytes differ", countDiff(got, src), len(src))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d -> %d bytes (%s)\n", len(src), len(c.Data), codecID)

			return nil
		},
	}
}

func newDecompressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decompress <in>",
		Short: "decompress a chunk previously written by compress and verify it matches the 1M int32 values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			c, err := chunk.Parse(data)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			dctx := ctx.NewDecompressContext(ctx.DefaultDParams())
			out, err := chunk.Decompress(dctx, c, nil)
			if err != nil {
				return fmt.Errorf("decompress: %w", err)
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

func countDiff(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	diff := len(a) - n
	if len(b) > n {
		diff += len(b) - n
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			diff++
		}
	}

	return diff
}
