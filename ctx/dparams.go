package ctx

import (
	"fmt"

	"github.com/gocaterva/bstore/internal/options"
)

// PostFilter is called on each decompressed block before it's written to the
// destination, mirroring blosc2's dparams.postfilter hook.
type PostFilter func(blockIndex int, data []byte) error

// DParams configures one decompression operation.
type DParams struct {
	NThreads   int
	PostFilter PostFilter
}

func DefaultDParams() DParams {
	return DParams{NThreads: 1}
}

type DParamsOption = options.Option[*DParams]

func WithDNThreads(n int) DParamsOption {
	return options.New(func(d *DParams) error {
		if n < 1 {
			return fmt.Errorf("ctx: nthreads must be >= 1, got %d", n)
		}
		d.NThreads = n

		return nil
	})
}

func WithPostFilter(fn PostFilter) DParamsOption {
	return options.NoError(func(d *DParams) { d.PostFilter = fn })
}

func NewDParams(opts ...DParamsOption) (DParams, error) {
	dp := DefaultDParams()
	if err := options.Apply(&dp, opts...); err != nil {
		return DParams{}, err
	}

	return dp, nil
}
