package ctx

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPool_ClampsToOne(t *testing.T) {
	require.Equal(t, 1, NewPool(0).NThreads)
	require.Equal(t, 1, NewPool(-3).NThreads)
	require.Equal(t, 4, NewPool(4).NThreads)
}

func TestPool_Run_Inline(t *testing.T) {
	p := NewPool(1)
	var sum int32
	err := p.Run(10, func(i int) error {
		atomic.AddInt32(&sum, int32(i))

		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 45, sum)
}

func TestPool_Run_Parallel(t *testing.T) {
	p := NewPool(8)
	var sum int32
	err := p.Run(100, func(i int) error {
		atomic.AddInt32(&sum, 1)

		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 100, sum)
}

func TestPool_Run_ZeroJobs(t *testing.T) {
	p := NewPool(4)
	called := false
	err := p.Run(0, func(int) error { called = true; return nil })
	require.NoError(t, err)
	require.False(t, called)
}

func TestPool_Run_PropagatesError(t *testing.T) {
	want := errors.New("boom")

	p := NewPool(4)
	err := p.Run(20, func(i int) error {
		if i == 5 {
			return want
		}

		return nil
	})
	require.ErrorIs(t, err, want)
}

func TestPool_Run_PropagatesErrorInline(t *testing.T) {
	want := errors.New("inline boom")

	p := NewPool(1)
	err := p.Run(20, func(i int) error {
		if i == 3 {
			return want
		}

		return nil
	})
	require.ErrorIs(t, err, want)
}
