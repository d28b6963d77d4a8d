package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_ErrorAndUnwrap(t *testing.T) {
	e := New(ErrCorruption, "chunk.Parse")

	require.ErrorIs(t, e, ErrCorruption)
	require.Contains(t, e.Error(), "chunk.Parse")
	require.Contains(t, e.Error(), ErrCorruption.Error())
}

func TestError_WithInfo(t *testing.T) {
	e := New(ErrChunkIndexRange, "schunk.GetChunk").WithInfo("nchunk", 7)

	require.Contains(t, e.Error(), "nchunk")
	require.Equal(t, 7, e.Info["nchunk"])
}

func TestError_PushFrame_NilSafe(t *testing.T) {
	var e *Error
	require.Nil(t, e.PushFrame(Frame{File: "x.go", Line: 1}))
}

func TestError_PushFrame(t *testing.T) {
	e := New(ErrGeneric, "op")
	e.PushFrame(Frame{File: "a.go", Func: "f", Line: 10})

	require.Len(t, e.Stack, 1)
	require.Equal(t, "a.go", e.Stack[0].File)
}

func TestOperationContext_StartResets(t *testing.T) {
	var c OperationContext
	c.Fail(New(ErrCorruption, "op"))
	c.MarkAsWarning(New(ErrChecksumMismatch, "op2"))
	c.SetDynamicInfo("k", "v")

	c.Start()

	require.Nil(t, c.Err())
	require.Empty(t, c.Warnings())
	require.Nil(t, c.DynamicInfo())
}

func TestOperationContext_Fail(t *testing.T) {
	var c OperationContext
	e := New(ErrInvalidParam, "op")

	got := c.Fail(e)

	require.Same(t, e, got)
	require.Same(t, e, c.Err())
}

func TestOperationContext_MarkAsWarning_ClearsActiveError(t *testing.T) {
	var c OperationContext
	e := New(ErrChecksumMismatch, "decompress")
	c.Fail(e)

	c.MarkAsWarning(e)

	require.Nil(t, c.Err())
	require.Len(t, c.Warnings(), 1)
	require.True(t, errors.Is(c.Warnings()[0].Error, ErrChecksumMismatch))
}

func TestOperationContext_DynamicInfo(t *testing.T) {
	var c OperationContext
	c.SetDynamicInfo("nchunk", 3)
	c.SetDynamicInfo("nblock", 2)

	info := c.DynamicInfo()

	require.Equal(t, 3, info["nchunk"])
	require.Equal(t, 2, info["nblock"])
}
