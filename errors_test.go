package minios

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredError(t *testing.T) {
	err := NewError("semSignal", 2, ErrIllegalSignal, "not the holder")

	assert.Equal(t, "semSignal", err.Op)
	assert.Equal(t, ErrIllegalSignal, err.Code)
	assert.Equal(t, "minios: not the holder (op=semSignal)", err.Error())
}

func TestWrapError(t *testing.T) {
	inner := errors.New("no such file")
	err := WrapError("readFile", 1, inner)

	require.NotNil(t, err)
	assert.Equal(t, ErrFileIO, err.Code)
	assert.True(t, errors.Is(err, inner) || errors.Unwrap(err) == inner)
}

func TestWrapErrorNil(t *testing.T) {
	assert.Nil(t, WrapError("readFile", 1, nil))
}

func TestIsCode(t *testing.T) {
	err := NewError("assign", 0, ErrVarStoreFull, "no free slot")
	assert.True(t, IsCode(err, ErrVarStoreFull))
	assert.False(t, IsCode(err, ErrBadCommand))
	assert.False(t, IsCode(errors.New("plain"), ErrVarStoreFull))
}
