package memarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/go-minios/internal/constants"
)

func TestAllocateLayout(t *testing.T) {
	a := New()
	region, err := a.Allocate(1, []string{"print a", "print b"})
	require.NoError(t, err)

	assert.Equal(t, 1, region.PID)
	assert.Equal(t, 0, region.LB)
	assert.Equal(t, 2, region.InstrCount)
	assert.Equal(t, 2, region.VarBase)
	assert.Equal(t, 2+constants.VariableSlots, region.PCBBase)
	assert.Equal(t, 2+constants.VariableSlots+constants.PCBScratchSlots-1, region.UB)

	text, ok := a.Instruction(region, 0)
	assert.True(t, ok)
	assert.Equal(t, "print a", text)

	text, ok = a.Instruction(region, 1)
	assert.True(t, ok)
	assert.Equal(t, "print b", text)

	_, ok = a.Instruction(region, 2)
	assert.False(t, ok, "pc beyond instrCount must report out of bounds")
}

func TestAllocateSecondProcessFollowsFirst(t *testing.T) {
	a := New()
	r1, err := a.Allocate(1, []string{"print a"})
	require.NoError(t, err)

	r2, err := a.Allocate(2, []string{"print b", "print c"})
	require.NoError(t, err)

	assert.Equal(t, r1.UB+1, r2.LB)
}

func TestAllocateExhaustsArena(t *testing.T) {
	a := New()
	big := make([]string, constants.MaxInstructions)
	for i := range big {
		big[i] = "print x"
	}

	_, err := a.Allocate(1, big)
	require.NoError(t, err, "a maximal program plus its 8 slots fits in the arena")

	_, err = a.Allocate(2, []string{"print y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArenaFull)
}

func TestSetAndGetVariableRoundTrip(t *testing.T) {
	a := New()
	region, err := a.Allocate(1, []string{"assign x 5"})
	require.NoError(t, err)

	ok := a.SetVariable(region, "x", "5")
	require.True(t, ok)

	val, found := a.GetVariable(region, "x")
	require.True(t, found)
	assert.Equal(t, "5", val)
}

func TestSetVariableOverwritesExistingSlot(t *testing.T) {
	a := New()
	region, err := a.Allocate(1, nil)
	require.NoError(t, err)

	require.True(t, a.SetVariable(region, "x", "1"))
	require.True(t, a.SetVariable(region, "x", "2"))

	val, found := a.GetVariable(region, "x")
	require.True(t, found)
	assert.Equal(t, "2", val)
}

func TestSetVariableExhaustsFreeSlots(t *testing.T) {
	a := New()
	region, err := a.Allocate(1, nil)
	require.NoError(t, err)

	for i := 0; i < constants.VariableSlots; i++ {
		require.True(t, a.SetVariable(region, string(rune('a'+i)), "v"))
	}

	ok := a.SetVariable(region, "overflow", "v")
	assert.False(t, ok, "no free variable slot remains")
}

func TestGetVariableMissing(t *testing.T) {
	a := New()
	region, err := a.Allocate(1, nil)
	require.NoError(t, err)

	_, found := a.GetVariable(region, "nope")
	assert.False(t, found)
}

func TestGetVariableFileFallback(t *testing.T) {
	a := New()
	region, err := a.Allocate(1, nil)
	require.NoError(t, err)

	require.True(t, a.SetVariable(region, "file_a", "contents"))

	val, found := a.GetVariable(region, "a")
	require.True(t, found, "lookup of a must fall back to file_a")
	assert.Equal(t, "contents", val)
}

func TestValuesAreTruncated(t *testing.T) {
	a := New()
	region, err := a.Allocate(1, nil)
	require.NoError(t, err)

	long := ""
	for i := 0; i < constants.WordFieldLen+10; i++ {
		long += "x"
	}

	require.True(t, a.SetVariable(region, "x", long))
	val, found := a.GetVariable(region, "x")
	require.True(t, found)
	assert.Len(t, val, constants.WordFieldLen)
}

func TestWordsSnapshotIsIndependentCopy(t *testing.T) {
	a := New()
	region, err := a.Allocate(1, []string{"print a"})
	require.NoError(t, err)

	snap := a.Words()
	assert.Equal(t, "print a", snap[region.LB].Value)

	require.True(t, a.SetVariable(region, "x", "1"))
	assert.Equal(t, "", snap[region.VarBase].Value, "snapshot must not see later mutations")
}
