package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/go-minios/internal/constants"
)

func TestFCFSOrdering(t *testing.T) {
	s := NewFCFS()
	for _, pid := range []int{1, 2, 3} {
		_, err := s.Enqueue(pid, 0)
		require.NoError(t, err)
	}

	for _, want := range []int{1, 2, 3} {
		pid, _, ok := s.Next()
		require.True(t, ok)
		assert.Equal(t, want, pid)
	}
	_, _, ok := s.Next()
	assert.False(t, ok)
}

func TestRoundRobinRequeueToTail(t *testing.T) {
	s := NewRoundRobin()
	_, _ = s.Enqueue(1, 0)
	_, _ = s.Enqueue(2, 0)

	pid, _, ok := s.Next()
	require.True(t, ok)
	require.Equal(t, 1, pid)

	_, err := s.Enqueue(pid, 0)
	require.NoError(t, err)

	pid, _, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, 2, pid, "p2 dispatches before the requeued p1")
}

func TestFCFSQueueOverflow(t *testing.T) {
	s := NewFCFS()
	for i := 0; i < constants.ReadyQueueCapacity; i++ {
		_, err := s.Enqueue(i, 0)
		require.NoError(t, err)
	}
	_, err := s.Enqueue(99, 0)
	assert.Error(t, err)
}

func TestMLFQDispatchesHighestLevelFirst(t *testing.T) {
	s := NewMLFQ()
	_, _ = s.Enqueue(1, 2)
	_, _ = s.Enqueue(2, 0)

	pid, level, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, 2, pid)
	assert.Equal(t, 0, level)
}

func TestMLFQDemoteClampsAtLowestLevel(t *testing.T) {
	s := NewMLFQ()
	assert.Equal(t, 1, s.Demote(0))
	assert.Equal(t, 2, s.Demote(1))
	assert.Equal(t, 3, s.Demote(2))
	assert.Equal(t, 3, s.Demote(3), "level 3 is the floor")
}

func TestMLFQEnqueueFallsBackToLowerLevel(t *testing.T) {
	s := NewMLFQ()
	for i := 0; i < constants.ReadyQueueCapacity; i++ {
		_, err := s.Enqueue(i, 0)
		require.NoError(t, err)
	}

	level, err := s.Enqueue(99, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, level, "level 0 full, falls back to level 1")
}

func TestMLFQAllLevelsFullReturnsError(t *testing.T) {
	s := NewMLFQ()
	for level := 0; level < constants.MLFQLevels; level++ {
		for i := 0; i < constants.ReadyQueueCapacity; i++ {
			_, err := s.Enqueue(level*100+i, level)
			require.NoError(t, err)
		}
	}

	_, err := s.Enqueue(999, 0)
	assert.Error(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewFCFS()
	_, _ = s.Enqueue(1, 0)

	snap := s.Snapshot()
	_, _ = s.Enqueue(2, 0)

	assert.Equal(t, []int{1}, snap[0])
}
