package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	require.Equal(t, 0.0, Percent(5, 0))
	require.Equal(t, 50.0, Percent(5, 10))
	require.Equal(t, 33.33, Percent(1, 3))
	require.Equal(t, 66.67, Percent(2, 3))
	require.Equal(t, 120.0, Percent(12, 10))
}

func TestStateDisplay(t *testing.T) {
	require.Equal(t, "Not Started", StateNotStarted.Display())
	require.Equal(t, "In Progress", StateInProgress.Display())
	require.Equal(t, "Completed", StateCompleted.Display())
	require.Equal(t, "", State("XX").Display())
}

func TestStateFromDisplay(t *testing.T) {
	state, ok := StateFromDisplay("Completed")
	require.True(t, ok)
	require.Equal(t, StateCompleted, state)

	_, ok = StateFromDisplay("completed")
	require.False(t, ok)

	_, ok = StateFromDisplay("CO")
	require.False(t, ok)
}
