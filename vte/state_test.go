package vte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateNames(t *testing.T) {
	assert.Equal(t, "ground", StateGround.String())
	assert.Equal(t, "csi_ignore", StateCSIIgnore.String())
	assert.Equal(t, "st_ignore", StateSOSPMApcString.String())
}

func TestGlobalEdgeFromAnyState(t *testing.T) {
	for _, s := range []State{StateGround, StateCSIParam, StateDCSPassthrough, StateOSCString} {
		next, ok := globalEdge(s, 0x1B)
		assert.True(t, ok)
		assert.Equal(t, StateEscape, next)
	}
}

func TestGlobalEdgeSTTerminatesOpenSequenceButNotGround(t *testing.T) {
	_, ok := globalEdge(StateGround, 0x9C)
	assert.False(t, ok, "ST in ground has no open string to close")

	next, ok := globalEdge(StateOSCString, 0x9C)
	assert.True(t, ok)
	assert.Equal(t, StateGround, next)
}

func TestStringCollectingStates(t *testing.T) {
	assert.True(t, stringCollecting(StateOSCString))
	assert.True(t, stringCollecting(StateDCSPassthrough))
	assert.False(t, stringCollecting(StateGround))
	assert.False(t, stringCollecting(StateCSIParam))
}
