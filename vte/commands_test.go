package vte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveControlCommon(t *testing.T) {
	assert.Equal(t, CommandLF, resolveControl(0x0A))
	assert.Equal(t, CommandCR, resolveControl(0x0D))
	assert.Equal(t, CommandBEL, resolveControl(0x07))
}

func TestResolveEscapeRIS(t *testing.T) {
	cmd, charset := resolveEscape('c', 0)
	assert.Equal(t, CommandRIS, cmd)
	assert.Equal(t, rune(0), charset)
}

func TestResolveEscapeCharsetDesignation(t *testing.T) {
	var bits uint32
	bits |= 1 << uint('('-0x20)
	cmd, charset := resolveEscape('0', bits)
	assert.Equal(t, CommandSCS, cmd)
	assert.Equal(t, rune('0'), charset)
}

func TestResolveCSICUP(t *testing.T) {
	cmd := resolveCSI('H', 0, 2, 1)
	assert.Equal(t, CommandCUP, cmd)
}

// Ambiguous final 'T': exactly 5 args means xterm's initiate-highlight
// mouse-tracking, anything else means scroll-down.
func TestResolveCSIAmbiguousT(t *testing.T) {
	assert.Equal(t, CommandXTERMIHMT, resolveCSI('T', 0, 5, 1))
	assert.Equal(t, CommandSD, resolveCSI('T', 0, 1, 1))
	assert.Equal(t, CommandSD, resolveCSI('T', 0, 0, -1))
}

func TestResolveCSIPrivateMarkerDisambiguatesSetReset(t *testing.T) {
	var bits uint32
	bits |= 1 << uint('?'-0x20)
	assert.Equal(t, CommandDECSET, resolveCSI('h', bits, 1, 25))
	assert.Equal(t, CommandSM, resolveCSI('h', 0, 1, 4))
	assert.Equal(t, CommandDECRST, resolveCSI('l', bits, 1, 25))
	assert.Equal(t, CommandRM, resolveCSI('l', 0, 1, 4))
}

func TestResolveCSICompoundS(t *testing.T) {
	assert.Equal(t, CommandDECSLRMorSC, resolveCSI('s', 0, 0, -1))
}
