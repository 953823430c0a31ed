package vte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedAll(d *Decoder, bytes ...byte) []rune {
	var out []rune
	for _, b := range bytes {
		out = append(out, d.Feed(b)...)
	}
	return out
}

func TestDecoderASCIIPassesThrough(t *testing.T) {
	d := NewDecoder()
	assert.Equal(t, []rune{'a'}, feedAll(d, 'a'))
}

func TestDecoderThreeByteSequence(t *testing.T) {
	d := NewDecoder()
	// U+4E2D ("中"): E4 B8 AD
	out := feedAll(d, 0xE4, 0xB8, 0xAD)
	assert.Equal(t, []rune{0x4E2D}, out)
}

// Invariant #8 / scenario (f): a lead byte for a 2-byte sequence (0xC3)
// followed by a non-continuation byte (0x28, '(') flushes the lead
// byte as Latin-1 and reprocesses 0x28 fresh, yielding two code
// points from one aborted sequence.
func TestDecoderAbortedSequenceFlushesLatin1AndReprocesses(t *testing.T) {
	d := NewDecoder()
	out := feedAll(d, 0xC3, 0x28)
	assert.Equal(t, []rune{0xC3, 0x28}, out)
}

// Scenario (f): 0xC3 0x28 ESC c decodes to four code points, which the
// parser then classifies as two printable chars followed by an escape
// dispatch for RIS.
func TestDecoderScenarioF(t *testing.T) {
	d := NewDecoder()
	out := feedAll(d, 0xC3, 0x28, 0x1B, 0x63)
	assert.Equal(t, []rune{0xC3, 0x28, 0x1B, 0x63}, out)
}

func TestDecoderAbortByControlByte(t *testing.T) {
	d := NewDecoder()
	// A 3-byte lead followed immediately by a control byte: the
	// pending lead is flushed as Latin-1, then the control byte is
	// reprocessed as itself (ASCII, single-byte).
	out := feedAll(d, 0xE4, 0x0A)
	assert.Equal(t, []rune{0xE4, 0x0A}, out)
}

func TestEncodeRoundTripsBasicMultiplane(t *testing.T) {
	for _, r := range []rune{'A', 0x00A3, 0x4E2D, 0x1F600} {
		bytes, n := Encode(r)
		assert.NotZero(t, n)
		assert.Len(t, bytes, n)

		d := NewDecoder()
		out := feedAll(d, bytes...)
		assert.Equal(t, []rune{r}, out)
	}
}

func TestEncodeRejectsBeyondTwentyOneBits(t *testing.T) {
	_, n := Encode(1 << 21)
	assert.Equal(t, 0, n)
}
