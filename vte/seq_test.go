package vte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqClearResetsArgsToAbsent(t *testing.T) {
	s := NewSeq()
	s.pushArg(5)
	s.Type = SeqCSI
	s.Command = CommandCUP

	s.Clear()

	assert.Equal(t, SeqNone, s.Type)
	assert.Equal(t, CommandUnknown, s.Command)
	assert.Equal(t, 0, s.NArgs)
	assert.Equal(t, int32(-1), s.Args[0])
}

func TestSeqArgFallsBackToDefaultWhenAbsent(t *testing.T) {
	s := NewSeq()
	assert.Equal(t, int32(1), s.Arg(0, 1))

	s.pushArg(0)
	assert.Equal(t, int32(0), s.Arg(0, 1), "an explicitly-supplied zero is distinct from an absent argument")
}

func TestSeqIntermediatesBitset(t *testing.T) {
	s := NewSeq()
	s.addIntermediate('?')
	s.addIntermediate('(')
	assert.True(t, s.HasIntermediate('?'))
	assert.True(t, s.HasIntermediate('('))
	assert.False(t, s.HasIntermediate(')'))
}

func TestSeqPushArgClampsAndCaps(t *testing.T) {
	s := NewSeq()
	s.pushArg(100000)
	assert.Equal(t, int32(0xFFFF), s.Args[0])

	for i := 0; i < maxArgs+2; i++ {
		s.pushArg(int32(i))
	}
	assert.Equal(t, maxArgs, s.NArgs)
}
