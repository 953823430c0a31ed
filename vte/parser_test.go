package vte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedStr(p *Parser, s string) (*Seq, SeqType) {
	var seq *Seq
	var typ SeqType
	for _, r := range s {
		seq, typ = p.Feed(r)
	}
	return seq, typ
}

func TestParserPrintsPlainASCII(t *testing.T) {
	p := NewParser()
	seq, typ := p.Feed('A')
	assert.Equal(t, SeqPrint, typ)
	assert.Equal(t, 'A', seq.Char)
}

func TestParserExecutesC0Control(t *testing.T) {
	p := NewParser()
	seq, typ := p.Feed('\n')
	assert.Equal(t, SeqExecute, typ)
	assert.Equal(t, CommandLF, seq.Command)
}

// Scenario (e): ESC [ 1 ; 2 H -> CSI CUP with two args, no
// intermediates.
func TestParserScenarioE(t *testing.T) {
	p := NewParser()
	seq, typ := feedStr(p, "\x1b[1;2H")

	assert.Equal(t, SeqCSI, typ)
	assert.Equal(t, CommandCUP, seq.Command)
	assert.Equal(t, 2, seq.NArgs)
	assert.Equal(t, int32(1), seq.Args[0])
	assert.Equal(t, int32(2), seq.Args[1])
	assert.Equal(t, uint32(0), seq.Intermediates)
	assert.Equal(t, StateGround, p.State())
}

// Scenario (f): after decoding, the parser sees two printable chars
// then an escape dispatch for RIS.
func TestParserScenarioF(t *testing.T) {
	p := NewParser()

	_, t1 := p.Feed(0xC3)
	assert.Equal(t, SeqPrint, t1)
	_, t2 := p.Feed(0x28)
	assert.Equal(t, SeqPrint, t2)
	_, t3 := p.Feed(0x1B)
	assert.Equal(t, SeqNone, t3)
	seq, t4 := p.Feed('c')
	assert.Equal(t, SeqEscape, t4)
	assert.Equal(t, CommandRIS, seq.Command)
}

// Required generalization: ':' inside CSI parameters forces
// csi_ignore, unlike the teacher's subparameter-extending behavior.
func TestParserColonForcesCSIIgnore(t *testing.T) {
	p := NewParser()
	_, typ := feedStr(p, "\x1b[38:5:196m")

	assert.Equal(t, SeqNone, typ, "the whole sequence is swallowed by csi_ignore")
	assert.Equal(t, StateGround, p.State())
}

// ESC must abort a CSI sequence in progress rather than being executed
// or silently ignored — this is the bug flagged against the
// unmodified copy of the sequence parser.
func TestParserESCAbortsInProgressCSI(t *testing.T) {
	p := NewParser()
	feedStr(p, "\x1b[1;2")
	assert.Equal(t, StateCSIParam, p.State())

	_, typ := p.Feed(0x1B)
	assert.Equal(t, SeqNone, typ)
	assert.Equal(t, StateEscape, p.State())

	seq, typ2 := p.Feed('c')
	assert.Equal(t, SeqEscape, typ2)
	assert.Equal(t, CommandRIS, seq.Command)
}

func TestParserOSCDiscardsPayloadButReportsTermination(t *testing.T) {
	p := NewParser()
	_, typ := feedStr(p, "\x1b]0;some title\x07")
	assert.Equal(t, SeqOSC, typ)
	assert.Equal(t, StateGround, p.State())
}

func TestParserOSCTerminatedByST(t *testing.T) {
	p := NewParser()
	_, typ := feedStr(p, "\x1b]0;some title\x1b\\")
	assert.Equal(t, SeqOSC, typ)
}

func TestParserDCSIsRecognizedAndDiscarded(t *testing.T) {
	p := NewParser()
	_, typ := feedStr(p, "\x1bP1$q\x1b\\")
	assert.Equal(t, SeqDCS, typ)
	assert.Equal(t, StateGround, p.State())
}

func TestParserCANAbortsFromAnyState(t *testing.T) {
	p := NewParser()
	feedStr(p, "\x1b[1;2")
	seq, typ := p.Feed(0x18)
	assert.Equal(t, SeqExecute, typ)
	assert.Equal(t, CommandCAN, seq.Command)
	assert.Equal(t, StateGround, p.State())
}

func TestParserSGRWithManyArgs(t *testing.T) {
	p := NewParser()
	seq, typ := feedStr(p, "\x1b[1;31;42m")
	assert.Equal(t, SeqCSI, typ)
	assert.Equal(t, CommandSGR, seq.Command)
	assert.Equal(t, 3, seq.NArgs)
	assert.Equal(t, []int32{1, 31, 42}, seq.Args[:3])
}

func TestParserDECPrivateModeSet(t *testing.T) {
	p := NewParser()
	seq, typ := feedStr(p, "\x1b[?25h")
	assert.Equal(t, SeqCSI, typ)
	assert.Equal(t, CommandDECSET, seq.Command)
	assert.Equal(t, int32(25), seq.Args[0])
}
