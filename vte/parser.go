package vte

// Parser is the control-sequence state machine. Feed takes one
// already-decoded code point (see Decoder) and returns the sequence it
// completed, if any, classified by SeqType. The returned *Seq is owned
// by the Parser and is only valid until the next Feed call — callers
// that need to keep it must copy out what they need immediately.
//
// Per spec's non-goal on DCS/OSC payload execution, both are
// recognized and tracked only far enough to know when they terminate;
// their body bytes are never collected or handed to a caller. Seq.ST
// instead records how the sequence terminated (BEL, ST-as-two-bytes,
// or the raw 0x9C byte) for a caller doing conformance testing.
type Parser struct {
	state State
	seq   *Seq

	curParam   int32
	hasParam   bool
	ignoring   bool
	pendingESC bool
}

// NewParser returns a Parser starting in the ground state.
func NewParser() *Parser {
	return &Parser{
		state: StateGround,
		seq:   NewSeq(),
	}
}

// State returns the parser's current state, mainly for tests.
func (p *Parser) State() State { return p.state }

func (p *Parser) resetSeq() {
	p.seq.Clear()
	p.curParam = 0
	p.hasParam = false
	p.ignoring = false
	p.pendingESC = false
}

// Feed advances the state machine by one code point.
func (p *Parser) Feed(ucs4 rune) (*Seq, SeqType) {
	// CAN/SUB abort whatever was being collected, unconditionally, and
	// are themselves executed, per spec §4.7's global edge.
	if ucs4 == 0x18 || ucs4 == 0x1A {
		p.state = StateGround
		p.resetSeq()
		p.seq.Type = SeqExecute
		p.seq.Char = ucs4
		p.seq.Command = resolveControl(byte(ucs4))
		return p.seq, SeqExecute
	}

	if stringCollecting(p.state) {
		return p.feedString(ucs4)
	}

	// The C1 introducers (DCS/CSI/OSC/SOS-PM-APC) and ESC itself are
	// "anywhere" edges: they preempt whatever the current state was
	// doing, including mid-CSI-parameter collection. Escape and
	// escape-intermediate still route their own ASCII introducers
	// ('[', ']', 'P', ...) through feedEscape/feedEscapeIntermediate,
	// since those aren't raw C1 bytes and globalEdge only recognizes
	// the byte values.
	if ucs4 <= 0xFF {
		if next, ok := globalEdge(p.state, byte(ucs4)); ok {
			p.state = next
			p.resetSeq()
			return nil, SeqNone
		}
	}

	switch p.state {
	case StateGround:
		return p.feedGround(ucs4)
	case StateEscape:
		return p.feedEscape(ucs4)
	case StateEscapeIntermediate:
		return p.feedEscapeIntermediate(ucs4)
	case StateCSIEntry:
		return p.feedCSIParamLike(ucs4, StateCSIEntry)
	case StateCSIParam:
		return p.feedCSIParamLike(ucs4, StateCSIParam)
	case StateCSIIntermediate:
		return p.feedCSIIntermediate(ucs4)
	case StateCSIIgnore:
		return p.feedCSIIgnore(ucs4)
	default:
		p.state = StateGround
		return nil, SeqNone
	}
}

// feedGround only sees bytes globalEdge didn't already claim: ESC and
// the raw C1 introducers (0x90/0x9B/0x9D/0x98/0x9E/0x9F) never reach
// here.
func (p *Parser) feedGround(ucs4 rune) (*Seq, SeqType) {
	b := byte(ucs4)
	switch {
	case ucs4 < 0x20:
		p.seq.Type = SeqExecute
		p.seq.Char = ucs4
		p.seq.Command = resolveControl(b)
		return p.seq, SeqExecute
	case ucs4 == 0x7F:
		return nil, SeqNone
	case ucs4 >= 0x20 && ucs4 <= 0x7E:
		p.seq.Type = SeqPrint
		p.seq.Char = ucs4
		return p.seq, SeqPrint
	case ucs4 >= 0x80 && ucs4 <= 0x9F:
		p.seq.Type = SeqExecute
		p.seq.Char = ucs4
		p.seq.Command = resolveControl(b)
		return p.seq, SeqExecute
	default: // >= 0xA0: any other printable code point
		p.seq.Type = SeqPrint
		p.seq.Char = ucs4
		return p.seq, SeqPrint
	}
}

// introducer handles escape's own ASCII sub-dispatches to DCS/CSI/OSC/
// SOS-PM-APC; the raw C1 byte forms of the same introducers are caught
// upstream by globalEdge before feedEscape/feedEscapeIntermediate ever
// run.
func (p *Parser) introducer(ucs4 rune) (State, bool) {
	switch ucs4 {
	case 'P':
		return StateDCSEntry, true
	case '[':
		return StateCSIEntry, true
	case ']':
		return StateOSCString, true
	case 'X', '^', '_':
		return StateSOSPMApcString, true
	}
	return StateGround, false
}

func (p *Parser) feedEscape(ucs4 rune) (*Seq, SeqType) {
	b := byte(ucs4)
	switch {
	case ucs4 < 0x20:
		p.seq.Type = SeqExecute
		p.seq.Char = ucs4
		p.seq.Command = resolveControl(b)
		return p.seq, SeqExecute
	case ucs4 >= 0x20 && ucs4 <= 0x2F:
		p.seq.addIntermediate(b)
		p.state = StateEscapeIntermediate
		return nil, SeqNone
	}

	if st, ok := p.introducer(ucs4); ok {
		p.state = st
		p.resetSeq()
		return nil, SeqNone
	}

	switch {
	case ucs4 == 0x7F:
		return nil, SeqNone
	case ucs4 >= 0x30 && ucs4 <= 0x7E:
		return p.dispatchEscape(b)
	default:
		p.state = StateGround
		return nil, SeqNone
	}
}

func (p *Parser) feedEscapeIntermediate(ucs4 rune) (*Seq, SeqType) {
	b := byte(ucs4)
	switch {
	case ucs4 < 0x20:
		p.seq.Type = SeqExecute
		p.seq.Char = ucs4
		p.seq.Command = resolveControl(b)
		return p.seq, SeqExecute
	case ucs4 >= 0x20 && ucs4 <= 0x2F:
		p.seq.addIntermediate(b)
		return nil, SeqNone
	case ucs4 == 0x7F:
		return nil, SeqNone
	case ucs4 >= 0x30 && ucs4 <= 0x7E:
		return p.dispatchEscape(b)
	default:
		p.state = StateGround
		return nil, SeqNone
	}
}

func (p *Parser) dispatchEscape(terminator byte) (*Seq, SeqType) {
	cmd, charset := resolveEscape(terminator, p.seq.Intermediates)
	p.seq.Type = SeqEscape
	p.seq.Command = cmd
	p.seq.Terminator = terminator
	p.seq.Charset = charset
	p.state = StateGround
	return p.seq, SeqEscape
}

func (p *Parser) finalizeCurrentParam() {
	if p.hasParam {
		p.seq.pushArg(p.curParam)
		p.curParam = 0
		p.hasParam = false
	}
}

func (p *Parser) feedCSIParamLike(ucs4 rune, from State) (*Seq, SeqType) {
	b := byte(ucs4)
	switch {
	case ucs4 < 0x20:
		p.seq.Type = SeqExecute
		p.seq.Char = ucs4
		p.seq.Command = resolveControl(b)
		return p.seq, SeqExecute
	case ucs4 >= 0x20 && ucs4 <= 0x2F:
		p.seq.addIntermediate(b)
		p.state = StateCSIIntermediate
		return nil, SeqNone
	case ucs4 >= '0' && ucs4 <= '9':
		digit := int32(b - '0')
		if !p.hasParam {
			p.curParam = digit
			p.hasParam = true
		} else {
			p.curParam = p.curParam*10 + digit
			if p.curParam > 0xFFFF {
				p.curParam = 0xFFFF
			}
		}
		p.state = StateCSIParam
		return nil, SeqNone
	case ucs4 == ':':
		// Required generalization: ':' always forces csi_ignore,
		// unlike the teacher's subparameter-extending behavior.
		p.ignoring = true
		p.state = StateCSIIgnore
		return nil, SeqNone
	case ucs4 == ';':
		if p.hasParam {
			p.finalizeCurrentParam()
		} else if p.seq.NArgs < maxArgs {
			// An empty parameter keeps its cleared -1 slot, so Arg
			// substitutes the caller's default for it.
			p.seq.NArgs++
		}
		p.state = StateCSIParam
		return nil, SeqNone
	case ucs4 >= '<' && ucs4 <= '?':
		if from == StateCSIEntry {
			p.seq.addIntermediate(b)
			p.state = StateCSIParam
		} else {
			p.state = StateCSIIgnore
		}
		return nil, SeqNone
	case ucs4 >= 0x40 && ucs4 <= 0x7E:
		return p.dispatchCSI(b)
	case ucs4 == 0x7F:
		return nil, SeqNone
	default:
		p.state = StateCSIIgnore
		return nil, SeqNone
	}
}

func (p *Parser) feedCSIIntermediate(ucs4 rune) (*Seq, SeqType) {
	b := byte(ucs4)
	switch {
	case ucs4 < 0x20:
		p.seq.Type = SeqExecute
		p.seq.Char = ucs4
		p.seq.Command = resolveControl(b)
		return p.seq, SeqExecute
	case ucs4 >= 0x20 && ucs4 <= 0x2F:
		p.seq.addIntermediate(b)
		return nil, SeqNone
	case ucs4 >= 0x30 && ucs4 <= 0x3F:
		p.state = StateCSIIgnore
		return nil, SeqNone
	case ucs4 >= 0x40 && ucs4 <= 0x7E:
		return p.dispatchCSI(b)
	case ucs4 == 0x7F:
		return nil, SeqNone
	default:
		p.state = StateCSIIgnore
		return nil, SeqNone
	}
}

func (p *Parser) feedCSIIgnore(ucs4 rune) (*Seq, SeqType) {
	switch {
	case ucs4 < 0x20:
		p.seq.Type = SeqExecute
		p.seq.Char = ucs4
		p.seq.Command = resolveControl(byte(ucs4))
		return p.seq, SeqExecute
	case ucs4 >= 0x20 && ucs4 <= 0x3F:
		return nil, SeqNone
	case ucs4 >= 0x40 && ucs4 <= 0x7E:
		p.state = StateGround
		p.resetSeq()
		return nil, SeqNone
	default:
		return nil, SeqNone
	}
}

func (p *Parser) dispatchCSI(terminator byte) (*Seq, SeqType) {
	p.finalizeCurrentParam()
	cmd := resolveCSI(terminator, p.seq.Intermediates, p.seq.NArgs, p.seq.Arg(0, -1))
	p.seq.Type = SeqCSI
	p.seq.Command = cmd
	p.seq.Terminator = terminator
	p.state = StateGround
	return p.seq, SeqCSI
}

// feedString handles every string-collecting state (OSC, DCS header
// through passthrough, and SOS/PM/APC): bytes are consumed without
// retention per spec's non-goal on DCS/OSC payload execution, and the
// only thing reported back is how/whether the string terminated.
func (p *Parser) feedString(ucs4 rune) (*Seq, SeqType) {
	if p.pendingESC {
		p.pendingESC = false
		if ucs4 == '\\' {
			return p.terminateString([]byte{0x1B, '\\'})
		}
		// Not ST: the buffered ESC starts a fresh sequence of its own.
		p.state = StateEscape
		p.resetSeq()
		return p.Feed(ucs4)
	}

	switch ucs4 {
	case 0x1B:
		p.pendingESC = true
		return nil, SeqNone
	case 0x07:
		return p.terminateString([]byte{0x07})
	case 0x9C:
		return p.terminateString([]byte{0x9C})
	default:
		// DCS header bytes (params/intermediates/the dispatch byte that
		// would normally Hook) and OSC/SOS-PM-APC body bytes alike are
		// simply discarded; only the DCS dispatch byte needs to flip
		// the sub-state from header-collection to passthrough so a
		// later ST/BEL still terminates correctly.
		if isDCSHeaderState(p.state) && ucs4 >= 0x40 && ucs4 <= 0x7E {
			p.state = StateDCSPassthrough
		}
		return nil, SeqNone
	}
}

func isDCSHeaderState(s State) bool {
	switch s {
	case StateDCSEntry, StateDCSParam, StateDCSIntermediate:
		return true
	default:
		return false
	}
}

func (p *Parser) terminateString(st []byte) (*Seq, SeqType) {
	wasOSC := p.state == StateOSCString
	wasDCS := p.state == StateDCSEntry || p.state == StateDCSParam ||
		p.state == StateDCSIntermediate || p.state == StateDCSPassthrough ||
		p.state == StateDCSIgnore

	p.state = StateGround
	p.seq.Clear()
	p.seq.ST = append(p.seq.ST[:0], st...)

	switch {
	case wasOSC:
		p.seq.Type = SeqOSC
		return p.seq, SeqOSC
	case wasDCS:
		p.seq.Type = SeqDCS
		return p.seq, SeqDCS
	default:
		return nil, SeqNone
	}
}
