package screen

import (
	"github.com/opendevcon/termcore/page"
	"github.com/opendevcon/termcore/vte"
)

// Dispatch turns one decoded Seq into the Engine call(s) it names. It
// is the translation step spec.md §2's data flow describes as "Screen"
// sitting between the parser and the page: vte classifies wire bytes,
// Dispatch decides what they mean for the grid.
func (e *Engine) Dispatch(seq *vte.Seq, typ vte.SeqType) {
	switch typ {
	case vte.SeqPrint:
		e.lastPrinted = seq.Char
		e.Input(seq.Char)
	case vte.SeqExecute:
		e.dispatchControl(seq.Command)
	case vte.SeqEscape:
		e.dispatchEscape(seq)
	case vte.SeqCSI:
		e.dispatchCSI(seq)
	case vte.SeqOSC, vte.SeqDCS:
		// Payload already discarded by the parser; nothing left to do.
	}
}

// Write decodes and dispatches a raw byte stream end to end: each byte
// goes through Engine's Decoder, each resulting code point through its
// Parser, and each resulting Seq through Dispatch. This is the single
// entry point a pty or socket reader calls.
func (e *Engine) Write(p []byte) {
	for _, b := range p {
		for _, r := range e.decoder.Feed(b) {
			seq, typ := e.parser.Feed(r)
			e.Dispatch(seq, typ)
		}
	}
}

func (e *Engine) dispatchControl(cmd vte.Command) {
	switch cmd {
	case vte.CommandBEL:
		// No bell sink wired up yet; see internal/config for the
		// answerback/bell behavior this is meant to drive.
	case vte.CommandBS:
		e.Backspace()
	case vte.CommandHT:
		e.Tab()
	case vte.CommandLF, vte.CommandVT, vte.CommandFF:
		e.LineFeed()
	case vte.CommandCR:
		e.CarriageReturn()
	case vte.CommandSO:
		e.SetActiveCharset(G1)
	case vte.CommandSI:
		e.SetActiveCharset(G0)
	case vte.CommandIND:
		e.LineFeed()
	case vte.CommandNEL:
		e.LineFeed()
		e.CarriageReturn()
	case vte.CommandHTS:
		e.SetTabStop()
	case vte.CommandRI:
		e.ReverseIndex()
	case vte.CommandSS2:
		e.SetActiveCharset(G2)
	case vte.CommandSS3:
		e.SetActiveCharset(G3)
	case vte.CommandENQ:
		// No reply is sent: Engine has no reply channel, and the
		// answerback string is only exposed through Engine.Answerback.
	case vte.CommandCAN, vte.CommandSUB:
		// Aborted sequence, no grid effect.
	}
}

func (e *Engine) dispatchEscape(seq *vte.Seq) {
	switch seq.Command {
	case vte.CommandRIS:
		e.HardReset()
	case vte.CommandDECSC:
		e.SaveCursorPosition()
	case vte.CommandDECRC:
		e.RestoreCursorPosition()
	case vte.CommandDECKPAM:
		e.SetMode(ModeApplicationKeypad)
	case vte.CommandDECKPNM:
		e.ResetMode(ModeApplicationKeypad)
	case vte.CommandIND:
		e.LineFeed()
	case vte.CommandNEL:
		e.LineFeed()
		e.CarriageReturn()
	case vte.CommandHTS:
		e.SetTabStop()
	case vte.CommandRI:
		e.ReverseIndex()
	case vte.CommandSS2:
		e.SetActiveCharset(G2)
	case vte.CommandSS3:
		e.SetActiveCharset(G3)
	case vte.CommandSCS:
		if idx, ok := gIndexFromIntermediates(seq.Intermediates); ok {
			e.ConfigureCharset(idx, charsetFromDesignator(seq.Charset))
		}
	}
}

// gIndexFromIntermediates maps a charset-designating intermediate bit
// to the G-slot it selects. '(' ')' '*' '+' designate 94-charsets into
// G0-G3; '-' '.' '/' designate 96-charsets into G1-G3. Only one of
// these bits is ever set for a well-formed SCS sequence.
func gIndexFromIntermediates(bits uint32) (CharsetIndex, bool) {
	designators := []struct {
		b   byte
		idx CharsetIndex
	}{
		{'(', G0}, {')', G1}, {'*', G2}, {'+', G3},
		{'-', G1}, {'.', G2}, {'/', G3},
	}
	for _, d := range designators {
		if bits&(1<<uint(d.b-0x20)) != 0 {
			return d.idx, true
		}
	}
	return 0, false
}

// charsetFromDesignator maps an SCS final byte to the charset this
// repo actually renders differently; everything other than '0' (DEC
// Special Graphics) maps to plain ASCII.
func charsetFromDesignator(final rune) StandardCharset {
	if final == '0' {
		return StandardCharsetSpecialLineDrawing
	}
	return StandardCharsetAscii
}

func (e *Engine) dispatchCSI(seq *vte.Seq) {
	arg := func(i int, def int32) int { return int(seq.Arg(i, def)) }

	switch seq.Command {
	case vte.CommandCUU:
		e.MoveUp(arg(0, 1))
	case vte.CommandCUD:
		e.MoveDown(arg(0, 1))
	case vte.CommandCUF:
		e.MoveForward(arg(0, 1))
	case vte.CommandCUB:
		e.MoveBackward(arg(0, 1))
	case vte.CommandCNL:
		e.MoveDownAndCR(arg(0, 1))
	case vte.CommandCPL:
		e.MoveUpAndCR(arg(0, 1))
	case vte.CommandCHA:
		e.GotoCol(arg(0, 1) - 1)
	case vte.CommandCUP:
		e.Goto(arg(1, 1)-1, arg(0, 1)-1)
	case vte.CommandED:
		e.ClearScreen(ClearMode(arg(0, 0)))
	case vte.CommandEL:
		e.ClearLine(LineClearMode(arg(0, 0)))
	case vte.CommandIL:
		e.InsertLines(arg(0, 1))
	case vte.CommandDL:
		e.DeleteLines(arg(0, 1))
	case vte.CommandDCH:
		e.DeleteChars(arg(0, 1))
	case vte.CommandECH:
		e.EraseChars(arg(0, 1))
	case vte.CommandICH:
		e.InsertBlank(arg(0, 1))
	case vte.CommandSU:
		e.ScrollUp(arg(0, 1))
	case vte.CommandSD:
		e.ScrollDown(arg(0, 1))
	case vte.CommandXTERMIHMT:
		// Mouse highlight tracking is not wired up; recognized so
		// the ambiguous 'T' final never falls through to SD.
	case vte.CommandHPA:
		e.GotoCol(arg(0, 1) - 1)
	case vte.CommandVPA:
		e.GotoLine(arg(0, 1) - 1)
	case vte.CommandSGR:
		e.dispatchSGR(seq)
	case vte.CommandDECSTBM:
		e.SetScrollingRegion(arg(0, 1), arg(1, 0))
	case vte.CommandDA, vte.CommandDSR:
		// Recognized but unanswered: no reply channel lives on Engine,
		// and neither cmd/devcon nor cmd/devcond sends a reply.
	case vte.CommandDECSET:
		e.forEachArg(seq, func(n int32) { e.SetMode(privateModeFromArg(n)) })
	case vte.CommandDECRST:
		e.forEachArg(seq, func(n int32) { e.ResetMode(privateModeFromArg(n)) })
	case vte.CommandSM:
		e.forEachArg(seq, func(n int32) { e.SetMode(ansiModeFromArg(n)) })
	case vte.CommandRM:
		e.forEachArg(seq, func(n int32) { e.ResetMode(ansiModeFromArg(n)) })
	case vte.CommandDECSCUSR:
		e.SetCursorStyle(cursorStyleFromArg(arg(0, 0)))
	case vte.CommandTBC:
		if arg(0, 0) == 3 {
			e.ClearTabStop(TabClearAll)
		} else {
			e.ClearTabStop(TabClearCurrent)
		}
	case vte.CommandDECSLRMorSC:
		if seq.NArgs == 0 {
			e.SaveCursorPosition()
		}
		// DECSLRM (left/right margins) is left unimplemented: Page
		// has no margin concept to enforce it against.
	case vte.CommandRCP:
		e.RestoreCursorPosition()
	case vte.CommandREP:
		for n := arg(0, 1); n > 0; n-- {
			e.Input(e.lastPrinted)
		}
	}
}

func (e *Engine) forEachArg(seq *vte.Seq, fn func(int32)) {
	if seq.NArgs == 0 {
		return
	}
	for i := 0; i < seq.NArgs; i++ {
		fn(seq.Arg(i, 0))
	}
}

func privateModeFromArg(n int32) Mode {
	switch n {
	case 1:
		return ModeApplicationCursor
	case 2:
		return ModeApplicationKeypad
	case 3, 47, 1047:
		return ModeAlternateScreen
	case 25:
		return ModeShowCursor
	case 1048:
		return ModeSaveRestoreCursor
	case 1049:
		return ModeAlternateScreenSaved
	case 2004:
		return ModeBracketedPaste
	case 2026:
		return ModeSynchronizedOutput
	default:
		return ModeNone
	}
}

func ansiModeFromArg(n int32) Mode {
	switch n {
	case 2:
		return ModeKeyboardAction
	case 4:
		return ModeInsert
	case 12:
		return ModeSendReceive
	case 20:
		return ModeAutomaticNewline
	default:
		return ModeNone
	}
}

func cursorStyleFromArg(n int) CursorStyle {
	switch n {
	case 1:
		return CursorStyle{Shape: CursorShapeBlock, Blinking: true}
	case 2:
		return CursorStyle{Shape: CursorShapeBlock, Blinking: false}
	case 3:
		return CursorStyle{Shape: CursorShapeUnderline, Blinking: true}
	case 4:
		return CursorStyle{Shape: CursorShapeUnderline, Blinking: false}
	case 5:
		return CursorStyle{Shape: CursorShapeBeam, Blinking: true}
	case 6:
		return CursorStyle{Shape: CursorShapeBeam, Blinking: false}
	default:
		return CursorStyle{Shape: CursorShapeBlock, Blinking: true}
	}
}

// dispatchSGR walks a CSI m sequence's arguments left to right,
// consuming extra args for the 256-color and RGB extended forms (38/48
// ; 5 ; idx, or 38/48 ; 2 ; r ; g ; b).
func (e *Engine) dispatchSGR(seq *vte.Seq) {
	if seq.NArgs == 0 {
		e.ResetAttributes()
		return
	}

	i := 0
	next := func() (int32, bool) {
		if i >= seq.NArgs {
			return 0, false
		}
		v := seq.Arg(i, 0)
		i++
		return v, true
	}

	for i < seq.NArgs {
		n, ok := next()
		if !ok {
			break
		}
		switch {
		case n == 0:
			e.ResetAttributes()
		case n == 1:
			e.SetAttribute(AttrBold)
		case n == 2:
			e.SetAttribute(AttrDim)
		case n == 3:
			e.SetAttribute(AttrItalic)
		case n == 4:
			e.SetAttribute(AttrUnderline)
		case n == 5 || n == 6:
			e.SetAttribute(AttrBlinking)
		case n == 7:
			e.SetAttribute(AttrReverse)
		case n == 8:
			e.SetAttribute(AttrHidden)
		case n == 9:
			e.SetAttribute(AttrStrikethrough)
		case n == 21:
			e.SetAttribute(AttrDoubleUnderline)
		case n == 22:
			e.ResetAttribute(AttrBold | AttrDim)
		case n == 23:
			e.ResetAttribute(AttrItalic)
		case n == 24:
			e.ResetAttribute(AttrUnderline | AttrDoubleUnderline)
		case n == 25:
			e.ResetAttribute(AttrBlinking)
		case n == 27:
			e.ResetAttribute(AttrReverse)
		case n == 28:
			e.ResetAttribute(AttrHidden)
		case n == 29:
			e.ResetAttribute(AttrStrikethrough)
		case n >= 30 && n <= 37:
			e.SetForeground(namedColorFromSGR(int(n - 30)))
		case n == 38:
			if c, consumed := e.extendedColor(seq, &i); consumed {
				e.SetForeground(c)
			}
		case n == 39:
			e.SetForeground(page.DefaultColor)
		case n >= 40 && n <= 47:
			e.SetBackground(namedColorFromSGR(int(n - 40)))
		case n == 48:
			if c, consumed := e.extendedColor(seq, &i); consumed {
				e.SetBackground(c)
			}
		case n == 49:
			e.SetBackground(page.DefaultColor)
		case n >= 90 && n <= 97:
			e.SetForeground(namedColorFromSGR(int(n - 90 + 8)))
		case n >= 100 && n <= 107:
			e.SetBackground(namedColorFromSGR(int(n - 100 + 8)))
		}
	}
}

func namedColorFromSGR(n int) page.Color {
	if n < 0 || n > 15 {
		return page.DefaultColor
	}
	return page.NewNamedColor(page.NamedColor(n))
}

// extendedColor consumes the "5 ; idx" or "2 ; r ; g ; b" tail of a 38
// or 48 SGR code, advancing *i past whatever it read. consumed is
// false (and *i left untouched beyond the selector) for a malformed
// tail.
func (e *Engine) extendedColor(seq *vte.Seq, i *int) (page.Color, bool) {
	if *i >= seq.NArgs {
		return page.Color{}, false
	}
	selector := seq.Arg(*i, 0)
	*i++
	switch selector {
	case 5:
		if *i >= seq.NArgs {
			return page.Color{}, false
		}
		idx := seq.Arg(*i, 0)
		*i++
		return page.NewIndexedColor(uint8(idx)), true
	case 2:
		if *i+2 >= seq.NArgs {
			return page.Color{}, false
		}
		r, g, b := seq.Arg(*i, 0), seq.Arg(*i+1, 0), seq.Arg(*i+2, 0)
		*i += 3
		return page.NewRgbColor(uint8(r), uint8(g), uint8(b)), true
	default:
		return page.Color{}, false
	}
}
