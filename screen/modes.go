// Package screen turns decoded control sequences into page.Page
// mutations: cursor movement, SGR pen state, charset designation, tab
// stops and terminal modes. It is the glue layer spec.md calls
// "Screen (implicit)" — the teacher keeps the same vocabulary in its
// vte/ansi.go, moved here because these types describe terminal
// semantics, not sequence syntax.
package screen

// Attr is the SGR pen state's bitset of boolean text qualities; the
// selected foreground/background colors live beside it on Cursor. It
// is the wire-level analogue of page.Attr; Engine translates it (with
// the cursor's colors) into a page.Attr each time a cell is written.
type Attr uint32

const (
	AttrNone            Attr = 0
	AttrBold            Attr = 1 << 0
	AttrDim             Attr = 1 << 1
	AttrItalic          Attr = 1 << 2
	AttrUnderline       Attr = 1 << 3
	AttrBlinking        Attr = 1 << 4
	AttrReverse         Attr = 1 << 5
	AttrHidden          Attr = 1 << 6
	AttrStrikethrough   Attr = 1 << 7
	AttrDoubleUnderline Attr = 1 << 8
)

// Has reports whether attr is set.
func (a Attr) Has(attr Attr) bool { return a&attr != 0 }

// Set returns a with attr set.
func (a Attr) Set(attr Attr) Attr { return a | attr }

// Clear returns a with attr cleared.
func (a Attr) Clear(attr Attr) Attr { return a &^ attr }

// Mode is a terminal mode settable via SM/RM (ANSI) or DECSET/DECRST
// (private, value >= 0x200).
type Mode uint16

const (
	ModeNone Mode = 0

	ModeKeyboardAction   Mode = 2
	ModeInsert           Mode = 4
	ModeSendReceive      Mode = 12
	ModeAutomaticNewline Mode = 20

	ModeApplicationCursor    Mode = 0x200 + 1
	ModeApplicationKeypad    Mode = 0x200 + 2
	ModeAlternateScreen      Mode = 0x200 + 3
	ModeShowCursor           Mode = 0x200 + 25
	ModeSaveRestoreCursor    Mode = 0x200 + 1048
	ModeAlternateScreenSaved Mode = 0x200 + 1049
	ModeBracketedPaste       Mode = 0x200 + 2004
	ModeSynchronizedOutput   Mode = 0x200 + 2026
)

// IsPrivate reports whether mode is a DEC private mode (CSI ? ... h/l).
func (m Mode) IsPrivate() bool { return m >= 0x200 }

// CursorShape is the cursor's display shape (DECSCUSR).
type CursorShape uint8

const (
	CursorShapeBlock CursorShape = iota
	CursorShapeUnderline
	CursorShapeBeam
)

// CursorStyle bundles shape and blink for DECSCUSR.
type CursorStyle struct {
	Shape    CursorShape
	Blinking bool
}

// LineClearMode selects which part of a line EL erases.
type LineClearMode uint8

const (
	LineClearRight LineClearMode = iota
	LineClearLeft
	LineClearAll
)

// ClearMode selects which part of the screen ED erases.
type ClearMode uint8

const (
	ClearBelow ClearMode = iota
	ClearAbove
	ClearAll
	ClearSaved
)

// TabulationClearMode selects which tab stops TBC clears.
type TabulationClearMode uint8

const (
	TabClearCurrent TabulationClearMode = iota
	TabClearAll
)

// CharsetIndex names one of the four G0-G3 charset designation slots.
type CharsetIndex int

const (
	G0 CharsetIndex = iota
	G1
	G2
	G3
)

func (c CharsetIndex) String() string {
	switch c {
	case G0:
		return "G0"
	case G1:
		return "G1"
	case G2:
		return "G2"
	case G3:
		return "G3"
	default:
		return "Unknown"
	}
}

// StandardCharset is a charset that can be designated into G0-G3.
type StandardCharset int

const (
	StandardCharsetAscii StandardCharset = iota
	StandardCharsetSpecialLineDrawing
)

func (s StandardCharset) String() string {
	switch s {
	case StandardCharsetAscii:
		return "Ascii"
	case StandardCharsetSpecialLineDrawing:
		return "SpecialLineDrawing"
	default:
		return "Unknown"
	}
}

// Map translates ucs4 through the charset, applying the DEC special
// graphics line-drawing substitution for bytes 0x60-0x7e when active.
func (s StandardCharset) Map(ucs4 rune) rune {
	if s != StandardCharsetSpecialLineDrawing {
		return ucs4
	}
	if ucs4 < 0x60 || ucs4 > 0x7e {
		return ucs4
	}
	return specialLineDrawing[ucs4-0x60]
}

// specialLineDrawing is the DEC Special Graphics mapping for 0x60-0x7e.
var specialLineDrawing = [31]rune{
	'◆', '▒', '␉', '␌', '␍', '␊', '°',
	'±', '␤', '␋', '┘', '┐', '┌', '└',
	'┼', '⎺', '⎻', '─', '⎼', '⎽', '├',
	'┤', '┴', '┬', '│', '≤', '≥', 'π',
	'≠', '£', '·',
}
