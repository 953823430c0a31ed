package screen

import (
	"github.com/opendevcon/termcore/page"
	"github.com/opendevcon/termcore/vte"
)

// Engine owns a Page, its History, and the Cursor, and exposes one
// method per terminal operation — the semantic surface the teacher's
// vte/handler.go Handler interface describes, renamed and regrouped
// onto page.Page calls. It plays the role the teacher's Processor
// plays: something that sits between the low-level sequence decoder
// and the grid, translating "what the wire said" into "what the grid
// does". Unlike the teacher, Engine does not implement a pluggable
// Handler interface — this repo has exactly one Handler, so the
// indirection buys nothing and the spec's own vocabulary (page, not
// "terminal buffer") is easier to keep straight without it.
type Engine struct {
	page    *page.Page
	history *page.History

	cursor    Cursor
	savedMain SavedCursor

	tabStops   []bool
	altScreen  bool
	altPage    *page.Page
	modes      map[Mode]bool
	answerback string

	lastPrinted rune

	decoder *vte.Decoder
	parser  *vte.Parser

	age uint64
}

// NewEngine creates an Engine with a cols x rows page and a scrollback
// bounded to historyLines.
func NewEngine(cols, rows, historyLines int) *Engine {
	e := &Engine{
		page:       page.NewPage(),
		history:    page.NewHistory(historyLines),
		modes:      make(map[Mode]bool),
		answerback: "",
		decoder:    vte.NewDecoder(),
		parser:     vte.NewParser(),
	}
	e.modes[ModeShowCursor] = true
	_ = e.page.Reserve(cols, rows, page.DefaultAttr, e.age)
	e.page.Resize(cols, rows, page.DefaultAttr, e.age, nil)
	e.resetTabStops()
	return e
}

// Page exposes the active grid for read-only inspection (rendering,
// tests). Writers should go through Engine's own methods so cursor and
// mode state stay consistent.
func (e *Engine) Page() *page.Page { return e.page }

// Cursor returns the current cursor state by value.
func (e *Engine) Cursor() Cursor { return e.cursor }

// History exposes the scrollback queue for read-only inspection
// (snapshotting). Writers should go through Engine's own methods.
func (e *Engine) History() *page.History { return e.history }

func (e *Engine) nextAge() uint64 {
	e.age++
	return e.age
}

func (e *Engine) resetTabStops() {
	w := e.page.Width()
	e.tabStops = make([]bool, w)
	for i := 0; i < w; i += 8 {
		e.tabStops[i] = true
	}
}

func (e *Engine) toCellAttr(a Attr, fg, bg page.Color) page.Attr {
	return page.Attr{
		Foreground: fg,
		Background: bg,
		Bold:       a.Has(AttrBold),
		Italic:     a.Has(AttrItalic),
		Underline:  a.Has(AttrUnderline) || a.Has(AttrDoubleUnderline),
		Inverse:    a.Has(AttrReverse),
		Blink:      a.Has(AttrBlinking),
		Hidden:     a.Has(AttrHidden),
	}
}

func (e *Engine) currentAttr() page.Attr {
	return e.toCellAttr(e.cursor.Attr, e.cursor.Fg, e.cursor.Bg)
}

// --- Text input ---------------------------------------------------

// Input places a decoded, charset-mapped character at the cursor,
// handling pending autowrap and combining marks per spec §5/§6.
func (e *Engine) Input(ucs4 rune) {
	ucs4 = e.cursor.ActiveCharset().Map(ucs4)
	ch := page.Set(nil, ucs4)
	width := page.LookupWidth(ch)
	if width == 0 {
		// Combining mark: merge onto the previous cell rather than
		// advancing the cursor.
		x := e.cursor.X - 1
		if e.cursor.WrapPending {
			x = e.cursor.X
		}
		if x >= 0 {
			e.page.Append(x, e.cursor.Y, ucs4, e.nextAge())
		}
		return
	}

	if e.cursor.WrapPending {
		e.LineFeed()
		e.cursor.CarriageReturn()
	}

	e.page.Write(e.cursor.X, e.cursor.Y, ch, uint8(width), e.currentAttr(), e.nextAge(), e.modes[ModeInsert])

	if e.cursor.X+int(width) >= e.page.Width() {
		e.cursor.X = e.page.Width() - 1
		e.cursor.WrapPending = true
	} else {
		e.cursor.X += int(width)
	}
}

// --- Cursor movement ------------------------------------------------

func (e *Engine) clampCursor() {
	if e.cursor.X >= e.page.Width() {
		e.cursor.X = e.page.Width() - 1
	}
	if e.cursor.X < 0 {
		e.cursor.X = 0
	}
	if e.cursor.Y >= e.page.Height() {
		e.cursor.Y = e.page.Height() - 1
	}
	if e.cursor.Y < 0 {
		e.cursor.Y = 0
	}
}

// Goto moves the cursor to an absolute, zero-based position, clamped
// to the page.
func (e *Engine) Goto(x, y int) {
	e.cursor.Goto(x, y)
	e.clampCursor()
}

// GotoLine moves the cursor to row y, keeping the column.
func (e *Engine) GotoLine(y int) { e.Goto(e.cursor.X, y) }

// GotoCol moves the cursor to column x, keeping the row.
func (e *Engine) GotoCol(x int) { e.Goto(x, e.cursor.Y) }

// MoveUp moves the cursor up n rows without leaving the page.
func (e *Engine) MoveUp(n int) { e.cursor.MoveUp(n); e.clampCursor() }

// MoveDown moves the cursor down n rows without leaving the page.
func (e *Engine) MoveDown(n int) { e.cursor.MoveDown(n); e.clampCursor() }

// MoveForward moves the cursor right n columns.
func (e *Engine) MoveForward(n int) { e.cursor.MoveRight(n); e.clampCursor() }

// MoveBackward moves the cursor left n columns.
func (e *Engine) MoveBackward(n int) { e.cursor.MoveLeft(n) }

// MoveDownAndCR moves down n rows and to column 0.
func (e *Engine) MoveDownAndCR(n int) { e.MoveDown(n); e.cursor.CarriageReturn() }

// MoveUpAndCR moves up n rows and to column 0.
func (e *Engine) MoveUpAndCR(n int) { e.MoveUp(n); e.cursor.CarriageReturn() }

// LineFeed advances the cursor one row, scrolling the page's scroll
// region up when already at its bottom edge, per spec §5.
func (e *Engine) LineFeed() {
	idx, num := e.page.ScrollRegion()
	bottom := idx + num - 1
	if num > 0 && e.cursor.Y == bottom {
		e.page.ScrollUp(1, e.currentAttr(), e.nextAge(), e.history)
		return
	}
	e.cursor.LineFeed()
	e.clampCursor()
}

// ReverseIndex moves the cursor up one row, scrolling the scroll
// region down when already at its top edge (ESC M).
func (e *Engine) ReverseIndex() {
	idx, num := e.page.ScrollRegion()
	if num > 0 && e.cursor.Y == idx {
		e.page.ScrollDown(1, e.currentAttr(), e.nextAge(), e.history)
		return
	}
	e.cursor.MoveUp(1)
	e.clampCursor()
}

// CarriageReturn moves the cursor to column 0.
func (e *Engine) CarriageReturn() { e.cursor.CarriageReturn() }

// Backspace moves the cursor back one column, without wrapping.
func (e *Engine) Backspace() { e.cursor.MoveLeft(1) }

// SaveCursorPosition preserves the restorable cursor state (DECSC).
func (e *Engine) SaveCursorPosition() { e.savedMain = e.cursor.Save() }

// RestoreCursorPosition restores a previously saved cursor (DECRC).
func (e *Engine) RestoreCursorPosition() {
	e.cursor.Restore(e.savedMain)
	e.clampCursor()
}

// --- Tabs -------------------------------------------------------------

// Tab advances the cursor to the next set tab stop, or the right
// margin if none remain.
func (e *Engine) Tab() { e.TabForward(1) }

// TabForward advances the cursor past count tab stops.
func (e *Engine) TabForward(count int) {
	for ; count > 0; count-- {
		x := e.cursor.X + 1
		for x < len(e.tabStops) && !e.tabStops[x] {
			x++
		}
		if x >= len(e.tabStops) {
			x = e.page.Width() - 1
		}
		e.cursor.X = x
	}
}

// TabBackward moves the cursor back past count tab stops.
func (e *Engine) TabBackward(count int) {
	for ; count > 0; count-- {
		x := e.cursor.X - 1
		for x > 0 && !e.tabStops[x] {
			x--
		}
		if x < 0 {
			x = 0
		}
		e.cursor.X = x
	}
}

// SetTabStop sets a tab stop at the cursor's current column.
func (e *Engine) SetTabStop() {
	if e.cursor.X < len(e.tabStops) {
		e.tabStops[e.cursor.X] = true
	}
}

// ClearTabStop clears tab stops per mode.
func (e *Engine) ClearTabStop(mode TabulationClearMode) {
	switch mode {
	case TabClearCurrent:
		if e.cursor.X < len(e.tabStops) {
			e.tabStops[e.cursor.X] = false
		}
	case TabClearAll:
		for i := range e.tabStops {
			e.tabStops[i] = false
		}
	}
}

// --- Line/cell editing ------------------------------------------------

// InsertBlank inserts n blank cells at the cursor, shifting the rest
// of the line right.
func (e *Engine) InsertBlank(n int) {
	e.page.InsertCells(e.cursor.X, e.cursor.Y, n, e.currentAttr(), e.nextAge())
}

// DeleteChars deletes n cells at the cursor, shifting the rest of the
// line left.
func (e *Engine) DeleteChars(n int) {
	e.page.DeleteCells(e.cursor.X, e.cursor.Y, n, e.currentAttr(), e.nextAge())
}

// EraseChars erases n cells at the cursor in place (no shifting).
func (e *Engine) EraseChars(n int) {
	toX := e.cursor.X + n - 1
	if toX >= e.page.Width() {
		toX = e.page.Width() - 1
	}
	e.page.Erase(e.cursor.X, e.cursor.Y, toX, e.cursor.Y, e.currentAttr(), e.nextAge(), true)
}

// InsertLines inserts n blank lines at the cursor's row.
func (e *Engine) InsertLines(n int) {
	e.page.InsertLines(e.cursor.Y, n, e.currentAttr(), e.nextAge())
}

// DeleteLines deletes n lines at the cursor's row.
func (e *Engine) DeleteLines(n int) {
	e.page.DeleteLines(e.cursor.Y, n, e.currentAttr(), e.nextAge())
}

// --- Screen-wide clears ------------------------------------------------

// ClearLine clears part or all of the cursor's line per mode.
func (e *Engine) ClearLine(mode LineClearMode) {
	y := e.cursor.Y
	switch mode {
	case LineClearRight:
		e.page.Erase(e.cursor.X, y, e.page.Width()-1, y, e.currentAttr(), e.nextAge(), true)
	case LineClearLeft:
		e.page.Erase(0, y, e.cursor.X, y, e.currentAttr(), e.nextAge(), true)
	case LineClearAll:
		e.page.Erase(0, y, e.page.Width()-1, y, e.currentAttr(), e.nextAge(), true)
	}
}

// ClearScreen clears part or all of the page per mode. ClearSaved
// additionally drops scrollback history.
func (e *Engine) ClearScreen(mode ClearMode) {
	w, h := e.page.Width(), e.page.Height()
	switch mode {
	case ClearBelow:
		e.page.Erase(e.cursor.X, e.cursor.Y, w-1, h-1, e.currentAttr(), e.nextAge(), true)
	case ClearAbove:
		e.page.Erase(0, 0, e.cursor.X, e.cursor.Y, e.currentAttr(), e.nextAge(), true)
	case ClearAll:
		e.page.Erase(0, 0, w-1, h-1, e.currentAttr(), e.nextAge(), true)
	case ClearSaved:
		e.history.Clear()
	}
}

// --- Scrolling ----------------------------------------------------------

// ScrollUp scrolls the active scroll region up n lines, handing
// evicted lines to history.
func (e *Engine) ScrollUp(n int) { e.page.ScrollUp(n, e.currentAttr(), e.nextAge(), e.history) }

// ScrollDown scrolls the active scroll region down n lines, pulling
// lines back from history where available.
func (e *Engine) ScrollDown(n int) { e.page.ScrollDown(n, e.currentAttr(), e.nextAge(), e.history) }

// SetScrollingRegion sets the scroll region from 1-based top/bottom
// row numbers (DECSTBM). bottom == 0 means "page bottom".
func (e *Engine) SetScrollingRegion(top, bottom int) {
	if bottom <= 0 || bottom > e.page.Height() {
		bottom = e.page.Height()
	}
	if top < 1 {
		top = 1
	}
	e.page.SetScrollRegion(top-1, bottom-top+1)
	e.Goto(0, 0)
}

// --- Attributes -----------------------------------------------------

// SetAttribute ORs attr into the pen state (SGR 1-9).
func (e *Engine) SetAttribute(attr Attr) { e.cursor.Attr = e.cursor.Attr.Set(attr) }

// ResetAttribute clears attr from the pen state (SGR 22-29).
func (e *Engine) ResetAttribute(attr Attr) { e.cursor.Attr = e.cursor.Attr.Clear(attr) }

// ResetAttributes resets the whole pen state to defaults (SGR 0).
func (e *Engine) ResetAttributes() {
	e.cursor.Attr = AttrNone
	e.cursor.Fg = page.DefaultColor
	e.cursor.Bg = page.DefaultColor
}

// SetForeground sets the pen foreground color.
func (e *Engine) SetForeground(c page.Color) { e.cursor.Fg = c }

// SetBackground sets the pen background color.
func (e *Engine) SetBackground(c page.Color) { e.cursor.Bg = c }

// ResetColors resets foreground and background to default.
func (e *Engine) ResetColors() {
	e.cursor.Fg = page.DefaultColor
	e.cursor.Bg = page.DefaultColor
}

// --- Cursor appearance -----------------------------------------------

// SetCursorStyle sets the cursor's display shape and blink (DECSCUSR).
func (e *Engine) SetCursorStyle(s CursorStyle) {
	e.cursor.Shape = s.Shape
	e.cursor.Blinking = s.Blinking
}

// SetCursorVisible shows or hides the cursor (DECTCEM).
func (e *Engine) SetCursorVisible(visible bool) {
	e.cursor.Hidden = !visible
	e.modes[ModeShowCursor] = visible
}

// --- Modes --------------------------------------------------------------

// SetMode enables mode, performing any associated side effect (e.g.
// switching to the alternate screen buffer).
func (e *Engine) SetMode(mode Mode) {
	e.modes[mode] = true
	switch mode {
	case ModeAlternateScreen, ModeAlternateScreenSaved:
		e.enterAltScreen()
	case ModeShowCursor:
		e.cursor.Hidden = false
	}
}

// ResetMode disables mode, performing any associated side effect.
func (e *Engine) ResetMode(mode Mode) {
	e.modes[mode] = false
	switch mode {
	case ModeAlternateScreen, ModeAlternateScreenSaved:
		e.leaveAltScreen()
	case ModeShowCursor:
		e.cursor.Hidden = true
	}
}

// IsMode reports whether mode is currently enabled.
func (e *Engine) IsMode(mode Mode) bool { return e.modes[mode] }

func (e *Engine) enterAltScreen() {
	if e.altScreen {
		return
	}
	e.altScreen = true
	e.altPage = e.page
	alt := page.NewPage()
	_ = alt.Reserve(e.altPage.Width(), e.altPage.Height(), page.DefaultAttr, e.age)
	alt.Resize(e.altPage.Width(), e.altPage.Height(), page.DefaultAttr, e.age, nil)
	e.page = alt
}

func (e *Engine) leaveAltScreen() {
	if !e.altScreen {
		return
	}
	page.Free(e.page)
	e.page = e.altPage
	e.altPage = nil
	e.altScreen = false
}

// --- Device operations --------------------------------------------------

// Reset performs a soft reset (DECSTR): cursor, pen, modes and scroll
// region return to defaults, but the grid's contents are left alone.
// See HardReset for the RIS-triggered full reset; spec §9 calls out
// that the two must stay distinct rather than collapsing into one.
func (e *Engine) Reset() {
	e.cursor = NewCursor()
	e.page.SetScrollRegion(0, e.page.Height())
	for k := range e.modes {
		delete(e.modes, k)
	}
	e.modes[ModeShowCursor] = true
	e.resetTabStops()
}

// HardReset performs a full reset (RIS): everything Reset does, plus
// clearing the grid and dropping scrollback.
func (e *Engine) HardReset() {
	e.Reset()
	e.page.Reset(page.DefaultAttr, e.nextAge())
	e.history.Clear()
}

// --- Charsets -------------------------------------------------------

// ConfigureCharset designates charset into one of the G0-G3 slots.
func (e *Engine) ConfigureCharset(index CharsetIndex, charset StandardCharset) {
	e.cursor.Charsets[index] = charset
}

// SetActiveCharset shifts GL to the given slot (SI/SO/LS2/LS3).
func (e *Engine) SetActiveCharset(index CharsetIndex) {
	e.cursor.Active = index
}

// --- Host-identification responses --------------------------------------

// Answerback returns the string ENQ should elicit, configurable via
// internal/config.
func (e *Engine) Answerback() string { return e.answerback }

// SetAnswerback sets the string ENQ elicits.
func (e *Engine) SetAnswerback(s string) { e.answerback = s }
