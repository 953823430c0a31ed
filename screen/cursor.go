package screen

import "github.com/opendevcon/termcore/page"

// Cursor is the terminal's active position and pen state, grounded on
// the teacher's terminal/cursor.go but extended with the four
// charset-designation slots and the autowrap-pending bit DEC terminals
// need to implement "wrap on the next printable character, not
// immediately at the right margin".
type Cursor struct {
	X, Y int

	Attr     Attr
	Fg, Bg   page.Color
	Shape    CursorShape
	Blinking bool
	Hidden   bool

	Charsets [4]StandardCharset
	Active   CharsetIndex

	WrapPending bool
}

// NewCursor returns a cursor at the origin with default pen state and
// all four charset slots designated ASCII.
func NewCursor() Cursor {
	return Cursor{
		Fg: page.DefaultColor,
		Bg: page.DefaultColor,
	}
}

// Goto moves the cursor to an absolute position and clears any pending
// autowrap.
func (c *Cursor) Goto(x, y int) {
	c.X, c.Y = x, y
	c.WrapPending = false
}

func clampNonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// MoveUp moves the cursor up by n lines, floored at row 0.
func (c *Cursor) MoveUp(n int) { c.Y = clampNonNeg(c.Y - n) }

// MoveDown moves the cursor down by n lines.
func (c *Cursor) MoveDown(n int) { c.Y += n }

// MoveLeft moves the cursor left by n columns, floored at column 0,
// and clears any pending autowrap.
func (c *Cursor) MoveLeft(n int) {
	c.X = clampNonNeg(c.X - n)
	c.WrapPending = false
}

// MoveRight moves the cursor right by n columns.
func (c *Cursor) MoveRight(n int) { c.X += n }

// CarriageReturn moves the cursor to column 0.
func (c *Cursor) CarriageReturn() {
	c.X = 0
	c.WrapPending = false
}

// LineFeed moves the cursor down one row without touching the column.
func (c *Cursor) LineFeed() { c.Y++ }

// ActiveCharset resolves the charset currently designated into GL.
func (c *Cursor) ActiveCharset() StandardCharset { return c.Charsets[c.Active] }

// SavedCursor is the subset of Cursor state preserved by DECSC/SCOSC
// and restored by DECRC/SCORC.
type SavedCursor struct {
	X, Y        int
	Attr        Attr
	Fg, Bg      page.Color
	Charsets    [4]StandardCharset
	Active      CharsetIndex
	WrapPending bool
}

// Save captures the restorable subset of cursor state.
func (c *Cursor) Save() SavedCursor {
	return SavedCursor{
		X: c.X, Y: c.Y,
		Attr: c.Attr, Fg: c.Fg, Bg: c.Bg,
		Charsets: c.Charsets, Active: c.Active,
		WrapPending: c.WrapPending,
	}
}

// Restore applies a previously saved cursor state.
func (c *Cursor) Restore(s SavedCursor) {
	c.X, c.Y = s.X, s.Y
	c.Attr, c.Fg, c.Bg = s.Attr, s.Fg, s.Bg
	c.Charsets, c.Active = s.Charsets, s.Active
	c.WrapPending = s.WrapPending
}
