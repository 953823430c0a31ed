package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opendevcon/termcore/page"
)

func TestEngineInputAdvancesCursor(t *testing.T) {
	e := NewEngine(10, 4, 8)
	e.Input('A')
	e.Input('B')

	assert.Equal(t, 2, e.Cursor().X)
	cell := e.Page().GetCell(0, 0)
	assert.False(t, cell.IsEmpty())
	r, n := page.Resolve(cell.Ch)
	assert.Equal(t, 1, n)
	assert.Equal(t, 'A', r[0])
}

func TestEngineAutowrap(t *testing.T) {
	e := NewEngine(3, 2, 8)
	e.Input('A')
	e.Input('B')
	e.Input('C')
	assert.True(t, e.Cursor().WrapPending)

	e.Input('D')
	assert.Equal(t, 1, e.Cursor().Y)
	assert.Equal(t, 1, e.Cursor().X)
	r, _ := page.Resolve(e.Page().GetCell(0, 1).Ch)
	assert.Equal(t, 'D', r[0])
}

func TestEngineLineFeedScrollsAtBottomMargin(t *testing.T) {
	e := NewEngine(4, 3, 8)
	e.Input('A')
	e.Goto(0, 1)
	e.Input('B')
	e.Goto(0, 2)
	e.Input('C')

	e.Goto(3, 2)
	e.LineFeed()

	rowTop, _ := page.Resolve(e.Page().GetCell(0, 0).Ch)
	assert.Equal(t, 'B', rowTop[0])
	rowMid, _ := page.Resolve(e.Page().GetCell(0, 1).Ch)
	assert.Equal(t, 'C', rowMid[0])
	assert.True(t, e.Page().GetCell(0, 2).IsEmpty())
}

func TestEngineSoftResetPreservesContent(t *testing.T) {
	e := NewEngine(5, 2, 8)
	e.Input('X')
	e.SetMode(ModeInsert)
	e.SetAttribute(AttrBold)

	e.Reset()

	assert.False(t, e.IsMode(ModeInsert))
	assert.False(t, e.Cursor().Attr.Has(AttrBold))
	assert.False(t, e.Page().GetCell(0, 0).IsEmpty(), "soft reset must not clear the grid")
}

func TestEngineHardResetClearsGrid(t *testing.T) {
	e := NewEngine(5, 2, 8)
	e.Input('X')

	e.HardReset()

	assert.True(t, e.Page().GetCell(0, 0).IsEmpty())
}

func TestEngineAlternateScreenRoundTrip(t *testing.T) {
	e := NewEngine(4, 2, 8)
	e.Input('M')

	e.SetMode(ModeAlternateScreen)
	assert.True(t, e.Page().GetCell(0, 0).IsEmpty())
	e.Input('A')
	assert.False(t, e.Page().GetCell(0, 0).IsEmpty())

	e.ResetMode(ModeAlternateScreen)
	r, _ := page.Resolve(e.Page().GetCell(0, 0).Ch)
	assert.Equal(t, 'M', r[0])
}

func TestEngineTabStops(t *testing.T) {
	e := NewEngine(20, 2, 8)
	e.Tab()
	assert.Equal(t, 8, e.Cursor().X)
	e.Tab()
	assert.Equal(t, 16, e.Cursor().X)
	e.TabBackward(1)
	assert.Equal(t, 8, e.Cursor().X)
}

func TestEngineAnswerback(t *testing.T) {
	e := NewEngine(10, 2, 8)
	assert.Equal(t, "", e.Answerback())
	e.SetAnswerback("devcon")
	assert.Equal(t, "devcon", e.Answerback())
}
