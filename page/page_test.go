package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPage(t *testing.T, cols, rows int) *Page {
	t.Helper()
	p := NewPage()
	if err := p.Reserve(cols, rows, DefaultAttr, 0); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := p.Resize(cols, rows, DefaultAttr, 0, nil); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	return p
}

func writeChar(p *Page, x, y int, r rune) {
	p.Write(x, y, Set(nil, r), 1, DefaultAttr, 1, false)
}

func cellRune(p *Page, x, y int) rune {
	c := p.GetCell(x, y)
	rs, n := Resolve(c.Ch)
	if n == 0 {
		return 0
	}
	return rs[0]
}

// Scenario (a): a 4x4 page, history capacity 8, rows A/B/C/D written,
// then scrollUp(2) evicts A and B into history (B at the tail, so pop
// order is B then A), leaving [C, D, blank, blank].
func TestScrollUpEvictsIntoHistory(t *testing.T) {
	p := newTestPage(t, 4, 4)
	h := NewHistory(8)

	for y, r := range []rune{'A', 'B', 'C', 'D'} {
		writeChar(p, 0, y, r)
	}

	p.ScrollUp(2, DefaultAttr, 2, h)

	assert.Equal(t, 'C', cellRune(p, 0, 0))
	assert.Equal(t, 'D', cellRune(p, 0, 1))
	assert.True(t, p.GetCell(0, 2).IsEmpty())
	assert.True(t, p.GetCell(0, 3).IsEmpty())

	assert.Equal(t, 2, h.Len())
	first, ok := h.Pop(4, DefaultAttr, 3)
	assert.True(t, ok)
	assert.Equal(t, 'B', cellRune2(first))
	second, ok := h.Pop(4, DefaultAttr, 3)
	assert.True(t, ok)
	assert.Equal(t, 'A', cellRune2(second))
}

func cellRune2(l *Line) rune {
	rs, n := Resolve(l.Cell(0).Ch)
	if n == 0 {
		return 0
	}
	return rs[0]
}

// Continuing scenario (a): scrolling back down the same amount must
// exactly restore the pre-scroll-up state (invariant #5).
func TestScrollDownIsSymmetricWithScrollUp(t *testing.T) {
	p := newTestPage(t, 4, 4)
	h := NewHistory(8)

	for y, r := range []rune{'A', 'B', 'C', 'D'} {
		writeChar(p, 0, y, r)
	}

	p.ScrollUp(2, DefaultAttr, 2, h)
	p.ScrollDown(2, DefaultAttr, 3, h)

	assert.Equal(t, 'A', cellRune(p, 0, 0))
	assert.Equal(t, 'B', cellRune(p, 0, 1))
	assert.Equal(t, 'C', cellRune(p, 0, 2))
	assert.Equal(t, 'D', cellRune(p, 0, 3))
	assert.Equal(t, 0, h.Len())
}

func TestScrollUpWithoutHistoryResetsInPlace(t *testing.T) {
	p := newTestPage(t, 4, 4)
	for y, r := range []rune{'A', 'B', 'C', 'D'} {
		writeChar(p, 0, y, r)
	}

	p.ScrollUp(1, DefaultAttr, 2, nil)

	assert.Equal(t, 'B', cellRune(p, 0, 0))
	assert.Equal(t, 'C', cellRune(p, 0, 1))
	assert.Equal(t, 'D', cellRune(p, 0, 2))
	assert.True(t, p.GetCell(0, 3).IsEmpty())
}

// Scenario (c): a width-5 line with a protected cell at index 2; a
// full-line erase that honors protection must leave fill at 3 (one
// past the last protected cell), not 0.
func TestLineEraseKeepsProtectedFill(t *testing.T) {
	l := NewLine(5)
	protectedAttr := Attr{Protect: true}
	for x := 0; x < 5; x++ {
		attr := DefaultAttr
		if x == 2 {
			attr = protectedAttr
		}
		l.Write(x, Set(nil, 'x'), 1, attr, 1, false)
	}

	l.Erase(0, 5, DefaultAttr, 2, true)

	assert.Equal(t, 3, l.Fill())
	assert.False(t, l.Cell(2).IsEmpty(), "protected cell must survive erase")
	assert.True(t, l.Cell(0).IsEmpty())
	assert.True(t, l.Cell(4).IsEmpty())
}

func TestLineInsertShiftsAndTruncates(t *testing.T) {
	l := NewLine(5)
	for x, r := range []rune{'A', 'B', 'C', 'D', 'E'} {
		l.Write(x, Set(nil, rune(r)), 1, DefaultAttr, 1, false)
	}

	l.Insert(1, 2, DefaultAttr, 2)

	assert.Equal(t, 'A', runeAt(l, 0))
	assert.True(t, l.Cell(1).IsEmpty())
	assert.True(t, l.Cell(2).IsEmpty())
	assert.Equal(t, 'B', runeAt(l, 3))
	assert.Equal(t, 'C', runeAt(l, 4))
}

func TestLineDeleteShiftsLeft(t *testing.T) {
	l := NewLine(5)
	for x, r := range []rune{'A', 'B', 'C', 'D', 'E'} {
		l.Write(x, Set(nil, rune(r)), 1, DefaultAttr, 1, false)
	}

	l.Delete(1, 2, DefaultAttr, 2)

	assert.Equal(t, 'A', runeAt(l, 0))
	assert.Equal(t, 'D', runeAt(l, 1))
	assert.Equal(t, 'E', runeAt(l, 2))
	assert.True(t, l.Cell(3).IsEmpty())
	assert.True(t, l.Cell(4).IsEmpty())
}

func runeAt(l *Line, x int) rune {
	rs, n := Resolve(l.Cell(x).Ch)
	if n == 0 {
		return 0
	}
	return rs[0]
}

func TestHistoryRejectsPushAtZeroCapacity(t *testing.T) {
	h := NewHistory(0)
	ok := h.Push(NewLine(4))
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
}

func TestHistoryEvictsOldestAtCapacity(t *testing.T) {
	h := NewHistory(2)
	first := NewLine(2)
	writeChar2(first, 0, 'A')
	second := NewLine(2)
	writeChar2(second, 0, 'B')
	third := NewLine(2)
	writeChar2(third, 0, 'C')

	assert.True(t, h.Push(first))
	assert.True(t, h.Push(second))
	assert.True(t, h.Push(third))
	assert.Equal(t, 2, h.Len())

	popped, ok := h.Pop(2, DefaultAttr, 1)
	assert.True(t, ok)
	assert.Equal(t, 'C', runeAt(popped, 0))
}

func writeChar2(l *Line, x int, r rune) {
	l.Write(x, Set(nil, r), 1, DefaultAttr, 1, false)
}

func TestResizeGrowInitializesScrollRegionOnce(t *testing.T) {
	p := NewPage()
	assert.NoError(t, p.Reserve(10, 5, DefaultAttr, 0))
	assert.NoError(t, p.Resize(10, 5, DefaultAttr, 0, nil))

	idx, num := p.ScrollRegion()
	assert.Equal(t, 0, idx)
	assert.Equal(t, 5, num, "scroll region must cover exactly the new height, not be double-counted")
	assert.LessOrEqual(t, idx+num, p.NLines())
}

func TestCharPackedAndBoxedBoundary(t *testing.T) {
	ch := Set(nil, 'e')
	for i := 0; i < 2; i++ {
		ch = Merge(ch, 0x0301)
	}
	assert.False(t, ch.IsAllocated(), "3 code points must stay packed")

	ch = Merge(ch, 0x0302)
	assert.True(t, ch.IsAllocated(), "4th code point must box")

	rs, n := Resolve(ch)
	assert.Equal(t, 4, n)
	assert.Equal(t, []rune{'e', 0x0301, 0x0301, 0x0302}, rs)
}

func TestCharMergeRejectsPastSoftLimit(t *testing.T) {
	ch := Set(nil, 'e')
	for i := 0; i < 64; i++ {
		ch = Merge(ch, 0x0301)
	}
	_, n := Resolve(ch)
	assert.Equal(t, 65, n)

	before := ch
	after := Merge(ch, 0x0301)
	assert.True(t, Equal(before, after), "merge past the soft limit must be a no-op")
}

func TestCharSameVsEqual(t *testing.T) {
	a := Set(nil, 'z')
	b := Set(nil, 'z')
	assert.True(t, Same(a, b), "packed Chars with identical contents are Same")
	assert.True(t, Equal(a, b))

	boxedA := Merge(Merge(Merge(Set(nil, 'e'), 1), 2), 3)
	boxedB := Dup(boxedA)
	assert.True(t, Equal(boxedA, boxedB))
	assert.False(t, Same(boxedA, boxedB), "distinct boxed storage is Equal but not Same")
}
