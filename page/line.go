package page

// Line is a resizable array of cells. width is the active display
// width; nCells is the backing capacity and never shrinks; fill tracks
// the right edge of touched content, per spec §3/§4.3. Lines move
// between Page and History by pointer transfer, not by copy — see
// History for the list that holds detached Lines.
type Line struct {
	cells  []Cell
	width  int
	nCells int
	fill   int
	age    uint64
}

// NewLine allocates a Line reserved to width, filled with default
// attributes at age 0.
func NewLine(width int) *Line {
	l := &Line{}
	l.Reserve(width, DefaultAttr, 0, 0)
	return l
}

// Width returns the line's active display width.
func (l *Line) Width() int { return l.width }

// NCells returns the backing cell capacity.
func (l *Line) NCells() int { return l.nCells }

// Fill returns the index one past the last touched cell.
func (l *Line) Fill() int { return l.fill }

// Age returns the line's own age stamp (distinct from any cell's age).
func (l *Line) Age() uint64 { return l.age }

// SetAge stamps the line's own age.
func (l *Line) SetAge(age uint64) { l.age = age }

// Cell returns a pointer to the cell at x, or nil if out of bounds of
// the active width.
func (l *Line) Cell(x int) *Cell {
	if x < 0 || x >= l.width || x >= len(l.cells) {
		return nil
	}
	return &l.cells[x]
}

// Reserve guarantees n_cells >= width, clears cells in
// [protectWidth, min(oldNCells, width)) to (null, 0, attr, age),
// initialises newly grown cells the same way, and sets the line's
// active width to width. fill is clamped to protectWidth. Growth is
// one-way: shrinking width never releases backing storage, per
// spec §4.3/§4.4.
func (l *Line) Reserve(width int, attr Attr, age uint64, protectWidth int) {
	oldNCells := l.nCells
	if width > l.nCells {
		grown := make([]Cell, width-l.nCells)
		initCells(grown, attr, age)
		l.cells = append(l.cells, grown...)
		l.nCells = width
	}

	clearEnd := oldNCells
	if width < clearEnd {
		clearEnd = width
	}
	if protectWidth < 0 {
		protectWidth = 0
	}
	for i := protectWidth; i < clearEnd; i++ {
		l.cells[i].Init(attr, age)
	}

	l.width = width
	if l.fill > protectWidth {
		l.fill = protectWidth
	}
}

// SetWidth clamps width to n_cells and clamps fill to the new width.
func (l *Line) SetWidth(width int) {
	if width > l.nCells {
		width = l.nCells
	}
	if width < 0 {
		width = 0
	}
	l.width = width
	if l.fill > width {
		l.fill = width
	}
}

// Write performs a single character write at posX occupying
// max(1, cwidth) cells, truncated to the line's right edge if it
// would overrun. In overwrite mode the head cell adopts ch and the
// tail cells are cleared. In insert mode, Write behaves as Place.
func (l *Line) Write(posX int, ch Char, cwidth uint8, attr Attr, age uint64, insertMode bool) {
	if posX < 0 || posX >= l.width {
		return
	}
	length := int(cwidth)
	if length < 1 {
		length = 1
	}
	if posX+length > l.width {
		length = l.width - posX
	}
	if length <= 0 {
		return
	}

	if insertMode {
		l.Place(posX, length, ch, cwidth, attr, age)
		return
	}

	l.cells[posX].Set(ch, cwidth, attr, age)
	for i := 1; i < length; i++ {
		l.cells[posX+i].Set(Null, 0, attr, age)
	}
	newFill := posX + length
	if newFill < l.fill {
		newFill = l.fill
	}
	if newFill > l.width {
		newFill = l.width
	}
	l.fill = newFill
}

// Place shifts cells at and after from right by num, inserting a head
// cell containing headChar and num-1 blank cells. Cells pushed past
// the right edge are destroyed. When there is nothing to shift, Place
// simply (re)initialises num cells in place, per spec §4.3.
func (l *Line) Place(from int, num int, headChar Char, headCWidth uint8, attr Attr, age uint64) {
	if from < 0 || from >= l.width || num <= 0 {
		return
	}

	regionLen := l.width - from
	effectiveNum := num
	if effectiveNum > regionLen {
		effectiveNum = regionLen
	}
	move := regionLen - effectiveNum

	if move > 0 {
		// Surviving cells at [from, from+move) shift right to
		// [from+effectiveNum, width); whatever occupied the
		// destination is simply overwritten by the struct copy (Go's
		// GC reclaims any boxed Char storage it held, no explicit
		// Free needed) rather than destroyed up front, because the
		// destination and source ranges can overlap when the shift
		// distance is small relative to the region — destroying the
		// destination first would zero out cells still waiting to be
		// read as source.
		destStart, destEnd := from+effectiveNum, l.width
		srcStart, srcEnd := from, from+move
		copy(l.cells[destStart:destEnd], l.cells[srcStart:srcEnd])

		l.cells[from].Set(headChar, headCWidth, attr, age)
		for i := from + 1; i < from+num && i < l.width; i++ {
			l.cells[i].Init(attr, age)
		}

		newFill := l.fill + num
		if alt := from + num; alt > newFill {
			newFill = alt
		}
		if newFill > l.width {
			newFill = l.width
		}
		l.fill = newFill
		return
	}

	// Nothing to shift: the insertion consumes the rest of the line.
	l.cells[from].Set(headChar, headCWidth, attr, age)
	for i := from + 1; i < from+num && i < l.width; i++ {
		l.cells[i].Init(attr, age)
	}
	l.fill = l.width
}

// Insert is Place with a null head character.
func (l *Line) Insert(from, num int, attr Attr, age uint64) {
	l.Place(from, num, Null, 0, attr, age)
}

// Delete removes num cells starting at from, left-shifting the
// survivors and reinitialising the freed tail, per spec §4.3.
func (l *Line) Delete(from, num int, attr Attr, age uint64) {
	if from < 0 || from >= l.width || num <= 0 {
		return
	}

	regionLen := l.width - from
	effectiveNum := num
	if effectiveNum > regionLen {
		effectiveNum = regionLen
	}
	move := regionLen - effectiveNum

	destStart, destEnd := from, from+move
	srcStart, srcEnd := from+effectiveNum, l.width

	// As in Place, don't destroy the destination before copying: it
	// can overlap the source range, and destroying it first would
	// erase cells the copy still needs to read.
	copy(l.cells[destStart:destEnd], l.cells[srcStart:srcEnd])

	destroyCells(l.cells[destEnd:l.width])
	initCells(l.cells[destEnd:l.width], attr, age)

	switch {
	case from >= l.fill:
		// delete happens entirely after the touched region
	case from+num >= l.fill:
		l.fill = from
	default:
		l.fill -= num
	}
	if l.fill < 0 {
		l.fill = 0
	}
}

// Erase sets num cells starting at from to null/attr/age, skipping
// protected cells when keepProtected is set, and adjusts fill per
// spec §4.3.
func (l *Line) Erase(from, num int, attr Attr, age uint64, keepProtected bool) {
	if from < 0 {
		from = 0
	}
	end := from + num
	if end > l.width {
		end = l.width
	}
	if from >= end {
		return
	}

	lastProtected := -1
	for i := from; i < end; i++ {
		if keepProtected && l.cells[i].Attr.Protect {
			lastProtected = i
			continue
		}
		l.cells[i].Set(Null, 0, attr, age)
	}

	if from < l.fill && end >= l.fill {
		newFill := from
		if lastProtected >= 0 && lastProtected+1 > newFill {
			newFill = lastProtected + 1
		}
		l.fill = newFill
	}
}

// Reset erases the whole active width without protection.
func (l *Line) Reset(attr Attr, age uint64) {
	l.Erase(0, l.width, attr, age, false)
}

// Destroy releases every cell's character. Called by the owner (Page
// or History) before the Line's storage is discarded.
func (l *Line) Destroy() {
	destroyCells(l.cells)
}
