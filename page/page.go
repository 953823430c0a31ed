package page

// Page owns a grid of Lines plus a scroll region, and forwards
// cell-level operations to the correct line after bounds-checking,
// per spec §4.4. Lines are owned exclusively by the Page while present
// in lines[]; they transfer to a History on scroll-up and back on
// scroll-down, by pointer, never by copy.
type Page struct {
	lines  []*Line
	nLines int
	width  int
	height int

	scrollIdx  int
	scrollNum  int
	scrollFill int

	age uint64
}

// NewPage returns an empty, zero-dimension Page.
func NewPage() *Page {
	return &Page{}
}

// Free releases every line the page owns.
func Free(p *Page) {
	for _, l := range p.lines {
		l.Destroy()
	}
	p.lines = nil
	p.nLines = 0
}

// Width returns the page's active column count.
func (p *Page) Width() int { return p.width }

// Height returns the page's active row count.
func (p *Page) Height() int { return p.height }

// NLines returns the backing line count (>= Height).
func (p *Page) NLines() int { return p.nLines }

// ScrollRegion returns the current scroll region bounds.
func (p *Page) ScrollRegion() (idx, num int) { return p.scrollIdx, p.scrollNum }

// Reserve ensures n_lines >= rows and that each of the first
// min(n_lines, rows) lines has n_cells >= cols, per spec §4.4. Newly
// created lines are reserved with protectWidth 0; existing lines
// inside the current visible region are reserved with protectWidth
// equal to the page's current width so their on-screen content
// survives. Reserve never shrinks n_lines or any line's capacity.
func (p *Page) Reserve(cols, rows int, attr Attr, age uint64) error {
	for len(p.lines) < rows {
		p.lines = append(p.lines, &Line{})
	}
	if rows > p.nLines {
		p.nLines = rows
	}

	limit := p.nLines
	if rows < limit {
		limit = rows
	}
	for i := 0; i < limit; i++ {
		protect := 0
		if i < p.height {
			protect = p.width
		}
		p.lines[i].Reserve(cols, attr, age, protect)
	}
	return nil
}

// Resize adapts the page to new dimensions. It requires Reserve to
// have already succeeded for (cols, rows). Shrinking height scrolls
// the excess rows into history (consuming empty scroll slack first);
// growing height pulls rows back from history when available. See
// DESIGN.md for the documented reading of the
// ambiguous lower-margin relocation described in spec §4.4.
func (p *Page) Resize(cols, rows int, attr Attr, age uint64, history *History) error {
	oldHeight := p.height

	switch {
	case rows < oldHeight:
		slack := p.scrollNum - p.scrollFill
		if slack < 0 {
			slack = 0
		}
		n := oldHeight - rows - slack
		if n < 0 {
			n = 0
		}
		if n > 0 {
			p.ScrollUp(n, attr, age, history)
		}

		lowerStart := p.scrollIdx + p.scrollNum
		lowerLen := oldHeight - lowerStart
		if lowerLen > 0 {
			newLowerStart := rows - lowerLen
			if newLowerStart < 0 {
				newLowerStart = 0
				lowerLen = rows
			}
			for i := 0; i < lowerLen; i++ {
				a, b := lowerStart+i, newLowerStart+i
				if a < len(p.lines) && b < len(p.lines) && a != b {
					p.lines[a], p.lines[b] = p.lines[b], p.lines[a]
				}
			}
		}
		p.scrollNum -= n
		if p.scrollNum < 0 {
			p.scrollNum = 0
		}

	case rows > oldHeight:
		grown := rows - oldHeight

		if oldHeight == 0 {
			// First-ever Resize after Reserve: there is no prior scroll
			// region to preserve, so the whole new page becomes it.
			p.scrollIdx, p.scrollNum, p.scrollFill = 0, rows, 0
			break
		}

		lowerStart := p.scrollIdx + p.scrollNum
		lowerLen := oldHeight - lowerStart
		if lowerLen > 0 {
			for i := lowerLen - 1; i >= 0; i-- {
				a, b := lowerStart+i, lowerStart+i+grown
				if a < len(p.lines) && b < len(p.lines) {
					p.lines[a], p.lines[b] = p.lines[b], p.lines[a]
				}
			}
		}
		p.scrollNum += grown

		if history != nil {
			pulled := int(history.Peek(grown, cols, attr, age))
			if pulled > 0 {
				p.ScrollDown(pulled, attr, age, history)
			}
		}
	}

	p.height = rows
	p.width = cols
	for _, l := range p.lines {
		l.SetWidth(cols)
	}
	return nil
}

// rotateLeft moves the first k elements of s to the end, preserving
// the relative order of both groups.
func rotateLeft(s []*Line, k int) {
	if len(s) == 0 {
		return
	}
	k %= len(s)
	if k == 0 {
		return
	}
	tmp := append([]*Line(nil), s[:k]...)
	copy(s, s[k:])
	copy(s[len(s)-k:], tmp)
}

// ScrollUp evicts the top num lines of the scroll region. Each evicted
// line is pushed to history (and replaced with a fresh blank line) if
// history accepts it, otherwise reset in place and kept, per spec
// §4.4.
func (p *Page) ScrollUp(num int, attr Attr, age uint64, history *History) {
	if num > p.scrollNum {
		num = p.scrollNum
	}
	if num <= 0 {
		return
	}
	top := p.scrollIdx

	for i := 0; i < num; i++ {
		idx := top + i
		old := p.lines[idx]
		if history != nil && history.Push(old) {
			p.lines[idx] = NewLine(p.width)
		} else {
			old.Reset(attr, age)
		}
	}

	region := p.lines[top : top+p.scrollNum]
	rotateLeft(region, num)

	p.scrollFill -= num
	if p.scrollFill < 0 {
		p.scrollFill = 0
	}
}

// ScrollDown reintroduces num lines at the top of the scroll region,
// pulled from history where available (most-recently-pushed first) and
// falling back to resetting the bottom line of the region in place
// when a pop is unavailable, per spec §4.4.
func (p *Page) ScrollDown(num int, attr Attr, age uint64, history *History) {
	if num > p.scrollNum {
		num = p.scrollNum
	}
	if num <= 0 {
		return
	}
	top := p.scrollIdx
	region := p.lines[top : top+p.scrollNum]

	survivors := append([]*Line(nil), region[:len(region)-num]...)
	newTop := make([]*Line, num)

	for i := 0; i < num; i++ {
		pos := num - 1 - i
		if history != nil {
			if popped, ok := history.Pop(p.width, attr, age); ok {
				newTop[pos] = popped
				continue
			}
		}
		bottom := region[len(region)-num+i]
		bottom.Reset(attr, age)
		newTop[pos] = bottom
	}

	copy(region, newTop)
	copy(region[num:], survivors)

	if p.scrollFill > 0 {
		p.scrollFill += num
		if p.scrollFill > p.scrollNum {
			p.scrollFill = p.scrollNum
		}
	}
}

// SetScrollRegion clamps idx and num into [0,height) / [0,height-idx].
// A zero-height page forces both to zero, per spec §4.4.
func (p *Page) SetScrollRegion(idx, num int) {
	if p.height <= 0 {
		p.scrollIdx, p.scrollNum = 0, 0
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx > p.height-1 {
		idx = p.height - 1
	}
	maxNum := p.height - idx
	if num < 0 {
		num = 0
	}
	if num > maxNum {
		num = maxNum
	}
	p.scrollIdx, p.scrollNum = idx, num
}

// InsertLines runs ScrollDown against a scroll region temporarily
// narrowed to start at posY (one line if posY falls below the normal
// scroll region), per spec §4.4. Uses >= when comparing posY against
// scrollIdx; see DeleteLines and DESIGN.md for the documented
// asymmetry carried over from spec §9's Open Questions.
func (p *Page) InsertLines(posY, num int, attr Attr, age uint64) {
	if posY < 0 || posY >= p.height {
		return
	}
	origIdx, origNum, origFill := p.scrollIdx, p.scrollNum, p.scrollFill
	regionEnd := p.scrollIdx + p.scrollNum

	if posY >= p.scrollIdx && posY < regionEnd {
		p.scrollIdx, p.scrollNum = posY, regionEnd-posY
	} else {
		p.scrollIdx, p.scrollNum = posY, 1
	}

	p.ScrollDown(num, attr, age, nil)
	p.scrollIdx, p.scrollNum, p.scrollFill = origIdx, origNum, origFill
}

// DeleteLines runs ScrollUp against a scroll region temporarily
// narrowed to start at posY. Uses > (not >=) when comparing posY
// against scrollIdx, per spec §9's documented Open Question.
func (p *Page) DeleteLines(posY, num int, attr Attr, age uint64) {
	if posY < 0 || posY >= p.height {
		return
	}
	origIdx, origNum, origFill := p.scrollIdx, p.scrollNum, p.scrollFill
	regionEnd := p.scrollIdx + p.scrollNum

	if posY > p.scrollIdx && posY < regionEnd {
		p.scrollIdx, p.scrollNum = posY, regionEnd-posY
	} else {
		p.scrollIdx, p.scrollNum = posY, 1
	}

	p.ScrollUp(num, attr, age, nil)
	p.scrollIdx, p.scrollNum, p.scrollFill = origIdx, origNum, origFill
}

// GetCell returns the cell at (x, y), or nil if out of bounds.
func (p *Page) GetCell(x, y int) *Cell {
	if y < 0 || y >= p.height {
		return nil
	}
	return p.lines[y].Cell(x)
}

// Write writes a single character at (x, y); out-of-bounds rows are
// silently ignored, per spec §6.
func (p *Page) Write(x, y int, ch Char, cwidth uint8, attr Attr, age uint64, insertMode bool) {
	if y < 0 || y >= p.height {
		return
	}
	p.lines[y].Write(x, ch, cwidth, attr, age, insertMode)
}

// InsertCells shifts cells right at (x, y).
func (p *Page) InsertCells(x, y, num int, attr Attr, age uint64) {
	if y < 0 || y >= p.height {
		return
	}
	p.lines[y].Insert(x, num, attr, age)
}

// DeleteCells shifts cells left at (x, y).
func (p *Page) DeleteCells(x, y, num int, attr Attr, age uint64) {
	if y < 0 || y >= p.height {
		return
	}
	p.lines[y].Delete(x, num, attr, age)
}

// Append merges a combining mark onto the cell at (x, y).
func (p *Page) Append(x, y int, ucs4 rune, age uint64) {
	if y < 0 || y >= p.height {
		return
	}
	c := p.lines[y].Cell(x)
	if c == nil {
		return
	}
	c.Append(ucs4, age)
}

// Erase sets cells in rows [fromY, toY] to attr/age, bounding the
// first and last row to [fromX, toX] and full width in between, per
// spec §4.4.
func (p *Page) Erase(fromX, fromY, toX, toY int, attr Attr, age uint64, keepProtected bool) {
	if fromY > toY {
		return
	}
	for y := fromY; y <= toY && y < p.height; y++ {
		if y < 0 {
			continue
		}
		line := p.lines[y]
		startX, endX := 0, line.Width()
		if y == fromY {
			startX = fromX
		}
		if y == toY {
			endX = toX + 1
		}
		if startX < 0 {
			startX = 0
		}
		if endX > line.Width() {
			endX = line.Width()
		}
		if endX <= startX {
			continue
		}
		line.Erase(startX, endX-startX, attr, age, keepProtected)
	}
}

// Reset erases the whole page.
func (p *Page) Reset(attr Attr, age uint64) {
	p.Erase(0, 0, p.width-1, p.height-1, attr, age, false)
}
