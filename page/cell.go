package page

// Cell is a single grid position: its character, cached display width,
// attributes, and last-modified age. A Cell is never individually
// heap-allocated; it lives inside a Line's contiguous buffer. The zero
// value is a valid, already-initialised Cell per spec §4.2.
type Cell struct {
	Ch     Char
	CWidth uint8
	Attr   Attr
	Age    uint64
}

// Init resets c to a freshly-initialised cell with the given attribute
// and age, releasing whatever character it previously held.
func (c *Cell) Init(attr Attr, age uint64) {
	Free(&c.Ch)
	c.CWidth = 0
	c.Attr = attr
	c.Age = age
}

// Set releases the cell's previous Char and adopts ch, updating width,
// attributes and age.
func (c *Cell) Set(ch Char, cwidth uint8, attr Attr, age uint64) {
	Free(&c.Ch)
	c.Ch = ch
	c.CWidth = cwidth
	c.Attr = attr
	c.Age = age
}

// Append merges ucs4 onto the cell's existing character as a combining
// mark and stamps age, per spec §4.2/§4.1.
func (c *Cell) Append(ucs4 rune, age uint64) {
	c.Ch = Merge(c.Ch, ucs4)
	c.Age = age
}

// Destroy releases the Char held by the cell. After Destroy the cell
// must either be reinitialised or have its storage freed.
func (c *Cell) Destroy() {
	Free(&c.Ch)
}

// IsEmpty reports whether the cell holds no character.
func (c *Cell) IsEmpty() bool {
	return c.Ch.IsNull()
}

// initCells bulk-initialises a range of cells to a shared attr/age.
func initCells(cells []Cell, attr Attr, age uint64) {
	for i := range cells {
		cells[i].Init(attr, age)
	}
}

// destroyCells bulk-destroys a range of cells.
func destroyCells(cells []Cell) {
	for i := range cells {
		cells[i].Destroy()
	}
}
