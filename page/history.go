package page

// History is a bounded scrollback queue: push appends at the tail, pop
// removes from the tail (LIFO, relative to scrolling), and trim drops
// from the head once the queue exceeds its capacity, per spec §4.5.
// Lines are held by pointer; they are never copied in or out.
type History struct {
	lines    []*Line
	maxLines int
}

// NewHistory creates an empty History bounded to maxLines.
func NewHistory(maxLines int) *History {
	if maxLines < 0 {
		maxLines = 0
	}
	return &History{maxLines: maxLines}
}

// Len returns the number of lines currently held.
func (h *History) Len() int { return len(h.lines) }

// Lines exposes the held lines, oldest first, for read-only inspection
// (snapshotting scrollback to disk). Callers must not mutate the
// returned slice's Lines; writers should go through Push/Pop/Trim.
func (h *History) Lines() []*Line { return h.lines }

// MaxLines returns the configured capacity.
func (h *History) MaxLines() int { return h.maxLines }

// Push appends line at the tail and reports whether the history
// accepted it. If the queue is already at capacity, the oldest (head)
// line is dropped first. A zero-capacity History rejects every push
// so the caller (Page) knows to fall back to resetting the line in
// place instead of silently discarding it.
func (h *History) Push(line *Line) bool {
	if h.maxLines == 0 {
		return false
	}
	if len(h.lines) >= h.maxLines {
		h.lines[0].Destroy()
		h.lines = h.lines[1:]
	}
	h.lines = append(h.lines, line)
	return true
}

// Pop returns the most recently pushed line, reserved to newWidth
// using the line's own prior width as the protected region, per
// spec §4.5. On reservation failure Pop would return (nil, false)
// without detaching the line — the "keep in scrollback" policy; this
// Go port's allocator cannot observably fail, so Pop always succeeds
// when history is non-empty.
func (h *History) Pop(newWidth int, attr Attr, age uint64) (*Line, bool) {
	n := len(h.lines)
	if n == 0 {
		return nil, false
	}
	line := h.lines[n-1]
	h.lines = h.lines[:n-1]
	protectWidth := line.Width()
	line.Reserve(newWidth, attr, age, protectWidth)
	return line, true
}

// Peek walks up to max lines from the tail backward, reserving each
// to reserveWidth in turn without detaching them, and returns the
// count successfully prepared so that a subsequent Pop loop of the
// same size is guaranteed to succeed.
func (h *History) Peek(max int, reserveWidth int, attr Attr, age uint64) uint32 {
	n := len(h.lines)
	if max > n {
		max = n
	}
	var prepared uint32
	for i := 0; i < max; i++ {
		line := h.lines[n-1-i]
		line.Reserve(reserveWidth, attr, age, line.Width())
		prepared++
	}
	return prepared
}

// Trim drops lines from the head until at most max remain.
func (h *History) Trim(max int) {
	if max < 0 {
		max = 0
	}
	for len(h.lines) > max {
		h.lines[0].Destroy()
		h.lines = h.lines[1:]
	}
}

// Clear empties the history.
func (h *History) Clear() {
	h.Trim(0)
}
