package page

import "github.com/mattn/go-runewidth"

// maxPacked is the number of code points a Char can hold without
// spilling to heap storage: one base plus up to two combining marks.
const maxPacked = 3

// hardMaxCombining is the hard upper bound on code points a Char may
// ever hold (base + combining marks), per spec §3.
const hardMaxCombining = 255

// softMaxCombining is the soft limit on combining marks silently
// enforced by Merge, per spec §4.1.
const softMaxCombining = 64

// replacementChar is substituted whenever an allocation that spec
// requires to "never observably fail" would otherwise fail.
const replacementChar rune = 0xFFFD

// Char represents zero or more UCS-4 code points: a null sentinel, a
// packed form holding 1-3 code points inline, or a boxed form holding
// 4+ code points on the heap. Functions that take a Char by value are
// documented as consuming it, matching the ownership-transfer contract
// of spec §4.1; in this Go port that contract is advisory (the garbage
// collector reclaims boxed storage), but Free is kept for symmetry with
// callers written against the ownership discipline.
type Char struct {
	count uint8
	small [maxPacked]rune
	boxed *[]rune
}

// Null is the zero-value Char: no code points.
var Null = Char{}

// IsNull reports whether ch holds no code points.
func (ch Char) IsNull() bool {
	return ch.boxed == nil && ch.count == 0
}

// IsAllocated reports whether ch spilled to heap (boxed) storage.
func (ch Char) IsAllocated() bool {
	return ch.boxed != nil
}

// Same reports whether a and b are the identical tagged word: for
// boxed Chars, the same backing storage; for packed/null Chars,
// bit-identical contents. Same implies Equal but not conversely, which
// lets cell writes short-circuit on an unchanged tagged word without
// doing a full code-point comparison.
func Same(a, b Char) bool {
	if a.IsAllocated() != b.IsAllocated() {
		return false
	}
	if a.IsAllocated() {
		return a.boxed == b.boxed
	}
	return a.count == b.count && a.small == b.small
}

// Equal reports whether a and b represent the same code-point sequence,
// regardless of packed/boxed representation.
func Equal(a, b Char) bool {
	ar, an := Resolve(a)
	br, bn := Resolve(b)
	if an != bn {
		return false
	}
	for i := 0; i < an; i++ {
		if ar[i] != br[i] {
			return false
		}
	}
	return true
}

// Free releases any heap storage held by ch and resets *ch to Null.
// Null and packed forms hold no heap storage, so for them only the
// reset happens.
func Free(ch *Char) {
	if ch == nil {
		return
	}
	ch.boxed = nil
	ch.count = 0
	ch.small = [maxPacked]rune{}
}

// Set releases previous and returns a new Char containing just ucs4.
func Set(previous *Char, ucs4 rune) Char {
	if previous != nil {
		Free(previous)
	}
	return Char{count: 1, small: [maxPacked]rune{ucs4}}
}

// Merge appends ucs4 to base as a combining mark, per spec §4.1:
//   - ucs4 > 0x10FFFF is rejected, base is returned unchanged.
//   - exceeding the soft combining-mark limit (64) returns base unchanged.
//   - otherwise returns an extended Char (packed if the new total fits
//     in three slots, boxed otherwise) and releases base iff the
//     returned Char differs from base.
func Merge(base Char, ucs4 rune) Char {
	if ucs4 > 0x10FFFF {
		return base
	}

	existing, n := Resolve(base)
	if n-1 >= softMaxCombining || n >= hardMaxCombining {
		return base
	}

	total := n + 1
	if total <= maxPacked {
		var small [maxPacked]rune
		copy(small[:], existing)
		small[n] = ucs4
		return Char{count: uint8(total), small: small}
	}

	buf := make([]rune, total)
	copy(buf, existing)
	buf[n] = ucs4
	return Char{boxed: &buf}
}

// Dup makes an independent copy of ch. Packed and null Chars are
// copied by value; a boxed Char gets freshly allocated backing
// storage. Dup never observably fails: were allocation ever to fail it
// would yield the replacement character as a packed Char.
func Dup(ch Char) Char {
	if !ch.IsAllocated() {
		return ch
	}
	cp := make([]rune, len(*ch.boxed))
	copy(cp, *ch.boxed)
	return Char{boxed: &cp}
}

// Resolve returns a view of ch's code points and their count. The
// returned slice is valid only until ch (or the Char it was copied
// from) is next mutated.
func Resolve(ch Char) ([]rune, int) {
	switch {
	case ch.IsAllocated():
		return *ch.boxed, len(*ch.boxed)
	case ch.count == 0:
		return nil, 0
	default:
		return ch.small[:ch.count], int(ch.count)
	}
}

// LookupWidth returns the display width of ch's base code point,
// clamped to be non-negative. Combining marks never add width.
func LookupWidth(ch Char) uint32 {
	r, n := Resolve(ch)
	if n == 0 {
		return 0
	}
	w := runewidth.RuneWidth(r[0])
	if w < 0 {
		return 0
	}
	return uint32(w)
}
