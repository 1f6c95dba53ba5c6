// Package charset implements an immutable set of Unicode code points,
// represented as a canonical, sorted sequence of disjoint half-open
// intervals. It provides the boolean algebra (union, intersection,
// difference, complement) that the expression algebra in package expr
// builds its character classes from.
package charset

import (
	"fmt"
	"sort"
	"strings"
)

// CodePointMin and CodePointMax bound the Unicode codespace.
// https://www.unicode.org/versions/Unicode13.0.0/ch03.pdf, 3.4 D9.
const (
	CodePointMin = 0
	CodePointMax = 0x10FFFF
)

// Range is a half-open interval [Lo, Hi) of code points.
type Range struct {
	Lo, Hi rune
}

func (r Range) empty() bool {
	return r.Lo >= r.Hi
}

// InvalidRangeError reports a malformed interval passed to Of.
type InvalidRangeError struct {
	Lo, Hi rune
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid code point range [%#x, %#x)", e.Lo, e.Hi)
}

// Set is an immutable, canonical set of code points: a strictly
// increasing sequence of non-empty, non-adjacent, non-overlapping
// ranges. The zero value is the empty set.
type Set struct {
	ranges []Range
}

// Of builds a singleton-interval set from the half-open range [lo, hi).
// It fails with InvalidRangeError if lo >= hi or either endpoint lies
// outside 0..=0x110000.
func Of(lo, hi rune) (Set, error) {
	if lo < CodePointMin || hi < CodePointMin || lo > CodePointMax+1 || hi > CodePointMax+1 || lo >= hi {
		return Set{}, &InvalidRangeError{Lo: lo, Hi: hi}
	}
	return Set{ranges: []Range{{Lo: lo, Hi: hi}}}, nil
}

// MustOf is Of, panicking on error. Intended for call sites with
// statically known-valid bounds (tests, literal character classes).
func MustOf(lo, hi rune) Set {
	s, err := Of(lo, hi)
	if err != nil {
		panic(err)
	}
	return s
}

// Single returns the set containing exactly the one code point cp.
func Single(cp rune) Set {
	return MustOf(cp, cp+1)
}

// Full returns the set of the entire Unicode codespace, Σ.
func Full() Set {
	return MustOf(CodePointMin, CodePointMax+1)
}

// Empty returns the empty set.
func Empty() Set {
	return Set{}
}

// FromRanges builds a canonical set from an arbitrary, possibly
// unordered and overlapping, list of ranges.
func FromRanges(rs ...Range) Set {
	var out []Range
	for _, r := range rs {
		if !r.empty() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Lo < out[j].Lo || (out[i].Lo == out[j].Lo && out[i].Hi < out[j].Hi)
	})
	return Set{ranges: normalize(out)}
}

// normalize merges a sorted-by-Lo slice of (possibly touching or
// overlapping) ranges into the canonical disjoint, non-adjacent form.
func normalize(sorted []Range) []Range {
	if len(sorted) == 0 {
		return nil
	}
	merged := make([]Range, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if r.Lo > cur.Hi {
			merged = append(merged, cur)
			cur = r
			continue
		}
		if r.Hi > cur.Hi {
			cur.Hi = r.Hi
		}
	}
	merged = append(merged, cur)
	return merged
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// IsFull reports whether the set is exactly Σ.
func (s Set) IsFull() bool {
	return len(s.ranges) == 1 && s.ranges[0].Lo == CodePointMin && s.ranges[0].Hi == CodePointMax+1
}

// Contains reports whether cp is a member of the set. O(log n) in the
// number of ranges.
func (s Set) Contains(cp rune) bool {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].Hi > cp
	})
	return i < len(s.ranges) && s.ranges[i].Lo <= cp
}

// Ranges returns the interval list in increasing order. The returned
// slice is a finite, restartable snapshot; callers must not mutate it.
func (s Set) Ranges() []Range {
	return s.ranges
}

// Union returns the canonical union of s and the operands.
func (s Set) Union(others ...Set) Set {
	all := append([]Range{}, s.ranges...)
	for _, o := range others {
		all = append(all, o.ranges...)
	}
	return FromRanges(all...)
}

// Intersect returns the canonical intersection of s and the operands.
func (s Set) Intersect(others ...Set) Set {
	acc := s
	for _, o := range others {
		acc = pairwiseIntersect(acc, o)
	}
	return acc
}

func pairwiseIntersect(a, b Set) Set {
	var out []Range
	i, j := 0, 0
	for i < len(a.ranges) && j < len(b.ranges) {
		x, y := a.ranges[i], b.ranges[j]
		lo, hi := max(x.Lo, y.Lo), min(x.Hi, y.Hi)
		if lo < hi {
			out = append(out, Range{Lo: lo, Hi: hi})
		}
		if x.Hi < y.Hi {
			i++
		} else {
			j++
		}
	}
	return Set{ranges: out}
}

// Difference returns the set of code points in s but in none of others.
func (s Set) Difference(others ...Set) Set {
	acc := s
	for _, o := range others {
		acc = pairwiseDifference(acc, o)
	}
	return acc
}

func pairwiseDifference(a, b Set) Set {
	var out []Range
	i, j := 0, 0
	for i < len(a.ranges) {
		r := a.ranges[i]
		for {
			for j < len(b.ranges) && b.ranges[j].Hi <= r.Lo {
				j++
			}
			if j >= len(b.ranges) || b.ranges[j].Lo >= r.Hi {
				out = append(out, r)
				break
			}
			s := b.ranges[j]
			if r.Lo < s.Lo {
				out = append(out, Range{Lo: r.Lo, Hi: s.Lo})
			}
			if s.Hi < r.Hi {
				r.Lo = s.Hi
				continue
			}
			break
		}
		i++
	}
	return Set{ranges: out}
}

// Complement returns Σ \ s.
func (s Set) Complement() Set {
	return Full().Difference(s)
}

// Equal reports whether s and t denote the same set of code points.
// Canonical form is unique per set, so this is a structural comparison.
func (s Set) Equal(t Set) bool {
	if len(s.ranges) != len(t.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.ranges[i] != t.ranges[i] {
			return false
		}
	}
	return true
}

// Compare gives a total, lexicographic order on interval lists. It is
// used as a deterministic tie-breaker wherever canonical construction
// needs to iterate sets in a stable order, e.g. the alphabet partition
// of an expression.
func Compare(a, b Set) int {
	for i := 0; i < len(a.ranges) && i < len(b.ranges); i++ {
		if a.ranges[i].Lo != b.ranges[i].Lo {
			return sign(int64(a.ranges[i].Lo) - int64(b.ranges[i].Lo))
		}
		if a.ranges[i].Hi != b.ranges[i].Hi {
			return sign(int64(a.ranges[i].Hi) - int64(b.ranges[i].Hi))
		}
	}
	return sign(int64(len(a.ranges)) - int64(len(b.ranges)))
}

func sign(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Representative returns an arbitrary code point belonging to s. It is
// used by the DFA builder to pick a witness symbol for each class of an
// alphabet partition. Panics if s is empty.
func (s Set) Representative() rune {
	if len(s.ranges) == 0 {
		panic("charset: Representative of empty set")
	}
	return s.ranges[0].Lo
}

// Cardinality returns the number of code points in s.
func (s Set) Cardinality() int64 {
	var n int64
	for _, r := range s.ranges {
		n += int64(r.Hi) - int64(r.Lo)
	}
	return n
}

func (s Set) String() string {
	if len(s.ranges) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range s.ranges {
		if i > 0 {
			b.WriteByte(' ')
		}
		if r.Hi == r.Lo+1 {
			fmt.Fprintf(&b, "%#x", r.Lo)
		} else {
			fmt.Fprintf(&b, "%#x-%#x", r.Lo, r.Hi-1)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func max(a, b rune) rune {
	if a > b {
		return a
	}
	return b
}

func min(a, b rune) rune {
	if a < b {
		return a
	}
	return b
}
