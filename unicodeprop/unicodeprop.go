// Package unicodeprop resolves named Unicode properties (general
// categories, scripts, binary properties, and a handful of common
// composites) to the character sets \p{Name} denotes in a pattern.
package unicodeprop

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/MichaelPaddon/epsilon/charset"
)

// UnknownPropertyError reports a \p{Name} reference to a property this
// package does not recognize.
type UnknownPropertyError struct {
	Name string
}

func (e *UnknownPropertyError) Error() string {
	return "unicodeprop: unknown property " + e.Name
}

// composite names properties with no single stdlib table of their own,
// merged on demand from the tables that do exist.
var composite = map[string][]*unicode.RangeTable{
	"Alnum": {unicode.L, unicode.Nd},
	"Word":  {unicode.L, unicode.Nd, unicode.Pc},
}

// Property resolves name to the set of code points it denotes. Lookup
// tries, in order: the composite aliases above, general category
// tables (both the one-letter groups like "L" and two-letter
// subcategories like "Lu"), script tables, and binary properties such
// as "White_Space" or "ASCII_Hex_Digit".
func Property(name string) (charset.Set, error) {
	if tables, ok := composite[name]; ok {
		return convert(rangetable.Merge(tables...)), nil
	}
	if rt, ok := unicode.Categories[name]; ok {
		return convert(rt), nil
	}
	if rt, ok := unicode.Scripts[name]; ok {
		return convert(rt), nil
	}
	if rt, ok := unicode.Properties[name]; ok {
		return convert(rt), nil
	}
	return charset.Set{}, &UnknownPropertyError{Name: name}
}

// convert flattens a stdlib RangeTable's R16/R32 entries, expanding
// strided entries one code point at a time, into a normalized set.
func convert(rt *unicode.RangeTable) charset.Set {
	var ranges []charset.Range
	for _, r := range rt.R16 {
		ranges = append(ranges, expand(rune(r.Lo), rune(r.Hi), rune(r.Stride))...)
	}
	for _, r := range rt.R32 {
		ranges = append(ranges, expand(rune(r.Lo), rune(r.Hi), rune(r.Stride))...)
	}
	return charset.FromRanges(ranges...)
}

func expand(lo, hi, stride rune) []charset.Range {
	if stride == 1 {
		return []charset.Range{{Lo: lo, Hi: hi + 1}}
	}
	out := make([]charset.Range, 0, (hi-lo)/stride+1)
	for r := lo; r <= hi; r += stride {
		out = append(out, charset.Range{Lo: r, Hi: r + 1})
	}
	return out
}
