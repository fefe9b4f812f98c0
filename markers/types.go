package markers

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Class is the family a marker type belongs to. It drives matcher priority
// and context voting.
type Class int

// Class values.
const (
	ClassOther Class = iota
	ClassDecimal
	ClassLatin
	ClassRoman
	ClassIroha
	ClassKatakana
)

var classNames = [...]string{
	ClassOther:    "other",
	ClassDecimal:  "decimal",
	ClassLatin:    "latin",
	ClassRoman:    "roman",
	ClassIroha:    "iroha",
	ClassKatakana: "katakana",
}

func (c Class) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "Class" + strconv.Itoa(int(c))
}

func parseClass(s string) (Class, bool) {
	if s == "" {
		return ClassOther, true
	}
	for c, name := range classNames {
		if name == s {
			return Class(c), true
		}
	}
	return ClassOther, false
}

// Spacing is the rule for whitespace between a marker and item content.
type Spacing int

// Spacing values.
const (
	// SpaceDefault depends on the suffix: optional after a full-width suffix,
	// mandatory after any other suffix, and "space or end" with no suffix.
	SpaceDefault Spacing = iota

	// SpaceHalf requires at least one half-width space.
	SpaceHalf

	// SpaceBoth requires at least one half- or full-width space.
	SpaceBoth

	// SpaceNoneOrBoth makes the space optional after a suffix, and "space or
	// end" without one.
	SpaceNoneOrBoth
)

var spacingNames = map[string]Spacing{
	"":             SpaceDefault,
	"default":      SpaceDefault,
	"half":         SpaceHalf,
	"both":         SpaceBoth,
	"none_or_both": SpaceNoneOrBoth,
}

// Pattern is one permitted way of decorating a marker symbol.
type Pattern struct {
	Prefix string
	Suffix string
	Space  Spacing
}

// TypeDef is a compiled marker type definition.
type TypeDef struct {
	Name  string
	Class Class

	// HTMLType is the native <ol type> value for this type, empty if none.
	HTMLType string

	Start int

	Symbols []string
	Lo, Hi  rune
	Numeric bool

	// Patterns lists permitted decorations; the first one is the default.
	Patterns []Pattern

	index map[string]int
}

// IsSymbolic returns true for types with an explicit symbol alphabet.
func (t *TypeDef) IsSymbolic() bool { return len(t.Symbols) > 0 }

// Default returns the type's default decoration.
func (t *TypeDef) Default() Pattern {
	if len(t.Patterns) == 0 {
		return Pattern{}
	}
	return t.Patterns[0]
}

// Ordinal resolves a bare symbol to its ordinal number.
func (t *TypeDef) Ordinal(symbol string) (int, bool) {
	switch {
	case t.Numeric:
		n, err := strconv.Atoi(width.Narrow.String(symbol))
		return n, err == nil && n >= 0
	case t.IsSymbolic():
		i, ok := t.index[symbol]
		return i + t.Start, ok
	default:
		r, size := utf8.DecodeRuneInString(symbol)
		if size == 0 || size != len(symbol) || r < t.Lo || r > t.Hi {
			return 0, false
		}
		return int(r-t.Lo) + t.Start, true
	}
}

// Symbol returns the symbol for an ordinal number, the inverse of Ordinal.
func (t *TypeDef) Symbol(n int) (string, bool) {
	switch {
	case t.Numeric:
		return strconv.Itoa(n), n >= 0
	case t.IsSymbolic():
		if i := n - t.Start; i >= 0 && i < len(t.Symbols) {
			return t.Symbols[i], true
		}
	default:
		if r := t.Lo + rune(n-t.Start); n >= t.Start && r <= t.Hi {
			return string(r), true
		}
	}
	return "", false
}

// contiguous returns true if the symbols appear in order, without gaps, in
// the type's alphabet. A run of one repeated symbol only needs to occur.
func (t *TypeDef) contiguous(symbols []string, allSame bool) bool {
	first, ok := t.Ordinal(symbols[0])
	if !ok {
		return false
	}
	if allSame {
		return true
	}
	for i, sym := range symbols[1:] {
		if n, ok := t.Ordinal(sym); !ok || n != first+i+1 {
			return false
		}
	}
	return true
}
