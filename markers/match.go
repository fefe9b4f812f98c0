package markers

import (
	"strings"
	"unicode"
)

// Marker is one ordinal marker occurrence found at the start of item text.
type Marker struct {
	Type   string
	Symbol string
	Prefix string
	Suffix string

	// Joint is the whitespace between the marker and the item content.
	Joint string

	// Number is the ordinal the symbol resolves to.
	Number int

	// Source is the marker as written: prefix, symbol, and suffix.
	Source string
}

// Len returns the byte length of the marker and its joint.
func (m Marker) Len() int { return len(m.Source) + len(m.Joint) }

// contextPreference orders classes for context voting.
var contextPreference = [...]Class{
	ClassIroha,
	ClassKatakana,
	ClassRoman,
	ClassLatin,
	ClassDecimal,
}

const leadingSpace = " \t　"

// Match recognizes a marker at the start of text, trying compiled matchers in
// priority order.
func (r *Registry) Match(text string) (Marker, bool) {
	return r.MatchIn(text, nil)
}

// MatchIn recognizes a marker at the start of text, trying the given type's
// matchers first and falling back to Match when typ is nil or does not match.
func (r *Registry) MatchIn(text string, typ *TypeDef) (Marker, bool) {
	text = strings.TrimLeft(text, leadingSpace)
	if typ != nil {
		for _, e := range r.entries {
			if e.typ == typ {
				if m, ok := e.match(text); ok {
					return m, true
				}
			}
		}
	}
	for _, e := range r.entries {
		if m, ok := e.match(text); ok {
			return m, true
		}
	}
	return Marker{}, false
}

// MatchWithContext recognizes a marker in text, resolving ambiguous readings
// by voting over all sibling item texts (which should include text itself).
func (r *Registry) MatchWithContext(text string, siblings []string) (Marker, bool) {
	return r.MatchIn(text, r.ContextType(siblings))
}

// ContextType returns the preferred type whose alphabet contains the bare
// symbols of every sibling as one contiguous, in-order run; nil if none does.
// When every symbol is identical a single occurrence suffices.
func (r *Registry) ContextType(siblings []string) *TypeDef {
	if len(siblings) == 0 {
		return nil
	}
	syms := make([]string, len(siblings))
	allSame := true
	for i, text := range siblings {
		sym := r.bareSymbol(text)
		if sym == "" {
			return nil
		}
		syms[i] = sym
		allSame = allSame && sym == syms[0]
	}
	for _, class := range contextPreference {
		for _, typ := range r.types {
			if typ.Class == class && typ.contiguous(syms, allSame) {
				return typ
			}
		}
	}
	return nil
}

// bareSymbol takes the leading token of text, dropping any catalog prefix
// runes and stopping at the first suffix rune.
func (r *Registry) bareSymbol(text string) string {
	text = strings.TrimLeft(text, leadingSpace)
	text = strings.TrimLeftFunc(text, func(c rune) bool { return r.prefixRunes[c] })
	end := strings.IndexFunc(text, func(c rune) bool {
		return unicode.IsSpace(c) || r.suffixRunes[c]
	})
	if end >= 0 {
		text = text[:end]
	}
	return text
}

func (e entry) match(text string) (Marker, bool) {
	m, err := e.re.FindStringMatch(text)
	if err != nil || m == nil {
		return Marker{}, false
	}
	symbol := m.GroupByNumber(2).String()
	n, ok := e.typ.Ordinal(symbol)
	if !ok {
		return Marker{}, false
	}
	return Marker{
		Type:   e.typ.Name,
		Symbol: symbol,
		Prefix: e.pattern.Prefix,
		Suffix: e.pattern.Suffix,
		Joint:  m.GroupByNumber(3).String(),
		Number: n,
		Source: m.GroupByNumber(1).String(),
	}, true
}
