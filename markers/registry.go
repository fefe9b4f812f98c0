package markers

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	cat, err := ParseCatalog(defaultCatalog)
	if err != nil {
		return nil, err
	}
	return Build(cat)
})

// Default returns the registry built from the embedded catalog. It is built
// once, on first use, and shared read-only thereafter.
func Default() (*Registry, error) { return defaultRegistry() }

// MustDefault is like Default, but panics if the embedded catalog is invalid.
func MustDefault() *Registry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	return reg
}

// Registry holds compiled marker matchers in priority order. A Registry is
// immutable once built, and safe for concurrent use.
type Registry struct {
	types   []*TypeDef
	byName  map[string]*TypeDef
	entries []entry
	affixes map[string]string

	prefixRunes map[rune]bool
	suffixRunes map[rune]bool
}

type entry struct {
	re      *regexp2.Regexp
	typ     *TypeDef
	pattern Pattern
}

// Build validates a catalog and compiles one matcher per permitted (type,
// pattern) combination. Misconfiguration is reported here, before any
// document is processed.
func Build(cat *Catalog) (*Registry, error) {
	reg := &Registry{
		byName:      make(map[string]*TypeDef, len(cat.Types)),
		affixes:     cat.Affixes,
		prefixRunes: make(map[rune]bool),
		suffixRunes: make(map[rune]bool),
	}

	groups := make(map[string][]Pattern, len(cat.Groups))
	for name, specs := range cat.Groups {
		pats := make([]Pattern, 0, len(specs))
		for _, spec := range specs {
			space, ok := spacingNames[spec.Space]
			if !ok {
				return nil, fmt.Errorf("%w %q in group %q", ErrUnknownSpacing, spec.Space, name)
			}
			pats = append(pats, Pattern{Prefix: spec.Prefix, Suffix: spec.Suffix, Space: space})
			for _, r := range spec.Prefix {
				reg.prefixRunes[r] = true
			}
			if r, _ := utf8.DecodeRuneInString(spec.Suffix); r != utf8.RuneError {
				reg.suffixRunes[r] = true
			}
		}
		groups[name] = pats
	}

	for _, spec := range cat.Types {
		typ, err := buildType(spec, groups)
		if err != nil {
			return nil, err
		}
		if _, dup := reg.byName[typ.Name]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateType, typ.Name)
		}
		reg.byName[typ.Name] = typ
		reg.types = append(reg.types, typ)
	}

	ordered := append([]*TypeDef(nil), reg.types...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return priority(ordered[i]) < priority(ordered[j])
	})
	for _, typ := range ordered {
		alt := alternation(typ)
		for _, pat := range typ.Patterns {
			re, err := regexp2.Compile(matcherSource(alt, pat), regexp2.None)
			if err != nil {
				return nil, fmt.Errorf("%w: type %q: %v", ErrBadCatalog, typ.Name, err)
			}
			reg.entries = append(reg.entries, entry{re: re, typ: typ, pattern: pat})
		}
	}
	return reg, nil
}

func buildType(spec TypeSpec, groups map[string][]Pattern) (*TypeDef, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: unnamed type", ErrBadCatalog)
	}
	class, ok := parseClass(spec.Class)
	if !ok {
		return nil, fmt.Errorf("%w: type %q: unknown class %q", ErrBadCatalog, spec.Name, spec.Class)
	}
	typ := &TypeDef{
		Name:     spec.Name,
		Class:    class,
		HTMLType: spec.HTMLType,
		Start:    1,
		Numeric:  spec.Numeric,
	}
	if spec.Start != nil {
		typ.Start = *spec.Start
	}

	alphabets := 0
	if spec.Numeric {
		alphabets++
	}
	if len(spec.Symbols) > 0 {
		alphabets++
		typ.Symbols = spec.Symbols
		typ.index = make(map[string]int, len(spec.Symbols))
		for i, sym := range spec.Symbols {
			if sym == "" {
				return nil, fmt.Errorf("%w: type %q: empty symbol", ErrBadCatalog, spec.Name)
			}
			if _, dup := typ.index[sym]; dup {
				return nil, fmt.Errorf("%w: type %q: duplicate symbol %q", ErrBadCatalog, spec.Name, sym)
			}
			typ.index[sym] = i
		}
	}
	if len(spec.Range) > 0 {
		alphabets++
		if len(spec.Range) != 2 {
			return nil, fmt.Errorf("%w: type %q: range needs two bounds", ErrBadCatalog, spec.Name)
		}
		lo, loSize := utf8.DecodeRuneInString(spec.Range[0])
		hi, hiSize := utf8.DecodeRuneInString(spec.Range[1])
		if loSize != len(spec.Range[0]) || hiSize != len(spec.Range[1]) || lo == utf8.RuneError || hi < lo {
			return nil, fmt.Errorf("%w: type %q: invalid range %q", ErrBadCatalog, spec.Name, spec.Range)
		}
		typ.Lo, typ.Hi = lo, hi
	}
	switch {
	case alphabets == 0:
		return nil, fmt.Errorf("%w: type %q", ErrEmptyAlphabet, spec.Name)
	case alphabets > 1:
		return nil, fmt.Errorf("%w: type %q: more than one alphabet", ErrBadCatalog, spec.Name)
	}

	seen := make(map[Pattern]bool)
	for _, name := range spec.Groups {
		pats, ok := groups[name]
		if !ok {
			return nil, fmt.Errorf("%w %q in type %q", ErrUnknownGroup, name, spec.Name)
		}
		for _, pat := range pats {
			if !seen[pat] {
				seen[pat] = true
				typ.Patterns = append(typ.Patterns, pat)
			}
		}
	}
	if len(typ.Patterns) == 0 {
		return nil, fmt.Errorf("%w: type %q: no patterns", ErrBadCatalog, spec.Name)
	}
	return typ, nil
}

// priority orders symbol alphabets before ranges, preferring roman readings
// of ambiguous letters over latin ones.
func priority(typ *TypeDef) int {
	switch {
	case !typ.IsSymbolic():
		return 3
	case typ.Class == ClassRoman:
		return 0
	case typ.Class == ClassLatin:
		return 2
	default:
		return 1
	}
}

func alternation(typ *TypeDef) string {
	switch {
	case typ.Numeric:
		return `[0-9０-９]+`
	case typ.IsSymbolic():
		syms := append([]string(nil), typ.Symbols...)
		sort.SliceStable(syms, func(i, j int) bool { return len(syms[i]) > len(syms[j]) })
		for i, sym := range syms {
			syms[i] = regexp2.Escape(sym)
		}
		return "(?:" + strings.Join(syms, "|") + ")"
	default:
		return "[" + classEscape(typ.Lo) + "-" + classEscape(typ.Hi) + "]"
	}
}

func classEscape(r rune) string {
	switch r {
	case '\\', ']', '[', '^', '-':
		return `\` + string(r)
	}
	return string(r)
}

const (
	spaceHalf    = `[ ]+`
	spaceBoth    = `[ 　]+`
	spaceOpt     = `[ 　]*`
	spaceOrEnd   = `(?=[ 　]|$)[ 　]*`
	fullWidthMin = 0xFF
)

// matcherSource builds a matcher whose groups are: 1 the whole marker, 2 the
// bare symbol, 3 the joint whitespace.
func matcherSource(alt string, pat Pattern) string {
	return "^(" + regexp2.Escape(pat.Prefix) +
		"(" + alt + ")" +
		regexp2.Escape(pat.Suffix) + ")(" + spacing(pat) + ")"
}

func spacing(pat Pattern) string {
	switch pat.Space {
	case SpaceHalf:
		return spaceHalf
	case SpaceBoth:
		return spaceBoth
	case SpaceNoneOrBoth:
		if pat.Suffix != "" {
			return spaceOpt
		}
		return spaceOrEnd
	}
	switch {
	case pat.Suffix == "":
		return spaceOrEnd
	case isFullWidth(pat.Suffix):
		return spaceOpt
	default:
		return spaceBoth
	}
}

func isFullWidth(s string) bool {
	for _, r := range s {
		if r > fullWidthMin {
			return true
		}
	}
	return false
}

// Types returns all marker types in catalog order.
func (r *Registry) Types() []*TypeDef { return r.types }

// Type looks up a marker type by name.
func (r *Registry) Type(name string) (*TypeDef, bool) {
	typ, ok := r.byName[name]
	return typ, ok
}

// AffixName names a prefix or suffix for use in class names; the empty affix
// is "none". Returns false for affixes the catalog does not name.
func (r *Registry) AffixName(affix string) (string, bool) {
	if affix == "" {
		return "none", true
	}
	name, ok := r.affixes[affix]
	return name, ok
}

// Symbol renders an ordinal number in the named type's alphabet.
func (r *Registry) Symbol(typeName string, n int) (string, bool) {
	typ, ok := r.byName[typeName]
	if !ok {
		return "", false
	}
	return typ.Symbol(n)
}
