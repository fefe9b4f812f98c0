// Package numbering turns unordered markdown lists whose items start with
// ordinal markers ("a.", "(iv)", "イ、", "①") into ordered lists carrying
// normalized numbering attributes.
//
// A Processor works on a blocktree.Tree, as produced by
// blocktree.FromGoldmark or blocktree.FromBlackfriday, and mutates it in
// place:
//
//	tree := blocktree.FromGoldmark(src)
//	var proc numbering.Processor
//	proc.Process(tree)
package numbering

import (
	"github.com/charmbracelet/log"

	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/internal/analyze"
	"github.com/jcorbin/olify/internal/convert"
	"github.com/jcorbin/olify/internal/literal"
	"github.com/jcorbin/olify/internal/logging"
	"github.com/jcorbin/olify/markers"
)

// DefaultMarkerSpanClass is the marker span class used when Options leaves
// it empty.
const DefaultMarkerSpanClass = convert.DefaultSpanClass

// Options select optional processing behaviors; the zero value is the
// default configuration.
type Options struct {
	// FlattenNestedWrapperLists collapses unordered lists whose items only
	// hold one ordered list each into a single ordered list.
	FlattenNestedWrapperLists bool `yaml:"flatten_nested_wrapper_lists"`

	// AlwaysEmitMarkerSpan adds marker spans to every converted list, not
	// only those without a native HTML list type.
	AlwaysEmitMarkerSpan bool `yaml:"always_emit_marker_span"`

	// SuppressRoleAttribute omits role="list" from lists without a native
	// HTML list type.
	SuppressRoleAttribute bool `yaml:"suppress_role_attribute"`

	// MarkerSpanClassName is the marker span class, "li-num" by default.
	MarkerSpanClassName string `yaml:"marker_span_class_name"`

	// OmitMarkerMetadataAttributes omits data-marker-prefix and
	// data-marker-suffix.
	OmitMarkerMetadataAttributes bool `yaml:"omit_marker_metadata_attributes"`

	// EnableLiteralListRecovery re-parses indentation-only nested lists left
	// inside item paragraphs.
	EnableLiteralListRecovery bool `yaml:"enable_literal_list_recovery"`
}

// TieBreak picks a list's majority marker type among equally frequent
// types.
type TieBreak = analyze.TieBreak

// TieBreak policies.
const (
	FirstSeen = analyze.FirstSeen
	LastSeen  = analyze.LastSeen
)

// Processor runs literal list recovery, analysis, and conversion.
type Processor struct {
	// Registry defines the recognized markers; nil means markers.Default().
	Registry *markers.Registry

	Options Options

	TieBreak TieBreak

	// Logger receives debug diagnostics; nil discards them.
	Logger *log.Logger
}

// Report counts what one Process call did.
type Report struct {
	Lists     int
	Recovered int
	Converted int
	Flattened int
	Demoted   int
	Spans     int
}

// Process rewrites tree in place. It never fails: lists that cannot be
// numbered consistently are left as they were.
func (p *Processor) Process(tree *blocktree.Tree) (rep Report) {
	reg := p.Registry
	if reg == nil {
		reg = markers.MustDefault()
	}
	lg := logging.OrDiscard(p.Logger)

	if p.Options.EnableLiteralListRecovery {
		rec := literal.Recoverer{Registry: reg, Log: lg}
		rep.Recovered = rec.Recover(tree)
	}

	an := analyze.Analyzer{Registry: reg, TieBreak: p.TieBreak, Log: lg}
	lists := an.Analyze(tree)
	rep.Lists = len(lists)

	conv := convert.Converter{
		Registry: reg,
		Options: convert.Options{
			Flatten:      p.Options.FlattenNestedWrapperLists,
			AlwaysSpan:   p.Options.AlwaysEmitMarkerSpan,
			SuppressRole: p.Options.SuppressRoleAttribute,
			SpanClass:    p.Options.MarkerSpanClassName,
			OmitMetadata: p.Options.OmitMarkerMetadataAttributes,
		},
		Log: lg,
	}
	res := conv.Convert(tree, lists)
	rep.Converted = res.Converted
	rep.Flattened = res.Flattened
	rep.Demoted = res.Demoted
	rep.Spans = res.Spans

	lg.Debug("numbered lists",
		"lists", rep.Lists,
		"converted", rep.Converted,
		"recovered", rep.Recovered,
		"flattened", rep.Flattened)
	return rep
}

// Analyze recovers literal lists if enabled and returns the analysis of
// tree without converting anything, for inspection.
func (p *Processor) Analyze(tree *blocktree.Tree) []*analyze.List {
	reg := p.Registry
	if reg == nil {
		reg = markers.MustDefault()
	}
	if p.Options.EnableLiteralListRecovery {
		rec := literal.Recoverer{Registry: reg, Log: p.Logger}
		rec.Recover(tree)
	}
	an := analyze.Analyzer{Registry: reg, TieBreak: p.TieBreak, Log: p.Logger}
	return an.Analyze(tree)
}
