// Command olify converts markdown lists written with ordinal markers into
// numbered HTML lists.
//
// Usage:
//
//	olify [flags] [FILE]
//
// Markdown is read from FILE, or stdin if none is given. HTML is written to
// stdout, or atomically to the -o file.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/renameio"
	"github.com/k0kubun/pp"

	"github.com/jcorbin/olify/blocktree"
	"github.com/jcorbin/olify/internal/analyze"
	"github.com/jcorbin/olify/internal/config"
	"github.com/jcorbin/olify/internal/logging"
	"github.com/jcorbin/olify/internal/render"
	"github.com/jcorbin/olify/internal/textio"
	"github.com/jcorbin/olify/markers"
	"github.com/jcorbin/olify/numbering"
)

func main() {
	var (
		configPath string
		catalog    string
		parser     string
		outPath    string
		dump       bool
		analysis   bool
		verbose    bool
		tieBreak   string
		opts       numbering.Options
	)

	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.StringVar(&catalog, "catalog", "", "marker catalog YAML replacing the built-in one")
	flag.StringVar(&parser, "parser", "", "markdown parser: goldmark or blackfriday")
	flag.StringVar(&tieBreak, "tie-break", "", "majority marker type on ties: first or last")
	flag.BoolVar(&opts.FlattenNestedWrapperLists, "flatten", false, "collapse wrapper lists around ordered lists")
	flag.BoolVar(&opts.EnableLiteralListRecovery, "literal", false, "recover indentation-only nested lists")
	flag.BoolVar(&opts.AlwaysEmitMarkerSpan, "always-span", false, "add marker spans to every converted list")
	flag.BoolVar(&opts.SuppressRoleAttribute, "no-role", false, "omit role=\"list\"")
	flag.StringVar(&opts.MarkerSpanClassName, "span-class", "", "marker span class (default \"li-num\")")
	flag.BoolVar(&opts.OmitMarkerMetadataAttributes, "omit-meta", false, "omit data-marker-* attributes")
	flag.BoolVar(&dump, "dump", false, "print the processed block tree instead of HTML")
	flag.BoolVar(&analysis, "analysis", false, "print list analysis instead of HTML")
	flag.StringVar(&outPath, "o", "", "write output to file, atomically")
	flag.BoolVar(&verbose, "v", false, "enable debug logging and print a summary")
	flag.Parse()

	lg := logging.New(os.Stderr)

	cfg, err := config.Load(configPath)
	if err != nil {
		lg.Fatal("load config", "err", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "catalog":
			cfg.Catalog = catalog
		case "parser":
			cfg.Parser = parser
		case "tie-break":
			cfg.TieBreak = tieBreak
		case "flatten":
			cfg.Numbering.FlattenNestedWrapperLists = opts.FlattenNestedWrapperLists
		case "literal":
			cfg.Numbering.EnableLiteralListRecovery = opts.EnableLiteralListRecovery
		case "always-span":
			cfg.Numbering.AlwaysEmitMarkerSpan = opts.AlwaysEmitMarkerSpan
		case "no-role":
			cfg.Numbering.SuppressRoleAttribute = opts.SuppressRoleAttribute
		case "span-class":
			cfg.Numbering.MarkerSpanClassName = opts.MarkerSpanClassName
		case "omit-meta":
			cfg.Numbering.OmitMarkerMetadataAttributes = opts.OmitMarkerMetadataAttributes
		case "v":
			if verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		lg.Fatal("bad options", "err", err)
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	lg.SetLevel(level)

	reg, err := loadRegistry(cfg.Catalog)
	if err != nil {
		lg.Fatal("load marker catalog", "err", err)
	}
	tb, _ := cfg.TieBreakPolicy()

	src, err := readInput(flag.Arg(0))
	if err != nil {
		lg.Fatal("read input", "err", err)
	}

	var tree *blocktree.Tree
	switch cfg.Parser {
	case config.Blackfriday:
		tree = blocktree.FromBlackfriday(src)
	default:
		tree = blocktree.FromGoldmark(src)
	}

	proc := numbering.Processor{
		Registry: reg,
		Options:  cfg.Numbering,
		TieBreak: tb,
		Logger:   lg,
	}

	var buf bytes.Buffer
	switch {
	case analysis:
		err = printAnalysis(&buf, proc.Analyze(tree))
	case dump:
		rep := proc.Process(tree)
		logSummary(verbose, lg, len(src), rep)
		err = dumpTree(&buf, tree, verbose)
	default:
		rep := proc.Process(tree)
		logSummary(verbose, lg, len(src), rep)
		err = render.HTML(&buf, tree)
	}
	if err != nil {
		lg.Fatal("format output", "err", err)
	}

	if outPath != "" {
		err = renameio.WriteFile(outPath, buf.Bytes(), 0o644)
	} else {
		_, err = buf.WriteTo(os.Stdout)
	}
	if err != nil {
		lg.Fatal("write output", "err", err)
	}
}

func loadRegistry(path string) (*markers.Registry, error) {
	if path == "" {
		return markers.Default()
	}
	cat, err := markers.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return markers.Build(cat)
}

func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func logSummary(verbose bool, lg *log.Logger, size int, rep numbering.Report) {
	if !verbose {
		return
	}
	lg.Info("processed",
		"input", humanize.Bytes(uint64(size)),
		"lists", humanize.Comma(int64(rep.Lists)),
		"converted", humanize.Comma(int64(rep.Converted)),
		"recovered", humanize.Comma(int64(rep.Recovered)),
		"flattened", humanize.Comma(int64(rep.Flattened)),
		"demoted", humanize.Comma(int64(rep.Demoted)),
		"spans", humanize.Comma(int64(rep.Spans)))
}

// dumpTree writes each top-level block as a numbered entry, continuation
// lines indented under its number.
func dumpTree(to io.Writer, tree *blocktree.Tree, verbose bool) error {
	idx := tree.Index()
	i, n := 0, 0
	return textio.WriteLines(to, func(w io.Writer, _ func()) bool {
		if i >= tree.Len() {
			return false
		}
		j := idx.Close(i) + 1
		block := &blocktree.Tree{Nodes: tree.Nodes[i:j]}
		i = j
		n++

		width, _ := fmt.Fprintf(w, "%v. ", n)
		bw := textio.PrefixWriter(strings.Repeat(" ", width), w)
		bw.Skip = true
		defer bw.Close()
		if verbose {
			fmt.Fprintf(bw, "%+v\n", block)
		} else {
			fmt.Fprintf(bw, "%v\n", block)
		}
		return true
	})
}

// listSummary is the printed form of one analyzed list.
type listSummary struct {
	Line       int
	Kind       string
	Type       string
	Markers    []string
	Ordinals   []int
	Consistent bool
	Loose      bool
	Convert    bool
	Items      []string
}

func printAnalysis(w io.Writer, lists []*analyze.List) error {
	summaries := make([]listSummary, 0, len(lists))
	for _, l := range lists {
		s := listSummary{
			Line:    l.Node.Lines.Start + 1,
			Kind:    l.Node.Kind.String(),
			Loose:   l.Loose,
			Convert: l.ShouldConvert,
		}
		if r := l.Run; r != nil {
			s.Type, s.Ordinals, s.Consistent = r.Type, r.Ordinals, r.Consistent
			for _, m := range r.Markers {
				s.Markers = append(s.Markers, m.Source)
			}
		}
		for _, it := range l.Items {
			if it.Inline != nil {
				s.Items = append(s.Items, it.Inline.Text)
			}
		}
		summaries = append(summaries, s)
	}
	pp.ColoringEnabled = false
	_, err := pp.Fprintln(w, summaries)
	return err
}
