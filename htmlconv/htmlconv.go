// Package htmlconv converts HTML fragments to Markdown. Two interchangeable
// strategies are provided: TreeConverter parses the fragment into a node
// tree and transforms it recursively, while PatternConverter applies an
// ordered sequence of text substitutions. New selects a strategy by probing
// parser capability at construction time, so call sites never branch on the
// environment.
//
// The strategies converge on materially equivalent output for well-formed
// single-level HTML. Byte-identical output is not guaranteed for deeply
// nested or malformed input; that divergence is deliberate and documented
// rather than papered over.
package htmlconv

import (
	"regexp"
	"strings"

	"github.com/fwojciec/pagemd"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Strategy identifies a conversion strategy.
type Strategy string

// Available strategies. StrategyAuto probes parser capability and falls
// back to pattern substitution when structural parsing is unavailable.
const (
	StrategyAuto    Strategy = "auto"
	StrategyTree    Strategy = "tree"
	StrategyPattern Strategy = "pattern"
)

type config struct {
	strategy Strategy
}

// Option configures New.
type Option func(*config)

// WithStrategy forces a specific strategy instead of probing.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// New returns a Converter for the given options. With StrategyAuto the
// structural strategy is used when the parser accepts a sentinel fragment,
// otherwise the pattern strategy.
func New(opts pagemd.ConvertOptions, options ...Option) pagemd.Converter {
	cfg := config{strategy: StrategyAuto}
	for _, o := range options {
		o(&cfg)
	}

	switch cfg.strategy {
	case StrategyTree:
		return NewTreeConverter(opts)
	case StrategyPattern:
		return NewPatternConverter(opts)
	}

	if probeParser() {
		return NewTreeConverter(opts)
	}
	return NewPatternConverter(opts)
}

// probeParser reports whether structural HTML parsing is usable.
func probeParser() bool {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	_, err := html.ParseFragment(strings.NewReader("<p>probe</p>"), body)
	return err == nil
}

var (
	blankRunRe = regexp.MustCompile(`\n{3,}`)
	wsRunRe    = regexp.MustCompile(`[ \t]+`)
)

// collapseBlanks reduces runs of three or more newlines to exactly one
// blank line.
func collapseBlanks(s string) string {
	return blankRunRe.ReplaceAllString(s, "\n\n")
}
