package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/htmlconv"
)

// Run executes the assemble command.
func (c *AssembleCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}

	var rec pagemd.ContentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	assembler := pagemd.NewAssembler(
		htmlconv.New(pagemd.DefaultConvertOptions()),
		pagemd.WithWordsPerMinute(c.WPM),
	)

	doc, err := assembler.Assemble(rec)
	if err != nil {
		return err
	}

	switch {
	case c.TOC:
		printTree(deps, pagemd.BuildHeadingTree(doc.Headings), 0)
	case c.Plain:
		fmt.Fprintln(deps.Stdout, pagemd.StripMarkdown(doc.Markdown))
	default:
		fmt.Fprintln(deps.Stdout, doc.Markdown)
	}

	fmt.Fprintf(deps.Stderr, "%d words, %d min read\n", doc.WordCount, doc.ReadingTime)
	return nil
}

func printTree(deps *Dependencies, nodes []*pagemd.Heading, depth int) {
	for _, node := range nodes {
		fmt.Fprintf(deps.Stdout, "%s- %s (#%s)\n", strings.Repeat("  ", depth), node.Text, node.ID)
		printTree(deps, node.Children, depth+1)
	}
}
