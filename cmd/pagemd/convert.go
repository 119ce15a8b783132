package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/htmlconv"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	var input []byte
	var err error

	if c.Path == "" || c.Path == "-" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(c.Path)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	opts := pagemd.DefaultConvertOptions()
	opts.ConvertLinks = !c.NoLinks
	opts.ConvertImages = !c.NoImages
	opts.PreserveLineBreaks = c.PreserveBreaks

	conv := htmlconv.New(opts, htmlconv.WithStrategy(htmlconv.Strategy(c.Strategy)))

	markdown, err := conv.Convert(string(input))
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, markdown)
	return nil
}
