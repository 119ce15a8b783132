// Package readability provides a pagemd.Extractor backed by
// go-readability, used as a fallback when trafilatura extraction fails.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/fwojciec/pagemd"
)

// Ensure Extractor implements pagemd.Extractor at compile time.
var _ pagemd.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*pagemd.ExtractResult, error) {
	if rawHTML == "" {
		return nil, pagemd.Errorf(pagemd.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &pagemd.ExtractResult{
		Title:       article.Title,
		Author:      article.Byline,
		ContentHTML: article.Content,
	}, nil
}

// Ensure Fallback implements pagemd.Extractor at compile time.
var _ pagemd.Extractor = (*Fallback)(nil)

// Fallback tries a primary extractor first and falls back to a secondary
// one when the primary fails or produces no content.
type Fallback struct {
	primary   pagemd.Extractor
	secondary pagemd.Extractor
}

// NewFallback creates a Fallback extractor.
func NewFallback(primary, secondary pagemd.Extractor) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Extract delegates to the primary extractor, then the secondary.
func (f *Fallback) Extract(rawHTML string) (*pagemd.ExtractResult, error) {
	result, err := f.primary.Extract(rawHTML)
	if err == nil && strings.TrimSpace(result.ContentHTML) != "" {
		return result, nil
	}
	return f.secondary.Extract(rawHTML)
}
