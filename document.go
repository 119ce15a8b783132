package pagemd

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MarkdownDocument is the output of assembling a ContentRecord. It is
// derived data: recomputed on every Assemble call, never persisted.
type MarkdownDocument struct {
	Markdown    string    `json:"markdown"`
	WordCount   int       `json:"wordCount"`
	ReadingTime int       `json:"readingTime"`
	Headings    []Heading `json:"headings"`
}

// Assembler composes ContentRecords into canonical Markdown documents,
// delegating body conversion to a Converter.
type Assembler struct {
	conv Converter
	wpm  int
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithWordsPerMinute overrides the reading speed used for the document's
// reading-time estimate.
func WithWordsPerMinute(wpm int) AssemblerOption {
	return func(a *Assembler) {
		a.wpm = wpm
	}
}

// NewAssembler creates an Assembler that uses conv for HTML bodies.
func NewAssembler(conv Converter, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		conv: conv,
		wpm:  DefaultWordsPerMinute,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var htmlTagRe = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// Assemble renders rec as a single Markdown document. Section order is
// fixed: prompt prefix, title, excerpt blockquote, metadata block, body.
// Word count, reading time, and headings (all levels) are computed from
// the produced Markdown, not from the raw input.
func (a *Assembler) Assemble(rec ContentRecord) (*MarkdownDocument, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	var parts []string

	if rec.PromptPrefix != "" {
		parts = append(parts, strings.TrimSpace(rec.PromptPrefix))
	}

	parts = append(parts, "# "+strings.TrimSpace(rec.Title))

	if rec.Excerpt != "" {
		parts = append(parts, "> "+strings.TrimSpace(rec.Excerpt))
	}

	if meta := metadataBlock(rec); meta != "" {
		parts = append(parts, meta)
	}

	body := rec.Body
	if htmlTagRe.MatchString(body) {
		converted, err := a.conv.Convert(body)
		if err != nil {
			return nil, Errorf(EINTERNAL, "converting content body: %v", ErrorMessage(err))
		}
		body = converted
	}
	parts = append(parts, strings.TrimSpace(body))

	markdown := strings.TrimSpace(strings.Join(parts, "\n\n"))

	return &MarkdownDocument{
		Markdown:    markdown,
		WordCount:   CountWords(markdown),
		ReadingTime: ReadingTime(markdown, a.wpm),
		Headings:    ExtractHeadings(markdown, 1, 2, 3, 4, 5, 6),
	}, nil
}

// metadataBlock renders the ----delimited metadata section. Field order is
// fixed; absent fields are omitted. Returns "" when no field is present.
func metadataBlock(rec ContentRecord) string {
	var lines []string

	if rec.URL != "" {
		lines = append(lines, "Source: "+rec.URL)
	}
	if rec.Date != "" {
		lines = append(lines, "Date: "+rec.Date)
	}
	if rec.Modified != "" {
		lines = append(lines, "Modified: "+rec.Modified)
	}
	if rec.Author != "" {
		lines = append(lines, "Author: "+rec.Author)
	}
	if len(rec.Categories) > 0 {
		lines = append(lines, "Categories: "+strings.Join(rec.Categories, ", "))
	}
	if len(rec.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(rec.Tags, ", "))
	}
	if rec.ReadingTime > 0 {
		lines = append(lines, fmt.Sprintf("Reading Time: %d min", rec.ReadingTime))
	}

	if len(lines) == 0 {
		return ""
	}
	return "---\n" + strings.Join(lines, "\n") + "\n---"
}

var (
	mdHeadingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBoldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	mdItalicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	mdUnderscoreRe = regexp.MustCompile(`\b_([^_]+)_\b`)
	mdStrikeRe     = regexp.MustCompile(`~~([^~]+)~~`)
	mdImageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLinkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdCodeRe       = regexp.MustCompile("`([^`]*)`")
	mdListRe       = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdQuoteRe      = regexp.MustCompile(`(?m)^>\s?`)
	mdRuleRe       = regexp.MustCompile(`(?m)^-{3,}\s*$`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes Markdown syntax from md, keeping only display
// text. Links and images keep their text/alt component. Used for
// plain-text previews.
func StripMarkdown(md string) string {
	s := mdHeadingRe.ReplaceAllString(md, "")
	s = mdImageRe.ReplaceAllString(s, "$1")
	s = mdLinkRe.ReplaceAllString(s, "$1")
	s = mdBoldRe.ReplaceAllString(s, "$1")
	s = mdItalicRe.ReplaceAllString(s, "$1")
	s = mdUnderscoreRe.ReplaceAllString(s, "$1")
	s = mdStrikeRe.ReplaceAllString(s, "$1")
	s = mdCodeRe.ReplaceAllString(s, "$1")
	s = mdListRe.ReplaceAllString(s, "")
	s = mdQuoteRe.ReplaceAllString(s, "")
	s = mdRuleRe.ReplaceAllString(s, "")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// DownloadFilename builds the file name used when a document is saved as
// a download: a slugified title joined with the ISO date. The extension
// defaults to "md".
func DownloadFilename(title, ext string, t time.Time) string {
	if ext == "" {
		ext = "md"
	}
	slug := Slugify(title)
	if slug == "" {
		slug = "document"
	}
	return slug + "-" + t.Format("2006-01-02") + "." + ext
}
