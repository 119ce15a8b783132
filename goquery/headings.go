// Package goquery extracts heading elements from HTML documents using CSS
// selectors, producing the flat document-ordered heading lists the TOC
// builder consumes.
package goquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagemd"
)

// maxSlugLen bounds synthesized anchor slugs on the HTML path. Existing id
// attributes are used verbatim and are not subject to the bound.
const maxSlugLen = 50

// ExtractHeadings returns the headings in src at the requested levels, in
// document order. Levels default to 2-4 when none are given. An existing
// id attribute wins; otherwise an anchor is synthesized from the heading
// text, with a heading-{index} fallback when the slug would be empty.
// Duplicate ids receive deterministic numeric suffixes.
func ExtractHeadings(src string, levels ...int) ([]pagemd.Heading, error) {
	if len(levels) == 0 {
		levels = pagemd.DefaultHeadingLevels
	}

	sel := make([]string, 0, len(levels))
	for _, l := range levels {
		if l < 1 || l > 6 {
			return nil, pagemd.Errorf(pagemd.EINVALID, "heading level %d out of range", l)
		}
		sel = append(sel, fmt.Sprintf("h%d", l))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, pagemd.Errorf(pagemd.EINVALID, "failed to parse HTML: %v", err)
	}

	var headings []pagemd.Heading
	seen := make(map[string]int)

	doc.Find(strings.Join(sel, ", ")).Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		name := s.Nodes[0].Data
		level := int(name[len(name)-1] - '0')
		text := strings.Join(strings.Fields(s.Text()), " ")

		id, exists := s.Attr("id")
		if !exists || id == "" {
			id = truncateSlug(pagemd.Slugify(text))
			if id == "" {
				id = "heading-" + strconv.Itoa(len(headings))
			}
		}

		id = disambiguate(id, seen)

		headings = append(headings, pagemd.Heading{
			ID:    id,
			Text:  text,
			Level: level,
		})
	})

	return headings, nil
}

// disambiguate returns id, or id with a numeric suffix when it has already
// been handed out. Suffixed ids are recorded too, so a later heading whose
// existing id or slug matches a generated suffix still gets a unique id.
func disambiguate(id string, seen map[string]int) string {
	count, exists := seen[id]
	if !exists {
		seen[id] = 1
		return id
	}
	for {
		candidate := id + "-" + strconv.Itoa(count)
		if _, taken := seen[candidate]; !taken {
			seen[id] = count + 1
			seen[candidate] = 1
			return candidate
		}
		count++
	}
}

// truncateSlug bounds slug length without leaving a trailing hyphen.
func truncateSlug(slug string) string {
	if len(slug) <= maxSlugLen {
		return slug
	}
	return strings.TrimRight(slug[:maxSlugLen], "-")
}
