package pagemd

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Heading represents a heading in a document. The flat, document-ordered
// list is the canonical form; Children is only populated by
// BuildHeadingTree, which derives a nested view.
type Heading struct {
	ID       string     `json:"id"`
	Text     string     `json:"text"`
	Level    int        `json:"level"`
	Children []*Heading `json:"children,omitempty"`
}

// DefaultHeadingLevels are the levels extracted when none are requested.
var DefaultHeadingLevels = []int{2, 3, 4}

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
)

// ExtractHeadings parses markdown and returns headings at the requested
// levels in document order. Levels default to 2-4 when none are given.
// IDs are synthesized via Slugify with a heading-{index} fallback for
// empty slugs, and duplicates receive deterministic numeric suffixes.
func ExtractHeadings(markdown string, levels ...int) []Heading {
	if markdown == "" {
		return nil
	}
	if len(levels) == 0 {
		levels = DefaultHeadingLevels
	}
	wanted := make(map[int]bool, len(levels))
	for _, l := range levels {
		wanted[l] = true
	}

	// Drop fenced code blocks so # inside code is not mistaken for a heading.
	cleaned := codeBlockRe.ReplaceAllString(markdown, "")

	matches := headingRe.FindAllStringSubmatch(cleaned, -1)
	if len(matches) == 0 {
		return nil
	}

	headings := make([]Heading, 0, len(matches))
	seen := make(map[string]int)

	for _, match := range matches {
		level := len(match[1])
		if !wanted[level] {
			continue
		}
		text := strings.TrimSpace(match[2])

		id := Slugify(text)
		if id == "" {
			id = "heading-" + strconv.Itoa(len(headings))
		}
		id = disambiguate(id, seen)

		headings = append(headings, Heading{
			ID:    id,
			Text:  text,
			Level: level,
		})
	}

	return headings
}

// disambiguate returns id, or id with a numeric suffix when it has already
// been handed out. The first occurrence keeps the plain id. Suffixed ids are
// recorded too, so a later heading whose natural slug matches a generated
// suffix still gets a unique id.
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

// Slugify creates a URL-safe identifier from display text: lowercase,
// characters outside [a-z0-9 -] removed, whitespace runs collapsed to a
// single hyphen, repeated hyphens collapsed, leading/trailing hyphens
// trimmed. Applying Slugify to its own output is a no-op.
func Slugify(text string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// BuildHeadingTree folds a flat, document-ordered heading list into a
// forest nested by level. Siblings keep their relative order, and level
// skips (an h2 followed directly by an h4) nest under the nearest
// shallower ancestor despite the gap.
func BuildHeadingTree(flat []Heading) []*Heading {
	type entry struct {
		node  *Heading
		level int
	}

	var roots []*Heading
	var stack []entry

	for i := range flat {
		h := flat[i]
		h.Children = nil
		node := &h

		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
		}

		stack = append(stack, entry{node: node, level: h.Level})
	}

	return roots
}
