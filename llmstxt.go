package pagemd

import (
	"sort"
	"strings"
	"time"
)

// ContentItem describes one entry in an llms.txt listing.
type ContentItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Type        string `json:"type,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// SiteListing is the input for llms.txt generation.
type SiteListing struct {
	SiteName    string        `json:"siteName"`
	Description string        `json:"description,omitempty"`
	BaseURL     string        `json:"baseUrl"`
	Items       []ContentItem `json:"items"`

	// Header and Footer override the default surrounding text.
	Header string `json:"header,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// Validate returns an error if the listing is missing required fields.
func (l *SiteListing) Validate() error {
	if l.SiteName == "" {
		return Errorf(EINVALID, "site name required")
	}
	if l.BaseURL == "" {
		return Errorf(EINVALID, "site base URL required")
	}
	return nil
}

// GenerateLLMsTxt renders a sitemap-like plain-text listing for AI
// crawlers. Items appear in input order; callers wanting a different order
// use SortItemsByDate or FilterItemsByType first. Output is plain text,
// so no escaping is applied.
func GenerateLLMsTxt(listing SiteListing) (string, error) {
	if err := listing.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("# " + listing.SiteName + "\n")
	if listing.Description != "" {
		b.WriteString("\n> " + listing.Description + "\n")
	}
	if listing.Header != "" {
		b.WriteString("\n" + strings.TrimSpace(listing.Header) + "\n")
	}

	if len(listing.Items) > 0 {
		b.WriteString("\n")
		for _, item := range listing.Items {
			b.WriteString("- [" + item.Title + "](" + item.URL + ")\n")
			if item.Type != "" {
				b.WriteString("  Type: " + item.Type + "\n")
			}
			if item.Date != "" {
				b.WriteString("  Date: " + item.Date + "\n")
			}
			if item.Description != "" {
				b.WriteString("  " + item.Description + "\n")
			}
		}
	}

	if listing.Footer != "" {
		b.WriteString("\n" + strings.TrimSpace(listing.Footer) + "\n")
	}

	return b.String(), nil
}

// SortItemsByDate returns a copy of items ordered newest first. Items with
// unparseable or missing dates sort last, keeping their relative order.
func SortItemsByDate(items []ContentItem) []ContentItem {
	sorted := make([]ContentItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, iok := parseItemDate(sorted[i].Date)
		tj, jok := parseItemDate(sorted[j].Date)
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return ti.After(tj)
	})

	return sorted
}

// FilterItemsByType returns the items whose Type equals typ, preserving
// order.
func FilterItemsByType(items []ContentItem, typ string) []ContentItem {
	var filtered []ContentItem
	for _, item := range items {
		if item.Type == typ {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

var itemDateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"}

func parseItemDate(s string) (time.Time, bool) {
	for _, layout := range itemDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
