package htmlconv

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fwojciec/pagemd"
)

// Ensure PatternConverter implements pagemd.Converter at compile time.
var _ pagemd.Converter = (*PatternConverter)(nil)

// PatternConverter converts HTML to Markdown through an ordered sequence
// of text substitutions, without a structural parser. Code blocks are
// captured into placeholders before the substitution passes so their
// content survives untouched, and restored at the end.
type PatternConverter struct {
	opts pagemd.ConvertOptions
}

// NewPatternConverter creates a pattern-substitution converter.
func NewPatternConverter(opts pagemd.ConvertOptions) *PatternConverter {
	return &PatternConverter{opts: opts}
}

var (
	tagRe = regexp.MustCompile(`(?s)<[^>]+>`)

	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)

	preCodeRe    = regexp.MustCompile("(?is)<pre\\b[^>]*>\\s*<code\\b([^>]*)>(.*?)</code>\\s*</pre>")
	preRe        = regexp.MustCompile(`(?is)<pre\b[^>]*>(.*?)</pre>`)
	inlineCodeRe = regexp.MustCompile(`(?is)<code\b[^>]*>(.*?)</code>`)

	headingRes = [6]*regexp.Regexp{
		regexp.MustCompile(`(?is)<h1\b[^>]*>(.*?)</h1>`),
		regexp.MustCompile(`(?is)<h2\b[^>]*>(.*?)</h2>`),
		regexp.MustCompile(`(?is)<h3\b[^>]*>(.*?)</h3>`),
		regexp.MustCompile(`(?is)<h4\b[^>]*>(.*?)</h4>`),
		regexp.MustCompile(`(?is)<h5\b[^>]*>(.*?)</h5>`),
		regexp.MustCompile(`(?is)<h6\b[^>]*>(.*?)</h6>`),
	}

	pOpenRe  = regexp.MustCompile(`(?i)<p\b[^>]*>`)
	pCloseRe = regexp.MustCompile(`(?i)</p>`)

	blockquoteRe = regexp.MustCompile(`(?is)<blockquote\b[^>]*>(.*?)</blockquote>`)

	liRe       = regexp.MustCompile(`(?is)<li\b[^>]*>(.*?)</li>`)
	listWrapRe = regexp.MustCompile(`(?i)</?[uo]l\b[^>]*>`)

	strongRe = regexp.MustCompile(`(?is)<(?:strong|b)\b[^>]*>(.*?)</(?:strong|b)>`)
	emRe     = regexp.MustCompile(`(?is)<(?:em|i)\b[^>]*>(.*?)</(?:em|i)>`)
	uRe      = regexp.MustCompile(`(?is)<u\b[^>]*>(.*?)</u>`)
	strikeRe = regexp.MustCompile(`(?is)<(?:s|strike|del)\b[^>]*>(.*?)</(?:s|strike|del)>`)

	anchorRe = regexp.MustCompile(`(?is)<a\b([^>]*)>(.*?)</a>`)
	imgRe    = regexp.MustCompile(`(?i)<img\b[^>]*/?>`)

	brRe = regexp.MustCompile(`(?i)<br\b[^>]*/?>`)
	hrRe = regexp.MustCompile(`(?i)<hr\b[^>]*/?>`)

	tableRe = regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table>`)
	trRe    = regexp.MustCompile(`(?is)<tr\b[^>]*>(.*?)</tr>`)
	cellRe  = regexp.MustCompile(`(?is)<(t[dh])\b[^>]*>(.*?)</t[dh]>`)

	attrPairRe = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9-]*)\s*=\s*"([^"]*)"`)
)

// Convert applies the substitution sequence to src. It never fails:
// unmatched markup is stripped in the final pass and the remaining text
// is returned best-effort.
func (c *PatternConverter) Convert(src string) (string, error) {
	s := src

	if c.opts.StripScripts {
		s = scriptRe.ReplaceAllString(s, "")
		s = styleRe.ReplaceAllString(s, "")
	}

	s = c.applyTagHandlers(s)

	// Capture code before everything else so its content is not rewritten.
	var blocks []string
	stash := func(rendered string) string {
		blocks = append(blocks, rendered)
		return fmt.Sprintf("\x00block%d\x00", len(blocks)-1)
	}

	s = preCodeRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := preCodeRe.FindStringSubmatch(m)
		lang := ""
		if lm := langClassRe.FindStringSubmatch(sub[1]); lm != nil {
			lang = lm[1]
		}
		code := strings.Trim(pagemd.DecodeEntities(sub[2]), "\n")
		return stash("\n\n```" + lang + "\n" + code + "\n```\n\n")
	})
	s = preRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := preRe.FindStringSubmatch(m)
		code := strings.Trim(pagemd.DecodeEntities(tagRe.ReplaceAllString(sub[1], "")), "\n")
		return stash("\n\n```\n" + code + "\n```\n\n")
	})
	s = inlineCodeRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := inlineCodeRe.FindStringSubmatch(m)
		return stash("`" + pagemd.DecodeEntities(sub[1]) + "`")
	})

	for i, re := range headingRes {
		marker := strings.Repeat("#", i+1)
		s = re.ReplaceAllString(s, "\n\n"+marker+" $1\n\n")
	}

	s = pOpenRe.ReplaceAllString(s, "\n\n")
	s = pCloseRe.ReplaceAllString(s, "\n\n")

	s = blockquoteRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := blockquoteRe.FindStringSubmatch(m)
		inner := strings.TrimSpace(tagRe.ReplaceAllString(sub[1], ""))
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = "> " + strings.TrimSpace(line)
		}
		return "\n\n" + strings.Join(lines, "\n") + "\n\n"
	})

	s = tableRe.ReplaceAllStringFunc(s, c.renderTable)

	s = liRe.ReplaceAllString(s, "\n- $1")
	s = listWrapRe.ReplaceAllString(s, "\n\n")

	s = strongRe.ReplaceAllString(s, "**$1**")
	s = emRe.ReplaceAllString(s, "*$1*")
	s = uRe.ReplaceAllString(s, "_${1}_")
	s = strikeRe.ReplaceAllString(s, "~~$1~~")

	s = anchorRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := anchorRe.FindStringSubmatch(m)
		text := strings.TrimSpace(tagRe.ReplaceAllString(sub[2], ""))
		if !c.opts.ConvertLinks {
			return text
		}
		href := parseAttrs(sub[1])["href"]
		if href == "" {
			return text
		}
		return "[" + text + "](" + href + ")"
	})

	s = imgRe.ReplaceAllStringFunc(s, func(m string) string {
		if !c.opts.ConvertImages {
			return ""
		}
		attrs := parseAttrs(m)
		return "![" + attrs["alt"] + "](" + attrs["src"] + ")"
	})

	if c.opts.PreserveLineBreaks {
		s = brRe.ReplaceAllString(s, "\n")
	} else {
		s = brRe.ReplaceAllString(s, " ")
	}
	s = hrRe.ReplaceAllString(s, "\n\n---\n\n")

	// Whatever markup survived the passes above is stripped wholesale.
	s = tagRe.ReplaceAllString(s, "")
	s = pagemd.DecodeEntities(s)

	s = wsRunRe.ReplaceAllString(s, " ")
	s = collapseBlanks(s)

	// Restore code last so its whitespace survives the passes above.
	for i, block := range blocks {
		s = strings.Replace(s, fmt.Sprintf("\x00block%d\x00", i), block, 1)
	}

	return strings.TrimSpace(s), nil
}

// applyTagHandlers runs registered per-tag overrides before the default
// substitutions so they fully control their elements. Tags are processed in
// sorted order so output stays byte-stable when handled elements nest.
func (c *PatternConverter) applyTagHandlers(s string) string {
	tags := make([]string, 0, len(c.opts.TagHandlers))
	for tag := range c.opts.TagHandlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		handler := c.opts.TagHandlers[tag]
		re, err := regexp.Compile(`(?is)<` + regexp.QuoteMeta(tag) + `\b([^>]*)>(.*?)</` + regexp.QuoteMeta(tag) + `>`)
		if err != nil {
			continue
		}
		s = re.ReplaceAllStringFunc(s, func(m string) string {
			sub := re.FindStringSubmatch(m)
			content := strings.TrimSpace(pagemd.DecodeEntities(tagRe.ReplaceAllString(sub[2], "")))
			return handler(pagemd.Element{
				Name:    tag,
				Attr:    parseAttrs(sub[1]),
				Content: content,
			})
		})
	}
	return s
}

// renderTable rebuilds one <table> as a Markdown pipe table. The header
// separator goes after the first row containing a <th>, or after the
// first row when none does.
func (c *PatternConverter) renderTable(tableHTML string) string {
	trs := trRe.FindAllStringSubmatch(tableHTML, -1)
	if len(trs) == 0 {
		return ""
	}

	type row struct {
		cells  []string
		header bool
	}
	rows := make([]row, 0, len(trs))

	for _, tr := range trs {
		r := row{}
		for _, cell := range cellRe.FindAllStringSubmatch(tr[1], -1) {
			if strings.EqualFold(cell[1], "th") {
				r.header = true
			}
			text := tagRe.ReplaceAllString(cell[2], "")
			text = strings.TrimSpace(wsRunRe.ReplaceAllString(pagemd.DecodeEntities(text), " "))
			r.cells = append(r.cells, text)
		}
		rows = append(rows, r)
	}

	sepAfter := 0
	for i, r := range rows {
		if r.header {
			sepAfter = i
			break
		}
	}

	var b strings.Builder
	b.WriteString("\n\n")
	for i, r := range rows {
		b.WriteString("| " + strings.Join(r.cells, " | ") + " |\n")
		if i == sepAfter {
			sep := make([]string, len(r.cells))
			for j := range sep {
				sep[j] = "---"
			}
			b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
		}
	}
	b.WriteString("\n")

	return b.String()
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPairRe.FindAllStringSubmatch(s, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}
	return attrs
}
