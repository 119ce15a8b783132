package htmlconv

import (
	"regexp"
	"strings"

	"github.com/fwojciec/pagemd"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure TreeConverter implements pagemd.Converter at compile time.
var _ pagemd.Converter = (*TreeConverter)(nil)

// TreeConverter converts HTML to Markdown by parsing the fragment into a
// node tree and transforming each node recursively.
type TreeConverter struct {
	opts pagemd.ConvertOptions
}

// NewTreeConverter creates a structural converter with the given options.
func NewTreeConverter(opts pagemd.ConvertOptions) *TreeConverter {
	return &TreeConverter{opts: opts}
}

// Convert transforms an HTML fragment into Markdown. Malformed HTML never
// fails: the parser repairs what it can and the remainder is emitted as
// text content.
func (c *TreeConverter) Convert(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		// Salvage path: strip tags and decode entities.
		stripped := tagRe.ReplaceAllString(src, "")
		return strings.TrimSpace(pagemd.DecodeEntities(stripped)), nil
	}

	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(c.render(n, false))
	}

	return strings.TrimSpace(collapseBlanks(b.String())), nil
}

var langClassRe = regexp.MustCompile(`language-([A-Za-z0-9+#-]+)`)

func (c *TreeConverter) render(n *html.Node, inPre bool) string {
	switch n.Type {
	case html.TextNode:
		if inPre {
			return n.Data
		}
		return wsRunRe.ReplaceAllString(strings.ReplaceAll(n.Data, "\n", " "), " ")
	case html.ElementNode:
		return c.renderElement(n, inPre)
	case html.DocumentNode:
		return c.children(n, inPre)
	default:
		// Comments, doctypes.
		return ""
	}
}

func (c *TreeConverter) renderElement(n *html.Node, inPre bool) string {
	name := strings.ToLower(n.Data)

	// Custom handlers fully override default handling.
	if h, ok := c.opts.TagHandlers[name]; ok {
		return h(pagemd.Element{
			Name:    name,
			Attr:    attrMap(n),
			Content: c.children(n, inPre),
		})
	}

	switch name {
	case "script", "style":
		if c.opts.StripScripts {
			return ""
		}
		return rawText(n)

	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(name[1] - '0')
		text := strings.TrimSpace(c.children(n, inPre))
		return "\n\n" + strings.Repeat("#", level) + " " + text + "\n\n"

	case "p":
		return "\n\n" + strings.TrimSpace(c.children(n, inPre)) + "\n\n"

	case "br":
		if c.opts.PreserveLineBreaks {
			return "\n"
		}
		return " "

	case "strong", "b":
		return "**" + c.children(n, inPre) + "**"

	case "em", "i":
		return "*" + c.children(n, inPre) + "*"

	case "u":
		return "_" + c.children(n, inPre) + "_"

	case "s", "strike", "del":
		return "~~" + c.children(n, inPre) + "~~"

	case "a":
		text := c.children(n, inPre)
		href := attr(n, "href")
		if !c.opts.ConvertLinks || href == "" {
			return text
		}
		return "[" + strings.TrimSpace(text) + "](" + href + ")"

	case "img":
		if !c.opts.ConvertImages {
			return ""
		}
		return "![" + attr(n, "alt") + "](" + attr(n, "src") + ")"

	case "ul", "ol":
		return "\n\n" + c.children(n, inPre) + "\n"

	case "li":
		// Flat list items: no ordinal numbering even under <ol>.
		return "- " + strings.TrimSpace(c.children(n, inPre)) + "\n"

	case "blockquote":
		inner := strings.TrimSpace(collapseBlanks(c.children(n, inPre)))
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return "\n\n" + strings.Join(lines, "\n") + "\n\n"

	case "pre":
		return c.renderPre(n)

	case "code":
		return "`" + rawText(n) + "`"

	case "hr":
		return "\n\n---\n\n"

	case "table":
		return c.renderTable(n)

	default:
		// Generic containers and unrecognized tags are transparent.
		return c.children(n, inPre)
	}
}

// renderPre emits a fenced code block. A <code> child supplies the fence
// language when it carries a language-xxx class.
func (c *TreeConverter) renderPre(n *html.Node) string {
	lang := ""
	content := n

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && strings.ToLower(child.Data) == "code" {
			content = child
			if m := langClassRe.FindStringSubmatch(attr(child, "class")); m != nil {
				lang = m[1]
			}
			break
		}
	}

	code := strings.Trim(rawText(content), "\n")
	return "\n\n```" + lang + "\n" + code + "\n```\n\n"
}

// renderTable emits a Markdown pipe table. The header separator row goes
// after the first row containing a <th> cell, or after the first row when
// none does.
func (c *TreeConverter) renderTable(n *html.Node) string {
	type row struct {
		cells  []string
		header bool
	}

	var rows []row
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			switch strings.ToLower(child.Data) {
			case "tr":
				r := row{}
				for cell := child.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type != html.ElementNode {
						continue
					}
					switch strings.ToLower(cell.Data) {
					case "th":
						r.header = true
						r.cells = append(r.cells, strings.TrimSpace(c.children(cell, false)))
					case "td":
						r.cells = append(r.cells, strings.TrimSpace(c.children(cell, false)))
					}
				}
				rows = append(rows, r)
			case "thead", "tbody", "tfoot":
				walk(child)
			}
		}
	}
	walk(n)

	if len(rows) == 0 {
		return ""
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

func (c *TreeConverter) children(n *html.Node, inPre bool) string {
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(c.render(child, inPre))
	}
	return b.String()
}

// rawText returns the concatenated text content of n without any
// whitespace normalization.
func rawText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(rawText(child))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func attrMap(n *html.Node) map[string]string {
	if len(n.Attr) == 0 {
		return nil
	}
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[a.Key] = a.Val
	}
	return m
}
