package pagemd

// ContentRecord represents a single piece of site content to be rendered
// as Markdown. The body may be HTML or already-written Markdown; the
// Assembler detects which. Records are treated as immutable inputs.
type ContentRecord struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	URL     string `json:"url,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Author  string `json:"author,omitempty"`

	// Date and Modified are publish/modification dates as the source
	// system provides them (typically ISO-8601); they are rendered
	// verbatim into the metadata block.
	Date     string `json:"date,omitempty"`
	Modified string `json:"modified,omitempty"`

	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	// PromptPrefix is an arbitrary instruction paragraph placed before the
	// title, aimed at AI assistants consuming the document.
	PromptPrefix string `json:"promptPrefix,omitempty"`

	// ReadingTime is an optional precomputed estimate in minutes. When
	// zero the Assembler omits the field from the metadata block.
	ReadingTime int `json:"readingTime,omitempty"`
}

// Validate returns an error if the record is missing required fields.
func (r *ContentRecord) Validate() error {
	if r.Title == "" {
		return Errorf(EINVALID, "content title required")
	}
	if r.Body == "" {
		return Errorf(EINVALID, "content body required")
	}
	return nil
}
