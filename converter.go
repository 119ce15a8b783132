package pagemd

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown. Malformed or
	// unbalanced HTML degrades gracefully: implementations salvage what
	// text content they can and never fail because of bad markup.
	Convert(html string) (string, error)
}

// Element is the view of an HTML element handed to a TagHandler.
type Element struct {
	// Name is the lowercase tag name.
	Name string

	// Attr holds the element's attributes.
	Attr map[string]string

	// Content is the element's already-converted child content.
	Content string
}

// TagHandler overrides the default conversion for a single tag name. When
// registered, it fully replaces the built-in handling for that element.
type TagHandler func(el Element) string

// ConvertOptions controls HTML to Markdown conversion. The zero value
// disables everything; use DefaultConvertOptions for the usual settings.
type ConvertOptions struct {
	// PreserveLineBreaks keeps <br> as literal line breaks instead of
	// collapsing them to spaces.
	PreserveLineBreaks bool

	// ConvertImages emits Markdown image syntax for <img>. When false,
	// images are omitted entirely.
	ConvertImages bool

	// ConvertLinks emits Markdown link syntax for <a>. When false, only
	// the link text survives.
	ConvertLinks bool

	// StripScripts removes <script> and <style> content entirely.
	StripScripts bool

	// TagHandlers maps lowercase tag names to override handlers,
	// consulted before any default handling.
	TagHandlers map[string]TagHandler
}

// DefaultConvertOptions returns the options used by the Assembler:
// images and links converted, scripts stripped, line breaks collapsed.
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		ConvertImages: true,
		ConvertLinks:  true,
		StripScripts:  true,
	}
}
