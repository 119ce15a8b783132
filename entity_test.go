package pagemd_test

import (
	"testing"

	"github.com/fwojciec/pagemd"
	"github.com/stretchr/testify/assert"
)

func TestDecodeEntities_replaces_named_entities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ampersand", "a &amp; b", "a & b"},
		{"angle brackets", "&lt;div&gt;", "<div>"},
		{"quotes", "&quot;hi&quot; &#39;yo&#39;", `"hi" 'yo'`},
		{"nbsp", "a&nbsp;b", "a b"},
		{"dashes", "a&mdash;b&ndash;c", "a—b–c"},
		{"symbols", "&copy; &reg; &trade; &hellip;", "© ® ™ …"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pagemd.DecodeEntities(tt.input))
		})
	}
}

func TestDecodeEntities_decodes_numeric_references(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A", pagemd.DecodeEntities("&#65;"))
	assert.Equal(t, "A", pagemd.DecodeEntities("&#x41;"))
	assert.Equal(t, "café", pagemd.DecodeEntities("caf&#233;"))
}

func TestDecodeEntities_passes_unknown_entities_through(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "&bogus;", pagemd.DecodeEntities("&bogus;"))
	assert.Equal(t, "AT&T", pagemd.DecodeEntities("AT&T"))
	assert.Equal(t, "a & b", pagemd.DecodeEntities("a & b"))
}

func TestDecodeEntities_bare_ampersand_before_entity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Tom & Jerry & co", pagemd.DecodeEntities("Tom & Jerry &amp; co"))
	assert.Equal(t, "a & b — c", pagemd.DecodeEntities("a & b &mdash; c"))
	assert.Equal(t, "&& &", pagemd.DecodeEntities("&& &amp;"))
	assert.Equal(t, "salt &; pepper < more", pagemd.DecodeEntities("salt &; pepper &lt; more"))
}

func TestDecodeEntities_no_entities_is_identity(t *testing.T) {
	t.Parallel()

	s := "plain text, nothing to decode"
	assert.Equal(t, s, pagemd.DecodeEntities(s))
	assert.Equal(t, "", pagemd.DecodeEntities(""))
}
