package pagemd

import (
	"strconv"
	"strings"
)

// namedEntities is the fixed set of named character references the decoder
// recognizes. Anything outside this set passes through unchanged, which
// matters for content that legitimately contains ampersand sequences.
var namedEntities = map[string]string{
	"&amp;":    "&",
	"&lt;":     "<",
	"&gt;":     ">",
	"&quot;":   `"`,
	"&#39;":    "'",
	"&apos;":   "'",
	"&nbsp;":   " ",
	"&mdash;":  "—",
	"&ndash;":  "–",
	"&hellip;": "…",
	"&copy;":   "©",
	"&reg;":    "®",
	"&trade;":  "™",
}

// DecodeEntities replaces recognized HTML character references in s with
// their literal characters. Named entities outside the recognized set pass
// through unchanged. Numeric references are supported in decimal (&#NNN;)
// and hex (&#xHH;) form. The function is total: it never fails and returns
// s unchanged when no entities are present.
func DecodeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}

		ref, ok := scanRef(s[i:])
		if !ok {
			b.WriteByte('&')
			i++
			continue
		}

		if decoded, ok := decodeRef(ref); ok {
			b.WriteString(decoded)
		} else {
			b.WriteString(ref)
		}
		i += len(ref)
	}

	return b.String()
}

// scanRef returns the &name; or &#NNN; candidate at the start of s, which
// must begin with '&'. Candidate bodies are bounded to alphanumeric and '#'
// characters, so a bare ampersand in prose never swallows a later reference.
func scanRef(s string) (string, bool) {
	for j := 1; j < len(s); j++ {
		c := s[j]
		switch {
		case c == ';':
			if j == 1 {
				return "", false
			}
			return s[:j+1], true
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '#':
		default:
			return "", false
		}
	}
	return "", false
}

// decodeRef decodes a single &...; reference. Returns false when the
// reference is not recognized.
func decodeRef(ref string) (string, bool) {
	if v, ok := namedEntities[ref]; ok {
		return v, true
	}
	if !strings.HasPrefix(ref, "&#") || len(ref) < 4 {
		return "", false
	}

	body := ref[2 : len(ref)-1]
	base := 10
	if body[0] == 'x' || body[0] == 'X' {
		body = body[1:]
		base = 16
	}

	n, err := strconv.ParseInt(body, base, 32)
	if err != nil || n <= 0 {
		return "", false
	}
	return string(rune(n)), true
}
