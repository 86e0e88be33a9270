package xmlstream

import (
	"bytes"
	"strings"
)

// writeEscapedText escapes character data. Carriage returns are written as
// character references so they survive XML newline normalization.
func writeEscapedText(buf *bytes.Buffer, v string) {
	last := 0
	for i := 0; i < len(v); i++ {
		var esc string
		switch v[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '\r':
			esc = "&#xD;"
		default:
			continue
		}
		buf.WriteString(v[last:i])
		buf.WriteString(esc)
		last = i + 1
	}
	buf.WriteString(v[last:])
}

// writeEscapedAttr escapes an attribute value, additionally protecting quotes
// and whitespace that attribute-value normalization would fold.
func writeEscapedAttr(buf *bytes.Buffer, v string) {
	last := 0
	for i := 0; i < len(v); i++ {
		var esc string
		switch v[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		case '\r':
			esc = "&#xD;"
		case '\n':
			esc = "&#xA;"
		case '\t':
			esc = "&#x9;"
		default:
			continue
		}
		buf.WriteString(v[last:i])
		buf.WriteString(esc)
		last = i + 1
	}
	buf.WriteString(v[last:])
}

// EscapeText returns the escaped character-data form of v.
func EscapeText(v string) string {
	if !strings.ContainsAny(v, "&<>\r") {
		return v
	}
	var buf bytes.Buffer
	writeEscapedText(&buf, v)
	return buf.String()
}
