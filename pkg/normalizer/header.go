package normalizer

import (
	"bytes"
	"strings"
)

// DefaultHeader is the OFX 1.02 SGML header block declared by every document
// this pipeline emits, followed by the blank line that separates it from the
// body.
const DefaultHeader = "OFXHEADER:100\n" +
	"DATA:OFXSGML\n" +
	"VERSION:102\n" +
	"SECURITY:NONE\n" +
	"ENCODING:UTF-8\n" +
	"CHARSET:NONE\n" +
	"COMPRESSION:NONE\n" +
	"OLDFILEUID:NONE\n" +
	"NEWFILEUID:NONE\n" +
	"\n"

// encodingProbeWindow bounds how far into a document EnsureHeader looks for
// the ENCODING declaration. Real headers fit comfortably in 256 bytes.
const encodingProbeWindow = 256

func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// NormalizeHeader cleans the key:value preamble that precedes the first tag.
// Keys and values lose surrounding whitespace, values lose internal
// whitespace, and ENCODING/CHARSET are forced to UTF-8/NONE regardless of
// what the bank declared. A document that opens directly with a tag gets
// DefaultHeader prepended; the second return reports that insertion.
// Headerless text with no tags at all is left alone.
func NormalizeHeader(s string) (string, bool) {
	s = strings.TrimLeft(s, " \t\n")

	i := strings.Index(s, "<")
	if i < 0 {
		return s, false
	}
	if i == 0 {
		return DefaultHeader + s, true
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, line := range strings.SplitAfter(s[:i], "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			b.WriteString(line)
			continue
		}
		ending := ""
		if strings.HasSuffix(value, "\n") {
			ending = "\n"
		}
		key = strings.TrimSpace(key)
		value = strings.Join(strings.Fields(value), "")
		switch {
		case strings.EqualFold(key, "ENCODING"):
			value = "UTF-8"
		case strings.EqualFold(key, "CHARSET"):
			value = "NONE"
		}
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(value)
		b.WriteString(ending)
	}
	b.WriteString(s[i:])
	return b.String(), false
}

// EnsureHeader is the last line of defence before the parser: if the UTF-8
// declaration is not visible near the start of the document, the whole
// DefaultHeader block is prepended. The second return reports the prepend.
func EnsureHeader(b []byte) ([]byte, bool) {
	window := b
	if len(window) > encodingProbeWindow {
		window = window[:encodingProbeWindow]
	}
	if bytes.Contains(window, []byte("ENCODING:UTF-8")) {
		return b, false
	}
	out := make([]byte, 0, len(DefaultHeader)+len(b))
	out = append(out, DefaultHeader...)
	out = append(out, b...)
	return out, true
}
