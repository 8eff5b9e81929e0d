package normalizer

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decode turns raw statement bytes into text. Files are tried as UTF-8 first;
// anything that fails validation is re-read as ISO-8859-1, which maps every
// byte and therefore never fails. Brazilian banks ship both, rarely labelled.
// The second return reports whether the fallback was taken.
func Decode(data []byte) (string, bool) {
	data = stripUTF8BOM(data)
	if utf8.Valid(data) {
		return string(data), false
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// ISO-8859-1 decodes any byte sequence; keep the raw text if the
		// decoder surprises us anyway.
		return string(data), true
	}
	return string(out), true
}

func stripUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
