package reader

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns content as a string, decoding Windows-1252 when the bytes are
// not valid UTF-8. A UTF-8 byte order mark is dropped and line endings are
// normalized to \n.
func Decode(content []byte) string {
	content = bytes.TrimPrefix(content, utf8BOM)

	var s string
	if utf8.Valid(content) {
		s = string(content)
	} else if decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), content); err == nil {
		s = string(decoded)
	} else {
		s = strings.ToValidUTF8(string(content), "\uFFFD")
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
