package gmail

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var urlSafeAlphabet = strings.NewReplacer("-", "+", "_", "/")

// DecodeBody decodes a Gmail body: URL-safe base64, padding optional.
// Bytes that are not valid UTF-8 are read one byte per character (ISO-8859-1).
// Data that is not base64 at all yields "".
func DecodeBody(data string) string {
	if data == "" {
		return ""
	}

	normalized := urlSafeAlphabet.Replace(data)
	if pad := (4 - len(normalized)%4) % 4; pad > 0 {
		normalized += strings.Repeat("=", pad)
	}

	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return ""
	}
	if utf8.Valid(raw) {
		return string(raw)
	}

	latin1, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(latin1)
}
