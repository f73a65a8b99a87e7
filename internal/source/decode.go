package source

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts content to UTF-8 and returns the name of the encoding it
// was read as.
//
// A byte order mark wins. Otherwise valid UTF-8 is kept as is. Otherwise the
// fallback encoding is used when it names a known charset, and the detector's
// guess when it does not.
func Decode(content []byte, fallback string) ([]byte, string, error) {
	enc, name, certain := charset.DetermineEncoding(content, "")

	if !certain {
		if utf8.Valid(content) {
			return content, "utf-8", nil
		}
		if fallback != "" {
			if fb, fbName := charset.Lookup(fallback); fb != nil {
				enc, name = fb, fbName
			}
		}
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return nil, name, fmt.Errorf("decoding %s: %w", name, err)
	}
	return bytes.TrimPrefix(decoded, utf8BOM), name, nil
}

// ValidEncoding reports whether name is a charset the decoder knows.
func ValidEncoding(name string) bool {
	if name == "" {
		return true
	}
	enc, _ := charset.Lookup(name)
	return enc != nil
}
