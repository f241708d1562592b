package provider

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// toUTF8 decodes a payload of unknown charset to UTF-8. Valid UTF-8 passes
// through untouched apart from BOM stripping.
func toUTF8(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	if utf8.Valid(data) {
		return stripBOM(data), nil
	}

	detected, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return nil, err
	}

	enc, err := ianaindex.MIB.Encoding(detected.Charset)
	if err != nil || enc == nil {
		// fall back to the IANA registry spellings chardet sometimes uses
		enc, err = ianaindex.IANA.Encoding(detected.Charset)
		if err != nil || enc == nil {
			return data, nil
		}
	}

	decoded, err := io.ReadAll(
		transform.NewReader(bytes.NewReader(data), enc.NewDecoder()),
	)
	if err != nil {
		return nil, err
	}

	return stripBOM(decoded), nil
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xef && data[1] == 0xbb && data[2] == 0xbf {
		return data[3:]
	}
	return data
}
