package interp

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encodings lists the accepted input encoding names.
var Encodings = []string{"utf-8", "utf-16", "utf-16le", "utf-16be"}

// Decoder returns a transformer that turns input in the named encoding into
// UTF-8. "utf-16" expects a byte order mark; the explicit forms ignore one.
// An empty name means UTF-8.
func Decoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8.NewDecoder(), nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), nil
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), nil
	default:
		return nil, fmt.Errorf("interp: unknown input encoding %q (want one of %s)", name, strings.Join(Encodings, ", "))
	}
}
