package backup

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sniffLen is how much of the document charset detection looks at.
const sniffLen = 4096

// toUTF8 re-encodes a backup written by an older client or edited by hand.
//
// A BOM wins, then valid UTF-8 is kept as is, then chardet guesses from the
// first bytes, and anything unrecognised is read as Windows-1252.
func toUTF8(b []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return b[len(bomUTF8):], nil
	case bytes.HasPrefix(b, bomUTF16LE):
		return decode(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), b)
	case bytes.HasPrefix(b, bomUTF16BE):
		return decode(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), b)
	case utf8.Valid(b):
		return b, nil
	}

	return decode(detect(b[:min(len(b), sniffLen)]), b)
}

func detect(sample []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "ISO-8859-9":
		return charmap.ISO8859_9
	case "ISO-8859-15":
		return charmap.ISO8859_15
	default:
		return charmap.Windows1252
	}
}

func decode(enc encoding.Encoding, b []byte) ([]byte, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("decoding backup charset: %w", err)
	}

	return out, nil
}
