package merge

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// Byte-order marks, longest first where prefixes overlap.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Encoding names reported by DetectEncoding.
const (
	NameUTF8    = "utf-8"
	NameUTF8BOM = "utf-8-bom"
	NameUTF16LE = "utf-16le"
	NameUTF16BE = "utf-16be"
	NameUTF32LE = "utf-32le"
	NameUTF32BE = "utf-32be"
)

// DetectEncoding picks a decoding from the byte-order mark in up to the first
// four bytes of head. Without a mark it returns UTF-8.
func DetectEncoding(head []byte) (encoding.Encoding, string) {
	if len(head) > 4 {
		head = head[:4]
	}
	switch {
	case bytes.HasPrefix(head, bomUTF8):
		return unicode.UTF8BOM, NameUTF8BOM
	case bytes.HasPrefix(head, bomUTF32LE):
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM), NameUTF32LE
	case bytes.HasPrefix(head, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), NameUTF16LE
	case bytes.HasPrefix(head, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), NameUTF16BE
	case bytes.HasPrefix(head, bomUTF32BE):
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM), NameUTF32BE
	}
	return unicode.UTF8, NameUTF8
}

// Text is the decoded content of one source file.
type Text struct {
	Content  string // UTF-8 without BOM.
	Encoding string // Name of the encoding that produced Content.
	Fallback bool   // Decoding under the detected encoding failed.
}

// ReadText reads a file and decodes it to UTF-8. Content that fails to decode
// under the detected encoding is read again as plain UTF-8 with invalid
// sequences replaced. Only I/O failures are returned as errors.
func ReadText(path string) (Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Text{}, err
	}
	enc, name := DetectEncoding(data)
	return decodeWithFallback(enc, name, data), nil
}

// decodeWithFallback decodes data with enc. The x/text decoders replace
// malformed input instead of failing, so the result is re-encoded and compared
// with data: any difference means the input was not valid under enc.
func decodeWithFallback(enc encoding.Encoding, name string, data []byte) Text {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err == nil {
		var back []byte
		back, _, err = transform.Bytes(enc.NewEncoder(), out)
		if err == nil && !bytes.Equal(back, data) {
			err = errMalformed
		}
	}
	if err != nil {
		return Text{Content: strings.ToValidUTF8(string(data), "\uFFFD"), Encoding: NameUTF8, Fallback: true}
	}
	return Text{Content: string(out), Encoding: name}
}

var errMalformed = errors.New("malformed input")
