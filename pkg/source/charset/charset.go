// Package charset decodes raw source bytes into text before any position
// tracking happens. Failures are reported as *errors.EncodingError.
package charset

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	perrors "esparse/pkg/errors"
	"esparse/pkg/source"
)

// Auto asks Decode to guess the encoding when the input has no BOM and is
// not valid UTF-8.
const Auto = "auto"

type bom struct {
	mark []byte
	name string
}

// Longest marks first: the UTF-32LE mark starts with the UTF-16LE one.
var boms = []bom{
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "utf-32be"},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "utf-32le"},
	{[]byte{0xEF, 0xBB, 0xBF}, "utf-8"},
	{[]byte{0xFE, 0xFF}, "utf-16be"},
	{[]byte{0xFF, 0xFE}, "utf-16le"},
}

// DetectBOM returns the encoding named by a leading byte order mark and the
// mark length, or "" when there is none.
func DetectBOM(data []byte) (string, int) {
	for _, b := range boms {
		if bytes.HasPrefix(data, b.mark) {
			return b.name, len(b.mark)
		}
	}
	return "", 0
}

// Decode converts data to text. name is an explicit encoding ("" means:
// use the BOM if any, UTF-8 otherwise; Auto additionally guesses with a
// charset detector). With strict set, malformed input is an EncodingError;
// otherwise malformed sequences are replaced with U+FFFD.
func Decode(data []byte, name string, strict bool) (string, error) {
	bomName, bomLen := DetectBOM(data)
	name = strings.ToLower(strings.TrimSpace(name))

	switch {
	case name == "" || name == Auto:
		if bomName != "" {
			name = bomName
		} else if name == Auto && !utf8.Valid(data) {
			name = guess(data)
		} else {
			name = "utf-8"
		}
	}

	// A BOM is only stripped when it matches the selected encoding
	if bomName != "" && canonical(bomName) == canonical(name) {
		data = data[bomLen:]
	}

	if canonical(name) == "utf-8" {
		return decodeUTF8(data, strict)
	}

	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", &perrors.EncodingError{Msg: "cannot decode source as " + name, Cause: err}
	}
	if strict {
		// Decoders substitute invalid input, a lossless round trip proves there was none
		encoded, _, err := transform.Bytes(enc.NewEncoder(), decoded)
		if err != nil || !bytes.Equal(encoded, data) {
			return "", &perrors.EncodingError{Msg: "source is not valid " + name, Cause: err}
		}
	}
	return string(decoded), nil
}

func decodeUTF8(data []byte, strict bool) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	if strict {
		return "", &perrors.EncodingError{Msg: "source is not valid utf-8"}
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

func canonical(name string) string {
	switch strings.ReplaceAll(strings.ToLower(name), "_", "-") {
	case "utf-8", "utf8":
		return "utf-8"
	case "utf-16le", "utf16le":
		return "utf-16le"
	case "utf-16be", "utf16be", "utf-16", "utf16":
		return "utf-16be"
	case "utf-32le", "utf32le":
		return "utf-32le"
	case "utf-32be", "utf32be", "utf-32", "utf32":
		return "utf-32be"
	}
	return name
}

func lookup(name string) (encoding.Encoding, error) {
	switch canonical(name) {
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	case "utf-32be":
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, &perrors.EncodingError{Msg: "unsupported encoding " + name, Cause: err}
	}
	return enc, nil
}

// guess runs the charset detector, falling back to windows-1252, which
// accepts every byte.
func guess(data []byte) string {
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil || res.Charset == "" {
		return "windows-1252"
	}
	if _, err := lookup(res.Charset); err != nil && canonical(res.Charset) != "utf-8" {
		return "windows-1252"
	}
	return res.Charset
}

// ReadFile loads and decodes a source file.
func ReadFile(path, name string, strict bool) (*source.SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	text, err := Decode(data, name, strict)
	if err != nil {
		return nil, err
	}
	return source.FromFile(path, text), nil
}
