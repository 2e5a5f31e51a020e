package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// Auto asks for detection (also used when no encoding is declared).
	Auto = "auto"
	// ANSI stands for the configured legacy code page.
	ANSI = "ansi"

	// DefaultCodePage is used for ANSI when nothing else is configured.
	DefaultCodePage = "windows-1252"
)

var ErrUnknownEncoding = errors.New("unknown encoding")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewReader returns a reader that decodes r to UTF-8.
//
// name is an IANA charset name ("UTF-8", "ISO-8859-15", "windows-1250"...),
// ANSI for codePage, or Auto/"" for detection.
func NewReader(r io.Reader, name, codePage string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Auto:
		return NewUTF8Reader(r)
	case ANSI:
		if codePage == "" {
			codePage = DefaultCodePage
		}

		name = codePage
	}

	if isUTF8Name(name) {
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}

	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	return transform.NewReader(r, enc.NewDecoder()), nil
}

func isUTF8Name(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return true
	}

	return false
}

// Lookup resolves an IANA charset name.
func Lookup(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}

	// Registered but not implemented by x/text.
	if enc == nil {
		return nil, fmt.Errorf("%w: %q is not supported", ErrUnknownEncoding, name)
	}

	return enc, nil
}

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8.
//
// Detection order:
//  1. Check for BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Validate if the content is valid UTF-8 and return as-is
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("peek: %w", err)
	}

	return detect(br, buf, validUTF8Prefix(buf)), nil
}

// NewBytesReader is NewReader for input already held in memory. Detection
// validates all of raw instead of a prefix.
func NewBytesReader(raw []byte, name, codePage string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Auto:
		return detect(bufio.NewReader(bytes.NewReader(raw)), raw, utf8.Valid(raw)), nil
	}

	return NewReader(bytes.NewReader(raw), name, codePage)
}

// detect picks a decoder for br from sample, which is a prefix of its input.
// validUTF8 reports whether the input is known to be valid UTF-8.
func detect(br *bufio.Reader, sample []byte, validUTF8 bool) io.Reader {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br
	case bytes.HasPrefix(sample, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	case bytes.HasPrefix(sample, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	}

	if validUTF8 {
		return br
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder())
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder())
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder())
}

// validUTF8Prefix reports whether buf is valid UTF-8, ignoring a rune cut
// off by the peek window.
func validUTF8Prefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if utf8.Valid(buf[:len(buf)-i]) && !utf8.FullRune(buf[len(buf)-i:]) {
			return true
		}
	}

	return false
}
