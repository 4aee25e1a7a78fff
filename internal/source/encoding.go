package source

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/go-enry/go-enry/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// Encoding is the byte-order mark found at the start of a stream.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf-8-bom"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

// DetectEncoding inspects the leading bytes of sample for a BOM.
func DetectEncoding(sample []byte) Encoding {
	switch {
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return EncodingUTF8BOM
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}):
		return EncodingUTF16LE
	case bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return EncodingUTF16BE
	}
	return EncodingUnknown
}

// LooksBinary reports whether sample is unlikely to be text. Content with a
// Unicode BOM is always text.
func LooksBinary(sample []byte) bool {
	if len(sample) > sniffSize {
		sample = sample[:sniffSize]
	}
	if DetectEncoding(sample) != EncodingUnknown {
		return false
	}
	return enry.IsBinary(sample)
}

// Input is a decoded UTF-8 stream along with what was learned while
// sniffing its head.
type Input struct {
	io.Reader
	Encoding Encoding
	// Head holds up to the first few kilobytes of the raw stream.
	Head []byte
}

// NewInput wraps r so that reads yield UTF-8: a UTF-8 BOM is stripped and
// UTF-16 is transcoded. It waits for at most one read of r to sniff.
func NewInput(r io.Reader) (*Input, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	head, err := peekAvailable(br)
	if err != nil {
		return nil, err
	}
	in := &Input{Encoding: DetectEncoding(head), Head: append([]byte(nil), head...)}
	switch in.Encoding {
	case EncodingUTF8BOM:
		_, _ = br.Discard(3)
		in.Reader = br
	case EncodingUTF16LE:
		in.Reader = transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case EncodingUTF16BE:
		in.Reader = transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	default:
		in.Reader = br
	}
	return in, nil
}

// peekAvailable returns whatever the first fill of br produced.
func peekAvailable(br *bufio.Reader) ([]byte, error) {
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	head, _ := br.Peek(br.Buffered())
	if len(head) < 3 && (head[0] == 0xEF || head[0] == 0xFF || head[0] == 0xFE) {
		// A BOM split across reads; wait for the rest of it.
		if more, err := br.Peek(3); err == nil || len(more) > len(head) {
			head = more
		}
	}
	return head, nil
}
