package ingest

// reader.go normalises uploaded text before it reaches the CSV parser.
//
// Spreadsheet exports from Windows often start with a UTF-8 byte order mark
// and occasionally carry stray Latin-1 bytes. Both are handled while
// streaming so a large file is never buffered twice:
//
//   - the BOM (0xEF 0xBB 0xBF) is dropped when it is the first thing in the stream
//   - invalid UTF-8 bytes become U+FFFD
//
// Use NewTextReader to apply both.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const sanitizeChunk = 32 * 1024

// NewTextReader returns a reader that skips a leading BOM and replaces
// invalid UTF-8 with the replacement character.
func NewTextReader(r io.Reader) io.Reader {
	return newUTF8Sanitizer(skipBOM(r))
}

// skipBOM drops a leading byte order mark. A partial BOM is kept as data.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Sanitizer rewrites invalid UTF-8 on the fly. A multi-byte sequence
// split across two reads is carried over and decoded with the next chunk.
type utf8Sanitizer struct {
	r     io.Reader
	buf   []byte
	carry []byte
	out   []byte
	err   error
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{
		r:     r,
		buf:   make([]byte, sanitizeChunk),
		carry: make([]byte, 0, utf8.UTFMax),
	}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}

		n, err := s.r.Read(s.buf)
		chunk := append(s.carry, s.buf[:n]...)
		s.carry = s.carry[:0]
		s.err = err

		var rest []byte
		s.out, rest = sanitize(chunk, err != nil)
		s.carry = append(s.carry, rest...)
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// sanitize returns chunk with invalid bytes replaced. Unless final is set,
// an incomplete sequence at the end is returned separately as rest.
func sanitize(chunk []byte, final bool) (out, rest []byte) {
	if isASCII(chunk) {
		return chunk, nil
	}

	out = make([]byte, 0, len(chunk)+8)
	for i := 0; i < len(chunk); {
		if c := chunk[i]; c < utf8.RuneSelf {
			out = append(out, c)
			i++
			continue
		}
		if !final && !utf8.FullRune(chunk[i:]) {
			return out, chunk[i:]
		}

		r, size := utf8.DecodeRune(chunk[i:])
		if r == utf8.RuneError && size == 1 {
			out = utf8.AppendRune(out, utf8.RuneError)
		} else {
			out = append(out, chunk[i:i+size]...)
		}
		i += size
	}
	return out, nil
}

// isASCII is the fast path: most exports are plain ASCII.
func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
