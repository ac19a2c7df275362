package ingest

// streaming.go wraps CSV input so the tokenizer only ever sees clean UTF-8.
// CRM exports routinely arrive with a Windows BOM or stray bytes from a
// mislabeled encoding; both are handled on the fly with O(buffer) memory
// instead of loading and rewriting the whole file:
//
//   - bomSkipper drops a leading UTF-8 BOM (0xEF 0xBB 0xBF)
//   - utf8Sanitizer replaces invalid byte sequences with '?'

import (
	"io"
	"unicode/utf8"
)

// newSanitizedReader wraps r with BOM skipping and UTF-8 sanitization. The
// BOM must be stripped first, before any byte inspection.
func newSanitizedReader(r io.Reader) io.Reader {
	return &utf8Sanitizer{r: &bomSkipper{r: r}}
}

// bomSkipper removes a UTF-8 byte order mark from the start of the stream.
type bomSkipper struct {
	r       io.Reader
	checked bool
	rest    []byte
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var buf [3]byte
		n, err := io.ReadFull(b.r, buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if !(n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF) {
			b.rest = buf[:n:n]
		}
	}

	if len(b.rest) > 0 {
		n := copy(p, b.rest)
		b.rest = b.rest[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// utf8Sanitizer replaces invalid UTF-8 sequences with '?' as data streams
// through. A possibly incomplete multi-byte sequence at the end of a read is
// held back until the following read supplies the rest, so code points are
// never split across buffer boundaries.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
	eof     bool
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if !s.eof && len(s.pending) < len(p) {
		buf := make([]byte, len(p))
		n, err := s.r.Read(buf)
		s.pending = append(s.pending, buf[:n]...)
		switch {
		case err == io.EOF:
			s.eof = true
		case err != nil:
			if len(s.pending) == 0 {
				return 0, err
			}
			// Drain what we have; the error resurfaces on the next read.
			s.eof = true
		}
	}

	if len(s.pending) == 0 {
		if s.eof {
			return 0, io.EOF
		}
		return 0, nil
	}

	emit := len(s.pending)
	if !s.eof {
		if hold := incompleteTrailingBytes(s.pending); hold > 0 {
			emit -= hold
		}
		if emit == 0 {
			return 0, nil
		}
	}

	// Replacement is byte for byte ('?' is one byte), so output never
	// outgrows the consumed input.
	n, consumed := 0, 0
	for consumed < emit && n < len(p) {
		r, size := utf8.DecodeRune(s.pending[consumed:emit])
		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			consumed++
			continue
		}
		if n+size > len(p) {
			break
		}
		copy(p[n:], s.pending[consumed:consumed+size])
		n += size
		consumed += size
	}
	s.pending = s.pending[consumed:]
	return n, nil
}

// incompleteTrailingBytes returns how many bytes at the end of data could be
// the start of a multi-byte UTF-8 sequence that is not yet complete.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < utf8SeqLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// utf8SeqLen returns the expected length of a UTF-8 sequence starting with b.
func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0 // continuation byte
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}
