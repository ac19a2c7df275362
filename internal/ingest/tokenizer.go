package ingest

// tokenizer.go implements the CSV dialect parser: a character-level state
// machine over an already-sanitized UTF-8 stream.
//
// The accepted dialect is RFC 4180-like: configurable single-character
// delimiter (default ','), double-quote quoting with "" escaping, and \n or
// \r\n line endings. Delimiters and newlines inside a quoted field are
// literal content, including multi-line values. An unterminated quote is
// fatal: every later delimiter and newline is ambiguous once a quote fails
// to close, so there is no safe resynchronization point.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Dialect describes the CSV conventions the parser accepts.
type Dialect struct {
	// Delimiter is the field separator. The zero value means ','.
	Delimiter rune

	// SkipEmptyRows drops rows whose fields are all empty strings.
	SkipEmptyRows bool
}

// DefaultDialect returns the dialect used when the caller has no overrides:
// comma-delimited with empty rows dropped.
func DefaultDialect() Dialect {
	return Dialect{Delimiter: ',', SkipEmptyRows: true}
}

// RawRow is one physical CSV record after dialect parsing, before any
// semantic interpretation.
type RawRow struct {
	// Line is the 1-based physical line the row starts on. Quoted fields
	// can span several physical lines, so this is not simply the row index.
	Line   int
	Fields []string
}

func (r RawRow) empty() bool {
	for _, f := range r.Fields {
		if f != "" {
			return false
		}
	}
	return true
}

// ParseError reports malformed CSV structure. Parse errors are fatal to the
// import that encounters them.
type ParseError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

type parseState int

const (
	stateFieldStart parseState = iota
	stateInField
	stateInQuotedField
	stateQuoteSeen
)

// RowReader streams rows from CSV input one at a time, bounding peak memory
// to a single row regardless of file size. The input is wrapped so a UTF-8
// BOM is skipped and invalid byte sequences are replaced before tokenizing.
type RowReader struct {
	r       *bufio.Reader
	delim   rune
	skip    bool
	line    int
	skipped int
	done    bool
}

// NewRowReader creates a streaming reader over r with the given dialect.
func NewRowReader(r io.Reader, d Dialect) *RowReader {
	delim := d.Delimiter
	if delim == 0 {
		delim = ','
	}
	return &RowReader{
		r:     bufio.NewReader(newSanitizedReader(r)),
		delim: delim,
		skip:  d.SkipEmptyRows,
		line:  1,
	}
}

// Skipped returns the number of empty rows dropped so far.
func (rr *RowReader) Skipped() int {
	return rr.skipped
}

// Next returns the next row. It returns io.EOF after the final row, and a
// *ParseError if the input is structurally malformed; after either, the
// reader yields no further rows.
func (rr *RowReader) Next() (RawRow, error) {
	if rr.done {
		return RawRow{}, io.EOF
	}
	for {
		row, err := rr.readRow()
		if err != nil {
			rr.done = true
			return RawRow{}, err
		}
		if rr.skip && row.empty() {
			rr.skipped++
			continue
		}
		return row, nil
	}
}

func (rr *RowReader) readRow() (RawRow, error) {
	row := RawRow{Line: rr.line}

	var (
		buf       strings.Builder
		state     = stateFieldStart
		quoteLine int
		consumed  bool
	)

	endField := func() {
		row.Fields = append(row.Fields, buf.String())
		buf.Reset()
	}

	for {
		ch, _, err := rr.r.ReadRune()
		if err == io.EOF {
			if state == stateInQuotedField {
				return RawRow{}, &ParseError{Line: quoteLine, Message: "unterminated quoted field"}
			}
			if !consumed {
				return RawRow{}, io.EOF
			}
			// The final row may omit a trailing terminator.
			endField()
			return row, nil
		}
		if err != nil {
			return RawRow{}, err
		}
		consumed = true

		switch state {
		case stateFieldStart:
			switch {
			case ch == '"':
				state = stateInQuotedField
				quoteLine = rr.line
			case ch == rr.delim:
				endField()
			case ch == '\n' || ch == '\r':
				rr.endLine(ch)
				endField()
				return row, nil
			default:
				buf.WriteRune(ch)
				state = stateInField
			}

		case stateInField:
			switch {
			case ch == rr.delim:
				endField()
				state = stateFieldStart
			case ch == '\n' || ch == '\r':
				rr.endLine(ch)
				endField()
				return row, nil
			default:
				buf.WriteRune(ch)
			}

		case stateInQuotedField:
			if ch == '"' {
				state = stateQuoteSeen
				break
			}
			if ch == '\n' {
				rr.line++
			}
			buf.WriteRune(ch)

		case stateQuoteSeen:
			switch {
			case ch == '"':
				// Escaped quote: "" collapses to one literal ".
				buf.WriteRune('"')
				state = stateInQuotedField
			case ch == rr.delim:
				endField()
				state = stateFieldStart
			case ch == '\n' || ch == '\r':
				rr.endLine(ch)
				endField()
				return row, nil
			default:
				// Stray character after a closing quote. Tolerated as
				// content rather than failing the whole file.
				buf.WriteRune(ch)
				state = stateInField
			}
		}
	}
}

// endLine advances the line counter and, when the terminator is '\r',
// swallows the '\n' of a \r\n pair.
func (rr *RowReader) endLine(ch rune) {
	rr.line++
	if ch != '\r' {
		return
	}
	next, _, err := rr.r.ReadRune()
	if err != nil {
		return
	}
	if next != '\n' {
		rr.r.UnreadRune()
	}
}

// Parse tokenizes text into rows. Parsing stops at the first fatal error;
// rows parsed before that point are returned alongside it. Row order
// matches the input (the first row is the headers by caller convention).
func Parse(text string, d Dialect) ([]RawRow, []ParseError) {
	rr := NewRowReader(strings.NewReader(text), d)

	var rows []RawRow
	for {
		row, err := rr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return rows, asParseErrors(err)
		}
		rows = append(rows, row)
	}
}

// asParseErrors converts a RowReader error into the reportable slice form.
func asParseErrors(err error) []ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return []ParseError{*pe}
	}
	return []ParseError{{Message: err.Error()}}
}
