package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/verte-zerg/tuiplot/internal/model"
)

// Load sniffs the delimiter from the leading sample, rewinds and parses the
// whole content. Every failure is a *ParseError.
func Load(r io.ReadSeeker) (*model.Table, rune, error) {
	sample, err := ReadSample(r)
	if err != nil {
		return nil, 0, err
	}
	delim := Sniff(sample)
	table, err := Parse(r, delim)
	if err != nil {
		return nil, delim, err
	}
	return table, delim, nil
}

// LoadBytes loads in-memory content.
func LoadBytes(data []byte) (*model.Table, rune, error) {
	return Load(bytes.NewReader(data))
}

// LoadFile opens and loads a file from disk.
func LoadFile(path string) (*model.Table, rune, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, &ParseError{Kind: ReadFailure, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for a read-only file.
			_ = cerr
		}
	}()
	return Load(file)
}

// Parse reads delimited text with a known delimiter. The first record is the
// header and every following record must have the same number of fields.
func Parse(r io.Reader, delim rune) (*model.Table, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, &ParseError{Kind: ReadFailure, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &ParseError{Kind: DecodeFailure, Line: lineOfInvalid(data)}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = 0
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Kind: EmptyInput}
		}
		return nil, classifyCSVError(err)
	}
	names := dedupeNames(header)

	cells := make([][]string, len(names))
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classifyCSVError(err)
		}
		for i, v := range record {
			cells[i] = append(cells[i], v)
		}
	}

	table := &model.Table{Columns: make([]model.Column, len(names))}
	for i, name := range names {
		values := cells[i]
		if values == nil {
			values = []string{}
		}
		table.Columns[i] = model.Column{
			Name:   name,
			Kind:   inferKind(values),
			Values: values,
		}
	}
	return table, nil
}

func classifyCSVError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		if errors.Is(csvErr.Err, csv.ErrFieldCount) {
			return &ParseError{Kind: ColumnMismatch, Line: csvErr.Line, Err: csvErr.Err}
		}
		return &ParseError{Kind: SyntaxFailure, Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Kind: ReadFailure, Err: err}
}
