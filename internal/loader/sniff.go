// Package loader sniffs delimiters and parses delimited text into tables.
package loader

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SampleSize is the number of leading bytes inspected by the sniffer.
const SampleSize = 1024

// candidates are checked in priority order; the first one that occurs more
// often than a comma wins.
var candidates = []rune{';', '\t', '|'}

// Sniff picks a field delimiter from a text sample. Ties keep the comma.
func Sniff(sample string) rune {
	commas := strings.Count(sample, ",")
	for _, c := range candidates {
		if strings.Count(sample, string(c)) > commas {
			return c
		}
	}
	return ','
}

// ReadSample reads up to SampleSize bytes, decodes them as text and rewinds r.
func ReadSample(r io.ReadSeeker) (string, error) {
	buf := make([]byte, SampleSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", &ParseError{Kind: ReadFailure, Err: err}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", &ParseError{Kind: ReadFailure, Err: err}
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), buf[:n])
	if err != nil {
		return "", &ParseError{Kind: DecodeFailure, Err: err}
	}
	if n == SampleSize {
		decoded = trimPartialRune(decoded)
	}
	if !utf8.Valid(decoded) {
		return "", &ParseError{Kind: DecodeFailure, Line: lineOfInvalid(decoded)}
	}
	return string(decoded), nil
}

// trimPartialRune drops a multi-byte sequence cut off by the sample boundary.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if !utf8.RuneStart(b[start]) {
			continue
		}
		if !utf8.FullRune(b[start:]) {
			return b[:start]
		}
		return b
	}
	return b
}

func lineOfInvalid(b []byte) int {
	line := 1
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return line
		}
		if r == '\n' {
			line++
		}
		b = b[size:]
	}
	return 0
}
