package loader

import "fmt"

// ErrorKind classifies a ParseError.
type ErrorKind int

// Parse failure kinds.
const (
	ReadFailure ErrorKind = iota
	DecodeFailure
	EmptyInput
	ColumnMismatch
	SyntaxFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ReadFailure:
		return "read failed"
	case DecodeFailure:
		return "invalid UTF-8"
	case EmptyInput:
		return "no columns to parse from file"
	case ColumnMismatch:
		return "inconsistent number of fields"
	case SyntaxFailure:
		return "malformed delimited text"
	default:
		return "parse failed"
	}
}

// ParseError is the only error returned by the loader.
type ParseError struct {
	Kind ErrorKind
	// Line is the 1-based input line the failure was detected on, 0 if unknown.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if e.Line > 0 {
		msg = fmt.Sprintf("%s on line %d", msg, e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
