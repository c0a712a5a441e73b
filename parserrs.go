package calc

import (
	"strconv"
	"strings"
)

// SyntaxError is an error indicating input that does not form a statement.
// It implements InputError.
type SyntaxError struct {
	// Span is the range of the token that caused the error. At the end of the
	// input, it is empty and positioned after the last byte.
	Span Span
	// Found describes the token that caused the error.
	Found string
	// Expected lists descriptions of the tokens or terms that would have been
	// accepted instead.
	Expected []string
	// Msg is an explanation of the error, if it is not fully described by
	// Found and Expected.
	Msg string
	// Context lists the productions being parsed when the error occurred,
	// innermost last.
	Context []Label
}

// Label names a production the parser was in, with its span up to the error.
type Label struct {
	Name string
	Span Span
}

// Reason describes the error without its position or context.
func (err *SyntaxError) Reason() string {
	if err.Msg != "" {
		return err.Msg
	}
	var b strings.Builder
	b.WriteString("found ")
	b.WriteString(err.Found)
	switch len(err.Expected) {
	case 0: // do nothing
	case 1:
		b.WriteString(", expected ")
		b.WriteString(err.Expected[0])
	default:
		b.WriteString(", expected ")
		b.WriteString(strings.Join(err.Expected[:len(err.Expected)-1], ", "))
		b.WriteString(" or ")
		b.WriteString(err.Expected[len(err.Expected)-1])
	}
	return b.String()
}

func (err *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString(errpos(err.Span.Start, err.Reason()))
	for i := len(err.Context) - 1; i >= 0; i-- {
		b.WriteString(", while parsing this ")
		b.WriteString(err.Context[i].Name)
	}
	return b.String()
}

// Pos returns the byte offset of the token that caused the error.
func (err *SyntaxError) Pos() int {
	return err.Span.Start
}

// SyntaxErrors is the list of errors from parsing a line, ordered by position.
type SyntaxErrors []*SyntaxError

func (errs SyntaxErrors) Error() string {
	switch len(errs) {
	case 0:
		return "no syntax errors"
	case 1:
		return errs[0].Error()
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(errs)))
	b.WriteString(" syntax errors: ")
	for i, err := range errs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Pos returns the position of the first error.
func (errs SyntaxErrors) Pos() int {
	if len(errs) == 0 {
		return 0
	}
	return errs[0].Pos()
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the byte offset of the start of
	// the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = SyntaxErrors(nil)
)
