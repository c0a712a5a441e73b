package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/zephyrtronium/calc"
)

// report prints syntax errors as the source line with the offending token
// underlined, followed by the productions the parser was in.
func report(w io.Writer, src string, err error) {
	var errs calc.SyntaxErrors
	if !errors.As(err, &errs) {
		fmt.Fprintln(w, "error:", err)
		return
	}
	for _, e := range errs {
		fmt.Fprintln(w, src)
		fmt.Fprintln(w, underline(src, e.Span, '^'))
		fmt.Fprintln(w, "syntax error:", e.Reason())
		for i := len(e.Context) - 1; i >= 0; i-- {
			l := e.Context[i]
			fmt.Fprintln(w, underline(src, l.Span, '-'), "while parsing this", l.Name)
		}
	}
}

// underline marks the characters of src in span. Tabs before the span are
// kept so the marks line up under the source. Empty spans get one mark.
func underline(src string, span calc.Span, mark byte) string {
	start, end := min(span.Start, len(src)), min(span.End, len(src))
	var b strings.Builder
	for _, r := range src[:start] {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	n := max(utf8.RuneCountInString(src[start:end]), 1)
	for range n {
		b.WriteByte(mark)
	}
	return b.String()
}
