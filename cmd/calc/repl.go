package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"

	"github.com/zephyrtronium/calc"
)

// repl evaluates lines against one context and prints the results.
type repl struct {
	ctx *calc.Context
	out io.Writer
	// prompt is printed before reading each line.
	prompt string
	fix    int
	debug  bool
}

// run reads and evaluates lines until the input ends or a line asks to exit.
func (r *repl) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, r.prompt)
		if !sc.Scan() {
			if r.prompt != "" {
				fmt.Fprintln(r.out)
			}
			return sc.Err()
		}
		if !r.line(sc.Text()) {
			return nil
		}
	}
}

// line handles one line of input. It returns false if the line asks to exit.
func (r *repl) line(src string) bool {
	switch strings.TrimSpace(src) {
	case "":
		return true
	case "exit", "quit":
		return false
	case "help":
		r.help()
		return true
	}
	s, err := calc.ParseString(src)
	if err != nil {
		log.LogVf("parse error: %v", err)
		report(r.out, src, err)
		return true
	}
	if r.debug {
		fmt.Fprintln(r.out, s)
	}
	v, err := r.ctx.Evaluate(s)
	if err != nil {
		fmt.Fprintln(r.out, "error:", err)
		return true
	}
	if v.Kind() != calc.KindNull {
		fmt.Fprintln(r.out, v.Text(r.fix))
	}
	return true
}

// help lists the functions and variables.
func (r *repl) help() {
	fmt.Fprintln(r.out, "functions:")
	for _, name := range r.ctx.Funcs() {
		f, _ := r.ctx.Func(name)
		if f.Builtin() {
			params := make([]string, f.Arity)
			for i := range params {
				params[i] = string(rune('a' + i))
			}
			fmt.Fprintf(r.out, "  %s(%s)\n", name, strings.Join(params, ", "))
			continue
		}
		fmt.Fprintf(r.out, "  %s(%s) = %v\n", name, strings.Join(f.Params, ", "), f.Body)
	}
	fmt.Fprintln(r.out, "variables:")
	for _, name := range r.ctx.Vars() {
		v, _ := r.ctx.Lookup(name)
		fmt.Fprintf(r.out, "  %s = %s\n", name, v.Text(r.fix))
	}
	fmt.Fprintln(r.out, `"_" is the previous answer. "exit" or "quit" leaves.`)
}
