// Command calc is an interactive calculator.
//
// Each line of input is a statement: an expression to evaluate, a variable
// definition like "let x = 2", or a function definition like
// "let f(a, b) = a^2 + b". The previous answer is available as "_". Type
// "help" for the list of functions and constants, and "exit" or "quit" to
// leave. Arguments given on the command line are evaluated in order instead
// of reading standard input.
package main

import (
	"flag"
	"os"

	"fortio.org/log"

	"github.com/zephyrtronium/calc"
)

func main() {
	var (
		deg, debug, verbose bool
		fix                 int
		cfgname             string
	)
	flag.BoolVar(&deg, "d", false, "use degrees for trigonometric functions")
	flag.IntVar(&fix, "fix", -1, "print floats with this many decimal places (0 to 63; -1 for shortest)")
	flag.BoolVar(&debug, "debug", false, "print each parsed statement before evaluating it")
	flag.StringVar(&cfgname, "config", "", "YAML settings `file`")
	flag.BoolVar(&verbose, "v", false, "trace evaluation")
	flag.Parse()
	log.SetDefaultsForClientTools()
	if verbose {
		log.SetLogLevel(log.Verbose)
	}

	s := defaultSettings()
	if cfgname != "" {
		var err error
		s, err = loadSettings(cfgname)
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.LogVf("loaded settings from %s: %+v", cfgname, s)
	}
	// Flags given explicitly override the settings file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			if deg {
				s.AngleUnit = calc.Degrees
			} else {
				s.AngleUnit = calc.Radians
			}
		case "fix":
			s.Fix = fix
		case "debug":
			s.Debug = debug
		}
	})
	if err := s.validate(); err != nil {
		log.Fatalf("%v", err)
	}

	r := &repl{
		ctx:   calc.NewContext(s.config()),
		out:   os.Stdout,
		fix:   s.Fix,
		debug: s.Debug,
	}
	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			if !r.line(arg) {
				break
			}
		}
		return
	}
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		r.prompt = "> "
	}
	if err := r.run(os.Stdin); err != nil {
		log.Fatalf("reading input: %v", err)
	}
}
