package calc

import (
	"slices"
	"strconv"
	"strings"
)

// AngleUnit is the unit trigonometric functions use for angles.
type AngleUnit int8

const (
	Radians AngleUnit = iota
	Degrees
)

func (u AngleUnit) String() string {
	switch u {
	case Radians:
		return "radians"
	case Degrees:
		return "degrees"
	default:
		return "AngleUnit(" + strconv.Itoa(int(u)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (u AngleUnit) MarshalText() ([]byte, error) {
	switch u {
	case Radians, Degrees:
		return []byte(u.String()), nil
	}
	return nil, &UnitError{Unit: u.String()}
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the unit names
// with or without the plural, and the abbreviations "rad" and "deg".
func (u *AngleUnit) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "radians", "radian", "rad":
		*u = Radians
	case "degrees", "degree", "deg":
		*u = Degrees
	default:
		return &UnitError{Unit: string(text)}
	}
	return nil
}

// UnitError is an error from parsing an unknown angle unit.
type UnitError struct {
	Unit string
}

func (err *UnitError) Error() string {
	return "unknown angle unit " + strconv.Quote(err.Unit)
}

// Config configures a Context.
type Config struct {
	// AngleUnit is the unit of angles for trigonometric builtins.
	AngleUnit AngleUnit `yaml:"angle_unit"`
	// MaxDepth is the maximum number of nested user function calls. If it is
	// not positive, DefaultMaxDepth is used.
	MaxDepth int `yaml:"max_depth"`
}

// DefaultMaxDepth is the call depth limit used when Config.MaxDepth is unset.
const DefaultMaxDepth = 2048

// Function is an entry in a context's function table. It is either a builtin
// with a native implementation or a user function with a body expression.
type Function struct {
	// Arity is the number of arguments the function takes.
	Arity int
	// Native implements a builtin. It is nil for user functions. The argument
	// slice always has length Arity.
	Native func(args []Value) (Value, error)
	// Params are the parameter names of a user function.
	Params []string
	// Body is the expression a user function evaluates.
	Body *Expr
}

// Builtin reports whether f is a builtin function.
func (f *Function) Builtin() bool {
	return f.Native != nil
}

// Variable is a binding in a scope.
type Variable struct {
	Value Value
	// Builtin marks constants provided by the context, which cannot be
	// redefined.
	Builtin bool
}

// Scope is one frame of variable bindings. Lookups that miss in a frame
// continue in its parent.
type Scope struct {
	vars   map[string]Variable
	parent *Scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]Variable), parent: parent}
}

// Lookup finds the innermost binding of a name.
func (s *Scope) Lookup(name string) (Variable, bool) {
	for ; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return Variable{}, false
}

// bind sets a user variable in this frame. It fails if the frame holds a
// builtin of the same name.
func (s *Scope) bind(name string, val Value) bool {
	if v, ok := s.vars[name]; ok && v.Builtin {
		return false
	}
	s.vars[name] = Variable{Value: val}
	return true
}

// Context holds the function table, the variable scope chain, and the previous
// answer. It is not safe to use a Context concurrently.
type Context struct {
	funcs map[string]*Function
	// scope is the innermost frame. At top level, it is the only frame.
	scope *Scope
	prev  Value
	// hasPrev indicates whether prev holds an answer.
	hasPrev bool
	depth   int
	cfg     Config
}

// NewContext creates a context holding the builtin functions and constants.
func NewContext(cfg Config) *Context {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	ctx := Context{
		funcs: builtinFuncs(cfg.AngleUnit),
		scope: newScope(nil),
		cfg:   cfg,
	}
	for name, v := range builtinConsts() {
		ctx.scope.vars[name] = Variable{Value: v, Builtin: true}
	}
	return &ctx
}

// Config returns the configuration the context was created with.
func (ctx *Context) Config() Config {
	return ctx.cfg
}

// Lookup returns the value of a variable visible in the current scope.
func (ctx *Context) Lookup(name string) (Value, bool) {
	v, ok := ctx.scope.Lookup(name)
	return v.Value, ok
}

// Set binds a user variable in the current scope. It fails if the name is a
// builtin constant.
func (ctx *Context) Set(name string, val Value) error {
	if !ctx.scope.bind(name, val) {
		return &DefinitionError{Name: name}
	}
	return nil
}

// Func returns the function with the given name.
func (ctx *Context) Func(name string) (*Function, bool) {
	f, ok := ctx.funcs[name]
	return f, ok
}

// Define adds or replaces a user function.
func (ctx *Context) Define(name string, params []string, body *Expr) {
	ctx.funcs[name] = &Function{
		Arity:  len(params),
		Params: slices.Clone(params),
		Body:   body,
	}
}

// Funcs returns the names of all functions in sorted order.
func (ctx *Context) Funcs() []string {
	names := make([]string, 0, len(ctx.funcs))
	for k := range ctx.funcs {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Vars returns the names of the variables in the current scope chain, sorted.
func (ctx *Context) Vars() []string {
	var names []string
	for s := ctx.scope; s != nil; s = s.parent {
		for k := range s.vars {
			if !slices.Contains(names, k) {
				names = append(names, k)
			}
		}
	}
	slices.Sort(names)
	return names
}

// Prev returns the previous answer, if there is one.
func (ctx *Context) Prev() (Value, bool) {
	return ctx.prev, ctx.hasPrev
}

// extend pushes a new scope frame and returns the function that restores the
// previous chain. Callers defer the restore so that the frame is released on
// every return path.
func (ctx *Context) extend() (*Scope, func()) {
	outer := ctx.scope
	ctx.scope = newScope(outer)
	ctx.depth++
	return ctx.scope, func() {
		ctx.scope = outer
		ctx.depth--
	}
}
