package calc

import (
	"errors"
	"strconv"

	"fortio.org/log"
)

// Evaluate executes a statement. Variable definitions return the assigned
// value, function definitions return Null, and expression statements return
// their value and record it as the previous answer. A failed statement leaves
// the context as it was, apart from definitions that completed.
func (ctx *Context) Evaluate(s *Statement) (Value, error) {
	log.LogVf("evaluate %v", s)
	switch s.Kind {
	case StmtDefVar:
		v, err := s.Expr.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		if err := ctx.Set(s.Name, v); err != nil {
			log.LogVf("can't define %s: %v", s.Name, err)
			return Value{}, err
		}
		return v, nil
	case StmtDefFunc:
		ctx.Define(s.Name, s.Params, s.Expr)
		return Null(), nil
	case StmtEval:
		v, err := s.Expr.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		ctx.prev, ctx.hasPrev = v, true
		return v, nil
	default:
		panic("calc: invalid statement kind " + strconv.Itoa(int(s.Kind)))
	}
}

// Eval parses and evaluates one line. Errors are SyntaxErrors if the line does
// not parse.
func (ctx *Context) Eval(src string) (Value, error) {
	s, err := ParseString(src)
	if err != nil {
		return Value{}, err
	}
	return ctx.Evaluate(s)
}

// eval computes the value of an expression.
func (e *Expr) eval(ctx *Context) (Value, error) {
	switch e.Kind {
	case ExprInt:
		return Int(e.Int), nil
	case ExprFloat:
		return Float(e.Float), nil
	case ExprVar:
		v, ok := ctx.scope.Lookup(e.Name)
		if !ok {
			return Value{}, &NameError{Name: e.Name}
		}
		return v.Value, nil
	case ExprPrev:
		if !ctx.hasPrev {
			return Value{}, ErrNoHistory
		}
		return ctx.prev, nil
	case ExprCall:
		return e.call(ctx)
	case ExprNeg:
		v, err := e.Left.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		if v.Kind() == KindNull {
			return Value{}, &TypeError{Expected: "number", Found: v.Kind().String()}
		}
		return v.Neg(), nil
	case ExprFact:
		v, err := e.Left.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return v.Factorial()
	case ExprAdd, ExprSub, ExprMul, ExprDiv, ExprRem, ExprPow:
		l, err := e.Left.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		r, err := e.Right.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		switch e.Kind {
		case ExprAdd:
			return l.Add(r)
		case ExprSub:
			return l.Sub(r)
		case ExprMul:
			return l.Mul(r)
		case ExprDiv:
			return l.Div(r)
		case ExprRem:
			return l.Rem(r)
		default:
			return l.Pow(r)
		}
	default:
		panic("calc: invalid AST node " + e.Kind.String())
	}
}

// call evaluates a function call node.
func (e *Expr) call(ctx *Context) (Value, error) {
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := a.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	f, ok := ctx.funcs[e.Name]
	if !ok {
		return Value{}, &NameError{Name: e.Name, Func: true}
	}
	if len(args) != f.Arity {
		return Value{}, &ArgCountError{Func: e.Name, Expected: f.Arity, Found: len(args)}
	}
	if f.Builtin() {
		return f.Native(args)
	}
	if ctx.depth >= ctx.cfg.MaxDepth {
		return Value{}, ErrRecursion
	}
	scope, restore := ctx.extend()
	defer restore()
	log.Debugf("call %s at depth %d", e.Name, ctx.depth)
	for i, name := range f.Params {
		scope.bind(name, args[i])
	}
	return f.Body.eval(ctx)
}

var (
	// ErrNoHistory is the error from referring to the previous answer before
	// any expression has been evaluated.
	ErrNoHistory = errors.New("no previous answer")
	// ErrRecursion is the error from nesting user function calls deeper than
	// the context's limit.
	ErrRecursion = errors.New("maximum call depth exceeded")
)

// NameError is an error from a lookup for a variable or function that is
// missing from the evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Func indicates that the name was called as a function.
	Func bool
}

func (err *NameError) Error() string {
	if err.Func {
		return "function not found: " + err.Name
	}
	return "variable not found: " + err.Name
}

// DefinitionError is an error from redefining a builtin constant.
type DefinitionError struct {
	Name string
}

func (err *DefinitionError) Error() string {
	return "failed to define a variable: " + err.Name
}

// ArgCountError is an error from calling a function with the wrong number of
// arguments.
type ArgCountError struct {
	Func     string
	Expected int
	Found    int
}

func (err *ArgCountError) Error() string {
	return "invalid number of arguments to " + err.Func + " (expected: " + strconv.Itoa(err.Expected) + ", found: " + strconv.Itoa(err.Found) + ")"
}
