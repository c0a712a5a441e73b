package calc

import (
	"math/big"
	"strconv"
	"strings"
)

// Expr is a node in the abstract syntax tree of an expression. Each node
// exclusively owns its children.
type Expr struct {
	Kind ExprKind
	// Name is the variable or function name for ExprVar and ExprCall.
	Name string
	// Int is the value of an ExprInt.
	Int *big.Int
	// Float is the value of an ExprFloat.
	Float float64
	// Args are the arguments of an ExprCall.
	Args []*Expr
	// Left is the operand of unary operators and the left operand of binary
	// operators. Right is the right operand of binary operators.
	Left, Right *Expr
	// Span is the source range the node was parsed from.
	Span Span
}

// ExprKind is the type of an expression node.
type ExprKind int8

const (
	exprNone ExprKind = iota

	ExprInt   // integer literal
	ExprFloat // float literal
	ExprVar   // lookup(Name)
	ExprCall  // Name(Args...)
	ExprPrev  // previous answer

	ExprNeg  // -Left
	ExprFact // Left!

	ExprAdd // Left + Right
	ExprSub // Left - Right
	ExprMul // Left * Right, written or implicit
	ExprDiv // Left / Right
	ExprRem // Left % Right
	ExprPow // Left ^ Right
)

var exprNames = [...]string{
	exprNone:  "None",
	ExprInt:   "Int",
	ExprFloat: "Float",
	ExprVar:   "Var",
	ExprCall:  "Call",
	ExprPrev:  "Prev",
	ExprNeg:   "Neg",
	ExprFact:  "Fact",
	ExprAdd:   "Add",
	ExprSub:   "Sub",
	ExprMul:   "Mul",
	ExprDiv:   "Div",
	ExprRem:   "Rem",
	ExprPow:   "Pow",
}

func (k ExprKind) String() string {
	if k < 0 || int(k) >= len(exprNames) {
		return "ExprKind(" + strconv.Itoa(int(k)) + ")"
	}
	return exprNames[k]
}

// infixes maps binary node kinds to their operator text.
var infixes = map[ExprKind]string{
	ExprAdd: " + ",
	ExprSub: " - ",
	ExprMul: " * ",
	ExprDiv: " / ",
	ExprRem: " % ",
	ExprPow: " ^ ",
}

// String renders the expression with every compound term parenthesized, so
// the grouping the parser chose is explicit.
func (e *Expr) String() string {
	var b strings.Builder
	e.fmt(&b)
	return b.String()
}

func (e *Expr) fmt(b *strings.Builder) {
	switch e.Kind {
	case ExprInt:
		b.WriteString(e.Int.String())
	case ExprFloat:
		s := strconv.FormatFloat(e.Float, 'g', -1, 64)
		b.WriteString(s)
		if !strings.ContainsAny(s, ".e") {
			// Keep float literals distinct from integers.
			b.WriteString(".0")
		}
	case ExprVar:
		b.WriteString(e.Name)
	case ExprPrev:
		b.WriteByte('_')
	case ExprCall:
		b.WriteString(e.Name)
		b.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			arg.fmt(b)
		}
		b.WriteByte(')')
	case ExprNeg:
		b.WriteString("(-")
		e.Left.fmt(b)
		b.WriteByte(')')
	case ExprFact:
		b.WriteByte('(')
		e.Left.fmt(b)
		b.WriteString("!)")
	case ExprAdd, ExprSub, ExprMul, ExprDiv, ExprRem, ExprPow:
		b.WriteByte('(')
		e.Left.fmt(b)
		b.WriteString(infixes[e.Kind])
		e.Right.fmt(b)
		b.WriteByte(')')
	default:
		panic("calc: invalid node kind " + e.Kind.String() + " after writing " + b.String())
	}
}

// Statement is one parsed line of input.
type Statement struct {
	Kind StmtKind
	// Name is the variable or function being defined.
	Name string
	// Params are the parameter names of a function definition.
	Params []string
	// Expr is the defining expression, function body, or expression to
	// evaluate.
	Expr *Expr
}

// StmtKind is the type of a statement.
type StmtKind int8

const (
	stmtNone StmtKind = iota
	// StmtEval evaluates an expression and records it as the previous answer.
	StmtEval
	// StmtDefVar binds a variable.
	StmtDefVar
	// StmtDefFunc defines a function.
	StmtDefFunc
)

func (s *Statement) String() string {
	var b strings.Builder
	switch s.Kind {
	case StmtDefVar:
		b.WriteString("let ")
		b.WriteString(s.Name)
		b.WriteString(" = ")
	case StmtDefFunc:
		b.WriteString("let ")
		b.WriteString(s.Name)
		b.WriteByte('(')
		b.WriteString(strings.Join(s.Params, ", "))
		b.WriteString(") = ")
	}
	s.Expr.fmt(&b)
	return b.String()
}
