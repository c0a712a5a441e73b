package calc

import (
	"errors"
	"math/big"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// bigIntComparer compares big integers by value.
var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func TestParseGrouping(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"int", "1", "1"},
		{"float", "1.5e3", "1500.0"},
		{"float-frac", "2.25", "2.25"},
		{"float-neg-zero", "-0.0", "-0.0"},
		{"var", "x", "x"},
		{"prev", "_", "_"},
		{"precedence", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"add-left", "1 + 2 - 3", "((1 + 2) - 3)"},
		{"div-left", "8 / 4 / 2", "((8 / 4) / 2)"},
		{"rem-mul", "7 % 3 * 2", "((7 % 3) * 2)"},
		{"pow-right", "2^3^2", "(2 ^ (3 ^ 2))"},
		{"pow-over-mul", "2 * 3 ^ 2", "(2 * (3 ^ 2))"},
		{"juxt", "a b", "(a * b)"},
		{"juxt-left", "a b c", "((a * b) * c)"},
		{"juxt-over-mul", "a * b c", "(a * (b * c))"},
		{"juxt-under-pow", "2x^2", "(2 * (x ^ 2))"},
		{"juxt-call", "2 sin(3)", "(2 * sin(3))"},
		{"juxt-paren", "5 (3)", "(5 * 3)"},
		{"juxt-parens", "(5+3)(-3)", "((5 + 3) * -3)"},
		{"juxt-literals", "2 3", "(2 * 3)"},
		{"juxt-prev", "2_", "(2 * _)"},
		{"sub", "5 - 3", "(5 - 3)"},
		{"sub-tight", "5 -3", "(5 - 3)"},
		{"sub-neg", "a - -b", "(a - (-b))"},
		{"sub-negative-literal", "5 - -3", "(5 - -3)"},
		{"neg-var", "-x", "(-x)"},
		{"neg-literal", "-2", "-2"},
		{"neg-literal-pow", "-2^2", "(-2 ^ 2)"},
		{"neg-var-pow", "-x^2", "((-x) ^ 2)"},
		{"neg-paren", "-(1)", "(-1)"},
		{"neg-neg", "--3", "(--3)"},
		{"pow-neg-literal", "2^-1", "(2 ^ -1)"},
		{"pow-neg-var", "2^-x", "(2 ^ (-x))"},
		{"fact", "x!", "(x!)"},
		{"fact-literal", "-3!", "(-3!)"},
		{"fact-pow", "3!^2", "((3!) ^ 2)"},
		{"neg-fact", "-x!", "(-(x!))"},
		{"call0", "f()", "f()"},
		{"call2", "f(a, b+1)", "f(a, (b + 1))"},
		{"call-nested", "f(g(1), 2)", "f(g(1), 2)"},
		{"paren", "((1))", "1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			if s.Kind != StmtEval {
				t.Errorf("%q parsed as statement kind %d", c.src, s.Kind)
			}
			if got := s.Expr.String(); got != c.want {
				t.Errorf("%q parsed as %s, want %s", c.src, got, c.want)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind StmtKind
		want string
	}{
		{"eval", "1 + 1", StmtEval, "(1 + 1)"},
		{"defvar", "let x = 1 + 2", StmtDefVar, "let x = (1 + 2)"},
		{"defvar-tight", "let x=2", StmtDefVar, "let x = 2"},
		{"deffunc", "let f(a, b) = a b", StmtDefFunc, "let f(a, b) = (a * b)"},
		{"deffunc0", "let g() = 1", StmtDefFunc, "let g() = 1"},
		{"deffunc-recursive", "let fact(n) = n!", StmtDefFunc, "let fact(n) = (n!)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			if s.Kind != c.kind {
				t.Errorf("%q parsed as statement kind %d, want %d", c.src, s.Kind, c.kind)
			}
			if got := s.String(); got != c.want {
				t.Errorf("%q parsed as %s, want %s", c.src, got, c.want)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want *Statement
	}{
		{
			name: "mixed",
			src:  "-2x + f(1)",
			want: &Statement{
				Kind: StmtEval,
				Expr: &Expr{
					Kind: ExprAdd,
					Span: Span{0, 10},
					Left: &Expr{
						Kind:  ExprMul,
						Span:  Span{0, 3},
						Left:  &Expr{Kind: ExprInt, Int: big.NewInt(-2), Span: Span{0, 2}},
						Right: &Expr{Kind: ExprVar, Name: "x", Span: Span{2, 3}},
					},
					Right: &Expr{
						Kind: ExprCall,
						Name: "f",
						Span: Span{6, 10},
						Args: []*Expr{{Kind: ExprInt, Int: big.NewInt(1), Span: Span{8, 9}}},
					},
				},
			},
		},
		{
			name: "paren-span",
			src:  "(1+2)*3",
			want: &Statement{
				Kind: StmtEval,
				Expr: &Expr{
					Kind: ExprMul,
					Span: Span{0, 7},
					Left: &Expr{
						Kind:  ExprAdd,
						Span:  Span{0, 5},
						Left:  &Expr{Kind: ExprInt, Int: big.NewInt(1), Span: Span{1, 2}},
						Right: &Expr{Kind: ExprInt, Int: big.NewInt(2), Span: Span{3, 4}},
					},
					Right: &Expr{Kind: ExprInt, Int: big.NewInt(3), Span: Span{6, 7}},
				},
			},
		},
		{
			name: "deffunc",
			src:  "let sq(x) = x^2",
			want: &Statement{
				Kind:   StmtDefFunc,
				Name:   "sq",
				Params: []string{"x"},
				Expr: &Expr{
					Kind:  ExprPow,
					Span:  Span{12, 15},
					Left:  &Expr{Kind: ExprVar, Name: "x", Span: Span{12, 13}},
					Right: &Expr{Kind: ExprInt, Int: big.NewInt(2), Span: Span{14, 15}},
				},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			if diff := cmp.Diff(c.want, got, bigIntComparer); diff != "" {
				t.Errorf("%q parsed wrong (-want +got):\n%s", c.src, diff)
			}
		})
	}
}

func TestParseIgnoresSpace(t *testing.T) {
	a, err := ParseString("1+2*f(x,y)")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseString("  1 +\t2 * f( x , y )  ")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b, bigIntComparer, cmpopts.IgnoreFields(Expr{}, "Span")); diff != "" {
		t.Errorf("spacing changed the tree (-compact +spaced):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		// errs lists the expected errors in order. Only the non-zero fields
		// of each are checked, except Span.
		errs []SyntaxError
	}{
		{
			name: "empty",
			src:  "",
			errs: []SyntaxError{{Span: Span{0, 0}, Found: "end of input", Expected: []string{"'let'", "number", "identifier", "'_'", "'('"}}},
		},
		{
			name: "dangling-op",
			src:  "1 +",
			errs: []SyntaxError{{Span: Span{3, 3}, Found: "end of input", Expected: []string{"number", "identifier", "'_'", "'('"}}},
		},
		{
			name: "unclosed",
			src:  "(1",
			errs: []SyntaxError{{Span: Span{2, 2}, Found: "end of input", Expected: []string{"')'"}}},
		},
		{
			name: "unclosed-call",
			src:  "f(1 2",
			errs: []SyntaxError{{Span: Span{5, 5}, Found: "end of input", Expected: []string{"','", "')'"}}},
		},
		{
			name: "extra-close",
			src:  "1)",
			errs: []SyntaxError{{Span: Span{1, 2}, Found: "')'", Expected: []string{"end of input"}}},
		},
		{
			name: "assign-without-let",
			src:  "x = 3",
			errs: []SyntaxError{{Span: Span{2, 3}, Found: "'='", Expected: []string{"end of input"}}},
		},
		{
			name: "let-number",
			src:  "let 2 = 3",
			errs: []SyntaxError{{Span: Span{4, 5}, Found: "number 2", Expected: []string{"identifier"}}},
		},
		{
			name: "neg-neg-var",
			src:  "--x",
			errs: []SyntaxError{{Span: Span{1, 2}, Found: "'-'", Expected: []string{"number", "identifier", "'_'", "'('"}}},
		},
		{
			name: "double-fact",
			src:  "3!!",
			errs: []SyntaxError{{Span: Span{2, 3}, Found: "'!'", Expected: []string{"end of input"}}},
		},
		{
			name: "duplicate-param",
			src:  "let f(x, x) = x",
			errs: []SyntaxError{{Span: Span{9, 10}, Msg: `duplicate parameter "x"`}},
		},
		{
			name: "float-range",
			src:  "1e999",
			errs: []SyntaxError{{Span: Span{0, 5}, Msg: "number 1e999 is out of range"}},
		},
		{
			name: "unknown",
			src:  "1 $ 2",
			errs: []SyntaxError{{Span: Span{2, 3}, Found: `unknown symbol "$"`, Msg: `unknown symbol "$"`}},
		},
		{
			name: "unknowns",
			src:  "$ + $",
			errs: []SyntaxError{
				{Span: Span{0, 1}, Msg: `unknown symbol "$"`},
				{Span: Span{4, 5}, Msg: `unknown symbol "$"`},
			},
		},
		{
			name: "unknown-and-parse",
			src:  "$ + (",
			errs: []SyntaxError{
				{Span: Span{0, 1}, Msg: `unknown symbol "$"`},
			},
		},
		{
			name: "parse-after-unknown",
			src:  "1 + ($",
			errs: []SyntaxError{
				{Span: Span{5, 6}, Msg: `unknown symbol "$"`},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := ParseString(c.src)
			if err == nil {
				t.Fatalf("%q parsed as %v", c.src, s)
			}
			var errs SyntaxErrors
			if !errors.As(err, &errs) {
				t.Fatalf("%q gave wrong error type %T", c.src, err)
			}
			if len(errs) != len(c.errs) {
				t.Fatalf("%q gave %d errors, want %d: %v", c.src, len(errs), len(c.errs), err)
			}
			for i, want := range c.errs {
				got := errs[i]
				if got.Span != want.Span {
					t.Errorf("%q error %d at %v, want %v", c.src, i, got.Span, want.Span)
				}
				if want.Found != "" && got.Found != want.Found {
					t.Errorf("%q error %d found %q, want %q", c.src, i, got.Found, want.Found)
				}
				if want.Expected != nil && !slices.Equal(got.Expected, want.Expected) {
					t.Errorf("%q error %d expected %q, want %q", c.src, i, got.Expected, want.Expected)
				}
				if want.Msg != "" && got.Msg != want.Msg {
					t.Errorf("%q error %d has message %q, want %q", c.src, i, got.Msg, want.Msg)
				}
			}
			if errs.Pos() != c.errs[0].Span.Start {
				t.Errorf("%q error position is %d, want %d", c.src, errs.Pos(), c.errs[0].Span.Start)
			}
		})
	}
}

func TestSyntaxErrorText(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 +", "3: found end of input, expected number, identifier, '_' or '(', while parsing this expression"},
		{"(1", "2: found end of input, expected ')', while parsing this expression"},
		{"f(1 2", "5: found end of input, expected ',' or ')', while parsing this function call, while parsing this expression"},
		{"let f(x, x) = x", `9: duplicate parameter "x", while parsing this function definition`},
		{"$ + $", `2 syntax errors: 0: unknown symbol "$"; 4: unknown symbol "$"`},
	}
	for _, c := range cases {
		_, err := ParseString(c.src)
		if err == nil {
			t.Errorf("%q parsed", c.src)
			continue
		}
		if got := err.Error(); got != c.want {
			t.Errorf("%q gave wrong message:\nwant %s\ngot  %s", c.src, c.want, got)
		}
	}
}

func TestSyntaxErrorContext(t *testing.T) {
	_, err := ParseString("let f(x) = g(x,")
	var errs SyntaxErrors
	if !errors.As(err, &errs) || len(errs) != 1 {
		t.Fatalf("wrong error: %v", err)
	}
	want := []Label{
		{Name: "function definition", Span: Span{0, 15}},
		{Name: "expression", Span: Span{11, 15}},
		{Name: "function call", Span: Span{11, 15}},
		{Name: "expression", Span: Span{15, 15}},
	}
	if diff := cmp.Diff(want, errs[0].Context); diff != "" {
		t.Errorf("wrong context (-want +got):\n%s", diff)
	}
	var ie InputError
	if !errors.As(err, &ie) || ie.Pos() != 15 {
		t.Errorf("wrong input error position: %v", ie)
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "w^x*y+z+a*b^c"},
		{"descasc-parens", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c"},
		{"juxt", "2 x y sin(z) (a+b)"},
		{"nums", "1^1.1*1.1e1+1.1e-1+1*2^3"},
		{"deffunc", "let f(a, b, c) = a b + c!"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ParseString(c.src)
			}
		})
	}
}
