package calc

import (
	"iter"
	"math/big"
	"slices"
	"strconv"
)

// Statement = FuncDef | VarDef | Expr
// FuncDef = 'let' ident '(' [ ident { ',' ident } ] ')' '=' Expr
// VarDef = 'let' ident '=' Expr
// Expr = Sum
// Sum = Product { ('+' | '-') Product }
// Product = Juxt { ('*' | '/' | '%') Juxt }
// Juxt = Power { Power }           (a Power here may not start with '-')
// Power = Prefixed [ '^' Power ]
// Prefixed = Postfixed | '-' Postfixed
// Postfixed = Atom [ '!' ]
// Atom = ['-'] int | ['-'] float | '_' | ident | ident '(' [ Expr { ',' Expr } ] ')' | '(' Expr ')'

// Parse parses one statement from a token sequence. Whitespace tokens are
// ignored. The statement must use every token. On failure, the error is a
// SyntaxErrors holding one error for each invalid character plus the error at
// the furthest position any statement form could reach.
func Parse(tokens iter.Seq[Token]) (*Statement, error) {
	var (
		toks []Token
		bad  SyntaxErrors
		end  int
	)
	for tok := range tokens {
		end = max(end, tok.Span.End)
		switch tok.Kind {
		case TokenSpace:
			continue
		case TokenError:
			bad = append(bad, &SyntaxError{
				Span:  tok.Span,
				Found: describe(tok),
				Msg:   "unknown symbol " + strconv.Quote(tok.Text),
			})
		}
		toks = append(toks, tok)
	}
	alts := [...]func(*parser) (*Statement, *SyntaxError){
		(*parser).funcdef,
		(*parser).vardef,
		(*parser).exprstmt,
	}
	var errs []*SyntaxError
	for _, alt := range alts {
		p := parser{toks: toks, end: end}
		s, err := alt(&p)
		if err == nil {
			if p.pos == len(p.toks) {
				return s, nil
			}
			err = p.fail("end of input")
		}
		errs = append(errs, err)
	}
	err := furthest(errs)
	for _, b := range bad {
		if b.Span.Start == err.Span.Start {
			// The parse error is about the same invalid character.
			return nil, bad
		}
	}
	bad = append(bad, err)
	slices.SortStableFunc(bad, func(a, b *SyntaxError) int { return a.Span.Start - b.Span.Start })
	return nil, bad
}

// ParseString is a shortcut to lex and parse a string.
func ParseString(src string) (*Statement, error) {
	return Parse(Lex(src))
}

// furthest selects the error at the furthest position, merging the
// expectations of alternatives which failed at the same token.
func furthest(errs []*SyntaxError) *SyntaxError {
	var r *SyntaxError
	for _, err := range errs {
		switch {
		case r == nil || err.Span.Start > r.Span.Start,
			err.Span.Start == r.Span.Start && err.Msg != "" && r.Msg == "":
			// An explained error beats a list of expectations at the same
			// token.
			c := *err
			c.Expected = slices.Clone(err.Expected)
			r = &c
		case err.Span.Start == r.Span.Start && r.Msg == "" && err.Msg == "":
			for _, e := range err.Expected {
				if !slices.Contains(r.Expected, e) {
					r.Expected = append(r.Expected, e)
				}
			}
		}
	}
	return r
}

type parser struct {
	// toks is the input with whitespace removed.
	toks []Token
	pos  int
	// end is the byte offset of the end of the input.
	end int
	// labels is the stack of productions being parsed.
	labels []Label
}

// peek returns the token k tokens ahead of the current one. Past the end of
// the input, the token has kind tokenNone and an empty span at the end.
func (p *parser) peek(k int) Token {
	if p.pos+k < len(p.toks) {
		return p.toks[p.pos+k]
	}
	return Token{Span: Span{Start: p.end, End: p.end}}
}

// enter pushes a production label starting at the current token.
func (p *parser) enter(name string) {
	p.labels = append(p.labels, Label{Name: name, Span: Span{Start: p.peek(0).Span.Start}})
}

func (p *parser) leave() {
	p.labels = p.labels[:len(p.labels)-1]
}

// fail creates an error for the current token.
func (p *parser) fail(expected ...string) *SyntaxError {
	tok := p.peek(0)
	ctx := make([]Label, len(p.labels))
	for i, l := range p.labels {
		ctx[i] = Label{Name: l.Name, Span: Span{Start: l.Span.Start, End: max(l.Span.Start, tok.Span.End)}}
	}
	return &SyntaxError{
		Span:     tok.Span,
		Found:    describe(tok),
		Expected: expected,
		Context:  ctx,
	}
}

// expect consumes a token of the given kind.
func (p *parser) expect(kind TokenKind, what string) (Token, *SyntaxError) {
	tok := p.peek(0)
	if tok.Kind != kind {
		return Token{}, p.fail(what)
	}
	p.pos++
	return tok, nil
}

func (p *parser) funcdef() (*Statement, *SyntaxError) {
	p.enter("function definition")
	defer p.leave()
	if _, err := p.expect(TokenLet, "'let'"); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenOpen, "'('"); err != nil {
		return nil, err
	}
	var params []string
	if p.peek(0).Kind == TokenClose {
		p.pos++
	} else {
		for {
			param, err := p.expect(TokenIdent, "identifier")
			if err != nil {
				return nil, err
			}
			if slices.Contains(params, param.Text) {
				p.pos--
				err := p.fail()
				err.Msg = "duplicate parameter " + strconv.Quote(param.Text)
				return nil, err
			}
			params = append(params, param.Text)
			tok := p.peek(0)
			p.pos++
			if tok.Kind == TokenClose {
				break
			}
			if tok.Kind != TokenComma {
				p.pos--
				return nil, p.fail("','", "')'")
			}
		}
	}
	if _, err := p.expect(TokenEqual, "'='"); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: StmtDefFunc, Name: name.Text, Params: params, Expr: body}, nil
}

func (p *parser) vardef() (*Statement, *SyntaxError) {
	p.enter("variable definition")
	defer p.leave()
	if _, err := p.expect(TokenLet, "'let'"); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEqual, "'='"); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: StmtDefVar, Name: name.Text, Expr: e}, nil
}

func (p *parser) exprstmt() (*Statement, *SyntaxError) {
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: StmtEval, Expr: e}, nil
}

// expr parses a complete expression.
func (p *parser) expr() (*Expr, *SyntaxError) {
	p.enter("expression")
	defer p.leave()
	return p.climb(exprprec)
}

// climb parses operands joined by operators more binding than until.
func (p *parser) climb(until operator) (*Expr, *SyntaxError) {
	lhs, err := p.prefixed()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek(0)
		prec := binop(tok.Kind)
		switch {
		case prec.op != exprNone:
			if !prec.moreBinding(until) {
				return lhs, nil
			}
			p.pos++
		case startsTerm(tok.Kind):
			// Adjacent terms multiply. A '-' here is always subtraction, so it
			// never starts a juxtaposed term.
			prec = juxtprec
			if !prec.moreBinding(until) {
				return lhs, nil
			}
		default:
			return lhs, nil
		}
		rhs, err := p.climb(prec)
		if err != nil {
			return nil, err
		}
		lhs = &Expr{Kind: prec.op, Left: lhs, Right: rhs, Span: lhs.Span.join(rhs.Span)}
	}
}

// prefixed parses an optionally negated postfixed term.
func (p *parser) prefixed() (*Expr, *SyntaxError) {
	tok := p.peek(0)
	if tok.Kind != TokenMinus || isLiteral(p.peek(1).Kind) {
		// A minus before a literal is part of the literal.
		return p.postfixed()
	}
	p.pos++
	arg, err := p.postfixed()
	if err != nil {
		return nil, err
	}
	return &Expr{Kind: ExprNeg, Left: arg, Span: tok.Span.join(arg.Span)}, nil
}

// postfixed parses an atom with at most one factorial.
func (p *parser) postfixed() (*Expr, *SyntaxError) {
	a, err := p.atom()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(0); tok.Kind == TokenBang {
		p.pos++
		a = &Expr{Kind: ExprFact, Left: a, Span: a.Span.join(tok.Span)}
	}
	return a, nil
}

func (p *parser) atom() (*Expr, *SyntaxError) {
	tok := p.peek(0)
	switch tok.Kind {
	case TokenInt, TokenFloat:
		p.pos++
		return p.literal(tok, Token{})
	case TokenMinus:
		if lit := p.peek(1); isLiteral(lit.Kind) {
			p.pos += 2
			return p.literal(lit, tok)
		}
	case TokenUnderscore:
		p.pos++
		return &Expr{Kind: ExprPrev, Span: tok.Span}, nil
	case TokenIdent:
		if p.peek(1).Kind == TokenOpen {
			return p.call()
		}
		p.pos++
		return &Expr{Kind: ExprVar, Name: tok.Text, Span: tok.Span}, nil
	case TokenOpen:
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(TokenClose, "')'")
		if err != nil {
			return nil, err
		}
		// Keep the node's own span but cover the brackets for diagnostics.
		e.Span = tok.Span.join(end.Span)
		return e, nil
	}
	return nil, p.fail("number", "identifier", "'_'", "'('")
}

// literal converts a numeric token to a node. If minus has a kind, it is a
// sign folded into the literal.
func (p *parser) literal(tok, minus Token) (*Expr, *SyntaxError) {
	span := tok.Span
	if minus.Kind != tokenNone {
		span = minus.Span.join(span)
	}
	switch tok.Kind {
	case TokenInt:
		x, ok := new(big.Int).SetString(tok.Text, 10)
		if !ok {
			panic("calc: lexer produced invalid integer " + strconv.Quote(tok.Text))
		}
		if minus.Kind != tokenNone {
			x.Neg(x)
		}
		return &Expr{Kind: ExprInt, Int: x, Span: span}, nil
	default:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			// The lexer only produces valid syntax, so the error is a range
			// error.
			p.pos--
			e := p.fail()
			e.Msg = "number " + tok.Text + " is out of range"
			return nil, e
		}
		if minus.Kind != tokenNone {
			f = -f
		}
		return &Expr{Kind: ExprFloat, Float: f, Span: span}, nil
	}
}

// call parses a function call with a bracketed argument list.
func (p *parser) call() (*Expr, *SyntaxError) {
	p.enter("function call")
	defer p.leave()
	name := p.peek(0)
	p.pos += 2
	n := &Expr{Kind: ExprCall, Name: name.Text}
	if end := p.peek(0); end.Kind == TokenClose {
		p.pos++
		n.Span = name.Span.join(end.Span)
		return n, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		n.Args = append(n.Args, arg)
		tok := p.peek(0)
		switch tok.Kind {
		case TokenComma:
			p.pos++
		case TokenClose:
			p.pos++
			n.Span = name.Span.join(tok.Span)
			return n, nil
		default:
			return nil, p.fail("','", "')'")
		}
	}
}

func isLiteral(k TokenKind) bool {
	return k == TokenInt || k == TokenFloat
}

// startsTerm reports whether a token can begin a juxtaposed term.
func startsTerm(k TokenKind) bool {
	switch k {
	case TokenInt, TokenFloat, TokenIdent, TokenUnderscore, TokenOpen:
		return true
	}
	return false
}

// describe names a token for error messages.
func describe(tok Token) string {
	switch tok.Kind {
	case tokenNone:
		return "end of input"
	case TokenError:
		return "unknown symbol " + strconv.Quote(tok.Text)
	case TokenInt, TokenFloat:
		return "number " + tok.Text
	case TokenIdent:
		return "identifier " + tok.Text
	default:
		return "'" + tok.Text + "'"
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op ExprKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token. If there is no such binary
// operator, then the result has an op of exprNone.
func binop(k TokenKind) operator {
	switch k {
	case TokenPlus:
		return operator{1, false, ExprAdd}
	case TokenMinus:
		return operator{1, false, ExprSub}
	case TokenStar:
		return operator{5, false, ExprMul}
	case TokenSlash:
		return operator{5, false, ExprDiv}
	case TokenPercent:
		return operator{5, false, ExprRem}
	case TokenCaret:
		return operator{15, true, ExprPow}
	default:
		return operator{}
	}
}

var (
	// juxtprec is the precedence of implicit multiplication, between
	// exponentiation and written multiplication.
	juxtprec = operator{10, false, ExprMul}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, exprNone}
)
