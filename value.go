package calc

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Value is a number produced by evaluation, or Null, the result of a
// definition. Values are immutable; operations always allocate new results,
// so copies of a Value can share their underlying numbers freely.
type Value struct {
	kind Kind
	i    *big.Int
	r    *big.Rat
	f    float64
}

// Kind is the representation of a Value.
type Kind int8

const (
	// KindNull is the result of a definition.
	KindNull Kind = iota
	// KindInteger is an exact arbitrary-precision integer.
	KindInteger
	// KindRational is an exact fraction in lowest terms with a positive
	// denominator.
	KindRational
	// KindFloat is an IEEE double.
	KindFloat
)

var kindNames = [...]string{
	KindNull:     "Null",
	KindInteger:  "Integer",
	KindRational: "Rational",
	KindFloat:    "Float",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Null returns the Null value.
func Null() Value {
	return Value{}
}

// Int returns an Integer value equal to x.
func Int(x *big.Int) Value {
	return Value{kind: KindInteger, i: new(big.Int).Set(x)}
}

// Int64 returns an Integer value equal to x.
func Int64(x int64) Value {
	return Value{kind: KindInteger, i: big.NewInt(x)}
}

// Rat returns a Rational value equal to x.
func Rat(x *big.Rat) Value {
	return Value{kind: KindRational, r: new(big.Rat).Set(x)}
}

// Float returns a Float value equal to f. Arithmetic never produces infinite
// or NaN values, but Float does not reject them.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// intv and ratv wrap numbers without copying. The caller must not retain x.
func intv(x *big.Int) Value { return Value{kind: KindInteger, i: x} }
func ratv(x *big.Rat) Value { return Value{kind: KindRational, r: x} }

// checked wraps a float result, converting values arithmetic must not produce
// into errors.
func checked(f float64) (Value, error) {
	switch {
	case math.IsNaN(f):
		return Value{}, &DomainError{Detail: "result is not a number"}
	case math.IsInf(f, 0):
		return Value{}, ErrOverflow
	}
	return Float(f), nil
}

// Kind returns the representation of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsExact reports whether v is an Integer or Rational.
func (v Value) IsExact() bool {
	return v.kind == KindInteger || v.kind == KindRational
}

// Int returns a copy of v as an integer if v is exact and has no fractional
// part.
func (v Value) Int() (*big.Int, bool) {
	x, ok := v.integer()
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(x), true
}

// Rat returns a copy of v as a fraction if v is exact.
func (v Value) Rat() (*big.Rat, bool) {
	if !v.IsExact() {
		return nil, false
	}
	return new(big.Rat).Set(v.rat()), true
}

// Float64 converts v to a float64. Exact values too large for a float64 give
// ErrOverflow.
func (v Value) Float64() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInteger:
		f, _ := new(big.Float).SetInt(v.i).Float64()
		if math.IsInf(f, 0) {
			return 0, ErrOverflow
		}
		return f, nil
	case KindRational:
		f, _ := v.r.Float64()
		if math.IsInf(f, 0) {
			return 0, ErrOverflow
		}
		return f, nil
	default:
		return 0, &ConversionError{From: v.kind, To: KindFloat}
	}
}

// integer returns v's integer value without copying if v is exact and has no
// fractional part. The result must not be modified.
func (v Value) integer() (*big.Int, bool) {
	switch v.kind {
	case KindInteger:
		return v.i, true
	case KindRational:
		if v.r.IsInt() {
			return v.r.Num(), true
		}
	}
	return nil, false
}

// rat returns an exact v as a fraction. The result must not be modified.
func (v Value) rat() *big.Rat {
	if v.kind == KindInteger {
		return new(big.Rat).SetInt(v.i)
	}
	return v.r
}

// sign returns -1, 0, or 1 according to the sign of a numeric v.
func (v Value) sign() int {
	switch v.kind {
	case KindInteger:
		return v.i.Sign()
	case KindRational:
		return v.r.Sign()
	case KindFloat:
		switch {
		case v.f < 0:
			return -1
		case v.f > 0:
			return 1
		}
	}
	return 0
}

// Representation pairs for binary operators.
const (
	pairInt = iota
	pairRat
	pairFloat
)

// pair decides the representation in which to compute x op y.
func pair(x, y Value) (int, error) {
	for _, v := range [2]Value{x, y} {
		if v.kind == KindNull {
			return 0, &TypeError{Expected: "number", Found: v.kind.String()}
		}
	}
	switch {
	case x.kind == KindFloat || y.kind == KindFloat:
		return pairFloat, nil
	case x.kind == KindInteger && y.kind == KindInteger:
		return pairInt, nil
	default:
		return pairRat, nil
	}
}

// floats converts both operands for a float operation.
func floats(x, y Value) (float64, float64, error) {
	a, err := x.Float64()
	if err != nil {
		return 0, 0, err
	}
	b, err := y.Float64()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Add returns x + y.
func (x Value) Add(y Value) (Value, error) {
	p, err := pair(x, y)
	if err != nil {
		return Value{}, err
	}
	switch p {
	case pairInt:
		return intv(new(big.Int).Add(x.i, y.i)), nil
	case pairRat:
		return ratv(new(big.Rat).Add(x.rat(), y.rat())), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	return checked(a + b)
}

// Sub returns x - y.
func (x Value) Sub(y Value) (Value, error) {
	p, err := pair(x, y)
	if err != nil {
		return Value{}, err
	}
	switch p {
	case pairInt:
		return intv(new(big.Int).Sub(x.i, y.i)), nil
	case pairRat:
		return ratv(new(big.Rat).Sub(x.rat(), y.rat())), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	return checked(a - b)
}

// Mul returns x * y.
func (x Value) Mul(y Value) (Value, error) {
	p, err := pair(x, y)
	if err != nil {
		return Value{}, err
	}
	switch p {
	case pairInt:
		return intv(new(big.Int).Mul(x.i, y.i)), nil
	case pairRat:
		return ratv(new(big.Rat).Mul(x.rat(), y.rat())), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	return checked(a * b)
}

// Div returns x / y. The quotient of two Integers is a Rational.
func (x Value) Div(y Value) (Value, error) {
	p, err := pair(x, y)
	if err != nil {
		return Value{}, err
	}
	if y.sign() == 0 {
		return Value{}, ErrDivisionByZero
	}
	switch p {
	case pairInt:
		return ratv(new(big.Rat).SetFrac(x.i, y.i)), nil
	case pairRat:
		return ratv(new(big.Rat).Quo(x.rat(), y.rat())), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	return checked(a / b)
}

// Rem returns the Euclidean remainder of x / y, which is never negative.
func (x Value) Rem(y Value) (Value, error) {
	p, err := pair(x, y)
	if err != nil {
		return Value{}, err
	}
	if y.sign() == 0 {
		return Value{}, ErrDivisionByZero
	}
	switch p {
	case pairInt:
		return intv(new(big.Int).Mod(x.i, y.i)), nil
	case pairRat:
		a := x.rat()
		b := new(big.Rat).Abs(y.rat())
		q := new(big.Rat).Quo(a, b)
		// Denominators are positive, so Euclidean division is floor.
		fl := new(big.Int).Div(q.Num(), q.Denom())
		r := new(big.Rat).Mul(b, new(big.Rat).SetInt(fl))
		return ratv(r.Sub(a, r)), nil
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	r := math.Mod(a, b)
	if r < 0 {
		r += math.Abs(b)
		// A tiny negative remainder can round up to the divisor itself.
		if r >= math.Abs(b) {
			r = 0
		}
	}
	return checked(r)
}

// maxBits bounds the size of exact results of exponentiation and factorial.
const maxBits = 1 << 24

// extPrec is the precision of intermediate transcendental results.
const extPrec = 96

// Pow returns x ^ y. An exact base with a non-negative integer exponent gives
// an exact result. Negative or fractional exponents give a Float.
func (x Value) Pow(y Value) (Value, error) {
	if _, err := pair(x, y); err != nil {
		return Value{}, err
	}
	e, ok := y.integer()
	if x.IsExact() && ok {
		if e.Sign() >= 0 {
			return exactPow(x, e)
		}
		if x.sign() == 0 {
			return Value{}, ErrDivisionByZero
		}
		if r, err := exactPow(x, new(big.Int).Neg(e)); err == nil {
			f, _ := new(big.Rat).Inv(r.rat()).Float64()
			return checked(f)
		}
		// Too large to compute exactly, so the float result is either tiny or
		// an overflow. Fall through to the float computation.
	}
	a, b, err := floats(x, y)
	if err != nil {
		return Value{}, err
	}
	return floatPow(a, b)
}

// exactPow computes x^e for exact x and non-negative e.
func exactPow(x Value, e *big.Int) (Value, error) {
	r := x.rat()
	switch {
	case r.Sign() == 0:
		if e.Sign() == 0 {
			return intv(big.NewInt(1)), nil
		}
		return x, nil
	case r.IsInt() && r.Num().CmpAbs(big.NewInt(1)) == 0:
		// ±1 to any power is ±1.
		if e.Bit(0) == 0 {
			return powOf(x, big.NewInt(1)), nil
		}
		return x, nil
	}
	bits := max(int64(r.Num().BitLen()+r.Denom().BitLen()-1), 1)
	if !e.IsInt64() || e.Int64() > maxBits/bits {
		return Value{}, ErrOverflow
	}
	num := new(big.Int).Exp(r.Num(), e, nil)
	if x.kind == KindInteger {
		return intv(num), nil
	}
	den := new(big.Int).Exp(r.Denom(), e, nil)
	return ratv(new(big.Rat).SetFrac(num, den)), nil
}

// powOf returns n in the representation of x.
func powOf(x Value, n *big.Int) Value {
	if x.kind == KindInteger {
		return intv(n)
	}
	return ratv(new(big.Rat).SetInt(n))
}

// floatPow computes a^b in floating point.
func floatPow(a, b float64) (Value, error) {
	switch {
	case a == 0:
		switch {
		case b > 0:
			return Float(0), nil
		case b == 0:
			return Float(1), nil
		}
		return Value{}, ErrDivisionByZero
	case a < 0:
		if b != math.Trunc(b) {
			return Value{}, &DomainError{Func: "^", Detail: "a negative base requires an integer exponent"}
		}
		return checked(math.Pow(a, b))
	}
	// Reject results far out of range before spending time on them.
	switch l := b * math.Log(a); {
	case l > 710:
		return Value{}, ErrOverflow
	case l < -746:
		return Float(0), nil
	}
	z := new(big.Float).SetPrec(extPrec)
	bigfloat.Pow(z, new(big.Float).SetPrec(extPrec).SetFloat64(a), new(big.Float).SetPrec(extPrec).SetFloat64(b))
	f, _ := z.Float64()
	return checked(f)
}

// Neg returns -x. The result has the same representation as x.
func (x Value) Neg() Value {
	switch x.kind {
	case KindInteger:
		return intv(new(big.Int).Neg(x.i))
	case KindRational:
		return ratv(new(big.Rat).Neg(x.r))
	case KindFloat:
		return Float(-x.f)
	}
	return x
}

// Abs returns |x|. The result has the same representation as x.
func (x Value) Abs() Value {
	switch x.kind {
	case KindInteger:
		return intv(new(big.Int).Abs(x.i))
	case KindRational:
		return ratv(new(big.Rat).Abs(x.r))
	case KindFloat:
		return Float(math.Abs(x.f))
	}
	return x
}

// maxFactorial bounds factorial arguments so results stay under maxBits.
const maxFactorial = 1 << 20

// Factorial returns x!. x must be an exact non-negative integer.
func (x Value) Factorial() (Value, error) {
	n, ok := x.integer()
	if !ok {
		return Value{}, &TypeError{Expected: KindInteger.String(), Found: x.kind.String()}
	}
	if n.Sign() < 0 {
		return Value{}, &DomainError{Func: "!", Detail: "factorial is defined for non-negative integers"}
	}
	if !n.IsInt64() || n.Int64() > maxFactorial {
		return Value{}, ErrOverflow
	}
	k := n.Int64()
	// Products up to 20! fit in a uint64.
	if k <= 20 {
		r := uint64(1)
		for i := uint64(2); i <= uint64(k); i++ {
			r *= i
		}
		return intv(new(big.Int).SetUint64(r)), nil
	}
	return intv(new(big.Int).MulRange(1, k)), nil
}

// Equal reports whether x and y denote the same number. Exact values compare
// with exact values, and floats with floats; an exact value never equals a
// float.
func (x Value) Equal(y Value) bool {
	switch {
	case x.IsExact() && y.IsExact():
		return x.rat().Cmp(y.rat()) == 0
	case x.kind == KindFloat && y.kind == KindFloat:
		return x.f == y.f
	}
	return x.kind == KindNull && y.kind == KindNull
}

// MaxPlaces is the largest number of decimal places Text produces.
const MaxPlaces = 63

// Text formats v. Integers and Rationals are always exact, with Rationals
// written as "n/d" unless the denominator is 1. Floats use the given number
// of decimal places, or the shortest representation that parses back to the
// same float if places is negative. Null formats as the empty string.
func (v Value) Text(places int) string {
	switch v.kind {
	case KindInteger:
		return v.i.String()
	case KindRational:
		if v.r.IsInt() {
			return v.r.Num().String()
		}
		return v.r.String()
	case KindFloat:
		if places < 0 {
			return strconv.FormatFloat(v.f, 'g', -1, 64)
		}
		return strconv.FormatFloat(v.f, 'f', min(places, MaxPlaces), 64)
	}
	return ""
}

// String formats v with Text(-1).
func (v Value) String() string {
	return v.Text(-1)
}

var (
	// ErrDivisionByZero is the error from dividing by zero in any
	// representation.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow is the error from a result too large to represent.
	ErrOverflow = errors.New("overflow")
)

// TypeError is an error indicating an operand of the wrong representation.
type TypeError struct {
	Expected string
	Found    string
}

func (err *TypeError) Error() string {
	return "type error (expected: " + err.Expected + ", found: " + err.Found + ")"
}

// ConversionError is an error converting a value to another representation.
type ConversionError struct {
	From, To Kind
}

func (err *ConversionError) Error() string {
	return "invalid conversion from " + err.From.String() + " to " + err.To.String()
}
