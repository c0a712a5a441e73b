package calc

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// builtinFuncs creates the table of builtin functions for an angle unit.
func builtinFuncs(unit AngleUnit) map[string]*Function {
	// out converts a result from radians.
	out := func(x float64) float64 { return x }
	sin, cos := math.Sin, math.Cos
	tan := func(x float64) (float64, error) { return math.Tan(x), nil }
	cot := func(x float64) (float64, error) { return recip(math.Tan(x)) }
	if unit == Degrees {
		out = toDegrees
		sin, cos, tan, cot = sinDeg, cosDeg, tanDeg, cotDeg
	}
	return map[string]*Function{
		"sin": Monadic(floatFunc(func(x float64) (float64, error) { return sin(x), nil })),
		"cos": Monadic(floatFunc(func(x float64) (float64, error) { return cos(x), nil })),
		"tan": Monadic(floatFunc(tan)),
		"sec": Monadic(floatFunc(func(x float64) (float64, error) { return recip(cos(x)) })),
		"csc": Monadic(floatFunc(func(x float64) (float64, error) { return recip(sin(x)) })),
		"cot": Monadic(floatFunc(cot)),
		"asin": Monadic(floatFunc(func(x float64) (float64, error) {
			if x < -1 || x > 1 {
				return 0, &DomainError{Func: "asin", Detail: "the domain of asin is [-1, 1]"}
			}
			return out(math.Asin(x)), nil
		})),
		"acos": Monadic(floatFunc(func(x float64) (float64, error) {
			if x < -1 || x > 1 {
				return 0, &DomainError{Func: "acos", Detail: "the domain of acos is [-1, 1]"}
			}
			return out(math.Acos(x)), nil
		})),
		"atan": Monadic(floatFunc(func(x float64) (float64, error) { return out(math.Atan(x)), nil })),
		"asec": Monadic(floatFunc(func(x float64) (float64, error) {
			if -1 < x && x < 1 {
				return 0, &DomainError{Func: "asec", Detail: "the domain of asec is (-infinity, -1] ∪ [1, infinity)"}
			}
			return out(math.Acos(1 / x)), nil
		})),
		"acsc": Monadic(floatFunc(func(x float64) (float64, error) {
			if -1 < x && x < 1 {
				return 0, &DomainError{Func: "acsc", Detail: "the domain of acsc is (-infinity, -1] ∪ [1, infinity)"}
			}
			return out(math.Asin(1 / x)), nil
		})),
		"acot": Monadic(floatFunc(func(x float64) (float64, error) {
			if x == 0 {
				return out(math.Pi / 2), nil
			}
			return out(math.Atan(1 / x)), nil
		})),

		"sinh": Monadic(floatFunc(func(x float64) (float64, error) { return math.Sinh(x), nil })),
		"cosh": Monadic(floatFunc(func(x float64) (float64, error) { return math.Cosh(x), nil })),
		"tanh": Monadic(floatFunc(func(x float64) (float64, error) { return math.Tanh(x), nil })),

		"floor": Monadic(func(x Value) (Value, error) { return rounding(x, floor, math.Floor) }),
		"ceil":  Monadic(func(x Value) (Value, error) { return rounding(x, ceil, math.Ceil) }),
		"round": Monadic(func(x Value) (Value, error) { return rounding(x, round, math.Round) }),
		"abs": Monadic(func(x Value) (Value, error) {
			if x.Kind() == KindNull {
				return Value{}, &TypeError{Expected: "number", Found: x.Kind().String()}
			}
			return x.Abs(), nil
		}),
		"sqrt": Monadic(sqrt),

		"exp":   Monadic(exp),
		"exp2":  Monadic(func(x Value) (Value, error) { return Int64(2).Pow(x) }),
		"ln":    Monadic(func(x Value) (Value, error) { return logBase(x, "ln", nil) }),
		"log2":  Monadic(func(x Value) (Value, error) { return logBase(x, "log2", big.NewFloat(2)) }),
		"log10": Monadic(func(x Value) (Value, error) { return logBase(x, "log10", big.NewFloat(10)) }),
		"rad":   Monadic(floatFunc(func(x float64) (float64, error) { return toRadians(x), nil })),
		"deg":   Monadic(floatFunc(func(x float64) (float64, error) { return toDegrees(x), nil })),

		"log": Dyadic(func(x, b Value) (Value, error) {
			if b.Kind() == KindNull {
				return Value{}, &TypeError{Expected: "number", Found: b.Kind().String()}
			}
			if b.sign() <= 0 || b.Equal(Int64(1)) || b.Equal(Float(1)) {
				return Value{}, &DomainError{Func: "log", Detail: "the base of log must be positive and not 1"}
			}
			bf, err := bigOf(b)
			if err != nil {
				return Value{}, err
			}
			return logBase(x, "log", bf)
		}),
		"nroot": Dyadic(func(x, n Value) (Value, error) {
			a, k, err := floats(x, n)
			if err != nil {
				return Value{}, err
			}
			if a < 0 || k == 0 {
				return Value{}, &DomainError{Func: "nroot", Detail: "the domain of nroot is [0, infinity) × (R \\ {0})"}
			}
			return floatPow(a, 1/k)
		}),
	}
}

// builtinConsts creates the builtin constants.
func builtinConsts() map[string]Value {
	pi := bigfloat.Pi(new(big.Float).SetPrec(extPrec))
	e := bigfloat.Exp(new(big.Float).SetPrec(extPrec), new(big.Float).SetPrec(extPrec).SetInt64(1))
	tau := new(big.Float).SetPrec(extPrec).Mul(pi, big.NewFloat(2))
	c := func(x *big.Float) Value {
		f, _ := x.Float64()
		return Float(f)
	}
	return map[string]Value{
		"pi":  c(pi),
		"e":   c(e),
		"tau": c(tau),
	}
}

// Monadic wraps a function of one value into a builtin.
func Monadic(f func(x Value) (Value, error)) *Function {
	return &Function{
		Arity:  1,
		Native: func(args []Value) (Value, error) { return f(args[0]) },
	}
}

// Dyadic wraps a function of two values into a builtin.
func Dyadic(f func(x, y Value) (Value, error)) *Function {
	return &Function{
		Arity:  2,
		Native: func(args []Value) (Value, error) { return f(args[0], args[1]) },
	}
}

// floatFunc adapts a function on floats to values. The argument is converted
// to a float, and infinite or NaN results become errors.
func floatFunc(f func(float64) (float64, error)) func(Value) (Value, error) {
	return func(x Value) (Value, error) {
		a, err := x.Float64()
		if err != nil {
			return Value{}, err
		}
		r, err := f(a)
		if err != nil {
			return Value{}, err
		}
		return checked(r)
	}
}

func toRadians(x float64) float64 { return x * math.Pi / 180 }
func toDegrees(x float64) float64 { return x * 180 / math.Pi }

// quadrant reports which multiple of 90 degrees x is, modulo 4.
func quadrant(x float64) (int, bool) {
	if math.Mod(x, 90) != 0 {
		return 0, false
	}
	q := int(math.Mod(x, 360) / 90)
	if q < 0 {
		q += 4
	}
	return q, true
}

// sinDeg and the rest are exact at multiples of 90 degrees, so the poles of
// tan, sec, csc, and cot are division by zero rather than huge results.
func sinDeg(x float64) float64 {
	if q, ok := quadrant(x); ok {
		return [...]float64{0, 1, 0, -1}[q]
	}
	return math.Sin(toRadians(x))
}

func cosDeg(x float64) float64 {
	if q, ok := quadrant(x); ok {
		return [...]float64{1, 0, -1, 0}[q]
	}
	return math.Cos(toRadians(x))
}

func tanDeg(x float64) (float64, error) {
	if q, ok := quadrant(x); ok {
		if q%2 != 0 {
			return 0, ErrDivisionByZero
		}
		return 0, nil
	}
	return math.Tan(toRadians(x)), nil
}

func cotDeg(x float64) (float64, error) {
	if q, ok := quadrant(x); ok {
		if q%2 == 0 {
			return 0, ErrDivisionByZero
		}
		return 0, nil
	}
	return recip(math.Tan(toRadians(x)))
}

func recip(x float64) (float64, error) {
	if x == 0 {
		return 0, ErrDivisionByZero
	}
	return 1 / x, nil
}

// rounding applies an integer rounding function. Exact arguments round
// exactly. Float arguments narrow to int64, and values outside its range are
// an overflow.
func rounding(x Value, exact func(*big.Rat) *big.Int, fl func(float64) float64) (Value, error) {
	switch x.Kind() {
	case KindInteger:
		return x, nil
	case KindRational:
		return intv(exact(x.rat())), nil
	case KindFloat:
		f := fl(x.f)
		if f < math.MinInt64 || f >= math.MaxInt64 || math.IsNaN(f) {
			return Value{}, ErrOverflow
		}
		return Int64(int64(f)), nil
	}
	return Value{}, &TypeError{Expected: "number", Found: x.Kind().String()}
}

func floor(r *big.Rat) *big.Int {
	// Denominators are positive, so Euclidean division is floor.
	return new(big.Int).Div(r.Num(), r.Denom())
}

func ceil(r *big.Rat) *big.Int {
	z := floor(new(big.Rat).Neg(r))
	return z.Neg(z)
}

// round rounds half away from zero.
func round(r *big.Rat) *big.Int {
	a := new(big.Rat).Abs(r)
	z := floor(a.Add(a, big.NewRat(1, 2)))
	if r.Sign() < 0 {
		z.Neg(z)
	}
	return z
}

// sqrt is exact for exact perfect squares.
func sqrt(x Value) (Value, error) {
	if x.Kind() == KindNull {
		return Value{}, &TypeError{Expected: "number", Found: x.Kind().String()}
	}
	if x.sign() < 0 {
		return Value{}, &DomainError{Func: "sqrt", Detail: "the domain of sqrt is [0, infinity)"}
	}
	if x.IsExact() {
		r := x.rat()
		n, d := new(big.Int).Sqrt(r.Num()), new(big.Int).Sqrt(r.Denom())
		if new(big.Int).Mul(n, n).Cmp(r.Num()) == 0 && new(big.Int).Mul(d, d).Cmp(r.Denom()) == 0 {
			if x.Kind() == KindInteger {
				return intv(n), nil
			}
			return ratv(new(big.Rat).SetFrac(n, d)), nil
		}
	}
	f, err := x.Float64()
	if err != nil {
		return Value{}, err
	}
	return checked(math.Sqrt(f))
}

// exp computes e^x in extended precision.
func exp(x Value) (Value, error) {
	f, err := x.Float64()
	switch {
	case err == ErrOverflow && x.sign() < 0:
		return Float(0), nil
	case err != nil:
		return Value{}, err
	case f > 709.8:
		return Value{}, ErrOverflow
	case f < -745.2:
		return Float(0), nil
	}
	a, err := bigOf(x)
	if err != nil {
		return Value{}, err
	}
	r, _ := bigfloat.Exp(new(big.Float).SetPrec(extPrec), a).Float64()
	return checked(r)
}

// logBase computes the logarithm of x in extended precision. If base is nil,
// the result is the natural logarithm.
func logBase(x Value, name string, base *big.Float) (Value, error) {
	if x.Kind() == KindNull {
		return Value{}, &TypeError{Expected: "number", Found: x.Kind().String()}
	}
	if x.sign() <= 0 {
		return Value{}, &DomainError{Func: name, Detail: "the domain of " + name + " is (0, infinity)"}
	}
	a, err := bigOf(x)
	if err != nil {
		return Value{}, err
	}
	z := bigfloat.Log(new(big.Float).SetPrec(extPrec), a)
	if base != nil {
		b := new(big.Float).SetPrec(extPrec).Set(base)
		z.Quo(z, bigfloat.Log(new(big.Float).SetPrec(extPrec), b))
	}
	r, _ := z.Float64()
	return checked(r)
}

// bigOf converts a numeric value to an extended-precision float. Exact values
// convert directly, so they may be far outside the range of float64.
func bigOf(x Value) (*big.Float, error) {
	z := new(big.Float).SetPrec(extPrec)
	switch x.Kind() {
	case KindInteger:
		return z.SetInt(x.i), nil
	case KindRational:
		return z.SetRat(x.r), nil
	case KindFloat:
		return z.SetFloat64(x.f), nil
	}
	return nil, &ConversionError{From: x.Kind(), To: KindFloat}
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// Func is a name identifying the function or operator.
	Func string
	// Detail describes the domain.
	Detail string
}

func (err *DomainError) Error() string {
	if err.Detail == "" {
		return "math domain error"
	}
	return "math domain error: " + err.Detail
}
