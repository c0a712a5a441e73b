// Package calc implements a small calculator language with exact arithmetic.
//
// A line of input is one statement. "let x = 1/3" binds a variable, "let
// f(a, b) = a^2 + b" defines a function, and anything else is an expression
// whose value becomes the previous answer, written "_". Integers and rationals
// are exact; "1/3 * 3" is exactly 1. Floats are IEEE doubles, and any
// arithmetic that would produce an infinity or NaN is an error instead.
//
// Adjacent terms multiply, so "2 sin(x)" and "(1+2)(3+4)" are products, but
// "5 -3" is a subtraction. Negation binds tighter than exponentiation: "-2^2"
// is 4. Numbers juxtapose like any other terms, so "2 3" is 6.
//
// Lex, Parse, and Context.Evaluate are the three stages. Context.Eval runs all
// three on a string.
package calc
