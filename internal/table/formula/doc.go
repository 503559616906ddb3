// Package formula compiles and evaluates small arithmetic expressions
// over row fields, used to derive computed columns. The grammar covers
// numbers, the four arithmetic operators, parentheses, unary minus, and
// column references (bare keys or [bracketed labels]). Nothing else:
// expressions are never handed to a general interpreter.
package formula
