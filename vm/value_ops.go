// This file is part of vut-ipp-xml-interpreter.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import "unicode/utf8"

// numericBinOp applies fi to two int operands or ff to two float operands.
// Mixed tags, or any tag other than Int/Float, is a type error.
func numericBinOp(op string, a, b Value, fi func(x, y int64) (int64, error), ff func(x, y float64) float64) (Value, error) {
	if a.Tag != b.Tag {
		return Value{}, Failf(KindType, "%s: operand type mismatch (%s vs %s)", op, a.Tag, b.Tag)
	}
	switch a.Tag {
	case Int:
		r, err := fi(a.i, b.i)
		if err != nil {
			return Value{}, err
		}
		return NewInt(r), nil
	case Float:
		if ff == nil {
			return Value{}, Failf(KindType, "%s: float operands not supported", op)
		}
		return NewFloat(ff(a.f, b.f)), nil
	default:
		return Value{}, Failf(KindType, "%s: operand must be int or float, got %s", op, a.Tag)
	}
}

// Add implements ADD/ADDS.
func Add(a, b Value) (Value, error) {
	return numericBinOp("ADD", a, b,
		func(x, y int64) (int64, error) { return x + y, nil },
		func(x, y float64) float64 { return x + y })
}

// Sub implements SUB/SUBS.
func Sub(a, b Value) (Value, error) {
	return numericBinOp("SUB", a, b,
		func(x, y int64) (int64, error) { return x - y, nil },
		func(x, y float64) float64 { return x - y })
}

// Mul implements MUL/MULS.
func Mul(a, b Value) (Value, error) {
	return numericBinOp("MUL", a, b,
		func(x, y int64) (int64, error) { return x * y, nil },
		func(x, y float64) float64 { return x * y })
}

// IDiv implements IDIV/IDIVS: integer division only.
func IDiv(a, b Value) (Value, error) {
	if a.Tag != Int || b.Tag != Int {
		return Value{}, Failf(KindType, "IDIV: operands must be int, got %s and %s", a.Tag, b.Tag)
	}
	if b.i == 0 {
		return Value{}, Fail(KindOperandValue, "IDIV: division by zero")
	}
	return NewInt(a.i / b.i), nil
}

// Div implements DIV/DIVS: same-numeric-tag division.
func Div(a, b Value) (Value, error) {
	if a.Tag != b.Tag {
		return Value{}, Failf(KindType, "DIV: operand type mismatch (%s vs %s)", a.Tag, b.Tag)
	}
	switch a.Tag {
	case Int:
		if b.i == 0 {
			return Value{}, Fail(KindOperandValue, "DIV: division by zero")
		}
		return NewInt(a.i / b.i), nil
	case Float:
		if b.f == 0 {
			return Value{}, Fail(KindOperandValue, "DIV: division by zero")
		}
		return NewFloat(a.f / b.f), nil
	default:
		return Value{}, Failf(KindType, "DIV: operand must be int or float, got %s", a.Tag)
	}
}

// Lt implements LT/LTS: same tag required, nil forbidden.
func Lt(a, b Value) (Value, error) {
	c, err := orderedCompare("LT", a, b)
	if err != nil {
		return Value{}, err
	}
	return NewBool(c < 0), nil
}

// Gt implements GT/GTS.
func Gt(a, b Value) (Value, error) {
	c, err := orderedCompare("GT", a, b)
	if err != nil {
		return Value{}, err
	}
	return NewBool(c > 0), nil
}

func orderedCompare(op string, a, b Value) (int, error) {
	if a.Tag == Nil || b.Tag == Nil {
		return 0, Failf(KindType, "%s: nil is not ordered", op)
	}
	if a.Tag != b.Tag {
		return 0, Failf(KindType, "%s: operand type mismatch (%s vs %s)", op, a.Tag, b.Tag)
	}
	switch a.Tag {
	case Int:
		switch {
		case a.i < b.i:
			return -1, nil
		case a.i > b.i:
			return 1, nil
		default:
			return 0, nil
		}
	case Float:
		switch {
		case a.f < b.f:
			return -1, nil
		case a.f > b.f:
			return 1, nil
		default:
			return 0, nil
		}
	case Bool:
		return 0, Failf(KindType, "%s: bool is not ordered", op)
	case String:
		sa, sb := DeEscape(a.s), DeEscape(b.s)
		switch {
		case sa < sb:
			return -1, nil
		case sa > sb:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, Failf(KindType, "%s: operand type %s is not ordered", op, a.Tag)
	}
}

// Eq implements EQ/EQS, including the nil special case: nil==nil is true,
// nil==non-nil is false, and otherwise both sides must share a tag.
func Eq(a, b Value) (Value, error) {
	if a.Tag == Nil || b.Tag == Nil {
		return NewBool(a.Tag == Nil && b.Tag == Nil), nil
	}
	if a.Tag != b.Tag {
		return Value{}, Failf(KindType, "EQ: operand type mismatch (%s vs %s)", a.Tag, b.Tag)
	}
	switch a.Tag {
	case Int:
		return NewBool(a.i == b.i), nil
	case Float:
		return NewBool(a.f == b.f), nil
	case Bool:
		return NewBool(a.b == b.b), nil
	case String:
		return NewBool(DeEscape(a.s) == DeEscape(b.s)), nil
	default:
		return Value{}, Failf(KindType, "EQ: unsupported operand type %s", a.Tag)
	}
}

func boolBinOp(op string, a, b Value, f func(x, y bool) bool) (Value, error) {
	if a.Tag != Bool || b.Tag != Bool {
		return Value{}, Failf(KindType, "%s: operands must be bool, got %s and %s", op, a.Tag, b.Tag)
	}
	return NewBool(f(a.b, b.b)), nil
}

// And implements AND/ANDS.
func And(a, b Value) (Value, error) {
	return boolBinOp("AND", a, b, func(x, y bool) bool { return x && y })
}

// Or implements OR/ORS.
func Or(a, b Value) (Value, error) {
	return boolBinOp("OR", a, b, func(x, y bool) bool { return x || y })
}

// Not implements NOT/NOTS.
func Not(a Value) (Value, error) {
	if a.Tag != Bool {
		return Value{}, Failf(KindType, "NOT: operand must be bool, got %s", a.Tag)
	}
	return NewBool(!a.b), nil
}

// Int2Char implements INT2CHAR/INT2CHARS.
func Int2Char(a Value) (Value, error) {
	if a.Tag != Int {
		return Value{}, Failf(KindType, "INT2CHAR: operand must be int, got %s", a.Tag)
	}
	r := rune(a.i)
	if a.i < 0 || a.i > utf8.MaxRune || !utf8.ValidRune(r) {
		return Value{}, Failf(KindString, "INT2CHAR: %d is not a valid Unicode scalar value", a.i)
	}
	return NewString(string(r)), nil
}

// Stri2Int implements STRI2INT/STRI2INTS.
func Stri2Int(s, idx Value) (Value, error) {
	if s.Tag != String || idx.Tag != Int {
		return Value{}, Failf(KindType, "STRI2INT: operands must be (string, int), got (%s, %s)", s.Tag, idx.Tag)
	}
	r := []rune(DeEscape(s.s))
	if idx.i < 0 || int(idx.i) >= len(r) {
		return Value{}, Failf(KindString, "STRI2INT: index %d out of range", idx.i)
	}
	return NewInt(int64(r[idx.i])), nil
}

// Int2Float implements INT2FLOAT/INT2FLOATS.
func Int2Float(a Value) (Value, error) {
	if a.Tag != Int {
		return Value{}, Failf(KindType, "INT2FLOAT: operand must be int, got %s", a.Tag)
	}
	return NewFloat(float64(a.i)), nil
}

// Float2Int implements FLOAT2INT/FLOAT2INTS.
func Float2Int(a Value) (Value, error) {
	if a.Tag != Float {
		return Value{}, Failf(KindType, "FLOAT2INT: operand must be float, got %s", a.Tag)
	}
	return NewInt(int64(a.f)), nil
}

// Concat implements CONCAT.
func Concat(a, b Value) (Value, error) {
	if a.Tag != String || b.Tag != String {
		return Value{}, Failf(KindType, "CONCAT: operands must be string, got %s and %s", a.Tag, b.Tag)
	}
	return NewString(DeEscape(a.s) + DeEscape(b.s)), nil
}

// Strlen implements STRLEN.
func Strlen(a Value) (Value, error) {
	if a.Tag != String {
		return Value{}, Failf(KindType, "STRLEN: operand must be string, got %s", a.Tag)
	}
	return NewInt(int64(RuneLen(a.s))), nil
}

// GetChar implements GETCHAR.
func GetChar(s, idx Value) (Value, error) {
	if s.Tag != String || idx.Tag != Int {
		return Value{}, Failf(KindType, "GETCHAR: operands must be (string, int), got (%s, %s)", s.Tag, idx.Tag)
	}
	r := []rune(DeEscape(s.s))
	if idx.i < 0 || int(idx.i) >= len(r) {
		return Value{}, Failf(KindString, "GETCHAR: index %d out of range", idx.i)
	}
	return NewString(string(r[idx.i])), nil
}

// SetChar implements SETCHAR: replaces the code point of dst at index idx
// with the first code point of repl. dst must already be a string Value;
// the caller (the executor) is responsible for writing the result back into
// the destination variable.
func SetChar(dst, idx, repl Value) (Value, error) {
	if dst.Tag != String || idx.Tag != Int || repl.Tag != String {
		return Value{}, Failf(KindType, "SETCHAR: operand type mismatch")
	}
	r := []rune(DeEscape(dst.s))
	if idx.i < 0 || int(idx.i) >= len(r) {
		return Value{}, Failf(KindString, "SETCHAR: index %d out of range", idx.i)
	}
	rr := []rune(DeEscape(repl.s))
	if len(rr) == 0 {
		return Value{}, Fail(KindString, "SETCHAR: replacement string is empty")
	}
	r[idx.i] = rr[0]
	return NewString(string(r)), nil
}

// TypeName implements TYPE: never fails, undef maps to an empty string.
func TypeName(a Value) Value {
	if a.Tag == Undef {
		return NewString("")
	}
	return NewString(a.Tag.String())
}
