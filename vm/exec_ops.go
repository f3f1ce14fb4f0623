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

// execValueOp implements the register forms of every value operator: it
// resolves the source operand(s), applies the operator, and writes the
// result to the destination variable named by the first operand.
func (i *Instance) execValueOp(op Opcode, ops []Operand) error {
	dst, err := i.destVar(ops[0])
	if err != nil {
		return err
	}

	switch op {
	case OpType:
		// TYPE is the only opcode for which an undef source is not an error.
		a, err := ops[1].Resolve(i.frames, true)
		if err != nil {
			return err
		}
		dst.Value = TypeName(a)
		return nil

	case OpNot, OpInt2Char, OpInt2Float, OpFloat2Int, OpStrlen:
		a, err := ops[1].Resolve(i.frames, false)
		if err != nil {
			return err
		}
		var r Value
		switch op {
		case OpNot:
			r, err = Not(a)
		case OpInt2Char:
			r, err = Int2Char(a)
		case OpInt2Float:
			r, err = Int2Float(a)
		case OpFloat2Int:
			r, err = Float2Int(a)
		case OpStrlen:
			r, err = Strlen(a)
		}
		if err != nil {
			return err
		}
		dst.Value = r
		return nil

	case OpSetChar:
		// The destination variable is also the first (string) operand: its
		// current value is read through Resolve, the same as any other
		// operand, so an undefined-but-declared destination raises
		// missing-value before SetChar ever sees it.
		cur, err := ops[0].Resolve(i.frames, false)
		if err != nil {
			return err
		}
		idx, err := ops[1].Resolve(i.frames, false)
		if err != nil {
			return err
		}
		repl, err := ops[2].Resolve(i.frames, false)
		if err != nil {
			return err
		}
		r, err := SetChar(cur, idx, repl)
		if err != nil {
			return err
		}
		dst.Value = r
		return nil
	}

	a, err := ops[1].Resolve(i.frames, false)
	if err != nil {
		return err
	}
	b, err := ops[2].Resolve(i.frames, false)
	if err != nil {
		return err
	}
	var r Value
	switch op {
	case OpAdd:
		r, err = Add(a, b)
	case OpSub:
		r, err = Sub(a, b)
	case OpMul:
		r, err = Mul(a, b)
	case OpIDiv:
		r, err = IDiv(a, b)
	case OpDiv:
		r, err = Div(a, b)
	case OpLt:
		r, err = Lt(a, b)
	case OpGt:
		r, err = Gt(a, b)
	case OpEq:
		r, err = Eq(a, b)
	case OpAnd:
		r, err = And(a, b)
	case OpOr:
		r, err = Or(a, b)
	case OpStri2Int:
		r, err = Stri2Int(a, b)
	case OpConcat:
		r, err = Concat(a, b)
	case OpGetChar:
		r, err = GetChar(a, b)
	default:
		return Failf(KindInternal, "execValueOp: unhandled opcode %v", op)
	}
	if err != nil {
		return err
	}
	dst.Value = r
	return nil
}

// execStackOp implements the zero-operand stack forms: they pop their
// operands from the data stack (without consuming more than the op needs)
// and push the result, per §4.3. On error the stack is left as it was.
func (i *Instance) execStackOp(op Opcode) error {
	unary := func(f func(Value) (Value, error)) error {
		a, err := i.data.Pop()
		if err != nil {
			return err
		}
		r, err := f(a)
		if err != nil {
			i.data.Push(a)
			return err
		}
		i.data.Push(r)
		return nil
	}
	binary := func(f func(a, b Value) (Value, error)) error {
		a, b, err := i.data.Top2()
		if err != nil {
			return err
		}
		r, err := f(a, b)
		if err != nil {
			return err
		}
		i.data.Pop()
		i.data.Pop()
		i.data.Push(r)
		return nil
	}

	switch op {
	case OpAdds:
		return binary(Add)
	case OpSubs:
		return binary(Sub)
	case OpMuls:
		return binary(Mul)
	case OpIDivs:
		return binary(IDiv)
	case OpDivs:
		return binary(Div)
	case OpLts:
		return binary(Lt)
	case OpGts:
		return binary(Gt)
	case OpEqs:
		return binary(Eq)
	case OpAnds:
		return binary(And)
	case OpOrs:
		return binary(Or)
	case OpNots:
		return unary(Not)
	case OpInt2Chars:
		return unary(Int2Char)
	case OpStri2Ints:
		return binary(Stri2Int)
	case OpInt2Floats:
		return unary(Int2Float)
	case OpFloat2Ints:
		return unary(Float2Int)
	default:
		return Failf(KindInternal, "execStackOp: unhandled opcode %v", op)
	}
}

// execJumpIf implements JUMPIFEQ/JUMPIFNEQ: both operands non-nil requires
// matching tags (else type error); exactly one nil follows the §1.3
// nil-equality rule.
func (i *Instance) execJumpIf(op Opcode, ops []Operand) (bool, error) {
	a, err := ops[1].Resolve(i.frames, false)
	if err != nil {
		return false, err
	}
	b, err := ops[2].Resolve(i.frames, false)
	if err != nil {
		return false, err
	}
	if a.Tag != Nil && b.Tag != Nil && a.Tag != b.Tag {
		return false, Failf(KindType, "%v: operand type mismatch (%s vs %s)", op, a.Tag, b.Tag)
	}
	eq, err := Eq(a, b)
	if err != nil {
		return false, err
	}
	take := eq.Bool()
	if op == OpJumpIfNeq {
		take = !take
	}
	if !take {
		return false, nil
	}
	target, err := i.labels.Resolve(ops[0].Label)
	if err != nil {
		return false, err
	}
	i.pc = target
	return true, nil
}

// execJumpIfs implements JUMPIFEQS/JUMPIFNEQS: per §4.3 the top two stack
// values are only inspected, never popped (matching the original
// implementation's get_symb_symb, which peeks).
func (i *Instance) execJumpIfs(op Opcode, ops []Operand) (bool, error) {
	a, b, err := i.data.Top2()
	if err != nil {
		return false, err
	}
	if a.Tag != Nil && b.Tag != Nil && a.Tag != b.Tag {
		return false, Failf(KindType, "%v: operand type mismatch (%s vs %s)", op, a.Tag, b.Tag)
	}
	eq, err := Eq(a, b)
	if err != nil {
		return false, err
	}
	take := eq.Bool()
	if op == OpJumpIfNeqs {
		take = !take
	}
	if !take {
		return false, nil
	}
	target, err := i.labels.Resolve(ops[0].Label)
	if err != nil {
		return false, err
	}
	i.pc = target
	return true, nil
}

// execExit implements EXIT: int in [0,49], else operand-value/type error.
func (i *Instance) execExit(op Operand) error {
	v, err := op.Resolve(i.frames, false)
	if err != nil {
		return err
	}
	if v.Tag != Int {
		return Failf(KindType, "EXIT: operand must be int, got %s", v.Tag)
	}
	if v.Int() < 0 || v.Int() > 49 {
		return Failf(KindOperandValue, "EXIT: code %d out of range [0,49]", v.Int())
	}
	i.ExitCode = int(v.Int())
	i.exited = true
	return exitSignal{}
}
