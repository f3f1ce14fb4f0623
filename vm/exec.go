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

import "github.com/pkg/errors"

// exitSignal is returned internally by EXIT to unwind out of Run without
// being mistaken for a failure; Run translates it into a clean return with
// ExitCode already set.
type exitSignal struct{}

func (exitSignal) Error() string { return "exit" }

// Run executes the program from the current PC until EXIT, the end of the
// instruction list, or an error. On a clean finish (including via EXIT),
// err is nil and i.ExitCode holds the process exit code to use (0 unless
// EXIT ran). On error, err classifies the failure per §1.10 and the caller
// should not trust any output beyond what was already flushed: every opcode
// below either finishes all of its writes and state changes, or none of
// them, before returning an error.
func (i *Instance) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = Wrap(KindInternal, e, "internal panic during execution")
			} else {
				err = Failf(KindInternal, "internal panic: %v", r)
			}
		}
	}()

	for i.pc < len(i.program) {
		if i.cfg.MaxSteps > 0 && i.steps >= i.cfg.MaxSteps {
			return Failf(KindInternal, "exceeded maximum instruction count (%d)", i.cfg.MaxSteps)
		}
		ins := i.program[i.pc]
		branched, err := i.step(ins)
		if err != nil {
			if _, ok := err.(exitSignal); ok {
				return nil
			}
			return err
		}
		if !branched {
			i.pc++
		}
		i.steps++
	}
	return nil
}

// step executes one instruction. It returns branched=true when it has
// already set i.pc to a jump/call/return target (so Run must not advance
// PC itself), and a non-nil error either on failure or, for EXIT, to signal
// clean termination (exitSignal).
func (i *Instance) step(ins Instruction) (branched bool, err error) {
	ops := ins.Operands
	switch ins.Op {

	case OpMove:
		dst, err := i.destVar(ops[0])
		if err != nil {
			return false, err
		}
		v, err := ops[1].Resolve(i.frames, false)
		if err != nil {
			return false, err
		}
		dst.Value = v

	case OpCreateFrame:
		i.frames.CreateFrame()

	case OpPushFrame:
		if err := i.frames.PushFrame(); err != nil {
			return false, err
		}

	case OpPopFrame:
		if err := i.frames.PopFrame(); err != nil {
			return false, err
		}

	case OpDefVar:
		if err := i.frames.Declare(ops[0].Var); err != nil {
			return false, err
		}

	case OpCall:
		target, err := i.labels.Resolve(ops[0].Label)
		if err != nil {
			return false, err
		}
		i.calls.Push(i.pc)
		i.pc = target
		return true, nil

	case OpReturn:
		pc, err := i.calls.Pop()
		if err != nil {
			return false, err
		}
		i.pc = pc + 1
		return true, nil

	case OpPushs:
		v, err := ops[0].Resolve(i.frames, false)
		if err != nil {
			return false, err
		}
		i.data.Push(v)

	case OpPops:
		dst, err := i.destVar(ops[0])
		if err != nil {
			return false, err
		}
		v, err := i.data.Pop()
		if err != nil {
			return false, err
		}
		dst.Value = v

	case OpAdd, OpSub, OpMul, OpIDiv, OpDiv, OpLt, OpGt, OpEq, OpAnd, OpOr,
		OpInt2Char, OpNot, OpStri2Int, OpInt2Float, OpFloat2Int,
		OpConcat, OpStrlen, OpGetChar, OpSetChar, OpType:
		return false, i.execValueOp(ins.Op, ops)

	case OpRead:
		return false, i.execRead(ops)

	case OpWrite:
		return false, i.execWrite(ops[0])

	case OpLabel:
		// no-op at execution time; labels are resolved by the loader.

	case OpJump:
		target, err := i.labels.Resolve(ops[0].Label)
		if err != nil {
			return false, err
		}
		i.pc = target
		return true, nil

	case OpJumpIfEq, OpJumpIfNeq:
		return i.execJumpIf(ins.Op, ops)

	case OpJumpIfEqs, OpJumpIfNeqs:
		return i.execJumpIfs(ins.Op, ops)

	case OpExit:
		return false, i.execExit(ops[0])

	case OpDprint:
		v, err := ops[0].Resolve(i.frames, false)
		if err != nil {
			return false, err
		}
		if _, err := i.stderr.Write([]byte(v.Canonical())); err != nil {
			return false, Wrap(KindOutputWrite, err, "writing to stderr")
		}

	case OpBreak:
		if err := i.dumpState(i.stderr); err != nil {
			return false, Wrap(KindOutputWrite, err, "writing BREAK dump")
		}

	case OpClears:
		i.data.Clear()

	case OpAdds, OpSubs, OpMuls, OpIDivs, OpDivs, OpLts, OpGts, OpEqs,
		OpAnds, OpOrs, OpNots, OpInt2Chars, OpStri2Ints, OpInt2Floats, OpFloat2Ints:
		return false, i.execStackOp(ins.Op)

	default:
		return false, errors.Errorf("unhandled opcode %v", ins.Op)
	}
	return false, nil
}

func (i *Instance) destVar(op Operand) (*Variable, error) {
	if !op.IsVar {
		return nil, Failf(KindInternal, "destination operand is not a variable")
	}
	return i.frames.Resolve(op.Var)
}
