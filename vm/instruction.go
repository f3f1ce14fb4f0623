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

// Operand is one operand of a decoded Instruction: either a variable
// reference (IsVar true) or a literal Value, or a bare identifier used as a
// label name or type tag (IsVar false, Lit.Tag unused, Label/Type set).
// Exactly one of the three shapes is populated, selected by the opcode's
// arity signature (§1.6); the executor trusts the loader to have produced
// the right shape for each operand position.
type Operand struct {
	IsVar bool
	Var   VarRef

	Lit Value // meaningful when !IsVar and this slot is a symb/literal

	Label string // meaningful for label operands
	Type  Tag    // meaningful for READ's type-tag operand
}

// LitOperand builds a literal-value operand.
func LitOperand(v Value) Operand { return Operand{Lit: v} }

// VarOperand builds a variable-reference operand.
func VarOperand(ref VarRef) Operand { return Operand{IsVar: true, Var: ref} }

// LabelOperand builds a label-identifier operand.
func LabelOperand(name string) Operand { return Operand{Label: name} }

// TypeOperand builds a type-tag operand (READ's second argument).
func TypeOperand(tag Tag) Operand { return Operand{Type: tag} }

// Resolve materializes operand o to a Value: a literal is used directly, a
// variable reference is resolved through fs. Resolving an undefined
// variable is an undefined-variable error; resolving a variable whose value
// is still Undef is a missing-value error, except when allowUndef is true
// (TYPE is the only opcode that passes true).
func (o Operand) Resolve(fs *FrameStore, allowUndef bool) (Value, error) {
	if !o.IsVar {
		return o.Lit, nil
	}
	variable, err := fs.Resolve(o.Var)
	if err != nil {
		return Value{}, err
	}
	if variable.Value.Tag == Undef && !allowUndef {
		return Value{}, Failf(KindMissingValue, "variable %s@%s has no value", o.Var.Scope, o.Var.Name)
	}
	return variable.Value, nil
}

// Instruction is one decoded program instruction: its source order, opcode,
// and positional operands.
type Instruction struct {
	Order    int
	Op       Opcode
	Operands []Operand
}

// LabelTable maps label identifiers to their instruction-list index. It is
// built once by the loader before execution and never mutated afterward.
type LabelTable map[string]int

// Resolve looks up name, returning a semantic error if it is not a known
// label (§1.6: CALL/JUMP/JUMPIF* referencing an unknown label fail with
// KindSemantic at execution time).
func (lt LabelTable) Resolve(name string) (int, error) {
	idx, ok := lt[name]
	if !ok {
		return 0, Failf(KindSemantic, "undefined label %q", name)
	}
	return idx, nil
}
