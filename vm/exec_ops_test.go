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

package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turytsia/vut-ipp-xml-interpreter/vm"
)

func TestStackFormArithmetic(t *testing.T) {
	var out bytes.Buffer
	prog := []vm.Instruction{
		{Op: vm.OpPushs, Operands: []vm.Operand{vm.LitOperand(vm.NewInt(4))}},
		{Op: vm.OpPushs, Operands: []vm.Operand{vm.LitOperand(vm.NewInt(10))}},
		{Op: vm.OpSubs},
		{Op: vm.OpDefVar, Operands: []vm.Operand{vm.VarOperand(gf("r"))}},
		{Op: vm.OpPops, Operands: []vm.Operand{vm.VarOperand(gf("r"))}},
		{Op: vm.OpWrite, Operands: []vm.Operand{vm.VarOperand(gf("r"))}},
	}
	i := setup(t, prog, vm.LabelTable{}, "", &out)
	require.NoError(t, i.Run())
	// SUBS computes NOS-TOS: pushed 4 then 10, so result is 4-10 = -6.
	assert.Equal(t, "-6", out.String())
}

func TestJumpIfEqsDoesNotConsumeStack(t *testing.T) {
	var out bytes.Buffer
	prog := []vm.Instruction{
		{Op: vm.OpPushs, Operands: []vm.Operand{vm.LitOperand(vm.NewInt(5))}},
		{Op: vm.OpPushs, Operands: []vm.Operand{vm.LitOperand(vm.NewInt(5))}},
		{Op: vm.OpJumpIfEqs, Operands: []vm.Operand{vm.LabelOperand("done")}},
		{Op: vm.OpWrite, Operands: []vm.Operand{vm.LitOperand(vm.NewString("unreachable"))}},
		{Op: vm.OpLabel, Operands: []vm.Operand{vm.LabelOperand("done")}},
		{Op: vm.OpDefVar, Operands: []vm.Operand{vm.VarOperand(gf("depth"))}},
	}
	labels := vm.LabelTable{"done": 4}
	i := setup(t, prog, labels, "", &out)
	require.NoError(t, i.Run())
	assert.Equal(t, "", out.String())
	assert.Equal(t, 2, i.Data().Len(), "JUMPIFEQS must only peek, never pop")
}

func TestExecExitSetsExitCodeAndStops(t *testing.T) {
	var out bytes.Buffer
	prog := []vm.Instruction{
		{Op: vm.OpExit, Operands: []vm.Operand{vm.LitOperand(vm.NewInt(7))}},
		{Op: vm.OpWrite, Operands: []vm.Operand{vm.LitOperand(vm.NewString("unreachable"))}},
	}
	i := setup(t, prog, vm.LabelTable{}, "", &out)
	require.NoError(t, i.Run())
	assert.Equal(t, 7, i.ExitCode)
	assert.Equal(t, "", out.String())
}

func TestSetCharOnUndefDestinationIsMissingValue(t *testing.T) {
	var out bytes.Buffer
	prog := []vm.Instruction{
		{Op: vm.OpDefVar, Operands: []vm.Operand{vm.VarOperand(gf("s"))}},
		{Op: vm.OpSetChar, Operands: []vm.Operand{
			vm.VarOperand(gf("s")),
			vm.LitOperand(vm.NewInt(0)),
			vm.LitOperand(vm.NewString("x")),
		}},
	}
	i := setup(t, prog, vm.LabelTable{}, "", &out)
	err := i.Run()
	require.Error(t, err)
	assert.Equal(t, vm.KindMissingValue, vm.KindOf(err))
	assert.Equal(t, 56, vm.KindOf(err).ExitCode())
}

func TestLookupOpcodeCaseInsensitive(t *testing.T) {
	op, ok := vm.LookupOpcode("move")
	require.True(t, ok)
	assert.Equal(t, vm.OpMove, op)

	_, ok = vm.LookupOpcode("NOPE")
	assert.False(t, ok)
}

func TestArityTableCoversAllOpcodes(t *testing.T) {
	for op := vm.OpMove; op.String() != "?"; op++ {
		_, ok := vm.Arity(op)
		assert.True(t, ok, "opcode %v has no arity entry", op)
	}
}
