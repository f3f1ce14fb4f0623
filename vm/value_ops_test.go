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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turytsia/vut-ipp-xml-interpreter/vm"
)

func TestArithmeticTypeMismatch(t *testing.T) {
	_, err := vm.Add(vm.NewInt(1), vm.NewFloat(2))
	require.Error(t, err)
	assert.Equal(t, vm.KindType, vm.KindOf(err))
}

func TestIDivByZero(t *testing.T) {
	_, err := vm.IDiv(vm.NewInt(5), vm.NewInt(0))
	require.Error(t, err)
	assert.Equal(t, vm.KindOperandValue, vm.KindOf(err))
}

func TestEqNilCases(t *testing.T) {
	r, err := vm.Eq(vm.NewNil(), vm.NewNil())
	require.NoError(t, err)
	assert.True(t, r.Bool())

	r, err = vm.Eq(vm.NewNil(), vm.NewInt(0))
	require.NoError(t, err)
	assert.False(t, r.Bool())
}

func TestLtRejectsNilAndBool(t *testing.T) {
	_, err := vm.Lt(vm.NewNil(), vm.NewNil())
	require.Error(t, err)
	assert.Equal(t, vm.KindType, vm.KindOf(err))

	_, err = vm.Lt(vm.NewBool(true), vm.NewBool(false))
	require.Error(t, err)
	assert.Equal(t, vm.KindType, vm.KindOf(err))
}

func TestStringComparisonUsesDeEscapedForm(t *testing.T) {
	r, err := vm.Lt(vm.NewString(`a\098b`), vm.NewString("abc"))
	require.NoError(t, err)
	assert.True(t, r.Bool())
}

func TestConcatDeEscapes(t *testing.T) {
	r, err := vm.Concat(vm.NewString(`x\121`), vm.NewString("z"))
	require.NoError(t, err)
	assert.Equal(t, "xyz", r.Str())
}

func TestStrlenCountsRunesNotBytes(t *testing.T) {
	r, err := vm.Strlen(vm.NewString("café"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), r.Int())
}

func TestGetCharOutOfRange(t *testing.T) {
	_, err := vm.GetChar(vm.NewString("ab"), vm.NewInt(5))
	require.Error(t, err)
	assert.Equal(t, vm.KindString, vm.KindOf(err))
}

func TestSetCharEmptyReplacement(t *testing.T) {
	_, err := vm.SetChar(vm.NewString("abc"), vm.NewInt(0), vm.NewString(""))
	require.Error(t, err)
	assert.Equal(t, vm.KindString, vm.KindOf(err))
}

func TestSetCharReplacesOneRune(t *testing.T) {
	r, err := vm.SetChar(vm.NewString("abc"), vm.NewInt(1), vm.NewString("X"))
	require.NoError(t, err)
	assert.Equal(t, "aXc", r.Str())
}

func TestInt2CharRejectsInvalidScalar(t *testing.T) {
	_, err := vm.Int2Char(vm.NewInt(-1))
	require.Error(t, err)
	assert.Equal(t, vm.KindString, vm.KindOf(err))
}

func TestStri2IntOutOfRange(t *testing.T) {
	_, err := vm.Stri2Int(vm.NewString("ab"), vm.NewInt(9))
	require.Error(t, err)
	assert.Equal(t, vm.KindString, vm.KindOf(err))
}

func TestTypeNameOfUndef(t *testing.T) {
	r := vm.TypeName(vm.NewUndef())
	assert.Equal(t, "", r.Str())
}

func TestTypeNameOfInt(t *testing.T) {
	r := vm.TypeName(vm.NewInt(3))
	assert.Equal(t, "int", r.Str())
}
