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

package xmlprog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turytsia/vut-ipp-xml-interpreter/vm"
	"github.com/turytsia/vut-ipp-xml-interpreter/xmlprog"
)

const helloWorld = `<?xml version="1.0" encoding="UTF-8"?>
<program>
  <instruction order="1" opcode="DEFVAR">
    <arg1 type="var">GF@g</arg1>
  </instruction>
  <instruction order="2" opcode="MOVE">
    <arg1 type="var">GF@g</arg1>
    <arg2 type="string">Hello\032world</arg2>
  </instruction>
  <instruction order="3" opcode="WRITE">
    <arg1 type="var">GF@g</arg1>
  </instruction>
  <instruction order="4" opcode="EXIT">
    <arg1 type="int">0</arg1>
  </instruction>
</program>`

func TestLoadHelloWorld(t *testing.T) {
	prog, labels, err := xmlprog.Load(strings.NewReader(helloWorld))
	require.NoError(t, err)
	assert.Empty(t, labels)
	require.Len(t, prog, 4)
	assert.Equal(t, vm.OpDefVar, prog[0].Op)
	assert.Equal(t, vm.OpExit, prog[3].Op)
}

func TestLoadReordersByOrderAttribute(t *testing.T) {
	doc := `<program>
  <instruction order="2" opcode="WRITE"><arg1 type="int">2</arg1></instruction>
  <instruction order="1" opcode="WRITE"><arg1 type="int">1</arg1></instruction>
</program>`
	prog, _, err := xmlprog.Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, prog, 2)
	assert.Equal(t, int64(1), prog[0].Operands[0].Lit.Int())
	assert.Equal(t, int64(2), prog[1].Operands[0].Lit.Int())
}

func TestLoadOpcodeIsCaseInsensitive(t *testing.T) {
	doc := `<program><instruction order="1" opcode="write"><arg1 type="int">1</arg1></instruction></program>`
	prog, _, err := xmlprog.Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, vm.OpWrite, prog[0].Op)
}

func TestLoadArgsRebindByTagRegardlessOfSourceOrder(t *testing.T) {
	doc := `<program>
  <instruction order="1" opcode="ADD">
    <arg3 type="int">3</arg3>
    <arg1 type="var">GF@r</arg1>
    <arg2 type="int">2</arg2>
  </instruction>
</program>`
	prog, _, err := xmlprog.Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, prog[0].Operands, 3)
	assert.True(t, prog[0].Operands[0].IsVar)
	assert.Equal(t, int64(2), prog[0].Operands[1].Lit.Int())
	assert.Equal(t, int64(3), prog[0].Operands[2].Lit.Int())
}

func TestLoadUnknownOpcodeIsStructureError(t *testing.T) {
	doc := `<program><instruction order="1" opcode="NOPE"></instruction></program>`
	_, _, err := xmlprog.Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Equal(t, vm.KindXMLStructure, vm.KindOf(err))
}

func TestLoadDuplicateOrderIsStructureError(t *testing.T) {
	doc := `<program>
  <instruction order="1" opcode="CREATEFRAME"></instruction>
  <instruction order="1" opcode="PUSHFRAME"></instruction>
</program>`
	_, _, err := xmlprog.Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Equal(t, vm.KindXMLStructure, vm.KindOf(err))
}

func TestLoadMissingOperandIsStructureError(t *testing.T) {
	doc := `<program><instruction order="1" opcode="ADD"><arg1 type="var">GF@r</arg1></instruction></program>`
	_, _, err := xmlprog.Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Equal(t, vm.KindXMLStructure, vm.KindOf(err))
}

func TestLoadDuplicateLabelIsSemanticError(t *testing.T) {
	doc := `<program>
  <instruction order="1" opcode="LABEL"><arg1 type="label">loop</arg1></instruction>
  <instruction order="2" opcode="LABEL"><arg1 type="label">loop</arg1></instruction>
</program>`
	_, _, err := xmlprog.Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Equal(t, vm.KindSemantic, vm.KindOf(err))
}

func TestLoadMalformedXMLIsNotWellFormed(t *testing.T) {
	doc := `<program><instruction order="1" opcode="WRITE">`
	_, _, err := xmlprog.Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Equal(t, vm.KindXMLNotWellFormed, vm.KindOf(err))
}

func TestLoadLabelTableIndexesInstructionPositions(t *testing.T) {
	doc := `<program>
  <instruction order="1" opcode="LABEL"><arg1 type="label">main</arg1></instruction>
  <instruction order="2" opcode="CALL"><arg1 type="label">sub</arg1></instruction>
  <instruction order="3" opcode="EXIT"><arg1 type="int">0</arg1></instruction>
  <instruction order="4" opcode="LABEL"><arg1 type="label">sub</arg1></instruction>
  <instruction order="5" opcode="RETURN"></instruction>
</program>`
	_, labels, err := xmlprog.Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 0, labels["main"])
	assert.Equal(t, 3, labels["sub"])
}
