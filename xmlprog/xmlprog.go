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

// Package xmlprog decodes a program from its XML wire format into the
// ordered instruction list and label table package vm executes. Decoding
// happens in two passes: an XML unmarshal that can only fail with a
// not-well-formed error, followed by a structural and label-resolution pass
// that validates every instruction against its opcode's arity signature.
// Neither pass executes anything; a program that decodes cleanly may still
// fail at runtime (undefined variable, type mismatch, and so on), which is
// package vm's responsibility.
package xmlprog

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/turytsia/vut-ipp-xml-interpreter/vm"
)

type xmlArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

type xmlInstruction struct {
	Opcode string   `xml:"opcode,attr"`
	Order  string   `xml:"order,attr"`
	Args   []xmlArg `xml:",any"`
}

type xmlProgram struct {
	XMLName      xml.Name
	Instructions []xmlInstruction `xml:"instruction"`
}

// Load decodes a full program from r: the XML document, then the
// instruction list in ascending `order`, plus the label table built from
// every LABEL instruction.
func Load(r io.Reader) ([]vm.Instruction, vm.LabelTable, error) {
	var doc xmlProgram
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, vm.Wrap(vm.KindXMLNotWellFormed, err, "parsing program XML")
	}
	if doc.XMLName.Local != "program" {
		return nil, nil, vm.Failf(vm.KindXMLStructure, "root element must be <program>, got <%s>", doc.XMLName.Local)
	}

	type ordered struct {
		order int
		ins   vm.Instruction
	}
	seen := make(map[int]bool, len(doc.Instructions))
	instrs := make([]ordered, 0, len(doc.Instructions))

	for _, xi := range doc.Instructions {
		order, err := strconv.Atoi(xi.Order)
		if err != nil || order <= 0 {
			return nil, nil, vm.Failf(vm.KindXMLStructure, "instruction order %q is not a positive integer", xi.Order)
		}
		if seen[order] {
			return nil, nil, vm.Failf(vm.KindXMLStructure, "duplicate instruction order %d", order)
		}
		seen[order] = true

		op, ok := vm.LookupOpcode(xi.Opcode)
		if !ok {
			return nil, nil, vm.Failf(vm.KindXMLStructure, "unknown opcode %q (order %d)", xi.Opcode, order)
		}
		ops, err := decodeOperands(op, xi.Args, order)
		if err != nil {
			return nil, nil, err
		}
		instrs = append(instrs, ordered{order: order, ins: vm.Instruction{Order: order, Op: op, Operands: ops}})
	}

	slices.SortFunc(instrs, func(a, b ordered) int { return a.order - b.order })

	program := make([]vm.Instruction, len(instrs))
	labels := make(vm.LabelTable, len(instrs))
	for idx, o := range instrs {
		program[idx] = o.ins
		if o.ins.Op == vm.OpLabel {
			name := o.ins.Operands[0].Label
			if _, dup := labels[name]; dup {
				return nil, nil, vm.Failf(vm.KindSemantic, "duplicate label %q", name)
			}
			labels[name] = idx
		}
	}
	return program, labels, nil
}

// decodeOperands validates xi's args against op's arity signature and
// produces the positional Operand slice the executor expects. Args may
// appear in any element order in the source; their argN tag rebinds them to
// the right slot.
func decodeOperands(op vm.Opcode, args []xmlArg, order int) ([]vm.Operand, error) {
	kinds, ok := vm.Arity(op)
	if !ok {
		return nil, vm.Failf(vm.KindXMLStructure, "opcode %v has no known arity (order %d)", op, order)
	}
	slots := make([]*xmlArg, len(kinds))
	for i := range args {
		a := &args[i]
		pos, ok := argSlot(a.XMLName.Local)
		if !ok {
			return nil, vm.Failf(vm.KindXMLStructure, "unexpected operand element <%s> (order %d)", a.XMLName.Local, order)
		}
		if pos < 1 || pos > len(kinds) {
			return nil, vm.Failf(vm.KindXMLStructure, "operand %s out of range for %v (order %d)", a.XMLName.Local, op, order)
		}
		if slots[pos-1] != nil {
			return nil, vm.Failf(vm.KindXMLStructure, "duplicate operand %s (order %d)", a.XMLName.Local, order)
		}
		slots[pos-1] = a
	}
	ops := make([]vm.Operand, len(kinds))
	for i, kind := range kinds {
		a := slots[i]
		if a == nil {
			return nil, vm.Failf(vm.KindXMLStructure, "missing arg%d for %v (order %d)", i+1, op, order)
		}
		operand, err := decodeOperand(kind, *a, order)
		if err != nil {
			return nil, err
		}
		ops[i] = operand
	}
	return ops, nil
}

func argSlot(tag string) (int, bool) {
	if !strings.HasPrefix(tag, "arg") {
		return 0, false
	}
	n, err := strconv.Atoi(tag[3:])
	if err != nil {
		return 0, false
	}
	return n, true
}

func decodeOperand(kind vm.OperandKind, a xmlArg, order int) (vm.Operand, error) {
	switch kind {
	case vm.KindLabelOperand:
		if a.Type != "label" {
			return vm.Operand{}, vm.Failf(vm.KindXMLStructure, "arg must have type=label (order %d)", order)
		}
		name := strings.TrimSpace(a.Text)
		if !vm.ValidIdent(name) {
			return vm.Operand{}, vm.Failf(vm.KindXMLStructure, "invalid label identifier %q (order %d)", name, order)
		}
		return vm.LabelOperand(name), nil

	case vm.KindTypeOperand:
		if a.Type != "type" {
			return vm.Operand{}, vm.Failf(vm.KindXMLStructure, "arg must have type=type (order %d)", order)
		}
		tag, ok := parseTypeTag(strings.TrimSpace(a.Text))
		if !ok {
			return vm.Operand{}, vm.Failf(vm.KindXMLStructure, "invalid type tag %q (order %d)", a.Text, order)
		}
		return vm.TypeOperand(tag), nil

	case vm.KindVarOperand:
		ref, err := parseVarRef(a.Text, order)
		if err != nil {
			return vm.Operand{}, err
		}
		if a.Type != "var" {
			return vm.Operand{}, vm.Failf(vm.KindXMLStructure, "arg must have type=var (order %d)", order)
		}
		return vm.VarOperand(ref), nil

	case vm.KindSymbOperand:
		if a.Type == "var" {
			ref, err := parseVarRef(a.Text, order)
			if err != nil {
				return vm.Operand{}, err
			}
			return vm.VarOperand(ref), nil
		}
		lit, err := parseLiteral(a.Type, a.Text, order)
		if err != nil {
			return vm.Operand{}, err
		}
		return vm.LitOperand(lit), nil

	default:
		return vm.Operand{}, vm.Failf(vm.KindXMLStructure, "unhandled operand kind (order %d)", order)
	}
}

func parseVarRef(text string, order int) (vm.VarRef, error) {
	scopeStr, name, ok := strings.Cut(text, "@")
	if !ok {
		return vm.VarRef{}, vm.Failf(vm.KindXMLStructure, "malformed variable reference %q (order %d)", text, order)
	}
	var scope vm.Scope
	switch scopeStr {
	case "GF":
		scope = vm.ScopeGlobal
	case "TF":
		scope = vm.ScopeTemporary
	case "LF":
		scope = vm.ScopeLocal
	default:
		return vm.VarRef{}, vm.Failf(vm.KindXMLStructure, "unknown frame prefix %q (order %d)", scopeStr, order)
	}
	if !vm.ValidIdent(name) {
		return vm.VarRef{}, vm.Failf(vm.KindXMLStructure, "invalid variable identifier %q (order %d)", name, order)
	}
	return vm.VarRef{Scope: scope, Name: name}, nil
}

func parseLiteral(typ, text string, order int) (vm.Value, error) {
	switch typ {
	case "int":
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return vm.Value{}, vm.Failf(vm.KindXMLStructure, "invalid int literal %q (order %d)", text, order)
		}
		return vm.NewInt(n), nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return vm.Value{}, vm.Failf(vm.KindXMLStructure, "invalid float literal %q (order %d)", text, order)
		}
		return vm.NewFloat(f), nil
	case "bool":
		switch strings.TrimSpace(text) {
		case "true":
			return vm.NewBool(true), nil
		case "false":
			return vm.NewBool(false), nil
		default:
			return vm.Value{}, vm.Failf(vm.KindXMLStructure, "invalid bool literal %q (order %d)", text, order)
		}
	case "string":
		return vm.NewString(text), nil
	case "nil":
		return vm.NewNil(), nil
	default:
		return vm.Value{}, vm.Failf(vm.KindXMLStructure, "unknown operand type %q (order %d)", typ, order)
	}
}

func parseTypeTag(text string) (vm.Tag, bool) {
	switch text {
	case "int":
		return vm.Int, true
	case "float":
		return vm.Float, true
	case "string":
		return vm.String, true
	case "bool":
		return vm.Bool, true
	case "nil":
		return vm.Nil, true
	default:
		return 0, false
	}
}
