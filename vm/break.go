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

import (
	"fmt"
	"io"
)

// dumpFrame writes one line per declared variable in f, prefixed by label,
// in the deterministic order Frame.Names already sorts them into.
func dumpFrame(w io.Writer, label string, f *Frame) error {
	if _, err := fmt.Fprintf(w, "%s: %d variable(s)\n", label, f.Count()); err != nil {
		return err
	}
	for _, name := range f.Names() {
		v, _ := f.Lookup(name)
		if _, err := fmt.Fprintf(w, "  %s = %s (%s)\n", name, v.Value.Canonical(), v.Value.Tag); err != nil {
			return err
		}
	}
	return nil
}

// dumpState implements the BREAK opcode's diagnostic dump: the current
// instruction's order and position, the executed-instruction count, the
// three frame levels, and both stack depths, written
// to w one field at a time the way DumpVM writes its three slices
// independently, so a write failure part-way through is reported without
// masking how much was already flushed.
func (i *Instance) dumpState(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "--- BREAK at order %d (pc=%d, %d instruction(s) executed) ---\n", i.program[i.pc].Order, i.pc, i.steps); err != nil {
		return err
	}

	if err := dumpFrame(w, "GF", i.frames.Global()); err != nil {
		return err
	}
	if tmp := i.frames.Temporary(); tmp != nil {
		if err := dumpFrame(w, "TF", tmp); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(w, "TF: not defined"); err != nil {
		return err
	}
	locals := i.frames.Locals()
	if _, err := fmt.Fprintf(w, "LF stack depth: %d\n", len(locals)); err != nil {
		return err
	}
	for depth := len(locals) - 1; depth >= 0; depth-- {
		label := fmt.Sprintf("LF[%d]", depth)
		if err := dumpFrame(w, label, locals[depth]); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "data stack depth: %d\n", i.data.Len()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "call stack depth: %d\n", i.calls.Len()); err != nil {
		return err
	}
	return nil
}
