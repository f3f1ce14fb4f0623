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
	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"
)

// frameInitCap is the initial capacity hint for a Frame's underlying Swiss
// table. Frames are typically small (a handful of DEFVARs); a modest hint
// avoids over-allocating for the common case while still avoiding the
// rehash-on-every-insert pattern a zero-capacity map would hit.
const frameInitCap = 8

// Frame is an identifier->Variable map with unique keys, backed by a Swiss
// table the way nenuphar's lang/machine.Map backs its map value with
// swiss.Map[Value, Value].
type Frame struct {
	vars *swiss.Map[string, *Variable]
}

// NewFrame returns an empty Frame.
func NewFrame() *Frame {
	return &Frame{vars: swiss.NewMap[string, *Variable](frameInitCap)}
}

// Declare binds name to a fresh undef Variable. Redeclaring an existing name
// is a semantic error.
func (f *Frame) Declare(name string) error {
	if _, ok := f.vars.Get(name); ok {
		return Failf(KindSemantic, "variable %q already declared in this frame", name)
	}
	f.vars.Put(name, &Variable{Name: name, Value: NewUndef()})
	return nil
}

// Lookup returns the Variable bound to name, or !ok if none exists.
func (f *Frame) Lookup(name string) (*Variable, bool) {
	return f.vars.Get(name)
}

// Names returns the frame's variable names in a deterministic (sorted)
// order, for BREAK dumps.
func (f *Frame) Names() []string {
	names := make([]string, 0, f.vars.Count())
	f.vars.Iter(func(k string, _ *Variable) bool {
		names = append(names, k)
		return false
	})
	slices.Sort(names)
	return names
}

// Count returns the number of declared variables in the frame.
func (f *Frame) Count() int { return f.vars.Count() }

// FrameStore holds the three-level frame model: the global frame, an
// optional temporary frame, and the local-frame stack. It never creates a
// frame implicitly; every lifecycle change is driven by an opcode.
type FrameStore struct {
	global *Frame
	tmp    *Frame // nil when absent
	locals []*Frame
}

// NewFrameStore returns a FrameStore with a fresh, empty global frame and no
// temporary or local frames.
func NewFrameStore() *FrameStore {
	return &FrameStore{global: NewFrame()}
}

// CreateFrame implements CREATEFRAME: always succeeds, discarding any
// existing temporary frame.
func (fs *FrameStore) CreateFrame() {
	fs.tmp = NewFrame()
}

// PushFrame implements PUSHFRAME: moves the temporary frame onto the local
// stack and clears the slot. An absent temporary frame is a frame error.
func (fs *FrameStore) PushFrame() error {
	if fs.tmp == nil {
		return Fail(KindFrame, "PUSHFRAME: no temporary frame")
	}
	fs.locals = append(fs.locals, fs.tmp)
	fs.tmp = nil
	return nil
}

// PopFrame implements POPFRAME: moves the top local frame into the
// temporary slot. An empty local stack is a frame error.
func (fs *FrameStore) PopFrame() error {
	n := len(fs.locals)
	if n == 0 {
		return Fail(KindFrame, "POPFRAME: local frame stack is empty")
	}
	fs.tmp = fs.locals[n-1]
	fs.locals = fs.locals[:n-1]
	return nil
}

// frameFor resolves the Frame addressed by scope, without creating one.
func (fs *FrameStore) frameFor(scope Scope) (*Frame, error) {
	switch scope {
	case ScopeGlobal:
		return fs.global, nil
	case ScopeTemporary:
		if fs.tmp == nil {
			return nil, Fail(KindFrame, "no temporary frame")
		}
		return fs.tmp, nil
	case ScopeLocal:
		if len(fs.locals) == 0 {
			return nil, Fail(KindFrame, "local frame stack is empty")
		}
		return fs.locals[len(fs.locals)-1], nil
	default:
		return nil, Failf(KindInternal, "unknown scope %v", scope)
	}
}

// Declare implements declare(var): binds ref in the frame selected by its
// scope.
func (fs *FrameStore) Declare(ref VarRef) error {
	f, err := fs.frameFor(ref.Scope)
	if err != nil {
		return err
	}
	return f.Declare(ref.Name)
}

// Resolve implements resolve(var): looks up ref's Variable. A missing frame
// is a frame error; a missing name in an existing frame is an
// undefined-variable error.
func (fs *FrameStore) Resolve(ref VarRef) (*Variable, error) {
	f, err := fs.frameFor(ref.Scope)
	if err != nil {
		return nil, err
	}
	v, ok := f.Lookup(ref.Name)
	if !ok {
		return nil, Failf(KindUndefinedVariable, "undefined variable %s@%s", ref.Scope, ref.Name)
	}
	return v, nil
}

// LocalDepth returns the current depth of the local frame stack, for BREAK.
func (fs *FrameStore) LocalDepth() int { return len(fs.locals) }

// HasTemporary reports whether a temporary frame currently exists, for
// BREAK.
func (fs *FrameStore) HasTemporary() bool { return fs.tmp != nil }

// Global returns the global frame, for BREAK.
func (fs *FrameStore) Global() *Frame { return fs.global }

// Temporary returns the temporary frame, or nil if absent, for BREAK.
func (fs *FrameStore) Temporary() *Frame { return fs.tmp }

// Locals returns the local frame stack, top (most recently pushed) last, for
// BREAK.
func (fs *FrameStore) Locals() []*Frame { return fs.locals }
