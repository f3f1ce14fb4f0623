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
	"io"

	"github.com/pkg/errors"
)

// latchedWriter wraps one of the interpreter's two output streams (stdout
// for WRITE, stderr for DPRINT/BREAK) so that once a write to it fails,
// every later write in the same run short-circuits with that same error
// instead of hammering an already-broken stream. name identifies which
// stream this is in the wrapped error, so a failure on stdout reported
// through a later BREAK dump (which writes to stderr) is distinguishable
// from a failure on stderr itself.
type latchedWriter struct {
	name string
	w    io.Writer
	err  error
}

func newLatchedWriter(name string, w io.Writer) *latchedWriter {
	return &latchedWriter{name: name, w: w}
}

func (lw *latchedWriter) Write(p []byte) (int, error) {
	if lw.err != nil {
		return 0, lw.err
	}
	n, err := lw.w.Write(p)
	if err != nil {
		lw.err = errors.Wrapf(err, "write to %s failed", lw.name)
	}
	return n, lw.err
}

// LineReader is the input collaborator contract: it yields one line at a
// time on demand for READ. It is the only resource consumed lazily during
// execution; everything else about the program and its instructions is
// fixed before Run starts.
type LineReader interface {
	// ReadLine returns the next input line (without its trailing newline)
	// and true, or "" and false once the input is exhausted.
	ReadLine() (string, bool)
}

// Option configures an Instance at construction time, the same pattern
// ngaro's vm.New uses for DataSize/AddressSize/Input/Output.
type Option func(*Instance) error

// WithProgram supplies the ordered instruction list and its pre-built label
// table. Without it the Instance has no instructions and Run returns nil
// without executing anything.
func WithProgram(instrs []Instruction, labels LabelTable) Option {
	return func(i *Instance) error {
		i.program = instrs
		i.labels = labels
		return nil
	}
}

// WithConfig overrides the default resource-limit Config.
func WithConfig(cfg Config) Option {
	return func(i *Instance) error {
		i.cfg = cfg
		return nil
	}
}

// WithInput sets the line source consumed by READ.
func WithInput(r LineReader) Option {
	return func(i *Instance) error {
		i.input = r
		return nil
	}
}

// WithOutput sets the writer WRITE writes to (normally os.Stdout). It is
// wrapped in a latchedWriter so that once a write fails, later writes in
// the same run do not silently retry against a broken stream.
func WithOutput(w io.Writer) Option {
	return func(i *Instance) error {
		i.stdout = newLatchedWriter("stdout", w)
		return nil
	}
}

// WithErrOutput sets the writer DPRINT and BREAK write to (normally
// os.Stderr), with the same latch-on-first-error behavior as WithOutput.
func WithErrOutput(w io.Writer) Option {
	return func(i *Instance) error {
		i.stderr = newLatchedWriter("stderr", w)
		return nil
	}
}

// Instance is one IFJcode23 abstract machine: program counter, frame store,
// data stack, call stack, and the I/O collaborators. All state is owned by
// the Instance; nothing here is a package-level global, so multiple
// Instances can run independently in the same process.
type Instance struct {
	pc      int
	program []Instruction
	labels  LabelTable

	frames *FrameStore
	data   *DataStack
	calls  *CallStack

	input  LineReader
	stdout io.Writer
	stderr io.Writer

	cfg   Config
	steps int64

	// ExitCode is set by EXIT and read by the CLI boundary after Run
	// returns with a nil error.
	ExitCode int
	exited   bool
}

// New creates a new Instance. Options are applied in order; WithProgram
// must be among them for Run to have anything to execute.
func New(opts ...Option) (*Instance, error) {
	i := &Instance{
		frames: NewFrameStore(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	i.data = NewDataStack(i.cfg.StackCap)
	i.calls = NewCallStack(i.cfg.CallStackCap)
	return i, nil
}

// PC returns the current program counter, for tests and BREAK.
func (i *Instance) PC() int { return i.pc }

// Frames exposes the frame store, for tests and BREAK.
func (i *Instance) Frames() *FrameStore { return i.frames }

// Data exposes the data stack, for tests and BREAK.
func (i *Instance) Data() *DataStack { return i.data }

// Calls exposes the call stack, for tests and BREAK.
func (i *Instance) Calls() *CallStack { return i.calls }

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 { return i.steps }
