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

// Package vm implements the IFJcode23 abstract machine: its value model,
// three-level frame store, data and call stacks, and the opcode dispatch
// loop that executes an already-decoded instruction list.
//
// An Instance is built with New and a set of Options, the same functional
// option pattern used throughout this repository's construction code: at
// minimum WithProgram supplies the instruction list and its resolved label
// table, and WithInput/WithOutput/WithErrOutput wire the I/O collaborators
// consumed by READ, WRITE, DPRINT and BREAK. Decoding a program from its
// wire format and validating its static structure (labels, operand arity)
// happens one layer up, in package xmlprog; this package only executes
// already-validated instructions.
//
// Run drives the fetch-decode-execute loop until EXIT, the end of the
// instruction list, or an error. Every opcode either completes all of its
// state changes and writes or none of them before returning an error, so a
// failed Run never leaves partial output from the instruction that failed.
// Errors are classified by Kind, which callers can inspect with KindOf to
// pick the process exit code the boundary should use.
package vm
