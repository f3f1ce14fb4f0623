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

// Kind classifies a failure into one of the exit codes of §6/§1.9. The zero
// value, KindNone, is never attached to a returned error.
type Kind int

// Exit-code classification, one Kind per exit code of §1.9. The declaration
// order is not the §1.10 precedence order.
const (
	KindNone Kind = iota
	KindCLIParameter
	KindInputOpen
	KindOutputWrite
	KindXMLNotWellFormed
	KindXMLStructure
	KindSemantic
	KindType
	KindUndefinedVariable
	KindFrame
	KindMissingValue
	KindOperandValue
	KindString
	KindInternal
)

// ExitCode returns the process exit code for k, per §1.9.
func (k Kind) ExitCode() int {
	switch k {
	case KindCLIParameter:
		return 10
	case KindInputOpen:
		return 11
	case KindOutputWrite:
		return 12
	case KindXMLNotWellFormed:
		return 31
	case KindXMLStructure:
		return 32
	case KindSemantic:
		return 52
	case KindType:
		return 53
	case KindUndefinedVariable:
		return 54
	case KindFrame:
		return 55
	case KindMissingValue:
		return 56
	case KindOperandValue:
		return 57
	case KindString:
		return 58
	case KindInternal:
		return 99
	default:
		return 99
	}
}

// Error is a classified failure. It wraps an underlying cause (often from
// errors.Wrap) with the Kind needed to pick an exit code at the CLI
// boundary, mirroring how ngaro's cmd/retro/main.go inspects a single
// returned error at exit, except here the classification is explicit
// rather than inferred from the error's dynamic type.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.cause.Error()
}

// Cause implements the interface github.com/pkg/errors.Cause walks, so
// errors.Cause(err) on a *Error returns the wrapped, non-classified error.
func (e *Error) Cause() error { return e.cause }

// String names the kind, for diagnostics and tests.
func (k Kind) String() string {
	switch k {
	case KindCLIParameter:
		return "cli-parameter"
	case KindInputOpen:
		return "input-open"
	case KindOutputWrite:
		return "output-write"
	case KindXMLNotWellFormed:
		return "xml-not-well-formed"
	case KindXMLStructure:
		return "xml-structure"
	case KindSemantic:
		return "semantic"
	case KindType:
		return "type"
	case KindUndefinedVariable:
		return "undefined-variable"
	case KindFrame:
		return "frame"
	case KindMissingValue:
		return "missing-value"
	case KindOperandValue:
		return "operand-value"
	case KindString:
		return "string"
	case KindInternal:
		return "internal"
	default:
		return "none"
	}
}

// Fail builds a classified *Error wrapping msg as the diagnostic line.
func Fail(kind Kind, msg string) error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Failf builds a classified *Error with a formatted diagnostic line.
func Failf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Wrap attaches kind to an existing error, preserving it as the cause so
// errors.Cause still reaches the original failure.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(err, msg)}
}

// KindOf extracts the Kind from err, returning KindInternal if err was not
// produced by this package's Fail/Failf/Wrap.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
