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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/turytsia/vut-ipp-xml-interpreter/vm"
	"github.com/turytsia/vut-ipp-xml-interpreter/xmlprog"
)

const usage = `ifjinterp - IFJcode23 interpreter

Usage:
  ifjinterp [--source=FILE] [--input=FILE]
  ifjinterp --help

At least one of --source/--input must name a file; the one left unset
defaults to reading from standard input. Reading both from the same
standard input stream is not supported.

Flags:
  -h, --help             show this message and exit
  -s, --source=FILE      read the program XML from FILE
  -i, --input=FILE       read interpreted-program input from FILE

Environment:
  IFJ23_STACK_CAP        initial data stack capacity hint (default 64)
  IFJ23_CALLSTACK_CAP    initial call stack capacity hint (default 64)
  IFJ23_MAX_STEPS        abort after this many executed instructions (default 0, unbounded)
`

// run parses args and executes the interpreter, returning the process exit
// code to use and, on failure, the error whose single diagnostic line main
// writes to stderr before exiting. run never calls os.Exit itself, so it can
// be driven directly from tests.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (exitCode int, err error) {
	fs := flag.NewFlagSet("ifjinterp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var help bool
	var source, input string
	fs.BoolVar(&help, "help", false, "")
	fs.BoolVar(&help, "h", false, "")
	fs.StringVar(&source, "source", "", "")
	fs.StringVar(&source, "s", "", "")
	fs.StringVar(&input, "input", "", "")
	fs.StringVar(&input, "i", "", "")

	fail := func(err error) (int, error) { return vm.KindOf(err).ExitCode(), err }

	if err := fs.Parse(args); err != nil {
		return fail(vm.Wrap(vm.KindCLIParameter, err, "parsing command-line flags"))
	}
	if fs.NArg() > 0 {
		return fail(vm.Failf(vm.KindCLIParameter, "unexpected argument %q", fs.Arg(0)))
	}
	if help {
		if fs.NFlag() > 1 {
			return fail(vm.Fail(vm.KindCLIParameter, "--help must not be combined with other flags"))
		}
		fmt.Fprint(stdout, usage)
		return 0, nil
	}
	if source == "" && input == "" {
		return fail(vm.Fail(vm.KindCLIParameter, "at least one of --source or --input must name a file"))
	}

	var progReader io.Reader = stdin
	if source != "" {
		f, err := os.Open(source)
		if err != nil {
			return fail(vm.Wrap(vm.KindInputOpen, err, "opening source file"))
		}
		defer f.Close()
		progReader = f
	}

	var lineReader vm.LineReader
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fail(vm.Wrap(vm.KindInputOpen, err, "opening input file"))
		}
		defer f.Close()
		lineReader = vm.NewLineReader(f)
	} else {
		lineReader = vm.NewLineReader(stdin)
	}

	program, labels, err := xmlprog.Load(progReader)
	if err != nil {
		return fail(err)
	}

	cfg, err := vm.LoadConfig()
	if err != nil {
		return fail(err)
	}

	out := bufio.NewWriter(stdout)

	inst, err := vm.New(
		vm.WithProgram(program, labels),
		vm.WithConfig(cfg),
		vm.WithInput(lineReader),
		vm.WithOutput(out),
		vm.WithErrOutput(stderr),
	)
	if err != nil {
		return fail(err)
	}

	if err := inst.Run(); err != nil {
		return fail(err)
	}
	if err := out.Flush(); err != nil {
		return fail(vm.Wrap(vm.KindOutputWrite, err, "flushing stdout"))
	}
	return inst.ExitCode, nil
}

func main() {
	code, err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(code)
}
