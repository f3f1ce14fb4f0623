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
	"github.com/caarlos0/env/v6"
)

// Config holds the interpreter's tunable resource limits. None of these are
// part of the IFJcode23 language; they exist so a pathological or runaway
// program (an infinite JUMP loop, an unbounded PUSHS loop) fails with a
// clear internal error instead of exhausting host memory or spinning
// forever. All fields have defaults and are optional to set.
type Config struct {
	// StackCap is the initial capacity hint for the data stack.
	StackCap int `env:"IFJ23_STACK_CAP" envDefault:"64"`
	// CallStackCap is the initial capacity hint for the call stack.
	CallStackCap int `env:"IFJ23_CALLSTACK_CAP" envDefault:"64"`
	// MaxSteps bounds the number of instructions executed before the
	// interpreter gives up with an internal error. Zero disables the bound.
	MaxSteps int64 `env:"IFJ23_MAX_STEPS" envDefault:"0"`
}

// DefaultConfig returns a Config populated with the built-in defaults,
// without consulting the environment.
func DefaultConfig() Config {
	return Config{StackCap: 64, CallStackCap: 64, MaxSteps: 0}
}

// LoadConfig returns a Config with defaults overridden by any of the
// IFJ23_* environment variables that are set, the way ngaro's vm.Option
// functions override New's built-in stack-size defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, Wrap(KindInternal, err, "parsing environment configuration")
	}
	return cfg, nil
}
