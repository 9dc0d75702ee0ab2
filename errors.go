// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jdict

import (
	"errors"
	"fmt"

	"github.com/rnpnr/jdict/internal/arena"
	"github.com/rnpnr/jdict/internal/index"
)

var (
	// ErrNoFiles indicates a dictionary without any term banks.
	ErrNoFiles = errors.New("no term banks found")

	// ErrIndexFull indicates that the dictionary has more unique terms than
	// the term table can hold. Use a larger Options.TableExp.
	ErrIndexFull = index.ErrFull

	// ErrOutOfMemory indicates that the dictionary does not fit in the
	// arena. Use a larger Options.ArenaSize.
	ErrOutOfMemory = arena.ErrOutOfMemory
)

// ParseError is a term bank that could not be parsed. It wraps
// yomi.ErrMalformed or yomi.ErrInvalid.
type ParseError struct {
	// Path is the name of the term bank in the dictionary.
	Path string

	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
