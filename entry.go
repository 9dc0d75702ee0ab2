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

import "strings"

// Entry is a dictionary entry.
type Entry struct {
	term string
	defs []string
}

// Term returns the entry's term.
func (e *Entry) Term() string {
	return e.term
}

// Key implements the term table's key interface.
func (e *Entry) Key() string {
	return e.term
}

// Definitions returns the entry's definitions in the order they were read.
// Definitions are raw term bank strings and may contain JSON escapes. The
// returned slice must not be modified.
func (e *Entry) Definitions() []string {
	return e.defs
}

// String returns a string representation of the Entry.
func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString(e.term)
	b.WriteByte('\n')
	for _, d := range e.defs {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	return b.String()
}
