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

// Package termbank extracts dictionary entries from tokenized yomichan term
// banks.
//
// Entry layouts differ between term bank format versions so entries are not
// read by position. The term is the first string in an entry and its
// definitions are the elements of the first array in the entry.
package termbank

import (
	"errors"
	"fmt"

	"github.com/rnpnr/jdict/yomi"
)

var (
	// ErrMissingTerm indicates an entry with no string element.
	ErrMissingTerm = errors.New("entry has no term")

	// ErrMissingDefinitions indicates an entry with no array element.
	ErrMissingDefinitions = errors.New("entry has no definitions")
)

// EntryError is a problem with a single entry. An EntryError does not stop
// the rest of the term bank from being read.
type EntryError struct {
	// Offset is the byte offset of the entry in the term bank.
	Offset int

	// Err is ErrMissingTerm or ErrMissingDefinitions.
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry at offset %d: %v", e.Offset, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *EntryError at the same offset whose Err
// matches e.Err.
func (e *EntryError) Is(target error) bool {
	t, ok := target.(*EntryError)
	if !ok || t == nil {
		return false
	}
	return e.Offset == t.Offset && errors.Is(e.Err, t.Err)
}

// Storage owns the bytes of extracted entries.
type Storage interface {
	// Dup returns a copy of b that remains valid after b is modified.
	Dup(b []byte) (string, error)
}

// Heap is a Storage that copies to the Go heap.
type Heap struct{}

// Dup implements Storage.
func (Heap) Dup(b []byte) (string, error) {
	return string(b), nil
}

// Entry is a term and its definitions.
type Entry struct {
	Term        string
	Definitions []string
}

// Extract extracts the entry token at toks[i]. The term and each definition
// are copied into st.
//
// A missing term or definitions array is reported as an *EntryError.
func Extract(data []byte, toks []yomi.Token, i int, st Storage) (Entry, error) {
	entry := &toks[i]

	term, defs := -1, -1
	for j := i + 1; j < len(toks) && toks[j].Start < entry.End; j++ {
		if toks[j].Parent != i {
			continue
		}
		switch toks[j].Type {
		case yomi.TypeString:
			if term < 0 {
				term = j
			}
		case yomi.TypeArray:
			if defs < 0 {
				defs = j
			}
		}
		if term >= 0 && defs >= 0 {
			break
		}
	}
	if term < 0 {
		return Entry{}, &EntryError{Offset: entry.Start, Err: ErrMissingTerm}
	}
	if defs < 0 {
		return Entry{}, &EntryError{Offset: entry.Start, Err: ErrMissingDefinitions}
	}

	var e Entry
	var err error
	e.Term, err = st.Dup(toks[term].Bytes(data))
	if err != nil {
		return Entry{}, err
	}

	arr := &toks[defs]
	e.Definitions = make([]string, 0, arr.Len)
	for j := defs + 1; j < len(toks) && toks[j].Start < arr.End; j++ {
		if toks[j].Parent != defs {
			continue
		}
		def, err := st.Dup(toks[j].Bytes(data))
		if err != nil {
			return Entry{}, err
		}
		e.Definitions = append(e.Definitions, def)
	}
	return e, nil
}

// IsEntry reports whether toks[i] is a per-term entry. Only entries directly
// inside the root array are per-term entries. Arrays nested deeper inside
// definitions are data.
func IsEntry(toks []yomi.Token, i int) bool {
	t := &toks[i]
	if t.Type != yomi.TypeEntry || t.Parent == yomi.NoParent {
		return false
	}
	return toks[t.Parent].Parent == yomi.NoParent
}
