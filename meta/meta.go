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

// Package meta implements reading yomichan index.json files.
//
// The index.json file holds metadata about a dictionary such as its title and
// revision. Only the title and format are needed to read a dictionary. Other
// keys can be read with Index.Value.
package meta

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/tidwall/gjson"
)

// FileName is the name of the metadata file in a dictionary root.
const FileName = "index.json"

var (
	// ErrInvalid indicates that index.json is not a valid JSON object.
	ErrInvalid = errors.New("invalid index.json")

	// ErrMissingTitle indicates an index.json without a title.
	ErrMissingTitle = errors.New("missing title")
)

// Index is the metadata for a dictionary.
type Index struct {
	raw []byte
}

// New reads an index.json from r.
func New(r io.Reader) (*Index, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	if !gjson.ValidBytes(b) || !gjson.ParseBytes(b).IsObject() {
		return nil, ErrInvalid
	}

	i := &Index{raw: b}
	if i.Title() == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, ErrMissingTitle)
	}
	return i, nil
}

// Read reads the index.json in the root of fsys.
func Read(fsys fs.FS) (*Index, error) {
	f, err := fsys.Open(FileName)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", FileName, err)
	}
	defer f.Close()
	return New(f)
}

// Title returns the dictionary title.
func (i *Index) Title() string {
	return i.Value("title")
}

// Revision returns the dictionary revision.
func (i *Index) Revision() string {
	return i.Value("revision")
}

// Format returns the term bank format version. Older dictionaries record it
// under the "version" key.
func (i *Index) Format() int {
	if r := gjson.GetBytes(i.raw, "format"); r.Exists() {
		return int(r.Int())
	}
	return int(gjson.GetBytes(i.raw, "version").Int())
}

// Value returns the value for the given key as a string. Missing keys return
// the empty string.
func (i *Index) Value(key string) string {
	return gjson.GetBytes(i.raw, gjson.Escape(key)).String()
}
