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

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Term is a term bank entry.
type Term struct {
	Term        string
	Definitions []string
}

// MakeTermBank makes a version 3 term bank given a list of terms.
func MakeTermBank(terms []Term) []byte {
	var b bytes.Buffer
	b.WriteString("[")
	for i, t := range terms {
		if i > 0 {
			b.WriteString(",\n")
		}
		defs := t.Definitions
		if defs == nil {
			defs = []string{}
		}
		// term, reading, definition tags, rules, score, definitions,
		// sequence, term tags
		row := []any{t.Term, "", "", "", 0, defs, i + 1, ""}
		enc, err := json.Marshal(row)
		if err != nil {
			panic(fmt.Sprintf("encoding term %q: %v", t.Term, err))
		}
		b.Write(enc)
	}
	b.WriteString("]")
	return b.Bytes()
}

// MakeTerms returns n distinct terms with one definition each.
func MakeTerms(prefix string, n int) []Term {
	terms := make([]Term, n)
	for i := range terms {
		terms[i] = Term{
			Term:        fmt.Sprintf("%s%d", prefix, i),
			Definitions: []string{fmt.Sprintf("definition of %s%d", prefix, i)},
		}
	}
	return terms
}

// MakeIndexJSON makes a dictionary index.json.
func MakeIndexJSON(title, revision string) []byte {
	enc, err := json.Marshal(map[string]any{
		"title":       title,
		"revision":    revision,
		"format":      3,
		"sequenced":   true,
		"author":      "jdict tests",
		"description": "synthetic dictionary",
	})
	if err != nil {
		panic(err)
	}
	return enc
}
