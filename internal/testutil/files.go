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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/rnpnr/jdict/internal/bankfs"
)

// WriteFile writes data to dir/name encoded with c and returns the path of
// the written file. The extension for c is added to name.
func WriteFile(t *testing.T, dir, name string, data []byte, c bankfs.Compression) string {
	t.Helper()

	p := filepath.Join(dir, name+c.Ext())
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var w io.WriteCloser
	switch c {
	case bankfs.Gzip:
		w = gzip.NewWriter(f)
	case bankfs.DictZip:
		z, err := dictzip.NewWriter(f)
		if err != nil {
			t.Fatal(err)
		}
		w = z
	default:
		w = f
	}

	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

// MakeDictionary writes one plain term bank per element of banks into a new
// temporary directory and returns the directory. An index.json with the given
// title is written if title is not empty.
func MakeDictionary(t *testing.T, title string, banks ...[]Term) string {
	t.Helper()

	dir := t.TempDir()
	for i, terms := range banks {
		WriteFile(t, dir, bankName(i), MakeTermBank(terms), bankfs.None)
	}
	if title != "" {
		p := filepath.Join(dir, "index.json")
		if err := os.WriteFile(p, MakeIndexJSON(title, "1"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// MakeZip writes files into a new .zip archive at p.
func MakeZip(t *testing.T, p string, files map[string][]byte) {
	t.Helper()

	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(files[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func bankName(i int) string {
	return fmt.Sprintf("term_bank_%d", i+1)
}
