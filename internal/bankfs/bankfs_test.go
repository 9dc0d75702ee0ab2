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

package bankfs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/klauspost/compress/gzip"

	"github.com/rnpnr/jdict/internal/arena"
	"github.com/rnpnr/jdict/internal/bankfs"
	"github.com/rnpnr/jdict/internal/testutil"
)

func TestTermBanks(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"index.json":            {Data: []byte("{}")},
		"tag_bank_1.json":       {Data: []byte("[]")},
		"term_bank_2.json":      {Data: []byte("[]")},
		"term_bank_1.json":      {Data: []byte("[]")},
		"term_bank_3.json.gz":   {Data: []byte("[]")},
		"term_bank_4.json.dz":   {Data: []byte("[]")},
		"term_meta_bank_1.json": {Data: []byte("[]")},
		"term_bank_5.txt":       {Data: []byte("[]")},
		"terms/term_bank_9.json": {
			Data: []byte("[]"),
		},
	}

	got, err := bankfs.TermBanks(fsys)
	if err != nil {
		t.Fatalf("TermBanks: %v", err)
	}
	want := []string{
		"term_bank_1.json",
		"term_bank_2.json",
		"term_bank_3.json.gz",
		"term_bank_4.json.dz",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TermBanks (-want, +got):\n%s", diff)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"kanji_bank_1.json": {Data: []byte("[]")},
		"term_bank_1.json":  {Data: []byte("[]")},
	}
	got, err := bankfs.List(fsys, "kanji")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"kanji_bank_1.json"}, got); diff != "" {
		t.Errorf("List (-want, +got):\n%s", diff)
	}

	got, err = bankfs.List(fsys, "nothing")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string(nil), got); diff != "" {
		t.Errorf("List (-want, +got):\n%s", diff)
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	data := testutil.MakeTermBank([]testutil.Term{
		{Term: "猫", Definitions: []string{"cat"}},
		{Term: "犬", Definitions: []string{"dog"}},
	})

	tests := []struct {
		name string
		c    bankfs.Compression
	}{
		{name: "plain", c: bankfs.None},
		{name: "gzip", c: bankfs.Gzip},
		{name: "dictzip", c: bankfs.DictZip},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			p := testutil.WriteFile(t, dir, "term_bank_1", data, test.c)

			a := arena.New(1 << 20)
			cp := a.Checkpoint()
			got, err := bankfs.Read(os.DirFS(dir), filepath.Base(p), a)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if diff := cmp.Diff(string(data), string(got)); diff != "" {
				t.Errorf("Read (-want, +got):\n%s", diff)
			}

			// Everything is read into the tail.
			if diff := cmp.Diff(0, a.Used()); diff != "" {
				t.Errorf("Used (-want, +got):\n%s", diff)
			}
			a.Rewind(cp)
			if diff := cmp.Diff(a.Size(), a.Available()); diff != "" {
				t.Errorf("Available after Rewind (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"term_bank_1.json":    {Data: []byte("[]")},
		"term_bank_2.json.gz": {Data: []byte("not gzip at all, really")},
		"term_bank_3.json.gz": {Data: []byte("short")},
		"term_bank_4.txt":     {Data: []byte("[]")},
	}

	tests := []struct {
		name  string
		file  string
		arena int
		err   error
	}{
		{
			name:  "missing",
			file:  "term_bank_9.json",
			arena: 64,
			err:   os.ErrNotExist,
		},
		{
			name:  "arena too small",
			file:  "term_bank_1.json",
			arena: 1,
			err:   arena.ErrOutOfMemory,
		},
		{
			name:  "bad gzip",
			file:  "term_bank_2.json.gz",
			arena: 1 << 30,
			err:   bankfs.ErrCorrupt,
		},
		{
			name:  "short gzip",
			file:  "term_bank_3.json.gz",
			arena: 64,
			err:   bankfs.ErrCorrupt,
		},
		{
			name:  "unsupported",
			file:  "term_bank_4.txt",
			arena: 64,
			err:   bankfs.ErrUnsupported,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := bankfs.Read(fsys, test.file, arena.New(test.arena))
			if diff := cmp.Diff(test.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("Read (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestOpenRoot(t *testing.T) {
	t.Parallel()

	bank := testutil.MakeTermBank(testutil.MakeTerms("t", 3))

	t.Run("dir", func(t *testing.T) {
		t.Parallel()

		dir := testutil.MakeDictionary(t, "Test", testutil.MakeTerms("t", 3))
		fsys, c, err := bankfs.OpenRoot(dir)
		if err != nil {
			t.Fatalf("OpenRoot: %v", err)
		}
		defer c.Close()

		got, err := bankfs.TermBanks(fsys)
		if err != nil {
			t.Fatalf("TermBanks: %v", err)
		}
		if diff := cmp.Diff([]string{"term_bank_1.json"}, got); diff != "" {
			t.Errorf("TermBanks (-want, +got):\n%s", diff)
		}
	})

	t.Run("zip", func(t *testing.T) {
		t.Parallel()

		p := filepath.Join(t.TempDir(), "dict.zip")
		testutil.MakeZip(t, p, map[string][]byte{
			"index.json":       testutil.MakeIndexJSON("Zipped", "1"),
			"term_bank_1.json": bank,
		})

		fsys, c, err := bankfs.OpenRoot(p)
		if err != nil {
			t.Fatalf("OpenRoot: %v", err)
		}
		defer c.Close()

		names, err := bankfs.TermBanks(fsys)
		if err != nil {
			t.Fatalf("TermBanks: %v", err)
		}
		if diff := cmp.Diff([]string{"term_bank_1.json"}, names); diff != "" {
			t.Fatalf("TermBanks (-want, +got):\n%s", diff)
		}

		got, err := bankfs.Read(fsys, names[0], arena.New(1<<16))
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if diff := cmp.Diff(string(bank), string(got)); diff != "" {
			t.Errorf("Read (-want, +got):\n%s", diff)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, _, err := bankfs.OpenRoot(filepath.Join(t.TempDir(), "nope"))
		if diff := cmp.Diff(os.ErrNotExist, err, cmpopts.EquateErrors()); diff != "" {
			t.Errorf("OpenRoot (-want, +got):\n%s", diff)
		}
	})
}

// gzipMembers compresses each part as its own gzip member and concatenates
// the results.
func gzipMembers(t *testing.T, parts ...string) []byte {
	t.Helper()

	var b bytes.Buffer
	for _, p := range parts {
		w := gzip.NewWriter(&b)
		if _, err := w.Write([]byte(p)); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
	}
	return b.Bytes()
}

func TestRead_MultiMember(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "short last member",
			parts: []string{`[["a",["1"]],`, `["b",["2"]]]`},
		},
		{
			name:  "empty last member",
			parts: []string{`[["a",["1"]]]`, ""},
		},
		{
			name:  "many members",
			parts: []string{strings.Repeat(`[["猫",["cat"]],`, 1000), `["犬",["dog"]]`, "]"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			fsys := fstest.MapFS{
				"term_bank_1.json.gz": {Data: gzipMembers(t, test.parts...)},
			}
			a := arena.New(1 << 20)
			got, err := bankfs.Read(fsys, "term_bank_1.json.gz", a)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if diff := cmp.Diff(strings.Join(test.parts, ""), string(got)); diff != "" {
				t.Errorf("Read (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(0, a.Used()); diff != "" {
				t.Errorf("Used (-want, +got):\n%s", diff)
			}
		})
	}
}
