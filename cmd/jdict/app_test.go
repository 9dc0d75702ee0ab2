// Copyright 2025 Ian Lewis
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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rnpnr/jdict/internal/testutil"
)

// writeConfig writes a config file with one dictionary, "test", holding 猫
// and 犬. Dictionaries in missing are configured without being created.
func writeConfig(t *testing.T, missing ...string) string {
	t.Helper()

	dir := testutil.MakeDictionary(t, "Test Dictionary", []testutil.Term{
		{Term: "猫", Definitions: []string{"cat"}},
		{Term: "犬", Definitions: []string{"dog"}},
	})

	var b strings.Builder
	fmt.Fprintf(&b, "data_dir: %q\nprompt: \"> \"\ndictionaries:\n", filepath.Dir(dir))
	fmt.Fprintf(&b, "  - id: test\n    name: Test\n    path: %q\n", dir)
	for _, id := range missing {
		fmt.Fprintf(&b, "  - id: %s\n", id)
	}

	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

type result struct {
	stdout string
	stderr string
	err    error
}

func runApp(stdin string, args ...string) result {
	var stdout, stderr bytes.Buffer
	app := newJdictApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"jdict"}, args...))
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestApp_Lookup(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t)
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "default separator",
			args:     []string{"猫"},
			expected: "Test\tcat\n",
		},
		{
			name:     "several terms",
			args:     []string{"犬", "none", "猫"},
			expected: "Test\tdog\nTest\tcat\n",
		},
		{
			name:     "field separator",
			args:     []string{"-F", `\n`, "猫"},
			expected: "Test\ncat\n\n",
		},
		{
			name:     "select dictionary",
			args:     []string{"-d", "test", "--jobs", "2", "犬"},
			expected: "Test\tdog\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := runApp("", append([]string{"-c", cfg}, test.args...)...)
			if got.err != nil {
				t.Fatalf("Run: %v\n%s", got.err, got.stderr)
			}
			if diff := cmp.Diff(test.expected, got.stdout); diff != "" {
				t.Errorf("stdout (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestApp_Errors(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "missing")
	tests := []struct {
		name string
		args []string
		err  error
	}{
		{
			name: "unknown dictionary",
			args: []string{"-d", "nope", "猫"},
			err:  ErrUnknownDict,
		},
		{
			name: "no terms",
			args: []string{},
			err:  ErrFlagParse,
		},
		{
			name: "empty field separator",
			args: []string{"-F", "", "猫"},
			err:  ErrFlagParse,
		},
		{
			name: "bad jobs",
			args: []string{"-j", "0", "猫"},
			err:  ErrFlagParse,
		},
		{
			name: "bad log level",
			args: []string{"--log-level", "loud", "猫"},
			err:  ErrFlagParse,
		},
		{
			name: "no dictionaries built",
			args: []string{"-d", "missing", "猫"},
			err:  ErrNoDicts,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := runApp("", append([]string{"-c", cfg}, test.args...)...)
			if diff := cmp.Diff(test.err, got.err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("Run (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestApp_SkipsBrokenDictionary(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "missing")
	got := runApp("", "-c", cfg, "猫")
	if got.err != nil {
		t.Fatalf("Run: %v", got.err)
	}
	if diff := cmp.Diff("Test\tcat\n", got.stdout); diff != "" {
		t.Errorf("stdout (-want, +got):\n%s", diff)
	}
	if !strings.Contains(got.stderr, "skipping dictionary") || !strings.Contains(got.stderr, "missing") {
		t.Errorf("stderr: missing build failure:\n%s", got.stderr)
	}
}

func TestApp_Interactive(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t)
	got := runApp("猫\n\n  犬  \nnone\n", "-c", cfg, "-i")
	if got.err != nil {
		t.Fatalf("Run: %v\n%s", got.err, got.stderr)
	}

	want := "> Test\ncat\n\n> > Test\ndog\n\n> > \n"
	if diff := cmp.Diff(want, got.stdout); diff != "" {
		t.Errorf("stdout (-want, +got):\n%s", diff)
	}
}

func TestApp_MetricsFile(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "missing")
	p := filepath.Join(t.TempDir(), "jdict.prom")
	got := runApp("", "-c", cfg, "--metrics-file", p, "猫", "none")
	if got.err != nil {
		t.Fatalf("Run: %v\n%s", got.err, got.stderr)
	}

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{
		`jdict_lookups_total{dict="test",result="hit"} 1`,
		`jdict_lookups_total{dict="test",result="miss"} 1`,
		`jdict_build_terms{dict="test"} 2`,
		`jdict_build_errors_total{dict="missing"} 1`,
	} {
		if !strings.Contains(string(b), line) {
			t.Errorf("metrics: missing %q in:\n%s", line, b)
		}
	}
}

func TestApp_List(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "missing")
	got := runApp("", "-c", cfg, "--list")
	if got.err != nil {
		t.Fatalf("Run: %v", got.err)
	}

	lines := strings.Split(strings.TrimSpace(got.stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("list: want 3 lines, got %d:\n%s", len(lines), got.stdout)
	}
	if f := strings.Fields(lines[1]); f[0] != "test" || f[len(f)-1] != "yes" {
		t.Errorf("list: unexpected row %q", lines[1])
	}
	if f := strings.Fields(lines[2]); f[0] != "missing" || f[len(f)-1] != "no" {
		t.Errorf("list: unexpected row %q", lines[2])
	}
}

func TestApp_Version(t *testing.T) {
	t.Parallel()

	got := runApp("", "--version")
	if got.err != nil {
		t.Fatalf("Run: %v", got.err)
	}
	if !strings.Contains(got.stdout, "Copyright (c) 2025 The jdict Authors") {
		t.Errorf("version: unexpected output %q", got.stdout)
	}
}
