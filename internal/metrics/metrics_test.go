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

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveBuild(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveBuild("daijirin", 3, 1200, 2, 150*time.Millisecond)
	m.ObserveBuild("daijirin", 3, 1300, 0, 100*time.Millisecond)

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{
			name:     "terms is the latest build",
			got:      testutil.ToFloat64(m.BuildTerms.WithLabelValues("daijirin")),
			expected: 1300,
		},
		{
			name:     "files accumulate",
			got:      testutil.ToFloat64(m.BuildFiles.WithLabelValues("daijirin")),
			expected: 6,
		},
		{
			name:     "skipped accumulate",
			got:      testutil.ToFloat64(m.SkippedEntries.WithLabelValues("daijirin")),
			expected: 2,
		},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.expected, test.got); diff != "" {
			t.Errorf("%s (-want, +got):\n%s", test.name, diff)
		}
	}

	if diff := cmp.Diff(1, testutil.CollectAndCount(m.BuildDuration)); diff != "" {
		t.Errorf("BuildDuration series (-want, +got):\n%s", diff)
	}
}

func TestMetrics_Lookups(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveLookup("koujien", true)
	m.ObserveLookup("koujien", false)
	m.ObserveLookup("koujien", false)
	m.BuildFailed("daijisen")

	if diff := cmp.Diff(1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("koujien", "hit"))); diff != "" {
		t.Errorf("hits (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(2.0, testutil.ToFloat64(m.Lookups.WithLabelValues("koujien", "miss"))); diff != "" {
		t.Errorf("misses (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(1.0, testutil.ToFloat64(m.BuildErrors.WithLabelValues("daijisen"))); diff != "" {
		t.Errorf("build errors (-want, +got):\n%s", diff)
	}
}

func TestMetrics_WriteFile(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveLookup("daijisen", true)

	path := filepath.Join(t.TempDir(), "jdict.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `jdict_lookups_total{dict="daijisen",result="hit"} 1`
	if !strings.Contains(string(b), want) {
		t.Errorf("WriteFile: %q not found in:\n%s", want, b)
	}
}
