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
	"fmt"
	"log/slog"
	"time"

	"github.com/rnpnr/jdict/internal/arena"
	"github.com/rnpnr/jdict/internal/bankfs"
	"github.com/rnpnr/jdict/internal/index"
)

// Options are options for building a Dictionary.
type Options struct {
	// Name is the display name of the dictionary. If empty the title in the
	// dictionary's index.json is used, then the dictionary ID.
	Name string

	// Logger receives build diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Workers is the number of term banks parsed at once. Values below 2
	// build on the calling goroutine. Each worker gets an equal share of
	// ArenaSize, so more workers may need a larger ArenaSize.
	Workers int

	// TableExp sets the term table size to 1<<TableExp slots. The table does
	// not grow so it must hold every unique term in the dictionary. Lookups
	// slow down once more than half of the slots are used.
	TableExp uint

	// ArenaSize is the number of bytes reserved for terms, definitions and
	// term bank scratch space. A parallel build splits it evenly between the
	// workers. Each share must hold the strings of that worker's term banks
	// plus its largest term bank, compressed and decompressed.
	ArenaSize int

	// TokenBudget is the initial number of tokens per term bank parser.
	TokenBudget int
}

// DefaultOptions is the default options for building a Dictionary.
var DefaultOptions = &Options{
	Workers:     1,
	TableExp:    20,
	ArenaSize:   512 << 20,
	TokenBudget: 1 << 16,
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// BuildStats describes a dictionary build.
type BuildStats struct {
	// Files is the number of term banks read.
	Files int

	// Entries is the number of entries read, including duplicates.
	Entries int

	// Skipped is the number of entries without a term or definitions.
	Skipped int

	// Terms is the number of unique terms.
	Terms int

	// Tokens is the number of tokens scanned.
	Tokens int

	// Workers is the number of goroutines that parsed term banks.
	Workers int

	// ArenaUsed is the number of arena bytes held by the dictionary.
	ArenaUsed int

	// ArenaLowWater is the least free space seen in any arena region while
	// building. A value near zero means ArenaSize should be raised.
	ArenaLowWater int

	Duration time.Duration
}

// Dictionary is a yomichan dictionary held in memory.
type Dictionary struct {
	id       string
	name     string
	revision string
	table    *index.Table[*Entry]
	arena    *arena.Arena
	stats    BuildStats
}

// Open builds the dictionary at path, which may be a directory or a .zip
// archive. id identifies the dictionary in log messages.
func Open(path, id string, options *Options) (*Dictionary, error) {
	fsys, c, err := bankfs.OpenRoot(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	d, err := Build(fsys, id, options)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", id, err)
	}
	return d, nil
}

// ID returns the dictionary identifier.
func (d *Dictionary) ID() string {
	return d.id
}

// Name returns the dictionary display name.
func (d *Dictionary) Name() string {
	return d.name
}

// Revision returns the revision from the dictionary's index.json, if any.
func (d *Dictionary) Revision() string {
	return d.revision
}

// Len returns the number of unique terms.
func (d *Dictionary) Len() int {
	return d.table.Len()
}

// Stats returns statistics about the dictionary build.
func (d *Dictionary) Stats() BuildStats {
	return d.stats
}

// Lookup returns the entry for term. Only exact matches are returned.
func (d *Dictionary) Lookup(term string) (*Entry, bool) {
	return d.table.Lookup(term)
}

// All calls fn for each entry in no particular order. Iteration stops when fn
// returns false.
func (d *Dictionary) All(fn func(*Entry) bool) {
	d.table.All(fn)
}
