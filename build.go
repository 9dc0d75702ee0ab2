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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rnpnr/jdict/internal/arena"
	"github.com/rnpnr/jdict/internal/bankfs"
	"github.com/rnpnr/jdict/internal/index"
	"github.com/rnpnr/jdict/meta"
	"github.com/rnpnr/jdict/termbank"
	"github.com/rnpnr/jdict/yomi"
)

// maxLoad is the table occupancy above which lookups degrade.
const maxLoad = 0.5

// Build builds a Dictionary from the term banks in the root of fsys. id
// identifies the dictionary in log messages.
//
// Term banks are read in lexical order of their names. Definitions of a term
// found more than once are kept in the order they were read. Entries that
// have no term or no definitions are logged and skipped. Any other problem
// with a term bank stops the build.
func Build(fsys fs.FS, id string, options *Options) (*Dictionary, error) {
	if options == nil {
		options = DefaultOptions
	}
	start := time.Now()
	log := options.logger().With("component", "jdict", "dict", id)

	files, err := bankfs.TermBanks(fsys)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	table, err := index.New[*Entry](options.TableExp)
	if err != nil {
		return nil, err
	}

	b := &builder{
		fsys:   fsys,
		log:    log,
		table:  table,
		arena:  arena.New(options.ArenaSize),
		budget: options.TokenBudget,
	}

	workers := min(max(options.Workers, 1), len(files))
	if workers == 1 {
		err = b.serial(files)
	} else {
		err = b.parallel(files, workers)
	}
	if err != nil {
		return nil, err
	}

	name, revision := readMeta(fsys, log)
	if options.Name != "" {
		name = options.Name
	}
	if name == "" {
		name = id
	}

	d := &Dictionary{
		id:       id,
		name:     name,
		revision: revision,
		table:    table,
		arena:    b.arena,
		stats:    b.stats,
	}
	d.stats.Terms = table.Len()
	d.stats.Workers = workers
	d.stats.Duration = time.Since(start)

	if load := table.Load(); load > maxLoad {
		log.Warn("term table more than half full, lookups will be slow",
			"load", load,
			"terms", table.Len(),
			"capacity", table.Cap(),
		)
	}
	log.Info("built dictionary",
		"terms", d.stats.Terms,
		"files", d.stats.Files,
		"skipped", d.stats.Skipped,
		"workers", workers,
		"revision", revision,
		"duration", d.stats.Duration,
	)
	return d, nil
}

// readMeta returns the title and revision from the dictionary's index.json.
// Both are empty if the file is missing or unreadable.
func readMeta(fsys fs.FS, log *slog.Logger) (title, revision string) {
	idx, err := meta.Read(fsys)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("reading dictionary metadata", "err", err)
		}
		return "", ""
	}
	return idx.Title(), idx.Revision()
}

type builder struct {
	fsys   fs.FS
	log    *slog.Logger
	table  *index.Table[*Entry]
	arena  *arena.Arena
	budget int
	stats  BuildStats
}

func (b *builder) serial(files []string) error {
	p := termbank.NewParser(b.arena, &termbank.ParserOptions{TokenBudget: b.budget})
	for _, name := range files {
		bank, err := b.parse(name, b.arena, p)
		if err != nil {
			return err
		}
		if err := b.merge(name, bank); err != nil {
			return err
		}
	}
	b.stats.ArenaUsed = b.arena.Used()
	b.stats.ArenaLowWater = b.arena.LowWater()
	return nil
}

// parallel parses files on workers goroutines. Files are split into
// contiguous runs, one per worker, with the remainder going to the first
// workers. Each worker has its own region of the arena and writes only its
// own results. Results are merged into the table in file order once every
// worker is done.
func (b *builder) parallel(files []string, workers int) error {
	per := b.arena.Available() / workers
	results := make([]*termbank.Bank, len(files))

	subs := make([]*arena.Arena, workers)
	g, ctx := errgroup.WithContext(context.Background())
	lo := 0
	for w := range workers {
		n := len(files) / workers
		if w < len(files)%workers {
			n++
		}
		run := files[lo : lo+n]
		out := results[lo : lo+n]
		lo += n

		a, err := b.arena.Sub(per)
		if err != nil {
			return err
		}
		subs[w] = a
		g.Go(func() error {
			p := termbank.NewParser(a, &termbank.ParserOptions{TokenBudget: b.budget})
			for i, name := range run {
				// Another worker failed.
				if ctx.Err() != nil {
					return nil
				}
				bank, err := b.parse(name, a, p)
				if err != nil {
					return err
				}
				out[i] = bank
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck // errors are wrapped by parse
	}

	b.stats.ArenaLowWater = per
	for _, a := range subs {
		b.stats.ArenaUsed += a.Used()
		b.stats.ArenaLowWater = min(b.stats.ArenaLowWater, a.LowWater())
	}

	for i, bank := range results {
		if err := b.merge(files[i], bank); err != nil {
			return err
		}
	}
	return nil
}

// parse reads and parses one term bank. The file is read into the tail of a,
// which is rewound before parse returns.
func (b *builder) parse(name string, a *arena.Arena, p *termbank.Parser) (*termbank.Bank, error) {
	cp := a.Checkpoint()
	defer a.Rewind(cp)

	data, err := bankfs.Read(b.fsys, name, a)
	if err != nil {
		return nil, err
	}

	bank, err := p.Parse(data)
	if err != nil {
		if errors.Is(err, yomi.ErrMalformed) || errors.Is(err, yomi.ErrInvalid) || errors.Is(err, yomi.ErrNoMem) {
			return nil, &ParseError{Path: name, Err: err}
		}
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	b.log.Debug("parsed term bank",
		"file", name,
		"bytes", len(data),
		"tokens", bank.Tokens,
		"entries", len(bank.Entries),
		"skipped", len(bank.Skipped),
	)
	return bank, nil
}

// merge interns the entries of bank into the term table.
func (b *builder) merge(name string, bank *termbank.Bank) error {
	for _, skip := range bank.Skipped {
		b.log.Warn("skipping entry", "file", name, "offset", skip.Offset, "err", skip.Err)
	}

	collisions := b.table.Collisions()
	for _, e := range bank.Entries {
		slot, found, err := b.table.Intern(e.Term)
		if err != nil {
			return fmt.Errorf("adding %q from %s: %w", e.Term, name, err)
		}
		if c := b.table.Collisions(); c != collisions {
			b.log.Warn("hash collision", "file", name, "term", e.Term)
			collisions = c
		}

		if found {
			entry := b.table.Get(slot)
			entry.defs = append(entry.defs, e.Definitions...)
			continue
		}
		b.table.Set(slot, &Entry{term: e.Term, defs: e.Definitions})
	}

	b.stats.Files++
	b.stats.Entries += len(bank.Entries)
	b.stats.Skipped += len(bank.Skipped)
	b.stats.Tokens += bank.Tokens
	return nil
}
