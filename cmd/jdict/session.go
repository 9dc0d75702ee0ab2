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
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rnpnr/jdict"
	"github.com/rnpnr/jdict/internal/config"
	"github.com/rnpnr/jdict/internal/metrics"
)

// ErrNoDicts indicates that none of the selected dictionaries could be built.
var ErrNoDicts = fmt.Errorf("%w: no dictionaries available", ErrJdict)

// session looks up terms in the selected dictionaries.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
	dicts   []config.DictionaryConfig
}

type loadedDict struct {
	conf config.DictionaryConfig
	dict *jdict.Dictionary
}

func newSession(cfg *config.Config, log *slog.Logger, dicts []config.DictionaryConfig) *session {
	return &session{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
		dicts:   dicts,
	}
}

// build builds the dictionary d. Failures are logged and reported as false.
func (s *session) build(d config.DictionaryConfig) (loadedDict, bool) {
	p, _ := locate(s.cfg, d)
	dict, err := jdict.Open(p, d.ID, &jdict.Options{
		Name:        d.Name,
		Logger:      s.log,
		Workers:     s.cfg.Workers,
		TableExp:    s.cfg.TableExp,
		ArenaSize:   s.cfg.ArenaSize(),
		TokenBudget: s.cfg.TokenBudget,
	})
	if err != nil {
		s.log.Error("skipping dictionary", "dict", d.ID, "path", p, "err", err)
		s.metrics.BuildFailed(d.ID)
		return loadedDict{}, false
	}

	st := dict.Stats()
	s.metrics.ObserveBuild(d.ID, st.Files, st.Terms, st.Skipped, st.Duration)
	s.log.Debug("arena usage",
		"dict", d.ID,
		"used", st.ArenaUsed,
		"low_water", st.ArenaLowWater,
		"tokens", st.Tokens,
	)
	return loadedDict{conf: d, dict: dict}, true
}

// lookup prints the definitions of terms. Dictionaries are built and searched
// one at a time.
func (s *session) lookup(w io.Writer, terms []string) error {
	p := newPrinter(w, s.cfg.Separator(), isTerminal(w))

	built := 0
	for _, d := range s.dicts {
		ld, ok := s.build(d)
		if !ok {
			continue
		}
		built++
		for _, term := range terms {
			if err := s.print(p, ld, term); err != nil {
				return err
			}
		}
	}
	if built == 0 {
		return ErrNoDicts
	}
	return nil
}

// repl builds every dictionary then prints the definitions of each line read
// from r until EOF. Output is always in readable mode.
func (s *session) repl(r io.Reader, w io.Writer) error {
	var dicts []loadedDict
	for _, d := range s.dicts {
		if ld, ok := s.build(d); ok {
			dicts = append(dicts, ld)
		}
	}
	if len(dicts) == 0 {
		return ErrNoDicts
	}

	p := newPrinter(w, "\n", isTerminal(w))
	sc := bufio.NewScanner(r)
	for {
		if err := p.Prompt(s.cfg.Prompt); err != nil {
			return err
		}
		if !sc.Scan() {
			break
		}
		term := strings.TrimSpace(sc.Text())
		if term == "" {
			continue
		}
		for _, ld := range dicts {
			if err := s.print(p, ld, term); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: reading input: %w", ErrJdict, err)
	}
	return p.Prompt("\n")
}

func (s *session) print(p *printer, ld loadedDict, term string) error {
	e, ok := ld.dict.Lookup(term)
	s.metrics.ObserveLookup(ld.conf.ID, ok)
	if !ok {
		return nil
	}
	return p.Print(ld.dict.Name(), ld.conf.HTML, e.Definitions())
}

// writeMetrics writes the metrics to path if it is not empty.
func (s *session) writeMetrics(path string) {
	if path == "" {
		return
	}
	if err := s.metrics.WriteFile(path); err != nil {
		s.log.Error("writing metrics", "path", path, "err", err)
	}
}
