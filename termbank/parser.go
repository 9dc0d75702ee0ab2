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

package termbank

import (
	"errors"
	"fmt"

	"github.com/rnpnr/jdict/yomi"
)

// ParserOptions are options for a Parser.
type ParserOptions struct {
	// TokenBudget is the initial number of tokens allocated. The budget is
	// doubled whenever a term bank needs more tokens.
	TokenBudget int
}

// DefaultParserOptions is the default options for a Parser.
var DefaultParserOptions = &ParserOptions{
	TokenBudget: 1 << 16,
}

// Bank is the result of parsing one term bank.
type Bank struct {
	// Entries are the extracted entries in the order they appear.
	Entries []Entry

	// Skipped are the entries that could not be extracted.
	Skipped []*EntryError

	// Tokens is the number of tokens in the term bank.
	Tokens int
}

// Parser parses term banks. Tokens live in a heap slice owned by the Parser
// and reused across calls to Parse, so it only grows to fit the largest term
// bank. Term bank bytes are never held by a Parser.
// A Parser is not safe for concurrent use.
type Parser struct {
	st   Storage
	toks []yomi.Token
}

// NewParser returns a Parser that copies entries into st.
func NewParser(st Storage, options *ParserOptions) *Parser {
	if options == nil {
		options = DefaultParserOptions
	}
	budget := options.TokenBudget
	if budget < 1 {
		budget = DefaultParserOptions.TokenBudget
	}
	return &Parser{
		st:   st,
		toks: make([]yomi.Token, budget),
	}
}

// Parse tokenizes data and extracts its entries. data is not retained after
// Parse returns.
//
// Errors from the scanner are returned as is and the term bank should be
// considered unusable. Entries that are missing a term or definitions are
// recorded in Bank.Skipped.
func (p *Parser) Parse(data []byte) (*Bank, error) {
	s, err := p.scan(data)
	if err != nil {
		return nil, err
	}
	toks := p.toks[:s.Len()]

	b := &Bank{Tokens: len(toks)}
	if len(toks) > 0 && toks[0].Len > 0 {
		b.Entries = make([]Entry, 0, toks[0].Len)
	}
	for i := range toks {
		if !IsEntry(toks, i) {
			continue
		}
		e, err := Extract(data, toks, i, p.st)
		if err != nil {
			var eerr *EntryError
			if errors.As(err, &eerr) {
				b.Skipped = append(b.Skipped, eerr)
				continue
			}
			return nil, err
		}
		b.Entries = append(b.Entries, e)
	}
	return b, nil
}

// scan tokenizes data into p.toks, growing it as needed.
func (p *Parser) scan(data []byte) (*yomi.Scanner, error) {
	s := yomi.NewScanner(data)
	// Every token starts at a distinct byte.
	limit := len(data) + 1
	for {
		n, err := s.Scan(p.toks)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, yomi.ErrNoMem) {
			//nolint:wrapcheck // scanner errors carry their own context
			return nil, err
		}
		if len(p.toks) >= limit {
			return nil, fmt.Errorf("%w: %d tokens", err, len(p.toks))
		}
		grown := make([]yomi.Token, min(2*len(p.toks), limit))
		copy(grown, p.toks[:n])
		p.toks = grown
	}
}
