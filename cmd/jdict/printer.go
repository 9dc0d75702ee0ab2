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
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/k3a/html2text"
	"github.com/mattn/go-isatty"

	"github.com/rnpnr/jdict/internal/folding"
)

// printer writes definitions to a buffered writer.
//
// When the separator is a newline the printer is in readable mode:
// definitions are unescaped and the dictionary name is printed once above
// them. Otherwise each definition is printed on one line prefixed by the
// dictionary name.
type printer struct {
	w        *bufio.Writer
	sep      string
	readable bool
	color    bool
	header   lipgloss.Style
}

func newPrinter(w io.Writer, sep string, color bool) *printer {
	return &printer{
		w:        bufio.NewWriter(w),
		sep:      sep,
		readable: sep == "\n",
		color:    color,
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Print prints the definitions of a term found in the dictionary name.
// Definitions that are empty after trimming are skipped. HTML definitions are
// rendered as text.
func (p *printer) Print(name string, html bool, defs []string) error {
	printed := false
	for _, def := range defs {
		text := p.format(def, html)
		if text == "" {
			continue
		}

		switch {
		case !p.readable:
			_, _ = p.w.WriteString(name)
		case !printed:
			_, _ = p.w.WriteString(p.title(name))
			printed = true
		}
		_, _ = p.w.WriteString(p.sep)
		_, _ = p.w.WriteString(text)
		_ = p.w.WriteByte('\n')
	}
	if p.readable && printed {
		_ = p.w.WriteByte('\n')
	}
	return p.flush()
}

// Prompt prints s without a trailing newline.
func (p *printer) Prompt(s string) error {
	_, _ = p.w.WriteString(s)
	return p.flush()
}

func (p *printer) format(def string, html bool) string {
	text := def
	if p.readable || html {
		text = folding.Unescape(text)
	}
	if html {
		text = html2text.HTML2Text(text)
	}
	if !p.readable {
		// Output fields are one per line.
		text = folding.FoldSpace(text)
	}
	return strings.TrimSpace(text)
}

func (p *printer) title(name string) string {
	if !p.color {
		return name
	}
	return p.header.Render(name)
}

func (p *printer) flush() error {
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("%w: writing output: %w", ErrJdict, err)
	}
	return nil
}
