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

// Package folding implements text transformations applied to definitions
// before they are printed.
package folding

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// escapes maps the byte following a backslash to its replacement.
var escapes = [256]byte{
	'n':  '\n',
	't':  '\t',
	'"':  '"',
	'\\': '\\',
	'/':  '/',
}

// Unescaper replaces the JSON escapes \n, \t, \", \\ and \/ with the
// characters they stand for. Other escapes are left as is.
type Unescaper struct {
	transform.NopResetter
}

// Transform implements [transform.Transformer.Transform].
func (Unescaper) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		c, n := src[nSrc], 1
		if c == '\\' {
			switch {
			case nSrc+1 < len(src):
				if r := escapes[src[nSrc+1]]; r != 0 {
					c, n = r, 2
				}
			case !atEOF:
				return nDst, nSrc, transform.ErrShortSrc
			}
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = c
		nDst++
		nSrc += n
	}
	return nDst, nSrc, nil
}

// SpaceFolder removes leading and trailing whitespace and replaces each
// internal run of whitespace, including newlines, with a single ASCII space.
type SpaceFolder struct {
	// started is set once a non-space rune has been written.
	started bool

	// pending is set while inside an internal whitespace run.
	pending bool
}

// Transform implements [transform.Transformer.Transform].
func (f *SpaceFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		if unicode.IsSpace(r) {
			f.pending = f.started
			nSrc += size
			continue
		}

		need := size
		if f.pending {
			need++
		}
		if nDst+need > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		if f.pending {
			dst[nDst] = ' '
			nDst++
			f.pending = false
		}
		// Invalid bytes are copied unchanged.
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
		f.started = true
	}
	return nDst, nSrc, nil
}

// Reset implements [transform.Transformer.Reset].
func (f *SpaceFolder) Reset() {
	*f = SpaceFolder{}
}

// Unescape returns s with escapes replaced by Unescaper.
func Unescape(s string) string {
	out, _, err := transform.String(Unescaper{}, s)
	if err != nil {
		return s
	}
	return out
}

// FoldSpace returns s folded by a SpaceFolder.
func FoldSpace(s string) string {
	out, _, err := transform.String(&SpaceFolder{}, s)
	if err != nil {
		return s
	}
	return out
}
