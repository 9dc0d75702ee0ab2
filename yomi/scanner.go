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

package yomi

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMem indicates that the token slice passed to Scan is full. The
	// scan may be continued by calling Scan again with a larger slice.
	ErrNoMem = errors.New("token budget exhausted")

	// ErrInvalid indicates structurally invalid input.
	ErrInvalid = errors.New("invalid term bank")

	// ErrMalformed indicates truncated or unterminated input.
	ErrMalformed = errors.New("malformed term bank")
)

// SyntaxError is returned by Scan for invalid or malformed input.
type SyntaxError struct {
	// Offset is the byte offset in the input where the error was detected.
	Offset int

	// Msg describes the error.
	Msg string

	// Err is ErrInvalid or ErrMalformed.
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d", e.Err, e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Scanner tokenizes a term bank held in memory.
//
// All of the scan progress is kept in the Scanner so that a scan stopped by
// ErrNoMem can be continued where it left off.
type Scanner struct {
	data []byte

	// pos is the offset of the next byte to scan.
	pos int

	// next is the index of the next free token.
	next int

	// parent is the index of the innermost open token or NoParent.
	parent int

	// rootLen is the number of tokens at the root level.
	rootLen int
}

// NewScanner returns a Scanner over data. The Scanner does not copy data and
// data must not be modified until scanning is complete.
func NewScanner(data []byte) *Scanner {
	return &Scanner{
		data:   data,
		parent: NoParent,
	}
}

// Scan tokenizes the input into toks and returns the total number of tokens
// produced so far.
//
// If toks is too small Scan returns ErrNoMem. The caller may then call Scan
// again with a larger slice. The tokens produced by earlier calls must be
// present at the start of the new slice, as they are when the slice is grown
// with append or copy.
//
// Scan returns a *SyntaxError wrapping ErrInvalid or ErrMalformed if the input
// is not a well formed term bank.
func (s *Scanner) Scan(toks []Token) (int, error) {
	for ; s.pos < len(s.data); s.pos++ {
		switch c := s.data[s.pos]; c {
		case '[':
			if s.next >= len(toks) {
				return s.next, ErrNoMem
			}
			typ := TypeArray
			if s.parent != NoParent && toks[s.parent].Type == TypeArray {
				typ = TypeEntry
			}
			toks[s.next] = Token{
				Type:   typ,
				Start:  s.pos,
				End:    -1,
				Parent: s.parent,
			}
			s.addChild(toks)
			s.parent = s.next
			s.next++

		case ']':
			if err := s.close(toks); err != nil {
				return s.next, err
			}

		case ',':
			// Step out of a scalar parent.
			if s.parent != NoParent {
				if t := toks[s.parent].Type; t != TypeArray && t != TypeEntry {
					s.parent = toks[s.parent].Parent
				}
			}

		case ' ', '\n', '\r', '\t':

		case '"':
			if s.next >= len(toks) {
				return s.next, ErrNoMem
			}
			if err := s.scanString(&toks[s.next]); err != nil {
				return s.next, err
			}
			s.addChild(toks)
			s.next++

		default:
			if s.next >= len(toks) {
				return s.next, ErrNoMem
			}
			if err := s.scanNumber(&toks[s.next]); err != nil {
				return s.next, err
			}
			s.addChild(toks)
			s.next++
		}
	}

	if s.parent != NoParent {
		return s.next, &SyntaxError{
			Offset: len(s.data),
			Msg:    "unterminated array",
			Err:    ErrMalformed,
		}
	}
	return s.next, nil
}

// Pos returns the offset of the next byte to be scanned.
func (s *Scanner) Pos() int {
	return s.pos
}

// Len returns the number of tokens produced so far.
func (s *Scanner) Len() int {
	return s.next
}

// RootLen returns the number of tokens produced at the root level.
func (s *Scanner) RootLen() int {
	return s.rootLen
}

func (s *Scanner) addChild(toks []Token) {
	if s.parent == NoParent {
		s.rootLen++
		return
	}
	toks[s.parent].Len++
}

// close ends the innermost open token on the parent chain.
func (s *Scanner) close(toks []Token) error {
	for i := s.parent; i != NoParent; i = toks[i].Parent {
		if t := &toks[i]; t.Open() {
			t.End = s.pos + 1
			s.parent = t.Parent
			return nil
		}
	}
	return &SyntaxError{
		Offset: s.pos,
		Msg:    "unexpected ']'",
		Err:    ErrInvalid,
	}
}

// scanString scans the string starting at the quote at s.pos. On success
// s.pos is left on the closing quote.
func (s *Scanner) scanString(t *Token) error {
	d := s.data
	start := s.pos
	for i := start + 1; i < len(d); i++ {
		switch d[i] {
		case '"':
			*t = Token{
				Type:   TypeString,
				Start:  start + 1,
				End:    i,
				Parent: s.parent,
			}
			s.pos = i
			return nil
		case '\\':
			n, err := escapeLen(d[i:])
			if err != nil {
				return &SyntaxError{Offset: i, Msg: "bad escape sequence", Err: err}
			}
			i += n - 1
		}
	}
	return &SyntaxError{
		Offset: start,
		Msg:    "unterminated string",
		Err:    ErrMalformed,
	}
}

// escapeLen returns the length of the escape sequence at the start of b.
func escapeLen(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, ErrMalformed
	}
	switch b[1] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2, nil
	case 'u':
		if len(b) < 6 {
			return 0, ErrMalformed
		}
		for _, c := range b[2:6] {
			if !isHex(c) {
				return 0, ErrInvalid
			}
		}
		return 6, nil
	default:
		return 0, ErrInvalid
	}
}

// scanNumber scans the number starting at s.pos. On success s.pos is left on
// the last digit so that the delimiter is handled by Scan.
func (s *Scanner) scanNumber(t *Token) error {
	d := s.data
	start := s.pos
	for i := start; i < len(d); i++ {
		switch d[i] {
		case ' ', ',', '\n', '\r', '\t', ']':
			*t = Token{
				Type:   TypeNumber,
				Start:  start,
				End:    i,
				Parent: s.parent,
			}
			s.pos = i - 1
			return nil
		}
		if !isDigit(d[i]) {
			return &SyntaxError{
				Offset: i,
				Msg:    fmt.Sprintf("unexpected %q", d[i]),
				Err:    ErrInvalid,
			}
		}
	}
	return &SyntaxError{
		Offset: start,
		Msg:    "unterminated number",
		Err:    ErrMalformed,
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
