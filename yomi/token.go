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

import "fmt"

// NoParent is the Parent of a token at the root level.
const NoParent = -1

// Type is the type of a Token.
type Type uint8

const (
	// TypeUndef is the zero Type.
	TypeUndef Type = 0

	// TypeEntry is an array opened directly inside another array.
	TypeEntry Type = 1

	// TypeArray is any other array.
	TypeArray Type = 2

	// TypeString is a quoted string.
	TypeString Type = 4

	// TypeNumber is an unsigned integer.
	TypeNumber Type = 8
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case TypeUndef:
		return "UNDEF"
	case TypeEntry:
		return "ENTRY"
	case TypeArray:
		return "ARRAY"
	case TypeString:
		return "STR"
	case TypeNumber:
		return "NUM"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Token is a span of the input.
//
// For arrays and entries Start is the offset of the opening bracket and End
// is one past the closing bracket. For strings the span excludes the quotes.
type Token struct {
	Type Type

	// Start is the offset of the first byte of the token.
	Start int

	// End is the offset one past the last byte of the token. It is -1 while
	// an array is still open.
	End int

	// Len is the number of direct children seen so far.
	Len int

	// Parent is the index of the enclosing token or NoParent.
	Parent int
}

// Open reports whether the token has not been closed yet.
func (t *Token) Open() bool {
	return t.End < 0
}

// Bytes returns the bytes of data spanned by the token.
func (t *Token) Bytes(data []byte) []byte {
	if t.Open() {
		return data[t.Start:]
	}
	return data[t.Start:t.End]
}
