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

// Package arena implements a fixed-size bump allocator for byte data.
//
// An Arena hands out memory from both ends of one buffer. Long-lived data
// (terms and definitions) is allocated from the front and lives as long as
// the Arena. Short-lived scratch data (whole term-bank files) is allocated
// from the tail and released in O(1) by rewinding to a Checkpoint.
//
// An Arena is not safe for concurrent use. Use Sub to give each goroutine its
// own disjoint region.
package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrOutOfMemory indicates that an allocation does not fit in the space left
// between the front and the tail of the arena.
var ErrOutOfMemory = errors.New("arena: out of memory")

// Arena is a bump allocator over a single fixed-size buffer.
type Arena struct {
	buf []byte

	// beg is the offset of the first free byte at the front.
	beg int

	// end is the offset one past the last free byte at the tail.
	end int

	// lowWater is the smallest amount of free space seen.
	lowWater int
}

// Checkpoint records the tail position of an Arena.
type Checkpoint struct {
	end int
}

// New returns an Arena of size bytes.
func New(size int) *Arena {
	if size < 0 {
		size = 0
	}
	return wrap(make([]byte, size))
}

func wrap(buf []byte) *Arena {
	return &Arena{
		buf:      buf,
		end:      len(buf),
		lowWater: len(buf),
	}
}

// Alloc returns n bytes from the front of the arena. The memory is valid for
// the lifetime of the arena.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n < 0 || n > a.Available() {
		return nil, fmt.Errorf("%w: requested %d bytes, %d available", ErrOutOfMemory, n, a.Available())
	}
	b := a.buf[a.beg : a.beg+n : a.beg+n]
	a.beg += n
	a.track()
	return b, nil
}

// AllocEnd returns n bytes from the tail of the arena. The memory is valid
// until the arena is rewound to a checkpoint taken before the allocation.
// The returned bytes are not cleared.
func (a *Arena) AllocEnd(n int) ([]byte, error) {
	if n < 0 || n > a.Available() {
		return nil, fmt.Errorf("%w: requested %d bytes, %d available", ErrOutOfMemory, n, a.Available())
	}
	a.end -= n
	a.track()
	return a.buf[a.end : a.end+n : a.end+n], nil
}

// Dup copies b to the front of the arena and returns it as a string. The
// string shares the arena's memory.
func (a *Arena) Dup(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	dst, err := a.Alloc(len(b))
	if err != nil {
		return "", err
	}
	copy(dst, b)
	return unsafe.String(&dst[0], len(dst)), nil
}

// Checkpoint returns the current tail position.
func (a *Arena) Checkpoint() Checkpoint {
	return Checkpoint{end: a.end}
}

// Rewind releases every tail allocation made after cp was taken.
func (a *Arena) Rewind(cp Checkpoint) {
	if cp.end < a.end || cp.end > len(a.buf) {
		return
	}
	a.end = cp.end
}

// Sub carves n bytes from the front of a and returns them as an independent
// Arena. Memory allocated from the returned Arena lives as long as a.
func (a *Arena) Sub(n int) (*Arena, error) {
	b, err := a.Alloc(n)
	if err != nil {
		return nil, err
	}
	return wrap(b), nil
}

// Available returns the number of free bytes.
func (a *Arena) Available() int {
	return a.end - a.beg
}

// Used returns the number of bytes allocated from the front.
func (a *Arena) Used() int {
	return a.beg
}

// Size returns the total size of the arena.
func (a *Arena) Size() int {
	return len(a.buf)
}

// LowWater returns the smallest number of free bytes observed since the arena
// was created.
func (a *Arena) LowWater() int {
	return a.lowWater
}

func (a *Arena) track() {
	if free := a.end - a.beg; free < a.lowWater {
		a.lowWater = free
	}
}
