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

// Package index implements a fixed-capacity open-addressing hash table used
// to intern dictionary terms.
//
// The table never grows. Its size is 1<<exp slots, decided when it is
// created. Probing uses a double-hashing step derived from the high bits of
// the hash and forced odd, so a step sequence visits every slot exactly once
// before repeating and a full table is always detected.
package index

import (
	"errors"
	"fmt"
)

// MaxExp is the largest supported table exponent.
const MaxExp = 30

var (
	// ErrFull indicates that every slot in the table is occupied by a
	// different key.
	ErrFull = errors.New("index full")

	// ErrInvalidExp indicates an unsupported table exponent.
	ErrInvalidExp = errors.New("invalid table exponent")
)

const (
	hashSeed  uint64 = 0x3243f6a8885a308d // digits of pi
	hashPrime uint64 = 1111111111111111111
)

// Keyed is a value that can be stored in a Table. Key must not change once
// the value has been stored.
type Keyed interface {
	Key() string
}

// Hash returns the hash of key. Bytes are mixed from last to first. The result
// is stable across runs.
func Hash[T ~string | ~[]byte](key T) uint64 {
	h := hashSeed
	for i := len(key) - 1; i >= 0; i-- {
		h ^= uint64(key[i])
		h *= hashPrime
	}
	return h
}

// Table is a fixed-capacity open-addressing hash table.
type Table[V Keyed] struct {
	exp    uint
	mask   uint32
	slots  []V
	hashes []uint64
	used   []bool
	n      int
	hash   func(string) uint64

	// collisions counts distinct keys seen with equal hashes.
	collisions int
}

// New returns an empty table with 1<<exp slots.
func New[V Keyed](exp uint) (*Table[V], error) {
	return NewWithHash[V](exp, Hash[string])
}

// NewWithHash returns an empty table with 1<<exp slots that hashes keys with
// hash instead of Hash.
func NewWithHash[V Keyed](exp uint, hash func(string) uint64) (*Table[V], error) {
	if exp < 1 || exp > MaxExp {
		return nil, fmt.Errorf("%w: %d", ErrInvalidExp, exp)
	}
	size := 1 << exp
	return &Table[V]{
		exp:    exp,
		mask:   uint32(size - 1),
		slots:  make([]V, size),
		hashes: make([]uint64, size),
		used:   make([]bool, size),
		hash:   hash,
	}, nil
}

// step returns the first slot to inspect and the step increment for h.
func (t *Table[V]) step(h uint64) (uint32, uint32) {
	inc := uint32(h>>(64-t.exp)) | 1
	return (uint32(h) + inc) & t.mask, inc
}

// Intern finds the slot for key. If a value with an equal key is stored the
// slot holding it is returned with found set to true. Otherwise the first
// empty slot on the step sequence is reserved and returned; the caller must
// fill it with Set before the next call to Intern.
//
// Intern returns ErrFull if the step sequence visits every slot without
// finding key or an empty slot.
func (t *Table[V]) Intern(key string) (slot int, found bool, err error) {
	h := t.hash(key)
	i, inc := t.step(h)
	for range len(t.slots) {
		if !t.used[i] {
			t.used[i] = true
			t.hashes[i] = h
			t.n++
			return int(i), false, nil
		}
		if t.hashes[i] == h {
			if t.slots[i].Key() == key {
				return int(i), true, nil
			}
			t.collisions++
		}
		i = (i + inc) & t.mask
	}
	return -1, false, fmt.Errorf("%w: %d slots occupied", ErrFull, t.n)
}

// Set stores v in slot. The slot must have been returned by Intern.
func (t *Table[V]) Set(slot int, v V) {
	t.slots[slot] = v
}

// Get returns the value stored in slot.
func (t *Table[V]) Get(slot int) V {
	return t.slots[slot]
}

// Lookup returns the value stored for key. It follows the same step
// sequence as Intern and stops at the first empty slot.
func (t *Table[V]) Lookup(key string) (V, bool) {
	h := t.hash(key)
	i, inc := t.step(h)
	for range len(t.slots) {
		if !t.used[i] {
			break
		}
		if t.hashes[i] == h && t.slots[i].Key() == key {
			return t.slots[i], true
		}
		i = (i + inc) & t.mask
	}
	var zero V
	return zero, false
}

// Len returns the number of occupied slots.
func (t *Table[V]) Len() int {
	return t.n
}

// Cap returns the number of slots.
func (t *Table[V]) Cap() int {
	return len(t.slots)
}

// Collisions returns the number of times Intern met a different key with an
// equal hash.
func (t *Table[V]) Collisions() int {
	return t.collisions
}

// Load returns the fraction of occupied slots.
func (t *Table[V]) Load() float64 {
	return float64(t.n) / float64(len(t.slots))
}

// All calls fn for each stored value in slot order. Iteration stops when fn
// returns false.
func (t *Table[V]) All(fn func(V) bool) {
	for i, ok := range t.used {
		if ok && !fn(t.slots[i]) {
			return
		}
	}
}
