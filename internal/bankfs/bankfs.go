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

// Package bankfs finds and reads term bank files.
//
// A dictionary is either a directory or a .zip archive as distributed for
// yomichan. Term banks may be plain JSON or compressed with gzip or dictzip.
// File contents are read into the tail of an arena so that they can be
// released by rewinding the arena once the file has been parsed.
package bankfs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/rnpnr/jdict/internal/arena"
)

var (
	// ErrCorrupt indicates a compressed file that could not be decompressed.
	ErrCorrupt = errors.New("corrupt compressed file")

	// ErrUnsupported indicates a file with an unknown extension.
	ErrUnsupported = errors.New("unsupported file type")
)

// TermBankPrefix is the base name prefix of term bank files.
const TermBankPrefix = "term"

// metaPrefix is the base name prefix of term frequency and pitch banks.
const metaPrefix = "term_meta"

// Compression is a term bank file encoding.
type Compression int

const (
	// None is plain JSON.
	None Compression = iota

	// Gzip is gzip compressed JSON.
	Gzip

	// DictZip is dictzip compressed JSON.
	DictZip
)

// Ext returns the file extension for c.
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".json.gz"
	case DictZip:
		return ".json.dz"
	default:
		return ".json"
	}
}

// CompressionOf returns the Compression for a file name.
func CompressionOf(name string) (Compression, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return None, true
	case strings.HasSuffix(lower, ".json.gz"):
		return Gzip, true
	case strings.HasSuffix(lower, ".json.dz"):
		return DictZip, true
	default:
		return None, false
	}
}

// OpenRoot opens a dictionary root. root may be a directory or a .zip
// archive. The returned io.Closer must be closed when the file system is no
// longer needed.
func OpenRoot(root string) (fs.FS, io.Closer, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("opening dictionary: %w", err)
	}
	if fi.IsDir() {
		return os.DirFS(root), nopCloser{}, nil
	}

	z, err := zip.OpenReader(root)
	if err != nil {
		return nil, nil, fmt.Errorf("opening dictionary archive %q: %w", root, err)
	}
	return &z.Reader, z, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// List returns the names of the regular files in the root of fsys whose base
// name starts with prefix. Names are returned in lexical order.
func List(fsys fs.FS, prefix string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listing dictionary: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// TermBanks returns the names of the term banks in fsys in lexical order.
// Term meta banks and files with unsupported extensions are left out.
func TermBanks(fsys fs.FS) ([]string, error) {
	names, err := List(fsys, TermBankPrefix)
	if err != nil {
		return nil, err
	}

	banks := names[:0]
	for _, name := range names {
		if strings.HasPrefix(name, metaPrefix) {
			continue
		}
		if _, ok := CompressionOf(name); !ok {
			continue
		}
		banks = append(banks, name)
	}
	return banks, nil
}

// Read reads the whole of the named file into the tail of a and returns its
// decompressed contents. Compressed bytes are also held in the tail until a
// is rewound.
func Read(fsys fs.FS, name string, a *arena.Arena) ([]byte, error) {
	c, ok := CompressionOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path.Base(name))
	}

	raw, err := readRaw(fsys, name, a)
	if err != nil {
		return nil, err
	}

	switch c {
	case Gzip:
		return gunzip(raw, a)
	case DictZip:
		return dictunzip(raw, a)
	default:
		return raw, nil
	}
}

func readRaw(fsys fs.FS, name string, a *arena.Arena) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", name, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}

	buf, err := a.AllocEnd(int(fi.Size()))
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return buf, nil
}

// uncompressedSize returns the size recorded in the gzip trailer of b. The
// trailer holds the size of the last member modulo 2^32.
func uncompressedSize(b []byte) (int, error) {
	// Header and trailer of an empty gzip member.
	if len(b) < 18 {
		return 0, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(b))
	}
	return int(binary.LittleEndian.Uint32(b[len(b)-4:])), nil
}

// minGrow is the smallest amount inflate grows its buffer by.
const minGrow = 4 << 10

func gunzip(raw []byte, a *arena.Arena) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer zr.Close()

	size, err := uncompressedSize(raw)
	if err != nil {
		return nil, err
	}
	return inflate(zr, size, a)
}

// inflate reads r to EOF into the tail of a. size is a first guess at the
// length of the output. When more data remains the output is copied to a
// larger tail allocation.
func inflate(r io.Reader, size int, a *arena.Arena) ([]byte, error) {
	buf, err := a.AllocEnd(size)
	if err != nil {
		return nil, err
	}

	n := 0
	for {
		if n == len(buf) {
			var next [1]byte
			m, err := r.Read(next[:])
			if m == 0 {
				switch {
				case errors.Is(err, io.EOF):
					return buf, nil
				case err != nil:
					return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
				}
				continue
			}

			grown, err := a.AllocEnd(max(2*len(buf), len(buf)+minGrow))
			if err != nil {
				return nil, err
			}
			copy(grown, buf)
			grown[n] = next[0]
			n++
			buf = grown
			continue
		}

		m, err := r.Read(buf[n:])
		n += m
		switch {
		case errors.Is(err, io.EOF):
			return buf[:n], nil
		case err != nil:
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
}

func dictunzip(raw []byte, a *arena.Arena) ([]byte, error) {
	zr, err := dictzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	size, err := uncompressedSize(raw)
	if err != nil {
		return nil, err
	}
	out, err := a.AllocEnd(size)
	if err != nil {
		return nil, err
	}

	n, err := zr.ReadAt(out, 0)
	if n == len(out) && (err == nil || errors.Is(err, io.EOF)) {
		return out, nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
}
