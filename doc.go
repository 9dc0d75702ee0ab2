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

// Package jdict implements exact term lookup in yomichan dictionaries in
// pure Go.
//
// A yomichan dictionary is a directory, or a .zip archive, that contains:
//  1. An index.json file with metadata about the dictionary such as its
//     title.
//  2. One or more term_bank_N.json files. Each is a JSON array of entries
//     and each entry is an array holding the term, its reading, tags and an
//     array of definitions. Term banks may be compressed with gzip or
//     dictzip.
//  3. Optional tag, kanji and term meta banks, which are not read.
//
// A Dictionary is built in memory by reading every term bank. Terms are
// interned into a fixed-size hash table and the definitions of a term that
// appears more than once are merged. The table size is fixed when the
// dictionary is built and does not grow.
//
// More info on the dictionary format can be found at this URL:
// https://github.com/themoeway/yomitan/tree/master/ext/data/schemas
package jdict
