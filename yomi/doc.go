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

// Package yomi implements a tokenizer for yomichan term bank files.
//
// A term bank is a single JSON array whose elements are per-term arrays:
//
//	[
//	  ["term", "reading", "tags", "rules", 0, ["definition", ...], 1, ""],
//	  ...
//	]
//
// The Scanner only recognizes the shapes found in term banks: nested arrays,
// quoted strings and unsigned integers. It does not implement JSON objects,
// booleans, null or signed and fractional numbers.
//
// Tokens are written to a flat slice supplied by the caller. Each token
// records its byte span in the input and the index of its enclosing token,
// forming a tree without any pointers. An array opened directly inside an
// array is typed TypeEntry rather than TypeArray, which is how the per-term
// arrays are recognized without a schema.
package yomi
