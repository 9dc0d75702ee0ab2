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
	"io"
	"os"
	"path/filepath"

	"github.com/rodaine/table"

	"github.com/rnpnr/jdict/internal/config"
)

// locate returns the path of the dictionary d and whether it exists. Relative
// dictionaries missing from the data directory are searched for in
// dictLocations.
func locate(cfg *config.Config, d config.DictionaryConfig) (string, bool) {
	p := cfg.Locate(d)
	if exists(p) || filepath.IsAbs(d.Path) {
		return p, exists(p)
	}

	for _, dir := range dictLocations() {
		alt := *cfg
		alt.DataDir = dir
		if q := alt.Locate(d); exists(q) {
			return q, true
		}
	}
	return p, false
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// listDicts prints the configured dictionaries.
func listDicts(w io.Writer, cfg *config.Config) error {
	tbl := table.New("ID", "Name", "Path", "Found").WithWriter(w)
	for _, d := range cfg.Dictionaries {
		p, ok := locate(cfg, d)
		found := "no"
		if ok {
			found = "yes"
		}
		tbl.AddRow(d.ID, d.Name, p, found)
	}
	tbl.Print()
	return nil
}
