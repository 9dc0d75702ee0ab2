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

// Package config holds the jdict command configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rnpnr/jdict/internal/folding"
	"github.com/rnpnr/jdict/internal/index"
)

// EnvPath is the environment variable holding the config file path.
const EnvPath = "JDICT_CONFIG"

// ErrInvalid indicates a configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the jdict configuration.
type Config struct {
	DataDir     string `yaml:"data_dir"     env:"JDICT_DATA_DIR"     env-default:"/usr/share/yomidicts"`
	FieldSep    string `yaml:"field_sep"    env:"JDICT_FIELD_SEP"`
	Prompt      string `yaml:"prompt"       env:"JDICT_PROMPT"       env-default:"jdict> "`
	Workers     int    `yaml:"workers"      env:"JDICT_WORKERS"      env-default:"1"`
	TableExp    uint   `yaml:"table_exp"    env:"JDICT_TABLE_EXP"    env-default:"20"`
	ArenaMB     int    `yaml:"arena_mb"     env:"JDICT_ARENA_MB"     env-default:"512"`
	TokenBudget int    `yaml:"token_budget" env:"JDICT_TOKEN_BUDGET" env-default:"65536"`

	Log          LogConfig          `yaml:"log"`
	Dictionaries []DictionaryConfig `yaml:"dictionaries"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"JDICT_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"JDICT_LOG_FORMAT" env-default:"text"`
}

// DictionaryConfig describes one dictionary.
type DictionaryConfig struct {
	// ID selects the dictionary on the command line.
	ID string `yaml:"id"`

	// Name is printed above results. The dictionary title is used if empty.
	Name string `yaml:"name"`

	// Path is the dictionary directory or .zip archive. Relative paths are
	// resolved against the data directory. Defaults to ID.
	Path string `yaml:"path"`

	// HTML is set for dictionaries whose definitions are HTML.
	HTML bool `yaml:"html"`
}

// DefaultDictionaries are used when no dictionaries are configured.
var DefaultDictionaries = []DictionaryConfig{
	{ID: "daijirin", Name: "【三省堂　スーパー大辞林】"},
	{ID: "daijisen", Name: "【大辞泉】"},
	{ID: "koujien", Name: "【広辞苑】"},
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults.
//
// If path is empty the JDICT_CONFIG environment variable is used. If neither
// is set configuration is loaded from ENV and defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(EnvPath)
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if len(cfg.Dictionaries) == 0 {
		cfg.Dictionaries = append([]DictionaryConfig(nil), DefaultDictionaries...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TableExp < 1 || c.TableExp > index.MaxExp {
		return fmt.Errorf("%w: table_exp must be in 1..%d (got %d)", ErrInvalid, index.MaxExp, c.TableExp)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be > 0 (got %d)", ErrInvalid, c.Workers)
	}
	if c.ArenaMB <= 0 {
		return fmt.Errorf("%w: arena_mb must be > 0 (got %d)", ErrInvalid, c.ArenaMB)
	}
	if c.TokenBudget <= 0 {
		return fmt.Errorf("%w: token_budget must be > 0 (got %d)", ErrInvalid, c.TokenBudget)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json (got %q)", ErrInvalid, c.Log.Format)
	}

	seen := map[string]bool{}
	for i, d := range c.Dictionaries {
		if d.ID == "" {
			return fmt.Errorf("%w: dictionaries[%d]: empty id", ErrInvalid, i)
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: dictionaries[%d]: duplicate id %q", ErrInvalid, i, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

// Separator returns the output field separator. Escapes such as \n and \t
// are interpreted. The default is a tab.
func (c *Config) Separator() string {
	if c.FieldSep == "" {
		return "\t"
	}
	return folding.Unescape(c.FieldSep)
}

// ArenaSize returns the arena size in bytes.
func (c *Config) ArenaSize() int {
	return c.ArenaMB << 20
}

// Dictionary returns the dictionary with the given id.
func (c *Config) Dictionary(id string) (DictionaryConfig, bool) {
	for _, d := range c.Dictionaries {
		if d.ID == id {
			return d, true
		}
	}
	return DictionaryConfig{}, false
}

// Locate returns the path of the dictionary d. If d has no explicit path,
// a directory named after its ID is preferred over a .zip archive.
func (c *Config) Locate(d DictionaryConfig) string {
	p := d.Path
	if p == "" {
		p = d.ID
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.DataDir, p)
	}
	if d.Path != "" || strings.HasSuffix(p, ".zip") {
		return p
	}
	if _, err := os.Stat(p); err != nil {
		if _, err := os.Stat(p + ".zip"); err == nil {
			return p + ".zip"
		}
	}
	return p
}

// SlogLevel returns the log level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}
