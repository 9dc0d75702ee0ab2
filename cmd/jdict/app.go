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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"

	"github.com/rnpnr/jdict/internal/config"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrJdict is a parent error for all command errors.
var ErrJdict = errors.New("jdict")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrJdict)

// ErrUnknownDict indicates a dictionary id that is not configured.
var ErrUnknownDict = fmt.Errorf("%w: unknown dictionary", ErrJdict)

var copyrightNames = []string{
	"2025 The jdict Authors",
}

//nolint:gochecknoinits // init needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we don't use commands.
	//
	// This is done because `jdict --help 猫` would otherwise look up the
	// command 猫 instead of displaying the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

func newJdictApp() *cli.App {
	return &cli.App{
		Name:      filepath.Base(os.Args[0]),
		Usage:     "Look up terms in yomichan dictionaries.",
		ArgsUsage: "[TERM]...",
		Description: strings.Join([]string{
			"Prints the definitions of each TERM found in the selected",
			"dictionaries. With -i terms are read from standard input.",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "dict",
				Usage:   "search the dictionary `ID` (may be repeated)",
				Aliases: []string{"d"},
			},
			&cli.StringFlag{
				Name:    "field-sep",
				Usage:   "separate output fields with `SEP` (escapes allowed)",
				Aliases: []string{"F"},
			},
			&cli.BoolFlag{
				Name:               "interactive",
				Usage:              "read terms from standard input",
				Aliases:            []string{"i"},
				DisableDefaultText: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "read configuration from `FILE`",
				Aliases: []string{"c"},
				EnvVars: []string{config.EnvPath},
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "find dictionaries in `DIR`",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Usage:   "parse term banks on `N` goroutines",
				Aliases: []string{"j"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log at `LEVEL` (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "write build and lookup metrics to `FILE` on exit",
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "list",
				Usage:              "list configured dictionaries and exit",
				Aliases:            []string{"l"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.Bool("help") {
				check(cli.ShowAppHelp(c))
				return nil
			}
			if c.Bool("version") {
				return printVersion(c)
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			if c.Bool("list") {
				return listDicts(c.App.Writer, cfg)
			}

			if c.NArg() == 0 && !c.Bool("interactive") {
				check(cli.ShowAppHelp(c))
				return fmt.Errorf("%w: no terms given", ErrFlagParse)
			}

			dicts, err := selectDicts(cfg, c.StringSlice("dict"))
			if err != nil {
				return err
			}

			s := newSession(cfg, newLogger(cfg.Log, c.App.ErrWriter), dicts)
			defer s.writeMetrics(c.String("metrics-file"))

			if c.Bool("interactive") {
				return s.repl(c.App.Reader, c.App.Writer)
			}
			return s.lookup(c.App.Writer, c.Args().Slice())
		},
	}
}

// loadConfig loads the configuration file and applies flags on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJdict, err)
	}

	if c.IsSet("field-sep") {
		if c.String("field-sep") == "" {
			return nil, fmt.Errorf("%w: empty field separator", ErrFlagParse)
		}
		cfg.FieldSep = c.String("field-sep")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("jobs") {
		cfg.Workers = c.Int("jobs")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlagParse, err)
	}
	return cfg, nil
}

// selectDicts returns the configured dictionaries with the given ids in the
// order given. All dictionaries are returned if ids is empty.
func selectDicts(cfg *config.Config, ids []string) ([]config.DictionaryConfig, error) {
	if len(ids) == 0 {
		return cfg.Dictionaries, nil
	}

	dicts := make([]config.DictionaryConfig, 0, len(ids))
	for _, id := range ids {
		d, ok := cfg.Dictionary(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDict, id)
		}
		dicts = append(dicts, d)
	}
	return dicts, nil
}

// newLogger returns a logger writing to w at the configured level.
func newLogger(conf config.LogConfig, w io.Writer) *slog.Logger {
	// The level is checked by config.Validate.
	level, _ := conf.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if conf.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func printVersion(c *cli.Context) error {
	versionInfo := version.GetVersionInfo()

	_, err := fmt.Fprintf(c.App.Writer, `%s %s
Copyright (c) %s

%s`, c.App.Name, versionInfo.GitVersion, c.App.Copyright, versionInfo.String())
	if err != nil {
		return fmt.Errorf("%w: writing version: %w", ErrJdict, err)
	}
	return nil
}
