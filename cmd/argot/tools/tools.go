// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
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


// Package tools contains utility types and functions for Argot tool frontends.
package tools

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/render"
	"github.com/awslabs/argot-clarity/internal/formatutil"
)

// ErrFindings is returned by the sub-commands run with -fail-on-warning when warnings were reported. The tool exits
// with status 1 without printing it.
var ErrFindings = errors.New("warnings reported")

// UnparsedCommonFlags represents an unparsed CLI sub-command flags.
type UnparsedCommonFlags struct {
	FlagSet      *flag.FlagSet
	ConfigPath   *string
	Verbose      *bool
	Format       *string
	NoColor      *bool
	ExcludePaths *ExcludePaths
}

// NewUnparsedCommonFlags returns an unparsed flag set with a given name.
// This is useful for creating sub-commands that have the flags -config, -verbose, -format, -no-color and -exclude
// but need other flags in addition.
func NewUnparsedCommonFlags(name string) UnparsedCommonFlags {
	cmd := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := cmd.String("config", "", "config file path for analysis")
	verbose := cmd.Bool("verbose", false, "verbose printing on standard error")
	format := cmd.String("format", string(render.TextFormat), "output format: text, yaml or json")
	noColor := cmd.Bool("no-color", false, "never color the output")
	exclude := &ExcludePaths{}
	cmd.Var(exclude, "exclude", "file or directory to exclude from the analysis (can be repeated)")
	return UnparsedCommonFlags{
		FlagSet:      cmd,
		ConfigPath:   configPath,
		Verbose:      verbose,
		Format:       format,
		NoColor:      noColor,
		ExcludePaths: exclude,
	}
}

// Parse parses args and returns the common flags
func (u UnparsedCommonFlags) Parse(args []string) (CommonFlags, error) {
	if err := u.FlagSet.Parse(args); err != nil {
		return CommonFlags{}, fmt.Errorf("failed to parse command %s with args %v: %v", u.FlagSet.Name(), args, err)
	}
	format, err := render.ParseFormat(*u.Format)
	if err != nil {
		return CommonFlags{}, err
	}
	return CommonFlags{
		FlagSet:      u.FlagSet,
		ConfigPath:   *u.ConfigPath,
		Verbose:      *u.Verbose,
		Format:       format,
		NoColor:      *u.NoColor,
		ExcludePaths: *u.ExcludePaths,
	}, nil
}

// CommonFlags represents a parsed CLI sub-command flags.
// E.g., for the command `argot check ...`, "check" is the sub-command.
type CommonFlags struct {
	FlagSet      *flag.FlagSet
	ConfigPath   string
	Verbose      bool
	Format       render.Format
	NoColor      bool
	ExcludePaths ExcludePaths
}

// NewCommonFlags returns a parsed flag set with a given name.
// Returns an error if args are invalid.
// Prints cmdUsage along with flag docs as the --help message.
func NewCommonFlags(name string, args []string, cmdUsage string) (CommonFlags, error) {
	flags := NewUnparsedCommonFlags(name)
	SetUsage(flags.FlagSet, cmdUsage)
	return flags.Parse(args)
}

// Paths returns the positional arguments: the contract files and directories to analyze
func (f CommonFlags) Paths() ([]string, error) {
	if f.FlagSet.NArg() == 0 {
		return nil, fmt.Errorf("no contract path given")
	}
	return f.FlagSet.Args(), nil
}

// SetUsage sets cmd's usage (for --help flag) to output the string cmdUsage
// followed by each flag's documentation.
func SetUsage(cmd *flag.FlagSet, cmdUsage string) {
	cmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", cmdUsage)
		fmt.Fprintf(os.Stderr, "Options:\n")
		cmd.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(os.Stderr, "  %s: %s (default: %q)\n", f.Name, f.Usage, f.DefValue)
		})
	}
}

// ExcludePaths represents filepaths to exclude.
type ExcludePaths []string

func (e *ExcludePaths) String() string {
	if e == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", []string(*e))
}

// Set adds value to e.
// This method satisfies the flag.Value interface.
func (e *ExcludePaths) Set(value string) error {
	*e = append(*e, value)
	return nil
}

// LoadConfig loads the config file of the flags, or the default config if no file is given, and overrides it with
// the command-line flags.
func LoadConfig(flags CommonFlags) (*config.Config, error) {
	config.SetGlobalConfig(flags.ConfigPath)
	cfg, err := config.LoadGlobal()
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %v", flags.ConfigPath, err)
	}
	if flags.Verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	cfg.ExcludePaths = append(cfg.ExcludePaths, flags.ExcludePaths...)
	if flags.NoColor {
		formatutil.SetColors(false)
	}
	return cfg, nil
}
