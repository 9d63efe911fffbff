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


package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/awslabs/argot-clarity/analysis"
	"github.com/awslabs/argot-clarity/analysis/config"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/term"
)

// State is the state of the terminal: the contracts loaded and the config used to analyze them
type State struct {
	// Paths are the paths the contracts are loaded from
	Paths []string

	ConfigPath string

	Config *config.Config

	Logger *config.LogGroup

	Contracts []*analysis.LoadedContract

	// Focused is the contract the commands apply to, or nil when they apply to all contracts
	Focused *analysis.LoadedContract

	TermWidth int
}

// NewState loads the contracts at paths
func NewState(cfg *config.Config, configPath string, paths []string) (*State, error) {
	s := &State{Paths: paths, ConfigPath: configPath, Config: cfg, Logger: config.NewLogGroup(cfg), TermWidth: 80}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload loads the contracts again. The focus is kept on the contract with the same name, if it still exists.
func (s *State) Reload() error {
	contracts, err := analysis.LoadContracts(s.Config, s.Logger, s.Paths)
	if err != nil {
		return err
	}
	s.Contracts = contracts
	if s.Focused != nil {
		s.Focused = s.Lookup(s.Focused.Contract.Identifier.Name)
	}
	return nil
}

// Lookup returns the contract with the name, identifier or path name, or nil
func (s *State) Lookup(name string) *analysis.LoadedContract {
	for _, c := range s.Contracts {
		if c.Contract.Identifier.Name == name || c.Contract.Identifier.String() == name || c.Contract.Path == name {
			return c
		}
	}
	return nil
}

// Targets returns the focused contract, or all the contracts if there is no focus
func (s *State) Targets() []*analysis.LoadedContract {
	if s.Focused != nil {
		return []*analysis.LoadedContract{s.Focused}
	}
	return s.Contracts
}

// Names returns the names of the loaded contracts
func (s *State) Names() []string {
	names := map[string]bool{}
	for _, c := range s.Contracts {
		names[c.Contract.Identifier.Name] = true
	}
	res := maps.Keys(names)
	slices.Sort(res)
	return res
}

// Help command
func cmdHelp(tt *term.Terminal, s *State, _ Command) bool {
	if s == nil {
		writeHelp(tt, cmdHelpName, "", "print this message")
		return false
	}
	writeFmt(tt, "Commands:\n")
	cmdHelp(tt, nil, Command{})
	names := maps.Keys(commands)
	slices.Sort(names)
	for _, name := range names {
		commands[name](tt, nil, Command{})
	}
	return false
}

// cmdState implements the "state?" command, which prints information about the current state of the tool
func cmdState(tt *term.Terminal, s *State, _ Command) bool {
	if s == nil {
		writeHelp(tt, cmdStateName, "", "print information about the current state")
		return false
	}
	wd, _ := os.Getwd()
	focused := "none"
	if s.Focused != nil {
		focused = s.Focused.Contract.Identifier.String()
	}
	configPath := s.ConfigPath
	if configPath == "" {
		configPath = "none (default config)"
	}
	writeFmt(tt, "Contract paths    : %s\n", strings.Join(s.Paths, " "))
	writeFmt(tt, "Config path       : %s\n", configPath)
	writeFmt(tt, "Working dir       : %s\n", wd)
	writeFmt(tt, "Deployer          : %s\n", s.Config.Deployer)
	writeFmt(tt, "Focused contract  : %s\n", focused)
	writeFmt(tt, "# contracts       : %d\n", len(s.Contracts))
	writeFmt(tt, "linter enabled?   : %t\n", s.Config.Lint.Enabled)
	return false
}

// cmdExit implements the exit command
func cmdExit(tt *term.Terminal, s *State, _ Command) bool {
	if s == nil {
		writeHelp(tt, cmdExitName, "", "exit the program")
		return false
	}
	return true
}

// cmdLs lists the loaded contracts
func cmdLs(tt *term.Terminal, s *State, _ Command) bool {
	if s == nil {
		writeHelp(tt, cmdLsName, "", "list the loaded contracts")
		return false
	}
	var entries []displayElement
	for _, c := range s.Contracts {
		var escape []byte
		if c == s.Focused {
			escape = tt.Escape.Cyan
		}
		entries = append(entries, displayElement{content: c.Contract.Identifier.Name, escape: escape})
	}
	writeEntries(tt, s.TermWidth, entries, "")
	return false
}

// cmdReload loads the contracts again, after they have been modified
func cmdReload(tt *term.Terminal, s *State, _ Command) bool {
	if s == nil {
		writeHelp(tt, cmdReloadName, "", "reload the contracts from their paths")
		return false
	}
	if err := s.Reload(); err != nil {
		WriteErr(tt, "could not reload the contracts: %s", err)
		return false
	}
	WriteSuccess(tt, "Loaded %d contracts.", len(s.Contracts))
	return false
}

// cmdReconfig loads the config file again, or the config file at the path given
func cmdReconfig(tt *term.Terminal, s *State, command Command) bool {
	if s == nil {
		writeHelp(tt, cmdReconfigName, "[path]", "reload the config file, or load the config file at path")
		return false
	}
	path := command.Arg(0, s.ConfigPath)
	cfg := config.NewDefault()
	if path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			WriteErr(tt, "%s", err)
			return false
		}
	}
	s.Config = cfg
	s.ConfigPath = path
	s.Logger = config.NewLogGroup(cfg)
	s.Logger.SetAllOutput(tt)
	s.Logger.SetAllFlags(0)
	WriteSuccess(tt, "%s", describeConfig(path))
	return false
}

func describeConfig(path string) string {
	if path == "" {
		return "Using the default config."
	}
	return fmt.Sprintf("Loaded config %s.", path)
}

// cmdFocus focuses on one contract: the other commands only apply to it
func cmdFocus(tt *term.Terminal, s *State, command Command) bool {
	if s == nil {
		writeHelp(tt, cmdFocusName, "contract", "focus on a contract; the analyses only run on it")
		return false
	}
	name := command.Arg(0, "")
	if name == "" {
		WriteErr(tt, "focus expects a contract name")
		return false
	}
	c := s.Lookup(name)
	if c == nil {
		WriteErr(tt, "no contract named %q (loaded: %s)", name, strings.Join(s.Names(), ", "))
		return false
	}
	s.Focused = c
	WriteSuccess(tt, "Focusing on %s.", c.Contract.Identifier)
	return false
}

// cmdUnfocus leaves the focused mode
func cmdUnfocus(tt *term.Terminal, s *State, _ Command) bool {
	if s == nil {
		writeHelp(tt, cmdUnfocusName, "", "stop focusing on a contract")
		return false
	}
	s.Focused = nil
	WriteSuccess(tt, "Unfocused.")
	return false
}
