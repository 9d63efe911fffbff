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


// Package cli implements the interactive argot CLI.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/awslabs/argot-clarity/cmd/argot/tools"
	"github.com/awslabs/argot-clarity/internal/formatutil"
	"golang.org/x/exp/maps"
	"golang.org/x/term"
)

// Usage for CLI
const Usage = `Interactive CLI for exploring Clarity contracts and running the analyses on them.
Usage:
  argot cli [options] <contract path(s)>`

const (
	cmdAnnotationsName = "annotations"
	cmdCheckName       = "check"
	cmdDepsName        = "deps"
	cmdExitName        = "exit"
	cmdFocusName       = "focus"
	cmdFunctionsName   = "functions"
	cmdHelpName        = "help"
	cmdLintName        = "lint"
	cmdLsName          = "ls"
	cmdReconfigName    = "reconfig"
	cmdReloadName      = "reload"
	cmdRulesName       = "rules"
	cmdShowName        = "show"
	cmdStateName       = "state?"
	cmdUnfocusName     = "unfocus"
	cmdWhereName       = "where"
)

// A command prints its help message when the state is nil. It returns true to stop the terminal.
type commandFunc func(tt *term.Terminal, s *State, command Command) bool

var commands = map[string]commandFunc{
	cmdAnnotationsName: cmdAnnotations,
	cmdCheckName:       cmdCheck,
	cmdDepsName:        cmdDeps,
	cmdExitName:        cmdExit,
	cmdFocusName:       cmdFocus,
	cmdFunctionsName:   cmdFunctions,
	cmdLintName:        cmdLint,
	cmdLsName:          cmdLs,
	cmdReconfigName:    cmdReconfig,
	cmdReloadName:      cmdReload,
	cmdRulesName:       cmdRules,
	cmdShowName:        cmdShow,
	cmdStateName:       cmdState,
	cmdUnfocusName:     cmdUnfocus,
	cmdWhereName:       cmdWhere,
}

// commands whose first argument is a contract name
var takesContract = map[string]bool{cmdFocusName: true}

// Run loads the contracts and runs a simple CLI-based stdin-stdout server to explore them.
func Run(flags tools.CommonFlags) error {
	cfg, err := tools.LoadConfig(flags)
	if err != nil {
		return err
	}
	paths, err := flags.Paths()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, formatutil.Faint("Reading sources"))
	s, err := NewState(cfg, flags.ConfigPath, paths)
	if err != nil {
		return err
	}
	return run(s)
}

// run implements the command line tool, calling interpret for each command until the exit command is input
func run(s *State) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("the interactive CLI needs a terminal: %w", err)
	}
	defer term.Restore(fd, oldState)
	if width, _, err := term.GetSize(fd); err == nil {
		s.TermWidth = width
	}

	tt := term.NewTerminal(os.Stdin, "> ")
	s.Logger.SetAllOutput(tt)
	s.Logger.SetAllFlags(0) // no prefix
	tt.AutoCompleteCallback = AutoCompleteOfState(s)
	// Capture ctrl+c and exit by returning
	captureChan := make(chan os.Signal, 1)
	signal.Notify(captureChan, os.Interrupt)
	go exitOnReceive(captureChan, tt, oldState)

	WriteSuccess(tt, "Loaded %d contracts. Type help for the list of commands.", len(s.Contracts))
	for {
		command, err := tt.ReadLine()
		if err != nil {
			// io.EOF on ctrl+d
			return nil
		}
		if interpret(tt, s, strings.TrimSpace(command)) {
			return nil
		}
	}
}

// interpret returns true to stop
func interpret(tt *term.Terminal, s *State, command string) bool {
	if command == "" {
		return false
	}
	cmd := ParseCommand(command)

	if cmd.Name == "" {
		return false
	}

	if f, ok := commands[cmd.Name]; ok {
		return f(tt, s, cmd)
	}
	if cmd.Name != cmdHelpName {
		WriteErr(tt, "Command name %q not recognized.", cmd.Name)
	}
	cmdHelp(tt, s, cmd)
	return false
}

// AutoCompleteOfState returns a completion function for the terminal: on tab, the command name or the contract
// name being typed is completed when there is only one candidate.
func AutoCompleteOfState(s *State) func(line string, pos int, key rune) (string, int, bool) {
	return func(line string, pos int, key rune) (string, int, bool) {
		if key != '\t' || pos != len(line) {
			return "", 0, false
		}
		fields := strings.Fields(line)
		var candidates []string
		prefix := ""
		switch {
		case len(fields) == 0:
			return "", 0, false
		case len(fields) == 1 && !strings.HasSuffix(line, " "):
			prefix = fields[0]
			candidates = append(maps.Keys(commands), cmdHelpName)
		case takesContract[fields[0]] && (len(fields) == 1 || len(fields) == 2 && !strings.HasSuffix(line, " ")):
			if len(fields) == 2 {
				prefix = fields[1]
			}
			candidates = s.Names()
		default:
			return "", 0, false
		}
		var matches []string
		for _, c := range candidates {
			if strings.HasPrefix(c, prefix) {
				matches = append(matches, c)
			}
		}
		if len(matches) != 1 {
			return "", 0, false
		}
		completed := line[:len(line)-len(prefix)] + matches[0] + " "
		return completed, len(completed), true
	}
}

func exitOnReceive(c chan os.Signal, tt *term.Terminal, oldState *term.State) {
	for range c {
		writeFmt(tt, formatutil.Red("Caught SIGINT, exiting!"))
		term.Restore(int(os.Stdin.Fd()), oldState)
		os.Exit(0)
	}
}
