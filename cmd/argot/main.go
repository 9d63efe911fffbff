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


package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/awslabs/argot-clarity/analysis"
	"github.com/awslabs/argot-clarity/cmd/argot/check"
	"github.com/awslabs/argot-clarity/cmd/argot/cli"
	"github.com/awslabs/argot-clarity/cmd/argot/deps"
	"github.com/awslabs/argot-clarity/cmd/argot/detectors"
	"github.com/awslabs/argot-clarity/cmd/argot/lint"
	"github.com/awslabs/argot-clarity/cmd/argot/tools"
)

const usage = `Argot: Automated Reasoning tools for Clarity contracts
Usage:
  argot [tool] [options] <contract path(s)>
Tools:
  - check: reports the untrusted inputs of public functions that reach state changes without being checked
  - lint: runs the lint rules on the contracts
  - detectors: lists the lint rules
  - deps: prints the order in which the contracts can be published, or the cycles between them
  - cli: interactive terminal-like interface to explore the contracts and run the analyses
Examples:
  Check the contracts of a project: argot check -config config.yaml contracts/
  Run two lint rules: argot lint -filter unwrap-panic,divide-before-multiply contracts/`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "check":
		flags, err := check.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := check.Run(flags); err != nil {
			errExit(err)
		}
	case "cli":
		flags, err := tools.NewCommonFlags("cli", args, cli.Usage)
		if err != nil {
			errExit(err)
		}
		if err := cli.Run(flags); err != nil {
			errExit(err)
		}
	case "lint":
		flags, err := lint.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := lint.Run(flags); err != nil {
			errExit(err)
		}
	case "detectors":
		flags, err := detectors.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := detectors.Run(flags); err != nil {
			errExit(err)
		}
	case "deps":
		flags, err := deps.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := deps.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	if errors.Is(err, tools.ErrFindings) {
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
