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


// Package lint implements the front-end to the lint rules for Clarity contracts.
package lint

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awslabs/argot-clarity/analysis"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/analysis/render"
	"github.com/awslabs/argot-clarity/cmd/argot/tools"
	"github.com/awslabs/argot-clarity/internal/formatutil"
)

const usage = ` Run the lint rules on your Clarity contracts.
Usage:
  argot lint [options] <contract path(s)>
Use argot detectors to list the rules.
Examples:
  % argot lint -filter unwrap-panic,divide-before-multiply contracts/
  % argot lint -exclude-rule private-function-not-used contracts/
`

// Flags represents the parsed flags for the lint sub-command.
type Flags struct {
	tools.CommonFlags
	filter        []string
	excludeRules  []string
	failOnWarning bool
}

// NewFlags returns the parsed flags for the lint sub-command with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("lint")
	filter := flags.FlagSet.String("filter", "", "comma-separated list of the rules to run, overrides the config")
	excludeRules := flags.FlagSet.String("exclude-rule", "", "comma-separated list of the rules not to run")
	failOnWarning := flags.FlagSet.Bool("fail-on-warning", false, "exit with status 1 when a warning is reported")
	tools.SetUsage(flags.FlagSet, usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{
		CommonFlags:   common,
		filter:        splitList(*filter),
		excludeRules:  splitList(*excludeRules),
		failOnWarning: *failOnWarning,
	}, nil
}

func splitList(s string) []string {
	var res []string
	for _, x := range strings.Split(s, ",") {
		if x = strings.TrimSpace(x); x != "" {
			res = append(res, x)
		}
	}
	return res
}

// Run runs the lint rules with flags and writes the report on the standard output.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	cfg, err := tools.LoadConfig(flags.CommonFlags)
	if err != nil {
		return err
	}
	if len(flags.filter) > 0 {
		cfg.Lint.Include = flags.filter
	}
	cfg.Lint.Exclude = append(cfg.Lint.Exclude, flags.excludeRules...)

	logger := config.NewLogGroup(cfg)
	logger.Infof(formatutil.Faint("Argot lint tool - " + analysis.Version))

	paths, err := flags.Paths()
	if err != nil {
		return err
	}
	contracts, err := analysis.LoadContracts(cfg, logger, paths)
	if err != nil {
		return err
	}
	report, err := analysis.RunPasses(cfg, logger, contracts, analysis.Passes{Lint: true})
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}
	if err := render.Write(w, flags.Format, report, analysis.Sources(contracts)); err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("some contracts could not be linted: %w", err)
	}
	if flags.failOnWarning && report.Count(diagnostics.Warning) > 0 {
		return tools.ErrFindings
	}
	return nil
}
