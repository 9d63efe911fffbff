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


package check

import (
	"fmt"
	"io"
	"os"

	"github.com/awslabs/argot-clarity/analysis"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/analysis/render"
	"github.com/awslabs/argot-clarity/cmd/argot/tools"
	"github.com/awslabs/argot-clarity/internal/formatutil"
)

const usage = ` Check your Clarity contracts for unchecked data.
Usage:
  argot check [options] <contract path(s)>
Examples:
  % argot check -config config.yaml contracts/
`

// Flags represents the parsed flags for the check sub-command.
type Flags struct {
	tools.CommonFlags
	failOnWarning bool
}

// NewFlags returns the parsed flags for the check sub-command with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("check")
	failOnWarning := flags.FlagSet.Bool("fail-on-warning", false, "exit with status 1 when a warning is reported")
	tools.SetUsage(flags.FlagSet, usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, failOnWarning: *failOnWarning}, nil
}

// Run runs the checker with flags and writes the report on the standard output.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	cfg, err := tools.LoadConfig(flags.CommonFlags)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)
	logger.Infof(formatutil.Faint("Argot check tool - " + analysis.Version))

	paths, err := flags.Paths()
	if err != nil {
		return err
	}
	contracts, err := analysis.LoadContracts(cfg, logger, paths)
	if err != nil {
		return err
	}
	report, err := analysis.Analyze(cfg, logger, contracts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if err := render.Write(w, flags.Format, report, analysis.Sources(contracts)); err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("some contracts could not be analyzed: %w", err)
	}
	if flags.failOnWarning && report.Count(diagnostics.Warning) > 0 {
		return tools.ErrFindings
	}
	return nil
}
