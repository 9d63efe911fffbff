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


// Package deps implements the front-end to the dependency analysis of Clarity contracts: it prints the order in
// which the contracts can be published, or the cycles that prevent publishing them.
package deps

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awslabs/argot-clarity/analysis"
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/dependencies"
	"github.com/awslabs/argot-clarity/analysis/render"
	"github.com/awslabs/argot-clarity/cmd/argot/tools"
	"github.com/awslabs/argot-clarity/internal/formatutil"
	"github.com/awslabs/argot-clarity/internal/funcutil"
	"gopkg.in/yaml.v3"
)

const usage = ` Print the dependencies of your Clarity contracts, in the order they can be published.
Usage:
  argot deps [options] <contract path(s)>
Examples:
  % argot deps contracts/
  % argot deps -cycles contracts/
`

// Flags represents the parsed flags for the deps sub-command.
type Flags struct {
	tools.CommonFlags
	cycles bool
}

// NewFlags returns the parsed flags for the deps sub-command with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("deps")
	cycles := flags.FlagSet.Bool("cycles", false, "print all the cycles of the dependency graph")
	tools.SetUsage(flags.FlagSet, usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, cycles: *cycles}, nil
}

// entry is the description of one contract in the output
type entry struct {
	Contract     string                    `yaml:"contract" json:"contract"`
	Dependencies []dependencies.Dependency `yaml:"dependencies" json:"dependencies"`
}

// output is what the sub-command prints
type output struct {
	Order      []entry    `yaml:"order,omitempty" json:"order,omitempty"`
	Cycles     [][]string `yaml:"cycles,omitempty" json:"cycles,omitempty"`
	Unresolved []string   `yaml:"unresolved,omitempty" json:"unresolved,omitempty"`
}

// Run runs the dependency analysis with flags and prints the result on the standard output.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	cfg, err := tools.LoadConfig(flags.CommonFlags)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)
	logger.Infof(formatutil.Faint("Argot deps tool - " + analysis.Version))

	paths, err := flags.Paths()
	if err != nil {
		return err
	}
	contracts, err := analysis.LoadContracts(cfg, logger, paths)
	if err != nil {
		return err
	}

	deps, err := dependencies.Detect(funcutil.Map(contracts, func(c *analysis.LoadedContract) *clarity.Contract {
		return c.Contract
	}))
	var out output
	var unresolvedErr *dependencies.UnresolvedError
	if errors.As(err, &unresolvedErr) {
		logger.Warnf("%s", err)
		out.Unresolved = funcutil.Map(unresolvedErr.Unresolved, clarity.QualifiedContractIdentifier.String)
	} else if err != nil {
		return err
	}

	var cycleErr *dependencies.CycleError
	if flags.cycles {
		out.Cycles = funcutil.Map(dependencies.AllCycles(deps), idStrings)
	} else {
		order, err := dependencies.Order(deps)
		if errors.As(err, &cycleErr) {
			out.Cycles = [][]string{idStrings(cycleErr.Contracts)}
		} else if err != nil {
			return err
		}
		out.Order = funcutil.Map(order, func(id clarity.QualifiedContractIdentifier) entry {
			return entry{Contract: id.String(), Dependencies: deps[id].List()}
		})
	}

	if err := write(w, flags.Format, out); err != nil {
		return err
	}
	if cycleErr != nil {
		return cycleErr
	}
	return nil
}

func idStrings(ids []clarity.QualifiedContractIdentifier) []string {
	return funcutil.Map(ids, clarity.QualifiedContractIdentifier.String)
}

func write(w io.Writer, format render.Format, out output) error {
	switch format {
	case render.YAMLFormat:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case render.JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	var b strings.Builder
	for i, e := range out.Order {
		fmt.Fprintf(&b, "%d. %s\n", i+1, formatutil.Bold(e.Contract))
		for _, d := range e.Dependencies {
			required := ""
			if d.RequiredBeforePublish {
				required = formatutil.Faint(" (required before publish)")
			}
			fmt.Fprintf(&b, "     depends on %s%s\n", d.Contract, required)
		}
	}
	for _, cycle := range out.Cycles {
		fmt.Fprintf(&b, "%s %s\n", formatutil.Red("cycle:"), strings.Join(cycle, " -> "))
	}
	for _, u := range out.Unresolved {
		fmt.Fprintf(&b, "%s %s\n", formatutil.Yellow("unresolved:"), u)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
