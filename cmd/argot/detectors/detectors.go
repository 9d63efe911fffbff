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


// Package detectors implements the sub-command that lists the lint rules.
package detectors

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/awslabs/argot-clarity/analysis/detectors"
	"github.com/awslabs/argot-clarity/cmd/argot/tools"
	"github.com/awslabs/argot-clarity/internal/formatutil"
)

const usage = ` List the lint rules.
Usage:
  argot detectors
`

// Flags represents the parsed flags for the detectors sub-command.
type Flags struct {
	namesOnly bool
}

// NewFlags returns the parsed flags for the detectors sub-command with args.
func NewFlags(args []string) (Flags, error) {
	cmd := flag.NewFlagSet("detectors", flag.ExitOnError)
	namesOnly := cmd.Bool("names", false, "only print the names of the rules")
	tools.SetUsage(cmd, usage)
	if err := cmd.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command detectors with args %v: %v", args, err)
	}
	return Flags{namesOnly: *namesOnly}, nil
}

// Run prints the rules on the standard output
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	if flags.namesOnly {
		for _, name := range detectors.Names() {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, rule := range detectors.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", formatutil.Bold(rule.Name()), rule.Severity(), rule.Description())
	}
	return tw.Flush()
}
