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


package detectors

import (
	"fmt"
	"strings"
	"time"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/analysis/lang"
)

// ConvergenceError is returned by Run when some rules have not settled after the maximum number of rounds
type ConvergenceError struct {
	Rules  []string
	Rounds int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("lint rules %s did not settle after %d rounds", strings.Join(e.Rules, ", "), e.Rounds)
}

// Run runs the rules on the contract until they all settle, and returns their findings.
// The number of rounds is bounded by the lint.max-rounds setting of the config.
func Run(cfg *config.Config, logger *config.LogGroup, contract *clarity.Contract,
	rules []Rule) ([]diagnostics.Diagnostic, error) {
	start := time.Now()
	ctx := newContext(contract)
	active := rules
	round := 1
	for ; len(active) > 0; round++ {
		if cfg.ExceedsMaxRounds(round) {
			var names []string
			for _, r := range active {
				names = append(names, r.Name())
			}
			return nil, &ConvergenceError{Rules: names, Rounds: cfg.Lint.MaxRounds}
		}
		lang.Inspect(contract.Expressions, func(expr *clarity.Expr) bool {
			for _, r := range active {
				r.Visit(ctx, expr, round)
			}
			return true
		})
		var next []Rule
		for _, r := range active {
			if r.Settle(ctx, round) {
				logger.Tracef("rule %s settled after round %d on %s", r.Name(), round, contract.Path)
			} else {
				next = append(next, r)
			}
		}
		active = next
	}
	findings := ctx.Findings()
	logger.Debugf("lint of %s done (%.2f s, %d rounds): %d findings", contract.Path,
		time.Since(start).Seconds(), round-1, len(findings))
	return findings, nil
}
