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


// Package detectors implements the lint rules of the analyzer. Rules are pattern checks on the expression tree of a
// contract: they are run by [Run] in rounds until every rule has settled.
package detectors

import (
	"fmt"
	"strings"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/internal/funcutil"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Rule is a lint rule.
//
// In each round, Visit is called on every expression of the contract in preorder, and then Settle is called.
// A rule that returns true from Settle is not visited anymore.
type Rule interface {
	// Name is the name of the rule, used in configs and in the diagnostics
	Name() string
	// Description is a one line description of what the rule reports
	Description() string
	// Severity is the level of the diagnostics of the rule
	Severity() diagnostics.Level
	// Visit is called on every expression of the contract, once per round
	Visit(ctx *Context, expr *clarity.Expr, round int)
	// Settle is called at the end of each round. It returns true when the rule has converged.
	Settle(ctx *Context, round int) bool
}

// Context is the state shared by the rules during one run on a contract
type Context struct {
	Contract *clarity.Contract
	findings map[findingKey]diagnostics.Diagnostic
}

type findingKey struct {
	rule string
	id   uint64
}

func newContext(contract *clarity.Contract) *Context {
	return &Context{Contract: contract, findings: map[findingKey]diagnostics.Diagnostic{}}
}

// Report records a finding of rule at expr. A rule reports at most one finding per expression.
func (ctx *Context) Report(rule Rule, expr *clarity.Expr, message string, suggestion string) {
	key := findingKey{rule: rule.Name(), id: expr.ID}
	if _, ok := ctx.findings[key]; ok {
		return
	}
	ctx.findings[key] = diagnostics.Diagnostic{
		Level:      rule.Severity(),
		Message:    message,
		Spans:      []clarity.Span{expr.Span},
		Suggestion: suggestion,
		Rule:       rule.Name(),
	}
}

// Findings returns the findings recorded so far, sorted by location and then by rule
func (ctx *Context) Findings() []diagnostics.Diagnostic {
	keys := maps.Keys(ctx.findings)
	slices.SortFunc(keys, func(a, b findingKey) int {
		if c := clarity.Compare(ctx.findings[a].FirstSpan(), ctx.findings[b].FirstSpan()); c != 0 {
			return c
		}
		return strings.Compare(a.rule, b.rule)
	})
	return funcutil.Map(keys, func(k findingKey) diagnostics.Diagnostic { return ctx.findings[k] })
}

// registry lists the constructors of all the rules. Rules have state, each run gets new instances.
var registry = []func() Rule{
	newAssertBlockHeight,
	newCallInsideAsContract,
	newDivideBeforeMultiply,
	newPrivateFunctionNotUsed,
	newTxSenderInAssert,
	newUnwrapPanic,
}

// All returns new instances of all the rules, sorted by name
func All() []Rule {
	rules := funcutil.Map(registry, func(newRule func() Rule) Rule { return newRule() })
	slices.SortFunc(rules, func(a, b Rule) int { return strings.Compare(a.Name(), b.Name()) })
	return rules
}

// Names returns the names of all the rules, sorted
func Names() []string {
	return funcutil.Map(All(), Rule.Name)
}

// Select returns the rules named in include, or all rules if include is empty, minus the rules named in exclude.
// Unknown rule names are an error.
func Select(include []string, exclude []string) ([]Rule, error) {
	names := Names()
	for _, name := range append(slices.Clone(include), exclude...) {
		if !funcutil.Contains(names, name) {
			return nil, fmt.Errorf("unknown lint rule %q (available: %s)", name, strings.Join(names, ", "))
		}
	}
	var selected []Rule
	for _, rule := range All() {
		if len(include) > 0 && !funcutil.Contains(include, rule.Name()) {
			continue
		}
		if funcutil.Contains(exclude, rule.Name()) {
			continue
		}
		selected = append(selected, rule)
	}
	return selected, nil
}
