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


package detectors_test

import (
	"embed"
	"errors"
	"testing"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/detectors"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/google/go-cmp/cmp"
)

//go:embed testdata
var testfsys embed.FS

func loadLint(t *testing.T) *clarity.Contract {
	t.Helper()
	b, err := testfsys.ReadFile("testdata/lint.clar")
	if err != nil {
		t.Fatalf("failed to read test contract: %v", err)
	}
	c, err := clarity.Parse("lint.clar", string(b),
		clarity.QualifiedContractIdentifier{Issuer: config.DefaultDeployer, Name: "lint"})
	if err != nil {
		t.Fatalf("failed to parse test contract: %v", err)
	}
	return c
}

type finding struct {
	Rule string
	Line int
}

func runRules(t *testing.T, rules []detectors.Rule) []finding {
	t.Helper()
	cfg := config.NewDefault()
	diags, err := detectors.Run(cfg, config.NewLogGroup(cfg), loadLint(t), rules)
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	var res []finding
	for _, d := range diags {
		if d.Level != diagnostics.Warning {
			t.Errorf("expected a warning, got %s", d)
		}
		res = append(res, finding{Rule: d.Rule, Line: d.FirstSpan().StartLine})
	}
	return res
}

func TestAllRules(t *testing.T) {
	got := runRules(t, detectors.All())
	want := []finding{
		{"assert-block-height", 6},
		{"call-inside-as-contract", 9},
		{"divide-before-multiply", 11},
		{"private-function-not-used", 12},
		{"tx-sender-in-assert", 22},
		{"unwrap-panic", 25},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("findings (-want +got):\n%s", diff)
	}
}

func TestSelect(t *testing.T) {
	rules, err := detectors.Select([]string{"unwrap-panic", "tx-sender-in-assert"}, []string{"tx-sender-in-assert"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 || rules[0].Name() != "unwrap-panic" {
		t.Errorf("expected only unwrap-panic, got %v", rules)
	}
	got := runRules(t, rules)
	if diff := cmp.Diff([]finding{{"unwrap-panic", 25}}, got); diff != "" {
		t.Errorf("findings (-want +got):\n%s", diff)
	}

	all, err := detectors.Select(nil, []string{"unwrap-panic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(detectors.All())-1 {
		t.Errorf("expected all rules but one, got %d", len(all))
	}

	if _, err := detectors.Select([]string{"no-such-rule"}, nil); err == nil {
		t.Errorf("expected an error for an unknown rule")
	}
}

func TestNamesAreSortedAndDescribed(t *testing.T) {
	want := []string{
		"assert-block-height",
		"call-inside-as-contract",
		"divide-before-multiply",
		"private-function-not-used",
		"tx-sender-in-assert",
		"unwrap-panic",
	}
	if diff := cmp.Diff(want, detectors.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	for _, r := range detectors.All() {
		if r.Description() == "" {
			t.Errorf("rule %s has no description", r.Name())
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first := runRules(t, detectors.All())
	second := runRules(t, detectors.All())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two runs differ (-first +second):\n%s", diff)
	}
}

// restless never settles
type restless struct{ rounds int }

func (r *restless) Name() string                { return "restless" }
func (r *restless) Description() string         { return "never settles" }
func (r *restless) Severity() diagnostics.Level { return diagnostics.Warning }

func (r *restless) Visit(*detectors.Context, *clarity.Expr, int) {}

func (r *restless) Settle(_ *detectors.Context, round int) bool {
	r.rounds = round
	return false
}

func TestRunBoundsRounds(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Lint.MaxRounds = 3
	r := &restless{}
	_, err := detectors.Run(cfg, config.NewLogGroup(cfg), loadLint(t), []detectors.Rule{r})
	var convErr *detectors.ConvergenceError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected a convergence error, got %v", err)
	}
	if convErr.Rounds != 3 || r.rounds != 3 {
		t.Errorf("expected 3 rounds, got %d (rule saw %d)", convErr.Rounds, r.rounds)
	}
	if diff := cmp.Diff([]string{"restless"}, convErr.Rules); diff != "" {
		t.Errorf("rules (-want +got):\n%s", diff)
	}
}
