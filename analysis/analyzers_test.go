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


package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/internal/funcutil"
	"github.com/google/go-cmp/cmp"
)

func loadContracts(t *testing.T, cfg *config.Config, paths ...string) []*LoadedContract {
	t.Helper()
	contracts, err := LoadContracts(cfg, config.NewLogGroup(cfg), paths)
	if err != nil {
		t.Fatalf("failed to load %v: %s", paths, err)
	}
	return contracts
}

func contractPaths(contracts []*LoadedContract) []string {
	return funcutil.Map(contracts, func(c *LoadedContract) string { return c.Contract.Path })
}

func TestLoadContracts(t *testing.T) {
	cfg := config.NewDefault()
	contracts := loadContracts(t, cfg, "testdata/contracts")
	want := []string{
		"testdata/contracts/legacy/old-token.clar",
		"testdata/contracts/token.clar",
		"testdata/contracts/vault.clar",
	}
	if diff := cmp.Diff(want, contractPaths(contracts)); diff != "" {
		t.Errorf("unexpected contracts (-want +got):\n%s", diff)
	}
	token := contracts[1].Contract.Identifier
	if token.Name != "token" || token.Issuer != config.DefaultDeployer {
		t.Errorf("unexpected identifier %s", token)
	}
}

func TestLoadContractsSkipsExcluded(t *testing.T) {
	cfg := config.NewDefault()
	cfg.ExcludePaths = []string{"testdata/contracts/legacy"}
	// the same file twice is loaded once
	contracts := loadContracts(t, cfg, "testdata/contracts", "testdata/contracts/token.clar")
	want := []string{"testdata/contracts/token.clar", "testdata/contracts/vault.clar"}
	if diff := cmp.Diff(want, contractPaths(contracts)); diff != "" {
		t.Errorf("unexpected contracts (-want +got):\n%s", diff)
	}
}

func TestLoadContractsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.clar")
	if err := os.WriteFile(bad, []byte("(define-public (f)"), 0o600); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(other, []byte("not a contract"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.NewDefault()
	logger := config.NewLogGroup(cfg)
	for _, paths := range [][]string{{bad}, {other}, {filepath.Join(dir, "missing.clar")}, {t.TempDir()}} {
		if _, err := LoadContracts(cfg, logger, paths); err == nil {
			t.Errorf("expected an error when loading %v", paths)
		}
	}
}

func TestAnalyzeOrdersByDependency(t *testing.T) {
	cfg := config.NewDefault()
	cfg.ExcludePaths = []string{"testdata/contracts/legacy/"}
	cfg.Lint.Enabled = true
	report, err := Analyze(cfg, config.NewLogGroup(cfg), loadContracts(t, cfg, "testdata/contracts"))
	if err != nil {
		t.Fatalf("analysis failed: %s", err)
	}
	order := funcutil.Map(report.Files, func(f diagnostics.FileDiagnostics) string { return f.Path })
	if diff := cmp.Diff([]string{"testdata/contracts/token.clar", "testdata/contracts/vault.clar"}, order); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
	if len(report.Order) != 2 || report.Order[0].Name != "token" || report.Order[1].Name != "vault" {
		t.Errorf("unexpected order %v", report.Order)
	}

	token := report.Files[0].Diagnostics
	if len(token) != 2 || token[0].Level != diagnostics.Warning || token[0].FirstSpan().StartLine != 5 ||
		token[1].Level != diagnostics.Note || token[1].FirstSpan().StartLine != 3 {
		t.Errorf("expected unchecked data at line 5 from line 3, got %v", token)
	}
	vault := report.Files[1].Diagnostics
	if len(vault) != 1 || vault[0].Rule != "private-function-not-used" || vault[0].FirstSpan().StartLine != 7 {
		t.Errorf("expected an unused private function at line 7, got %v", vault)
	}
	if n := report.Count(diagnostics.Warning); n != 2 {
		t.Errorf("expected 2 warnings, got %d", n)
	}
	if err := report.Err(); err != nil {
		t.Errorf("unexpected error diagnostics: %s", err)
	}
}

func TestAnalyzeCycleFallsBackToLexicalOrder(t *testing.T) {
	cfg := config.NewDefault()
	report, err := Analyze(cfg, config.NewLogGroup(cfg), loadContracts(t, cfg, "testdata/cycle"))
	if err != nil {
		t.Fatalf("analysis failed: %s", err)
	}
	if len(report.Order) != 2 || report.Order[0].Name != "a" || report.Order[1].Name != "b" {
		t.Errorf("expected lexical order, got %v", report.Order)
	}
	if n := report.Count(diagnostics.Note); n != 0 {
		t.Errorf("expected no diagnostics, got %d", n)
	}
}

func TestRunPassesUnknownRule(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Lint.Include = []string{"no-such-rule"}
	contracts := loadContracts(t, cfg, "testdata/cycle")
	if _, err := RunPasses(cfg, config.NewLogGroup(cfg), contracts, Passes{Lint: true}); err == nil {
		t.Errorf("expected an error for an unknown rule")
	}
	// the rule selection is not checked when the linter does not run
	if _, err := RunPasses(cfg, config.NewLogGroup(cfg), contracts, Passes{Taint: true}); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		filename string
		exclude  string
		want     bool
	}{
		{"/w/c/token.clar", "/w/c/token.clar", true},
		{"/w/c/token.clar", "/w/c", true},
		{"/w/c/token.clar", "/w/c/", true},
		{"/w/cc/token.clar", "/w/c", false},
		{"/w/c/token.clar", "/w/c/tok", false},
		{"/w/c/token.clar", "/w/c/vault.clar", false},
	}
	for _, test := range tests {
		if got := IsExcluded(test.filename, []string{test.exclude}); got != test.want {
			t.Errorf("IsExcluded(%q, %q) = %v, want %v", test.filename, test.exclude, got, test.want)
		}
	}
}

func TestMakeAbsolute(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	got := MakeAbsolute([]string{"a/b", "/x/y/", "c/"})
	want := []string{filepath.Join(cwd, "a/b"), "/x/y/", filepath.Join(cwd, "c") + "/"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected paths (-want +got):\n%s", diff)
	}
}
