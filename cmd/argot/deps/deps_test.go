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


package deps

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/dependencies"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func runDeps(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flags, err := NewFlags(append([]string{"-no-color"}, args...))
	if err != nil {
		t.Fatalf("invalid flags %v: %s", args, err)
	}
	var b bytes.Buffer
	err = run(flags, &b)
	return b.String(), err
}

func TestPublishOrder(t *testing.T) {
	out, err := runDeps(t, "testdata/contracts")
	if err != nil {
		t.Fatalf("deps failed: %s", err)
	}
	d := config.DefaultDeployer
	want := "1. " + d + ".token\n" +
		"2. " + d + ".vault\n" +
		"     depends on " + d + ".token\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestCycle(t *testing.T) {
	out, err := runDeps(t, "testdata/cycle")
	var cycleErr *dependencies.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected a cycle error, got %v", err)
	}
	d := config.DefaultDeployer
	if !strings.Contains(out, "cycle: "+d+".a -> "+d+".b -> "+d+".a") {
		t.Errorf("expected the cycle in the output, got:\n%s", out)
	}
	out, err = runDeps(t, "-cycles", "-format", "json", "testdata/cycle")
	if err != nil {
		t.Fatalf("deps -cycles failed: %s", err)
	}
	if !strings.Contains(out, `"cycles"`) || strings.Contains(out, `"order"`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestUnresolved(t *testing.T) {
	out, err := runDeps(t, "-format", "yaml", "testdata/contracts/vault.clar")
	if err != nil {
		t.Fatalf("deps failed: %s", err)
	}
	var doc output
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid yaml: %s\n%s", err, out)
	}
	if diff := cmp.Diff([]string{config.DefaultDeployer + ".token"}, doc.Unresolved); diff != "" {
		t.Errorf("unexpected unresolved contracts (-want +got):\n%s", diff)
	}
	if len(doc.Order) != 1 || doc.Order[0].Contract != config.DefaultDeployer+".vault" {
		t.Errorf("unexpected order %v", doc.Order)
	}
}
