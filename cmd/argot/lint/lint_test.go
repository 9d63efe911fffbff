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


package lint

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/awslabs/argot-clarity/cmd/argot/tools"
	"github.com/google/go-cmp/cmp"
)

func runLint(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flags, err := NewFlags(append([]string{"-no-color"}, args...))
	if err != nil {
		t.Fatalf("invalid flags %v: %s", args, err)
	}
	var b bytes.Buffer
	err = run(flags, &b)
	return b.String(), err
}

func TestLintAllRules(t *testing.T) {
	out, err := runLint(t, "-fail-on-warning", "testdata/lint.clar")
	if !errors.Is(err, tools.ErrFindings) {
		t.Errorf("expected findings, got %v", err)
	}
	for _, rule := range []string{"assert-block-height", "divide-before-multiply", "unwrap-panic"} {
		if !strings.Contains(out, "["+rule+"]") {
			t.Errorf("expected a finding of %s, got:\n%s", rule, out)
		}
	}
	if strings.Contains(out, "use of potentially unchecked data") {
		t.Errorf("lint should not run the taint checker, got:\n%s", out)
	}
}

func TestLintFilter(t *testing.T) {
	out, err := runLint(t, "-filter", "unwrap-panic, divide-before-multiply", "-exclude-rule", "divide-before-multiply",
		"-format", "yaml", "testdata/lint.clar")
	if err != nil {
		t.Fatalf("lint failed: %s", err)
	}
	if strings.Count(out, "rule: ") != 1 || !strings.Contains(out, "rule: unwrap-panic") {
		t.Errorf("expected only unwrap-panic, got:\n%s", out)
	}
}

func TestLintUnknownRule(t *testing.T) {
	_, err := runLint(t, "-filter", "no-such-rule", "testdata/lint.clar")
	if err == nil || !strings.Contains(err.Error(), "unknown lint rule") {
		t.Errorf("expected an unknown rule error, got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b"}, splitList(" a,,b ,")); diff != "" {
		t.Errorf("unexpected list (-want +got):\n%s", diff)
	}
	if got := splitList(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
