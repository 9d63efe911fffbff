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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/awslabs/argot-clarity/cmd/argot/tools"
)

func runCheck(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flags, err := NewFlags(append([]string{"-no-color"}, args...))
	if err != nil {
		t.Fatalf("invalid flags %v: %s", args, err)
	}
	var b bytes.Buffer
	err = run(flags, &b)
	return b.String(), err
}

func TestCheckReportsUncheckedData(t *testing.T) {
	out, err := runCheck(t, "testdata/contracts")
	if err != nil {
		t.Fatalf("check failed: %s", err)
	}
	if !strings.Contains(out, "testdata/contracts/token.clar:5:") ||
		!strings.Contains(out, "use of potentially unchecked data") {
		t.Errorf("expected a warning in token.clar, got:\n%s", out)
	}
	if strings.Contains(out, "private-function-not-used") {
		t.Errorf("the linter is disabled by default, got:\n%s", out)
	}
}

func TestCheckFailOnWarning(t *testing.T) {
	_, err := runCheck(t, "-fail-on-warning", "-format", "json", "testdata/contracts")
	if !errors.Is(err, tools.ErrFindings) {
		t.Errorf("expected findings, got %v", err)
	}
	_, err = runCheck(t, "-fail-on-warning", "-exclude", "testdata/contracts/token.clar", "testdata/contracts")
	if err != nil {
		t.Errorf("expected no warning without token.clar, got %v", err)
	}
}

func TestCheckWithLinter(t *testing.T) {
	out, err := runCheck(t, "-config", "testdata/config.yaml", "-format", "yaml", "testdata/contracts")
	if err != nil {
		t.Fatalf("check failed: %s", err)
	}
	if !strings.Contains(out, "rule: private-function-not-used") {
		t.Errorf("expected a lint finding, got:\n%s", out)
	}
}

func TestCheckWithoutPaths(t *testing.T) {
	if _, err := runCheck(t); err == nil {
		t.Errorf("expected an error without paths")
	}
}
