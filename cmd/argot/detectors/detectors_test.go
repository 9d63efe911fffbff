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
	"bytes"
	"strings"
	"testing"

	"github.com/awslabs/argot-clarity/analysis/detectors"
	"github.com/awslabs/argot-clarity/internal/formatutil"
	"github.com/google/go-cmp/cmp"
)

func TestListNames(t *testing.T) {
	var b bytes.Buffer
	if err := run(Flags{namesOnly: true}, &b); err != nil {
		t.Fatal(err)
	}
	got := strings.Fields(b.String())
	if diff := cmp.Diff(detectors.Names(), got); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
}

func TestListRules(t *testing.T) {
	formatutil.SetColors(false)
	var b bytes.Buffer
	if err := run(Flags{}, &b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	rules := detectors.All()
	if len(lines) != len(rules) {
		t.Fatalf("expected one line per rule, got:\n%s", b.String())
	}
	for i, rule := range rules {
		if !strings.HasPrefix(lines[i], rule.Name()) || !strings.HasSuffix(lines[i], rule.Description()) {
			t.Errorf("unexpected line for %s: %q", rule.Name(), lines[i])
		}
	}
}
