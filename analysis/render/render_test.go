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


package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/awslabs/argot-clarity/analysis"
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/internal/formatutil"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const tokenSource = `(define-public (mint (amount uint))
  (begin
    (var-set supply amount)
    (ok true)))
`

func testReport() (analysis.Report, map[string]*clarity.Contract) {
	id := clarity.QualifiedContractIdentifier{Issuer: "ST000000000000000000002AMW42H", Name: "token"}
	contract := &clarity.Contract{Identifier: id, Path: "token.clar", Source: tokenSource}
	report := analysis.Report{
		Order: []clarity.QualifiedContractIdentifier{id},
		Files: []diagnostics.FileDiagnostics{{
			Path:     "token.clar",
			Contract: id.String(),
			Diagnostics: []diagnostics.Diagnostic{
				{
					Level:   diagnostics.Warning,
					Message: "use of potentially unchecked data",
					Spans:   []clarity.Span{{StartLine: 3, StartColumn: 21, EndLine: 3, EndColumn: 26}},
				},
				{
					Level:   diagnostics.Note,
					Message: "source of untrusted input here",
					Spans:   []clarity.Span{{StartLine: 1, StartColumn: 23, EndLine: 1, EndColumn: 28}},
				},
				{
					Level:      diagnostics.Warning,
					Message:    "use of tx-sender inside an assert",
					Spans:      []clarity.Span{{StartLine: 2, StartColumn: 3, EndLine: 4, EndColumn: 14}},
					Suggestion: "use contract-caller",
					Rule:       "tx-sender-in-assert",
				},
			},
		}},
	}
	return report, map[string]*clarity.Contract{contract.Path: contract}
}

func TestText(t *testing.T) {
	formatutil.SetColors(false)
	report, sources := testReport()
	var b bytes.Buffer
	if err := Text(&b, report, sources); err != nil {
		t.Fatalf("failed to render: %s", err)
	}
	want := strings.Join([]string{
		"token.clar:3:21: warning: use of potentially unchecked data",
		" 3 |     (var-set supply amount)",
		"   |                     ^^^^^^",
		"  token.clar:1:23: note: source of untrusted input here",
		"   1 | (define-public (mint (amount uint))",
		"     |                       ^^^^^^",
		"",
		"token.clar:2:3: warning: use of tx-sender inside an assert [tx-sender-in-assert]",
		" 2 |   (begin",
		"   |   ^^^^^^",
		"  = help: use contract-caller",
		"",
		"1 contract analyzed: 2 warnings, 0 errors",
		"",
	}, "\n")
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("unexpected text (-want +got):\n%s", diff)
	}
}

func TestTextWithoutSource(t *testing.T) {
	formatutil.SetColors(false)
	report, _ := testReport()
	report.Files[0].Diagnostics = append(report.Files[0].Diagnostics, diagnostics.Diagnostic{
		Level:   diagnostics.Error,
		Message: "lint rules restless did not settle after 8 rounds",
	})
	var b bytes.Buffer
	if err := Text(&b, report, nil); err != nil {
		t.Fatalf("failed to render: %s", err)
	}
	out := b.String()
	if strings.Contains(out, " | ") {
		t.Errorf("expected no source lines, got:\n%s", out)
	}
	if !strings.Contains(out, "token.clar: error: lint rules restless") {
		t.Errorf("expected the error without location, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "1 contract analyzed: 2 warnings, 1 error\n") {
		t.Errorf("unexpected summary in:\n%s", out)
	}
}

func TestYAML(t *testing.T) {
	report, _ := testReport()
	var b bytes.Buffer
	if err := YAML(&b, report); err != nil {
		t.Fatalf("failed to render: %s", err)
	}
	var doc struct {
		Files []struct {
			Path        string
			Diagnostics []struct {
				Level diagnostics.Level
				Rule  string
			}
		}
	}
	if err := yaml.Unmarshal(b.Bytes(), &doc); err != nil {
		t.Fatalf("invalid yaml: %s\n%s", err, b.String())
	}
	if len(doc.Files) != 1 || doc.Files[0].Path != "token.clar" || len(doc.Files[0].Diagnostics) != 3 {
		t.Fatalf("unexpected document:\n%s", b.String())
	}
	if d := doc.Files[0].Diagnostics[1]; d.Level != diagnostics.Note {
		t.Errorf("expected a note, got %s", d.Level)
	}
}

func TestJSON(t *testing.T) {
	report, _ := testReport()
	var b bytes.Buffer
	if err := JSON(&b, report); err != nil {
		t.Fatalf("failed to render: %s", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %s\n%s", err, b.String())
	}
	if !strings.Contains(b.String(), `"level": "warning"`) || !strings.Contains(b.String(), `"start_line": 3`) {
		t.Errorf("unexpected json:\n%s", b.String())
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "YAML", "json"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("unexpected error for %q: %s", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("expected an error for xml")
	}
}
