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

// Package diagnostics defines the diagnostics reported by the analyses.
package diagnostics

import (
	"fmt"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Level is the severity of a diagnostic
type Level int

const (
	// Note is the level of diagnostics that support another diagnostic
	Note Level = iota
	// Warning is the level of the findings of the analyses
	Warning
	// Error is the level of diagnostics that prevent a contract from being analyzed
	Error
)

var levelNames = map[Level]string{Note: "note", Warning: "warning", Error: "error"}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// MarshalYAML renders the level by name
func (l Level) MarshalYAML() (any, error) {
	return l.String(), nil
}

// UnmarshalYAML reads a level from its name
func (l *Level) UnmarshalYAML(node *yaml.Node) error {
	for level, name := range levelNames {
		if name == node.Value {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic level %q", node.Value)
}

// MarshalText renders the level by name, in json reports for example
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Diagnostic is one message about a contract, with the locations it refers to
type Diagnostic struct {
	Level   Level          `yaml:"level" json:"level"`
	Message string         `yaml:"message" json:"message"`
	Spans   []clarity.Span `yaml:"spans" json:"spans"`
	// Suggestion is an optional hint to fix the problem
	Suggestion string `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
	// Rule is the name of the lint rule that produced the diagnostic, empty for the taint checker
	Rule string `yaml:"rule,omitempty" json:"rule,omitempty"`
}

// FirstSpan returns the first span of the diagnostic, or a zero span
func (d Diagnostic) FirstSpan() clarity.Span {
	if len(d.Spans) == 0 {
		return clarity.Span{}
	}
	return d.Spans[0]
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s: %s", d.FirstSpan(), d.Level, d.Message)
	if d.Rule != "" {
		s += " [" + d.Rule + "]"
	}
	return s
}

// FileDiagnostics groups the diagnostics of one contract file
type FileDiagnostics struct {
	Path        string       `yaml:"path" json:"path"`
	Contract    string       `yaml:"contract" json:"contract"`
	Diagnostics []Diagnostic `yaml:"diagnostics" json:"diagnostics"`
}

// Groups splits diags into groups. A group starts with a diagnostic that is not a note, and contains the notes
// that follow it.
func Groups(diags []Diagnostic) [][]Diagnostic {
	var groups [][]Diagnostic
	for _, d := range diags {
		if d.Level != Note || len(groups) == 0 {
			groups = append(groups, []Diagnostic{d})
		} else {
			groups[len(groups)-1] = append(groups[len(groups)-1], d)
		}
	}
	return groups
}

// Sort sorts the groups of diagnostics by the first span of their head. The sort is stable, and notes stay after
// the diagnostic they support.
func Sort(diags []Diagnostic) {
	groups := Groups(diags)
	slices.SortStableFunc(groups, func(a, b []Diagnostic) int {
		return clarity.Compare(a[0].FirstSpan(), b[0].FirstSpan())
	})
	i := 0
	for _, g := range groups {
		i += copy(diags[i:], g)
	}
}

// CountAtLeast returns the number of diagnostics with a level at least level
func CountAtLeast(diags []Diagnostic, level Level) int {
	n := 0
	for _, d := range diags {
		if d.Level >= level {
			n++
		}
	}
	return n
}
