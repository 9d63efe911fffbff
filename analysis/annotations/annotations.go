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

// Package annotations parses the pragmas that users write in Clarity comments to guide the checker.
//
// A pragma is a comment of the form
//
//	;; #[allow(unchecked_data)]
//	;; #[allow(unchecked_params)]
//	;; #[filter(amount, recipient)]
//	;; #[filter(*)]
//
// and applies to the expression that starts on the line directly below it.
package annotations

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/internal/funcutil"
	"golang.org/x/exp/slices"
)

const pragmaPrefix = "#["

// AnnotationKind characterizes the kind of annotations that can be used in a contract.
type AnnotationKind int

const (
	// Allow is the kind of allow(...) annotations
	Allow AnnotationKind = iota
	// Filter is the kind of filter(name, ...) annotations
	Filter
	// FilterAll is the kind of filter(*) annotations
	FilterAll
)

func (k AnnotationKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Filter, FilterAll:
		return "filter"
	}
	return "unknown"
}

// WarningKind is the kind of warning an allow annotation silences
type WarningKind int

const (
	// UncheckedData allows unchecked data in the annotated expression. The expression is not analyzed.
	UncheckedData WarningKind = iota
	// UncheckedParams allows the parameters of a private function to be unchecked. The parameters become sources.
	UncheckedParams
)

var warningKinds = map[string]WarningKind{
	"unchecked_data":   UncheckedData,
	"unchecked_params": UncheckedParams,
}

func (w WarningKind) String() string {
	switch w {
	case UncheckedData:
		return "unchecked_data"
	case UncheckedParams:
		return "unchecked_params"
	}
	return "unknown"
}

// pragmaRegex matches the contents of a pragma: name or name(value)
var pragmaRegex = regexp.MustCompile(`^([[:word:]]+)(\(([^)]+)\))?$`)

// Annotation contains the parsed content of a pragma and the position of the comment it was found in.
type Annotation struct {
	// Kind of the annotation
	Kind AnnotationKind
	// Warning is the warning kind of Allow annotations
	Warning WarningKind
	// Names are the names of Filter annotations
	Names []string
	// Span is the span of the comment containing the annotation
	Span clarity.Span
}

// Line returns the line the annotation is anchored to
func (a Annotation) Line() int {
	return a.Span.StartLine
}

// Allows returns true when the annotation is allow(kind)
func (a Annotation) Allows(kind WarningKind) bool {
	return a.Kind == Allow && a.Warning == kind
}

func (a Annotation) String() string {
	switch a.Kind {
	case Allow:
		return "allow(" + a.Warning.String() + ")"
	case Filter:
		return "filter(" + strings.Join(a.Names, ", ") + ")"
	case FilterAll:
		return "filter(*)"
	}
	return "unknown"
}

// Parse parses the contents of a pragma, without the enclosing #[ ].
// The span of the returned annotation is not set.
func Parse(text string) (Annotation, error) {
	text = strings.TrimSpace(text)
	idx := strings.IndexByte(text, '(')
	base := text
	if idx >= 0 {
		base = text[:idx]
	}
	// hyphens are tolerated in the base name but values are symbols and must be kept as is
	normalized := strings.ReplaceAll(base, "-", "_") + text[len(base):]
	groups := pragmaRegex.FindStringSubmatch(normalized)
	if groups == nil {
		return Annotation{}, fmt.Errorf("malformed annotation %q", text)
	}
	name, hasValue, value := groups[1], groups[2] != "", groups[3]
	switch name {
	case "allow":
		if !hasValue {
			return Annotation{}, fmt.Errorf("allow annotation requires a warning kind")
		}
		kind, ok := warningKinds[strings.ReplaceAll(strings.TrimSpace(value), "-", "_")]
		if !ok {
			return Annotation{}, fmt.Errorf("unknown warning kind %q in allow annotation", value)
		}
		return Annotation{Kind: Allow, Warning: kind}, nil
	case "filter":
		if !hasValue {
			return Annotation{}, fmt.Errorf("filter annotation requires a list of names or *")
		}
		if strings.TrimSpace(value) == "*" {
			return Annotation{Kind: FilterAll}, nil
		}
		names := funcutil.Map(strings.Split(value, ","), strings.TrimSpace)
		if slices.Contains(names, "") {
			return Annotation{}, fmt.Errorf("empty name in filter annotation %q", text)
		}
		return Annotation{Kind: Filter, Names: names}, nil
	}
	return Annotation{}, fmt.Errorf("unknown annotation %q", name)
}

// extractPragma returns the contents of the pragma in the comment text, if there is one
func extractPragma(comment string) (string, bool) {
	text := strings.TrimSpace(strings.TrimLeft(comment, ";"))
	if strings.HasPrefix(text, pragmaPrefix) && strings.HasSuffix(text, "]") {
		return text[len(pragmaPrefix) : len(text)-1], true
	}
	return "", false
}

// Collect loads the annotations of the contract from its comments. The annotations are returned sorted by line.
// Malformed annotations are skipped with a warning, and are also returned as a joined error: the annotations that
// could be parsed are always returned. The function also warns when a comment looks like it should be a pragma.
func Collect(logger *config.LogGroup, contract *clarity.Contract) ([]Annotation, error) {
	var annots []Annotation
	var errs []error
	for _, comment := range contract.Comments {
		content, isPragma := extractPragma(comment.Text)
		if !isPragma {
			if strings.Contains(comment.Text, pragmaPrefix) {
				logger.Warnf("possible annotation mistake at %s:%d: %s has \"#[\" but is not a pragma",
					contract.Path, comment.Span.StartLine, comment.Text)
			}
			continue
		}
		annot, err := Parse(content)
		if err != nil {
			logger.Warnf("ignoring annotation at %s:%d: %s", contract.Path, comment.Span.StartLine, err)
			errs = append(errs, fmt.Errorf("%s:%d: %w", contract.Path, comment.Span.StartLine, err))
			continue
		}
		annot.Span = comment.Span
		logger.Tracef("annotation %s at %s:%d", annot, contract.Path, annot.Line())
		annots = append(annots, annot)
	}
	slices.SortStableFunc(annots, func(a, b Annotation) int { return a.Line() - b.Line() })
	return annots, errors.Join(errs...)
}
