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

package taint

import (
	"github.com/awslabs/argot-clarity/analysis/annotations"
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"golang.org/x/exp/slices"
)

const noAnnotation = -1

// resolver tracks the annotation that applies to the expression being traversed.
// The annotations must be sorted by line.
type resolver struct {
	annotations []annotations.Annotation
	active      int
}

func newResolver(annots []annotations.Annotation) *resolver {
	sorted := slices.Clone(annots)
	slices.SortStableFunc(sorted, func(a, b annotations.Annotation) int { return a.Line() - b.Line() })
	return &resolver{annotations: sorted, active: noAnnotation}
}

// resolve sets the active annotation to the annotation on the line directly above span, if there is one.
// It returns the previously active annotation, to be passed to restore when the expression has been traversed.
func (r *resolver) resolve(span clarity.Span) int {
	prev := r.active
	target := span.StartLine - 1
	i, found := slices.BinarySearchFunc(r.annotations, target, func(a annotations.Annotation, line int) int {
		return a.Line() - line
	})
	if found {
		r.active = i
	} else {
		r.active = noAnnotation
	}
	return prev
}

func (r *resolver) restore(prev int) {
	r.active = prev
}

// current returns the active annotation
func (r *resolver) current() (annotations.Annotation, bool) {
	if r.active == noAnnotation {
		return annotations.Annotation{}, false
	}
	return r.annotations[r.active], true
}

// allow returns true when the active annotation is allow(kind)
func (r *resolver) allow(kind annotations.WarningKind) bool {
	a, ok := r.current()
	return ok && a.Allows(kind)
}
