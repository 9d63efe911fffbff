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
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// UncheckedDataMessage is the message of the warning reported when unchecked data reaches a sink
	UncheckedDataMessage = "use of potentially unchecked data"
	// SourceMessage is the message of the notes that locate the sources of the unchecked data
	SourceMessage = "source of untrusted input here"
	// UnsafeAuthenticationMessage is the message of the warning reported for (asserts! (is-eq tx-sender ...))
	UnsafeAuthenticationMessage = "use of tx-sender inside an assert"
	unsafeAuthenticationHint    = "tx-sender is the origin of the transaction, which may not be the direct caller;" +
		" use contract-caller to authenticate the caller"
)

// collector holds the groups of diagnostics, keyed by the identifier of the expression that triggered them.
// A group can be replaced or removed until the analysis finishes.
type collector struct {
	groups map[uint64][]diagnostics.Diagnostic
}

func newCollector() *collector {
	return &collector{groups: map[uint64][]diagnostics.Diagnostic{}}
}

func (c *collector) set(id uint64, group []diagnostics.Diagnostic) {
	c.groups[id] = group
}

// removeFlow discards the unchecked data group of id. Other groups under id, such as unsafe authentication
// warnings, do not depend on taint and stay.
func (c *collector) removeFlow(id uint64) {
	if group, ok := c.groups[id]; ok && group[0].Message == UncheckedDataMessage {
		delete(c.groups, id)
	}
}

// uncheckedDataGroup builds the group reported when expr is tainted by sources located at sourceSpans
func uncheckedDataGroup(expr *clarity.Expr, sourceSpans []clarity.Span) []diagnostics.Diagnostic {
	group := []diagnostics.Diagnostic{{
		Level:   diagnostics.Warning,
		Message: UncheckedDataMessage,
		Spans:   []clarity.Span{expr.Span},
	}}
	var spans []clarity.Span
	for _, span := range sourceSpans {
		pos, found := slices.BinarySearchFunc(spans, span, clarity.Compare)
		if !found {
			spans = slices.Insert(spans, pos, span)
		}
	}
	for _, span := range spans {
		group = append(group, diagnostics.Diagnostic{
			Level:   diagnostics.Note,
			Message: SourceMessage,
			Spans:   []clarity.Span{span},
		})
	}
	return group
}

func unsafeAuthenticationGroup(expr *clarity.Expr) []diagnostics.Diagnostic {
	return []diagnostics.Diagnostic{{
		Level:      diagnostics.Warning,
		Message:    UnsafeAuthenticationMessage,
		Spans:      []clarity.Span{expr.Span},
		Suggestion: unsafeAuthenticationHint,
	}}
}

// finalize returns the diagnostics of all groups. Groups are ordered by their first span, and then by the
// identifier of the expression that triggered them.
func (c *collector) finalize() []diagnostics.Diagnostic {
	ids := maps.Keys(c.groups)
	slices.SortFunc(ids, func(a, b uint64) int {
		if cmp := clarity.Compare(c.groups[a][0].FirstSpan(), c.groups[b][0].FirstSpan()); cmp != 0 {
			return cmp
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})
	var res []diagnostics.Diagnostic
	for _, id := range ids {
		res = append(res, c.groups[id]...)
	}
	return res
}
