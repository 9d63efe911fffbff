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

package clarity

import "fmt"

// Span is a region of a contract's source. Lines and columns start at 1, and the end position is inclusive.
type Span struct {
	StartLine   int `yaml:"start-line" json:"start_line"`
	StartColumn int `yaml:"start-column" json:"start_column"`
	EndLine     int `yaml:"end-line" json:"end_line"`
	EndColumn   int `yaml:"end-column" json:"end_column"`
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}

// IsZero returns true for the span of a synthesized node that has no source location
func (s Span) IsZero() bool {
	return s == Span{}
}

// Compare orders spans by start line, then start column, then end line and end column.
// Returns a negative number when a < b, 0 when a == b and a positive number when a > b.
func Compare(a, b Span) int {
	if c := a.StartLine - b.StartLine; c != 0 {
		return c
	}
	if c := a.StartColumn - b.StartColumn; c != 0 {
		return c
	}
	if c := a.EndLine - b.EndLine; c != 0 {
		return c
	}
	return a.EndColumn - b.EndColumn
}

// Join returns the smallest span covering both a and b
func Join(a, b Span) Span {
	start, end := a, b
	if Compare(b, a) < 0 {
		start = b
	}
	if b.EndLine < a.EndLine || (b.EndLine == a.EndLine && b.EndColumn < a.EndColumn) {
		end = a
	}
	return Span{
		StartLine:   start.StartLine,
		StartColumn: start.StartColumn,
		EndLine:     end.EndLine,
		EndColumn:   end.EndColumn,
	}
}
