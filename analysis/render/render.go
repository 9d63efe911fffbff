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


// Package render writes the reports of the analyses, as text for a terminal or as yaml or json for other tools.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/awslabs/argot-clarity/analysis"
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/internal/formatutil"
	"gopkg.in/yaml.v3"
)

// Format is an output format of the reports
type Format string

const (
	// TextFormat is the compiler-style format
	TextFormat Format = "text"
	// YAMLFormat is the yaml serialization of the report
	YAMLFormat Format = "yaml"
	// JSONFormat is the json serialization of the report
	JSONFormat Format = "json"
)

// ParseFormat returns the format named s
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case TextFormat, YAMLFormat, JSONFormat:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q, expected one of text, yaml, json", s)
}

// Write writes the report in format f. The sources are only used by the text format.
func Write(w io.Writer, f Format, report analysis.Report, sources map[string]*clarity.Contract) error {
	switch f {
	case YAMLFormat:
		return YAML(w, report)
	case JSONFormat:
		return JSON(w, report)
	default:
		return Text(w, report, sources)
	}
}

// YAML writes the report as a yaml document
func YAML(w io.Writer, report analysis.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("could not render report: %w", err)
	}
	return enc.Close()
}

// JSON writes the report as an indented json object
func JSON(w io.Writer, report analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("could not render report: %w", err)
	}
	return nil
}

// Text writes the diagnostics of the report in the style of a compiler: a header with the location, the level and
// the message, followed by the source line with the location underlined. Notes are indented under the diagnostic
// they support. The last line counts the warnings and errors.
func Text(w io.Writer, report analysis.Report, sources map[string]*clarity.Contract) error {
	tw := &textWriter{w: w}
	for _, file := range report.Files {
		for _, group := range diagnostics.Groups(file.Diagnostics) {
			for i, d := range group {
				indent := ""
				if i > 0 {
					indent = "  "
				}
				tw.diagnostic(indent, file.Path, d, sources[file.Path])
			}
			tw.printf("\n")
		}
	}
	warnings := report.Count(diagnostics.Warning) - report.Count(diagnostics.Error)
	errs := report.Count(diagnostics.Error)
	summary := fmt.Sprintf("%s analyzed: %s, %s", plural(len(report.Files), "contract"),
		plural(warnings, "warning"), plural(errs, "error"))
	switch {
	case errs > 0:
		summary = formatutil.Red(summary)
	case warnings > 0:
		summary = formatutil.Yellow(summary)
	default:
		summary = formatutil.Green(summary)
	}
	tw.printf("%s\n", summary)
	return tw.err
}

// textWriter keeps the first error of a sequence of writes
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *textWriter) diagnostic(indent string, path string, d diagnostics.Diagnostic, contract *clarity.Contract) {
	span := d.FirstSpan()
	location := path
	if !span.IsZero() {
		location = fmt.Sprintf("%s:%d:%d", path, span.StartLine, span.StartColumn)
	}
	message := formatutil.Sanitize(d.Message)
	if d.Rule != "" {
		message += " " + formatutil.Faint("["+d.Rule+"]")
	}
	tw.printf("%s%s: %s: %s\n", indent, formatutil.Bold(location), levelColor(d.Level)(d.Level), message)

	if contract != nil && !span.IsZero() {
		if line := contract.SourceLine(span.StartLine); line != "" {
			number := fmt.Sprintf("%d", span.StartLine)
			gutter := strings.Repeat(" ", len(number))
			tw.printf("%s %s | %s\n", indent, formatutil.Cyan(number), formatutil.SanitizeLine(line))
			tw.printf("%s %s | %s\n", indent, gutter, levelColor(d.Level)(underline(line, span)))
		}
	}
	if d.Suggestion != "" {
		tw.printf("%s  = help: %s\n", indent, formatutil.Sanitize(d.Suggestion))
	}
}

// underline returns the marker line for the span on line: spaces up to the start column, then carets up to the
// end column, or the end of the line if the span continues on the next lines. Tabs are kept so that the carets stay
// aligned with the source.
func underline(line string, span clarity.Span) string {
	runes := []rune(line)
	start := span.StartColumn - 1
	if start < 0 || start >= len(runes) {
		return ""
	}
	end := len(runes)
	if span.EndLine == span.StartLine && span.EndColumn <= len(runes) && span.EndColumn > start {
		end = span.EndColumn
	}
	var b strings.Builder
	for _, r := range runes[:start] {
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	b.WriteString(strings.Repeat("^", end-start))
	return b.String()
}

func levelColor(l diagnostics.Level) func(...interface{}) string {
	switch l {
	case diagnostics.Error:
		return formatutil.Red
	case diagnostics.Warning:
		return formatutil.Yellow
	default:
		return formatutil.Purple
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
