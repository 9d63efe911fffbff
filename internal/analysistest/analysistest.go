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

// Package analysistest loads the test cases of the analyses. A test case is a txtar archive containing one or more
// .clar contracts and an optional config.yaml. The contracts can carry ;; @Source(id) and ;; @Sink(id) markers that
// describe the flows the taint checker should report.
package analysistest

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/awslabs/argot-clarity/analysis/annotations"
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"golang.org/x/tools/txtar"
)

// ConfigFile is the name of the config file in a test archive
const ConfigFile = "config.yaml"

// MainContract is the name of the contract analyzed by single-contract tests
const MainContract = "contract.clar"

// TestCase is a loaded test archive
type TestCase struct {
	// Name is the name of the archive
	Name string
	// Config is the config of the archive, or the default config
	Config *config.Config
	// Contracts are the contracts of the archive, sorted by file name
	Contracts []*clarity.Contract
	// Annotations maps the contract paths to their annotations
	Annotations map[string][]annotations.Annotation
	// Comment is the comment at the top of the archive, usually describing the test
	Comment string
}

// Contract returns the main contract of the test case: contract.clar if the archive has one, otherwise the first
// contract.
func (tc *TestCase) Contract() *clarity.Contract {
	for _, c := range tc.Contracts {
		if c.Path == MainContract {
			return c
		}
	}
	if len(tc.Contracts) == 0 {
		return nil
	}
	return tc.Contracts[0]
}

// LoadTest loads the archive filename from the file system
func LoadTest(fsys fs.FS, filename string) (*TestCase, error) {
	b, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("could not read test archive: %w", err)
	}
	return LoadArchive(filename, b)
}

// LoadArchive loads a test case from the contents of an archive
func LoadArchive(name string, data []byte) (*TestCase, error) {
	archive := txtar.Parse(data)
	tc := &TestCase{
		Name:        name,
		Config:      config.NewDefault(),
		Annotations: map[string][]annotations.Annotation{},
		Comment:     strings.TrimSpace(string(archive.Comment)),
	}
	for _, f := range archive.Files {
		if f.Name == ConfigFile {
			cfg, err := config.Load(path.Join(path.Dir(name), f.Name), f.Data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			tc.Config = cfg
		}
	}
	logger := config.NewLogGroup(tc.Config)
	for _, f := range archive.Files {
		if path.Ext(f.Name) != ".clar" {
			continue
		}
		id := clarity.QualifiedContractIdentifier{
			Issuer: tc.Config.Deployer,
			Name:   strings.TrimSuffix(path.Base(f.Name), ".clar"),
		}
		contract, err := clarity.Parse(f.Name, string(f.Data), id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		annots, err := annotations.Collect(logger, contract)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		tc.Contracts = append(tc.Contracts, contract)
		tc.Annotations[contract.Path] = annots
	}
	sort.Slice(tc.Contracts, func(i, j int) bool { return tc.Contracts[i].Path < tc.Contracts[j].Path })
	return tc, nil
}

// LoadAll loads all the archives with extension .txtar in the directory dir
func LoadAll(fsys fs.FS, dir string) ([]*TestCase, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var cases []*TestCase
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txtar" {
			continue
		}
		tc, err := LoadTest(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

// SourceRegex matches markers of the form "@Source(id1, id2, id3)"
var SourceRegex = regexp.MustCompile(`;.*@Source\(((?:\s*[\w\-]+\s*,?)+)\)`)

// SinkRegex matches markers of the form "@Sink(id1, id2, id3)"
var SinkRegex = regexp.MustCompile(`;.*@Sink\(((?:\s*[\w\-]+\s*,?)+)\)`)

// LPos is a simple line-file position indicator.
type LPos struct {
	Filename string
	Line     int
}

func (p LPos) String() string {
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

func markerIdents(re *regexp.Regexp, text string) []string {
	a := re.FindStringSubmatch(text)
	if len(a) <= 1 {
		return nil
	}
	var idents []string
	for _, ident := range strings.Split(a[1], ",") {
		idents = append(idents, strings.TrimSpace(ident))
	}
	return idents
}

// ExpectedFlows looks for comments @Source(id) and @Sink(id) in the contract to construct the expected flows from
// sources to sinks, in the form of a map from sink positions to all the source positions that reach that sink.
func ExpectedFlows(contract *clarity.Contract) map[LPos]map[LPos]bool {
	sourceIds := map[string]LPos{}
	for _, c := range contract.Comments {
		for _, ident := range markerIdents(SourceRegex, c.Text) {
			sourceIds[ident] = LPos{Filename: contract.Path, Line: c.Span.StartLine}
		}
	}
	sink2sources := map[LPos]map[LPos]bool{}
	for _, c := range contract.Comments {
		sinkPos := LPos{Filename: contract.Path, Line: c.Span.StartLine}
		for _, ident := range markerIdents(SinkRegex, c.Text) {
			if sourcePos, ok := sourceIds[ident]; ok {
				if _, ok := sink2sources[sinkPos]; !ok {
					sink2sources[sinkPos] = map[LPos]bool{}
				}
				sink2sources[sinkPos][sourcePos] = true
			}
		}
	}
	return sink2sources
}

// ReportedFlows returns the flows reported in the diagnostics of the contract at path: every warning followed by
// notes is a flow from the lines of the notes to the line of the warning.
func ReportedFlows(path string, diags []diagnostics.Diagnostic) map[LPos]map[LPos]bool {
	flows := map[LPos]map[LPos]bool{}
	for _, group := range diagnostics.Groups(diags) {
		if len(group) < 2 {
			continue
		}
		sinkPos := LPos{Filename: path, Line: group[0].FirstSpan().StartLine}
		if _, ok := flows[sinkPos]; !ok {
			flows[sinkPos] = map[LPos]bool{}
		}
		for _, note := range group[1:] {
			flows[sinkPos][LPos{Filename: path, Line: note.FirstSpan().StartLine}] = true
		}
	}
	return flows
}

// CheckFlows reports, as test errors, the flows that were expected but not reported and the flows that were
// reported but not expected. Returns true when both sets of flows are the same.
func CheckFlows(t *testing.T, expected, reported map[LPos]map[LPos]bool) bool {
	ok := true
	for sink, sources := range reported {
		for source := range sources {
			if !expected[sink][source] {
				t.Errorf("false positive: flow from %s to %s", source, sink)
				ok = false
			}
		}
	}
	for sink, sources := range expected {
		for source := range sources {
			if !reported[sink][source] {
				t.Errorf("missed flow from %s to %s", source, sink)
				ok = false
			}
		}
	}
	return ok
}
