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


package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/internal/formatutil"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/term"
)

func TestParseCommand(t *testing.T) {
	got := ParseCommand(`focus "my token" -p --regex abc arg`)
	want := Command{
		Name:      "focus",
		Args:      []string{"my token", "arg"},
		NamedArgs: map[string]string{"regex": "abc"},
		Flags:     map[string]bool{"p": true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected command (-want +got):\n%s", diff)
	}
	if got := ParseCommand(`show "unterminated`); got.Name != "" {
		t.Errorf("expected no command for an unterminated quote, got %q", got.Name)
	}
	if got := ParseCommand("ls").Arg(0, "def"); got != "def" {
		t.Errorf("expected the default argument, got %q", got)
	}
}

func newTestState(t *testing.T) (*State, *term.Terminal, *bytes.Buffer) {
	t.Helper()
	formatutil.SetColors(false)
	cfg := config.NewDefault()
	s, err := NewState(cfg, "", []string{"testdata"})
	if err != nil {
		t.Fatalf("failed to load contracts: %s", err)
	}
	s.Logger.SetAllOutput(io.Discard)
	out := &bytes.Buffer{}
	tt := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{strings.NewReader(""), out}, "> ")
	return s, tt, out
}

// interpretAll runs the commands and returns the output of the last one
func interpretAll(tt *term.Terminal, s *State, out *bytes.Buffer, commands ...string) string {
	for _, c := range commands {
		out.Reset()
		interpret(tt, s, c)
	}
	return out.String()
}

func TestInterpret(t *testing.T) {
	s, tt, out := newTestState(t)
	tests := []struct {
		commands []string
		contains []string
	}{
		{[]string{"ls"}, []string{"token", "vault"}},
		{[]string{"focus tok"}, []string{"no contract named \"tok\""}},
		{[]string{"focus token", "functions"}, []string{"define-public", "token.mint(amount)", "(1 matching functions)"}},
		{[]string{"show mint"}, []string{"(var-set supply amount)", "(ok true)))"}},
		{[]string{"show 5"}, []string{" |     (var-set supply amount)"}},
		{[]string{"check"}, []string{"use of potentially unchecked data", "1 contract analyzed"}},
		{[]string{"unfocus", "functions -p"}, []string{"vault.deposit(amount)", "(2 matching functions)"}},
		{[]string{"where unused"}, []string{"testdata/vault.clar:7:1 unused"}},
		{[]string{"lint private-function-not-used"}, []string{"[private-function-not-used]", "2 contracts analyzed"}},
		{[]string{"deps"}, []string{"1. " + config.DefaultDeployer + ".token", "2. " + config.DefaultDeployer + ".vault"}},
		{[]string{"rules"}, []string{"unwrap-panic"}},
		{[]string{"state?"}, []string{"none (default config)", "# contracts       : 2"}},
		{[]string{"nope"}, []string{"Command name \"nope\" not recognized.", "Commands:"}},
	}
	for _, test := range tests {
		got := interpretAll(tt, s, out, test.commands...)
		for _, want := range test.contains {
			if !strings.Contains(got, want) {
				t.Errorf("output of %v does not contain %q:\n%s", test.commands, want, got)
			}
		}
	}
	if !interpret(tt, s, "exit") {
		t.Errorf("exit should stop the terminal")
	}
}

func TestReconfig(t *testing.T) {
	s, tt, out := newTestState(t)
	got := interpretAll(tt, s, out, "reconfig testdata/missing.yaml")
	if !strings.Contains(got, "could not read config file") {
		t.Errorf("expected an error, got:\n%s", got)
	}
	got = interpretAll(tt, s, out, "reconfig")
	if !strings.Contains(got, "Using the default config.") {
		t.Errorf("expected the default config, got:\n%s", got)
	}
}

func TestAutoComplete(t *testing.T) {
	s, _, _ := newTestState(t)
	complete := AutoCompleteOfState(s)
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"foc", "focus ", true},
		{"focus v", "focus vault ", true},
		{"sho", "show ", true},
		{"s", "", false},
		{"focus ", "", false},
		{"check ", "", false},
	}
	for _, test := range tests {
		got, pos, ok := complete(test.line, len(test.line), '\t')
		if ok != test.ok || got != test.want || (ok && pos != len(got)) {
			t.Errorf("completion of %q = %q, %d, %v; want %q, %v", test.line, got, pos, ok, test.want, test.ok)
		}
	}
	if _, _, ok := complete("foc", 3, 'a'); ok {
		t.Errorf("only tab completes")
	}
}
