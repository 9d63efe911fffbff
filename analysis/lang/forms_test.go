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

package lang_test

import (
	"testing"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/lang"
)

func parseOne(t *testing.T, src string) *clarity.Expr {
	c, err := clarity.Parse("test.clar", src, clarity.QualifiedContractIdentifier{Issuer: "ST1", Name: "test"})
	if err != nil {
		t.Fatalf("failed to parse %q: %v", src, err)
	}
	if len(c.Expressions) != 1 {
		t.Fatalf("expected one expression in %q", src)
	}
	return c.Expressions[0]
}

func TestMatchDefineFunction(t *testing.T) {
	e := parseOne(t, "(define-private (move (amount uint) (flag bool)) (ok amount))")
	def, ok := lang.MatchDefineFunction(e)
	if !ok {
		t.Fatalf("expected a function definition")
	}
	if def.Kind != lang.DefinePrivate || def.Name != "move" || len(def.Params) != 2 {
		t.Errorf("unexpected definition %+v", def)
	}
	if !lang.IsExemptType(def.Params[1].TypeExpr, []string{"bool"}) {
		t.Errorf("bool parameter should be exempt")
	}
	if lang.IsExemptType(def.Params[0].TypeExpr, []string{"bool"}) {
		t.Errorf("uint parameter should not be exempt")
	}
	if _, ok := lang.MatchDefineFunction(parseOne(t, "(define-constant x u1)")); ok {
		t.Errorf("define-constant is not a function definition")
	}
}

func TestMatchLet(t *testing.T) {
	bindings, body, ok := lang.MatchLet(parseOne(t, "(let ((a u1) (b (+ a u1))) (print a) b)"))
	if !ok {
		t.Fatalf("expected a let form")
	}
	if len(bindings) != 2 || bindings[0].Name != "a" || bindings[1].Name != "b" {
		t.Errorf("unexpected bindings %+v", bindings)
	}
	if len(body) != 2 {
		t.Errorf("expected two body statements, got %d", len(body))
	}
	if _, _, ok := lang.MatchLet(parseOne(t, "(let (a u1) a)")); ok {
		t.Errorf("malformed bindings should not match")
	}
}

func TestMatchMatch(t *testing.T) {
	m, ok := lang.MatchMatch(parseOne(t, "(match (map-get? m k) v (ok v) (err u1))"))
	if !ok || m.IsResponse || m.OkName != "v" || m.ErrName != "" {
		t.Errorf("unexpected optional match %+v", m)
	}
	m, ok = lang.MatchMatch(parseOne(t, "(match (f) v (ok v) e (err e))"))
	if !ok || !m.IsResponse || m.OkName != "v" || m.ErrName != "e" {
		t.Errorf("unexpected response match %+v", m)
	}
	if _, ok := lang.MatchMatch(parseOne(t, "(match x)")); ok {
		t.Errorf("short match should not match")
	}
}

func TestMatchContractCall(t *testing.T) {
	call, ok := lang.MatchContractCall(parseOne(t, "(contract-call? .token transfer u1 tx-sender)"))
	if !ok || call.Function != "transfer" || len(call.Args) != 2 {
		t.Fatalf("unexpected contract call %+v", call)
	}
	if id, ok := call.Target.MatchContractPrincipal(); !ok || id.Name != "token" || id.Issuer != "ST1" {
		t.Errorf("unexpected target %s", call.Target)
	}
}

func TestStateArgs(t *testing.T) {
	_, args, _ := parseOne(t, "(map-set m k v)").Head()
	if got := lang.StateArgs(lang.MapSet, args); len(got) != 2 || !got[0].IsAtom("k") {
		t.Errorf("map-set should skip the map name, got %v", got)
	}
	_, args, _ = parseOne(t, "(stx-transfer? a s r)").Head()
	if got := lang.StateArgs(lang.OtherNative, args); len(got) != 3 {
		t.Errorf("other built-ins should keep every argument, got %v", got)
	}
}

type atomCounter struct {
	lang.NoopOp
	atoms []string
}

func (a *atomCounter) DoAtom(_ *clarity.Expr, name string) { a.atoms = append(a.atoms, name) }

func TestRunPreorder(t *testing.T) {
	e := parseOne(t, "(if (is-eq a b) (ok c) (err u1))")
	counter := &atomCounter{}
	lang.RunPreorder(counter, []*clarity.Expr{e})
	expected := []string{"if", "is-eq", "a", "b", "ok", "c", "err"}
	if len(counter.atoms) != len(expected) {
		t.Fatalf("expected atoms %v, got %v", expected, counter.atoms)
	}
	for i := range expected {
		if counter.atoms[i] != expected[i] {
			t.Errorf("atom %d: expected %s, got %s", i, expected[i], counter.atoms[i])
		}
	}
	if !lang.ContainsAtom(e, "c") || lang.ContainsAtom(e, "d") {
		t.Errorf("ContainsAtom gives wrong results")
	}
}

func TestLookup(t *testing.T) {
	if lang.LookupNative("asserts!") != lang.Asserts || lang.LookupNative("print") != lang.OtherNative {
		t.Errorf("unexpected built-in lookup")
	}
	if lang.LookupNative("my-function") != lang.NoNative {
		t.Errorf("user functions are not built-ins")
	}
	if !lang.IsKeyword("tx-sender") || lang.IsKeyword("sender") {
		t.Errorf("unexpected keyword lookup")
	}
}
