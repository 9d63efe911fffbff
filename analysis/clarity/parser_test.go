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

package clarity_test

import (
	"embed"
	"errors"
	"testing"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/google/go-cmp/cmp"
)

//go:embed testdata
var testfsys embed.FS

var deployer = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"

func loadCounter(t *testing.T) *clarity.Contract {
	b, err := testfsys.ReadFile("testdata/counter.clar")
	if err != nil {
		t.Fatalf("failed to read test contract: %v", err)
	}
	c, err := clarity.Parse("counter.clar", string(b),
		clarity.QualifiedContractIdentifier{Issuer: deployer, Name: "counter"})
	if err != nil {
		t.Fatalf("failed to parse test contract: %v", err)
	}
	return c
}

func TestParseTopLevel(t *testing.T) {
	c := loadCounter(t)
	if len(c.Expressions) != 10 {
		t.Fatalf("expected 10 top-level expressions, got %d", len(c.Expressions))
	}
	if len(c.Comments) != 1 || c.Comments[0].Text != ";; A counter with an owner" || c.Comments[0].Span.StartLine != 1 {
		t.Errorf("unexpected comments: %v", c.Comments)
	}
	first := c.Expressions[0]
	if first.String() != "(define-constant owner tx-sender)" {
		t.Errorf("unexpected rendering %q", first.String())
	}
	expectedSpan := clarity.Span{StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 33}
	if first.Span != expectedSpan {
		t.Errorf("expected span %s, got %s", expectedSpan, first.Span)
	}
	if name, ok := first.List[2].MatchAtom(); !ok || name != "tx-sender" {
		t.Errorf("expected tx-sender atom, got %s", first.List[2])
	}
	if span := first.List[2].Span; span.StartColumn != 24 || span.EndColumn != 32 {
		t.Errorf("unexpected atom span %s", span)
	}
}

func TestParseAssignsPreorderIDs(t *testing.T) {
	c := loadCounter(t)
	first := c.Expressions[0]
	if first.ID != 1 {
		t.Errorf("first expression should have id 1, got %d", first.ID)
	}
	for i, child := range first.List {
		if child.ID != uint64(i+2) {
			t.Errorf("child %d should have id %d, got %d", i, i+2, child.ID)
		}
	}
	if c.Expressions[1].ID != 5 {
		t.Errorf("second expression should have id 5, got %d", c.Expressions[1].ID)
	}

	seen := map[uint64]bool{}
	var walk func(e *clarity.Expr)
	walk = func(e *clarity.Expr) {
		if seen[e.ID] {
			t.Errorf("duplicate id %d", e.ID)
		}
		seen[e.ID] = true
		for _, x := range e.List {
			walk(x)
		}
	}
	for _, e := range c.Expressions {
		walk(e)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	c1 := loadCounter(t)
	c2 := loadCounter(t)
	if diff := cmp.Diff(c1.Expressions, c2.Expressions); diff != "" {
		t.Errorf("two parses differ (-first +second):\n%s", diff)
	}
}

func TestParseLiterals(t *testing.T) {
	c := loadCounter(t)

	tuple := c.Expressions[2].List[3]
	if head, args, ok := tuple.Head(); !ok || head != "tuple" || len(args) != 2 {
		t.Fatalf("expected desugared tuple, got %s", tuple)
	}
	if tuple.String() != "(tuple (amount uint) (locked bool))" {
		t.Errorf("unexpected tuple rendering %q", tuple.String())
	}

	call := c.Expressions[5].List[2]
	target, ok := call.List[1].MatchContractPrincipal()
	if !ok || target.Issuer != deployer || target.Name != "token-a" {
		t.Errorf("relative contract principal not resolved: %s", call.List[1])
	}
	std, ok := call.List[5].MatchLiteral()
	if !ok || std.Type != clarity.StandardPrincipalType || std.Text != deployer {
		t.Errorf("expected standard principal, got %s", call.List[5])
	}

	params := c.Expressions[5].List[1].List[1:]
	vars, ok := clarity.ParseTypedVars(params)
	if !ok || len(vars) != 1 || vars[0].Name != "token" || vars[0].TypeExpr.Kind != clarity.TraitReference {
		t.Errorf("unexpected parameters %v", vars)
	}
	if vars[0].TypeExpr.Atom != "ft-trait" {
		t.Errorf("unexpected trait reference %q", vars[0].TypeExpr.Atom)
	}

	field := c.Expressions[6].List[1]
	if field.Kind != clarity.Field || field.Field.Name != "counter-trait" || field.Field.Contract.Name != "traits" {
		t.Errorf("expected trait field, got %s", field)
	}

	checks := []struct {
		expr     *clarity.Expr
		typ      clarity.ValueType
		text     string
		exprKind clarity.ExprKind
	}{
		{c.Expressions[7].List[3], clarity.StringUTF8Type, "counter", clarity.LiteralValue},
		{c.Expressions[8].List[3], clarity.BufferType, "0x0a0b0c0d", clarity.LiteralValue},
		{c.Expressions[9].List[3], clarity.BoolType, "true", clarity.AtomValue},
		{c.Expressions[1].List[3], clarity.UIntType, "u0", clarity.LiteralValue},
	}
	for _, check := range checks {
		v, ok := check.expr.MatchLiteral()
		if !ok || v.Type != check.typ || v.Text != check.text || check.expr.Kind != check.exprKind {
			t.Errorf("expected %s literal %q, got %s", check.typ, check.text, check.expr)
		}
	}
}

func TestParseUnderscoreContractNames(t *testing.T) {
	src := "(contract-call? .__boot g)\n(contract-call? '" + deployer + ".__pox h)"
	c, err := clarity.Parse("boot.clar", src, clarity.QualifiedContractIdentifier{Issuer: deployer, Name: "boot"})
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	for i, name := range []string{"__boot", "__pox"} {
		target, ok := c.Expressions[i].List[1].MatchContractPrincipal()
		if !ok || target.Issuer != deployer || target.Name != name {
			t.Errorf("expected contract %s.%s, got %s", deployer, name, c.Expressions[i].List[1])
		}
	}
}

func TestParseMultilineString(t *testing.T) {
	c, err := clarity.Parse("s.clar", "(print \"a\nbc\")", clarity.QualifiedContractIdentifier{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	str := c.Expressions[0].List[1]
	expected := clarity.Span{StartLine: 1, StartColumn: 8, EndLine: 2, EndColumn: 3}
	if str.Span != expected {
		t.Errorf("expected %s, got %s", expected, str.Span)
	}
	if c.Expressions[0].Span.EndLine != 2 || c.Expressions[0].Span.EndColumn != 4 {
		t.Errorf("list span should end after the string, got %s", c.Expressions[0].Span)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"(define-public (f)",
		"(a b))",
		"{a 1}",
	} {
		_, err := clarity.Parse("bad.clar", src, clarity.QualifiedContractIdentifier{})
		if err == nil {
			t.Errorf("expected error parsing %q", src)
			continue
		}
		var syntaxErr *clarity.SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("expected a syntax error for %q, got %v", src, err)
		} else if syntaxErr.Line != 1 {
			t.Errorf("unexpected error line for %q: %v", src, err)
		}
	}
}

func TestCompareSpans(t *testing.T) {
	a := clarity.Span{StartLine: 1, StartColumn: 5, EndLine: 1, EndColumn: 9}
	b := clarity.Span{StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 3}
	c := clarity.Span{StartLine: 1, StartColumn: 5, EndLine: 1, EndColumn: 12}
	if clarity.Compare(a, b) >= 0 || clarity.Compare(b, a) <= 0 {
		t.Errorf("line should order spans first")
	}
	if clarity.Compare(a, c) >= 0 {
		t.Errorf("end column should order spans with the same start")
	}
	if clarity.Compare(a, a) != 0 {
		t.Errorf("a span should be equal to itself")
	}
	if j := clarity.Join(a, b); j.StartLine != 1 || j.StartColumn != 5 || j.EndLine != 2 || j.EndColumn != 3 {
		t.Errorf("unexpected join %s", j)
	}
}

func TestParseContractIdentifier(t *testing.T) {
	id, err := clarity.ParseContractIdentifier("'" + deployer + ".token")
	if err != nil || id.Issuer != deployer || id.Name != "token" {
		t.Errorf("unexpected identifier %v (err: %v)", id, err)
	}
	if _, err := clarity.ParseContractIdentifier("token"); err == nil {
		t.Errorf("expected an error for an identifier without issuer")
	}
}
