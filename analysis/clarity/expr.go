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

import (
	"strings"
)

// ExprKind is the kind of a symbolic expression
type ExprKind int

const (
	// Atom is a symbol: a name bound in the contract, a built-in or a keyword
	Atom ExprKind = iota
	// AtomValue is a keyword that denotes a value (true, false)
	AtomValue
	// LiteralValue is a literal written in the source (numbers, strings, buffers, principals)
	LiteralValue
	// List is a parenthesized list of expressions
	List
	// Field is a reference to a trait in another contract: 'SP....contract.trait
	Field
	// TraitReference is a <trait-name> reference
	TraitReference
)

func (k ExprKind) String() string {
	switch k {
	case Atom:
		return "atom"
	case AtomValue:
		return "atom-value"
	case LiteralValue:
		return "literal"
	case List:
		return "list"
	case Field:
		return "field"
	case TraitReference:
		return "trait-reference"
	}
	return "unknown"
}

// Expr is a node of the contract's expression tree.
// The ID of an expression is unique in the contract and stable across parses of the same source.
type Expr struct {
	ID   uint64
	Span Span
	Kind ExprKind

	// Atom is the name of an Atom or a TraitReference
	Atom string

	// Value is set for AtomValue and LiteralValue expressions
	Value Value

	// List contains the elements of a List expression
	List []*Expr

	// Field is set for Field expressions
	Field TraitIdentifier
}

// MatchAtom returns the name of the atom and true if e is an atom
func (e *Expr) MatchAtom() (string, bool) {
	if e == nil || e.Kind != Atom {
		return "", false
	}
	return e.Atom, true
}

// IsAtom returns true when e is the atom name
func (e *Expr) IsAtom(name string) bool {
	a, ok := e.MatchAtom()
	return ok && a == name
}

// MatchList returns the elements of the list and true if e is a list
func (e *Expr) MatchList() ([]*Expr, bool) {
	if e == nil || e.Kind != List {
		return nil, false
	}
	return e.List, true
}

// MatchLiteral returns the value of e if e is a literal or a value keyword
func (e *Expr) MatchLiteral() (Value, bool) {
	if e == nil || (e.Kind != LiteralValue && e.Kind != AtomValue) {
		return Value{}, false
	}
	return e.Value, true
}

// MatchContractPrincipal returns the contract identifier of a contract principal literal
func (e *Expr) MatchContractPrincipal() (QualifiedContractIdentifier, bool) {
	v, ok := e.MatchLiteral()
	if !ok || v.Type != ContractPrincipalType || v.Contract == nil {
		return QualifiedContractIdentifier{}, false
	}
	return *v.Contract, true
}

// Head returns the atom at the head of a list expression, if there is one
func (e *Expr) Head() (string, []*Expr, bool) {
	list, ok := e.MatchList()
	if !ok || len(list) == 0 {
		return "", nil, false
	}
	name, ok := list[0].MatchAtom()
	if !ok {
		return "", nil, false
	}
	return name, list[1:], true
}

func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	if e == nil {
		b.WriteString("<nil>")
		return
	}
	switch e.Kind {
	case Atom:
		b.WriteString(e.Atom)
	case AtomValue, LiteralValue:
		b.WriteString(e.Value.String())
	case Field:
		b.WriteString("'" + e.Field.String())
	case TraitReference:
		b.WriteString("<" + e.Atom + ">")
	case List:
		b.WriteByte('(')
		for i, x := range e.List {
			if i > 0 {
				b.WriteByte(' ')
			}
			x.write(b)
		}
		b.WriteByte(')')
	}
}

// TypedVar is a name declared with a type: a function parameter, or a tuple entry type.
type TypedVar struct {
	Name     string
	TypeExpr *Expr
	DeclSpan Span
}

// ParseTypedVars reads a sequence of (name type) pairs.
// Returns false if some element is not a pair whose first element is an atom.
func ParseTypedVars(exprs []*Expr) ([]TypedVar, bool) {
	vars := make([]TypedVar, 0, len(exprs))
	for _, x := range exprs {
		pair, ok := x.MatchList()
		if !ok || len(pair) != 2 {
			return nil, false
		}
		name, ok := pair[0].MatchAtom()
		if !ok {
			return nil, false
		}
		vars = append(vars, TypedVar{Name: name, TypeExpr: pair[1], DeclSpan: x.Span})
	}
	return vars, true
}

// Comment is a line comment of the source, with its leading semicolons
type Comment struct {
	Text string
	Span Span
}

// Contract is a parsed contract
type Contract struct {
	Identifier  QualifiedContractIdentifier
	Path        string
	Source      string
	Expressions []*Expr
	Comments    []Comment
}

// SourceLine returns the text of the line (starting at 1), or the empty string if it is out of range
func (c *Contract) SourceLine(line int) string {
	lines := strings.Split(c.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
