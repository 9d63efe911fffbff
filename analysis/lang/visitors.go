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

// Package lang classifies the forms of the Clarity language and provides visitors for Clarity expressions.
package lang

import "github.com/awslabs/argot-clarity/analysis/clarity"

// An ExprOp must implement methods for all kinds of expressions
type ExprOp interface {
	DoAtom(expr *clarity.Expr, name string)
	DoLiteral(expr *clarity.Expr, value clarity.Value)
	DoList(expr *clarity.Expr, elements []*clarity.Expr)
	DoField(expr *clarity.Expr, field clarity.TraitIdentifier)
	DoTraitReference(expr *clarity.Expr, name string)
}

// ExprSwitch maps the different expression kinds to the methods of the visitor
func ExprSwitch(visitor ExprOp, expr *clarity.Expr) {
	switch expr.Kind {
	case clarity.Atom:
		visitor.DoAtom(expr, expr.Atom)
	case clarity.AtomValue, clarity.LiteralValue:
		visitor.DoLiteral(expr, expr.Value)
	case clarity.List:
		visitor.DoList(expr, expr.List)
	case clarity.Field:
		visitor.DoField(expr, expr.Field)
	case clarity.TraitReference:
		visitor.DoTraitReference(expr, expr.Atom)
	}
}

// NoopOp implements ExprOp with no-ops. Embed it to implement only the methods of interest.
type NoopOp struct{}

// DoAtom does nothing
func (NoopOp) DoAtom(*clarity.Expr, string) {}

// DoLiteral does nothing
func (NoopOp) DoLiteral(*clarity.Expr, clarity.Value) {}

// DoList does nothing
func (NoopOp) DoList(*clarity.Expr, []*clarity.Expr) {}

// DoField does nothing
func (NoopOp) DoField(*clarity.Expr, clarity.TraitIdentifier) {}

// DoTraitReference does nothing
func (NoopOp) DoTraitReference(*clarity.Expr, string) {}

// RunPreorder runs the operation on every expression of the trees in exprs, parents before children
func RunPreorder(op ExprOp, exprs []*clarity.Expr) {
	Inspect(exprs, func(e *clarity.Expr) bool {
		ExprSwitch(op, e)
		return true
	})
}

// Inspect traverses the trees in exprs in pre-order, calling f on each expression. The children of an
// expression are not visited when f returns false.
func Inspect(exprs []*clarity.Expr, f func(*clarity.Expr) bool) {
	for _, e := range exprs {
		if e == nil || !f(e) {
			continue
		}
		Inspect(e.List, f)
	}
}

// Contains returns true if some expression of the tree rooted at expr, including expr, satisfies pred.
func Contains(expr *clarity.Expr, pred func(*clarity.Expr) bool) bool {
	found := false
	Inspect([]*clarity.Expr{expr}, func(e *clarity.Expr) bool {
		if found {
			return false
		}
		if pred(e) {
			found = true
		}
		return !found
	})
	return found
}

// ContainsAtom returns true if the atom name appears in the tree rooted at expr
func ContainsAtom(expr *clarity.Expr, name string) bool {
	return Contains(expr, func(e *clarity.Expr) bool { return e.IsAtom(name) })
}
