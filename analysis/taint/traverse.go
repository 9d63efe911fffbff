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
	"github.com/awslabs/argot-clarity/analysis/lang"
	"golang.org/x/exp/slices"
)

func (c *checker) traverse(exprs []*clarity.Expr) {
	for _, expr := range exprs {
		c.traverseExpr(expr)
	}
}

// traverseExpr is the entry point of the analysis of any expression. The annotation on the line above the
// expression is active while the expression is traversed, and its filters apply once the expression is done.
func (c *checker) traverseExpr(expr *clarity.Expr) {
	prev := c.resolver.resolve(expr.Span)
	defer c.resolver.restore(prev)

	c.detectUnsafeAuthentication(expr)
	if c.resolver.allow(annotations.UncheckedData) {
		c.logger.Tracef("skipping %s: unchecked data allowed", expr.Span)
		return
	}
	lang.ExprSwitch(c, expr)
	c.applyAnnotation()
}

// DoAtom propagates the taint of the symbol to the atom
func (c *checker) DoAtom(expr *clarity.Expr, name string) {
	if sources := c.graph.SourcesOf(Symbol(name)); len(sources) > 0 {
		c.graph.AddTainted(Expr(expr.ID), sources)
	}
}

// DoLiteral does nothing: literals are never tainted
func (c *checker) DoLiteral(*clarity.Expr, clarity.Value) {}

// DoField does nothing
func (c *checker) DoField(*clarity.Expr, clarity.TraitIdentifier) {}

// DoTraitReference does nothing
func (c *checker) DoTraitReference(*clarity.Expr, string) {}

// DoList dispatches on the head of the list
func (c *checker) DoList(expr *clarity.Expr, elements []*clarity.Expr) {
	head, args, ok := expr.Head()
	if !ok {
		c.traverse(elements)
		c.mergeTaint(expr, elements)
		return
	}
	if def := lang.LookupDefine(head); def != lang.NoDefine {
		c.visitDefinition(expr, def, args)
		return
	}

	native := lang.LookupNative(head)
	merged := args
	switch native {
	case lang.Let:
		c.visitLet(expr, args)
		return
	case lang.Begin:
		c.traverse(args)
		c.takeLastTaint(expr, args)
		return
	case lang.If:
		if cond, then, els, isIf := lang.MatchIf(expr); isIf {
			c.traverseExpr(cond)
			c.filterTaint(cond, false)
			c.traverseExpr(then)
			c.traverseExpr(els)
		} else {
			c.traverse(args)
		}
	case lang.And, lang.Or:
		for _, arg := range args {
			c.traverseExpr(arg)
			c.filterTaint(arg, false)
		}
	case lang.AsContract:
		inAsContract := c.inAsContract
		c.inAsContract = true
		c.traverse(args)
		c.inAsContract = inAsContract
	case lang.Asserts:
		if cond, thrown, isAsserts := lang.MatchAsserts(expr); isAsserts && c.settings.AssertsFilter {
			c.traverseExpr(cond)
			c.filterTaint(cond, false)
			c.traverseExpr(thrown)
		} else {
			c.traverse(args)
		}
	case lang.Match:
		merged = c.visitMatch(expr, args)
	default:
		c.traverse(args)
	}

	switch {
	case native == lang.Equals:
		c.applyTrustExemption(expr, args)
	case slices.Contains(c.settings.Sinks, head):
		for _, arg := range lang.StateArgs(native, args) {
			c.taintCheck(arg)
		}
	case native == lang.NoNative:
		c.visitPrivateCall(head, args)
	}
	c.mergeTaint(expr, merged)
}

// mergeTaint taints expr with the union of the sources of the children. Nothing is recorded if no child is tainted.
func (c *checker) mergeTaint(expr *clarity.Expr, children []*clarity.Expr) {
	union := NodeSet{}
	for _, child := range children {
		for s := range c.graph.SourcesOf(Expr(child.ID)) {
			union[s] = true
		}
	}
	if len(union) > 0 {
		c.graph.AddTainted(Expr(expr.ID), union)
	}
}

// takeLastTaint taints expr with the sources of the last statement: the value of a sequence of statements is the
// value of the last one.
func (c *checker) takeLastTaint(expr *clarity.Expr, statements []*clarity.Expr) {
	if len(statements) == 0 {
		return
	}
	last := statements[len(statements)-1]
	if sources := c.graph.SourcesOf(Expr(last.ID)); len(sources) > 0 {
		c.graph.AddTainted(Expr(expr.ID), sources)
	}
}

// scopedBinding remembers the state of a symbol before a binding shadowed it
type scopedBinding struct {
	node      Node
	wasSource bool
	saved     NodeSet
}

// bind binds name to a value tainted by sources for the duration of a scope
func (c *checker) bind(name string, span clarity.Span, sources NodeSet) scopedBinding {
	sym := Symbol(name)
	b := scopedBinding{node: sym, wasSource: c.graph.IsSource(sym), saved: c.graph.SourcesOf(sym)}
	if len(sources) > 0 {
		c.graph.AddSource(sym, span)
		c.graph.AddTainted(sym, sources)
	} else {
		// an untainted binding shadows a tainted symbol
		c.graph.AddTainted(sym, nil)
	}
	return b
}

// unbind ends the scope of a binding. A symbol that was not bound before is forgotten; a shadowed symbol gets its
// taint back, minus the sources filtered in the meantime, instead of being removed from the graph.
func (c *checker) unbind(b scopedBinding) {
	if !b.wasSource {
		c.graph.Forget(b.node)
		if restored := c.graph.Registered(b.saved); len(restored) > 0 {
			c.graph.AddTainted(b.node, restored)
		}
		return
	}
	if c.graph.IsSource(b.node) {
		c.graph.AddTainted(b.node, c.graph.Registered(b.saved))
	}
}

func (c *checker) visitLet(expr *clarity.Expr, args []*clarity.Expr) {
	bindings, body, ok := lang.MatchLet(expr)
	if !ok {
		c.traverse(args)
		c.mergeTaint(expr, args)
		return
	}
	scope := make([]scopedBinding, 0, len(bindings))
	for _, b := range bindings {
		c.traverseExpr(b.Value)
		scope = append(scope, c.bind(b.Name, expr.Span, c.graph.SourcesOf(Expr(b.Value.ID))))
	}
	c.traverse(body)
	c.takeLastTaint(expr, body)
	for i := len(scope) - 1; i >= 0; i-- {
		c.unbind(scope[i])
	}
}

// visitMatch binds the names of a match expression to the taint of its input while the branches are traversed.
// It returns the expressions whose taint flows to the value of the match.
func (c *checker) visitMatch(expr *clarity.Expr, args []*clarity.Expr) []*clarity.Expr {
	m, ok := lang.MatchMatch(expr)
	if !ok {
		c.traverse(args)
		return args
	}
	c.traverseExpr(m.Input)
	inputSources := c.graph.SourcesOf(Expr(m.Input.ID))

	okBinding := c.bind(m.OkName, expr.Span, inputSources)
	c.traverseExpr(m.OkBranch)
	c.unbind(okBinding)

	if m.IsResponse {
		errBinding := c.bind(m.ErrName, expr.Span, inputSources)
		c.traverseExpr(m.ErrBranch)
		c.unbind(errBinding)
	} else {
		c.traverseExpr(m.ErrBranch)
	}
	return []*clarity.Expr{m.OkBranch, m.ErrBranch}
}

// applyTrustExemption treats an equality test between the sender (or the caller) and untainted data as a check that
// validates every input of the function.
func (c *checker) applyTrustExemption(expr *clarity.Expr, args []*clarity.Expr) {
	if len(args) != 2 {
		return
	}
	for i, arg := range args {
		other := args[1-i]
		trusted := (c.settings.TrustedSender && arg.IsAtom("tx-sender") && !c.inAsContract) ||
			(c.settings.TrustedCaller && arg.IsAtom("contract-caller"))
		if !trusted || c.graph.IsTainted(Expr(other.ID)) {
			continue
		}
		c.logger.Tracef("trusted check at %s validates all inputs", expr.Span)
		snapshot := NodeSet{}
		for _, s := range c.graph.SourceNodes() {
			snapshot[s] = true
		}
		c.graph.FilterAll()
		if len(snapshot) > 0 {
			c.graph.AddTainted(Expr(expr.ID), snapshot)
		}
		return
	}
}

// visitPrivateCall applies the information gathered on a private function to a call to that function
func (c *checker) visitPrivateCall(name string, args []*clarity.Expr) {
	info, ok := c.privateFuncs[name]
	if !ok {
		return
	}
	for i, arg := range args {
		if i >= len(info.Unchecked) {
			break
		}
		if c.settings.CheckPrivateCalls && !info.Unchecked[i] {
			c.taintCheck(arg)
		}
		if c.settings.CalleeFilter && info.Filtered[i] {
			c.filterTaint(arg, true)
		}
	}
}

func (c *checker) visitDefinition(expr *clarity.Expr, def lang.DefineFunction, args []*clarity.Expr) {
	if !def.IsFunctionDefinition() {
		c.traverse(args)
		return
	}
	fd, ok := lang.MatchDefineFunction(expr)
	if !ok {
		c.logger.Warnf("malformed function definition at %s:%s", c.contract.Path, expr.Span)
		return
	}
	switch fd.Kind {
	case lang.DefinePublic:
		c.publicFuncs[fd.Name] = true
		c.graph.Reset()
		for _, param := range fd.Params {
			if !lang.IsExemptType(param.TypeExpr, c.settings.ExemptTypes) {
				c.logger.Tracef("source %s in %s", param.Name, fd.Name)
				c.graph.AddSource(Symbol(param.Name), param.DeclSpan)
			}
		}
		c.traverseExpr(fd.Body)
	case lang.DefinePrivate:
		c.graph.Reset()
		allow := c.resolver.allow(annotations.UncheckedParams)
		info := FunctionInfo{
			Unchecked: make([]bool, len(fd.Params)),
			Filtered:  make([]bool, len(fd.Params)),
		}
		for i, param := range fd.Params {
			if allow {
				c.graph.AddSource(Symbol(param.Name), param.DeclSpan)
			}
			info.Unchecked[i] = allow
		}
		c.traverseExpr(fd.Body)
		c.taintCheck(fd.Body)
		for i, param := range fd.Params {
			info.Filtered[i] = allow && !c.graph.IsSource(Symbol(param.Name))
		}
		c.privateFuncs[fd.Name] = info
	case lang.DefineReadOnly:
		c.publicFuncs[fd.Name] = true
		c.traverseExpr(fd.Body)
	}
}

// detectUnsafeAuthentication reports (asserts! (is-eq tx-sender x) err)
func (c *checker) detectUnsafeAuthentication(expr *clarity.Expr) {
	cond, _, ok := lang.MatchAsserts(expr)
	if !ok {
		return
	}
	head, operands, ok := cond.Head()
	if !ok || lang.LookupNative(head) != lang.Equals || len(operands) != 2 || !operands[0].IsAtom("tx-sender") {
		return
	}
	c.collector.set(expr.ID, unsafeAuthenticationGroup(expr))
}
