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


package detectors

import (
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/analysis/lang"
)

// patternRule is a rule that checks each list expression independently, in a single round
type patternRule struct {
	name        string
	description string
	message     string
	suggestion  string
	// match returns true when the list expr with the given head must be reported
	match func(head string, expr *clarity.Expr) bool
}

func (r *patternRule) Name() string                { return r.name }
func (r *patternRule) Description() string         { return r.description }
func (r *patternRule) Severity() diagnostics.Level { return diagnostics.Warning }

func (r *patternRule) Visit(ctx *Context, expr *clarity.Expr, round int) {
	if round > 1 {
		return
	}
	head, _, ok := expr.Head()
	if ok && r.match(head, expr) {
		ctx.Report(r, expr, r.message, r.suggestion)
	}
}

func (r *patternRule) Settle(*Context, int) bool { return true }

func hasHead(name string) func(*clarity.Expr) bool {
	return func(e *clarity.Expr) bool {
		head, _, ok := e.Head()
		return ok && head == name
	}
}

func newAssertBlockHeight() Rule {
	return &patternRule{
		name:        "assert-block-height",
		description: "asserts! conditions on block-height",
		message:     "use of block-height inside an assert",
		suggestion:  "block heights are not a reliable measure of time; make sure the bound cannot be bypassed by waiting",
		match: func(head string, expr *clarity.Expr) bool {
			return lang.LookupNative(head) == lang.Asserts && lang.ContainsAtom(expr, "block-height")
		},
	}
}

func newCallInsideAsContract() Rule {
	return &patternRule{
		name:        "call-inside-as-contract",
		description: "contract-call? to a contract that is not a literal, inside as-contract",
		message:     "call to a dynamic contract inside as-contract",
		suggestion:  "the called contract acts with the authority of this contract; call a known contract instead",
		match: func(head string, expr *clarity.Expr) bool {
			if lang.LookupNative(head) != lang.AsContract {
				return false
			}
			hasCall := lang.Contains(expr, hasHead("contract-call?"))
			hasLiteral := lang.Contains(expr, func(e *clarity.Expr) bool {
				_, ok := e.MatchContractPrincipal()
				return ok
			})
			return hasCall && !hasLiteral
		},
	}
}

func newDivideBeforeMultiply() Rule {
	return &patternRule{
		name:        "divide-before-multiply",
		description: "multiplications of the result of a division",
		message:     "precision loss of divide inside a multiplication",
		suggestion:  "multiply before dividing",
		match: func(head string, expr *clarity.Expr) bool {
			return head == "*" && lang.Contains(expr, hasHead("/"))
		},
	}
}

func newTxSenderInAssert() Rule {
	return &patternRule{
		name:        "tx-sender-in-assert",
		description: "asserts! conditions on tx-sender",
		message:     "use of tx-sender inside an assert",
		suggestion:  "tx-sender is the origin of the transaction; use contract-caller to authenticate the caller",
		match: func(head string, expr *clarity.Expr) bool {
			return lang.LookupNative(head) == lang.Asserts && lang.ContainsAtom(expr, "tx-sender")
		},
	}
}

func newUnwrapPanic() Rule {
	return &patternRule{
		name:        "unwrap-panic",
		description: "uses of unwrap-panic",
		message:     "improper unwrap-panic",
		suggestion:  "use unwrap! with an error code",
		match: func(head string, _ *clarity.Expr) bool {
			return head == "unwrap-panic"
		},
	}
}

// privateFunctionNotUsed reports the private functions that are never called. The first round collects the
// definitions, the second round removes the functions that are called or passed to map, filter or fold.
type privateFunctionNotUsed struct {
	defined    map[string]*clarity.Expr
	signatures map[uint64]bool
}

func newPrivateFunctionNotUsed() Rule {
	return &privateFunctionNotUsed{defined: map[string]*clarity.Expr{}, signatures: map[uint64]bool{}}
}

func (r *privateFunctionNotUsed) Name() string { return "private-function-not-used" }

func (r *privateFunctionNotUsed) Description() string { return "private functions that are never called" }

func (r *privateFunctionNotUsed) Severity() diagnostics.Level { return diagnostics.Warning }

func (r *privateFunctionNotUsed) Visit(_ *Context, expr *clarity.Expr, round int) {
	switch round {
	case 1:
		fd, ok := lang.MatchDefineFunction(expr)
		if ok && fd.Kind == lang.DefinePrivate {
			r.defined[fd.Name] = expr
			r.signatures[expr.List[1].ID] = true
		}
	case 2:
		head, args, ok := expr.Head()
		if !ok || r.signatures[expr.ID] {
			return
		}
		delete(r.defined, head)
		switch lang.LookupNative(head) {
		case lang.Map, lang.Filter, lang.Fold:
			if len(args) > 0 {
				if name, isAtom := args[0].MatchAtom(); isAtom {
					delete(r.defined, name)
				}
			}
		}
	}
}

func (r *privateFunctionNotUsed) Settle(ctx *Context, round int) bool {
	if round < 2 {
		return false
	}
	for _, def := range r.defined {
		ctx.Report(r, def, "this private function is not used", "remove the function, or call it")
	}
	return true
}
