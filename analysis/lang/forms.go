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

package lang

import (
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/internal/funcutil"
)

// FunctionDefinition is a decomposed define-public, define-private or define-read-only form
type FunctionDefinition struct {
	Kind   DefineFunction
	Name   string
	Params []clarity.TypedVar
	Body   *clarity.Expr
}

// MatchDefineFunction decomposes a function definition (define-x (name (param type)...) body).
// Returns false if expr is not a well-formed function definition.
func MatchDefineFunction(expr *clarity.Expr) (FunctionDefinition, bool) {
	head, args, ok := expr.Head()
	if !ok {
		return FunctionDefinition{}, false
	}
	kind := LookupDefine(head)
	if !kind.IsFunctionDefinition() || len(args) != 2 {
		return FunctionDefinition{}, false
	}
	signature, ok := args[0].MatchList()
	if !ok || len(signature) == 0 {
		return FunctionDefinition{}, false
	}
	name, ok := signature[0].MatchAtom()
	if !ok {
		return FunctionDefinition{}, false
	}
	params, ok := clarity.ParseTypedVars(signature[1:])
	if !ok {
		return FunctionDefinition{}, false
	}
	return FunctionDefinition{Kind: kind, Name: name, Params: params, Body: args[1]}, true
}

// Binding is one (name value) binding of a let form
type Binding struct {
	Name  string
	Value *clarity.Expr
	Span  clarity.Span
}

// MatchLet decomposes (let ((name value)...) body...)
func MatchLet(expr *clarity.Expr) ([]Binding, []*clarity.Expr, bool) {
	head, args, ok := expr.Head()
	if !ok || LookupNative(head) != Let || len(args) < 1 {
		return nil, nil, false
	}
	bindingList, ok := args[0].MatchList()
	if !ok {
		return nil, nil, false
	}
	bindings := make([]Binding, 0, len(bindingList))
	for _, b := range bindingList {
		pair, ok := b.MatchList()
		if !ok || len(pair) != 2 {
			return nil, nil, false
		}
		name, ok := pair[0].MatchAtom()
		if !ok {
			return nil, nil, false
		}
		bindings = append(bindings, Binding{Name: name, Value: pair[1], Span: b.Span})
	}
	return bindings, args[1:], true
}

// MatchIf decomposes (if cond then else)
func MatchIf(expr *clarity.Expr) (cond, then, els *clarity.Expr, ok bool) {
	head, args, isList := expr.Head()
	if !isList || LookupNative(head) != If || len(args) != 3 {
		return nil, nil, nil, false
	}
	return args[0], args[1], args[2], true
}

// MatchBegin returns the statements of (begin stmt...)
func MatchBegin(expr *clarity.Expr) ([]*clarity.Expr, bool) {
	head, args, ok := expr.Head()
	if !ok || LookupNative(head) != Begin {
		return nil, false
	}
	return args, true
}

// MatchAsContract returns the body of (as-contract body)
func MatchAsContract(expr *clarity.Expr) (*clarity.Expr, bool) {
	head, args, ok := expr.Head()
	if !ok || LookupNative(head) != AsContract || len(args) != 1 {
		return nil, false
	}
	return args[0], true
}

// MatchVarSet decomposes (var-set name value)
func MatchVarSet(expr *clarity.Expr) (string, *clarity.Expr, bool) {
	head, args, ok := expr.Head()
	if !ok || LookupNative(head) != VarSet || len(args) != 2 {
		return "", nil, false
	}
	name, ok := args[0].MatchAtom()
	if !ok {
		return "", nil, false
	}
	return name, args[1], true
}

// MatchAsserts decomposes (asserts! cond thrown)
func MatchAsserts(expr *clarity.Expr) (cond, thrown *clarity.Expr, ok bool) {
	head, args, isList := expr.Head()
	if !isList || LookupNative(head) != Asserts || len(args) != 2 {
		return nil, nil, false
	}
	return args[0], args[1], true
}

// MatchForm is a decomposed match expression. For optional inputs, ErrName is empty and ErrBranch is the
// branch taken on none.
type MatchForm struct {
	Input      *clarity.Expr
	OkName     string
	OkBranch   *clarity.Expr
	ErrName    string
	ErrBranch  *clarity.Expr
	IsResponse bool
}

// MatchMatch decomposes (match opt some-name some-branch none-branch) and
// (match resp ok-name ok-branch err-name err-branch)
func MatchMatch(expr *clarity.Expr) (MatchForm, bool) {
	head, args, ok := expr.Head()
	if !ok || LookupNative(head) != Match {
		return MatchForm{}, false
	}
	switch len(args) {
	case 4:
		name, ok := args[1].MatchAtom()
		if !ok {
			return MatchForm{}, false
		}
		return MatchForm{Input: args[0], OkName: name, OkBranch: args[2], ErrBranch: args[3]}, true
	case 5:
		okName, ok1 := args[1].MatchAtom()
		errName, ok2 := args[3].MatchAtom()
		if !ok1 || !ok2 {
			return MatchForm{}, false
		}
		return MatchForm{
			Input:      args[0],
			OkName:     okName,
			OkBranch:   args[2],
			ErrName:    errName,
			ErrBranch:  args[4],
			IsResponse: true,
		}, true
	}
	return MatchForm{}, false
}

// ContractCallForm is a decomposed (contract-call? target function args...)
type ContractCallForm struct {
	Target   *clarity.Expr
	Function string
	Args     []*clarity.Expr
}

// MatchContractCall decomposes a contract-call? expression
func MatchContractCall(expr *clarity.Expr) (ContractCallForm, bool) {
	head, args, ok := expr.Head()
	if !ok || LookupNative(head) != ContractCall || len(args) < 2 {
		return ContractCallForm{}, false
	}
	function, ok := args[1].MatchAtom()
	if !ok {
		return ContractCallForm{}, false
	}
	return ContractCallForm{Target: args[0], Function: function, Args: args[2:]}, true
}

// StateArgs returns the arguments of a state-mutating built-in that carry data, that is all arguments except the
// name of the data variable or map for var-set and the map operations.
func StateArgs(native NativeFunction, args []*clarity.Expr) []*clarity.Expr {
	switch native {
	case VarSet, MapSet, MapInsert, MapDelete:
		if len(args) == 0 {
			return nil
		}
		return args[1:]
	}
	return args
}

// IsExemptType returns true when the declared type is one of the exempt type names. Values of an exempt type
// are not considered untrusted input.
func IsExemptType(typeExpr *clarity.Expr, exemptTypes []string) bool {
	name, ok := typeExpr.MatchAtom()
	return ok && funcutil.Contains(exemptTypes, name)
}
