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


// Package dependencies computes the dependencies between contracts, and the order in which a set of contracts can
// be published.
package dependencies

import (
	"fmt"
	"strings"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/lang"
	"github.com/awslabs/argot-clarity/internal/funcutil"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type contractID = clarity.QualifiedContractIdentifier

// Dependency is a contract another contract depends on
type Dependency struct {
	Contract contractID `yaml:"contract" json:"contract"`
	// RequiredBeforePublish is true when the dependency is used outside of function bodies, and must therefore be
	// published first
	RequiredBeforePublish bool `yaml:"required-before-publish" json:"required_before_publish"`
}

// DependencySet is the set of dependencies of a contract
type DependencySet struct {
	deps map[contractID]bool
}

// NewDependencySet returns an empty set
func NewDependencySet() *DependencySet {
	return &DependencySet{deps: map[contractID]bool{}}
}

// Add adds the dependency. A dependency required before publishing stays required.
func (s *DependencySet) Add(id contractID, requiredBeforePublish bool) {
	s.deps[id] = s.deps[id] || requiredBeforePublish
}

// Has returns whether id is a dependency, and whether it is required before publishing
func (s *DependencySet) Has(id contractID) (requiredBeforePublish bool, ok bool) {
	requiredBeforePublish, ok = s.deps[id]
	return
}

// Len returns the number of dependencies
func (s *DependencySet) Len() int {
	return len(s.deps)
}

// List returns the dependencies sorted by contract identifier
func (s *DependencySet) List() []Dependency {
	ids := maps.Keys(s.deps)
	slices.SortFunc(ids, clarity.CompareContractIdentifiers)
	return funcutil.Map(ids, func(id contractID) Dependency {
		return Dependency{Contract: id, RequiredBeforePublish: s.deps[id]}
	})
}

// Dependencies maps every analyzed contract to its dependencies
type Dependencies map[contractID]*DependencySet

// Contracts returns the analyzed contracts, sorted
func (d Dependencies) Contracts() []contractID {
	ids := maps.Keys(d)
	slices.SortFunc(ids, clarity.CompareContractIdentifiers)
	return ids
}

// UnresolvedError is returned by Detect when some contracts call contracts, functions or traits that are not
// part of the analyzed set. The dependencies that could be computed are in Dependencies.
type UnresolvedError struct {
	Dependencies Dependencies
	Unresolved   []contractID
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved contracts: %s", joinIDs(e.Unresolved, ", "))
}

// CycleError is returned by Order when the dependencies have a cycle. The first contract of the cycle is repeated
// at the end.
type CycleError struct {
	Contracts []contractID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular reference between contracts: %s", joinIDs(e.Contracts, " -> "))
}

func joinIDs(ids []contractID, sep string) string {
	return strings.Join(funcutil.Map(ids, contractID.String), sep)
}

type functionKey struct {
	contract contractID
	name     string
}

// detector holds the definitions of all the analyzed contracts, and the dependencies found so far
type detector struct {
	functions  map[functionKey][]clarity.TypedVar
	traits     map[clarity.TraitIdentifier]map[string][]*clarity.Expr
	constants  map[functionKey]contractID
	aliases    map[contractID][]traitAlias
	deps       Dependencies
	unresolved map[contractID]bool

	current  contractID
	params   []clarity.TypedVar
	topLevel bool
}

// Detect computes the dependencies of the contracts. Calls to contracts outside of the set are reported as an
// *UnresolvedError carrying the dependencies that were found.
func Detect(contracts []*clarity.Contract) (Dependencies, error) {
	d := &detector{
		functions:  map[functionKey][]clarity.TypedVar{},
		traits:     map[clarity.TraitIdentifier]map[string][]*clarity.Expr{},
		constants:  map[functionKey]contractID{},
		aliases:    map[contractID][]traitAlias{},
		deps:       Dependencies{},
		unresolved: map[contractID]bool{},
	}
	for _, c := range contracts {
		d.index(c)
	}
	for _, c := range contracts {
		d.deps[c.Identifier] = NewDependencySet()
	}
	for _, c := range contracts {
		d.current = c.Identifier
		for _, expr := range c.Expressions {
			d.visitTopLevel(expr)
		}
	}
	if len(d.unresolved) > 0 {
		unresolved := maps.Keys(d.unresolved)
		slices.SortFunc(unresolved, clarity.CompareContractIdentifiers)
		return d.deps, &UnresolvedError{Dependencies: d.deps, Unresolved: unresolved}
	}
	return d.deps, nil
}

// index records the functions, traits and contract constants defined by c
func (d *detector) index(c *clarity.Contract) {
	for _, expr := range c.Expressions {
		if fd, ok := lang.MatchDefineFunction(expr); ok {
			d.functions[functionKey{c.Identifier, fd.Name}] = fd.Params
			continue
		}
		head, args, ok := expr.Head()
		if !ok || len(args) < 2 {
			continue
		}
		name, ok := args[0].MatchAtom()
		if !ok {
			continue
		}
		switch lang.LookupDefine(head) {
		case lang.DefineConstant:
			if target, isContract := args[1].MatchContractPrincipal(); isContract {
				d.constants[functionKey{c.Identifier, name}] = target
			}
		case lang.DefineTrait:
			d.traits[clarity.TraitIdentifier{Contract: c.Identifier, Name: name}] = traitSignatures(args[1])
		case lang.UseTrait:
			if args[1].Kind == clarity.Field {
				d.aliases[c.Identifier] = append(d.aliases[c.Identifier], traitAlias{alias: name, trait: args[1].Field})
			}
		}
	}
}

// traitSignatures reads the argument types of the functions of a trait definition
func traitSignatures(expr *clarity.Expr) map[string][]*clarity.Expr {
	sigs := map[string][]*clarity.Expr{}
	list, _ := expr.MatchList()
	for _, sig := range list {
		parts, ok := sig.MatchList()
		if !ok || len(parts) < 2 {
			continue
		}
		name, ok := parts[0].MatchAtom()
		if !ok {
			continue
		}
		argTypes, _ := parts[1].MatchList()
		sigs[name] = argTypes
	}
	return sigs
}

func (d *detector) add(to contractID) {
	if strings.HasPrefix(to.Name, "__") || to == d.current {
		return
	}
	d.deps[d.current].Add(to, d.topLevel)
}

func (d *detector) visitTopLevel(expr *clarity.Expr) {
	d.topLevel = true
	d.params = nil
	if fd, ok := lang.MatchDefineFunction(expr); ok {
		d.topLevel = false
		d.params = fd.Params
		d.visit(fd.Body)
		return
	}
	d.visit(expr)
}

func (d *detector) visit(expr *clarity.Expr) {
	head, args, ok := expr.Head()
	if ok {
		switch lang.LookupDefine(head) {
		case lang.UseTrait:
			if len(args) == 2 && args[1].Kind == clarity.Field {
				d.add(args[1].Field.Contract)
			}
		case lang.ImplTrait:
			if len(args) == 1 && args[0].Kind == clarity.Field {
				d.add(args[0].Field.Contract)
			}
		}
		if call, isCall := lang.MatchContractCall(expr); isCall {
			d.visitContractCall(call)
		} else if params, isLocal := d.functions[functionKey{d.current, head}]; isLocal {
			d.checkCalleeTypes(typesOf(params), args)
		}
	}
	for _, child := range expr.List {
		d.visit(child)
	}
}

func (d *detector) visitContractCall(call lang.ContractCallForm) {
	if target, ok := d.staticTarget(call.Target); ok {
		d.add(target)
		params, defined := d.functions[functionKey{target, call.Function}]
		if !defined {
			if !strings.HasPrefix(target.Name, "__") {
				d.unresolved[target] = true
			}
			return
		}
		d.checkCalleeTypes(typesOf(params), call.Args)
		return
	}
	// dynamic call through a trait-typed parameter
	if trait, ok := d.paramTrait(call.Target); ok {
		sigs, defined := d.traits[trait]
		if !defined {
			d.unresolved[trait.Contract] = true
			return
		}
		d.checkCalleeTypes(sigs[call.Function], call.Args)
	}
}

// staticTarget resolves the target of a contract-call? that is a contract principal or a constant bound to one
func (d *detector) staticTarget(target *clarity.Expr) (contractID, bool) {
	if id, ok := target.MatchContractPrincipal(); ok {
		return id, true
	}
	if name, ok := target.MatchAtom(); ok {
		id, isConstant := d.constants[functionKey{d.current, name}]
		return id, isConstant
	}
	return contractID{}, false
}

// paramTrait returns the trait of the parameter named by target, when the parameter has a trait type that was
// imported with use-trait or defined in the current contract
func (d *detector) paramTrait(target *clarity.Expr) (clarity.TraitIdentifier, bool) {
	name, ok := target.MatchAtom()
	if !ok {
		return clarity.TraitIdentifier{}, false
	}
	for _, p := range d.params {
		if p.Name != name || p.TypeExpr.Kind != clarity.TraitReference {
			continue
		}
		return d.resolveTrait(p.TypeExpr.Atom)
	}
	return clarity.TraitIdentifier{}, false
}

func (d *detector) resolveTrait(alias string) (clarity.TraitIdentifier, bool) {
	local := clarity.TraitIdentifier{Contract: d.current, Name: alias}
	if _, ok := d.traits[local]; ok {
		return local, true
	}
	for _, a := range d.aliases[d.current] {
		if a.alias == alias {
			return a.trait, true
		}
	}
	return clarity.TraitIdentifier{}, false
}

// traitAlias is a trait imported with (use-trait alias trait)
type traitAlias struct {
	alias string
	trait clarity.TraitIdentifier
}

func typesOf(params []clarity.TypedVar) []*clarity.Expr {
	return funcutil.Map(params, func(p clarity.TypedVar) *clarity.Expr { return p.TypeExpr })
}

// checkCalleeTypes adds the contract principals passed where the callee expects a trait
func (d *detector) checkCalleeTypes(argTypes []*clarity.Expr, args []*clarity.Expr) {
	for i, t := range argTypes {
		if i < len(args) {
			d.deepCheckCalleeType(t, args[i])
		}
	}
}

func (d *detector) deepCheckCalleeType(argType *clarity.Expr, arg *clarity.Expr) {
	if argType.Kind == clarity.TraitReference {
		if id, ok := arg.MatchContractPrincipal(); ok {
			d.add(id)
		}
		return
	}
	typeHead, typeArgs, ok := argType.Head()
	if !ok {
		return
	}
	argHead, argArgs, ok := arg.Head()
	if !ok {
		return
	}
	switch typeHead {
	case "optional":
		if len(typeArgs) == 1 && argHead == "some" && len(argArgs) == 1 {
			d.deepCheckCalleeType(typeArgs[0], argArgs[0])
		}
	case "response":
		if len(typeArgs) == 2 && len(argArgs) == 1 {
			switch argHead {
			case "ok":
				d.deepCheckCalleeType(typeArgs[0], argArgs[0])
			case "err":
				d.deepCheckCalleeType(typeArgs[1], argArgs[0])
			}
		}
	case "list":
		if len(typeArgs) == 2 && argHead == "list" {
			for _, item := range argArgs {
				d.deepCheckCalleeType(typeArgs[1], item)
			}
		}
	case "tuple":
		if argHead != "tuple" {
			return
		}
		fieldTypes, ok := clarity.ParseTypedVars(typeArgs)
		if !ok {
			return
		}
		fieldValues, ok := clarity.ParseTypedVars(argArgs)
		if !ok {
			return
		}
		for _, ft := range fieldTypes {
			for _, fv := range fieldValues {
				if ft.Name == fv.Name {
					d.deepCheckCalleeType(ft.TypeExpr, fv.TypeExpr)
				}
			}
		}
	}
}
