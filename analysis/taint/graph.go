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
	"fmt"
	"strconv"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// NodeKind distinguishes the two kinds of nodes of the taint graph
type NodeKind int

const (
	// SymbolNode is the kind of nodes that represent a name bound in the contract
	SymbolNode NodeKind = iota
	// ExprNode is the kind of nodes that represent an expression
	ExprNode
)

// Node is a node of the taint graph. It is either a symbol, identified by its name, or an expression, identified
// by the id the parser assigned to it.
type Node struct {
	Kind NodeKind
	Name string
	ID   uint64
}

// Symbol returns the node of the symbol name
func Symbol(name string) Node {
	return Node{Kind: SymbolNode, Name: name}
}

// Expr returns the node of the expression with identifier id
func Expr(id uint64) Node {
	return Node{Kind: ExprNode, ID: id}
}

func (n Node) String() string {
	if n.Kind == SymbolNode {
		return "symbol:" + n.Name
	}
	return "expr:" + strconv.FormatUint(n.ID, 10)
}

func compareNodes(a, b Node) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	if a.Kind == SymbolNode {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// NodeSet is a set of nodes
type NodeSet = map[Node]bool

// sortedNodes returns the nodes of the set in a stable order
func sortedNodes(s NodeSet) []Node {
	nodes := maps.Keys(s)
	slices.SortFunc(nodes, compareNodes)
	return nodes
}

type source struct {
	span     clarity.Span
	children NodeSet
}

type taintedNode struct {
	sources NodeSet
}

// InvariantError is raised, as a panic, when an operation would break the invariants of the graph. It indicates a
// bug in the analysis rather than a problem in the contract.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "taint graph invariant violated: " + e.Msg
}

func violation(format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}

// Graph is the bipartite graph between the taint sources and the tainted nodes.
//
// The graph is symmetric: a node N is tainted by a source S iff N is in the children of S. A tainted node always has
// at least one source.
type Graph struct {
	sources map[Node]*source
	tainted map[Node]*taintedNode
}

// NewGraph returns an empty graph
func NewGraph() *Graph {
	return &Graph{
		sources: map[Node]*source{},
		tainted: map[Node]*taintedNode{},
	}
}

// AddSource registers id as a source located at span and records id as tainted by itself.
// Registering a node that is already a source keeps its span and children.
func (g *Graph) AddSource(id Node, span clarity.Span) {
	if _, ok := g.sources[id]; !ok {
		g.sources[id] = &source{span: span, children: NodeSet{}}
	}
	g.AddTainted(id, NodeSet{id: true})
}

// AddTainted records that id is tainted by exactly the sources, replacing any previous record. If sources is
// empty, the record of id is removed. Every node in sources must be a registered source.
func (g *Graph) AddTainted(id Node, sources NodeSet) {
	for s := range sources {
		if _, ok := g.sources[s]; !ok {
			violation("%s tainted by %s which is not a source", id, s)
		}
	}
	g.detach(id)
	if len(sources) == 0 {
		return
	}
	t := &taintedNode{sources: make(NodeSet, len(sources))}
	for s := range sources {
		t.sources[s] = true
		g.sources[s].children[id] = true
	}
	g.tainted[id] = t
}

// detach removes the tainted node record of id, and removes id from the children of its sources
func (g *Graph) detach(id Node) {
	t, ok := g.tainted[id]
	if !ok {
		return
	}
	for s := range t.sources {
		src, ok := g.sources[s]
		if !ok {
			violation("%s has source %s which is not registered", id, s)
		}
		delete(src.children, id)
	}
	delete(g.tainted, id)
}

// FilterSource removes id as a source, and removes the tainted node record of id itself. Every former child loses id
// from its sources. The children that are no longer tainted are returned in a stable order.
func (g *Graph) FilterSource(id Node) []Node {
	src, ok := g.sources[id]
	if !ok {
		return nil
	}
	var untainted []Node
	if g.IsTainted(id) {
		g.detach(id)
		untainted = append(untainted, id)
	}
	delete(g.sources, id)
	for _, child := range sortedNodes(src.children) {
		t, ok := g.tainted[child]
		if !ok {
			violation("%s is a child of %s but is not tainted", child, id)
		}
		delete(t.sources, id)
		if len(t.sources) == 0 {
			delete(g.tainted, child)
			untainted = append(untainted, child)
		}
	}
	return untainted
}

// FilterTaint removes id as a tainted node, and then filters all of its sources. The nodes that are no longer
// tainted, including id, are returned.
func (g *Graph) FilterTaint(id Node) []Node {
	t, ok := g.tainted[id]
	if !ok {
		return nil
	}
	sources := sortedNodes(t.sources)
	g.detach(id)
	untainted := []Node{id}
	for _, s := range sources {
		untainted = append(untainted, g.FilterSource(s)...)
	}
	return untainted
}

// FilterAll removes every tainted node. The sources stay registered, with no children.
func (g *Graph) FilterAll() {
	g.tainted = map[Node]*taintedNode{}
	for _, src := range g.sources {
		src.children = NodeSet{}
	}
}

// Forget removes every trace of id in the graph: its tainted node record and its source record.
func (g *Graph) Forget(id Node) {
	g.detach(id)
	if src, ok := g.sources[id]; ok {
		for child := range src.children {
			if t, ok := g.tainted[child]; ok {
				delete(t.sources, id)
				if len(t.sources) == 0 {
					delete(g.tainted, child)
				}
			}
		}
		delete(g.sources, id)
	}
}

// Reset removes all sources and tainted nodes
func (g *Graph) Reset() {
	g.sources = map[Node]*source{}
	g.tainted = map[Node]*taintedNode{}
}

// IsTainted returns true if id is tainted
func (g *Graph) IsTainted(id Node) bool {
	_, ok := g.tainted[id]
	return ok
}

// SourcesOf returns a copy of the sources of id. The set is empty when id is not tainted.
func (g *Graph) SourcesOf(id Node) NodeSet {
	res := NodeSet{}
	if t, ok := g.tainted[id]; ok {
		for s := range t.sources {
			res[s] = true
		}
	}
	return res
}

// IsSource returns true if id is a registered source
func (g *Graph) IsSource(id Node) bool {
	_, ok := g.sources[id]
	return ok
}

// SourceSpan returns the span of the source id
func (g *Graph) SourceSpan(id Node) (clarity.Span, bool) {
	if src, ok := g.sources[id]; ok {
		return src.span, true
	}
	return clarity.Span{}, false
}

// SourceNodes returns the registered sources in a stable order
func (g *Graph) SourceNodes() []Node {
	return sortedNodes(g.sourcesSet())
}

func (g *Graph) sourcesSet() NodeSet {
	s := make(NodeSet, len(g.sources))
	for id := range g.sources {
		s[id] = true
	}
	return s
}

// Registered returns the subset of nodes that are registered sources
func (g *Graph) Registered(nodes NodeSet) NodeSet {
	res := NodeSet{}
	for n := range nodes {
		if g.IsSource(n) {
			res[n] = true
		}
	}
	return res
}

// Check verifies the invariants of the graph: symmetry between sources and tainted nodes, and no tainted node
// without sources.
func (g *Graph) Check() error {
	for id, t := range g.tainted {
		if len(t.sources) == 0 {
			return fmt.Errorf("%s is tainted with no source", id)
		}
		for s := range t.sources {
			src, ok := g.sources[s]
			if !ok {
				return fmt.Errorf("%s is tainted by %s which is not a source", id, s)
			}
			if !src.children[id] {
				return fmt.Errorf("%s is tainted by %s but is not one of its children", id, s)
			}
		}
	}
	for s, src := range g.sources {
		for child := range src.children {
			t, ok := g.tainted[child]
			if !ok || !t.sources[s] {
				return fmt.Errorf("%s is a child of %s but is not tainted by it", child, s)
			}
		}
	}
	return nil
}
