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


package graphutil

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/simple"
)

// IntGraph is a directed graph over the dense node ids 0..Order()-1. It implements the graph.Iterator interface of
// github.com/yourbasic/graph, and visits the successors of a node in increasing order.
type IntGraph struct {
	// order is the number of node ids, including the ones excluded from a subgraph
	order int

	// Keys are the ids of the nodes in the graph, sorted
	Keys []int

	// Edges[x][y] means there is a directed edge from x to y
	Edges map[int]map[int]bool
}

// NewIntGraph returns a graph with the nodes 0..n-1 and no edges
func NewIntGraph(n int) *IntGraph {
	g := &IntGraph{
		order: n,
		Keys:  make([]int, n),
		Edges: make(map[int]map[int]bool, n),
	}
	for i := 0; i < n; i++ {
		g.Keys[i] = i
		g.Edges[i] = map[int]bool{}
	}
	return g
}

// AddEdge adds the edge from -> to. Both nodes must be in the graph.
func (g *IntGraph) AddEdge(from, to int) {
	if g.Edges[from] == nil || g.Edges[to] == nil {
		panic("graphutil: edge between nodes outside of the graph")
	}
	g.Edges[from][to] = true
}

// HasEdge returns true if there is an edge from -> to
func (g *IntGraph) HasEdge(from, to int) bool {
	return g.Edges[from][to]
}

// Successors returns the targets of the edges out of v, sorted
func (g *IntGraph) Successors(v int) []int {
	s := maps.Keys(g.Edges[v])
	slices.Sort(s)
	return s
}

// Subgraph returns the graph with only the nodes in include and the edges between them. Node ids do not change.
func Subgraph(original *IntGraph, include []int) *IntGraph {
	keys := slices.Clone(include)
	slices.Sort(keys)
	edges := make(map[int]map[int]bool, len(keys))
	for _, i := range keys {
		edges[i] = map[int]bool{}
	}
	for _, i := range keys {
		for e := range original.Edges[i] {
			if _, ok := edges[e]; ok {
				edges[i][e] = true
			}
		}
	}
	return &IntGraph{order: original.order, Keys: keys, Edges: edges}
}

// Order implements graph.Iterator
func (g *IntGraph) Order() int {
	return g.order
}

// Visit implements graph.Iterator
func (g *IntGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := g.Edges[v]; !ok {
		return false
	}
	for _, w := range g.Successors(v) {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// ToGonum returns a copy of g as a gonum directed graph. The gonum node ids are the ids of g.
func ToGonum(g *IntGraph) *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	for _, k := range g.Keys {
		dg.AddNode(simple.Node(int64(k)))
	}
	for _, k := range g.Keys {
		for _, w := range g.Successors(k) {
			if w == k {
				// gonum simple graphs have no self loops
				continue
			}
			dg.SetEdge(simple.Edge{F: simple.Node(int64(k)), T: simple.Node(int64(w))})
		}
	}
	return dg
}
