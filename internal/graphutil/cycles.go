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
	"github.com/yourbasic/graph"
)

type color int

const (
	white color = iota
	grey
	black
)

// FindCycle returns a cycle of g, or nil if g is acyclic. The cycle starts and ends with the same node. The nodes
// are explored in increasing order, so the result is deterministic.
func FindCycle(g *IntGraph) []int {
	colors := make(map[int]color, len(g.Keys))
	var stack []int
	var cycle []int

	var visit func(v int) bool
	visit = func(v int) bool {
		colors[v] = grey
		stack = append(stack, v)
		for _, w := range g.Successors(v) {
			switch colors[w] {
			case grey:
				for i, x := range stack {
					if x == w {
						cycle = append(append([]int{}, stack[i:]...), w)
						return true
					}
				}
			case white:
				if visit(w) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		colors[v] = black
		return false
	}

	for _, v := range g.Keys {
		if colors[v] == white && visit(v) {
			return cycle
		}
	}
	return nil
}

// FindAllElementaryCycles finds all elementary cycles in the graph g.
// This uses Donald B. Johnson's algorithm presented in
// "Finding All The Elementary Circuits of a Directed Graph", 1975.
// Each cycle starts with its smallest node and ends with it.
func FindAllElementaryCycles(g *IntGraph) [][]int {
	s := &johnson{}
	start := 0
	for start < len(g.Keys) {
		sub := Subgraph(g, g.Keys[start:])
		least := -1
		for _, component := range graph.StrongComponents(sub) {
			if !isCyclic(sub, component) {
				continue
			}
			for _, v := range component {
				if least < 0 || v < least {
					least = v
				}
			}
		}
		if least < 0 {
			break
		}
		s.blocked = map[int]bool{}
		s.blist = map[int]map[int]bool{}
		s.stack = nil
		s.circuit(least, least, componentOf(sub, least))
		for start < len(g.Keys) && g.Keys[start] <= least {
			start++
		}
	}
	return s.cycles
}

// isCyclic returns true when the strong component has a cycle: it has more than one node, or a self loop.
// StrongComponents also returns the nodes outside of the subgraph, as singletons.
func isCyclic(g *IntGraph, component []int) bool {
	if len(component) >= 2 {
		return true
	}
	return len(component) == 1 && g.HasEdge(component[0], component[0])
}

// componentOf returns the subgraph of g restricted to the strong component of v
func componentOf(g *IntGraph, v int) *IntGraph {
	for _, component := range graph.StrongComponents(g) {
		for _, w := range component {
			if w == v {
				return Subgraph(g, component)
			}
		}
	}
	return Subgraph(g, []int{v})
}

type johnson struct {
	blocked map[int]bool
	blist   map[int]map[int]bool
	stack   []int
	cycles  [][]int
}

func (s *johnson) unblock(u int) {
	s.blocked[u] = false
	for w := range s.blist[u] {
		delete(s.blist[u], w)
		if s.blocked[w] {
			s.unblock(w)
		}
	}
}

func (s *johnson) circuit(v int, start int, g *IntGraph) bool {
	found := false
	s.stack = append(s.stack, v)
	s.blocked[v] = true
	for _, w := range g.Successors(v) {
		if w == start {
			cycle := append(append([]int{}, s.stack...), start)
			s.cycles = append(s.cycles, cycle)
			found = true
		} else if !s.blocked[w] {
			if s.circuit(w, start, g) {
				found = true
			}
		}
	}
	if found {
		s.unblock(v)
	} else {
		for _, w := range g.Successors(v) {
			if s.blist[w] == nil {
				s.blist[w] = map[int]bool{}
			}
			s.blist[w][v] = true
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	return found
}
