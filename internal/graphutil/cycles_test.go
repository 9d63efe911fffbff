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


package graphutil_test

import (
	"testing"

	"github.com/awslabs/argot-clarity/internal/graphutil"
	"github.com/google/go-cmp/cmp"
	"github.com/yourbasic/graph"
	"gonum.org/v1/gonum/graph/topo"
)

func newGraph(n int, edges [][2]int) *graphutil.IntGraph {
	g := graphutil.NewIntGraph(n)
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  []int
	}{
		{"empty", 0, nil, nil},
		{"dag", 4, [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}}, nil},
		{"self loop", 2, [][2]int{{0, 1}, {1, 1}}, []int{1, 1}},
		{"triangle", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 1}}, []int{1, 2, 3, 1}},
		{"diamond with back edge", 4, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {3, 0}}, []int{0, 1, 3, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graphutil.FindCycle(newGraph(tt.n, tt.edges))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("cycle (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindAllElementaryCycles(t *testing.T) {
	// two cycles through 0, one cycle between 3 and 4, a self loop on 5
	g := newGraph(6, [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 0}, {2, 3}, {3, 4}, {4, 3}, {5, 5}})
	stats := graph.Check(g)
	t.Logf("Stats:\n\tsize: %d\n\tmulti: %d\n\tloops: %d\n\tisolated: %d",
		stats.Size, stats.Multi, stats.Loops, stats.Isolated)
	if stats.Loops != 1 {
		t.Errorf("expected 1 self loop, got %d", stats.Loops)
	}

	got := graphutil.FindAllElementaryCycles(g)
	want := [][]int{{0, 1, 0}, {0, 1, 2, 0}, {3, 4, 3}, {5, 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cycles (-want +got):\n%s", diff)
	}
}

func TestFindAllElementaryCyclesAcyclic(t *testing.T) {
	g := newGraph(3, [][2]int{{0, 1}, {1, 2}})
	if cycles := graphutil.FindAllElementaryCycles(g); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestSubgraph(t *testing.T) {
	g := newGraph(4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	sub := graphutil.Subgraph(g, []int{3, 1, 2})
	if sub.Order() != 4 {
		t.Errorf("subgraph should keep the order of the original graph, got %d", sub.Order())
	}
	if diff := cmp.Diff([]int{1, 2, 3}, sub.Keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if sub.HasEdge(3, 0) || !sub.HasEdge(2, 3) {
		t.Errorf("unexpected edges %v", sub.Edges)
	}
}

func TestToGonum(t *testing.T) {
	g := newGraph(4, [][2]int{{0, 1}, {2, 1}, {1, 3}, {3, 3}})
	dg := graphutil.ToGonum(g)
	if dg.Nodes().Len() != 4 {
		t.Errorf("expected 4 nodes, got %d", dg.Nodes().Len())
	}
	sorted, err := topo.Sort(dg)
	if err != nil {
		t.Fatalf("the graph without its self loop should be acyclic: %v", err)
	}
	pos := map[int64]int{}
	for i, n := range sorted {
		pos[n.ID()] = i
	}
	if pos[0] > pos[1] || pos[2] > pos[1] || pos[1] > pos[3] {
		t.Errorf("order does not respect the edges: %v", pos)
	}
}
