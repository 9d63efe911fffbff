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


package dependencies

import (
	"github.com/awslabs/argot-clarity/internal/graphutil"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
	"golang.org/x/exp/slices"
)

// contractGraph is the dependency graph over the indices of the sorted contracts. An edge a -> b means that a
// depends on b. Dependencies outside of the analyzed contracts are ignored.
type contractGraph struct {
	ids   []contractID
	index map[contractID]int
	g     *graphutil.IntGraph
}

func newContractGraph(deps Dependencies) *contractGraph {
	cg := &contractGraph{ids: deps.Contracts(), index: map[contractID]int{}}
	for i, id := range cg.ids {
		cg.index[id] = i
	}
	cg.g = graphutil.NewIntGraph(len(cg.ids))
	for i, id := range cg.ids {
		for _, dep := range deps[id].List() {
			if j, ok := cg.index[dep.Contract]; ok {
				cg.g.AddEdge(i, j)
			}
		}
	}
	return cg
}

func (cg *contractGraph) contracts(indices []int) []contractID {
	res := make([]contractID, len(indices))
	for i, x := range indices {
		res[i] = cg.ids[x]
	}
	return res
}

// Order returns the contracts in an order in which they can be published: every contract comes after the
// contracts it depends on. Contracts that do not depend on each other are in lexical order.
// Returns a *CycleError when the dependencies have a cycle.
func Order(deps Dependencies) ([]contractID, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	cg := newContractGraph(deps)
	if cycle := graphutil.FindCycle(cg.g); cycle != nil {
		return nil, &CycleError{Contracts: cg.contracts(cycle)}
	}
	// topological sorts put the source of an edge first, dependencies must come first
	reversed := graphutil.NewIntGraph(len(cg.ids))
	for _, k := range cg.g.Keys {
		for _, w := range cg.g.Successors(k) {
			reversed.AddEdge(w, k)
		}
	}
	sorted, err := topo.SortStabilized(graphutil.ToGonum(reversed), func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) int { return int(a.ID() - b.ID()) })
	})
	if err != nil {
		// unreachable: the graph has no cycle
		return nil, err
	}
	order := make([]int, len(sorted))
	for i, n := range sorted {
		order[i] = int(n.ID())
	}
	return cg.contracts(order), nil
}

// AllCycles returns every elementary cycle of the dependencies. Each cycle starts and ends with the same contract.
func AllCycles(deps Dependencies) [][]contractID {
	cg := newContractGraph(deps)
	var cycles [][]contractID
	for _, c := range graphutil.FindAllElementaryCycles(cg.g) {
		cycles = append(cycles, cg.contracts(c))
	}
	return cycles
}
