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
	"time"

	"github.com/awslabs/argot-clarity/analysis/annotations"
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Settings are the settings of one run of the checker
type Settings struct {
	// TrustedSender makes (is-eq tx-sender x) validate every input
	TrustedSender bool
	// TrustedCaller makes (is-eq contract-caller x) validate every input
	TrustedCaller bool
	// CalleeFilter filters the arguments passed to private functions that check their parameters
	CalleeFilter bool
	// CheckPrivateCalls treats the arguments of calls to private functions as sinks, unless the function accepts
	// unchecked parameters
	CheckPrivateCalls bool
	// AssertsFilter makes the condition of asserts! validate its inputs
	AssertsFilter bool
	// Sinks are the built-ins whose data arguments are checked. Always contains var-set.
	Sinks []string
	// ExemptTypes are the parameter types that are never sources
	ExemptTypes []string
}

// NewSettings returns the settings of the checker for the options in the config.
func NewSettings(opts config.CheckOptions) Settings {
	s := Settings{
		TrustedSender:     opts.TrustedSender,
		TrustedCaller:     opts.TrustedCaller,
		CalleeFilter:      opts.CalleeFilter,
		CheckPrivateCalls: opts.CheckPrivateCalls,
		AssertsFilter:     opts.AssertsFilter,
		Sinks:             slices.Clone(opts.Sinks),
		ExemptTypes:       slices.Clone(opts.ExemptTypes),
	}
	if opts.Strict {
		s.TrustedSender = false
		s.TrustedCaller = false
		s.CalleeFilter = false
	}
	if !slices.Contains(s.Sinks, config.DefaultSink) {
		s.Sinks = append([]string{config.DefaultSink}, s.Sinks...)
	}
	return s
}

// FunctionInfo records, for each parameter of a private function, whether the parameter was declared unchecked and
// whether the function ended up checking it.
type FunctionInfo struct {
	Unchecked []bool
	Filtered  []bool
}

// Result is the result of the analysis of one contract
type Result struct {
	// Diagnostics are the warnings and their notes, ordered by location
	Diagnostics []diagnostics.Diagnostic
	// PublicFunctions are the names of the public and read-only functions, sorted
	PublicFunctions []string
	// PrivateFunctions maps the private functions to the information about their parameters
	PrivateFunctions map[string]FunctionInfo
}

// checker holds the state of the analysis of one contract
type checker struct {
	settings     Settings
	logger       *config.LogGroup
	contract     *clarity.Contract
	graph        *Graph
	resolver     *resolver
	collector    *collector
	publicFuncs  map[string]bool
	privateFuncs map[string]FunctionInfo
	inAsContract bool
}

func newChecker(cfg *config.Config, logger *config.LogGroup, contract *clarity.Contract,
	annots []annotations.Annotation) *checker {
	return &checker{
		settings:     NewSettings(cfg.Check),
		logger:       logger,
		contract:     contract,
		graph:        NewGraph(),
		resolver:     newResolver(annots),
		collector:    newCollector(),
		publicFuncs:  map[string]bool{},
		privateFuncs: map[string]FunctionInfo{},
	}
}

// Analyze runs the taint checker on the contract, with the annotations collected from its comments.
// Unchecked data reaching a sink is reported as a warning followed by one note per source of the data.
//
// Each call uses a fresh state: analyzing the same contract twice gives the same diagnostics.
// An error is returned only when the analysis reaches an inconsistent state, in which case no diagnostic is
// returned for the contract.
func Analyze(cfg *config.Config, contract *clarity.Contract, annots []annotations.Annotation) (Result, error) {
	return AnalyzeWithLogger(cfg, config.NewLogGroup(cfg), contract, annots)
}

// AnalyzeWithLogger is Analyze with a specific logger
func AnalyzeWithLogger(cfg *config.Config, logger *config.LogGroup, contract *clarity.Contract,
	annots []annotations.Annotation) (result Result, err error) {
	c := newChecker(cfg, logger, contract, annots)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			invariantErr, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			result = Result{}
			err = fmt.Errorf("taint analysis of %s aborted: %w", contract.Path, invariantErr)
		}
	}()
	for _, expr := range contract.Expressions {
		c.traverseExpr(expr)
		if logger.Level() >= config.DebugLevel {
			if checkErr := c.graph.Check(); checkErr != nil {
				violation("after %s: %s", expr.Span, checkErr)
			}
		}
	}
	result = c.result()
	logger.Debugf("taint analysis of %s done (%.2f s): %d diagnostics", contract.Path,
		time.Since(start).Seconds(), len(result.Diagnostics))
	return result, nil
}

func (c *checker) result() Result {
	public := maps.Keys(c.publicFuncs)
	slices.Sort(public)
	return Result{
		Diagnostics:      c.collector.finalize(),
		PublicFunctions:  public,
		PrivateFunctions: c.privateFuncs,
	}
}

// taintCheck reports a diagnostic group if expr is tainted. The group replaces any group previously recorded
// for expr.
func (c *checker) taintCheck(expr *clarity.Expr) {
	node := Expr(expr.ID)
	if !c.graph.IsTainted(node) {
		return
	}
	var spans []clarity.Span
	for _, s := range sortedNodes(c.graph.SourcesOf(node)) {
		span, ok := c.graph.SourceSpan(s)
		if !ok {
			violation("%s has unregistered source %s", node, s)
		}
		spans = append(spans, span)
	}
	c.logger.Debugf("unchecked data reaches sink at %s:%s", c.contract.Path, expr.Span)
	c.collector.set(expr.ID, uncheckedDataGroup(expr, spans))
}

// filterSource removes the source id. With rollback, the diagnostics of the expressions that are no longer tainted
// are discarded.
func (c *checker) filterSource(id Node, rollback bool) {
	c.logger.Tracef("filter source %s", id)
	c.discard(c.graph.FilterSource(id), rollback)
}

// filterTaint removes the taint of expr and filters all its sources
func (c *checker) filterTaint(expr *clarity.Expr, rollback bool) {
	c.logger.Tracef("filter taint of %s at %s", expr, expr.Span)
	c.discard(c.graph.FilterTaint(Expr(expr.ID)), rollback)
}

func (c *checker) discard(untainted []Node, rollback bool) {
	if !rollback {
		return
	}
	for _, n := range untainted {
		if n.Kind == ExprNode {
			c.collector.removeFlow(n.ID)
		}
	}
}

// applyAnnotation applies the filters of the active annotation
func (c *checker) applyAnnotation() {
	a, ok := c.resolver.current()
	if !ok {
		return
	}
	switch a.Kind {
	case annotations.Filter:
		for _, name := range a.Names {
			c.filterSource(Symbol(name), false)
		}
	case annotations.FilterAll:
		c.logger.Tracef("filter all at line %d", a.Line())
		c.graph.FilterAll()
	}
}
