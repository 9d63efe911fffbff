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


package cli

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/awslabs/argot-clarity/analysis"
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/dependencies"
	"github.com/awslabs/argot-clarity/analysis/detectors"
	"github.com/awslabs/argot-clarity/analysis/lang"
	"github.com/awslabs/argot-clarity/analysis/render"
	"github.com/awslabs/argot-clarity/internal/funcutil"
	"golang.org/x/term"
)

// functionEntry is a function of a contract, with its location
type functionEntry struct {
	contract *clarity.Contract
	def      lang.FunctionDefinition
	expr     *clarity.Expr
}

// functionsMatching returns the functions of the targets whose name matches the first argument of the command, or
// all the functions if there is no argument
func functionsMatching(tt *term.Terminal, s *State, command Command) ([]functionEntry, bool) {
	r, err := regexp.Compile(command.Arg(0, ".*"))
	if err != nil {
		WriteErr(tt, "invalid function name regex: %s", err)
		return nil, false
	}
	var res []functionEntry
	for _, c := range s.Targets() {
		for _, expr := range c.Contract.Expressions {
			if fd, ok := lang.MatchDefineFunction(expr); ok && r.MatchString(fd.Name) {
				res = append(res, functionEntry{contract: c.Contract, def: fd, expr: expr})
			}
		}
	}
	return res, true
}

// cmdFunctions lists the functions matching a regex
func cmdFunctions(tt *term.Terminal, s *State, command Command) bool {
	if s == nil {
		writeHelp(tt, cmdFunctionsName, "[regex]", "list the functions matching regex, in the focused contract if any")
		writeFmt(tt, "\t  Options:\n")
		writeFmt(tt, "\t    -p     list only public and read-only functions\n")
		return false
	}
	funcs, ok := functionsMatching(tt, s, command)
	if !ok {
		return false
	}
	n := 0
	for _, f := range funcs {
		if command.Flags["p"] && f.def.Kind == lang.DefinePrivate {
			continue
		}
		escape := tt.Escape.Cyan
		if f.def.Kind == lang.DefinePrivate {
			escape = tt.Escape.Magenta
		}
		params := funcutil.Map(f.def.Params, func(p clarity.TypedVar) string { return p.Name })
		writeFmt(tt, "%s%-17s%s %s.%s(%s)\n", escape, f.def.Kind, tt.Escape.Reset, f.contract.Identifier.Name,
			f.def.Name, strings.Join(params, " "))
		n++
	}
	WriteSuccess(tt, "(%d matching functions)", n)
	return false
}

// cmdWhere prints the locations of the functions matching a regex
func cmdWhere(tt *term.Terminal, s *State, command Command) bool {
	if s == nil {
		writeHelp(tt, cmdWhereName, "regex", "print the locations of the functions matching regex")
		return false
	}
	if len(command.Args) == 0 {
		WriteErr(tt, "where expects a function name")
		return false
	}
	funcs, _ := functionsMatching(tt, s, command)
	for _, f := range funcs {
		writeFmt(tt, "%s:%d:%d %s\n", f.contract.Path, f.expr.Span.StartLine, f.expr.Span.StartColumn, f.def.Name)
	}
	return false
}

// cmdShow prints source lines of the focused contract
func cmdShow(tt *term.Terminal, s *State, command Command) bool {
	if s == nil {
		writeHelp(tt, cmdShowName, "function|line", "print the source of a function or a line of the focused contract")
		return false
	}
	if s.Focused == nil {
		WriteErr(tt, "show needs a focused contract: use focus first")
		return false
	}
	contract := s.Focused.Contract
	arg := command.Arg(0, "")
	if line, err := strconv.Atoi(arg); err == nil {
		writeSource(tt, contract, line, line)
		return false
	}
	found := false
	for _, expr := range contract.Expressions {
		if fd, ok := lang.MatchDefineFunction(expr); ok && fd.Name == arg {
			writeSource(tt, contract, expr.Span.StartLine, expr.Span.EndLine)
			found = true
		}
	}
	if !found {
		WriteErr(tt, "no function or line %q in %s", arg, contract.Identifier.Name)
	}
	return false
}

func writeSource(tt *term.Terminal, contract *clarity.Contract, from int, to int) {
	for line := from; line <= to; line++ {
		writeFmt(tt, "%s%4d%s | %s\n", tt.Escape.Cyan, line, tt.Escape.Reset, contract.SourceLine(line))
	}
}

// cmdAnnotations lists the annotations of the contracts
func cmdAnnotations(tt *term.Terminal, s *State, _ Command) bool {
	if s == nil {
		writeHelp(tt, cmdAnnotationsName, "", "list the annotations found in the comments of the contracts")
		return false
	}
	for _, c := range s.Targets() {
		for _, a := range c.Annotations {
			writeFmt(tt, "%s:%d %s\n", c.Contract.Path, a.Line(), a)
		}
	}
	return false
}

// runPasses runs the passes on the targets and prints the report
func runPasses(tt *term.Terminal, s *State, passes analysis.Passes) {
	report, err := analysis.RunPasses(s.Config, s.Logger, s.Targets(), passes)
	if err != nil {
		WriteErr(tt, "%s", err)
		return
	}
	if err := render.Text(tt, report, analysis.Sources(s.Contracts)); err != nil {
		WriteErr(tt, "%s", err)
	}
}

// cmdCheck runs the taint checker
func cmdCheck(tt *term.Terminal, s *State, command Command) bool {
	if s == nil {
		writeHelp(tt, cmdCheckName, "", "run the taint checker on the focused contract, or on all contracts")
		writeFmt(tt, "\t  Options:\n")
		writeFmt(tt, "\t    -l     also run the lint rules\n")
		return false
	}
	runPasses(tt, s, analysis.Passes{Taint: true, Lint: s.Config.Lint.Enabled || command.Flags["l"]})
	return false
}

// cmdLint runs the lint rules, all of them or the ones given as arguments
func cmdLint(tt *term.Terminal, s *State, command Command) bool {
	if s == nil {
		writeHelp(tt, cmdLintName, "[rule...]", "run the lint rules, or only the rules given")
		return false
	}
	include := s.Config.Lint.Include
	if len(command.Args) > 0 {
		include = command.Args
	}
	saved := s.Config.Lint.Include
	s.Config.Lint.Include = include
	defer func() { s.Config.Lint.Include = saved }()
	runPasses(tt, s, analysis.Passes{Lint: true})
	return false
}

// cmdRules lists the lint rules
func cmdRules(tt *term.Terminal, s *State, _ Command) bool {
	if s == nil {
		writeHelp(tt, cmdRulesName, "", "list the lint rules")
		return false
	}
	for _, rule := range detectors.All() {
		writeFmt(tt, "%s%-28s%s %s\n", tt.Escape.Blue, rule.Name(), tt.Escape.Reset, rule.Description())
	}
	return false
}

// cmdDeps prints the publish order of all the loaded contracts
func cmdDeps(tt *term.Terminal, s *State, command Command) bool {
	if s == nil {
		writeHelp(tt, cmdDepsName, "", "print the order in which the contracts can be published")
		writeFmt(tt, "\t  Options:\n")
		writeFmt(tt, "\t    -cycles     print all the cycles between contracts\n")
		return false
	}
	deps, err := dependencies.Detect(funcutil.Map(s.Contracts, func(c *analysis.LoadedContract) *clarity.Contract {
		return c.Contract
	}))
	if err != nil {
		WriteErr(tt, "%s", err)
	}
	if command.Flags["cycles"] {
		cycles := dependencies.AllCycles(deps)
		for _, cycle := range cycles {
			writeFmt(tt, "%s\n", strings.Join(funcutil.Map(cycle, clarity.QualifiedContractIdentifier.String), " -> "))
		}
		WriteSuccess(tt, "(%d cycles)", len(cycles))
		return false
	}
	order, err := dependencies.Order(deps)
	if err != nil {
		WriteErr(tt, "%s", err)
		return false
	}
	for i, id := range order {
		writeFmt(tt, "%d. %s\n", i+1, id)
	}
	return false
}
