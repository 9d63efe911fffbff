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


// Package analysis loads Clarity contracts and runs the analysis passes on them.
package analysis

import (
	"errors"
	"runtime"
	"time"

	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/config"
	"github.com/awslabs/argot-clarity/analysis/dependencies"
	"github.com/awslabs/argot-clarity/analysis/detectors"
	"github.com/awslabs/argot-clarity/analysis/diagnostics"
	"github.com/awslabs/argot-clarity/analysis/taint"
	"github.com/awslabs/argot-clarity/internal/funcutil"
	"golang.org/x/exp/slices"
)

// Passes selects the analysis passes run by RunPasses
type Passes struct {
	// Taint runs the taint checker
	Taint bool
	// Lint runs the lint rules selected by the lint options of the config
	Lint bool
}

// Report is the result of the analysis of a set of contracts
type Report struct {
	// Order is the order in which the contracts were analyzed: dependencies come first when the dependency graph
	// is acyclic and resolved
	Order []clarity.QualifiedContractIdentifier `yaml:"order" json:"order"`
	// Files holds the diagnostics of each contract, in the same order
	Files []diagnostics.FileDiagnostics `yaml:"files" json:"files"`
}

// Count returns the number of diagnostics of the report with a level at least level
func (r Report) Count(level diagnostics.Level) int {
	n := 0
	for _, f := range r.Files {
		n += diagnostics.CountAtLeast(f.Diagnostics, level)
	}
	return n
}

// Analyze runs the taint checker on the contracts, and the linter if it is enabled in the config.
func Analyze(cfg *config.Config, logger *config.LogGroup, contracts []*LoadedContract) (Report, error) {
	return RunPasses(cfg, logger, contracts, Passes{Taint: true, Lint: cfg.Lint.Enabled})
}

// RunPasses runs the passes on each contract, in parallel.
// A contract whose analysis fails gets an error diagnostic, and the other contracts are still analyzed. The
// error returned is non-nil only when the config does not allow running the passes at all.
func RunPasses(cfg *config.Config, logger *config.LogGroup, contracts []*LoadedContract,
	passes Passes) (Report, error) {
	if passes.Lint {
		if _, err := detectors.Select(cfg.Lint.Include, cfg.Lint.Exclude); err != nil {
			return Report{}, err
		}
	}
	start := time.Now()
	ordered := orderContracts(logger, contracts)
	jobs := funcutil.Map(ordered, func(c *LoadedContract) contractJob {
		return contractJob{cfg: cfg, logger: logger, contract: c, passes: passes}
	})
	files := funcutil.MapParallel(jobs, runContractJob, runtime.NumCPU())

	report := Report{
		Order: funcutil.Map(ordered, func(c *LoadedContract) clarity.QualifiedContractIdentifier {
			return c.Contract.Identifier
		}),
		Files: files,
	}
	logger.Infof("Analysis of %d contracts done (%.2f s): %d warnings.", len(contracts),
		time.Since(start).Seconds(), report.Count(diagnostics.Warning))
	return report, nil
}

// orderContracts returns the contracts in publish order. If the dependencies have a cycle, the contracts are
// returned in lexical order of their identifiers.
func orderContracts(logger *config.LogGroup, contracts []*LoadedContract) []*LoadedContract {
	lexical := slices.Clone(contracts)
	slices.SortFunc(lexical, func(a, b *LoadedContract) int {
		return clarity.CompareContractIdentifiers(a.Contract.Identifier, b.Contract.Identifier)
	})

	deps, err := dependencies.Detect(funcutil.Map(lexical, func(c *LoadedContract) *clarity.Contract {
		return c.Contract
	}))
	if err != nil {
		// calls outside of the analyzed contracts do not constrain the order
		logger.Warnf("%s", err)
	}
	order, err := dependencies.Order(deps)
	if err != nil {
		logger.Warnf("analyzing contracts in lexical order: %s", err)
		return lexical
	}

	byID := map[clarity.QualifiedContractIdentifier]*LoadedContract{}
	for _, c := range lexical {
		byID[c.Contract.Identifier] = c
	}
	ordered := make([]*LoadedContract, 0, len(contracts))
	for _, id := range order {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// contractJob contains the information necessary to run the passes on one contract
type contractJob struct {
	cfg      *config.Config
	logger   *config.LogGroup
	contract *LoadedContract
	passes   Passes
}

// runContractJob runs the passes of the job and returns the diagnostics of the contract
func runContractJob(job contractJob) diagnostics.FileDiagnostics {
	contract := job.contract.Contract
	job.logger.Debugf("%-10s%s", "Analyzing", contract.Identifier)
	var errs []error
	var diags []diagnostics.Diagnostic

	if job.passes.Taint {
		result, err := taint.AnalyzeWithLogger(job.cfg, job.logger, contract, job.contract.Annotations)
		if err != nil {
			errs = append(errs, err)
		}
		diags = append(diags, result.Diagnostics...)
	}
	if job.passes.Lint {
		// rules hold state: each contract gets its own instances
		rules, err := detectors.Select(job.cfg.Lint.Include, job.cfg.Lint.Exclude)
		if err == nil {
			var findings []diagnostics.Diagnostic
			findings, err = detectors.Run(job.cfg, job.logger, contract, rules)
			diags = append(diags, findings...)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, err := range errs {
		job.logger.Errorf("%s: %s", contract.Path, err)
		diags = append(diags, diagnostics.Diagnostic{Level: diagnostics.Error, Message: err.Error()})
	}
	diagnostics.Sort(diags)
	return diagnostics.FileDiagnostics{
		Path:        contract.Path,
		Contract:    contract.Identifier.String(),
		Diagnostics: diags,
	}
}

// Err joins the error diagnostics of the report into one error, or returns nil if there are none
func (r Report) Err() error {
	var errs []error
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			if d.Level == diagnostics.Error {
				errs = append(errs, errors.New(f.Path+": "+d.Message))
			}
		}
	}
	return errors.Join(errs...)
}
