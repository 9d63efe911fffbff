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


package analysis

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/awslabs/argot-clarity/analysis/annotations"
	"github.com/awslabs/argot-clarity/analysis/clarity"
	"github.com/awslabs/argot-clarity/analysis/config"
	"golang.org/x/exp/slices"
)

// ContractExt is the extension of the contract files
const ContractExt = ".clar"

// LoadedContract is a parsed contract with the annotations of its comments
type LoadedContract struct {
	Contract    *clarity.Contract
	Annotations []annotations.Annotation
}

// LoadContracts loads the contracts at paths. A path is either a contract file or a directory, in which case all
// the .clar files under it are loaded. The files excluded by the exclude-paths option are skipped.
//
// The name of a contract is the name of its file without the extension, and its issuer is the deployer of the
// config. The contracts are returned in the order of their paths.
// Malformed annotations are reported as warnings and skipped; a contract that does not parse is an error.
func LoadContracts(cfg *config.Config, logger *config.LogGroup, paths []string) ([]*LoadedContract, error) {
	start := time.Now()
	files, err := contractFiles(paths, MakeAbsolute(cfg.ExcludePaths))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no contract found in %s", strings.Join(paths, ", "))
	}

	byName := map[string]string{}
	var loaded []*LoadedContract
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ContractExt)
		if other, ok := byName[name]; ok {
			return nil, fmt.Errorf("contract name %q is used by both %s and %s", name, other, file)
		}
		byName[name] = file

		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("could not read contract: %w", err)
		}
		id := clarity.QualifiedContractIdentifier{Issuer: cfg.Deployer, Name: name}
		contract, err := clarity.Parse(file, string(src), id)
		if err != nil {
			return nil, err
		}
		annots, err := annotations.Collect(logger, contract)
		if err != nil {
			logger.Warnf("ignoring malformed annotations of %s", file)
		}
		loaded = append(loaded, &LoadedContract{Contract: contract, Annotations: annots})
	}
	logger.Infof("Loaded %d contracts (%.2f s).", len(loaded), time.Since(start).Seconds())
	return loaded, nil
}

// contractFiles returns the sorted list of contract files at paths, without duplicates
func contractFiles(paths []string, exclude []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(file string) error {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		if seen[abs] || IsExcluded(abs, exclude) {
			return nil
		}
		seen[abs] = true
		files = append(files, filepath.Clean(file))
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("could not load contracts: %w", err)
		}
		if !info.IsDir() {
			if filepath.Ext(p) != ContractExt {
				return nil, fmt.Errorf("%s is not a contract file", p)
			}
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(p, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(file) != ContractExt {
				return nil
			}
			return add(file)
		})
		if err != nil {
			return nil, fmt.Errorf("could not walk %s: %w", p, err)
		}
	}
	slices.Sort(files)
	return files, nil
}

// Sources maps the path of each contract to the contract
func Sources(contracts []*LoadedContract) map[string]*clarity.Contract {
	res := make(map[string]*clarity.Contract, len(contracts))
	for _, c := range contracts {
		res[c.Contract.Path] = c.Contract
	}
	return res
}
