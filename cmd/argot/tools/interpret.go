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


package tools

import "regexp"

// Captures errors happening before any analysis starts (contracts could not load)
var regexCouldNotLoad = regexp.MustCompile("could not load contracts|no contract found|is not a contract file")

// Captures the kind of error that happen when you put a flag after the contract paths
var flagAfterPaths = regexp.MustCompile(`(^|\s|: )-\w[\w-]*(: no such file| is not a contract file)`)

// Captures parse errors of the contracts, which are reported as file:line:col: message
var regexSyntaxError = regexp.MustCompile(`\.clar:\d+:\d+: `)

// Captures errors in the selection of the lint rules
var regexUnknownRule = regexp.MustCompile("unknown lint rule")

// Captures errors in the config file
var regexBadConfig = regexp.MustCompile("failed to load config file")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	switch {
	case regexCouldNotLoad.MatchString(errMsg):
		if flagAfterPaths.MatchString(errMsg) {
			return "all command line flags should be before the paths of the contracts to analyze"
		}
		return "the paths should be .clar files, or directories containing .clar files that are not excluded"
	case regexSyntaxError.MatchString(errMsg):
		return "the contract does not parse; check that it deploys with clarinet"
	case regexUnknownRule.MatchString(errMsg):
		return "run argot detectors to list the available rules"
	case regexBadConfig.MatchString(errMsg):
		return "the config file must be yaml, with the sections options, check and lint"
	}
	return ""
}
