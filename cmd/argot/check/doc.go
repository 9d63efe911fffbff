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


/*
Package check implements the front-end to the Argot taint checker for Clarity contracts. The checker reports the
data coming from the parameters of public functions that reaches a state-changing built-in without being checked.

Usage:

	argot check [flags] contract.clar contracts/...

The flags are:

	-config path        a path to the configuration file with the settings of the checker and the linter

	-verbose=false      setting verbose mode, overrides config file options if set

	-format text        the output format: text, yaml or json

	-exclude path       a file or directory to skip, can be repeated

	-no-color=false     never color the output, even on a terminal

	-fail-on-warning    exit with status 1 when a warning is reported

The linter runs after the checker when it is enabled in the config file.
*/
package check
