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
Package cli implements the Argot interactive CLI: a terminal application that loads Clarity contracts once and lets
you run the analyses on them, inspect their functions and annotations, and reload them after editing.

Usage:

	argot cli [flags] contract.clar contracts/...

The flags are:

	-verbose=false
		verbose mode, overrides any verbose option specified in the config file
	-config config-file.yaml
		a configuration file for the analyses. The default config is used if none is given.
	-exclude path
		a file or directory to skip when loading the contracts, can be repeated

# Basic Commands

	help             print a list of the commands, with short help messages for each

	exit             exit the program gracefully (ctrl+d and ctrl+c also exit)

	state?           show a summary of the state, including the paths of the config file and the contracts

	ls               list the loaded contracts

	reload           load the contracts again, after editing them

	reconfig [path]  reload the config file, or load the config file at path if specified

# Inspecting Contracts

	focus name       focus on a contract: the other commands only apply to it

	unfocus          exit "focus" mode

	functions [re]   list the functions matching re. Flag -p shows only public and read-only functions.

	where re         show the locations of all the functions matching re

	show name|line   print the source of a function, or a line, of the focused contract

	annotations      list the annotations found in the comments

# Running Analyses

	check            run the taint checker. Flag -l also runs the lint rules.

	lint [rule...]   run the lint rules, or only the rules given

	rules            list the lint rules

	deps             print the order in which the contracts can be published. Flag -cycles prints the cycles.

Command and contract names are completed with the tab key.
*/
package cli
