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
Package taint implements the taint checker for Clarity contracts. The main entry point of the analysis is the
[Analyze] function, which returns a [Result] containing the diagnostics of the contract.

The parameters of public functions are untrusted input: they are the sources of the analysis. Data that flows from
a source to a state-mutating built-in (var-set, and the other configured sinks) without being checked is reported.
Data is checked when it flows into the condition of an if, an operand of and or or, or, depending on the settings,
the condition of an asserts! or an equality test with tx-sender or contract-caller.

The state of the analysis is a [Graph] between the sources and the nodes they taint. The graph is scoped to a
function definition: it is reset when a new public or private function starts.

Annotations in the comments of the contract guide the checker:
  - allow(unchecked_data) skips the expression below it,
  - allow(unchecked_params) makes the parameters of the private function below it sources,
  - filter(a, b) marks the sources a and b as checked once the expression below it has been analyzed,
  - filter(*) marks all the data as checked once the expression below it has been analyzed.
*/
package taint
