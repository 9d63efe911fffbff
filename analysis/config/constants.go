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

package config

const (
	// DefaultDeployer is the deployer address of the first account of a Clarinet devnet
	DefaultDeployer = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	// DefaultSink is the built-in checked when no sinks are configured
	DefaultSink = "var-set"
	// DefaultExemptType is the parameter type that is exempt when no exempt types are configured
	DefaultExemptType = "bool"
	// DefaultMaxLintRounds bounds the number of rounds of the lint runner
	DefaultMaxLintRounds = 8
)
