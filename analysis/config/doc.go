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
Package config provides a simple way to manage configuration files.

Use [LoadFromFile](filename) to load a configuration from a specific filename, or [Load](filename, contents) when the
contents have already been read.

Use [SetGlobalConfig](filename) to set filename as the global config, and then [LoadGlobal]() to load the global config.

A config file should be in yaml format. The top-level fields are options, check and lint. The other fields are
defined by the types of the fields of [Config] and nested struct types. Fields that are not specified keep their
default value from [NewDefault]. For example, a valid config file is as follows:

	options:
	  log-level: 4
	  exclude-paths:
	    - tests
	check:
	  trusted-sender: true
	  sinks:
	    - var-set
	    - map-set
	lint:
	  enabled: true
	  exclude:
	    - unwrap-panic

# Strict mode

Setting check.strict disables every option that treats a construct as a check of the inputs without looking at what
the construct does: trusted-sender, trusted-caller and callee-filter.
*/
package config
