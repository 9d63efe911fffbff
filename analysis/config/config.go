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

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/awslabs/argot-clarity/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig. If no file has been set, the default
// config is returned.
func LoadGlobal() (*Config, error) {
	if configFile == "" {
		return NewDefault(), nil
	}
	return LoadFromFile(configFile)
}

// Config contains the options of the tool, the settings of the taint checker and the settings of the linter.
// If some field is not defined in the config file, it will have its default value.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// Check contains the settings of the taint checker
	Check CheckOptions `yaml:"check"`

	// Lint contains the settings of the linter
	Lint LintOptions `yaml:"lint"`
}

// Options are the general options of the tool
type Options struct {
	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Deployer is the address used as issuer of the contracts that are analyzed. Relative contract principals
	// like .token resolve to this address.
	Deployer string `yaml:"deployer"`

	// ExcludePaths lists the files and directories, relative to the working directory, whose contracts are not
	// loaded
	ExcludePaths []string `yaml:"exclude-paths"`
}

// CheckOptions are the settings of the taint checker
type CheckOptions struct {
	// Strict disables the trust exemptions and the filtering through private function calls
	Strict bool `yaml:"strict"`

	// TrustedSender treats (is-eq tx-sender x) as a check that validates every input
	TrustedSender bool `yaml:"trusted-sender"`

	// TrustedCaller treats (is-eq contract-caller x) as a check that validates every input
	TrustedCaller bool `yaml:"trusted-caller"`

	// CalleeFilter filters the arguments of calls to private functions that check the corresponding parameters
	CalleeFilter bool `yaml:"callee-filter"`

	// CheckPrivateCalls reports unchecked data passed to private functions that are not annotated to accept it
	CheckPrivateCalls bool `yaml:"check-private-calls"`

	// AssertsFilter treats the condition of asserts! as a check, like the condition of an if
	AssertsFilter bool `yaml:"asserts-filter"`

	// Sinks lists the built-ins whose data arguments must not be unchecked
	Sinks []string `yaml:"sinks"`

	// ExemptTypes lists the parameter types that cannot carry unchecked data
	ExemptTypes []string `yaml:"exempt-types"`
}

// LintOptions are the settings of the linter
type LintOptions struct {
	// Enabled runs the lint rules together with the taint checker
	Enabled bool `yaml:"enabled"`

	// Include lists the rules to run. All rules are run if it is empty.
	Include []string `yaml:"include"`

	// Exclude lists the rules not to run
	Exclude []string `yaml:"exclude"`

	// MaxRounds bounds the number of rounds of the lint runner
	MaxRounds int `yaml:"max-rounds"`
}

// NewDefault returns a default config.
func NewDefault() *Config {
	return &Config{
		sourceFile: "",
		Options: Options{
			LogLevel:     int(InfoLevel),
			Deployer:     DefaultDeployer,
			ExcludePaths: []string{},
		},
		Check: CheckOptions{
			Strict:            false,
			TrustedSender:     false,
			TrustedCaller:     false,
			CalleeFilter:      false,
			CheckPrivateCalls: false,
			AssertsFilter:     false,
			Sinks:             []string{DefaultSink},
			ExemptTypes:       []string{DefaultExemptType},
		},
		Lint: LintOptions{
			Enabled:   false,
			Include:   []string{},
			Exclude:   []string{},
			MaxRounds: DefaultMaxLintRounds,
		},
	}
}

// LoadFromFile reads a configuration from a file
func LoadFromFile(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Load(filename, b)
}

// Load reads a configuration from the contents of a file. The filename is used to resolve relative paths.
func Load(filename string, contents []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.LogLevel < int(ErrLevel) || cfg.LogLevel > int(TraceLevel) {
		return nil, fmt.Errorf("log-level %d is not between %d and %d", cfg.LogLevel, ErrLevel, TraceLevel)
	}

	if cfg.Deployer == "" {
		cfg.Deployer = DefaultDeployer
	}

	if cfg.Lint.MaxRounds <= 0 {
		cfg.Lint.MaxRounds = DefaultMaxLintRounds
	}

	cfg.Check.Sinks = funcutil.Map(cfg.Check.Sinks, strings.TrimSpace)
	cfg.Check.ExemptTypes = funcutil.Map(cfg.Check.ExemptTypes, strings.TrimSpace)
	return cfg, nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// SourceFile returns the file the config was loaded from, or an empty string for a default config
func (c Config) SourceFile() string {
	return c.sourceFile
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// ExceedsMaxRounds returns true if round is beyond the maximum number of lint rounds
func (c Config) ExceedsMaxRounds(round int) bool {
	return round > c.Lint.MaxRounds
}
