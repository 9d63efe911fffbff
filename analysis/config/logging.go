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
	"io"
	"log"
	"os"
)

// LogLevel is the verbosity of a LogGroup
type LogLevel int

const (
	// ErrLevel=1 - only errors: contracts that could not be loaded or analyzed
	ErrLevel LogLevel = iota + 1

	// WarnLevel=2 - errors, and warnings such as malformed annotations or unresolved contract calls
	WarnLevel

	// InfoLevel=3 - the default: timing and a summary of each pass
	InfoLevel

	// DebugLevel=4 - contracts loaded, functions entered, sinks checked. Also checks the taint graph after every
	// top-level expression.
	DebugLevel

	// TraceLevel=5 - every change of the taint graph. Only useful on small contracts.
	TraceLevel
)

var levelPrefixes = [...]string{
	ErrLevel:   "[ERROR] ",
	WarnLevel:  "[WARN] ",
	InfoLevel:  "[INFO] ",
	DebugLevel: "[DEBUG] ",
	TraceLevel: "[TRACE] ",
}

func (l LogLevel) String() string {
	if l < ErrLevel || l > TraceLevel {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelPrefixes[l][1 : len(levelPrefixes[l])-2]
}

// LogGroup holds one logger per level. Messages above the level of the group are dropped.
type LogGroup struct {
	level   LogLevel
	loggers [TraceLevel + 1]*log.Logger
}

// NewLogGroup returns a log group writing to stderr at the level of the config
func NewLogGroup(config *Config) *LogGroup {
	l := &LogGroup{level: LogLevel(config.LogLevel)}
	for lvl := ErrLevel; lvl <= TraceLevel; lvl++ {
		l.loggers[lvl] = log.New(os.Stderr, levelPrefixes[lvl], log.LstdFlags)
	}
	return l
}

// SetAllOutput redirects every logger of the group to w
func (l *LogGroup) SetAllOutput(w io.Writer) {
	for lvl := ErrLevel; lvl <= TraceLevel; lvl++ {
		l.loggers[lvl].SetOutput(w)
	}
}

// SetAllFlags sets the log flags of every logger of the group
func (l *LogGroup) SetAllFlags(x int) {
	for lvl := ErrLevel; lvl <= TraceLevel; lvl++ {
		l.loggers[lvl].SetFlags(x)
	}
}

// Level returns the level of the log group
func (l *LogGroup) Level() LogLevel {
	return l.level
}

func (l *LogGroup) logf(lvl LogLevel, format string, v ...any) {
	if l.level >= lvl {
		l.loggers[lvl].Printf(format, v...)
	}
}

// Tracef logs at TraceLevel. Arguments are handled in the manner of Printf
func (l *LogGroup) Tracef(format string, v ...any) { l.logf(TraceLevel, format, v...) }

// Debugf logs at DebugLevel. Arguments are handled in the manner of Printf
func (l *LogGroup) Debugf(format string, v ...any) { l.logf(DebugLevel, format, v...) }

// Infof logs at InfoLevel. Arguments are handled in the manner of Printf
func (l *LogGroup) Infof(format string, v ...any) { l.logf(InfoLevel, format, v...) }

// Warnf logs at WarnLevel. Arguments are handled in the manner of Printf
func (l *LogGroup) Warnf(format string, v ...any) { l.logf(WarnLevel, format, v...) }

// Errorf logs at ErrLevel. Arguments are handled in the manner of Printf
func (l *LogGroup) Errorf(format string, v ...any) { l.logf(ErrLevel, format, v...) }
