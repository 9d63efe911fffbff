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


package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// WriteErr prints a red line on the terminal
func WriteErr(tt *term.Terminal, format string, a ...any) {
	writeColoredLine(tt, tt.Escape.Red, format, a...)
}

// WriteSuccess prints a green line on the terminal
func WriteSuccess(tt *term.Terminal, format string, a ...any) {
	writeColoredLine(tt, tt.Escape.Green, format, a...)
}

// writeFmt writes format on the terminal. Without arguments, format is written as is, so contract source
// containing % is printed unchanged.
func writeFmt(tt *term.Terminal, format string, a ...any) {
	if len(a) == 0 {
		io.WriteString(tt, format)
		return
	}
	fmt.Fprintf(tt, format, a...)
}

func writeColoredLine(tt *term.Terminal, escape []byte, format string, a ...any) {
	writeFmt(tt, "%s%s%s\n", escape, fmt.Sprintf(format, a...), tt.Escape.Reset)
}

// writeHelp prints the help line of a command
func writeHelp(tt *term.Terminal, name string, args string, doc string) {
	if args != "" {
		args = " " + args
	}
	writeFmt(tt, "  %s%s%s%s : %s\n", tt.Escape.Blue, name, tt.Escape.Reset, args, doc)
}

// displayElement is one cell of a listing, printed with its escape code
type displayElement struct {
	content string
	escape  []byte
}

// writeEntries lays out the entries column by column, as many columns as fit in width
func writeEntries(tt *term.Terminal, width int, entries []displayElement, prefix string) {
	if len(entries) == 0 {
		return
	}
	cell := 0
	for _, e := range entries {
		cell = max(cell, len(e.content))
	}
	cell += 3
	cols := max(1, (width-len(prefix))/cell)
	rows := (len(entries) + cols - 1) / cols

	var line strings.Builder
	for r := 0; r < rows; r++ {
		line.Reset()
		line.WriteString(prefix)
		for i := r; i < len(entries); i += rows {
			fmt.Fprintf(&line, "%s%-*s%s", entries[i].escape, cell, entries[i].content, tt.Escape.Reset)
		}
		writeFmt(tt, strings.TrimRight(line.String(), " ")+"\n")
	}
}
