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
	"os"
	"path/filepath"
	"strings"
)

// MakeAbsolute turns the exclusion paths relative to the working directory into absolute paths
func MakeAbsolute(excludeRelative []string) []string {
	result := make([]string, 0, len(excludeRelative))

	cwd, _ := os.Getwd()

	for _, s := range excludeRelative {
		abs := s
		if !filepath.IsAbs(s) {
			abs = filepath.Join(cwd, s)
		}
		abs = filepath.Clean(abs)
		// Clean drops the trailing separator of a directory exclusion
		if strings.HasSuffix(s, "/") && !strings.HasSuffix(abs, "/") {
			abs += "/"
		}
		result = append(result, abs)
	}
	return result
}

func isExcludedOne(filename string, exclude string) bool {
	switch {
	case strings.HasSuffix(exclude, ".clar"):
		return filename == exclude
	case strings.HasSuffix(exclude, "/"):
		return strings.HasPrefix(filename, exclude)
	default:
		return filename == exclude || strings.HasPrefix(filename, exclude+"/")
	}
}

// IsExcluded returns true if the absolute path filename is excluded by one of the absolute exclusion paths.
// A path ending with .clar excludes that file only, any other path excludes the directory.
func IsExcluded(filename string, exclude []string) bool {
	for _, e := range exclude {
		if isExcludedOne(filename, e) {
			return true
		}
	}
	return false
}
