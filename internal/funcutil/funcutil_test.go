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


package funcutil

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMapParallelKeepsOrder(t *testing.T) {
	var in []int
	for i := 0; i < 100; i++ {
		in = append(in, i)
	}
	for _, routines := range []int{-1, 1, 3, 200} {
		got := MapParallel(in, strconv.Itoa, routines)
		want := Map(in, strconv.Itoa)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("MapParallel with %d routines (-want +got):\n%s", routines, diff)
		}
	}
}

func TestMapEmpty(t *testing.T) {
	if got := MapParallel([]int{}, strconv.Itoa, 4); len(got) != 0 {
		t.Errorf("expected no result, got %v", got)
	}
	if got := Map(nil, strconv.Itoa); len(got) != 0 {
		t.Errorf("expected no result, got %v", got)
	}
}

func TestContains(t *testing.T) {
	names := []string{"mint", "burn"}
	if !Contains(names, "burn") {
		t.Errorf("expected burn in %v", names)
	}
	if Contains(names, "transfer") {
		t.Errorf("did not expect transfer in %v", names)
	}
	if !Exists(names, func(s string) bool { return len(s) == 4 }) {
		t.Errorf("expected a name of length 4 in %v", names)
	}
}
