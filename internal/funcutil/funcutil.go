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


// Package funcutil contains generic helpers over slices used across the analyses.
package funcutil

import "sync"

// Map returns a new slice b such for any i < len(a), b[i] = f(a[i])
func Map[T any, S any](a []T, f func(T) S) []S {
	var b []S
	for _, x := range a {
		b = append(b, f(x))
	}
	return b
}

// MapParallel is Map with f running on numRoutines goroutines. The order of the results matches the order of a.
func MapParallel[T any, S any](a []T, f func(T) S, numRoutines int) []S {
	if numRoutines <= 0 {
		numRoutines = 1
	}
	res := make([]S, len(a))
	indices := make(chan int)
	go func() {
		defer close(indices)
		for i := range a {
			indices <- i
		}
	}()

	wg := &sync.WaitGroup{}
	wg.Add(numRoutines)
	for r := 0; r < numRoutines; r++ {
		go func() {
			defer wg.Done()
			// each index is written by exactly one goroutine
			for i := range indices {
				res[i] = f(a[i])
			}
		}()
	}
	wg.Wait()
	return res
}

// Exists returns true when there exists some x in slice a such that f(x), otherwise false.
func Exists[T any](a []T, f func(T) bool) bool {
	for _, x := range a {
		if f(x) {
			return true
		}
	}
	return false
}

// Contains returns true when there is some y in slice a such that x == y
func Contains[T comparable](a []T, x T) bool {
	return Exists(a, func(y T) bool { return x == y })
}
