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

package clarity

import (
	"fmt"
	"strings"
)

// ValueType is the type of a literal value
type ValueType int

const (
	// IntType is the type of signed integer literals (-1, 42)
	IntType ValueType = iota
	// UIntType is the type of unsigned integer literals (u42)
	UIntType
	// BoolType is the type of true and false
	BoolType
	// StringASCIIType is the type of "..." literals
	StringASCIIType
	// StringUTF8Type is the type of u"..." literals
	StringUTF8Type
	// BufferType is the type of 0x... literals
	BufferType
	// StandardPrincipalType is the type of 'SP... literals
	StandardPrincipalType
	// ContractPrincipalType is the type of 'SP....name and .name literals
	ContractPrincipalType
)

var valueTypeNames = [...]string{
	IntType:               "int",
	UIntType:              "uint",
	BoolType:              "bool",
	StringASCIIType:       "string-ascii",
	StringUTF8Type:        "string-utf8",
	BufferType:            "buff",
	StandardPrincipalType: "principal",
	ContractPrincipalType: "principal",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "unknown"
}

// Value is a literal value of the contract. Text holds the literal as written, without quotes for strings
// and without the quote prefix for principals.
type Value struct {
	Type     ValueType
	Text     string
	Contract *QualifiedContractIdentifier
}

func (v Value) String() string {
	switch v.Type {
	case StringASCIIType:
		return `"` + v.Text + `"`
	case StringUTF8Type:
		return `u"` + v.Text + `"`
	case StandardPrincipalType:
		return "'" + v.Text
	case ContractPrincipalType:
		if v.Contract != nil {
			return "'" + v.Contract.String()
		}
	}
	return v.Text
}

// QualifiedContractIdentifier identifies a deployed contract by the principal that deployed it and its name.
type QualifiedContractIdentifier struct {
	Issuer string `yaml:"issuer" json:"issuer"`
	Name   string `yaml:"name" json:"name"`
}

func (q QualifiedContractIdentifier) String() string {
	return q.Issuer + "." + q.Name
}

// ParseContractIdentifier parses "ISSUER.name", with an optional leading quote.
func ParseContractIdentifier(s string) (QualifiedContractIdentifier, error) {
	s = strings.TrimPrefix(s, "'")
	issuer, name, found := strings.Cut(s, ".")
	if !found || issuer == "" || name == "" || strings.Contains(name, ".") {
		return QualifiedContractIdentifier{}, fmt.Errorf("invalid contract identifier %q", s)
	}
	return QualifiedContractIdentifier{Issuer: issuer, Name: name}, nil
}

// CompareContractIdentifiers orders identifiers lexically by issuer then name
func CompareContractIdentifiers(a, b QualifiedContractIdentifier) int {
	if c := strings.Compare(a.Issuer, b.Issuer); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// TraitIdentifier identifies a trait defined in a contract
type TraitIdentifier struct {
	Contract QualifiedContractIdentifier
	Name     string
}

func (t TraitIdentifier) String() string {
	return t.Contract.String() + "." + t.Name
}
