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

package lang

// DefineFunction is a top-level definition form
type DefineFunction int

// The definition forms, named after their Clarity keyword.
const (
	// NoDefine is returned when a name is not a definition form
	NoDefine DefineFunction = iota
	DefinePublic
	DefinePrivate
	DefineReadOnly
	DefineConstant
	DefineDataVar
	DefineMap
	DefineFungibleToken
	DefineNonFungibleToken
	DefineTrait
	UseTrait
	ImplTrait
)

var defineFunctions = map[string]DefineFunction{
	"define-public":             DefinePublic,
	"define-private":            DefinePrivate,
	"define-read-only":          DefineReadOnly,
	"define-constant":           DefineConstant,
	"define-data-var":           DefineDataVar,
	"define-map":                DefineMap,
	"define-fungible-token":     DefineFungibleToken,
	"define-non-fungible-token": DefineNonFungibleToken,
	"define-trait":              DefineTrait,
	"use-trait":                 UseTrait,
	"impl-trait":                ImplTrait,
}

// LookupDefine returns the definition form named name, or NoDefine
func LookupDefine(name string) DefineFunction {
	return defineFunctions[name]
}

func (d DefineFunction) String() string {
	for name, def := range defineFunctions {
		if def == d {
			return name
		}
	}
	return "not-a-definition"
}

// IsFunctionDefinition returns true for the three forms that define functions
func (d DefineFunction) IsFunctionDefinition() bool {
	return d == DefinePublic || d == DefinePrivate || d == DefineReadOnly
}

// NativeFunction is a built-in function or special form
type NativeFunction int

// The built-ins the analyses classify. Built-ins that need no special treatment map to OtherNative.
const (
	// NoNative is returned when a name is not a built-in: the call is a call to a user-defined function
	NoNative NativeFunction = iota
	OtherNative
	Let
	Begin
	If
	And
	Or
	Equals
	Less
	LessEqual
	Greater
	GreaterEqual
	AsContract
	Asserts
	Match
	VarSet
	VarGet
	MapSet
	MapInsert
	MapDelete
	MapGet
	ContractCall
	Map
	Filter
	Fold
	UnwrapPanic
	Multiply
	Divide
)

var nativeFunctions = map[string]NativeFunction{
	"let":            Let,
	"begin":          Begin,
	"if":             If,
	"and":            And,
	"or":             Or,
	"is-eq":          Equals,
	"<":              Less,
	"<=":             LessEqual,
	">":              Greater,
	">=":             GreaterEqual,
	"as-contract":    AsContract,
	"asserts!":       Asserts,
	"match":          Match,
	"var-set":        VarSet,
	"var-get":        VarGet,
	"map-set":        MapSet,
	"map-insert":     MapInsert,
	"map-delete":     MapDelete,
	"map-get?":       MapGet,
	"contract-call?": ContractCall,
	"map":            Map,
	"filter":         Filter,
	"fold":           Fold,
	"unwrap-panic":   UnwrapPanic,
	"*":              Multiply,
	"/":              Divide,
}

// otherNatives are the remaining Clarity 2 built-ins
var otherNatives = []string{
	"+", "-", "mod", "pow", "sqrti", "log2", "xor", "not",
	"bit-and", "bit-or", "bit-xor", "bit-not", "bit-shift-left", "bit-shift-right",
	"to-int", "to-uint", "is-standard", "principal-destruct?", "principal-construct?",
	"string-to-int?", "string-to-uint?", "int-to-ascii", "int-to-utf8",
	"list", "tuple", "get", "merge", "append", "concat", "as-max-len?", "len", "element-at", "element-at?",
	"index-of", "index-of?", "slice?", "replace-at?", "buff-to-int-le", "buff-to-uint-le", "buff-to-int-be",
	"buff-to-uint-be", "print", "at-block", "get-block-info?", "get-burn-block-info?", "get-stacks-block-info?",
	"get-tenure-info?", "ok", "err", "some", "default-to", "unwrap!", "unwrap-err!", "unwrap-err-panic",
	"try!", "is-ok", "is-err", "is-some", "is-none", "hash160", "sha256", "sha512", "sha512/256",
	"keccak256", "secp256k1-recover?", "secp256k1-verify", "contract-of", "principal-of?",
	"ft-get-balance", "ft-get-supply", "ft-transfer?", "ft-mint?", "ft-burn?",
	"nft-get-owner?", "nft-transfer?", "nft-mint?", "nft-burn?",
	"stx-get-balance", "stx-account", "stx-transfer?", "stx-transfer-memo?", "stx-burn?",
	"to-consensus-buff?", "from-consensus-buff?",
}

func init() {
	for _, name := range otherNatives {
		nativeFunctions[name] = OtherNative
	}
}

// LookupNative returns the built-in named name, or NoNative
func LookupNative(name string) NativeFunction {
	return nativeFunctions[name]
}

// IsComparison returns true for the comparison built-ins
func (n NativeFunction) IsComparison() bool {
	return n == Equals || n == Less || n == LessEqual || n == Greater || n == GreaterEqual
}

// IsLazyLogical returns true for and and or
func (n NativeFunction) IsLazyLogical() bool {
	return n == And || n == Or
}

// keywords are the atoms that are values provided by the chain rather than names bound in the contract
var keywords = map[string]bool{
	"tx-sender":           true,
	"contract-caller":     true,
	"tx-sponsor?":         true,
	"block-height":        true,
	"burn-block-height":   true,
	"stacks-block-height": true,
	"tenure-height":       true,
	"stx-liquid-supply":   true,
	"chain-id":            true,
	"is-in-mainnet":       true,
	"is-in-regtest":       true,
	"none":                true,
}

// IsKeyword returns true if the atom is a chain-provided keyword such as tx-sender
func IsKeyword(name string) bool {
	return keywords[name]
}
