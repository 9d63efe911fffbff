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
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// clarityLexer tokenizes Clarity sources. Rules are tried in order.
var clarityLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "UTF8String", Pattern: `u"(\\.|[^"\\])*"`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Buffer", Pattern: `0x[0-9a-fA-F]*`},
	{Name: "UInt", Pattern: `u[0-9]+`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Principal", Pattern: `'[0-9A-Z]+(\.[a-zA-Z_][a-zA-Z0-9_-]*){0,2}`},
	{Name: "ContractRef", Pattern: `\.[a-zA-Z_][a-zA-Z0-9_-]*(\.[a-zA-Z_][a-zA-Z0-9_-]*)?`},
	{Name: "TraitRef", Pattern: `<[a-zA-Z][a-zA-Z0-9_-]*>`},
	{Name: "Ident", Pattern: `[a-zA-Z_+*/<>=!?-][a-zA-Z0-9_+*/<>=!?-]*`},
	{Name: "Punct", Pattern: `[(){}:,]`},
})

var symbols = clarityLexer.Symbols()

// SyntaxError is returned when a contract source cannot be parsed
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
}

// Parse parses the source of the contract identified by id.
// Expression identifiers are assigned in pre-order starting at 1, so two parses of the same source assign
// the same identifiers to the same expressions.
func Parse(filename string, source string, id QualifiedContractIdentifier) (*Contract, error) {
	lex, err := clarityLexer.LexString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("could not tokenize %s: %w", filename, err)
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("could not tokenize %s: %w", filename, err)
	}

	p := &parser{file: filename, issuer: id.Issuer}
	contract := &Contract{Identifier: id, Path: filename, Source: source}
	for _, tok := range tokens {
		switch tok.Type {
		case symbols["Whitespace"]:
			continue
		case symbols["Comment"]:
			contract.Comments = append(contract.Comments, Comment{Text: tok.Value, Span: tokenSpan(tok)})
		default:
			p.tokens = append(p.tokens, tok)
		}
	}

	for !p.atEOF() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		contract.Expressions = append(contract.Expressions, expr)
	}
	return contract, nil
}

type parser struct {
	file   string
	issuer string
	tokens []lexer.Token
	pos    int
	nextID uint64
}

func (p *parser) atEOF() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].EOF()
}

func (p *parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() lexer.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) newExpr(kind ExprKind, span Span) *Expr {
	p.nextID++
	return &Expr{ID: p.nextID, Kind: kind, Span: span}
}

func (p *parser) errorf(tok lexer.Token, format string, args ...any) error {
	return &SyntaxError{File: p.file, Line: tok.Pos.Line, Column: tok.Pos.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseExpr() (*Expr, error) {
	tok := p.peek()
	if tok.EOF() {
		return nil, p.errorf(tok, "unexpected end of input")
	}
	switch tok.Type {
	case symbols["Punct"]:
		switch tok.Value {
		case "(":
			return p.parseList()
		case "{":
			return p.parseTuple()
		}
		return nil, p.errorf(tok, "unexpected %q", tok.Value)
	case symbols["Ident"]:
		p.next()
		if tok.Value == "true" || tok.Value == "false" {
			e := p.newExpr(AtomValue, tokenSpan(tok))
			e.Value = Value{Type: BoolType, Text: tok.Value}
			return e, nil
		}
		e := p.newExpr(Atom, tokenSpan(tok))
		e.Atom = tok.Value
		return e, nil
	case symbols["TraitRef"]:
		p.next()
		e := p.newExpr(TraitReference, tokenSpan(tok))
		e.Atom = strings.TrimSuffix(strings.TrimPrefix(tok.Value, "<"), ">")
		return e, nil
	case symbols["Principal"], symbols["ContractRef"]:
		p.next()
		return p.principal(tok)
	default:
		p.next()
		return p.literal(tok)
	}
}

func (p *parser) literal(tok lexer.Token) (*Expr, error) {
	e := p.newExpr(LiteralValue, tokenSpan(tok))
	switch tok.Type {
	case symbols["UTF8String"]:
		e.Value = Value{Type: StringUTF8Type, Text: tok.Value[2 : len(tok.Value)-1]}
	case symbols["String"]:
		e.Value = Value{Type: StringASCIIType, Text: tok.Value[1 : len(tok.Value)-1]}
	case symbols["Buffer"]:
		e.Value = Value{Type: BufferType, Text: tok.Value}
	case symbols["UInt"]:
		e.Value = Value{Type: UIntType, Text: tok.Value}
	case symbols["Int"]:
		e.Value = Value{Type: IntType, Text: tok.Value}
	default:
		return nil, p.errorf(tok, "unexpected token %q", tok.Value)
	}
	return e, nil
}

// principal builds the expression of a principal token. Relative contract names (.name) are resolved with the
// issuer of the contract being parsed.
func (p *parser) principal(tok lexer.Token) (*Expr, error) {
	issuer := p.issuer
	text := tok.Value
	if strings.HasPrefix(text, "'") {
		parts := strings.SplitN(text[1:], ".", 2)
		issuer = parts[0]
		if len(parts) == 1 {
			e := p.newExpr(LiteralValue, tokenSpan(tok))
			e.Value = Value{Type: StandardPrincipalType, Text: issuer}
			return e, nil
		}
		text = parts[1]
	} else {
		text = strings.TrimPrefix(text, ".")
	}
	contractName, traitName, isField := strings.Cut(text, ".")
	id := QualifiedContractIdentifier{Issuer: issuer, Name: contractName}
	if isField {
		e := p.newExpr(Field, tokenSpan(tok))
		e.Field = TraitIdentifier{Contract: id, Name: traitName}
		return e, nil
	}
	e := p.newExpr(LiteralValue, tokenSpan(tok))
	e.Value = Value{Type: ContractPrincipalType, Text: id.String(), Contract: &id}
	return e, nil
}

func (p *parser) parseList() (*Expr, error) {
	open := p.next()
	e := p.newExpr(List, tokenSpan(open))
	for {
		tok := p.peek()
		if tok.EOF() {
			return nil, p.errorf(open, "unclosed list")
		}
		if tok.Type == symbols["Punct"] && tok.Value == ")" {
			p.next()
			e.Span = Join(e.Span, tokenSpan(tok))
			return e, nil
		}
		child, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		e.List = append(e.List, child)
	}
}

// parseTuple reads {key: value, ...} and returns the equivalent (tuple (key value) ...) expression.
func (p *parser) parseTuple() (*Expr, error) {
	open := p.next()
	e := p.newExpr(List, tokenSpan(open))
	head := p.newExpr(Atom, tokenSpan(open))
	head.Atom = "tuple"
	e.List = []*Expr{head}
	for {
		tok := p.peek()
		if tok.EOF() {
			return nil, p.errorf(open, "unclosed tuple")
		}
		if tok.Type == symbols["Punct"] && tok.Value == "}" {
			p.next()
			e.Span = Join(e.Span, tokenSpan(tok))
			return e, nil
		}
		if tok.Type != symbols["Ident"] {
			return nil, p.errorf(tok, "expected tuple key, got %q", tok.Value)
		}
		p.next()
		entry := p.newExpr(List, tokenSpan(tok))
		key := p.newExpr(Atom, tokenSpan(tok))
		key.Atom = tok.Value
		if colon := p.next(); colon.Type != symbols["Punct"] || colon.Value != ":" {
			return nil, p.errorf(colon, "expected ':' after tuple key %q", tok.Value)
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entry.List = []*Expr{key, value}
		entry.Span = Join(key.Span, value.Span)
		e.List = append(e.List, entry)
		if sep := p.peek(); sep.Type == symbols["Punct"] && sep.Value == "," {
			p.next()
		}
	}
}

// tokenSpan returns the span covered by the token, with an inclusive end column.
func tokenSpan(tok lexer.Token) Span {
	s := Span{
		StartLine:   tok.Pos.Line,
		StartColumn: tok.Pos.Column,
		EndLine:     tok.Pos.Line,
		EndColumn:   tok.Pos.Column + utf8.RuneCountInString(tok.Value) - 1,
	}
	if n := strings.Count(tok.Value, "\n"); n > 0 {
		s.EndLine += n
		s.EndColumn = utf8.RuneCountInString(tok.Value[strings.LastIndex(tok.Value, "\n")+1:])
	}
	return s
}
