/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package parser

import (
	"strings"

	"github.com/rulego/shardsql/rsql"
	"github.com/rulego/shardsql/statement"
)

// skipParentheses consumes a balanced parenthesized group starting at the
// current `(` and returns the opening and closing tokens. Placeholders
// inside are counted and sharded `owner.` qualifiers are marked.
func (p *SelectParser) skipParentheses(stmt *statement.SelectStatement) (rsql.Token, rsql.Token, error) {
	open := p.current()
	if open.Type != rsql.TokenLParen {
		return open, open, p.unexpected("(")
	}
	p.next()
	depth := 0
	for {
		tok := p.current()
		switch tok.Type {
		case rsql.TokenEOF:
			return open, tok, rsql.CreateMissingTokenError(p.input, ")", tok.Pos)
		case rsql.TokenLParen:
			depth++
		case rsql.TokenRParen:
			if depth == 0 {
				p.next()
				return open, tok, nil
			}
			depth--
		case rsql.TokenIdent:
			if p.peek().Type == rsql.TokenDot {
				p.markOwner(stmt, tok)
			}
		}
		p.next()
	}
}

// innerText is the trimmed source between a pair of parentheses.
func (p *SelectParser) innerText(open, closing rsql.Token) string {
	return strings.TrimSpace(p.input[open.End():closing.Pos])
}

// parseAlias reads `AS name`, or a bare identifier or string. It returns
// the unquoted alias, or "" when there is none.
func (p *SelectParser) parseAlias() (string, error) {
	if p.skipIfEqual(rsql.TokenAS) {
		tok := p.current()
		if tok.Type == rsql.TokenEOF || tok.Type.IsSymbol() {
			return "", p.unexpected("alias")
		}
		p.next()
		return rsql.ExactlyValue(tok.Value), nil
	}
	if p.equalAny(rsql.TokenIdent, rsql.TokenString) && !p.dialect.IsUnsupportedRest(p.current()) {
		tok := p.current()
		p.next()
		return rsql.ExactlyValue(tok.Value), nil
	}
	return "", nil
}

// skipJoin consumes a join operator and reports whether there was one.
func (p *SelectParser) skipJoin() (bool, error) {
	switch {
	case p.skipIfEqual(rsql.TokenNATURAL):
		p.skipIfEqual(rsql.TokenLEFT, rsql.TokenRIGHT, rsql.TokenFULL, rsql.TokenINNER)
		p.skipIfEqual(rsql.TokenOUTER)
		return true, p.accept(rsql.TokenJOIN)
	case p.skipIfEqual(rsql.TokenLEFT, rsql.TokenRIGHT, rsql.TokenFULL):
		p.skipIfEqual(rsql.TokenOUTER)
		return true, p.accept(rsql.TokenJOIN)
	case p.skipIfEqual(rsql.TokenINNER):
		return true, p.accept(rsql.TokenJOIN)
	case p.skipIfEqual(rsql.TokenJOIN, rsql.TokenComma, rsql.TokenStraightJoin):
		return true, nil
	case p.skipIfEqual(rsql.TokenCROSS):
		if p.skipIfEqual(rsql.TokenJOIN, rsql.TokenAPPLY) {
			return true, nil
		}
		return false, p.unexpected(rsql.TokenJOIN.String(), rsql.TokenAPPLY.String())
	case p.equalAny(rsql.TokenOUTER) && p.peek().Type == rsql.TokenAPPLY:
		p.next()
		p.next()
		return true, nil
	}
	return false, nil
}

// skipCase consumes CASE ... END, including nested CASE expressions.
func (p *SelectParser) skipCase(stmt *statement.SelectStatement) error {
	depth := 0
	for {
		tok := p.current()
		switch {
		case tok.Type == rsql.TokenEOF:
			return rsql.CreateMissingTokenError(p.input, "END", tok.Pos)
		case tok.Is("CASE"):
			depth++
		case tok.Is("END"):
			depth--
			if depth == 0 {
				p.next()
				return nil
			}
		case tok.Type == rsql.TokenLParen:
			if _, _, err := p.skipParentheses(stmt); err != nil {
				return err
			}
			continue
		case tok.Type == rsql.TokenIdent && p.peek().Type == rsql.TokenDot:
			p.markOwner(stmt, tok)
		}
		p.next()
	}
}
