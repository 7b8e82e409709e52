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
	"github.com/rulego/shardsql/rsql"
	"github.com/rulego/shardsql/statement"
)

// selectOperators join operands inside one projection item.
var selectOperators = []rsql.TokenType{
	rsql.TokenPlus, rsql.TokenMinus, rsql.TokenAsterisk, rsql.TokenSlash, rsql.TokenPercent,
	rsql.TokenCaret, rsql.TokenAmp, rsql.TokenBar, rsql.TokenDoubleAmp, rsql.TokenDoubleBar,
	rsql.TokenEQ, rsql.TokenNE, rsql.TokenGT, rsql.TokenLT, rsql.TokenGE, rsql.TokenLE, rsql.TokenSafeEQ,
}

// selectListEnd are tokens that cannot start a projection item.
var selectListEnd = []rsql.TokenType{
	rsql.TokenEOF, rsql.TokenComma, rsql.TokenRParen, rsql.TokenSemicolon,
	rsql.TokenFROM, rsql.TokenINTO, rsql.TokenWHERE, rsql.TokenGROUP, rsql.TokenHAVING,
	rsql.TokenOrder, rsql.TokenLIMIT, rsql.TokenUNION, rsql.TokenINTERSECT, rsql.TokenEXCEPT,
}

func (p *SelectParser) parseDistinct() error {
	p.skipAll(rsql.TokenALL)
	if p.equalAny(rsql.TokenDISTINCT) || p.dialect.IsDistinctSynonym(p.current()) {
		return p.unsupported(p.current())
	}
	return nil
}

func (p *SelectParser) parseSelectList(stmt *statement.SelectStatement) error {
	for {
		item, err := p.parseSelectItem(stmt)
		if err != nil {
			return err
		}
		stmt.Items = append(stmt.Items, item)
		if !p.skipIfEqual(rsql.TokenComma) {
			break
		}
	}
	stmt.SelectListLastPosition = p.current().Pos
	return nil
}

func (p *SelectParser) parseSelectItem(stmt *statement.SelectStatement) (statement.SelectItem, error) {
	for p.dialect.IsSkippedBeforeSelectItem(p.current()) {
		p.next()
	}
	tok := p.current()
	switch {
	case p.equalAny(selectListEnd...):
		return nil, p.unexpected("select item")
	case p.dialect.IsRowNumberMarker(tok):
		return nil, p.unsupported(tok)
	case tok.Type == rsql.TokenAsterisk:
		p.next()
		if _, err := p.parseAlias(); err != nil {
			return nil, err
		}
		stmt.ContainsStar = true
		return &statement.StarSelectItem{}, nil
	case isAggregation(tok) && p.peek().Type == rsql.TokenLParen:
		return p.parseAggregationItem(stmt)
	}
	return p.parseCommonItem(stmt)
}

func isAggregation(tok rsql.Token) bool {
	switch tok.Type {
	case rsql.TokenMAX, rsql.TokenMIN, rsql.TokenSUM, rsql.TokenAVG, rsql.TokenCOUNT:
		return true
	}
	return false
}

// parseAggregationItem parses MAX/MIN/SUM/AVG/COUNT(...). An operator
// chain after the call is consumed without changing the item.
func (p *SelectParser) parseAggregationItem(stmt *statement.SelectStatement) (statement.SelectItem, error) {
	typ, _ := statement.ParseAggregationType(p.current().Value)
	p.next()
	open, closing, err := p.skipParentheses(stmt)
	if err != nil {
		return nil, err
	}
	item := &statement.AggregationSelectItem{Type: typ, InnerExpression: p.innerText(open, closing)}
	if item.Alias, err = p.parseAlias(); err != nil {
		return nil, err
	}
	if p.equalAny(selectOperators...) {
		if err := p.parseRestOperands(stmt); err != nil {
			return nil, err
		}
		if item.Alias == "" {
			if item.Alias, err = p.parseAlias(); err != nil {
				return nil, err
			}
		}
	}
	return item, nil
}

// parseCommonItem parses any other projection. `owner.*` becomes a star item.
func (p *SelectParser) parseCommonItem(stmt *statement.SelectStatement) (statement.SelectItem, error) {
	begin := p.current()
	starOwner, err := p.parseOperand(stmt)
	if err != nil {
		return nil, err
	}
	if starOwner != "" && !p.equalAny(selectOperators...) {
		if _, err := p.parseAlias(); err != nil {
			return nil, err
		}
		stmt.ContainsStar = true
		return &statement.StarSelectItem{Owner: starOwner}, nil
	}
	if err := p.parseRestOperands(stmt); err != nil {
		return nil, err
	}
	item := &statement.CommonSelectItem{Expression: rsql.ExactlyValue(p.text(begin))}
	if item.Alias, err = p.parseAlias(); err != nil {
		return nil, err
	}
	return item, nil
}

func (p *SelectParser) parseRestOperands(stmt *statement.SelectStatement) error {
	for p.skipIfEqual(selectOperators...) {
		if _, err := p.parseOperand(stmt); err != nil {
			return err
		}
	}
	return nil
}

// parseOperand consumes one operand of a projection: a literal, a column,
// `owner.column`, a function call, a CASE expression or a parenthesized
// group. For `owner.*` it returns the unquoted owner.
func (p *SelectParser) parseOperand(stmt *statement.SelectStatement) (string, error) {
	tok := p.current()
	switch {
	case tok.Type == rsql.TokenEOF:
		return "", p.unexpected("expression")
	case tok.Type == rsql.TokenLParen:
		_, _, err := p.skipParentheses(stmt)
		return "", err
	case tok.Type == rsql.TokenMinus || tok.Type == rsql.TokenPlus || tok.Type == rsql.TokenTilde || tok.Type == rsql.TokenNOT:
		p.next()
		return p.parseOperand(stmt)
	case tok.Is("CASE"):
		return "", p.skipCase(stmt)
	}
	p.next()
	switch p.current().Type {
	case rsql.TokenLParen:
		_, _, err := p.skipParentheses(stmt)
		return "", err
	case rsql.TokenDot:
		p.markOwner(stmt, tok)
		p.next()
		name := p.current()
		if name.Type == rsql.TokenEOF || (name.Type.IsSymbol() && name.Type != rsql.TokenAsterisk) {
			return "", p.unexpected("column")
		}
		p.next()
		if name.Type == rsql.TokenAsterisk {
			return rsql.ExactlyValue(tok.Value), nil
		}
	}
	return "", nil
}
