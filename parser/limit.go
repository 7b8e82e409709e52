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
	"github.com/spf13/cast"
)

// parseLimit parses `LIMIT count`, `LIMIT offset, count`,
// `LIMIT count OFFSET offset` and a lone `OFFSET offset`.
func (p *SelectParser) parseLimit(stmt *statement.SelectStatement) error {
	if !p.dialect.SupportsLimit {
		return nil
	}
	limit := &statement.Limit{}
	if p.skipIfEqual(rsql.TokenLIMIT) && !p.skipIfEqual(rsql.TokenALL) {
		first, firstTok, err := p.parseLimitValue()
		if err != nil {
			return err
		}
		if p.skipIfEqual(rsql.TokenComma) {
			second, secondTok, err := p.parseLimitValue()
			if err != nil {
				return err
			}
			limit.Offset = first
			limit.RowCount = second
			addOffsetToken(stmt, first, firstTok)
			addRowCountToken(stmt, second, secondTok)
		} else {
			limit.RowCount = first
			addRowCountToken(stmt, first, firstTok)
		}
	}
	if limit.Offset == nil && p.skipIfEqual(rsql.TokenOFFSET) {
		offset, tok, err := p.parseLimitValue()
		if err != nil {
			return err
		}
		limit.Offset = offset
		addOffsetToken(stmt, offset, tok)
	}
	if limit.Offset != nil || limit.RowCount != nil {
		stmt.Limit = limit
	}
	return nil
}

// parseLimitValue reads a non-negative integer or a placeholder.
func (p *SelectParser) parseLimitValue() (*statement.LimitValue, rsql.Token, error) {
	tok := p.current()
	switch tok.Type {
	case rsql.TokenQuestion:
		value := &statement.LimitValue{ParamIndex: p.parametersIndex, BeginPosition: tok.Pos}
		p.next()
		return value, tok, nil
	case rsql.TokenNumber:
		value, err := p.numberValue(tok)
		n, isInt := value.(int64)
		if err != nil || !isInt || n < 0 {
			return nil, tok, rsql.CreateSyntaxError(p.input, "LIMIT value must be a non-negative integer", tok.Pos, tok.Value, nil)
		}
		p.next()
		return &statement.LimitValue{Value: cast.ToInt(n), ParamIndex: -1, BeginPosition: tok.Pos}, tok, nil
	}
	return nil, tok, p.unexpected(rsql.TokenNumber.String(), "?")
}

func addOffsetToken(stmt *statement.SelectStatement, value *statement.LimitValue, tok rsql.Token) {
	if !value.IsParam() {
		stmt.AddToken(&statement.OffsetToken{BeginPosition: tok.Pos, Offset: value.Value, Length: len(tok.Value)})
	}
}

func addRowCountToken(stmt *statement.SelectStatement, value *statement.LimitValue, tok rsql.Token) {
	if !value.IsParam() {
		stmt.AddToken(&statement.RowCountToken{BeginPosition: tok.Pos, RowCount: value.Value, Length: len(tok.Value)})
	}
}
