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

func (p *SelectParser) parseFrom(stmt *statement.SelectStatement) error {
	if p.equalAny(rsql.TokenINTO) {
		return p.unsupported(p.current())
	}
	if !p.skipIfEqual(rsql.TokenFROM) {
		return nil
	}
	return p.parseTableReference(stmt)
}

// parseTableReference parses a table factor followed by any joins.
func (p *SelectParser) parseTableReference(stmt *statement.SelectStatement) error {
	if p.equalAny(rsql.TokenLParen) {
		done, err := p.parseParenthesizedFactor(stmt)
		if err != nil || done {
			return err
		}
	} else if err := p.parseTableFactor(stmt); err != nil {
		return err
	}
	return p.parseJoins(stmt)
}

// parseParenthesizedFactor handles a derived table or a parenthesized join.
// It reports done when the FROM clause ends right after the factor.
func (p *SelectParser) parseParenthesizedFactor(stmt *statement.SelectStatement) (bool, error) {
	opened := 0
	for p.skipIfEqual(rsql.TokenLParen) {
		opened++
	}
	if p.equalAny(rsql.TokenSELECT) {
		subQuery, err := p.parseSelect()
		if err != nil {
			return false, err
		}
		p.logger.Debug("sub query in FROM with tables %v", subQuery.Tables.Names())
		attachSubQuery(stmt, subQuery)
	} else if err := p.parseTableReference(stmt); err != nil {
		return false, err
	}
	for ; opened > 0; opened-- {
		if err := p.accept(rsql.TokenRParen); err != nil {
			return false, err
		}
	}
	if p.equalAny(rsql.TokenWHERE, rsql.TokenEOF) {
		return true, nil
	}
	// the derived table alias names no sharded table
	_, err := p.parseAlias()
	return false, err
}

// attachSubQuery links subQuery below the innermost sub-query of stmt, so
// every derived table of a FROM clause is merged.
func attachSubQuery(stmt, subQuery *statement.SelectStatement) {
	last := stmt
	for last.SubQuery != nil {
		last = last.SubQuery
	}
	last.SubQuery = subQuery
}

func (p *SelectParser) parseTableFactor(stmt *statement.SelectStatement) error {
	p.skipAll(rsql.TokenAS)
	tok := p.current()
	if tok.Type != rsql.TokenIdent {
		return p.unexpected("table")
	}
	p.next()
	if p.equalAny(rsql.TokenDot) {
		return rsql.CreateUnsupportedError(p.input, "schema.table", tok.Pos)
	}
	name := rsql.ExactlyValue(tok.Value)
	alias, err := p.parseAlias()
	if err != nil {
		return err
	}
	if p.rule.IsSharded(name) {
		stmt.AddToken(&statement.TableToken{BeginPosition: tok.Pos, OriginalLiterals: tok.Value})
		stmt.Tables.Add(statement.Table{Name: name, Alias: alias})
	}
	return nil
}

func (p *SelectParser) parseJoins(stmt *statement.SelectStatement) error {
	for {
		joined, err := p.skipJoin()
		if err != nil {
			return err
		}
		if !joined {
			return nil
		}
		if err := p.parseJoinedFactor(stmt); err != nil {
			return err
		}
		switch {
		case p.skipIfEqual(rsql.TokenON):
			if err := p.parseJoinCondition(stmt); err != nil {
				return err
			}
		case p.skipIfEqual(rsql.TokenUSING):
			if _, _, err := p.skipParentheses(stmt); err != nil {
				return err
			}
		}
	}
}

// parseJoinedFactor parses the right side of a join; its own joins are
// handled by the caller's loop.
func (p *SelectParser) parseJoinedFactor(stmt *statement.SelectStatement) error {
	if p.equalAny(rsql.TokenLParen) {
		_, err := p.parseParenthesizedFactor(stmt)
		return err
	}
	return p.parseTableFactor(stmt)
}

// parseJoinCondition parses the AND-joined predicates after ON. They never
// narrow the route.
func (p *SelectParser) parseJoinCondition(stmt *statement.SelectStatement) error {
	for {
		if err := p.parsePredicate(stmt, nil); err != nil {
			return err
		}
		if !p.skipIfEqual(rsql.TokenAND) {
			return nil
		}
	}
}
