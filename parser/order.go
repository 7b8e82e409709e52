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
	"github.com/spf13/cast"
)

func (p *SelectParser) parseGroupBy(stmt *statement.SelectStatement) error {
	if !p.skipIfEqual(rsql.TokenGROUP) {
		return nil
	}
	if err := p.accept(rsql.TokenBY); err != nil {
		return err
	}
	for {
		if p.dialect.IsUnsupportedBeforeGroupByItem(p.current()) {
			return p.unsupported(p.current())
		}
		expression, err := p.parseExpression(stmt)
		if err != nil {
			return err
		}
		direction := p.parseDirection()
		if item, ok := p.newOrderItem(stmt, expression, direction); ok {
			stmt.GroupByItems = append(stmt.GroupByItems, item)
		}
		if !p.skipIfEqual(rsql.TokenComma) {
			break
		}
	}
	for p.dialect.IsSkippedAfterGroupBy(p.current()) {
		p.next()
	}
	stmt.GroupByLastPosition = p.current().Pos
	return nil
}

func (p *SelectParser) parseHaving() error {
	if p.equalAny(rsql.TokenHAVING) {
		return p.unsupported(p.current())
	}
	return nil
}

func (p *SelectParser) parseOrderBy(stmt *statement.SelectStatement) error {
	if !p.skipIfEqual(rsql.TokenOrder) {
		return nil
	}
	for p.dialect.IsSkippedAfterOrder(p.current()) {
		p.next()
	}
	if err := p.accept(rsql.TokenBY); err != nil {
		return err
	}
	for {
		begin := p.current()
		expression, err := p.parseExpression(stmt)
		if err != nil {
			return err
		}
		direction := p.parseDirection()
		var item *statement.OrderItem
		if number, ok := expression.(numberExpr); ok {
			index, err := cast.ToIntE(number.value)
			if err != nil || index < 1 {
				return rsql.CreateSyntaxError(p.input, "ORDER BY position must be a positive integer", begin.Pos, begin.Value, nil)
			}
			item = statement.NewIndexOrderItem(index, direction, p.dialect.NullOrder)
		} else if item, ok = p.newOrderItem(stmt, expression, direction); !ok {
			return rsql.CreateSyntaxError(p.input, "Invalid ORDER BY item", begin.Pos, begin.Value, nil)
		}
		p.parseNullsOrder(item)
		stmt.OrderByItems = append(stmt.OrderByItems, item)
		if !p.skipIfEqual(rsql.TokenComma) {
			return nil
		}
	}
}

func (p *SelectParser) parseDirection() statement.OrderDirection {
	if p.skipIfEqual(rsql.TokenDESC) {
		return statement.DESC
	}
	p.skipIfEqual(rsql.TokenASC)
	return statement.ASC
}

// parseNullsOrder applies NULLS FIRST or NULLS LAST. NullOrder is where NULLs
// sort in ascending order, so it depends on the item direction.
func (p *SelectParser) parseNullsOrder(item *statement.OrderItem) {
	if !p.current().Is("NULLS") {
		return
	}
	next := p.peek()
	first := next.Is("FIRST")
	if !first && !next.Is("LAST") {
		return
	}
	p.next()
	p.next()
	if first == (item.Direction == statement.ASC) {
		item.NullOrder = statement.ASC
	} else {
		item.NullOrder = statement.DESC
	}
}

// newOrderItem builds a name-based item from a column, qualified column or
// opaque expression. Other shapes yield no item.
func (p *SelectParser) newOrderItem(stmt *statement.SelectStatement, expression sqlExpression, direction statement.OrderDirection) (*statement.OrderItem, bool) {
	nullOrder := p.dialect.NullOrder
	switch v := expression.(type) {
	case propertyExpr:
		owner, name := rsql.ExactlyValue(v.owner), rsql.ExactlyValue(v.name)
		return statement.NewNameOrderItem(owner, name, direction, nullOrder, aliasOf(owner+"."+name, stmt)), true
	case identifierExpr:
		name := rsql.ExactlyValue(v.name)
		return statement.NewNameOrderItem("", name, direction, nullOrder, aliasOf(name, stmt)), true
	case ignoreExpr:
		return statement.NewNameOrderItem("", v.text, direction, nullOrder, aliasOf(v.text, stmt)), true
	}
	return nil, false
}

// aliasOf resolves the alias a GROUP BY or ORDER BY name should use. A
// projection with the same expression lends its alias; a projection whose
// alias is the name makes the name itself the alias.
func aliasOf(name string, stmt *statement.SelectStatement) string {
	if stmt.ContainsStar {
		return ""
	}
	rawName := rsql.ExactlyValue(name)
	for _, each := range stmt.Items {
		if strings.EqualFold(rawName, rsql.ExactlyValue(each.GetExpression())) {
			alias, _ := each.GetAlias()
			return alias
		}
		if alias, ok := each.GetAlias(); ok && strings.EqualFold(rawName, alias) {
			return rawName
		}
	}
	return ""
}
