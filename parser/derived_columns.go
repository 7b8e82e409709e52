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

	"github.com/rulego/shardsql/derived"
	"github.com/rulego/shardsql/statement"
)

// appendDerivedColumns adds the projections a merge of shard results needs:
// COUNT and SUM for every AVG, and every ORDER BY and GROUP BY column not
// already projected. All fragments go into one ItemsToken at the end of
// the select list.
func appendDerivedColumns(stmt *statement.SelectStatement) {
	token := &statement.ItemsToken{BeginPosition: stmt.SelectListLastPosition}
	appendAvgDerivedColumns(token, stmt)
	appendDerivedOrderColumns(token, stmt.OrderByItems, derived.OrderBy, stmt)
	appendDerivedOrderColumns(token, stmt.GroupByItems, derived.GroupBy, stmt)
	if len(token.Items) > 0 {
		stmt.AddToken(token)
	}
}

func appendAvgDerivedColumns(token *statement.ItemsToken, stmt *statement.SelectStatement) {
	ordinal := 0
	for _, each := range stmt.Items {
		avg, ok := each.(*statement.AggregationSelectItem)
		if !ok || avg.Type != statement.AVG {
			continue
		}
		count := &statement.AggregationSelectItem{
			Type:            statement.COUNT,
			InnerExpression: avg.InnerExpression,
			Alias:           derived.AvgCount.Alias(ordinal),
		}
		sum := &statement.AggregationSelectItem{
			Type:            statement.SUM,
			InnerExpression: avg.InnerExpression,
			Alias:           derived.AvgSum.Alias(ordinal),
		}
		avg.DerivedItems = append(avg.DerivedItems, count, sum)
		token.Items = append(token.Items,
			count.GetExpression()+" AS "+count.Alias+" ",
			sum.GetExpression()+" AS "+sum.Alias+" ")
		ordinal++
	}
}

func appendDerivedOrderColumns(token *statement.ItemsToken, items []*statement.OrderItem, column derived.Column, stmt *statement.SelectStatement) {
	ordinal := 0
	for _, each := range items {
		if isContained(each, stmt) {
			continue
		}
		each.Alias = column.Alias(ordinal)
		ordinal++
		name, _ := each.GetQualifiedName()
		token.Items = append(token.Items, name+" AS "+each.Alias+" ")
	}
}

// isContained reports whether the projection already yields item.
func isContained(item *statement.OrderItem, stmt *statement.SelectStatement) bool {
	if stmt.ContainsStar || item.IsPositional() {
		return true
	}
	itemAlias, hasAlias := item.GetAlias()
	qualifiedName, hasName := item.GetQualifiedName()
	for _, each := range stmt.Items {
		if alias, ok := each.GetAlias(); ok {
			if hasAlias && strings.EqualFold(alias, itemAlias) {
				return true
			}
			continue
		}
		if hasName && strings.EqualFold(each.GetExpression(), qualifiedName) {
			return true
		}
	}
	return false
}

// appendDerivedOrderBy orders by the GROUP BY items when no ORDER BY was given.
func appendDerivedOrderBy(stmt *statement.SelectStatement) {
	if len(stmt.GroupByItems) == 0 || len(stmt.OrderByItems) > 0 {
		return
	}
	stmt.OrderByItems = append(stmt.OrderByItems, stmt.GroupByItems...)
	stmt.AddToken(&statement.OrderByToken{BeginPosition: stmt.GroupByLastPosition})
}
