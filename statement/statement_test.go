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

package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectItemExpression(t *testing.T) {
	tests := []struct {
		name      string
		item      SelectItem
		expr      string
		alias     string
		aliasSeen bool
	}{
		{"star", &StarSelectItem{}, "*", "", false},
		{"owner star", &StarSelectItem{Owner: "o"}, "o.*", "", false},
		{"common", &CommonSelectItem{Expression: "o.user_id"}, "o.user_id", "", false},
		{"common alias", &CommonSelectItem{Expression: "name", Alias: "n"}, "name", "n", true},
		{"aggregation", &AggregationSelectItem{Type: AVG, InnerExpression: "score", Alias: "a"}, "AVG(score)", "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expr, tt.item.GetExpression())
			alias, ok := tt.item.GetAlias()
			assert.Equal(t, tt.aliasSeen, ok)
			assert.Equal(t, tt.alias, alias)
		})
	}
}

func TestParseAggregationType(t *testing.T) {
	typ, ok := ParseAggregationType("count")
	assert.True(t, ok)
	assert.Equal(t, COUNT, typ)

	_, ok = ParseAggregationType("GROUP_CONCAT")
	assert.False(t, ok)
}

func TestOrderItem(t *testing.T) {
	positional := NewIndexOrderItem(2, DESC, ASC)
	assert.True(t, positional.IsPositional())
	_, ok := positional.GetQualifiedName()
	assert.False(t, ok)
	assert.Equal(t, "2", positional.ColumnLabel())

	named := NewNameOrderItem("o", "user_id", ASC, ASC, "")
	assert.False(t, named.IsPositional())
	name, ok := named.GetQualifiedName()
	require.True(t, ok)
	assert.Equal(t, "o.user_id", name)
	assert.Equal(t, "o.user_id", named.ColumnLabel())

	named.Alias = "ORDER_BY_DERIVED_0"
	assert.Equal(t, "ORDER_BY_DERIVED_0", named.ColumnLabel())

	clone := named.Clone()
	clone.Alias = "x"
	assert.Equal(t, "ORDER_BY_DERIVED_0", named.Alias)
	assert.True(t, named.Equal(NewNameOrderItem("O", "USER_ID", ASC, ASC, "")))
	assert.False(t, named.Equal(NewNameOrderItem("o", "user_id", DESC, ASC, "")))
}

func TestTables(t *testing.T) {
	var tables Tables
	tables.Add(Table{Name: "t_order", Alias: "o"})
	tables.Add(Table{Name: "T_ORDER", Alias: "O"})
	tables.Add(Table{Name: "t_order"})
	tables.Add(Table{Name: "t_order_item", Alias: "i"})

	assert.Len(t, tables, 3)
	assert.Equal(t, []string{"t_order", "t_order_item"}, tables.Names())

	found, ok := tables.Find("i")
	require.True(t, ok)
	assert.Equal(t, "t_order_item", found.Name)

	found, ok = tables.Find("t_order")
	require.True(t, ok)
	assert.Equal(t, "o", found.Alias)

	_, ok = tables.Find("missing")
	assert.False(t, ok)
}

func TestSortTokensIsStable(t *testing.T) {
	items := &ItemsToken{BeginPosition: 20, Items: []string{"a"}}
	orderBy := &OrderByToken{BeginPosition: 20}
	table := &TableToken{BeginPosition: 5, OriginalLiterals: "`t_order`"}
	tokens := []SQLToken{items, orderBy, table}

	SortTokens(tokens)

	assert.Equal(t, []SQLToken{table, items, orderBy}, tokens)
	assert.Equal(t, "t_order", table.TableName())
	assert.Equal(t, "items", TokenKind(items))
}

func TestConditionValues(t *testing.T) {
	condition := &Condition{
		Column:   Column{Table: "t_order", Name: "user_id"},
		Operator: OperatorIn,
		Values:   []ConditionValue{{Literal: int64(1)}, {IsParam: true, ParamIndex: 1}},
	}
	values, err := condition.ResolveValues([]any{"skip", 7})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), 7}, values)

	_, err = condition.ResolveValues(nil)
	assert.Error(t, err)
}

func TestConditionsAddIntersects(t *testing.T) {
	var conditions Conditions
	column := Column{Table: "t_order", Name: "user_id"}
	conditions.Add(&Condition{Column: column, Operator: OperatorIn, Values: []ConditionValue{{Literal: int64(1)}, {Literal: int64(2)}}})
	conditions.Add(&Condition{Column: column, Operator: OperatorEqual, Values: []ConditionValue{{Literal: int64(2)}}})

	require.Len(t, conditions, 1)
	assert.Equal(t, []ConditionValue{{Literal: int64(2)}}, conditions[0].Values)
}

func TestLimitResolve(t *testing.T) {
	limit := &Limit{
		Offset:   &LimitValue{Value: 10, ParamIndex: -1},
		RowCount: &LimitValue{ParamIndex: 0},
	}
	offset, err := limit.OffsetValue([]any{"5"})
	require.NoError(t, err)
	assert.Equal(t, 10, offset)

	rowCount, ok, err := limit.RowCountValue([]any{"5"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, rowCount)

	_, _, err = limit.RowCountValue([]any{"five"})
	assert.Error(t, err)

	var none *Limit
	offset, err = none.OffsetValue(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, offset)
}

func TestMergeSubQuery(t *testing.T) {
	innermost := &SelectStatement{
		Items:           []SelectItem{&CommonSelectItem{Expression: "c"}},
		Tables:          Tables{{Name: "t_c"}},
		Tokens:          []SQLToken{&TableToken{BeginPosition: 60, OriginalLiterals: "t_c"}},
		ParametersIndex: 2,
	}
	inner := &SelectStatement{
		Items:    []SelectItem{&CommonSelectItem{Expression: "b"}},
		Tables:   Tables{{Name: "t_b", Alias: "b"}},
		Tokens:   []SQLToken{&TableToken{BeginPosition: 40, OriginalLiterals: "t_b"}},
		Limit:    &Limit{RowCount: &LimitValue{Value: 3, ParamIndex: -1}},
		SubQuery: innermost,
	}
	outer := &SelectStatement{
		Items:                  []SelectItem{&CommonSelectItem{Expression: "a"}},
		Tables:                 Tables{{Name: "t_b", Alias: "b"}},
		GroupByItems:           []*OrderItem{NewNameOrderItem("", "a", ASC, ASC, "")},
		SelectListLastPosition: 8,
		SubQuery:               inner,
	}

	outer.MergeSubQuery()

	assert.False(t, outer.ContainsSubQuery())
	assert.Equal(t, []string{"t_b", "t_c"}, outer.Tables.Names())
	require.Len(t, outer.Items, 3)
	assert.Equal(t, "a", outer.Items[0].GetExpression())
	assert.Equal(t, "c", outer.Items[2].GetExpression())
	assert.Len(t, outer.Tokens, 2)
	assert.Equal(t, 8, outer.SelectListLastPosition)
	assert.Len(t, outer.GroupByItems, 1)
	assert.Equal(t, 2, outer.ParametersIndex)
	require.NotNil(t, outer.Limit)
	assert.Equal(t, 3, outer.Limit.RowCount.Value)
}

func TestMergeSubQueryLimitTokens(t *testing.T) {
	inner := func() *SelectStatement {
		return &SelectStatement{
			Tokens: []SQLToken{
				&TableToken{BeginPosition: 20, OriginalLiterals: "t_order"},
				&RowCountToken{BeginPosition: 34, RowCount: 5, Length: 1},
			},
			Limit: &Limit{RowCount: &LimitValue{Value: 5, ParamIndex: -1, BeginPosition: 34}},
		}
	}

	withOuter := &SelectStatement{
		Tokens:   []SQLToken{&RowCountToken{BeginPosition: 45, RowCount: 10, Length: 2}},
		Limit:    &Limit{RowCount: &LimitValue{Value: 10, ParamIndex: -1, BeginPosition: 45}},
		SubQuery: inner(),
	}
	withOuter.MergeSubQuery()
	require.Len(t, withOuter.Tokens, 2)
	assert.Equal(t, "table", TokenKind(withOuter.Tokens[1]))
	assert.Equal(t, 45, withOuter.Limit.RowCount.BeginPosition)

	withoutOuter := &SelectStatement{SubQuery: inner()}
	withoutOuter.MergeSubQuery()
	assert.Len(t, withoutOuter.Tokens, 2)
	require.NotNil(t, withoutOuter.Limit)
	assert.Equal(t, 34, withoutOuter.Limit.RowCount.BeginPosition)
}

func TestIsSameGroupByAndOrderByItems(t *testing.T) {
	s := NewSelectStatement()
	assert.False(t, s.IsSameGroupByAndOrderByItems())
	s.GroupByItems = []*OrderItem{NewNameOrderItem("", "dept", ASC, ASC, "")}
	s.OrderByItems = []*OrderItem{NewNameOrderItem("", "DEPT", ASC, ASC, "d")}
	assert.True(t, s.IsSameGroupByAndOrderByItems())
}
