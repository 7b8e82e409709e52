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
	"testing"

	"github.com/rulego/shardsql/dialect"
	"github.com/rulego/shardsql/logger"
	"github.com/rulego/shardsql/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name    string
		dialect *dialect.Dialect
		sql     string
		limit   *statement.Limit
	}{
		{
			name:    "row count",
			dialect: dialect.MySQL,
			sql:     "SELECT a FROM t LIMIT 10",
			limit:   &statement.Limit{RowCount: &statement.LimitValue{Value: 10, ParamIndex: -1, BeginPosition: 22}},
		},
		{
			name:    "offset and placeholder row count",
			dialect: dialect.MySQL,
			sql:     "SELECT a FROM t LIMIT 10, ?",
			limit: &statement.Limit{
				Offset:   &statement.LimitValue{Value: 10, ParamIndex: -1, BeginPosition: 22},
				RowCount: &statement.LimitValue{ParamIndex: 0, BeginPosition: 26},
			},
		},
		{
			name:    "limit offset",
			dialect: dialect.PostgreSQL,
			sql:     "SELECT a FROM t LIMIT 5 OFFSET 20",
			limit: &statement.Limit{
				Offset:   &statement.LimitValue{Value: 20, ParamIndex: -1, BeginPosition: 31},
				RowCount: &statement.LimitValue{Value: 5, ParamIndex: -1, BeginPosition: 22},
			},
		},
		{
			name:    "placeholders",
			dialect: dialect.PostgreSQL,
			sql:     "SELECT a FROM t WHERE id = ? LIMIT ? OFFSET ?",
			limit: &statement.Limit{
				Offset:   &statement.LimitValue{ParamIndex: 2, BeginPosition: 44},
				RowCount: &statement.LimitValue{ParamIndex: 1, BeginPosition: 35},
			},
		},
		{
			name:    "offset only",
			dialect: dialect.PostgreSQL,
			sql:     "SELECT a FROM t OFFSET 3",
			limit:   &statement.Limit{Offset: &statement.LimitValue{Value: 3, ParamIndex: -1, BeginPosition: 23}},
		},
		{
			name:    "limit all",
			dialect: dialect.PostgreSQL,
			sql:     "SELECT a FROM t LIMIT ALL",
		},
		{
			name:    "no limit",
			dialect: dialect.MySQL,
			sql:     "SELECT a FROM t",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := NewSelectParser(tt.sql, tt.dialect, testRule(t), logger.NewDiscardLogger()).Parse()
			require.NoError(t, err)
			assert.Equal(t, tt.limit, stmt.Limit)
		})
	}
}

func TestParseLimitTokens(t *testing.T) {
	sql := "SELECT a FROM t LIMIT 5 OFFSET 20"
	stmt := parse(t, sql)

	require.Len(t, stmt.Tokens, 3)
	rowCount, ok := stmt.Tokens[1].(*statement.RowCountToken)
	require.True(t, ok)
	assert.Equal(t, &statement.RowCountToken{BeginPosition: strings.Index(sql, "5"), RowCount: 5, Length: 1}, rowCount)
	offset, ok := stmt.Tokens[2].(*statement.OffsetToken)
	require.True(t, ok)
	assert.Equal(t, &statement.OffsetToken{BeginPosition: strings.Index(sql, "20"), Offset: 20, Length: 2}, offset)

	stmt = parse(t, "SELECT a FROM t LIMIT ?, ?")
	assert.Len(t, stmt.Tokens, 1)
}

func TestParseOrderBy(t *testing.T) {
	tests := []struct {
		name    string
		dialect *dialect.Dialect
		sql     string
		items   []*statement.OrderItem
	}{
		{
			name:    "directions",
			dialect: dialect.MySQL,
			sql:     "SELECT a, b FROM t ORDER BY a DESC, b ASC, 1",
			items: []*statement.OrderItem{
				{Name: "a", Direction: statement.DESC, NullOrder: statement.ASC},
				{Name: "b", Direction: statement.ASC, NullOrder: statement.ASC},
				{Index: 1, Direction: statement.ASC, NullOrder: statement.ASC},
			},
		},
		{
			name:    "dialect null order",
			dialect: dialect.Oracle,
			sql:     "SELECT a FROM t ORDER BY a",
			items:   []*statement.OrderItem{{Name: "a", Direction: statement.ASC, NullOrder: statement.DESC}},
		},
		{
			name:    "nulls first and last",
			dialect: dialect.PostgreSQL,
			sql:     "SELECT a, b, c FROM t ORDER BY a NULLS FIRST, b ASC NULLS LAST, c DESC NULLS LAST",
			items: []*statement.OrderItem{
				{Name: "a", Direction: statement.ASC, NullOrder: statement.ASC},
				{Name: "b", Direction: statement.ASC, NullOrder: statement.DESC},
				{Name: "c", Direction: statement.DESC, NullOrder: statement.ASC},
			},
		},
		{
			name:    "siblings",
			dialect: dialect.Oracle,
			sql:     "SELECT a FROM t ORDER SIBLINGS BY a",
			items:   []*statement.OrderItem{{Name: "a", Direction: statement.ASC, NullOrder: statement.DESC}},
		},
		{
			name:    "alias of an expression",
			dialect: dialect.MySQL,
			sql:     "SELECT a + b AS s FROM t ORDER BY a + b",
			items:   []*statement.OrderItem{{Name: "a + b", Direction: statement.ASC, NullOrder: statement.ASC, Alias: "s"}},
		},
		{
			name:    "quoted owner",
			dialect: dialect.MySQL,
			sql:     "SELECT `o`.a FROM t_order o ORDER BY `o`.`a` DESC",
			items:   []*statement.OrderItem{{Owner: "o", Name: "a", Direction: statement.DESC, NullOrder: statement.ASC}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := NewSelectParser(tt.sql, tt.dialect, testRule(t), logger.NewDiscardLogger()).Parse()
			require.NoError(t, err)
			assert.Equal(t, tt.items, stmt.OrderByItems)
			assert.Nil(t, itemsToken(t, stmt))
		})
	}
}

func TestParseGroupByWithDialectSuffix(t *testing.T) {
	sql := "SELECT a, COUNT(*) FROM t GROUP BY a WITH ROLLUP"
	stmt := parse(t, sql)

	assert.Equal(t, len(sql), stmt.GroupByLastPosition)
	require.Len(t, stmt.GroupByItems, 1)
	assert.True(t, stmt.IsSameGroupByAndOrderByItems())
	require.Len(t, orderByTokens(stmt), 1)
	assert.Equal(t, len(sql), orderByTokens(stmt)[0].BeginPosition)
}

func TestParseGroupByBeforeOrderBy(t *testing.T) {
	sql := "SELECT a, b FROM t GROUP BY a, b ORDER BY b LIMIT 3"
	stmt := parse(t, sql)

	assert.Equal(t, strings.Index(sql, "ORDER"), stmt.GroupByLastPosition)
	assert.Len(t, stmt.GroupByItems, 2)
	assert.Len(t, stmt.OrderByItems, 1)
	assert.False(t, stmt.IsSameGroupByAndOrderByItems())
	assert.Empty(t, orderByTokens(stmt))
}

func TestParseTrailingClauses(t *testing.T) {
	tests := []string{
		"SELECT a FROM t FOR UPDATE",
		"SELECT a FROM t LOCK IN SHARE MODE",
		"SELECT a FROM t WHERE id = 1 FOR UPDATE NOWAIT;",
		"SELECT a FROM t;",
		"SELECT a FROM t; ;",
	}
	for _, sql := range tests {
		t.Run(sql, func(t *testing.T) {
			stmt := parse(t, sql)
			assert.Equal(t, []string{"t"}, stmt.Tables.Names())
		})
	}
}

func TestParseWithoutFrom(t *testing.T) {
	stmt := parse(t, "SELECT 1")
	assert.Equal(t, []statement.SelectItem{&statement.CommonSelectItem{Expression: "1"}}, stmt.Items)
	assert.True(t, stmt.Tables.IsEmpty())
	assert.Empty(t, stmt.Tokens)
}

func TestParseCommentsKeepPositions(t *testing.T) {
	sql := "SELECT /* hint */ a\n-- line comment\nFROM t_order # tail"
	stmt := parse(t, sql)

	tokens := tableTokens(stmt)
	require.Len(t, tokens, 1)
	assert.Equal(t, strings.Index(sql, "t_order"), tokens[0].BeginPosition)
	assert.Equal(t, strings.Index(sql, "FROM"), stmt.SelectListLastPosition)
}
