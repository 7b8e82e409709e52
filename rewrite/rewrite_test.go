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

package rewrite

import (
	"testing"

	"github.com/rulego/shardsql/dialect"
	"github.com/rulego/shardsql/parser"
	"github.com/rulego/shardsql/rule"
	"github.com/rulego/shardsql/statement"
	"github.com/rulego/shardsql/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, sql string) *statement.SelectStatement {
	t.Helper()
	r, err := rule.New(types.ShardingConfig{
		Tables: []types.TableRuleConfig{
			{LogicTable: "t", ActualTables: []string{"t_${0..1}"}},
			{LogicTable: "t_order", ActualTables: []string{"t_order_${0..1}"}, ShardingColumn: "user_id", Algorithm: "value % 2"},
		},
	})
	require.NoError(t, err)
	stmt, err := parser.Parse(sql, dialect.MySQL, r)
	require.NoError(t, err)
	return stmt
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		target Target
		want   string
	}{
		{
			name:   "derived columns and order by",
			sql:    "SELECT AVG(score) FROM t GROUP BY dept",
			target: Target{Tables: map[string]string{"t": "t_1"}},
			want: "SELECT AVG(score) , COUNT(score) AS AVG_DERIVED_COUNT_0 , SUM(score) AS AVG_DERIVED_SUM_0 , " +
				"dept AS GROUP_BY_DERIVED_0 FROM t_1 GROUP BY dept ORDER BY GROUP_BY_DERIVED_0 ASC ",
		},
		{
			name:   "quoted owners keep quoting",
			sql:    "SELECT `t_order`.a FROM `t_order` WHERE `t_order`.user_id = 1",
			target: Target{Tables: map[string]string{"t_order": "t_order_1"}},
			want:   "SELECT `t_order_1`.a FROM `t_order_1` WHERE `t_order_1`.user_id = 1",
		},
		{
			name:   "unmapped table keeps its name",
			sql:    "SELECT a FROM t_order o JOIN t ON o.id = t.id",
			target: Target{Tables: map[string]string{"T_ORDER": "t_order_0"}},
			want:   "SELECT a FROM t_order_0 o JOIN t ON o.id = t.id",
		},
		{
			name:   "synthesized order by uses aliases",
			sql:    "SELECT a, b AS x FROM t GROUP BY a, b DESC LIMIT 3",
			target: Target{Tables: map[string]string{"t": "t_0"}},
			want:   "SELECT a, b AS x FROM t_0 GROUP BY a, b DESC  ORDER BY a ASC, x DESC LIMIT 3",
		},
		{
			name:   "single route keeps limit",
			sql:    "SELECT a FROM t_order LIMIT 10, 20",
			target: Target{Tables: map[string]string{"t_order": "t_order_0"}},
			want:   "SELECT a FROM t_order_0 LIMIT 10, 20",
		},
		{
			name:   "multi route widens limit",
			sql:    "SELECT a FROM t_order LIMIT 10, 20",
			target: Target{Tables: map[string]string{"t_order": "t_order_0"}, MultiRoute: true},
			want:   "SELECT a FROM t_order_0 LIMIT 0, 30",
		},
		{
			name:   "multi route limit offset",
			sql:    "SELECT a FROM t_order LIMIT 5 OFFSET 15",
			target: Target{Tables: map[string]string{"t_order": "t_order_1"}, MultiRoute: true},
			want:   "SELECT a FROM t_order_1 LIMIT 20 OFFSET 0",
		},
		{
			name:   "multi route leaves derived table limit",
			sql:    "SELECT a FROM (SELECT a FROM t_order LIMIT 1, 5) x LIMIT 3, 10",
			target: Target{Tables: map[string]string{"t_order": "t_order_0"}, MultiRoute: true},
			want:   "SELECT a FROM (SELECT a FROM t_order_0 LIMIT 1, 5) x LIMIT 0, 13",
		},
		{
			name: "nothing to rewrite",
			sql:  "SELECT 1",
			want: "SELECT 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, params, err := Rewrite(tt.sql, parse(t, tt.sql), tt.target, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Nil(t, params)
		})
	}
}

func TestRewriteLimitParameters(t *testing.T) {
	sql := "SELECT a FROM t_order WHERE b = ? LIMIT ?, ?"
	stmt := parse(t, sql)
	params := []any{"x", 5, "10"}

	got, rewritten, err := Rewrite(sql, stmt, Target{Tables: map[string]string{"t_order": "t_order_1"}, MultiRoute: true}, params)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t_order_1 WHERE b = ? LIMIT ?, ?", got)
	assert.Equal(t, []any{"x", 0, 15}, rewritten)
	assert.Equal(t, []any{"x", 5, "10"}, params)

	_, rewritten, err = Rewrite(sql, stmt, Target{}, params)
	require.NoError(t, err)
	assert.Equal(t, params, rewritten)
}

func TestRewriteErrors(t *testing.T) {
	t.Run("missing limit parameter", func(t *testing.T) {
		sql := "SELECT a FROM t_order LIMIT ?"
		_, _, err := Rewrite(sql, parse(t, sql), Target{MultiRoute: true}, nil)
		assert.Error(t, err)
	})

	t.Run("tokens out of order", func(t *testing.T) {
		stmt := &statement.SelectStatement{Tokens: []statement.SQLToken{
			&statement.OrderByToken{BeginPosition: 5},
			&statement.OrderByToken{BeginPosition: 2},
		}}
		_, _, err := Rewrite("SELECT a", stmt, Target{}, nil)
		assert.ErrorContains(t, err, "orderBy token at 2")
	})

	t.Run("token beyond input", func(t *testing.T) {
		stmt := &statement.SelectStatement{Tokens: []statement.SQLToken{
			&statement.TableToken{BeginPosition: 7, OriginalLiterals: "t_order"},
		}}
		_, _, err := Rewrite("SELECT t", stmt, Target{}, nil)
		assert.Error(t, err)
	})
}
