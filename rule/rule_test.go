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

package rule

import (
	"testing"

	"github.com/rulego/shardsql/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRule(t *testing.T) *ShardingRule {
	t.Helper()
	r, err := New(types.ShardingConfig{
		Tables: []types.TableRuleConfig{
			{
				LogicTable:     "t_order",
				ActualTables:   []string{"t_order_${0..1}"},
				ShardingColumn: "user_id",
				Algorithm:      `"t_order_" + string(user_id % 2)`,
			},
			{
				LogicTable:     "t_order_item",
				ActualTables:   []string{"t_order_item_0", "t_order_item_1"},
				ShardingColumn: "user_id",
				Algorithm:      "value % 2",
			},
			{
				LogicTable:     "t_user",
				ActualTables:   []string{"t_user_${a,b,c}"},
				ShardingColumn: "name",
				Algorithm:      "hash(value) % 3",
			},
			{LogicTable: "t_config"},
		},
		BindingTables: [][]string{{"t_order", "t_order_item"}},
	})
	require.NoError(t, err)
	return r
}

func TestExpandInline(t *testing.T) {
	tests := []struct {
		pattern  string
		expected []string
	}{
		{"t_order", []string{"t_order"}},
		{"t_order_${0..2}", []string{"t_order_0", "t_order_1", "t_order_2"}},
		{"t_${a, 'b'}_${0..1}", []string{"t_a_0", "t_a_1", "t_b_0", "t_b_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			actual, err := ExpandInline(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}

	for _, bad := range []string{"t_${0..", "t_${x..2}", "t_${3..1}", "t_${a,,b}"} {
		_, err := ExpandInline(bad)
		assert.Error(t, err, bad)
	}
}

func TestLookups(t *testing.T) {
	r := newTestRule(t)

	tableRule, ok := r.TryFindTableRule("T_ORDER")
	require.True(t, ok)
	assert.Equal(t, []string{"t_order_0", "t_order_1"}, tableRule.ActualTables)

	configRule, ok := r.TryFindTableRule("t_config")
	require.True(t, ok)
	assert.Equal(t, []string{"t_config"}, configRule.ActualTables)

	_, ok = r.TryFindTableRule("t_other")
	assert.False(t, ok)

	binding, ok := r.FindBindingTableRule("t_order_item")
	require.True(t, ok)
	assert.Equal(t, "[t_order, t_order_item]", binding.String())
	_, ok = r.FindBindingTableRule("t_user")
	assert.False(t, ok)

	assert.True(t, r.IsSharded("t_user"))
	assert.False(t, r.IsSharded("t_other"))
	assert.True(t, r.IsShardingColumn("t_order", "USER_ID"))
	assert.False(t, r.IsShardingColumn("t_order", "order_id"))
	assert.Len(t, r.TableRules(), 4)
	assert.Len(t, r.BindingTableRules(), 1)
}

func TestRoute(t *testing.T) {
	r := newTestRule(t)
	order, _ := r.TryFindTableRule("t_order")
	item, _ := r.TryFindTableRule("t_order_item")

	tests := []struct {
		name     string
		rule     *TableRule
		values   []any
		expected []string
	}{
		{"name result", order, []any{int64(11)}, []string{"t_order_1"}},
		{"index result", item, []any{int64(10)}, []string{"t_order_item_0"}},
		{"float param", item, []any{float64(3)}, []string{"t_order_item_1"}},
		{"in list keeps table order", order, []any{3, 2, 5}, []string{"t_order_0", "t_order_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := tt.rule.Route(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}

	user, _ := r.TryFindTableRule("t_user")
	routed, err := user.Route([]any{"alice"})
	require.NoError(t, err)
	assert.Len(t, routed, 1)

	config, _ := r.TryFindTableRule("t_config")
	routed, err = config.Route([]any{1})
	require.NoError(t, err)
	assert.Equal(t, []string{"t_config"}, routed)
}

func TestRouteErrors(t *testing.T) {
	bad, err := NewTableRule("t", []string{"t_0", "t_1"}, "id", `"t_9"`)
	require.NoError(t, err)
	_, err = bad.Route([]any{1})
	assert.ErrorContains(t, err, "not an actual table")

	outOfRange, err := NewTableRule("t", []string{"t_0", "t_1"}, "id", "value + 5")
	require.NoError(t, err)
	_, err = outOfRange.Route([]any{1})
	assert.ErrorContains(t, err, "index 6")

	_, err = NewTableRule("t", nil, "id", "value +")
	assert.ErrorContains(t, err, "compile algorithm")
}

func TestBindingActualTable(t *testing.T) {
	r := newTestRule(t)
	binding, ok := r.FindBindingTableRule("t_order")
	require.True(t, ok)

	actual, err := binding.BindingActualTable("t_order", "t_order_1", "t_order_item")
	require.NoError(t, err)
	assert.Equal(t, "t_order_item_1", actual)

	_, err = binding.BindingActualTable("t_order", "t_order_7", "t_order_item")
	assert.Error(t, err)
	_, err = binding.BindingActualTable("t_order", "t_order_1", "t_user")
	assert.Error(t, err)
}

func TestNewRejectsUnevenBindingGroup(t *testing.T) {
	_, err := New(types.ShardingConfig{
		Tables: []types.TableRuleConfig{
			{LogicTable: "a", ActualTables: []string{"a_${0..1}"}},
			{LogicTable: "b", ActualTables: []string{"b_${0..2}"}},
		},
		BindingTables: [][]string{{"a", "b"}},
	})
	assert.ErrorContains(t, err, "actual tables")
}

func TestNilRule(t *testing.T) {
	var r *ShardingRule
	_, ok := r.TryFindTableRule("t")
	assert.False(t, ok)
	assert.False(t, r.IsSharded("t"))
	assert.False(t, Empty().IsSharded("t"))
}
