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
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cast"
)

// TableRule maps a logic table to its actual tables.
type TableRule struct {
	LogicTable     string
	ActualTables   []string
	ShardingColumn string
	Algorithm      string
	program        *vm.Program
}

// NewTableRule expands the actual tables and compiles the algorithm.
func NewTableRule(logicTable string, actualTables []string, shardingColumn, algorithm string) (*TableRule, error) {
	r := &TableRule{
		LogicTable:     logicTable,
		ShardingColumn: shardingColumn,
		Algorithm:      algorithm,
	}
	for _, pattern := range actualTables {
		expanded, err := ExpandInline(pattern)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", logicTable, err)
		}
		r.ActualTables = append(r.ActualTables, expanded...)
	}
	if len(r.ActualTables) == 0 {
		r.ActualTables = []string{logicTable}
	}
	if algorithm != "" {
		program, err := expr.Compile(algorithm, algorithmOptions()...)
		if err != nil {
			return nil, fmt.Errorf("table %s: compile algorithm: %w", logicTable, err)
		}
		r.program = program
	}
	return r, nil
}

func algorithmOptions() []expr.Option {
	return []expr.Option{
		expr.Function("hash", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("hash function requires 1 parameter")
			}
			return int(crc32.ChecksumIEEE([]byte(cast.ToString(params[0])))), nil
		}),
		expr.AllowUndefinedVariables(),
	}
}

// IsShardingColumn reports whether column drives this table's routing.
func (r *TableRule) IsShardingColumn(column string) bool {
	return r.ShardingColumn != "" && strings.EqualFold(r.ShardingColumn, column)
}

// IndexOf returns the position of an actual table, or -1.
func (r *TableRule) IndexOf(actualTable string) int {
	for i, each := range r.ActualTables {
		if strings.EqualFold(each, actualTable) {
			return i
		}
	}
	return -1
}

// Route returns the actual tables hit by the given sharding values, in
// actual-table order. With no algorithm every actual table is hit.
func (r *TableRule) Route(values []any) ([]string, error) {
	if r.program == nil {
		return append([]string(nil), r.ActualTables...), nil
	}
	hit := make(map[int]struct{}, len(values))
	for _, value := range values {
		index, err := r.routeOne(value)
		if err != nil {
			return nil, err
		}
		hit[index] = struct{}{}
	}
	result := make([]string, 0, len(hit))
	for i, each := range r.ActualTables {
		if _, ok := hit[i]; ok {
			result = append(result, each)
		}
	}
	return result, nil
}

func (r *TableRule) routeOne(value any) (int, error) {
	value = normalize(value)
	env := map[string]any{"value": value}
	if r.ShardingColumn != "" {
		env[r.ShardingColumn] = value
	}
	out, err := expr.Run(r.program, env)
	if err != nil {
		return 0, fmt.Errorf("table %s: run algorithm for %v: %w", r.LogicTable, value, err)
	}
	if name, ok := out.(string); ok {
		if index := r.IndexOf(name); index >= 0 {
			return index, nil
		}
		return 0, fmt.Errorf("table %s: algorithm returned %q which is not an actual table", r.LogicTable, name)
	}
	index, err := cast.ToIntE(out)
	if err != nil {
		return 0, fmt.Errorf("table %s: algorithm returned %v (%T), want a table name or index", r.LogicTable, out, out)
	}
	if index < 0 || index >= len(r.ActualTables) {
		return 0, fmt.Errorf("table %s: algorithm returned index %d, have %d actual tables", r.LogicTable, index, len(r.ActualTables))
	}
	return index, nil
}

// normalize turns integral values into int so algorithm arithmetic behaves
// the same for literals and bound parameters.
func normalize(value any) any {
	switch v := value.(type) {
	case int8, int16, int32, int64, uint8, uint16, uint32, uint64, uint:
		return cast.ToInt(v)
	case float32, float64:
		f := cast.ToFloat64(v)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	}
	return value
}

// BindingTableRule groups logic tables sharded identically.
type BindingTableRule struct {
	TableRules []*TableRule
}

// HasLogicTable reports whether name belongs to the group.
func (b *BindingTableRule) HasLogicTable(name string) bool {
	_, ok := b.find(name)
	return ok
}

// BindingActualTable maps an actual table of one member to the actual table
// at the same index of another member.
func (b *BindingTableRule) BindingActualTable(logicTable, actualTable, otherLogicTable string) (string, error) {
	source, ok := b.find(logicTable)
	if !ok {
		return "", fmt.Errorf("table %s is not in binding group %s", logicTable, b)
	}
	target, ok := b.find(otherLogicTable)
	if !ok {
		return "", fmt.Errorf("table %s is not in binding group %s", otherLogicTable, b)
	}
	index := source.IndexOf(actualTable)
	if index < 0 {
		return "", fmt.Errorf("%s is not an actual table of %s", actualTable, logicTable)
	}
	return target.ActualTables[index], nil
}

func (b *BindingTableRule) find(name string) (*TableRule, bool) {
	for _, each := range b.TableRules {
		if strings.EqualFold(each.LogicTable, name) {
			return each, true
		}
	}
	return nil, false
}

func (b *BindingTableRule) String() string {
	names := make([]string, 0, len(b.TableRules))
	for _, each := range b.TableRules {
		names = append(names, each.LogicTable)
	}
	return "[" + strings.Join(names, ", ") + "]"
}
