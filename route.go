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

package shardsql

import (
	"fmt"

	"github.com/rulego/shardsql/rewrite"
	"github.com/rulego/shardsql/rsql"
	"github.com/rulego/shardsql/statement"
)

// RouteUnit is one statement to execute against actual tables.
type RouteUnit struct {
	// Tables maps each logic table of the statement to its actual table.
	Tables     map[string]string `json:"tables" yaml:"tables"`
	SQL        string            `json:"sql" yaml:"sql"`
	Parameters []any             `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Route parses sql and rewrites it once per target shard.
//
// The table that carries a sharding condition (or the first sharded table)
// drives the route: its conditions pick the actual tables, or every actual
// table when there is none. Tables in the same binding group follow it shard
// by shard. Any other table must resolve to exactly one actual table through
// its own conditions; otherwise the route is unsupported.
//
// With more than one unit, LIMIT is widened to offset+count rows starting
// at row 0, so the caller can merge and page the combined results.
func (s *ShardSQL) Route(sql string, params ...any) ([]RouteUnit, error) {
	stmt, err := s.Parse(sql)
	if err != nil {
		return nil, err
	}
	names := stmt.Tables.Names()
	if len(names) == 0 {
		rewritten, rewrittenParams, err := rewrite.Rewrite(sql, stmt, rewrite.Target{}, params)
		if err != nil {
			return nil, fmt.Errorf("rewrite: %w", err)
		}
		return []RouteUnit{{Tables: map[string]string{}, SQL: rewritten, Parameters: rewrittenParams}}, nil
	}

	primary := s.primaryTable(stmt, names)
	targets, err := s.routeTable(stmt, primary, params)
	if err != nil {
		return nil, err
	}
	binding, hasBinding := s.rule.FindBindingTableRule(primary)

	fixed := make(map[string]string)
	for _, name := range names {
		if name == primary || (hasBinding && binding.HasLogicTable(name)) {
			continue
		}
		tables, err := s.routeTable(stmt, name, params)
		if err != nil {
			return nil, err
		}
		if len(tables) != 1 {
			return nil, fmt.Errorf("%w: %s routes to %d tables and is not bound to %s",
				rsql.ErrUnsupported, name, len(tables), primary)
		}
		fixed[name] = tables[0]
	}

	multiRoute := len(targets) > 1
	units := make([]RouteUnit, 0, len(targets))
	for _, actual := range targets {
		mapping := map[string]string{primary: actual}
		for _, name := range names {
			if mapped, ok := fixed[name]; ok {
				mapping[name] = mapped
			} else if name != primary {
				if mapping[name], err = binding.BindingActualTable(primary, actual, name); err != nil {
					return nil, err
				}
			}
		}
		rewritten, rewrittenParams, err := rewrite.Rewrite(sql, stmt, rewrite.Target{Tables: mapping, MultiRoute: multiRoute}, params)
		if err != nil {
			return nil, fmt.Errorf("rewrite for %s: %w", actual, err)
		}
		s.logger.Debug("route %s -> %s", primary, actual)
		units = append(units, RouteUnit{Tables: mapping, SQL: rewritten, Parameters: rewrittenParams})
	}
	return units, nil
}

// primaryTable returns the first table with a sharding condition, or the
// first table.
func (s *ShardSQL) primaryTable(stmt *statement.SelectStatement, names []string) string {
	for _, name := range names {
		tableRule, ok := s.rule.TryFindTableRule(name)
		if !ok || tableRule.ShardingColumn == "" {
			continue
		}
		if _, ok := stmt.Conditions.Find(name, tableRule.ShardingColumn); ok {
			return name
		}
	}
	return names[0]
}

// routeTable returns the actual tables the conditions on name select.
func (s *ShardSQL) routeTable(stmt *statement.SelectStatement, name string, params []any) ([]string, error) {
	tableRule, ok := s.rule.TryFindTableRule(name)
	if !ok {
		return nil, fmt.Errorf("no table rule for %s", name)
	}
	condition, ok := stmt.Conditions.Find(name, tableRule.ShardingColumn)
	if !ok || len(condition.Values) == 0 {
		return append([]string(nil), tableRule.ActualTables...), nil
	}
	values, err := condition.ResolveValues(params)
	if err != nil {
		return nil, err
	}
	tables, err := tableRule.Route(values)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", name, err)
	}
	return tables, nil
}
