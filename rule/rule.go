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

// Package rule answers which logic tables are sharded and how a sharding
// value maps to an actual table. A ShardingRule is immutable once built and
// may be shared by concurrent parsers.
package rule

import (
	"fmt"
	"strings"

	"github.com/rulego/shardsql/types"
)

// ShardingRule is the set of table rules and binding groups.
type ShardingRule struct {
	tableRules   []*TableRule
	byName       map[string]*TableRule
	bindingRules []*BindingTableRule
}

// New builds a ShardingRule from configuration.
func New(cfg types.ShardingConfig) (*ShardingRule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &ShardingRule{byName: make(map[string]*TableRule, len(cfg.Tables))}
	for _, each := range cfg.Tables {
		tableRule, err := NewTableRule(each.LogicTable, each.ActualTables, each.ShardingColumn, each.Algorithm)
		if err != nil {
			return nil, err
		}
		s.tableRules = append(s.tableRules, tableRule)
		s.byName[strings.ToLower(each.LogicTable)] = tableRule
	}
	for _, group := range cfg.BindingTables {
		binding := &BindingTableRule{}
		for _, name := range group {
			binding.TableRules = append(binding.TableRules, s.byName[strings.ToLower(name)])
		}
		size := len(binding.TableRules[0].ActualTables)
		for _, each := range binding.TableRules[1:] {
			if len(each.ActualTables) != size {
				return nil, fmt.Errorf("binding group %s: %s has %d actual tables, %s has %d",
					binding, binding.TableRules[0].LogicTable, size, each.LogicTable, len(each.ActualTables))
			}
		}
		s.bindingRules = append(s.bindingRules, binding)
	}
	return s, nil
}

// Empty returns a rule with no sharded tables.
func Empty() *ShardingRule {
	return &ShardingRule{byName: map[string]*TableRule{}}
}

// TryFindTableRule looks a logic table up case-insensitively.
func (s *ShardingRule) TryFindTableRule(logicTable string) (*TableRule, bool) {
	if s == nil {
		return nil, false
	}
	r, ok := s.byName[strings.ToLower(logicTable)]
	return r, ok
}

// FindBindingTableRule returns the binding group containing logicTable.
func (s *ShardingRule) FindBindingTableRule(logicTable string) (*BindingTableRule, bool) {
	if s == nil {
		return nil, false
	}
	for _, each := range s.bindingRules {
		if each.HasLogicTable(logicTable) {
			return each, true
		}
	}
	return nil, false
}

// IsSharded reports whether logicTable has a table rule or binding group.
func (s *ShardingRule) IsSharded(logicTable string) bool {
	if _, ok := s.TryFindTableRule(logicTable); ok {
		return true
	}
	_, ok := s.FindBindingTableRule(logicTable)
	return ok
}

// IsShardingColumn reports whether column is the sharding column of logicTable.
func (s *ShardingRule) IsShardingColumn(logicTable, column string) bool {
	r, ok := s.TryFindTableRule(logicTable)
	return ok && r.IsShardingColumn(column)
}

// TableRules returns the table rules in declaration order.
func (s *ShardingRule) TableRules() []*TableRule {
	if s == nil {
		return nil
	}
	return append([]*TableRule(nil), s.tableRules...)
}

// BindingTableRules returns the binding groups in declaration order.
func (s *ShardingRule) BindingTableRules() []*BindingTableRule {
	if s == nil {
		return nil
	}
	return append([]*BindingTableRule(nil), s.bindingRules...)
}
