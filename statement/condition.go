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
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// ShardingOperator is a predicate form that can narrow a route.
type ShardingOperator string

const (
	OperatorEqual ShardingOperator = "="
	OperatorIn    ShardingOperator = "IN"
)

// Column identifies a sharding column of a logic table.
type Column struct {
	Table string `json:"table" yaml:"table"`
	Name  string `json:"name" yaml:"name"`
}

// ConditionValue is either a literal or a reference to a bind parameter.
type ConditionValue struct {
	Literal    any  `json:"literal,omitempty" yaml:"literal,omitempty"`
	ParamIndex int  `json:"paramIndex,omitempty" yaml:"paramIndex,omitempty"`
	IsParam    bool `json:"isParam,omitempty" yaml:"isParam,omitempty"`
}

// Resolve returns the literal, or the bound parameter it refers to.
func (v ConditionValue) Resolve(params []any) (any, error) {
	if !v.IsParam {
		return v.Literal, nil
	}
	if v.ParamIndex < 0 || v.ParamIndex >= len(params) {
		return nil, fmt.Errorf("parameter index %d out of range, %d parameters bound", v.ParamIndex, len(params))
	}
	return params[v.ParamIndex], nil
}

// Condition is a top-level `column = value` or `column IN (...)` predicate
// on a sharding column.
type Condition struct {
	Column   Column           `json:"column" yaml:"column"`
	Operator ShardingOperator `json:"operator" yaml:"operator"`
	Values   []ConditionValue `json:"values" yaml:"values"`
}

// ResolveValues resolves every value against params.
func (c *Condition) ResolveValues(params []any) ([]any, error) {
	result := make([]any, 0, len(c.Values))
	for _, each := range c.Values {
		v, err := each.Resolve(params)
		if err != nil {
			return nil, fmt.Errorf("condition on %s.%s: %w", c.Column.Table, c.Column.Name, err)
		}
		result = append(result, v)
	}
	return result, nil
}

// Conditions groups the collected predicates.
type Conditions []*Condition

// Find returns the condition for the given table and column.
func (cs Conditions) Find(table, column string) (*Condition, bool) {
	for _, each := range cs {
		if strings.EqualFold(each.Column.Table, table) && strings.EqualFold(each.Column.Name, column) {
			return each, true
		}
	}
	return nil, false
}

// Add stores condition, intersecting it with an existing one on the same column.
func (cs *Conditions) Add(condition *Condition) {
	existing, ok := cs.Find(condition.Column.Table, condition.Column.Name)
	if !ok {
		*cs = append(*cs, condition)
		return
	}
	// both must hold; keep only literals present on both sides, params are kept as-is
	kept := make([]ConditionValue, 0, len(existing.Values))
	for _, left := range existing.Values {
		if left.IsParam {
			kept = append(kept, left)
			continue
		}
		for _, right := range condition.Values {
			if right.IsParam || cast.ToString(left.Literal) == cast.ToString(right.Literal) {
				kept = append(kept, left)
				break
			}
		}
	}
	existing.Values = kept
	if len(kept) > 1 {
		existing.Operator = OperatorIn
	}
}
