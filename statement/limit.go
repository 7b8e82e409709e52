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

	"github.com/spf13/cast"
)

// LimitValue is one LIMIT operand: a literal at BeginPosition, or a bind
// parameter when ParamIndex >= 0.
type LimitValue struct {
	Value         int `json:"value" yaml:"value"`
	ParamIndex    int `json:"paramIndex" yaml:"paramIndex"`
	BeginPosition int `json:"beginPosition" yaml:"beginPosition"`
}

// IsParam reports whether the value is bound at execution time.
func (v *LimitValue) IsParam() bool {
	return v.ParamIndex >= 0
}

// Resolve returns the effective value for the given parameters.
func (v *LimitValue) Resolve(params []any) (int, error) {
	if !v.IsParam() {
		return v.Value, nil
	}
	if v.ParamIndex >= len(params) {
		return 0, fmt.Errorf("limit parameter index %d out of range, %d parameters bound", v.ParamIndex, len(params))
	}
	n, err := cast.ToIntE(params[v.ParamIndex])
	if err != nil {
		return 0, fmt.Errorf("limit parameter %d: %w", v.ParamIndex, err)
	}
	return n, nil
}

// Limit is a LIMIT clause; either operand may be absent.
type Limit struct {
	Offset   *LimitValue `json:"offset,omitempty" yaml:"offset,omitempty"`
	RowCount *LimitValue `json:"rowCount,omitempty" yaml:"rowCount,omitempty"`
}

// OffsetValue returns the resolved offset, zero when absent.
func (l *Limit) OffsetValue(params []any) (int, error) {
	if l == nil || l.Offset == nil {
		return 0, nil
	}
	return l.Offset.Resolve(params)
}

// RowCountValue returns the resolved row count and whether one was given.
func (l *Limit) RowCountValue(params []any) (int, bool, error) {
	if l == nil || l.RowCount == nil {
		return 0, false, nil
	}
	n, err := l.RowCount.Resolve(params)
	return n, err == nil, err
}
