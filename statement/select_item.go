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

import "strings"

// AggregationType is an aggregate function the rewriter understands.
type AggregationType string

const (
	MAX   AggregationType = "MAX"
	MIN   AggregationType = "MIN"
	SUM   AggregationType = "SUM"
	AVG   AggregationType = "AVG"
	COUNT AggregationType = "COUNT"
)

// ParseAggregationType maps a function name to its AggregationType.
func ParseAggregationType(name string) (AggregationType, bool) {
	switch AggregationType(strings.ToUpper(name)) {
	case MAX:
		return MAX, true
	case MIN:
		return MIN, true
	case SUM:
		return SUM, true
	case AVG:
		return AVG, true
	case COUNT:
		return COUNT, true
	}
	return "", false
}

// SelectItem is one entry of the projection list.
type SelectItem interface {
	// GetExpression returns the item text used for alias and containment matching.
	GetExpression() string
	// GetAlias returns the alias and whether one was given.
	GetAlias() (string, bool)
}

// StarSelectItem is `*` or `owner.*`.
type StarSelectItem struct {
	Owner string `json:"owner,omitempty" yaml:"owner,omitempty"`
}

func (s *StarSelectItem) GetExpression() string {
	if s.Owner == "" {
		return "*"
	}
	return s.Owner + ".*"
}

func (s *StarSelectItem) GetAlias() (string, bool) {
	return "", false
}

// CommonSelectItem is any projection that is neither a star nor an aggregation.
type CommonSelectItem struct {
	Expression string `json:"expression" yaml:"expression"`
	Alias      string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

func (c *CommonSelectItem) GetExpression() string {
	return c.Expression
}

func (c *CommonSelectItem) GetAlias() (string, bool) {
	return c.Alias, c.Alias != ""
}

// AggregationSelectItem is MAX/MIN/SUM/AVG/COUNT over InnerExpression, the raw
// text between the function's parentheses.
type AggregationSelectItem struct {
	Type            AggregationType `json:"type" yaml:"type"`
	InnerExpression string          `json:"innerExpression" yaml:"innerExpression"`
	Alias           string          `json:"alias,omitempty" yaml:"alias,omitempty"`
	// DerivedItems holds the COUNT and SUM companions of an AVG item after rewriting.
	DerivedItems []*AggregationSelectItem `json:"derivedItems,omitempty" yaml:"derivedItems,omitempty"`
}

func (a *AggregationSelectItem) GetExpression() string {
	return string(a.Type) + "(" + a.InnerExpression + ")"
}

func (a *AggregationSelectItem) GetAlias() (string, bool) {
	return a.Alias, a.Alias != ""
}

// ColumnLabel is the name a result set exposes for this aggregation.
func (a *AggregationSelectItem) ColumnLabel() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.GetExpression()
}
