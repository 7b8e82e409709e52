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

// SelectStatement is the result of parsing one SELECT. It is built by a single
// parse call and must not be modified once returned.
type SelectStatement struct {
	Items        []SelectItem `json:"items"`
	Tables       Tables       `json:"tables"`
	GroupByItems []*OrderItem `json:"groupByItems,omitempty"`
	OrderByItems []*OrderItem `json:"orderByItems,omitempty"`
	Tokens       []SQLToken   `json:"tokens"`
	Conditions   Conditions   `json:"conditions,omitempty"`
	Limit        *Limit       `json:"limit,omitempty"`
	ContainsStar bool         `json:"containsStar"`
	// SelectListLastPosition is where derived projection columns are inserted.
	SelectListLastPosition int `json:"selectListLastPosition"`
	// GroupByLastPosition is where a synthesized ORDER BY is inserted.
	GroupByLastPosition int              `json:"groupByLastPosition"`
	SubQuery            *SelectStatement `json:"-"`
	ParametersIndex     int              `json:"parametersIndex"`
}

func NewSelectStatement() *SelectStatement {
	return &SelectStatement{}
}

// ContainsSubQuery reports whether a derived table was parsed in FROM.
func (s *SelectStatement) ContainsSubQuery() bool {
	return s.SubQuery != nil
}

// AddToken appends a rewrite token.
func (s *SelectStatement) AddToken(token SQLToken) {
	s.Tokens = append(s.Tokens, token)
}

// SortTokens orders the rewrite tokens by source offset.
func (s *SelectStatement) SortTokens() {
	SortTokens(s.Tokens)
}

// MergeSubQuery flattens nested sub-queries into s, innermost first. Tables
// are unioned, tokens and conditions concatenated and inner items appended
// after the outer ones. The outer insertion anchors and GROUP/ORDER BY stay.
// An inner LIMIT is kept only when s has none; otherwise its literal tokens
// are dropped and the inner text stays as written.
func (s *SelectStatement) MergeSubQuery() {
	if s.SubQuery == nil {
		return
	}
	inner := s.SubQuery
	inner.MergeSubQuery()
	for _, each := range inner.Tables {
		s.Tables.Add(each)
	}
	for _, each := range inner.Tokens {
		if s.Limit != nil && isLimitToken(each) {
			continue
		}
		s.Tokens = append(s.Tokens, each)
	}
	s.Items = append(s.Items, inner.Items...)
	for _, each := range inner.Conditions {
		s.Conditions.Add(each)
	}
	if s.Limit == nil {
		s.Limit = inner.Limit
	}
	if inner.ParametersIndex > s.ParametersIndex {
		s.ParametersIndex = inner.ParametersIndex
	}
	s.SubQuery = nil
}

func isLimitToken(token SQLToken) bool {
	switch token.(type) {
	case *OffsetToken, *RowCountToken:
		return true
	}
	return false
}

// FindItemByAlias returns the projection item with the given alias.
func (s *SelectStatement) FindItemByAlias(alias string) (SelectItem, bool) {
	for _, each := range s.Items {
		if itemAlias, ok := each.GetAlias(); ok && strings.EqualFold(itemAlias, alias) {
			return each, true
		}
	}
	return nil, false
}

// AggregationItems returns the aggregation projections in order.
func (s *SelectStatement) AggregationItems() []*AggregationSelectItem {
	var result []*AggregationSelectItem
	for _, each := range s.Items {
		if agg, ok := each.(*AggregationSelectItem); ok {
			result = append(result, agg)
		}
	}
	return result
}

// IsSameGroupByAndOrderByItems reports whether ORDER BY repeats GROUP BY,
// which lets results be merged by streaming.
func (s *SelectStatement) IsSameGroupByAndOrderByItems() bool {
	if len(s.GroupByItems) == 0 || len(s.GroupByItems) != len(s.OrderByItems) {
		return false
	}
	for i, each := range s.GroupByItems {
		if !each.Equal(s.OrderByItems[i]) {
			return false
		}
	}
	return true
}
