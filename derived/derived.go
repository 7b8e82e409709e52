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

// Package derived names the synthetic columns that the rewriter adds to a
// projection so that partial results from several shards can be merged.
package derived

import (
	"strconv"
	"strings"
)

// Column is the alias prefix of one kind of derived column.
type Column string

const (
	AvgCount            Column = "AVG_DERIVED_COUNT_"
	AvgSum              Column = "AVG_DERIVED_SUM_"
	OrderBy             Column = "ORDER_BY_DERIVED_"
	GroupBy             Column = "GROUP_BY_DERIVED_"
	AggregationDistinct Column = "AGGREGATION_DISTINCT_DERIVED_"
)

// recognized lists the prefixes IsDerived accepts. AggregationDistinct is
// only used to generate aliases and is not part of it.
var recognized = []Column{AvgCount, AvgSum, OrderBy, GroupBy}

// Alias returns the alias of the ordinal-th column of this kind, e.g. AVG_DERIVED_SUM_0.
func (c Column) Alias(ordinal int) string {
	return string(c) + strconv.Itoa(ordinal)
}

// IsDerived reports whether columnName was generated by the rewriter.
func IsDerived(columnName string) bool {
	for _, each := range recognized {
		if strings.HasPrefix(columnName, string(each)) {
			return true
		}
	}
	return false
}
