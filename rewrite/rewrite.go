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

// Package rewrite applies the tokens recorded by the parser to the original
// SQL text. Each token either replaces a span of the input (a logic table
// name, a LIMIT value) or inserts text at an offset (derived columns, a
// synthesized ORDER BY). Everything between tokens is copied unchanged.
package rewrite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rulego/shardsql/statement"
)

// Target describes one rewritten statement.
type Target struct {
	// Tables maps logic table names to the actual table names to use.
	// Logic tables missing from the map keep their name.
	Tables map[string]string
	// MultiRoute is set when the statement runs against several shards and
	// the results are merged. LIMIT then returns offset+count rows from every
	// shard, starting at row 0.
	MultiRoute bool
}

// Rewrite returns sql with the statement's tokens applied for target, and
// params adjusted for a multi-route LIMIT. params is never modified.
func Rewrite(sql string, stmt *statement.SelectStatement, target Target, params []any) (string, []any, error) {
	limit, err := resolveLimit(stmt.Limit, target.MultiRoute, params)
	if err != nil {
		return "", nil, err
	}

	var builder strings.Builder
	builder.Grow(len(sql) + 64)
	cursor := 0
	for _, token := range stmt.Tokens {
		begin := token.GetBeginPosition()
		if begin < cursor || begin > len(sql) {
			return "", nil, fmt.Errorf("%s token at %d is out of order or outside the input", statement.TokenKind(token), begin)
		}
		builder.WriteString(sql[cursor:begin])
		cursor = begin

		switch t := token.(type) {
		case *statement.TableToken:
			builder.WriteString(actualLiterals(t, target.Tables))
			cursor += len(t.OriginalLiterals)
		case *statement.ItemsToken:
			for _, item := range t.Items {
				builder.WriteString(", ")
				builder.WriteString(item)
			}
		case *statement.OrderByToken:
			builder.WriteString(orderBy(stmt.OrderByItems))
		case *statement.OffsetToken:
			builder.WriteString(strconv.Itoa(limit.offset(t)))
			cursor += t.Length
		case *statement.RowCountToken:
			builder.WriteString(strconv.Itoa(limit.rowCount(t)))
			cursor += t.Length
		default:
			return "", nil, fmt.Errorf("unknown token %T", token)
		}
	}
	if cursor > len(sql) {
		return "", nil, fmt.Errorf("token ends at %d beyond input length %d", cursor, len(sql))
	}
	builder.WriteString(sql[cursor:])
	return builder.String(), limit.params, nil
}

// actualLiterals swaps the logic table name inside the original literal, so
// quoting survives.
func actualLiterals(token *statement.TableToken, tables map[string]string) string {
	logic := token.TableName()
	actual, ok := lookup(tables, logic)
	if !ok {
		return token.OriginalLiterals
	}
	return strings.Replace(token.OriginalLiterals, logic, actual, 1)
}

func lookup(tables map[string]string, logic string) (string, bool) {
	if actual, ok := tables[logic]; ok {
		return actual, true
	}
	for name, actual := range tables {
		if strings.EqualFold(name, logic) {
			return actual, true
		}
	}
	return "", false
}

func orderBy(items []*statement.OrderItem) string {
	labels := make([]string, 0, len(items))
	for _, each := range items {
		labels = append(labels, each.ColumnLabel()+" "+string(each.Direction))
	}
	return " ORDER BY " + strings.Join(labels, ", ") + " "
}

// limitRewrite holds the LIMIT values a route unit uses.
type limitRewrite struct {
	multiRoute bool
	limit      *statement.Limit
	// revised is offset+count for a multi-route statement.
	revised int
	params  []any
}

func resolveLimit(limit *statement.Limit, multiRoute bool, params []any) (*limitRewrite, error) {
	result := &limitRewrite{multiRoute: multiRoute, limit: limit, params: params}
	if !multiRoute || limit == nil {
		return result, nil
	}
	offset, err := limit.OffsetValue(params)
	if err != nil {
		return nil, err
	}
	rowCount, ok, err := limit.RowCountValue(params)
	if err != nil {
		return nil, err
	}
	result.revised = offset + rowCount

	if (limit.Offset != nil && limit.Offset.IsParam()) || (ok && limit.RowCount.IsParam()) {
		result.params = append([]any(nil), params...)
		if limit.Offset != nil && limit.Offset.IsParam() {
			result.params[limit.Offset.ParamIndex] = 0
		}
		if ok && limit.RowCount.IsParam() {
			result.params[limit.RowCount.ParamIndex] = result.revised
		}
	}
	return result, nil
}

// offset widens only the statement's own LIMIT; literals of other LIMIT
// clauses are written back unchanged.
func (l *limitRewrite) offset(token *statement.OffsetToken) int {
	if l.multiRoute && l.limit != nil && l.limit.Offset != nil && l.limit.Offset.BeginPosition == token.BeginPosition {
		return 0
	}
	return token.Offset
}

func (l *limitRewrite) rowCount(token *statement.RowCountToken) int {
	if l.multiRoute && l.limit != nil && l.limit.RowCount != nil && l.limit.RowCount.BeginPosition == token.BeginPosition {
		return l.revised
	}
	return token.RowCount
}
