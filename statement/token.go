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
	"sort"

	"github.com/rulego/shardsql/rsql"
)

// SQLToken is a rewrite directive anchored at a byte offset of the original SQL.
type SQLToken interface {
	GetBeginPosition() int
}

// TableToken marks a logic table name to be replaced by a physical table.
type TableToken struct {
	BeginPosition    int    `json:"beginPosition" yaml:"beginPosition"`
	OriginalLiterals string `json:"originalLiterals" yaml:"originalLiterals"`
}

func (t *TableToken) GetBeginPosition() int {
	return t.BeginPosition
}

// TableName is the unquoted logic table name.
func (t *TableToken) TableName() string {
	return rsql.ExactlyValue(t.OriginalLiterals)
}

// ItemsToken lists projection fragments to splice in at the end of the select list.
type ItemsToken struct {
	BeginPosition int      `json:"beginPosition" yaml:"beginPosition"`
	Items         []string `json:"items" yaml:"items"`
}

func (t *ItemsToken) GetBeginPosition() int {
	return t.BeginPosition
}

// OrderByToken marks where an ORDER BY built from the statement's order items is inserted.
type OrderByToken struct {
	BeginPosition int `json:"beginPosition" yaml:"beginPosition"`
}

func (t *OrderByToken) GetBeginPosition() int {
	return t.BeginPosition
}

// OffsetToken is a literal LIMIT offset.
type OffsetToken struct {
	BeginPosition int `json:"beginPosition" yaml:"beginPosition"`
	Offset        int `json:"offset" yaml:"offset"`
	Length        int `json:"length" yaml:"length"`
}

func (t *OffsetToken) GetBeginPosition() int {
	return t.BeginPosition
}

// RowCountToken is a literal LIMIT row count.
type RowCountToken struct {
	BeginPosition int `json:"beginPosition" yaml:"beginPosition"`
	RowCount      int `json:"rowCount" yaml:"rowCount"`
	Length        int `json:"length" yaml:"length"`
}

func (t *RowCountToken) GetBeginPosition() int {
	return t.BeginPosition
}

// SortTokens orders tokens by position; tokens at the same offset keep their order.
func SortTokens(tokens []SQLToken) {
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].GetBeginPosition() < tokens[j].GetBeginPosition()
	})
}

// TokenKind names a token variant for logs and CLI output.
func TokenKind(token SQLToken) string {
	switch token.(type) {
	case *TableToken:
		return "table"
	case *ItemsToken:
		return "items"
	case *OrderByToken:
		return "orderBy"
	case *OffsetToken:
		return "offset"
	case *RowCountToken:
		return "rowCount"
	}
	return "unknown"
}
