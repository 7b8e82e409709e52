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

// Package dialect describes how SQL dialects differ for the select parser.
// Each dialect is a plain capability record; the parser consults it at the
// few points where dialects disagree.
package dialect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rulego/shardsql/rsql"
	"github.com/rulego/shardsql/statement"
)

// Dialect is the set of dialect-specific words and policies the parser uses.
// Word lists are matched case-insensitively against single tokens.
type Dialect struct {
	Name string
	// DistinctSynonyms are rejected after SELECT like DISTINCT itself.
	DistinctSynonyms []string
	// SkippedBeforeSelectItem are modifiers that may lead a projection item.
	SkippedBeforeSelectItem []string
	// RowNumberMarkers are pseudo-columns for row numbering; seeing one in the
	// select list is unsupported.
	RowNumberMarkers []string
	// UnsupportedBeforeGroupByItem are grouping extensions such as ROLLUP.
	UnsupportedBeforeGroupByItem []string
	// SkippedAfterGroupBy are trailing modifiers such as WITH ROLLUP.
	SkippedAfterGroupBy []string
	// SkippedAfterOrder are words between ORDER and BY, such as SIBLINGS.
	SkippedAfterOrder []string
	// UnsupportedRest are keywords rejected after the main clauses in
	// addition to UNION, INTERSECT, EXCEPT and MINUS.
	UnsupportedRest []string
	// NullOrder is the position of NULLs in ascending order.
	NullOrder     statement.OrderDirection
	SupportsLimit bool
}

var (
	Generic = &Dialect{
		Name:          "generic",
		NullOrder:     statement.ASC,
		SupportsLimit: true,
	}
	MySQL = &Dialect{
		Name:             "mysql",
		DistinctSynonyms: []string{"DISTINCTROW"},
		SkippedBeforeSelectItem: []string{
			"HIGH_PRIORITY", "STRAIGHT_JOIN", "SQL_SMALL_RESULT", "SQL_BIG_RESULT",
			"SQL_BUFFER_RESULT", "SQL_CACHE", "SQL_NO_CACHE", "SQL_CALC_FOUND_ROWS",
		},
		SkippedAfterGroupBy: []string{"WITH", "ROLLUP"},
		NullOrder:           statement.ASC,
		SupportsLimit:       true,
	}
	PostgreSQL = &Dialect{
		Name:            "postgresql",
		UnsupportedRest: []string{"WINDOW", "FETCH"},
		NullOrder:       statement.DESC,
		SupportsLimit:   true,
	}
	Oracle = &Dialect{
		Name:                         "oracle",
		DistinctSynonyms:             []string{"UNIQUE"},
		RowNumberMarkers:             []string{"ROWNUM"},
		UnsupportedBeforeGroupByItem: []string{"ROLLUP", "CUBE", "GROUPING"},
		SkippedAfterOrder:            []string{"SIBLINGS"},
		UnsupportedRest:              []string{"CONNECT", "START", "MODEL", "OFFSET", "FETCH"},
		NullOrder:                    statement.DESC,
	}
	SQLServer = &Dialect{
		Name:             "sqlserver",
		RowNumberMarkers: []string{"ROW_NUMBER"},
		UnsupportedRest:  []string{"OFFSET", "OPTION"},
		NullOrder:        statement.ASC,
	}
)

var registry = map[string]*Dialect{
	"generic":    Generic,
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"postgresql": PostgreSQL,
	"postgres":   PostgreSQL,
	"oracle":     Oracle,
	"sqlserver":  SQLServer,
	"mssql":      SQLServer,
}

// Lookup returns the dialect registered under name. An empty name is Generic.
func Lookup(name string) (*Dialect, error) {
	if name == "" {
		return Generic, nil
	}
	if d, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("unknown dialect %q, expected one of %s", name, strings.Join(Names(), ", "))
}

// Names lists the accepted dialect names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dialect) IsDistinctSynonym(tok rsql.Token) bool {
	return matches(d.DistinctSynonyms, tok)
}

func (d *Dialect) IsSkippedBeforeSelectItem(tok rsql.Token) bool {
	return matches(d.SkippedBeforeSelectItem, tok)
}

func (d *Dialect) IsRowNumberMarker(tok rsql.Token) bool {
	return matches(d.RowNumberMarkers, tok)
}

func (d *Dialect) IsUnsupportedBeforeGroupByItem(tok rsql.Token) bool {
	return matches(d.UnsupportedBeforeGroupByItem, tok)
}

func (d *Dialect) IsSkippedAfterGroupBy(tok rsql.Token) bool {
	return matches(d.SkippedAfterGroupBy, tok)
}

func (d *Dialect) IsSkippedAfterOrder(tok rsql.Token) bool {
	return matches(d.SkippedAfterOrder, tok)
}

func (d *Dialect) IsUnsupportedRest(tok rsql.Token) bool {
	return matches(d.UnsupportedRest, tok)
}

func (d *Dialect) String() string {
	return d.Name
}

func matches(words []string, tok rsql.Token) bool {
	for _, word := range words {
		if tok.Is(word) {
			return true
		}
	}
	return false
}
