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

package dialect

import (
	"testing"

	"github.com/rulego/shardsql/rsql"
	"github.com/rulego/shardsql/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		expected *Dialect
	}{
		{"", Generic},
		{"MySQL", MySQL},
		{" postgres ", PostgreSQL},
		{"oracle", Oracle},
		{"mssql", SQLServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Lookup(tt.name)
			require.NoError(t, err)
			assert.Same(t, tt.expected, d)
		})
	}

	_, err := Lookup("db2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}

func TestDialectWords(t *testing.T) {
	word := func(s string) rsql.Token {
		return rsql.NewLexer(s).NextToken()
	}

	assert.True(t, MySQL.IsDistinctSynonym(word("distinctrow")))
	assert.False(t, Generic.IsDistinctSynonym(word("distinctrow")))
	assert.True(t, MySQL.IsSkippedBeforeSelectItem(word("STRAIGHT_JOIN")))
	assert.True(t, MySQL.IsSkippedAfterGroupBy(word("ROLLUP")))
	assert.True(t, Oracle.IsUnsupportedBeforeGroupByItem(word("cube")))
	assert.True(t, Oracle.IsSkippedAfterOrder(word("SIBLINGS")))
	assert.True(t, Oracle.IsRowNumberMarker(word("rownum")))
	assert.True(t, PostgreSQL.IsUnsupportedRest(word("WINDOW")))
	assert.False(t, PostgreSQL.IsUnsupportedRest(word("'WINDOW'")))

	assert.Equal(t, statement.DESC, Oracle.NullOrder)
	assert.False(t, Oracle.SupportsLimit)
	assert.True(t, MySQL.SupportsLimit)
}
