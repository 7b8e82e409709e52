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

package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
dialect: mysql
logLevel: debug
batchConcurrency: 4
sharding:
  tables:
    - logicTable: t_order
      actualTables: ["t_order_${0..1}"]
      shardingColumn: user_id
      algorithm: '"t_order_" + string(value % 2)'
    - logicTable: t_order_item
      actualTables: ["t_order_item_0", "t_order_item_1"]
      shardingColumn: user_id
      algorithm: value % 2
  bindingTables:
    - [t_order, t_order_item]
`

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8, cfg.BatchConcurrency)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.BatchConcurrency)
	require.Len(t, cfg.Sharding.Tables, 2)
	assert.Equal(t, "t_order", cfg.Sharding.Tables[0].LogicTable)
	assert.Equal(t, []string{"t_order_${0..1}"}, cfg.Sharding.Tables[0].ActualTables)
	assert.Equal(t, "user_id", cfg.Sharding.Tables[1].ShardingColumn)
	assert.Equal(t, [][]string{{"t_order", "t_order_item"}}, cfg.Sharding.BindingTables)
}

func TestParseConfigEmptyKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{"unknown key", "dialekt: mysql\n", "dialekt"},
		{"missing logic table", "sharding:\n  tables:\n    - actualTables: [a]\n", "logicTable is required"},
		{"duplicate logic table", "sharding:\n  tables:\n    - logicTable: t\n    - logicTable: T\n", "duplicate logic table"},
		{"algorithm without column", "sharding:\n  tables:\n    - logicTable: t\n      algorithm: value % 2\n", "no shardingColumn"},
		{"unknown binding table", "sharding:\n  tables:\n    - logicTable: a\n  bindingTables:\n    - [a, b]\n", "unknown logic table"},
		{"single binding table", "sharding:\n  tables:\n    - logicTable: a\n  bindingTables:\n    - [a]\n", "at least two"},
		{"negative concurrency", "batchConcurrency: -1\n", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shardsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Sharding.Tables, 2)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
