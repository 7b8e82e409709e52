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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration.
type Config struct {
	// Dialect selects the SQL dialect: mysql, postgresql, oracle, sqlserver or generic.
	Dialect string `json:"dialect" yaml:"dialect"`
	// LogLevel is one of debug, info, warn, error, off.
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	// BatchConcurrency bounds the number of statements parsed at once by ParseBatch.
	BatchConcurrency int            `json:"batchConcurrency" yaml:"batchConcurrency"`
	Sharding         ShardingConfig `json:"sharding" yaml:"sharding"`
}

// ShardingConfig declares the sharded logic tables.
type ShardingConfig struct {
	Tables []TableRuleConfig `json:"tables" yaml:"tables"`
	// BindingTables groups logic tables that are sharded identically and can
	// be joined shard by shard.
	BindingTables [][]string `json:"bindingTables" yaml:"bindingTables"`
}

// TableRuleConfig declares one logic table.
type TableRuleConfig struct {
	LogicTable string `json:"logicTable" yaml:"logicTable"`
	// ActualTables lists the physical tables; entries may use the inline
	// range form t_order_${0..3}.
	ActualTables   []string `json:"actualTables" yaml:"actualTables"`
	ShardingColumn string   `json:"shardingColumn" yaml:"shardingColumn"`
	// Algorithm is an expression evaluated with the sharding value bound to
	// `value` and to the column name. It yields an actual table name or index.
	Algorithm string `json:"algorithm" yaml:"algorithm"`
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	return Config{
		Dialect:          "mysql",
		LogLevel:         "info",
		BatchConcurrency: 8,
	}
}

// LoadConfig reads a YAML configuration file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML on top of the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := NewConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the sharding declarations for consistency.
func (c Config) Validate() error {
	if c.BatchConcurrency < 0 {
		return fmt.Errorf("batchConcurrency must not be negative, got %d", c.BatchConcurrency)
	}
	return c.Sharding.Validate()
}

func (s ShardingConfig) Validate() error {
	seen := make(map[string]struct{}, len(s.Tables))
	for i, table := range s.Tables {
		if strings.TrimSpace(table.LogicTable) == "" {
			return fmt.Errorf("sharding.tables[%d]: logicTable is required", i)
		}
		key := strings.ToLower(table.LogicTable)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("sharding.tables[%d]: duplicate logic table %q", i, table.LogicTable)
		}
		seen[key] = struct{}{}
		if table.Algorithm != "" && table.ShardingColumn == "" {
			return fmt.Errorf("sharding.tables[%d]: table %q has an algorithm but no shardingColumn", i, table.LogicTable)
		}
	}
	for i, group := range s.BindingTables {
		if len(group) < 2 {
			return fmt.Errorf("sharding.bindingTables[%d]: a binding group needs at least two tables", i)
		}
		for _, name := range group {
			if _, ok := seen[strings.ToLower(name)]; !ok {
				return fmt.Errorf("sharding.bindingTables[%d]: unknown logic table %q", i, name)
			}
		}
	}
	return nil
}
