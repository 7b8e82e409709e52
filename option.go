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

package shardsql

import (
	"fmt"
	"io"

	"github.com/rulego/shardsql/dialect"
	"github.com/rulego/shardsql/logger"
	"github.com/rulego/shardsql/rule"
	"github.com/rulego/shardsql/types"
)

// Option configures a ShardSQL.
type Option func(*ShardSQL) error

// WithLogger sets the logger parsers and routing write to.
//
// Example:
//
//	ssql, _ := shardsql.New(shardsql.WithLogger(logger.NewLogger(logger.DEBUG, os.Stderr)))
func WithLogger(log logger.Logger) Option {
	return func(s *ShardSQL) error {
		if log == nil {
			log = logger.NewDiscardLogger()
		}
		s.logger = log
		return nil
	}
}

// WithLogLevel sets the level of the current logger.
func WithLogLevel(level logger.Level) Option {
	return func(s *ShardSQL) error {
		s.logger.SetLevel(level)
		return nil
	}
}

// WithLogOutput logs to output at level.
//
// Example:
//
//	logFile, _ := os.OpenFile("shardsql.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	ssql, _ := shardsql.New(shardsql.WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(s *ShardSQL) error {
		s.logger = logger.NewLogger(level, output)
		return nil
	}
}

// WithDiscardLog disables logging.
func WithDiscardLog() Option {
	return func(s *ShardSQL) error {
		s.logger = logger.NewDiscardLogger()
		return nil
	}
}

// WithDialect selects the SQL dialect. A nil dialect means dialect.Generic.
func WithDialect(d *dialect.Dialect) Option {
	return func(s *ShardSQL) error {
		if d == nil {
			d = dialect.Generic
		}
		s.dialect = d
		return nil
	}
}

// WithDialectName selects the SQL dialect by name, e.g. "postgresql".
func WithDialectName(name string) Option {
	return func(s *ShardSQL) error {
		d, err := dialect.Lookup(name)
		if err != nil {
			return err
		}
		s.dialect = d
		return nil
	}
}

// WithShardingRule sets the sharding rule. A nil rule shards nothing.
func WithShardingRule(r *rule.ShardingRule) Option {
	return func(s *ShardSQL) error {
		if r == nil {
			r = rule.Empty()
		}
		s.rule = r
		return nil
	}
}

// WithBatchConcurrency bounds the number of statements ParseBatch parses at
// once. Zero removes the bound.
func WithBatchConcurrency(n int) Option {
	return func(s *ShardSQL) error {
		if n < 0 {
			return fmt.Errorf("batch concurrency must not be negative, got %d", n)
		}
		s.batchConcurrency = n
		return nil
	}
}

// WithConfig applies a file configuration: dialect, log level, batch
// concurrency and sharding rule.
//
// Example:
//
//	cfg, err := types.LoadConfig("shardsql.yaml")
//	if err != nil {
//		return err
//	}
//	ssql, err := shardsql.New(shardsql.WithConfig(cfg))
func WithConfig(cfg types.Config) Option {
	return func(s *ShardSQL) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		d, err := dialect.Lookup(cfg.Dialect)
		if err != nil {
			return err
		}
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		r, err := rule.New(cfg.Sharding)
		if err != nil {
			return fmt.Errorf("sharding rule: %w", err)
		}
		s.dialect = d
		s.rule = r
		s.batchConcurrency = cfg.BatchConcurrency
		s.logger.SetLevel(level)
		return nil
	}
}
