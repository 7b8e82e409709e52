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
	"context"
	"fmt"

	"github.com/rulego/shardsql/dialect"
	"github.com/rulego/shardsql/logger"
	"github.com/rulego/shardsql/parser"
	"github.com/rulego/shardsql/rule"
	"github.com/rulego/shardsql/statement"
	"github.com/rulego/shardsql/types"
	"golang.org/x/sync/errgroup"
)

// ShardSQL parses SELECT statements against a sharding rule and routes them
// to actual tables.
//
// A ShardSQL is safe for concurrent use once New returns. Every call parses
// with a fresh parser; the dialect and the rule are shared read-only.
//
// Usage:
//
//	cfg, _ := types.LoadConfig("shardsql.yaml")
//	ssql, err := shardsql.New(shardsql.WithConfig(cfg))
//	units, err := ssql.Route("SELECT AVG(amount) FROM t_order WHERE user_id = ?", 7)
type ShardSQL struct {
	dialect *dialect.Dialect
	rule    *rule.ShardingRule
	logger  logger.Logger

	// batchConcurrency bounds ParseBatch; zero means unbounded.
	batchConcurrency int
}

// New creates a ShardSQL. Without options it uses the MySQL dialect, the
// global default logger and a rule that shards nothing.
//
// Example:
//
//	// explicit dialect and rule
//	r, _ := rule.New(cfg.Sharding)
//	ssql, err := shardsql.New(
//		shardsql.WithDialect(dialect.PostgreSQL),
//		shardsql.WithShardingRule(r),
//		shardsql.WithDiscardLog(),
//	)
func New(options ...Option) (*ShardSQL, error) {
	defaults := types.NewConfig()
	d, err := dialect.Lookup(defaults.Dialect)
	if err != nil {
		return nil, err
	}
	s := &ShardSQL{
		dialect:          d,
		rule:             rule.Empty(),
		logger:           logger.GetDefault(),
		batchConcurrency: defaults.BatchConcurrency,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dialect returns the dialect statements are parsed with.
func (s *ShardSQL) Dialect() *dialect.Dialect {
	return s.dialect
}

// Rule returns the sharding rule.
func (s *ShardSQL) Rule() *rule.ShardingRule {
	return s.rule
}

// Parse parses one SELECT statement. The returned statement has its
// sub-queries merged, derived columns appended and tokens sorted.
//
// Errors are *rsql.ParseError values wrapped with context; test them with
// errors.Is(err, rsql.ErrSyntax) or rsql.IsUnsupported(err).
func (s *ShardSQL) Parse(sql string) (*statement.SelectStatement, error) {
	stmt, err := parser.NewSelectParser(sql, s.dialect, s.rule, s.logger).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse select: %w", err)
	}
	return stmt, nil
}

// ParseBatch parses sqls concurrently, at most BatchConcurrency at a time.
// Results keep the order of sqls. The first failure cancels the statements
// not yet started and is returned.
func (s *ShardSQL) ParseBatch(ctx context.Context, sqls []string) ([]*statement.SelectStatement, error) {
	results := make([]*statement.SelectStatement, len(sqls))
	g, ctx := errgroup.WithContext(ctx)
	if s.batchConcurrency > 0 {
		g.SetLimit(s.batchConcurrency)
	}
	for i, sql := range sqls {
		i, sql := i, sql
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stmt, err := s.Parse(sql)
			if err != nil {
				return fmt.Errorf("statement %d: %w", i, err)
			}
			results[i] = stmt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Info("parsed %d statements", len(sqls))
	return results, nil
}
