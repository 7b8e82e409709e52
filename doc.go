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

/*
Package shardsql parses SELECT statements for a database sharding layer and
rewrites them for the physical tables behind each logic table.

A sharded logic table such as t_order is stored as several actual tables
(t_order_0, t_order_1, ...). shardsql finds the logic tables a query reads,
the sharding conditions in its WHERE clause, and the extra projection columns
a merge of per-shard results needs. It then produces one SQL text per target
table. The original text is patched at recorded offsets rather than
regenerated, so comments, hints and formatting survive.

# Features

• SELECT parsing for MySQL, PostgreSQL, Oracle, SQL Server and a generic dialect
• AVG split into SUM and COUNT columns for cross-shard merging
• Missing GROUP BY / ORDER BY columns appended as derived columns
• ORDER BY synthesized from GROUP BY
• Routing by sharding-column conditions with expression-based algorithms
• Binding tables joined shard by shard
• LIMIT widened for multi-shard pagination

# Getting Started

	cfg, err := types.ParseConfig([]byte(`
	dialect: mysql
	sharding:
	  tables:
	    - logicTable: t_order
	      actualTables: ["t_order_${0..1}"]
	      shardingColumn: user_id
	      algorithm: value % 2
	`))
	if err != nil {
		panic(err)
	}
	ssql, err := shardsql.New(shardsql.WithConfig(cfg))
	if err != nil {
		panic(err)
	}

	units, err := ssql.Route("SELECT AVG(amount) FROM t_order WHERE user_id = ?", 7)
	if err != nil {
		panic(err)
	}
	for _, unit := range units {
		fmt.Println(unit.SQL, unit.Parameters)
	}
	// SELECT AVG(amount) , COUNT(amount) AS AVG_DERIVED_COUNT_0 , SUM(amount) AS AVG_DERIVED_SUM_0 FROM t_order_1 WHERE user_id = ? [7]

# Parsing only

Parse returns the statement model without routing it:

	stmt, err := ssql.Parse("SELECT user_id, COUNT(*) FROM t_order GROUP BY user_id")
	// stmt.Tables, stmt.Items, stmt.GroupByItems, stmt.Conditions, stmt.Tokens

ParseBatch parses many statements concurrently:

	stmts, err := ssql.ParseBatch(ctx, sqls)

# Errors

Malformed SQL and SQL outside the supported subset are both errors:

	_, err := ssql.Parse("SELECT DISTINCT a FROM t_order")
	if rsql.IsUnsupported(err) {
		// DISTINCT, HAVING, UNION, INTO, schema.table, ...
	}
	if errors.Is(err, rsql.ErrSyntax) {
		// malformed input
	}

# Logging

Parsers log every decision at DEBUG:

	ssql, _ := shardsql.New(shardsql.WithLogOutput(os.Stderr, logger.DEBUG))
*/
package shardsql
