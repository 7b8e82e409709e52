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
Package parser turns a SELECT statement into a statement.SelectStatement
ready for sharded execution.

Parsing walks the clauses in grammar order: the DISTINCT guard, the select
list, FROM with joins and derived tables, WHERE, GROUP BY, the HAVING guard,
ORDER BY, LIMIT and the set-operator guard. Along the way every reference to
a sharded logic table gets a statement.TableToken at its source offset, and
top-level equality or IN predicates on sharding columns are kept as
conditions for routing.

After parsing, derived tables are merged into the outer statement and the
projection is extended so that results from several shards can be merged:

	SELECT AVG(score) FROM t GROUP BY dept

yields one ItemsToken with the fragments

	COUNT(score) AS AVG_DERIVED_COUNT_0
	SUM(score) AS AVG_DERIVED_SUM_0
	dept AS GROUP_BY_DERIVED_0

and an OrderByToken that orders by the GROUP BY columns. Recognized SQL that
cannot be executed across shards, such as DISTINCT, HAVING or UNION, fails
with an error matching rsql.ErrUnsupported.
*/
package parser
