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
Package types holds the configuration shared by the shardsql packages.

A configuration file is YAML:

	dialect: mysql
	logLevel: debug
	sharding:
	  tables:
	    - logicTable: t_order
	      actualTables: ["t_order_${0..1}"]
	      shardingColumn: user_id
	      algorithm: '"t_order_" + string(value % 2)'
	    - logicTable: t_order_item
	      actualTables: ["t_order_item_${0..1}"]
	      shardingColumn: user_id
	      algorithm: value % 2
	  bindingTables:
	    - [t_order, t_order_item]

Unknown keys are rejected so that typos surface at load time.
*/
package types
