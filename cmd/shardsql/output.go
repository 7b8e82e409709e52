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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rulego/shardsql/rule"
	"github.com/rulego/shardsql/statement"
	"gopkg.in/yaml.v3"
)

type statementView struct {
	SQL             string                 `json:"sql" yaml:"sql"`
	Tables          statement.Tables       `json:"tables" yaml:"tables"`
	Items           []itemView             `json:"items" yaml:"items"`
	GroupBy         []*statement.OrderItem `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
	OrderBy         []*statement.OrderItem `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`
	Conditions      statement.Conditions   `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Limit           *statement.Limit       `json:"limit,omitempty" yaml:"limit,omitempty"`
	Tokens          []tokenView            `json:"tokens" yaml:"tokens"`
	ParametersIndex int                    `json:"parametersIndex" yaml:"parametersIndex"`
}

type itemView struct {
	Kind       string `json:"kind" yaml:"kind"`
	Expression string `json:"expression" yaml:"expression"`
	Alias      string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

type tokenView struct {
	Kind  string             `json:"kind" yaml:"kind"`
	Token statement.SQLToken `json:"token" yaml:"token"`
}

func newStatementView(sql string, stmt *statement.SelectStatement) statementView {
	view := statementView{
		SQL:             sql,
		Tables:          stmt.Tables,
		GroupBy:         stmt.GroupByItems,
		OrderBy:         stmt.OrderByItems,
		Conditions:      stmt.Conditions,
		Limit:           stmt.Limit,
		ParametersIndex: stmt.ParametersIndex,
	}
	for _, each := range stmt.Items {
		alias, _ := each.GetAlias()
		view.Items = append(view.Items, itemView{Kind: itemKind(each), Expression: each.GetExpression(), Alias: alias})
	}
	for _, each := range stmt.Tokens {
		view.Tokens = append(view.Tokens, tokenView{Kind: statement.TokenKind(each), Token: each})
	}
	return view
}

func itemKind(item statement.SelectItem) string {
	switch item.(type) {
	case *statement.StarSelectItem:
		return "star"
	case *statement.AggregationSelectItem:
		return "aggregation"
	}
	return "common"
}

type rulesView struct {
	Tables        []tableRuleView `json:"tables" yaml:"tables"`
	BindingTables [][]string      `json:"bindingTables,omitempty" yaml:"bindingTables,omitempty"`
}

type tableRuleView struct {
	LogicTable     string   `json:"logicTable" yaml:"logicTable"`
	ActualTables   []string `json:"actualTables" yaml:"actualTables"`
	ShardingColumn string   `json:"shardingColumn,omitempty" yaml:"shardingColumn,omitempty"`
	Algorithm      string   `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
}

func newRulesView(r *rule.ShardingRule) rulesView {
	view := rulesView{Tables: []tableRuleView{}}
	for _, each := range r.TableRules() {
		view.Tables = append(view.Tables, tableRuleView{
			LogicTable:     each.LogicTable,
			ActualTables:   each.ActualTables,
			ShardingColumn: each.ShardingColumn,
			Algorithm:      each.Algorithm,
		})
	}
	for _, binding := range r.BindingTableRules() {
		var group []string
		for _, each := range binding.TableRules {
			group = append(group, each.LogicTable)
		}
		view.BindingTables = append(view.BindingTables, group)
	}
	return view
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

func printStatementText(w io.Writer, view statementView) {
	fmt.Fprintf(w, "sql: %s\n", view.SQL)
	fmt.Fprintf(w, "tables: %s\n", strings.Join(view.Tables.Names(), ", "))
	for _, each := range view.Items {
		if each.Alias != "" {
			fmt.Fprintf(w, "item: %s %s AS %s\n", each.Kind, each.Expression, each.Alias)
		} else {
			fmt.Fprintf(w, "item: %s %s\n", each.Kind, each.Expression)
		}
	}
	for _, each := range view.Conditions {
		fmt.Fprintf(w, "condition: %s.%s %s %d value(s)\n", each.Column.Table, each.Column.Name, each.Operator, len(each.Values))
	}
	for _, each := range view.Tokens {
		fmt.Fprintf(w, "token: %s at %d\n", each.Kind, each.Token.GetBeginPosition())
	}
	fmt.Fprintln(w)
}

func printRulesText(w io.Writer, view rulesView) {
	for _, each := range view.Tables {
		fmt.Fprintf(w, "%s -> %s", each.LogicTable, strings.Join(each.ActualTables, ", "))
		if each.ShardingColumn != "" {
			fmt.Fprintf(w, " by %s", each.ShardingColumn)
		}
		if each.Algorithm != "" {
			fmt.Fprintf(w, " using %s", each.Algorithm)
		}
		fmt.Fprintln(w)
	}
	for _, group := range view.BindingTables {
		fmt.Fprintf(w, "binding: %s\n", strings.Join(group, ", "))
	}
}

// formatTables renders a logic-to-actual mapping in a stable order.
func formatTables(tables map[string]string) string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+" -> "+tables[name])
	}
	return strings.Join(pairs, ", ")
}
