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
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [sql...]",
		Short: "Parse SELECT statements and print the statement model",
		Long:  "Parse each argument as one SELECT statement, or a single statement read from stdin.",
		Example: `  shardsql parse -c shardsql.yaml "SELECT AVG(amount) FROM t_order GROUP BY user_id"
  echo "SELECT * FROM t_order" | shardsql parse -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqls, err := statements(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			stmts, err := a.engine.ParseBatch(cmd.Context(), sqls)
			if err != nil {
				return err
			}
			views := make([]statementView, 0, len(stmts))
			for i, stmt := range stmts {
				views = append(views, newStatementView(sqls[i], stmt))
			}
			if a.output == "text" {
				for _, view := range views {
					printStatementText(cmd.OutOrStdout(), view)
				}
				return nil
			}
			return writeOutput(cmd.OutOrStdout(), a.output, views)
		},
	}
}

func newRouteCmd(a *app) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "route <sql>",
		Short: "Route a SELECT statement to its actual tables",
		Example: `  shardsql route -c shardsql.yaml "SELECT * FROM t_order WHERE user_id = ?" -p 7
  shardsql route -c shardsql.yaml -o yaml "SELECT * FROM t_order LIMIT 10, 5"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sqls, err := statements(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			units, err := a.engine.Route(sqls[0], parseParams(params)...)
			if err != nil {
				return err
			}
			if a.output == "text" {
				for _, unit := range units {
					fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n%s\n", formatTables(unit.Tables), unit.SQL)
					if len(unit.Parameters) > 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "-- parameters: %v\n", unit.Parameters)
					}
				}
				return nil
			}
			return writeOutput(cmd.OutOrStdout(), a.output, units)
		},
	}
	cmd.Flags().StringSliceVarP(&params, "param", "p", nil, "Bind parameter values in placeholder order")
	return cmd
}

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the configured table rules and binding groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := newRulesView(a.engine.Rule())
			if a.output == "text" {
				printRulesText(cmd.OutOrStdout(), view)
				return nil
			}
			return writeOutput(cmd.OutOrStdout(), a.output, view)
		},
	}
}

// parseParams converts flag values to numbers where they parse as one, so
// numeric sharding algorithms see numbers. Zero-padded values such as "007"
// stay strings.
func parseParams(values []string) []any {
	if len(values) == 0 {
		return nil
	}
	result := make([]any, 0, len(values))
	for _, each := range values {
		result = append(result, paramValue(each))
	}
	return result
}

func paramValue(s string) any {
	if len(s) > 1 && strings.HasPrefix(s, "0") && !strings.ContainsAny(s, ".eExX") {
		return s
	}
	if n, err := cast.ToInt64E(s); err == nil {
		return n
	}
	if f, err := cast.ToFloat64E(s); err == nil {
		return f
	}
	return s
}
