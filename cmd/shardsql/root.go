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
	"io"
	"os"
	"strings"

	"github.com/rulego/shardsql"
	"github.com/rulego/shardsql/logger"
	"github.com/rulego/shardsql/types"
	"github.com/spf13/cobra"
)

var version = "dev"

// app holds the flags shared by every command and the engine built from them.
type app struct {
	configPath string
	dialect    string
	logLevel   string
	output     string

	engine *shardsql.ShardSQL
}

func execute(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "shardsql",
		Short:         "Parse and route SELECT statements over sharded tables",
		Long:          "shardsql parses SELECT statements, finds the sharded logic tables they read and rewrites them for the actual tables.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&a.dialect, "dialect", "d", "", "SQL dialect (mysql, postgresql, oracle, sqlserver, generic)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "Output format (text, json, yaml)")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newRouteCmd(a))
	rootCmd.AddCommand(newRulesCmd(a))
	return rootCmd
}

// init loads the configuration, applies flag overrides and builds the engine.
// Flags win over the configuration file.
func (a *app) init(cmd *cobra.Command) error {
	switch a.output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	cfg := types.NewConfig()
	if a.configPath != "" {
		loaded, err := types.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("dialect") {
		cfg.Dialect = a.dialect
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	engine, err := shardsql.New(
		shardsql.WithLogOutput(cmd.ErrOrStderr(), logger.INFO),
		shardsql.WithConfig(cfg),
	)
	if err != nil {
		return err
	}
	a.engine = engine
	return nil
}

// statements returns the SQL given as arguments, or read from in when there
// are none.
func statements(args []string, in io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if in == nil {
		in = os.Stdin
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	sql := strings.TrimSpace(string(data))
	if sql == "" {
		return nil, fmt.Errorf("no SQL given")
	}
	return []string{sql}, nil
}
