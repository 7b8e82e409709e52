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

package statement

import "strings"

// Table is a sharded logic table referenced by the statement.
type Table struct {
	Name  string `json:"name" yaml:"name"`
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

func (t Table) GetAlias() (string, bool) {
	return t.Alias, t.Alias != ""
}

// Tables is an insertion-ordered set of tables.
type Tables []Table

// Add appends table unless an entry with the same name and alias exists.
func (ts *Tables) Add(table Table) {
	for _, each := range *ts {
		if strings.EqualFold(each.Name, table.Name) && strings.EqualFold(each.Alias, table.Alias) {
			return
		}
	}
	*ts = append(*ts, table)
}

// IsEmpty reports whether no sharded table was found.
func (ts Tables) IsEmpty() bool {
	return len(ts) == 0
}

// Names returns the distinct table names in insertion order.
func (ts Tables) Names() []string {
	result := make([]string, 0, len(ts))
	seen := make(map[string]struct{}, len(ts))
	for _, each := range ts {
		key := strings.ToLower(each.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, each.Name)
	}
	return result
}

// Find resolves a qualifier to a table, by alias first and then by name.
func (ts Tables) Find(nameOrAlias string) (Table, bool) {
	for _, each := range ts {
		if each.Alias != "" && strings.EqualFold(each.Alias, nameOrAlias) {
			return each, true
		}
	}
	for _, each := range ts {
		if strings.EqualFold(each.Name, nameOrAlias) {
			return each, true
		}
	}
	return Table{}, false
}

// FindByName looks a table up by its logic name only.
func (ts Tables) FindByName(name string) (Table, bool) {
	for _, each := range ts {
		if strings.EqualFold(each.Name, name) {
			return each, true
		}
	}
	return Table{}, false
}
