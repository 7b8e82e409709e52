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

import (
	"strconv"
	"strings"
)

// OrderDirection is ASC or DESC.
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// OrderItem is one GROUP BY or ORDER BY entry. It is either positional
// (Index >= 1, a 1-based ordinal into the projection) or name-based
// (Owner is the optional table or alias qualifier of Name).
type OrderItem struct {
	Index     int            `json:"index,omitempty" yaml:"index,omitempty"`
	Owner     string         `json:"owner,omitempty" yaml:"owner,omitempty"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Direction OrderDirection `json:"direction" yaml:"direction"`
	NullOrder OrderDirection `json:"nullOrder" yaml:"nullOrder"`
	Alias     string         `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// NewIndexOrderItem returns a positional item.
func NewIndexOrderItem(index int, direction, nullOrder OrderDirection) *OrderItem {
	return &OrderItem{Index: index, Direction: direction, NullOrder: nullOrder}
}

// NewNameOrderItem returns a name-based item; owner may be empty.
func NewNameOrderItem(owner, name string, direction, nullOrder OrderDirection, alias string) *OrderItem {
	return &OrderItem{Owner: owner, Name: name, Direction: direction, NullOrder: nullOrder, Alias: alias}
}

// IsPositional reports whether the item refers to the projection by ordinal.
func (o *OrderItem) IsPositional() bool {
	return o.Index > 0
}

func (o *OrderItem) GetAlias() (string, bool) {
	return o.Alias, o.Alias != ""
}

// GetQualifiedName returns owner.name, or name when there is no owner.
// Positional items have no qualified name.
func (o *OrderItem) GetQualifiedName() (string, bool) {
	if o.IsPositional() || o.Name == "" {
		return "", false
	}
	if o.Owner == "" {
		return o.Name, true
	}
	return o.Owner + "." + o.Name, true
}

// ColumnLabel is how the item is referenced in a synthesized ORDER BY:
// the ordinal, else the alias, else the qualified name.
func (o *OrderItem) ColumnLabel() string {
	if o.IsPositional() {
		return strconv.Itoa(o.Index)
	}
	if o.Alias != "" {
		return o.Alias
	}
	name, _ := o.GetQualifiedName()
	return name
}

// Clone returns a copy that can be mutated independently.
func (o *OrderItem) Clone() *OrderItem {
	c := *o
	return &c
}

// Equal compares two items ignoring the case of names.
func (o *OrderItem) Equal(other *OrderItem) bool {
	if other == nil {
		return false
	}
	if o.IsPositional() || other.IsPositional() {
		return o.Index == other.Index && o.Direction == other.Direction
	}
	left, _ := o.GetQualifiedName()
	right, _ := other.GetQualifiedName()
	return strings.EqualFold(left, right) && o.Direction == other.Direction
}
