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

package parser

import (
	"strings"

	"github.com/rulego/shardsql/rsql"
	"github.com/rulego/shardsql/statement"
	"github.com/spf13/cast"
)

// sqlExpression is the shape of one parsed expression. Only the shapes the
// sharding logic cares about are distinguished; anything else is ignoreExpr.
type sqlExpression interface {
	sqlExpression()
}

type identifierExpr struct {
	name string
}

type propertyExpr struct {
	owner string
	name  string
}

type numberExpr struct {
	value any
}

type textExpr struct {
	value string
}

type placeholderExpr struct {
	index int
}

// ignoreExpr keeps the raw source of an expression with no useful shape.
type ignoreExpr struct {
	text string
}

func (identifierExpr) sqlExpression()  {}
func (propertyExpr) sqlExpression()    {}
func (numberExpr) sqlExpression()      {}
func (textExpr) sqlExpression()        {}
func (placeholderExpr) sqlExpression() {}
func (ignoreExpr) sqlExpression()      {}

// compositeOperators continue an expression past its first operand.
var compositeOperators = []rsql.TokenType{
	rsql.TokenPlus, rsql.TokenMinus, rsql.TokenAsterisk, rsql.TokenSlash, rsql.TokenPercent,
	rsql.TokenAmp, rsql.TokenBar, rsql.TokenDoubleAmp, rsql.TokenDoubleBar, rsql.TokenCaret,
}

var comparisonOperators = []rsql.TokenType{
	rsql.TokenEQ, rsql.TokenNE, rsql.TokenGT, rsql.TokenLT, rsql.TokenGE, rsql.TokenLE, rsql.TokenSafeEQ,
}

// parseExpression parses one operand expression as used by WHERE, ON,
// GROUP BY and ORDER BY.
func (p *SelectParser) parseExpression(stmt *statement.SelectStatement) (sqlExpression, error) {
	begin := p.current()
	switch {
	case begin.Type == rsql.TokenEOF:
		return nil, p.unexpected("expression")
	case begin.Type == rsql.TokenLParen:
		if _, _, err := p.skipParentheses(stmt); err != nil {
			return nil, err
		}
		return p.ignoreRest(stmt, begin)
	case begin.Is("CASE"):
		if err := p.skipCase(stmt); err != nil {
			return nil, err
		}
		return p.ignoreRest(stmt, begin)
	case (begin.Type == rsql.TokenMinus || begin.Type == rsql.TokenPlus) && p.peek().Type == rsql.TokenNumber:
		p.next()
		number := p.current()
		p.next()
		value, err := p.numberValue(number)
		if err != nil {
			return nil, err
		}
		if begin.Type == rsql.TokenMinus {
			value = negate(value)
		}
		return p.shapeOrIgnore(stmt, begin, numberExpr{value: value})
	case begin.Type == rsql.TokenMinus || begin.Type == rsql.TokenPlus || begin.Type == rsql.TokenTilde:
		p.next()
		if _, err := p.parseExpression(stmt); err != nil {
			return nil, err
		}
		return ignoreExpr{text: p.text(begin)}, nil
	}

	expression, err := p.primary(begin)
	if err != nil {
		return nil, err
	}
	p.next()

	switch p.current().Type {
	case rsql.TokenDot:
		p.next()
		name := p.current()
		if name.Type == rsql.TokenEOF || (name.Type.IsSymbol() && name.Type != rsql.TokenAsterisk) {
			return nil, p.unexpected("column")
		}
		p.next()
		p.markOwner(stmt, begin)
		return p.shapeOrIgnore(stmt, begin, propertyExpr{owner: begin.Value, name: name.Value})
	case rsql.TokenLParen:
		if _, _, err := p.skipParentheses(stmt); err != nil {
			return nil, err
		}
		return p.ignoreRest(stmt, begin)
	}
	return p.shapeOrIgnore(stmt, begin, expression)
}

// primary classifies the first token of an expression without consuming it.
func (p *SelectParser) primary(tok rsql.Token) (sqlExpression, error) {
	switch tok.Type {
	case rsql.TokenQuestion:
		return placeholderExpr{index: p.parametersIndex}, nil
	case rsql.TokenString:
		return textExpr{value: unquote(tok.Value)}, nil
	case rsql.TokenNumber:
		value, err := p.numberValue(tok)
		if err != nil {
			return nil, err
		}
		return numberExpr{value: value}, nil
	case rsql.TokenIdent:
		return identifierExpr{name: tok.Value}, nil
	}
	if tok.Type.IsSymbol() {
		return nil, p.unexpected("expression")
	}
	return ignoreExpr{text: tok.Value}, nil
}

// shapeOrIgnore returns shape unless an operator chain follows, in which
// case the whole chain is an ignoreExpr.
func (p *SelectParser) shapeOrIgnore(stmt *statement.SelectStatement, begin rsql.Token, shape sqlExpression) (sqlExpression, error) {
	if !p.equalAny(compositeOperators...) {
		return shape, nil
	}
	return p.ignoreRest(stmt, begin)
}

func (p *SelectParser) ignoreRest(stmt *statement.SelectStatement, begin rsql.Token) (sqlExpression, error) {
	for p.skipIfEqual(compositeOperators...) {
		if _, err := p.parseOperand(stmt); err != nil {
			return nil, err
		}
	}
	return ignoreExpr{text: p.text(begin)}, nil
}

func (p *SelectParser) numberValue(tok rsql.Token) (any, error) {
	literal := tok.Value
	lower := strings.ToLower(literal)
	var (
		value any
		err   error
	)
	switch {
	case strings.HasPrefix(lower, "0x"):
		value, err = cast.ToInt64E(literal)
	case strings.ContainsAny(lower, ".e"):
		value, err = cast.ToFloat64E(literal)
	default:
		trimmed := strings.TrimLeft(literal, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		value, err = cast.ToInt64E(trimmed)
	}
	if err != nil {
		return nil, rsql.CreateSyntaxError(p.input, "Invalid number literal", tok.Pos, literal, nil)
	}
	return value, nil
}

func negate(value any) any {
	switch v := value.(type) {
	case int64:
		return -v
	case float64:
		return -v
	}
	return value
}

// unquote strips the quotes of a string literal and collapses doubled quotes.
func unquote(literal string) string {
	if len(literal) < 2 {
		return literal
	}
	quote := literal[:1]
	return strings.ReplaceAll(literal[1:len(literal)-1], quote+quote, quote)
}

// parseWhere parses the WHERE clause. Top-level AND-connected equality and
// IN predicates on sharding columns become conditions; a top-level OR
// drops them so the statement is routed to every table.
func (p *SelectParser) parseWhere(stmt *statement.SelectStatement) error {
	if !p.skipIfEqual(rsql.TokenWHERE) {
		return nil
	}
	var conditions statement.Conditions
	hasOr := false
	for {
		if err := p.parsePredicate(stmt, &conditions); err != nil {
			return err
		}
		if p.skipIfEqual(rsql.TokenAND) {
			continue
		}
		if p.skipIfEqual(rsql.TokenOR) {
			hasOr = true
			continue
		}
		break
	}
	if hasOr {
		p.logger.Debug("OR in WHERE, %d sharding conditions dropped", len(conditions))
		conditions = nil
	}
	for _, each := range conditions {
		stmt.Conditions.Add(each)
	}
	stmt.ParametersIndex = p.parametersIndex
	return nil
}

// parsePredicate parses one predicate. conditions is nil when the predicate
// cannot narrow the route.
func (p *SelectParser) parsePredicate(stmt *statement.SelectStatement, conditions *statement.Conditions) error {
	if p.skipIfEqual(rsql.TokenNOT) {
		return p.parsePredicate(stmt, nil)
	}
	if p.skipIfEqual(rsql.TokenEXISTS) {
		_, _, err := p.skipParentheses(stmt)
		return err
	}
	left, err := p.parseExpression(stmt)
	if err != nil {
		return err
	}
	switch {
	case p.skipIfEqual(rsql.TokenEQ):
		right, err := p.parseExpression(stmt)
		if err != nil {
			return err
		}
		p.addCondition(stmt, conditions, left, statement.OperatorEqual, right)
	case p.skipIfEqual(comparisonOperators...):
		_, err = p.parseExpression(stmt)
	case p.skipIfEqual(rsql.TokenIN):
		err = p.parseIn(stmt, conditions, left)
	case p.skipIfEqual(rsql.TokenNOT):
		err = p.parseNegated(stmt)
	case p.skipIfEqual(rsql.TokenBETWEEN):
		err = p.parseBetween(stmt)
	case p.skipIfEqual(rsql.TokenLIKE):
		err = p.parseLike(stmt)
	case p.skipIfEqual(rsql.TokenIS):
		p.skipIfEqual(rsql.TokenNOT)
		if p.current().Type == rsql.TokenEOF || p.current().Type.IsSymbol() {
			return p.unexpected(rsql.TokenNULL.String())
		}
		p.next()
	}
	return err
}

func (p *SelectParser) parseNegated(stmt *statement.SelectStatement) error {
	switch {
	case p.skipIfEqual(rsql.TokenIN):
		return p.parseIn(stmt, nil, nil)
	case p.skipIfEqual(rsql.TokenBETWEEN):
		return p.parseBetween(stmt)
	case p.skipIfEqual(rsql.TokenLIKE):
		return p.parseLike(stmt)
	}
	return p.unexpected(rsql.TokenIN.String(), rsql.TokenBETWEEN.String(), rsql.TokenLIKE.String())
}

func (p *SelectParser) parseBetween(stmt *statement.SelectStatement) error {
	if _, err := p.parseExpression(stmt); err != nil {
		return err
	}
	if err := p.accept(rsql.TokenAND); err != nil {
		return err
	}
	_, err := p.parseExpression(stmt)
	return err
}

func (p *SelectParser) parseLike(stmt *statement.SelectStatement) error {
	if _, err := p.parseExpression(stmt); err != nil {
		return err
	}
	if p.current().Is("ESCAPE") {
		p.next()
		_, err := p.parseExpression(stmt)
		return err
	}
	return nil
}

// parseIn parses the list after IN. A sub-query list never becomes a condition.
func (p *SelectParser) parseIn(stmt *statement.SelectStatement, conditions *statement.Conditions, left sqlExpression) error {
	if p.current().Type != rsql.TokenLParen {
		return p.unexpected("(")
	}
	if p.peek().Type == rsql.TokenSELECT {
		_, _, err := p.skipParentheses(stmt)
		return err
	}
	p.next()
	var values []sqlExpression
	for {
		value, err := p.parseExpression(stmt)
		if err != nil {
			return err
		}
		values = append(values, value)
		if !p.skipIfEqual(rsql.TokenComma) {
			break
		}
	}
	if err := p.accept(rsql.TokenRParen); err != nil {
		return err
	}
	p.addCondition(stmt, conditions, left, statement.OperatorIn, values...)
	return nil
}

func (p *SelectParser) addCondition(stmt *statement.SelectStatement, conditions *statement.Conditions,
	left sqlExpression, operator statement.ShardingOperator, right ...sqlExpression) {
	if conditions == nil {
		return
	}
	column, ok := p.shardingColumn(stmt, left)
	if !ok {
		return
	}
	values := make([]statement.ConditionValue, 0, len(right))
	for _, each := range right {
		switch v := each.(type) {
		case numberExpr:
			values = append(values, statement.ConditionValue{Literal: v.value})
		case textExpr:
			values = append(values, statement.ConditionValue{Literal: v.value})
		case placeholderExpr:
			values = append(values, statement.ConditionValue{IsParam: true, ParamIndex: v.index})
		default:
			return
		}
	}
	p.logger.Debug("sharding condition %s.%s %s %d value(s)", column.Table, column.Name, operator, len(values))
	conditions.Add(&statement.Condition{Column: column, Operator: operator, Values: values})
}

// shardingColumn resolves a column expression to a sharding column of one
// of the statement's tables.
func (p *SelectParser) shardingColumn(stmt *statement.SelectStatement, expression sqlExpression) (statement.Column, bool) {
	var table, name string
	switch v := expression.(type) {
	case propertyExpr:
		found, ok := stmt.Tables.Find(rsql.ExactlyValue(v.owner))
		if !ok {
			return statement.Column{}, false
		}
		table, name = found.Name, rsql.ExactlyValue(v.name)
	case identifierExpr:
		name = rsql.ExactlyValue(v.name)
		names := stmt.Tables.Names()
		if len(names) == 1 {
			table = names[0]
			break
		}
		// an unqualified column over several tables must be unambiguous
		candidates := 0
		for _, each := range names {
			if p.rule.IsShardingColumn(each, name) {
				table = each
				candidates++
			}
		}
		if candidates != 1 {
			return statement.Column{}, false
		}
	default:
		return statement.Column{}, false
	}
	if !p.rule.IsShardingColumn(table, name) {
		return statement.Column{}, false
	}
	return statement.Column{Table: table, Name: name}, true
}
