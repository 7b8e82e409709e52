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

	"github.com/rulego/shardsql/dialect"
	"github.com/rulego/shardsql/logger"
	"github.com/rulego/shardsql/rsql"
	"github.com/rulego/shardsql/rule"
	"github.com/rulego/shardsql/statement"
)

// SelectParser parses one SELECT statement. It keeps per-parse state and
// must not be reused or shared between goroutines; the dialect and sharding
// rule it reads may be shared.
type SelectParser struct {
	input   string
	dialect *dialect.Dialect
	rule    *rule.ShardingRule
	logger  logger.Logger

	tokens []rsql.Token
	pos    int
	// last is the most recently consumed token.
	last rsql.Token
	// parametersIndex counts the `?` placeholders consumed so far.
	parametersIndex int
	marked          map[int]struct{}
}

// NewSelectParser creates a parser for sql. A nil dialect means
// dialect.Generic, a nil rule shards nothing and a nil logger uses the
// global default.
func NewSelectParser(sql string, d *dialect.Dialect, r *rule.ShardingRule, log logger.Logger) *SelectParser {
	if d == nil {
		d = dialect.Generic
	}
	if r == nil {
		r = rule.Empty()
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &SelectParser{
		input:   sql,
		dialect: d,
		rule:    r,
		logger:  log,
		marked:  make(map[int]struct{}),
	}
}

// Parse parses sql with a fresh SelectParser.
func Parse(sql string, d *dialect.Dialect, r *rule.ShardingRule) (*statement.SelectStatement, error) {
	return NewSelectParser(sql, d, r, nil).Parse()
}

// Parse returns the statement with sub-queries merged, derived columns
// appended and rewrite tokens sorted by position.
func (p *SelectParser) Parse() (*statement.SelectStatement, error) {
	if err := p.tokenize(); err != nil {
		return nil, err
	}
	p.logger.Debug("parse select, dialect=%s, tokens=%d", p.dialect, len(p.tokens))

	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}

	// only locking clauses and semicolons may follow the statement
	if err := p.parseTrailing(); err != nil {
		return nil, err
	}

	if stmt.ContainsSubQuery() {
		p.logger.Debug("merge sub query into outer statement")
		stmt.MergeSubQuery()
	}
	appendDerivedColumns(stmt)
	appendDerivedOrderBy(stmt)
	stmt.SortTokens()
	p.logger.Debug("parsed select: items=%d tables=%v tokens=%d conditions=%d",
		len(stmt.Items), stmt.Tables.Names(), len(stmt.Tokens), len(stmt.Conditions))
	return stmt, nil
}

func (p *SelectParser) tokenize() error {
	lexer := rsql.NewLexer(p.input)
	for {
		tok := lexer.NextToken()
		if err := lexer.Err(); err != nil {
			return err
		}
		p.tokens = append(p.tokens, tok)
		if tok.Type == rsql.TokenEOF {
			return nil
		}
	}
}

// parseSelect parses one SELECT at the current position, without merging
// or deriving columns. Sub-queries in FROM recurse into it.
func (p *SelectParser) parseSelect() (*statement.SelectStatement, error) {
	stmt := statement.NewSelectStatement()

	if err := p.accept(rsql.TokenSELECT); err != nil {
		return nil, err
	}

	// DISTINCT and its synonyms
	if err := p.parseDistinct(); err != nil {
		return nil, err
	}

	if err := p.parseSelectList(stmt); err != nil {
		return nil, err
	}

	// FROM and joins, including derived tables
	if err := p.parseFrom(stmt); err != nil {
		return nil, err
	}
	p.unmarkAliasedOwners(stmt)

	if err := p.parseWhere(stmt); err != nil {
		return nil, err
	}

	if err := p.parseGroupBy(stmt); err != nil {
		return nil, err
	}

	if err := p.parseHaving(); err != nil {
		return nil, err
	}

	if err := p.parseOrderBy(stmt); err != nil {
		return nil, err
	}

	if err := p.parseLimit(stmt); err != nil {
		return nil, err
	}

	// set operators and dialect extras
	if err := p.parseRest(); err != nil {
		return nil, err
	}

	stmt.ParametersIndex = p.parametersIndex
	return stmt, nil
}

func (p *SelectParser) current() rsql.Token {
	return p.tokens[p.pos]
}

func (p *SelectParser) peek() rsql.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

// next consumes the current token. EOF is never consumed.
func (p *SelectParser) next() {
	tok := p.current()
	if tok.Type == rsql.TokenEOF {
		return
	}
	if tok.Type == rsql.TokenQuestion {
		p.parametersIndex++
	}
	p.last = tok
	p.pos++
}

func (p *SelectParser) equalAny(types ...rsql.TokenType) bool {
	typ := p.current().Type
	for _, each := range types {
		if typ == each {
			return true
		}
	}
	return false
}

func (p *SelectParser) skipIfEqual(types ...rsql.TokenType) bool {
	if p.equalAny(types...) {
		p.next()
		return true
	}
	return false
}

func (p *SelectParser) skipAll(types ...rsql.TokenType) {
	for p.skipIfEqual(types...) {
	}
}

func (p *SelectParser) accept(typ rsql.TokenType) error {
	if p.skipIfEqual(typ) {
		return nil
	}
	return p.unexpected(typ.String())
}

func (p *SelectParser) unexpected(expected ...string) error {
	tok := p.current()
	if tok.Type == rsql.TokenEOF {
		want := "token"
		if len(expected) > 0 {
			want = expected[0]
		}
		return rsql.CreateMissingTokenError(p.input, want, tok.Pos)
	}
	return rsql.CreateUnexpectedTokenError(p.input, tok.Value, expected, tok.Pos)
}

func (p *SelectParser) unsupported(tok rsql.Token) error {
	feature := tok.Value
	if tok.Type == rsql.TokenEOF {
		feature = tok.Type.String()
	}
	p.logger.Debug("unsupported %q at %d", feature, tok.Pos)
	return rsql.CreateUnsupportedError(p.input, feature, tok.Pos)
}

// text returns the source between the start of begin and the end of the
// last consumed token.
func (p *SelectParser) text(begin rsql.Token) string {
	if p.last.End() <= begin.Pos {
		return ""
	}
	return p.input[begin.Pos:p.last.End()]
}

// markOwner records a table token for an `owner.` qualifier naming a
// sharded logic table. An owner that is the alias of another table is left
// alone; select-list owners are checked again by unmarkAliasedOwners once
// FROM has registered the aliases.
func (p *SelectParser) markOwner(stmt *statement.SelectStatement, owner rsql.Token) {
	name := rsql.ExactlyValue(owner.Value)
	if !p.rule.IsSharded(name) {
		return
	}
	if table, ok := stmt.Tables.Find(name); ok && !strings.EqualFold(table.Name, name) {
		return
	}
	if _, ok := p.marked[owner.Pos]; ok {
		return
	}
	p.marked[owner.Pos] = struct{}{}
	stmt.AddToken(&statement.TableToken{BeginPosition: owner.Pos, OriginalLiterals: owner.Value})
}

// unmarkAliasedOwners drops select-list table tokens whose owner turned out
// to be the alias of a different table.
func (p *SelectParser) unmarkAliasedOwners(stmt *statement.SelectStatement) {
	tokens := stmt.Tokens[:0]
	for _, each := range stmt.Tokens {
		if token, ok := each.(*statement.TableToken); ok && token.BeginPosition < stmt.SelectListLastPosition {
			name := token.TableName()
			if table, found := stmt.Tables.Find(name); found && !strings.EqualFold(table.Name, name) {
				delete(p.marked, token.BeginPosition)
				continue
			}
		}
		tokens = append(tokens, each)
	}
	stmt.Tokens = tokens
}
