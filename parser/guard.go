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

import "github.com/rulego/shardsql/rsql"

// parseRest rejects set operators and dialect-specific trailing clauses.
func (p *SelectParser) parseRest() error {
	tok := p.current()
	if p.equalAny(rsql.TokenUNION, rsql.TokenINTERSECT, rsql.TokenEXCEPT, rsql.TokenMINUS, rsql.TokenINTO) ||
		p.dialect.IsUnsupportedRest(tok) {
		return p.unsupported(tok)
	}
	return nil
}

// parseTrailing accepts locking clauses and semicolons after the top-level
// statement. Anything else is a syntax error.
func (p *SelectParser) parseTrailing() error {
	if p.equalAny(rsql.TokenFOR, rsql.TokenLOCK) {
		p.logger.Debug("skip locking clause at %d", p.current().Pos)
		for !p.equalAny(rsql.TokenEOF, rsql.TokenSemicolon) {
			p.next()
		}
	}
	p.skipAll(rsql.TokenSemicolon)
	if !p.equalAny(rsql.TokenEOF) {
		return p.unexpected(rsql.TokenEOF.String())
	}
	return nil
}
