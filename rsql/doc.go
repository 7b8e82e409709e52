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
Package rsql provides the lexical layer shared by the shardsql parsers.

The lexer turns SQL text into tokens that remember where they came from.
Every token carries its literal source text and its byte offset, which is
what the rewrite stage relies on: sharded table names are replaced and derived
columns are spliced in at recorded offsets, so the caller's whitespace,
comments and literal formatting survive unchanged.

# Tokens

	lexer := rsql.NewLexer("SELECT o.user_id FROM t_order o")
	for tok := lexer.NextToken(); tok.Type != rsql.TokenEOF; tok = lexer.NextToken() {
		fmt.Println(tok.Type, tok.Value, tok.Pos)
	}

Reserved words get their own token type (TokenSELECT, TokenFROM, ...).
Dialect words that are not reserved, such as DISTINCTROW or ROLLUP, arrive as
TokenIdent and are matched with Token.Is.

Quoted identifiers (`x`, "x", [x]) are TokenIdent with the quotes kept in
Value; ExactlyValue strips them.

# Errors

All failures are *ParseError values. Two families matter to callers:

	errors.Is(err, rsql.ErrSyntax)      // malformed input
	errors.Is(err, rsql.ErrUnsupported) // valid SQL outside the supported subset

ParseError carries the 1-based line and column of the failure and a short
context snippet with a caret under the offending position.
*/
package rsql
