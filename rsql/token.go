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

package rsql

import "strings"

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal
	TokenIdent
	TokenNumber
	TokenString
	TokenQuestion // ? positional parameter
	TokenVariable // :name or @name

	TokenComma
	TokenDot
	TokenSemicolon
	TokenLParen
	TokenRParen
	TokenPlus
	TokenMinus
	TokenAsterisk
	TokenSlash
	TokenPercent
	TokenCaret
	TokenTilde
	TokenAmp
	TokenBar
	TokenDoubleAmp
	TokenDoubleBar
	TokenEQ
	TokenNE
	TokenGT
	TokenLT
	TokenGE
	TokenLE
	TokenSafeEQ // <=>

	// keywords
	TokenSELECT
	TokenALL
	TokenDISTINCT
	TokenFROM
	TokenINTO
	TokenWHERE
	TokenGROUP
	TokenBY
	TokenHAVING
	TokenOrder
	TokenASC
	TokenDESC
	TokenLIMIT
	TokenOFFSET
	TokenAS
	TokenAND
	TokenOR
	TokenNOT
	TokenIN
	TokenBETWEEN
	TokenLIKE
	TokenIS
	TokenNULL
	TokenEXISTS
	TokenJOIN
	TokenINNER
	TokenLEFT
	TokenRIGHT
	TokenFULL
	TokenOUTER
	TokenCROSS
	TokenNATURAL
	TokenStraightJoin
	TokenAPPLY
	TokenON
	TokenUSING
	TokenUNION
	TokenINTERSECT
	TokenEXCEPT
	TokenMINUS // MINUS set operator, not the '-' symbol
	TokenFOR
	TokenLOCK
	TokenMAX
	TokenMIN
	TokenSUM
	TokenAVG
	TokenCOUNT
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIllegal:   "ILLEGAL",
	TokenIdent:     "IDENTIFIER",
	TokenNumber:    "NUMBER",
	TokenString:    "STRING",
	TokenQuestion:  "?",
	TokenVariable:  "VARIABLE",
	TokenComma:     ",",
	TokenDot:       ".",
	TokenSemicolon: ";",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenAsterisk:  "*",
	TokenSlash:     "/",
	TokenPercent:   "%",
	TokenCaret:     "^",
	TokenTilde:     "~",
	TokenAmp:       "&",
	TokenBar:       "|",
	TokenDoubleAmp: "&&",
	TokenDoubleBar: "||",
	TokenEQ:        "=",
	TokenNE:        "<>",
	TokenGT:        ">",
	TokenLT:        "<",
	TokenGE:        ">=",
	TokenLE:        "<=",
	TokenSafeEQ:    "<=>",
}

// keywords maps upper-cased words to keyword token types.
var keywords = map[string]TokenType{
	"SELECT":        TokenSELECT,
	"ALL":           TokenALL,
	"DISTINCT":      TokenDISTINCT,
	"FROM":          TokenFROM,
	"INTO":          TokenINTO,
	"WHERE":         TokenWHERE,
	"GROUP":         TokenGROUP,
	"BY":            TokenBY,
	"HAVING":        TokenHAVING,
	"ORDER":         TokenOrder,
	"ASC":           TokenASC,
	"DESC":          TokenDESC,
	"LIMIT":         TokenLIMIT,
	"OFFSET":        TokenOFFSET,
	"AS":            TokenAS,
	"AND":           TokenAND,
	"OR":            TokenOR,
	"NOT":           TokenNOT,
	"IN":            TokenIN,
	"BETWEEN":       TokenBETWEEN,
	"LIKE":          TokenLIKE,
	"IS":            TokenIS,
	"NULL":          TokenNULL,
	"EXISTS":        TokenEXISTS,
	"JOIN":          TokenJOIN,
	"INNER":         TokenINNER,
	"LEFT":          TokenLEFT,
	"RIGHT":         TokenRIGHT,
	"FULL":          TokenFULL,
	"OUTER":         TokenOUTER,
	"CROSS":         TokenCROSS,
	"NATURAL":       TokenNATURAL,
	"STRAIGHT_JOIN": TokenStraightJoin,
	"APPLY":         TokenAPPLY,
	"ON":            TokenON,
	"USING":         TokenUSING,
	"UNION":         TokenUNION,
	"INTERSECT":     TokenINTERSECT,
	"EXCEPT":        TokenEXCEPT,
	"MINUS":         TokenMINUS,
	"FOR":           TokenFOR,
	"LOCK":          TokenLOCK,
	"MAX":           TokenMAX,
	"MIN":           TokenMIN,
	"SUM":           TokenSUM,
	"AVG":           TokenAVG,
	"COUNT":         TokenCOUNT,
}

func init() {
	for word, typ := range keywords {
		tokenNames[typ] = word
	}
}

// String returns the canonical spelling of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsKeyword reports whether the token type is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= TokenSELECT
}

// IsSymbol reports whether the token type is punctuation or an operator.
func (t TokenType) IsSymbol() bool {
	return t >= TokenComma && t < TokenSELECT
}

// LookupIdent returns the keyword type for word, or TokenIdent.
func LookupIdent(word string) TokenType {
	if typ, ok := keywords[strings.ToUpper(word)]; ok {
		return typ
	}
	return TokenIdent
}

// Token is one lexical unit. Value is the literal source text (quotes included),
// so Pos+len(Value) is always the end offset of the token in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos + len(t.Value)
}

// Is reports whether the token is spelled as word, ignoring case and quoting.
// Dialect words that are not reserved keywords are matched this way.
func (t Token) Is(word string) bool {
	if t.Type != TokenIdent && !t.Type.IsKeyword() {
		return false
	}
	return strings.EqualFold(t.Value, word)
}

// ExactlyValue strips identifier and string quoting characters from a literal.
func ExactlyValue(value string) string {
	if value == "" {
		return value
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '`', '"', '\'', '[', ']':
			return -1
		}
		return r
	}, value)
}
