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

// Lexer splits SQL text into tokens carrying their byte offsets.
// Whitespace and comments (--, #, /* */) are skipped; their text stays in
// the input so position-anchored rewrites keep them intact.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	err     *ParseError
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Input returns the text being tokenized.
func (l *Lexer) Input() string {
	return l.input
}

// Err returns the first lexical error, if any.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()
	start := l.pos

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Pos: len(l.input)}
	case ',':
		return l.single(TokenComma)
	case '.':
		return l.single(TokenDot)
	case ';':
		return l.single(TokenSemicolon)
	case '(':
		return l.single(TokenLParen)
	case ')':
		return l.single(TokenRParen)
	case '+':
		return l.single(TokenPlus)
	case '-':
		return l.single(TokenMinus)
	case '*':
		return l.single(TokenAsterisk)
	case '/':
		return l.single(TokenSlash)
	case '%':
		return l.single(TokenPercent)
	case '^':
		return l.single(TokenCaret)
	case '~':
		return l.single(TokenTilde)
	case '?':
		return l.single(TokenQuestion)
	case '=':
		return l.single(TokenEQ)
	case '&':
		if l.peekChar() == '&' {
			return l.double(TokenDoubleAmp)
		}
		return l.single(TokenAmp)
	case '|':
		if l.peekChar() == '|' {
			return l.double(TokenDoubleBar)
		}
		return l.single(TokenBar)
	case '!':
		if l.peekChar() == '=' {
			return l.double(TokenNE)
		}
	case '>':
		if l.peekChar() == '=' {
			return l.double(TokenGE)
		}
		return l.single(TokenGT)
	case '<':
		switch l.peekChar() {
		case '=':
			if l.readPos+1 < len(l.input) && l.input[l.readPos+1] == '>' {
				l.readChar()
				l.readChar()
				l.readChar()
				return Token{Type: TokenSafeEQ, Value: l.input[start:l.pos], Pos: start}
			}
			return l.double(TokenLE)
		case '>':
			return l.double(TokenNE)
		}
		return l.single(TokenLT)
	case '\'':
		return l.readQuoted(TokenString, '\'')
	case '"':
		return l.readQuoted(TokenIdent, '"')
	case '`':
		return l.readQuoted(TokenIdent, '`')
	case '[':
		return l.readQuoted(TokenIdent, ']')
	case ':', '@':
		if isLetter(l.peekChar()) || l.peekChar() == '@' {
			l.readChar()
			for isLetter(l.ch) || isDigit(l.ch) || l.ch == '@' {
				l.readChar()
			}
			return Token{Type: TokenVariable, Value: l.input[start:l.pos], Pos: start}
		}
	}

	if isLetter(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '$' {
			l.readChar()
		}
		word := l.input[start:l.pos]
		return Token{Type: LookupIdent(word), Value: word, Pos: start}
	}

	if isDigit(l.ch) {
		return l.readNumber()
	}

	l.fail(CreateLexicalError(l.input, "Unexpected character", start, l.ch))
	l.readChar()
	return Token{Type: TokenIllegal, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) single(typ TokenType) Token {
	start := l.pos
	l.readChar()
	return Token{Type: typ, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) double(typ TokenType) Token {
	start := l.pos
	l.readChar()
	l.readChar()
	return Token{Type: typ, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// readQuoted reads a quoted literal; a doubled closing quote is an escape.
func (l *Lexer) readQuoted(typ TokenType, closing byte) Token {
	start := l.pos
	l.readChar()
	for {
		if l.ch == 0 {
			l.fail(CreateUnterminatedStringError(l.input, start))
			return Token{Type: TokenIllegal, Value: l.input[start:l.pos], Pos: start}
		}
		if l.ch == closing {
			if l.peekChar() == closing && closing != ']' {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		if l.ch == '\\' && closing == '\'' && l.peekChar() != 0 {
			l.readChar()
		}
		l.readChar()
	}
	return Token{Type: typ, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) readNumber() Token {
	start := l.pos
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start}
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1])) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-', l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := l.pos
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.ch == 0 {
					l.fail(CreateLexicalError(l.input, "Unterminated block comment", start, '/'))
					return
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return
		}
	}
}

func (l *Lexer) fail(err *ParseError) {
	if l.err == nil {
		l.err = err
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
