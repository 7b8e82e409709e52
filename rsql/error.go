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

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies a parse failure.
type ErrorType int

const (
	ErrorTypeSyntax ErrorType = iota
	ErrorTypeLexical
	ErrorTypeUnexpectedToken
	ErrorTypeMissingToken
	ErrorTypeUnterminatedString
	// ErrorTypeUnsupported marks valid SQL outside the supported subset.
	ErrorTypeUnsupported
)

var (
	// ErrSyntax matches every malformed-input ParseError through errors.Is.
	ErrSyntax = errors.New("sql syntax error")
	// ErrUnsupported matches ParseErrors of type ErrorTypeUnsupported through errors.Is.
	ErrUnsupported = errors.New("sql feature not supported")
)

// ParseError describes why a statement could not be parsed.
type ParseError struct {
	Type        ErrorType
	Message     string
	Position    int
	Line        int
	Column      int
	Token       string
	Expected    []string
	Suggestions []string
	Context     string
}

func (e *ParseError) Error() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("[%s] %s", e.getErrorTypeName(), e.Message))

	if e.Line > 0 && e.Column > 0 {
		builder.WriteString(fmt.Sprintf(" at line %d, column %d", e.Line, e.Column))
	} else if e.Position >= 0 {
		builder.WriteString(fmt.Sprintf(" at position %d", e.Position))
	}

	if e.Token != "" {
		builder.WriteString(fmt.Sprintf(" (found '%s')", e.Token))
	}

	if len(e.Expected) > 0 {
		builder.WriteString(fmt.Sprintf(", expected: %s", strings.Join(e.Expected, ", ")))
	}

	if e.Context != "" {
		builder.WriteString(fmt.Sprintf("\nContext: %s", e.Context))
	}

	if len(e.Suggestions) > 0 {
		builder.WriteString(fmt.Sprintf("\nSuggestions: %s", strings.Join(e.Suggestions, "; ")))
	}

	return builder.String()
}

// Is lets callers test the error family with errors.Is(err, ErrUnsupported)
// or errors.Is(err, ErrSyntax).
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrUnsupported:
		return e.Type == ErrorTypeUnsupported
	case ErrSyntax:
		return e.Type != ErrorTypeUnsupported
	}
	return false
}

func (e *ParseError) getErrorTypeName() string {
	switch e.Type {
	case ErrorTypeSyntax:
		return "SYNTAX_ERROR"
	case ErrorTypeLexical:
		return "LEXICAL_ERROR"
	case ErrorTypeUnexpectedToken:
		return "UNEXPECTED_TOKEN"
	case ErrorTypeMissingToken:
		return "MISSING_TOKEN"
	case ErrorTypeUnterminatedString:
		return "UNTERMINATED_STRING"
	case ErrorTypeUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// IsUnsupported reports whether err is a recognized-but-unsupported failure.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// CreateSyntaxError creates a generic malformed-syntax error.
func CreateSyntaxError(input, message string, position int, token string, expected []string) *ParseError {
	line, column := calculateLineColumn(input, position)
	return &ParseError{
		Type:        ErrorTypeSyntax,
		Message:     message,
		Position:    position,
		Line:        line,
		Column:      column,
		Token:       token,
		Expected:    expected,
		Suggestions: generateSuggestions(token, expected),
		Context:     FormatErrorContext(input, position, 20),
	}
}

func CreateLexicalError(input, message string, position int, char byte) *ParseError {
	line, column := calculateLineColumn(input, position)
	return &ParseError{
		Type:        ErrorTypeLexical,
		Message:     message,
		Position:    position,
		Line:        line,
		Column:      column,
		Token:       string(char),
		Suggestions: []string{"Check for invalid characters", "Ensure strings are properly closed"},
		Context:     FormatErrorContext(input, position, 20),
	}
}

func CreateUnterminatedStringError(input string, position int) *ParseError {
	line, column := calculateLineColumn(input, position)
	return &ParseError{
		Type:        ErrorTypeUnterminatedString,
		Message:     "Unterminated string literal",
		Position:    position,
		Line:        line,
		Column:      column,
		Suggestions: []string{"Close the quoted literal"},
		Context:     FormatErrorContext(input, position, 20),
	}
}

func CreateUnexpectedTokenError(input, found string, expected []string, position int) *ParseError {
	line, column := calculateLineColumn(input, position)
	return &ParseError{
		Type:        ErrorTypeUnexpectedToken,
		Message:     fmt.Sprintf("Unexpected token '%s'", found),
		Position:    position,
		Line:        line,
		Column:      column,
		Token:       found,
		Expected:    expected,
		Suggestions: generateSuggestions(found, expected),
		Context:     FormatErrorContext(input, position, 20),
	}
}

func CreateMissingTokenError(input, expected string, position int) *ParseError {
	line, column := calculateLineColumn(input, position)
	return &ParseError{
		Type:        ErrorTypeMissingToken,
		Message:     fmt.Sprintf("Missing required token '%s'", expected),
		Position:    position,
		Line:        line,
		Column:      column,
		Expected:    []string{expected},
		Suggestions: []string{fmt.Sprintf("Add missing '%s'", expected)},
		Context:     FormatErrorContext(input, position, 20),
	}
}

// CreateUnsupportedError reports a recognized construct the parser refuses.
func CreateUnsupportedError(input, feature string, position int) *ParseError {
	line, column := calculateLineColumn(input, position)
	return &ParseError{
		Type:     ErrorTypeUnsupported,
		Message:  fmt.Sprintf("Cannot support '%s'", feature),
		Position: position,
		Line:     line,
		Column:   column,
		Token:    feature,
		Context:  FormatErrorContext(input, position, 20),
	}
}

// calculateLineColumn converts a byte offset into 1-based line and column.
func calculateLineColumn(input string, position int) (int, int) {
	if position < 0 {
		return 0, 0
	}
	if position > len(input) {
		position = len(input)
	}
	line, column := 1, 1
	for i := 0; i < position; i++ {
		if input[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

func generateSuggestions(found string, expected []string) []string {
	suggestions := make([]string, 0)

	if len(expected) > 0 && found != "" {
		suggestions = append(suggestions, fmt.Sprintf("Try using '%s' instead of '%s'", expected[0], found))
	}

	switch strings.ToUpper(found) {
	case "SELCT":
		suggestions = append(suggestions, "Did you mean 'SELECT'?")
	case "FORM":
		suggestions = append(suggestions, "Did you mean 'FROM'?")
	case "WHER":
		suggestions = append(suggestions, "Did you mean 'WHERE'?")
	case "GROPU":
		suggestions = append(suggestions, "Did you mean 'GROUP'?")
	case "ODER":
		suggestions = append(suggestions, "Did you mean 'ORDER'?")
	}

	return suggestions
}

// FormatErrorContext renders the input around position with a caret under it.
func FormatErrorContext(input string, position int, contextLength int) string {
	if position < 0 || position >= len(input) {
		return ""
	}

	start := position - contextLength
	if start < 0 {
		start = 0
	}

	end := position + contextLength
	if end > len(input) {
		end = len(input)
	}

	context := input[start:end]
	pointer := strings.Repeat(" ", position-start) + "^"

	return fmt.Sprintf("%s\n%s", context, pointer)
}
