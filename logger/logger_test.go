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

package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{OFF, "OFF"},
		{Level(999), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DEBUG},
		{"", INFO},
		{" Info ", INFO},
		{"warning", WARN},
		{"ERROR", ERROR},
		{"off", OFF},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		loggerLevel  Level
		messageLevel Level
		shouldLog    bool
	}{
		{DEBUG, DEBUG, true},
		{DEBUG, ERROR, true},
		{INFO, DEBUG, false},
		{INFO, WARN, true},
		{WARN, INFO, false},
		{ERROR, WARN, false},
		{ERROR, ERROR, true},
		{OFF, ERROR, false},
	}
	for _, tt := range tests {
		t.Run(tt.loggerLevel.String()+"_"+tt.messageLevel.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(tt.loggerLevel, &buf)
			switch tt.messageLevel {
			case DEBUG:
				l.Debug("message")
			case INFO:
				l.Info("message")
			case WARN:
				l.Warn("message")
			case ERROR:
				l.Error("message")
			}
			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(DEBUG, &buf)
	l.Debug("parsed %d items from %s", 3, "t_order")

	output := buf.String()
	assert.Contains(t, output, "[DEBUG]")
	assert.Contains(t, output, "parsed 3 items from t_order")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(DEBUG, &buf)
	l.SetLevel(ERROR)
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestDiscardLogger(t *testing.T) {
	l := NewDiscardLogger()
	require.NotNil(t, l)
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
		l.SetLevel(DEBUG)
	})
}

func TestGlobalLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogger(DEBUG, &buf))

	Debug("global debug")
	Info("global info")
	Warn("global warn")
	Error("global error")

	for _, msg := range []string{"global debug", "global info", "global warn", "global error"} {
		assert.Contains(t, buf.String(), msg)
	}

	SetDefault(nil)
	assert.NotPanics(t, func() { Info("dropped") })
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(INFO, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			l.Info("concurrent message %d", id)
			l.SetLevel(INFO)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, strings.Count(buf.String(), "concurrent message"))
}
