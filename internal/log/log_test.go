// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

// Do not run in parallel. It overrides currentLevel.
func TestSetLogLevel(t *testing.T) {
	oldLevel := getLevel()
	defer func() { currentLevel = oldLevel }()

	tests := []struct {
		name      string
		newLevel  string
		wantLevel Severity
	}{
		{name: "default level", newLevel: "", wantLevel: Debug},
		{name: "invalid level", newLevel: "xyz", wantLevel: Debug},
		{name: "debug level", newLevel: "debug", wantLevel: Debug},
		{name: "info level", newLevel: "info", wantLevel: Info},
		{name: "error level", newLevel: "error", wantLevel: Error},
		{name: "fatal level", newLevel: "fatal", wantLevel: Critical},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			SetLevel(test.newLevel)
			if got := getLevel(); got != test.wantLevel {
				t.Errorf("got=%s, want=%s", got, test.wantLevel)
			}
		})
	}
}

func TestLogLevelFiltering(t *testing.T) {
	oldLevel := getLevel()
	defer func() { currentLevel = oldLevel }()

	var buf bytes.Buffer
	oldOut := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(oldOut)

	SetLevel("error")
	ctx := context.Background()
	Debugf(ctx, "debug message")
	Infof(ctx, "info message")
	if strings.Contains(buf.String(), "debug message") || strings.Contains(buf.String(), "info message") {
		t.Errorf("expected debug/info to be filtered out at error level, got %q", buf.String())
	}
	Errorf(ctx, "error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Errorf("expected error message to be logged, got %q", buf.String())
	}
}

func TestContextTraceIDAndLabel(t *testing.T) {
	var buf bytes.Buffer
	oldOut := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(oldOut)

	oldLevel := getLevel()
	defer func() { currentLevel = oldLevel }()
	SetLevel("debug")

	ctx := NewContextWithTraceID(context.Background(), "trace-123")
	ctx = NewContextWithLabel(ctx, "origin", "http://localhost:4545")
	Infof(ctx, "hello")
	got := buf.String()
	if !strings.Contains(got, "trace-123") {
		t.Errorf("expected trace ID in log output, got %q", got)
	}
	if !strings.Contains(got, "origin") {
		t.Errorf("expected label in log output, got %q", got)
	}
}
