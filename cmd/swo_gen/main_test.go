package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunDefault(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "199\n") {
		t.Errorf("report should start with the prescaler, got %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("nothing should be logged by default, got: %s", stderr.String())
	}
}

func TestRunCoreClockFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-core_hz", "200000000"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "99\n") {
		t.Errorf("report should start with prescaler 99, got %q", stdout.String())
	}
}

func TestRunRejectsArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"positional", []string{"extra"}},
		{"after flag", []string{"-trace_hz", "1000000", "board.ini"}},
		{"unknown flag", []string{"-frequency", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("run(%q) = %d, want 1", tt.args, code)
			}
			if stdout.Len() != 0 {
				t.Errorf("nothing should be generated, got %q", stdout.String())
			}
			if stderr.Len() == 0 {
				t.Error("the rejection should be reported on stderr")
			}
		})
	}
}

func TestRunMissingBoardFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", "/nonexistent/board.ini"}, &stdout, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be generated, got %q", stdout.String())
	}
}
