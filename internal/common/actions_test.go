package common

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogActionSuccess(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)

	err := LogAction(logger, "register", func() error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "START") || !strings.Contains(out, "OK") {
		t.Errorf("missing start/ok markers in %q", out)
	}
	if !strings.Contains(out, "register") {
		t.Errorf("missing action name in %q", out)
	}
}

func TestLogActionReturnsErrorUnchanged(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	boom := errors.New("boom")

	err := LogAction(logger, "buy", func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("error was wrapped or swallowed: %v", err)
	}
	if !strings.Contains(buf.String(), "ERROR") {
		t.Errorf("missing error marker in %q", buf.String())
	}
}
