package log

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

type recorder struct {
	nullLogger
	lines []string
}

func (r *recorder) Infof(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestWithPrefix(t *testing.T) {
	r := &recorder{}
	WithPrefix(r, "bridge").Infof("connected to %s", "ws://engine")

	if len(r.lines) != 1 || r.lines[0] != "bridge: connected to ws://engine" {
		t.Errorf("expected prefixed message, got %v", r.lines)
	}
}

func TestNullLogger_Fatal(t *testing.T) {
	var out bytes.Buffer
	code := -1
	stderr, exit = &out, func(c int) { code = c }
	defer func() { stderr, exit = os.Stderr, os.Exit }()

	l := NewNullLogger()
	l.Errorf("dropped")
	l.Fatal("term: stdin is not a terminal")

	if code != 1 {
		t.Errorf("expected exit status 1, got %d", code)
	}
	if got := out.String(); !strings.Contains(got, "term: stdin is not a terminal") || strings.Contains(got, "dropped") {
		t.Errorf("expected only the fatal message on stderr, got %q", got)
	}
}
