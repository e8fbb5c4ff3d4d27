package log

import (
	"fmt"
	"io"
	"os"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Fatal(str string)
}

type logger struct {
	debug bool
}

// New returns a Logger writing to stdout. Debug messages are only
// written when debug is set.
func New(debug bool) Logger {
	return &logger{debug: debug}
}

func (l *logger) Infof(format string, args ...interface{}) {
	fmt.Printf("[INFO]\t"+format+"\n", args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[ERROR]\t"+format+"\n", args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	fmt.Printf("[DEBUG]\t"+format+"\n", args...)
}

func (l *logger) Fatal(str string) {
	fmt.Printf("[FATAL]\t%s\n", str)
	exit(1)
}

type prefixed struct {
	Logger
	prefix string
}

// WithPrefix returns a Logger that prefixes every message, so the
// component a message came from can be told apart.
func WithPrefix(l Logger, prefix string) Logger {
	return &prefixed{Logger: l, prefix: prefix + ": "}
}

func (p *prefixed) Infof(format string, args ...interface{}) {
	p.Logger.Infof(p.prefix+format, args...)
}

func (p *prefixed) Errorf(format string, args ...interface{}) {
	p.Logger.Errorf(p.prefix+format, args...)
}

func (p *prefixed) Debugf(format string, args ...interface{}) {
	p.Logger.Debugf(p.prefix+format, args...)
}

func (p *prefixed) Fatal(str string) {
	p.Logger.Fatal(p.prefix + str)
}

type nullLogger struct{}

func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Debugf(string, ...interface{}) {}

// Fatal still reports to stderr and exits, so a quiet process
// can't fail silently.
func (nullLogger) Fatal(str string) {
	fmt.Fprintf(stderr, "[FATAL]\t%s\n", str)
	exit(1)
}

// NewNullLogger returns a logger that drops everything but fatal
// errors.
func NewNullLogger() Logger {
	return nullLogger{}
}
