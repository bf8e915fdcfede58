// Package rirclog provides the leveled logging sink used across the rirc
// engine, backed by hashicorp/go-hclog. It exists so that core/engine code
// never imports hclog directly, and so a nil or discard logger is always a
// safe default.
package rirclog

import (
	"io"
	"io/ioutil"

	"github.com/hashicorp/go-hclog"
)

// Logger is the leveled logging interface used throughout the engine.
type Logger interface {
	Trace(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	// With returns a logger annotated with the given key/value pairs,
	// attached to every subsequent message.
	With(args ...interface{}) Logger
}

type hc struct {
	l hclog.Logger
}

// New returns a Logger that writes to w at the given hclog level name
// ("trace", "debug", "info", "warn", "error"). If w is nil, output is
// discarded.
func New(name string, level string, w io.Writer) Logger {
	if w == nil {
		w = ioutil.Discard
	}

	return &hc{l: hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.LevelFromString(level),
		Output: w,
	})}
}

// Discard returns a Logger that drops everything written to it.
func Discard() Logger {
	return New("rirc", "off", ioutil.Discard)
}

func (h *hc) Trace(msg string, args ...interface{}) { h.l.Trace(msg, args...) }
func (h *hc) Debug(msg string, args ...interface{}) { h.l.Debug(msg, args...) }
func (h *hc) Info(msg string, args ...interface{})  { h.l.Info(msg, args...) }
func (h *hc) Warn(msg string, args ...interface{})  { h.l.Warn(msg, args...) }
func (h *hc) Error(msg string, args ...interface{}) { h.l.Error(msg, args...) }

func (h *hc) With(args ...interface{}) Logger {
	return &hc{l: h.l.With(args...)}
}
