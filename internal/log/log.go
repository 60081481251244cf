// Package log provides the key/value logger used across the metamodel.
//
// Messages are followed by alternating keys and values:
//
//	logger.Info("metamodel created", "specs", 12, "took", d)
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level filters messages below it.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// ParseLevel maps "debug", "info" and "error" to a Level; anything else is info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the logger interface. The variadic arguments are key value pairs.
// The key must be a string and the value should have a meaningful string representation.
type Logger interface {
	Debug(string, ...any)
	Info(string, ...any)
	Error(string, ...any)
	With(...any) Logger
}

// Default writes through a standard library logger.
type Default struct {
	Out   *log.Logger
	Level Level
	Tags  []any
}

// New returns a Default logger writing to w with the standard flags.
func New(w io.Writer, lvl Level) *Default {
	return &Default{Out: log.New(w, "", log.LstdFlags), Level: lvl}
}

// Root is the process logger used when no logger is configured.
var Root Logger = New(os.Stderr, LevelInfo)

func (l *Default) Debug(m string, s ...any) { l.print(LevelDebug, "DEB ", m, s) }
func (l *Default) Info(m string, s ...any)  { l.print(LevelInfo, "INF ", m, s) }
func (l *Default) Error(m string, s ...any) { l.print(LevelError, "ERR ", m, s) }

func (l *Default) With(tags ...any) Logger {
	return l.with(tags)
}

func (l *Default) with(tags []any) *Default {
	t := make([]any, 0, len(tags)+len(l.Tags))
	t = append(t, l.Tags...)
	t = append(t, tags...)

	return &Default{Out: l.Out, Level: l.Level, Tags: t}
}

func (l *Default) print(lvl Level, prefix, m string, s []any) {
	if lvl < l.Level {
		return
	}

	out := l.Out
	if out == nil {
		out = log.Default()
	}

	out.Print(tfmt(prefix, m, s, l.Tags))
}

type discard struct{}

// Discard drops every message.
var Discard Logger = discard{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}
func (discard) Error(string, ...any) {}
func (discard) With(...any) Logger { return Discard }

func tfmt(lvl, msg string, all ...[]any) string {
	var b strings.Builder

	b.WriteString(lvl)
	b.WriteString(msg)

	for _, tags := range all {
		for i, v := range tags {
			if i%2 == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte('=')
			}

			b.WriteString(fmt.Sprint(v))
		}
	}

	return b.String()
}
