package commands

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-unicms/pkg/interfaces"
)

type logEntry struct {
	level  string
	msg    string
	args   []any
	fields map[string]any
}

type recordingLogger struct {
	mu      *sync.Mutex
	fields  map[string]any
	entries *[]logEntry
}

func (l *recordingLogger) init() {
	if l.mu == nil {
		l.mu = &sync.Mutex{}
		l.entries = &[]logEntry{}
	}
}

func (l *recordingLogger) log(level, msg string, args []any) {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: args, fields: maps.Clone(l.fields)})
}

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.init()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("trace", msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("error", msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("fatal", msg, args) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	l.init()
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, fields)
	return &recordingLogger{mu: l.mu, fields: merged, entries: l.entries}
}
