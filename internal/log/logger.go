// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Logger writes levelled lines. A logger and all its descendants share
// a single mutex, so they are safe to use concurrently on the same writer.
type Logger struct {
	mutex    *sync.Mutex
	settings settings
	children []*Logger
}

// New creates a root logger.
func New(options ...Option) *Logger {
	s := newSettings(options)
	s.setDefaults()
	return &Logger{
		mutex:    new(sync.Mutex),
		settings: s,
	}
}

// New creates a child logger inheriting the settings of l that are
// not set by the options given. Patching l also patches the child.
func (l *Logger) New(options ...Option) *Logger {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	s := newSettings(options)
	s.inherit(l.settings)

	child := &Logger{
		mutex:    l.mutex,
		settings: s,
	}
	l.children = append(l.children, child)
	return child
}

// Patch overrides the settings of l and of all its descendants
// with the options given.
func (l *Logger) Patch(options ...Option) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.patch(newSettings(options))
}

func (l *Logger) patch(patch settings) {
	l.settings.patch(patch)
	for _, child := range l.children {
		child.patch(patch)
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if level < *l.settings.level {
		return
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	var line strings.Builder
	line.WriteString(time.Now().Format(time.RFC3339))
	line.WriteByte(' ')
	line.WriteString(level.padded(*l.settings.format))
	line.WriteByte(' ')
	// log is called by an exported method, itself called by the calling site.
	if caller := l.settings.caller.caller(2); caller != "" {
		line.WriteString(caller)
		line.WriteByte(' ')
	}
	line.WriteString(message)
	for i, f := range l.settings.fields {
		if i == 0 {
			line.WriteByte('\t')
		} else {
			line.WriteByte(' ')
		}
		line.WriteString(f.key + "=" + f.value)
	}
	line.WriteByte('\n')

	_, _ = l.settings.writer.Write([]byte(line.String()))
}

func (l *Logger) Trace(s string)    { l.log(Trace, s) }
func (l *Logger) Debug(s string)    { l.log(Debug, s) }
func (l *Logger) Info(s string)     { l.log(Info, s) }
func (l *Logger) Warn(s string)     { l.log(Warn, s) }
func (l *Logger) Error(s string)    { l.log(Error, s) }
func (l *Logger) Critical(s string) { l.log(Critical, s) }

func (l *Logger) Tracef(format string, args ...interface{})    { l.log(Trace, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{})    { l.log(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})     { l.log(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})     { l.log(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{})    { l.log(Error, format, args...) }
func (l *Logger) Criticalf(format string, args ...interface{}) { l.log(Critical, format, args...) }

var global = New(SetCallerFile(true), SetCallerLine(true))

// NewFromGlobal creates a child of the global logger. It is meant to be
// called once per package, with AddContext("pkg", name).
func NewFromGlobal(options ...Option) *Logger {
	return global.New(options...)
}

// Patch patches the global logger and every logger created with NewFromGlobal.
func Patch(options ...Option) {
	global.Patch(options...)
}
