// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
)

// Format selects how log lines are rendered.
type Format uint8

const (
	// FormatConsole colours the level of each line.
	FormatConsole Format = iota
	// FormatPlain renders lines without any colour.
	FormatPlain
)

// Option modifies the settings of a logger.
type Option func(s *settings)

// SetLevel sets the minimum level of lines written. It defaults to Info.
func SetLevel(level Level) Option {
	return func(s *settings) {
		s.level = &level
	}
}

// SetFormat sets the format of lines written. It defaults to FormatConsole.
func SetFormat(format Format) Option {
	return func(s *settings) {
		s.format = &format
	}
}

// SetWriter sets where lines are written. It defaults to os.Stdout.
func SetWriter(writer io.Writer) Option {
	return func(s *settings) {
		s.writer = writer
	}
}

// AddContext appends a key=value field to every line. A key set again
// replaces the previous value in place.
func AddContext(key, value string) Option {
	return func(s *settings) {
		s.fields = withField(s.fields, key, value)
	}
}

// SetCallerFile enables or disables logging the file of the calling site.
func SetCallerFile(enabled bool) Option {
	return func(s *settings) {
		s.caller.file = &enabled
	}
}

// SetCallerLine enables or disables logging the line of the calling site.
func SetCallerLine(enabled bool) Option {
	return func(s *settings) {
		s.caller.line = &enabled
	}
}

// SetCallerFunc enables or disables logging the function of the calling site.
func SetCallerFunc(enabled bool) Option {
	return func(s *settings) {
		s.caller.function = &enabled
	}
}
