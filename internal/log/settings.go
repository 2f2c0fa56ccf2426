// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
	"os"
)

// settings holds the options of a logger. Nil fields are unset and are
// inherited from the parent logger, or defaulted for a root logger.
type settings struct {
	writer io.Writer
	level  *Level
	format *Format
	caller callerSettings
	fields []field
}

type field struct {
	key   string
	value string
}

func newSettings(options []Option) (s settings) {
	for _, option := range options {
		option(&s)
	}
	return s
}

// inherit fills the unset fields of s from the parent settings.
// Context fields of the parent come first.
func (s *settings) inherit(parent settings) {
	if s.writer == nil {
		s.writer = parent.writer
	}
	if s.level == nil {
		s.level = parent.level
	}
	if s.format == nil {
		s.format = parent.format
	}
	s.caller.inherit(parent.caller)

	fields := make([]field, len(parent.fields), len(parent.fields)+len(s.fields))
	copy(fields, parent.fields)
	for _, f := range s.fields {
		fields = withField(fields, f.key, f.value)
	}
	s.fields = fields
}

// patch overrides s with the fields set in the patch.
func (s *settings) patch(patch settings) {
	if patch.writer != nil {
		s.writer = patch.writer
	}
	if patch.level != nil {
		s.level = patch.level
	}
	if patch.format != nil {
		s.format = patch.format
	}
	s.caller.patch(patch.caller)
	for _, f := range patch.fields {
		s.fields = withField(s.fields, f.key, f.value)
	}
}

func (s *settings) setDefaults() {
	if s.writer == nil {
		s.writer = os.Stdout
	}
	if s.level == nil {
		level := Info
		s.level = &level
	}
	if s.format == nil {
		format := FormatConsole
		s.format = &format
	}
	s.caller.setDefaults()
}

func withField(fields []field, key, value string) []field {
	for i := range fields {
		if fields[i].key == key {
			fields[i].value = value
			return fields
		}
	}
	return append(fields, field{key: key, value: value})
}
