// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// callerSettings selects which parts of the calling site are logged.
// Nil fields are unset.
type callerSettings struct {
	file     *bool
	line     *bool
	function *bool
}

func (c *callerSettings) inherit(parent callerSettings) {
	if c.file == nil {
		c.file = parent.file
	}
	if c.line == nil {
		c.line = parent.line
	}
	if c.function == nil {
		c.function = parent.function
	}
}

func (c *callerSettings) patch(patch callerSettings) {
	if patch.file != nil {
		c.file = patch.file
	}
	if patch.line != nil {
		c.line = patch.line
	}
	if patch.function != nil {
		c.function = patch.function
	}
}

func (c *callerSettings) setDefaults() {
	disabled := false
	if c.file == nil {
		c.file = &disabled
	}
	if c.line == nil {
		c.line = &disabled
	}
	if c.function == nil {
		c.function = &disabled
	}
}

// caller returns the calling site skip frames above its own caller,
// formatted as file:Lline:function with the disabled parts left out.
func (c callerSettings) caller(skip int) string {
	if !*c.file && !*c.line && !*c.function {
		return ""
	}

	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}

	parts := make([]string, 0, 3)
	if *c.file {
		parts = append(parts, filepath.Base(file))
	}
	if *c.line {
		parts = append(parts, "L"+strconv.Itoa(line))
	}
	if *c.function {
		if details := runtime.FuncForPC(pc); details != nil {
			parts = append(parts, strings.TrimPrefix(filepath.Ext(details.Name()), "."))
		}
	}
	return strings.Join(parts, ":")
}
