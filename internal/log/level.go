// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color" //nolint:misspell
)

// Level is the severity of a log line. Lines below the
// level of a logger are dropped.
type Level uint8

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Critical
)

var levelNames = [...]string{
	Trace:    "TRACE",
	Debug:    "DEBUG",
	Info:     "INFO",
	Warn:     "WARN",
	Error:    "ERROR",
	Critical: "CRITICAL",
}

var levelColours = [...]color.Attribute{
	Trace:    color.FgHiCyan,
	Debug:    color.FgHiBlue,
	Info:     color.FgCyan,
	Warn:     color.FgYellow,
	Error:    color.FgHiRed,
	Critical: color.FgRed,
}

// levelWidth is the width of the widest level name.
const levelWidth = len("CRITICAL")

func (level Level) String() string {
	if int(level) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", uint8(level))
	}
	return levelNames[level]
}

// padded returns the level name right padded to the widest level name,
// coloured if the format asks for it.
func (level Level) padded(format Format) string {
	s := fmt.Sprintf("%-*s", levelWidth, level.String())
	if format != FormatConsole || int(level) >= len(levelColours) {
		return s
	}
	return color.New(levelColours[level]).Sprint(s)
}

var ErrLevelNotRecognised = errors.New("level is not recognised")

// ParseLevel parses a level name, ignoring case.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return Warn, nil
	}

	for level, levelName := range levelNames {
		if name == levelName {
			return Level(level), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrLevelNotRecognised, s)
}
