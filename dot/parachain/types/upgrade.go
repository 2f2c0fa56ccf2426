// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package parachaintypes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownGoAhead            = errors.New("unknown upgrade go-ahead signal")
	ErrUnknownUpgradeRestriction = errors.New("unknown upgrade restriction signal")
)

// UpgradeGoAhead is the go-ahead signal the relay chain sends to a parachain
// which has a pending code upgrade.
type UpgradeGoAhead uint8

const (
	// NoGoAheadSignal means the relay chain has not sent any signal.
	NoGoAheadSignal UpgradeGoAhead = iota
	// GoAheadAbort means the pending upgrade was aborted and must not be applied.
	GoAheadAbort
	// GoAheadGoAhead means the pending upgrade should be applied.
	GoAheadGoAhead
)

func (g UpgradeGoAhead) String() string {
	switch g {
	case NoGoAheadSignal:
		return "none"
	case GoAheadAbort:
		return "abort"
	case GoAheadGoAhead:
		return "go-ahead"
	default:
		return fmt.Sprintf("UpgradeGoAhead(%d)", uint8(g))
	}
}

// ParseUpgradeGoAhead parses the string form of an UpgradeGoAhead.
// An empty string is parsed as NoGoAheadSignal.
func ParseUpgradeGoAhead(s string) (UpgradeGoAhead, error) {
	switch strings.ToLower(s) {
	case "", NoGoAheadSignal.String():
		return NoGoAheadSignal, nil
	case GoAheadAbort.String():
		return GoAheadAbort, nil
	case GoAheadGoAhead.String():
		return GoAheadGoAhead, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownGoAhead, s)
}

// UpgradeRestriction is a signal that restricts a parachain from scheduling
// a code upgrade.
type UpgradeRestriction uint8

const (
	// NoUpgradeRestriction means an upgrade may be scheduled.
	NoUpgradeRestriction UpgradeRestriction = iota
	// UpgradeRestrictionPresent means an upgrade is already scheduled or in
	// cool-down, so no new upgrade may be signalled.
	UpgradeRestrictionPresent
)

func (r UpgradeRestriction) String() string {
	switch r {
	case NoUpgradeRestriction:
		return "none"
	case UpgradeRestrictionPresent:
		return "present"
	default:
		return fmt.Sprintf("UpgradeRestriction(%d)", uint8(r))
	}
}

// ParseUpgradeRestriction parses the string form of an UpgradeRestriction.
// An empty string is parsed as NoUpgradeRestriction.
func ParseUpgradeRestriction(s string) (UpgradeRestriction, error) {
	switch strings.ToLower(s) {
	case "", NoUpgradeRestriction.String():
		return NoUpgradeRestriction, nil
	case UpgradeRestrictionPresent.String():
		return UpgradeRestrictionPresent, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownUpgradeRestriction, s)
}
