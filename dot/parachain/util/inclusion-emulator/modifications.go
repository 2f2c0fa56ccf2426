// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package inclusionemulator

import (
	"math"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"golang.org/x/exp/maps"
)

// OutboundHrmpChannelModification is an update to an outbound HRMP channel.
type OutboundHrmpChannelModification struct {
	// The number of bytes submitted to the channel.
	BytesSubmitted uint
	// The number of messages submitted to the channel.
	MessagesSubmitted uint
}

// ConstraintModifications are modifications to constraints as a result of
// one or more prospective candidates.
type ConstraintModifications struct {
	// The required parent head to build upon.
	RequiredParent *parachaintypes.HeadData
	// The new HRMP watermark.
	HrmpWatermark *parachaintypes.BlockNumber
	// Outbound HRMP channel modifications.
	OutboundHrmp map[parachaintypes.ParaID]OutboundHrmpChannelModification
	// The amount of UMP messages sent.
	UmpMessagesSent uint
	// The amount of UMP bytes sent.
	UmpBytesSent uint
	// The amount of DMP messages processed.
	DmpMessagesProcessed uint
	// Whether a pending code upgrade has been applied.
	CodeUpgradeApplied bool
}

// NewConstraintModificationsIdentity returns the 'identity' modifications:
// these can be applied to any constraints and yield the exact same result.
func NewConstraintModificationsIdentity() *ConstraintModifications {
	return &ConstraintModifications{
		OutboundHrmp: make(map[parachaintypes.ParaID]OutboundHrmpChannelModification),
	}
}

// Clone returns a deep copy of the modifications.
func (cm *ConstraintModifications) Clone() *ConstraintModifications {
	clone := *cm

	if cm.RequiredParent != nil {
		requiredParent := cm.RequiredParent.Clone()
		clone.RequiredParent = &requiredParent
	}

	if cm.HrmpWatermark != nil {
		hrmpWatermark := *cm.HrmpWatermark
		clone.HrmpWatermark = &hrmpWatermark
	}

	clone.OutboundHrmp = maps.Clone(cm.OutboundHrmp)

	return &clone
}

// Stack stacks other modifications on top of these, as if the candidates
// behind other were built after the candidates behind cm.
//
// This does no sanity-checking, so if other is garbage relative to cm, then
// the new value will be garbage as well. This is an addition which is not
// commutative: overrides from other win. Counters saturate instead of wrapping.
func (cm *ConstraintModifications) Stack(other *ConstraintModifications) {
	if other == nil {
		return
	}

	if other.RequiredParent != nil {
		requiredParent := other.RequiredParent.Clone()
		cm.RequiredParent = &requiredParent
	}

	if other.HrmpWatermark != nil {
		hrmpWatermark := *other.HrmpWatermark
		cm.HrmpWatermark = &hrmpWatermark
	}

	if cm.OutboundHrmp == nil && len(other.OutboundHrmp) > 0 {
		cm.OutboundHrmp = make(map[parachaintypes.ParaID]OutboundHrmpChannelModification, len(other.OutboundHrmp))
	}

	for id, mods := range other.OutboundHrmp {
		record := cm.OutboundHrmp[id]
		record.BytesSubmitted = saturatingAdd(record.BytesSubmitted, mods.BytesSubmitted)
		record.MessagesSubmitted = saturatingAdd(record.MessagesSubmitted, mods.MessagesSubmitted)
		cm.OutboundHrmp[id] = record
	}

	cm.UmpMessagesSent = saturatingAdd(cm.UmpMessagesSent, other.UmpMessagesSent)
	cm.UmpBytesSent = saturatingAdd(cm.UmpBytesSent, other.UmpBytesSent)
	cm.DmpMessagesProcessed = saturatingAdd(cm.DmpMessagesProcessed, other.DmpMessagesProcessed)
	cm.CodeUpgradeApplied = cm.CodeUpgradeApplied || other.CodeUpgradeApplied
}

// saturatingAdd returns a + b, capped at the maximum uint value.
func saturatingAdd(a, b uint) uint {
	sum, overflow := ethmath.SafeAdd(uint64(a), uint64(b))
	if overflow || sum > math.MaxUint {
		return math.MaxUint
	}
	return uint(sum)
}
