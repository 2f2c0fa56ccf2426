// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package inclusionemulator

import (
	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
	"github.com/ethereum/go-ethereum/common/math"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// InboundHrmpLimitations are constraints on inbound HRMP channels.
type InboundHrmpLimitations struct {
	// An exhaustive set of all valid watermarks, sorted ascending.
	ValidWatermarks []parachaintypes.BlockNumber
}

// OutboundHrmpChannelLimitations are constraints on one outbound HRMP channel.
type OutboundHrmpChannelLimitations struct {
	// The maximum bytes that can be written to the channel.
	BytesRemaining uint
	// The maximum messages that can be written to the channel.
	MessagesRemaining uint
}

// FutureValidationCode is a pending validation code upgrade together with
// the relay-parent number at which it would be minimally applied.
type FutureValidationCode struct {
	BlockNumber        parachaintypes.BlockNumber
	ValidationCodeHash parachaintypes.ValidationCodeHash
}

// Constraints on the actions that can be taken by a new parachain block. These
// limitations are implicitly associated with some particular parachain, which should
// be apparent from usage.
//
// Constraints are never modified in place: ApplyModifications returns a new value.
type Constraints struct {
	// The amount of UMP messages remaining.
	UmpRemaining uint
	// The amount of UMP bytes remaining.
	UmpRemainingBytes uint
	// The amount of remaining DMP messages.
	DmpRemainingMessages uint
	// The limitations of all registered inbound HRMP channels.
	HrmpInbound InboundHrmpLimitations
	// The limitations of all registered outbound HRMP channels.
	HrmpChannelsOut map[parachaintypes.ParaID]OutboundHrmpChannelLimitations
	// The maximum Proof-of-Validity size allowed, in bytes.
	MaxPoVSize uint32
	// The maximum number of HRMP messages allowed per candidate.
	MaxHrmpNumPerCandidate uint
	// The required parent head-data of the parachain.
	RequiredParent parachaintypes.HeadData
	// The expected validation-code-hash of this parachain.
	ValidationCodeHash parachaintypes.ValidationCodeHash
	// The go-ahead signal as-of this parachain.
	GoAhead parachaintypes.UpgradeGoAhead
	// The code upgrade restriction signal as-of this parachain.
	UpgradeRestriction parachaintypes.UpgradeRestriction
	// The future validation code hash, if any, and at what relay-parent
	// number the upgrade would be minimally applied.
	FutureValidationCode *FutureValidationCode
}

// Clone returns a deep copy of the constraints.
func (c *Constraints) Clone() *Constraints {
	clone := *c
	clone.HrmpInbound.ValidWatermarks = slices.Clone(c.HrmpInbound.ValidWatermarks)
	clone.HrmpChannelsOut = maps.Clone(c.HrmpChannelsOut)
	clone.RequiredParent = c.RequiredParent.Clone()
	if c.FutureValidationCode != nil {
		futureValidationCode := *c.FutureValidationCode
		clone.FutureValidationCode = &futureValidationCode
	}
	return &clone
}

// CheckModifications checks modifications against the constraints without
// altering them. Outbound HRMP channels are checked in ascending para id order.
func (c *Constraints) CheckModifications(modifications *ConstraintModifications) error {
	if err := c.checkModifications(modifications); err != nil {
		return err
	}
	return nil
}

func (c *Constraints) checkModifications(modifications *ConstraintModifications) ModificationError {
	if modifications == nil {
		return nil
	}

	if modifications.HrmpWatermark != nil {
		_, err := consumeWatermark(c.HrmpInbound.ValidWatermarks, *modifications.HrmpWatermark)
		if err != nil {
			return err
		}
	}

	for _, id := range sortedParaIDs(modifications.OutboundHrmp) {
		_, err := c.outboundAfter(id, modifications.OutboundHrmp[id])
		if err != nil {
			return err
		}
	}

	_, _, err := c.umpAfter(modifications)
	if err != nil {
		return err
	}

	_, err = c.dmpAfter(modifications)
	if err != nil {
		return err
	}

	if c.FutureValidationCode == nil && modifications.CodeUpgradeApplied {
		return AppliedNonexistentCodeUpgradeError{}
	}

	return nil
}

// ApplyModifications applies modifications to a copy of these constraints and
// returns the copy. If this succeeds, the modifications pass all of the checks
// of CheckModifications. On error no partially modified constraints are returned.
func (c *Constraints) ApplyModifications(modifications *ConstraintModifications) (*Constraints, error) {
	newConstraints := c.Clone()
	if modifications == nil {
		return newConstraints, nil
	}

	if modifications.RequiredParent != nil {
		newConstraints.RequiredParent = modifications.RequiredParent.Clone()
	}

	if modifications.HrmpWatermark != nil {
		remaining, err := consumeWatermark(newConstraints.HrmpInbound.ValidWatermarks, *modifications.HrmpWatermark)
		if err != nil {
			return nil, err
		}
		newConstraints.HrmpInbound.ValidWatermarks = remaining
	}

	for _, id := range sortedParaIDs(modifications.OutboundHrmp) {
		outbound, err := newConstraints.outboundAfter(id, modifications.OutboundHrmp[id])
		if err != nil {
			return nil, err
		}
		newConstraints.HrmpChannelsOut[id] = outbound
	}

	umpRemaining, umpRemainingBytes, err := newConstraints.umpAfter(modifications)
	if err != nil {
		return nil, err
	}
	newConstraints.UmpRemaining = umpRemaining
	newConstraints.UmpRemainingBytes = umpRemainingBytes

	dmpRemaining, err := newConstraints.dmpAfter(modifications)
	if err != nil {
		return nil, err
	}
	newConstraints.DmpRemainingMessages = dmpRemaining

	if modifications.CodeUpgradeApplied {
		if newConstraints.FutureValidationCode == nil {
			return nil, AppliedNonexistentCodeUpgradeError{}
		}
		newConstraints.ValidationCodeHash = newConstraints.FutureValidationCode.ValidationCodeHash
		newConstraints.FutureValidationCode = nil
	}

	return newConstraints, nil
}

// consumeWatermark returns the valid watermarks left once the given watermark
// and every earlier one are consumed.
func consumeWatermark(validWatermarks []parachaintypes.BlockNumber, watermark parachaintypes.BlockNumber) (
	[]parachaintypes.BlockNumber, ModificationError) {
	pos := slices.Index(validWatermarks, watermark)
	if pos == -1 {
		return nil, DisallowedHrmpWatermarkError{BlockNumber: watermark}
	}
	return validWatermarks[pos+1:], nil
}

func (c *Constraints) outboundAfter(id parachaintypes.ParaID, mod OutboundHrmpChannelModification) (
	OutboundHrmpChannelLimitations, ModificationError) {
	outbound, ok := c.HrmpChannelsOut[id]
	if !ok {
		return OutboundHrmpChannelLimitations{}, NoSuchHrmpChannelError{ParaID: id}
	}

	bytesRemaining, ok := checkedSub(outbound.BytesRemaining, mod.BytesSubmitted)
	if !ok {
		return OutboundHrmpChannelLimitations{}, HrmpBytesOverflowError{
			ParaID:         id,
			BytesRemaining: outbound.BytesRemaining,
			BytesSubmitted: mod.BytesSubmitted,
		}
	}

	messagesRemaining, ok := checkedSub(outbound.MessagesRemaining, mod.MessagesSubmitted)
	if !ok {
		return OutboundHrmpChannelLimitations{}, HrmpMessagesOverflowError{
			ParaID:            id,
			MessagesRemaining: outbound.MessagesRemaining,
			MessagesSubmitted: mod.MessagesSubmitted,
		}
	}

	return OutboundHrmpChannelLimitations{
		BytesRemaining:    bytesRemaining,
		MessagesRemaining: messagesRemaining,
	}, nil
}

func (c *Constraints) umpAfter(modifications *ConstraintModifications) (
	messagesRemaining, bytesRemaining uint, err ModificationError) {
	messagesRemaining, ok := checkedSub(c.UmpRemaining, modifications.UmpMessagesSent)
	if !ok {
		return 0, 0, UmpMessagesOverflowError{
			MessagesRemaining: c.UmpRemaining,
			MessagesSubmitted: modifications.UmpMessagesSent,
		}
	}

	bytesRemaining, ok = checkedSub(c.UmpRemainingBytes, modifications.UmpBytesSent)
	if !ok {
		return 0, 0, UmpBytesOverflowError{
			BytesRemaining: c.UmpRemainingBytes,
			BytesSubmitted: modifications.UmpBytesSent,
		}
	}

	return messagesRemaining, bytesRemaining, nil
}

func (c *Constraints) dmpAfter(modifications *ConstraintModifications) (uint, ModificationError) {
	remaining, ok := checkedSub(c.DmpRemainingMessages, modifications.DmpMessagesProcessed)
	if !ok {
		return 0, DmpMessagesUnderflowError{
			MessagesRemaining: c.DmpRemainingMessages,
			MessagesProcessed: modifications.DmpMessagesProcessed,
		}
	}
	return remaining, nil
}

// checkedSub returns a - b, and false if it would underflow.
func checkedSub(a, b uint) (uint, bool) {
	diff, overflow := math.SafeSub(uint64(a), uint64(b))
	return uint(diff), !overflow
}

func sortedParaIDs[V any](m map[parachaintypes.ParaID]V) []parachaintypes.ParaID {
	ids := maps.Keys(m)
	slices.Sort(ids)
	return ids
}
