// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package inclusionemulator

import (
	"fmt"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
)

// ModificationError is the kind of error returned when modifications
// cannot be checked against or applied to constraints.
type ModificationError interface {
	error
	isModificationError()
}

var (
	_ ModificationError = DisallowedHrmpWatermarkError{}
	_ ModificationError = NoSuchHrmpChannelError{}
	_ ModificationError = HrmpMessagesOverflowError{}
	_ ModificationError = HrmpBytesOverflowError{}
	_ ModificationError = UmpMessagesOverflowError{}
	_ ModificationError = UmpBytesOverflowError{}
	_ ModificationError = DmpMessagesUnderflowError{}
	_ ModificationError = AppliedNonexistentCodeUpgradeError{}
)

// DisallowedHrmpWatermarkError is returned when the HRMP watermark is not
// one of the valid watermarks.
type DisallowedHrmpWatermarkError struct {
	BlockNumber parachaintypes.BlockNumber
}

func (DisallowedHrmpWatermarkError) isModificationError() {}

func (e DisallowedHrmpWatermarkError) Error() string {
	return fmt.Sprintf("disallowed HRMP watermark: %d", e.BlockNumber)
}

// NoSuchHrmpChannelError is returned when messages are sent to a recipient
// without an outbound HRMP channel.
type NoSuchHrmpChannelError struct {
	ParaID parachaintypes.ParaID
}

func (NoSuchHrmpChannelError) isModificationError() {}

func (e NoSuchHrmpChannelError) Error() string {
	return fmt.Sprintf("no such HRMP channel: para id %d", e.ParaID)
}

// HrmpMessagesOverflowError is returned when too many messages are submitted
// to an HRMP channel.
type HrmpMessagesOverflowError struct {
	ParaID            parachaintypes.ParaID
	MessagesRemaining uint
	MessagesSubmitted uint
}

func (HrmpMessagesOverflowError) isModificationError() {}

func (e HrmpMessagesOverflowError) Error() string {
	return fmt.Sprintf("HRMP messages overflow: para id %d, messages remaining %d, messages submitted %d",
		e.ParaID, e.MessagesRemaining, e.MessagesSubmitted)
}

// HrmpBytesOverflowError is returned when too many bytes are submitted
// to an HRMP channel.
type HrmpBytesOverflowError struct {
	ParaID         parachaintypes.ParaID
	BytesRemaining uint
	BytesSubmitted uint
}

func (HrmpBytesOverflowError) isModificationError() {}

func (e HrmpBytesOverflowError) Error() string {
	return fmt.Sprintf("HRMP bytes overflow: para id %d, bytes remaining %d, bytes submitted %d",
		e.ParaID, e.BytesRemaining, e.BytesSubmitted)
}

// UmpMessagesOverflowError is returned when too many messages are submitted to UMP.
type UmpMessagesOverflowError struct {
	MessagesRemaining uint
	MessagesSubmitted uint
}

func (UmpMessagesOverflowError) isModificationError() {}

func (e UmpMessagesOverflowError) Error() string {
	return fmt.Sprintf("UMP messages overflow: messages remaining %d, messages submitted %d",
		e.MessagesRemaining, e.MessagesSubmitted)
}

// UmpBytesOverflowError is returned when too many bytes are submitted to UMP.
type UmpBytesOverflowError struct {
	BytesRemaining uint
	BytesSubmitted uint
}

func (UmpBytesOverflowError) isModificationError() {}

func (e UmpBytesOverflowError) Error() string {
	return fmt.Sprintf("UMP bytes overflow: bytes remaining %d, bytes submitted %d",
		e.BytesRemaining, e.BytesSubmitted)
}

// DmpMessagesUnderflowError is returned when more DMP messages are processed
// than are waiting in the queue.
type DmpMessagesUnderflowError struct {
	MessagesRemaining uint
	MessagesProcessed uint
}

func (DmpMessagesUnderflowError) isModificationError() {}

func (e DmpMessagesUnderflowError) Error() string {
	return fmt.Sprintf("DMP messages underflow: messages remaining %d, messages processed %d",
		e.MessagesRemaining, e.MessagesProcessed)
}

// AppliedNonexistentCodeUpgradeError is returned when a code upgrade is
// applied but no future validation code is pending.
type AppliedNonexistentCodeUpgradeError struct{}

func (AppliedNonexistentCodeUpgradeError) isModificationError() {}

func (AppliedNonexistentCodeUpgradeError) Error() string {
	return "applied nonexistent code upgrade"
}

// FragmentValidityError is the kind of error returned when a candidate is
// not valid under a set of constraints.
type FragmentValidityError interface {
	error
	isFragmentValidityError()
}

var (
	_ FragmentValidityError = ValidationCodeMismatchError{}
	_ FragmentValidityError = PersistedValidationDataMismatchError{}
	_ FragmentValidityError = OutputsInvalidError{}
)

// ValidationCodeMismatchError is returned when the validation code of the
// candidate doesn't match the constraints.
type ValidationCodeMismatchError struct {
	Expected parachaintypes.ValidationCodeHash
	Got      parachaintypes.ValidationCodeHash
}

func (ValidationCodeMismatchError) isFragmentValidityError() {}

func (e ValidationCodeMismatchError) Error() string {
	return fmt.Sprintf("validation code mismatch: expected %s, got %s", e.Expected, e.Got)
}

// PersistedValidationDataMismatchError is returned when the persisted
// validation data of the candidate doesn't match the one derived from the
// constraints and relay parent.
type PersistedValidationDataMismatchError struct {
	Expected parachaintypes.PersistedValidationData
	Got      parachaintypes.PersistedValidationData
}

func (PersistedValidationDataMismatchError) isFragmentValidityError() {}

func (e PersistedValidationDataMismatchError) Error() string {
	return fmt.Sprintf("persisted validation data mismatch: expected %s, got %s", e.Expected, e.Got)
}

// OutputsInvalidError is returned when the outputs of the candidate are
// invalid under the constraints.
type OutputsInvalidError struct {
	ModificationError ModificationError
}

func (OutputsInvalidError) isFragmentValidityError() {}

func (e OutputsInvalidError) Error() string {
	return fmt.Sprintf("outputs invalid: %s", e.ModificationError)
}

func (e OutputsInvalidError) Unwrap() error {
	return e.ModificationError
}
