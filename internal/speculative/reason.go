// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package speculative

import (
	"errors"

	inclusionemulator "github.com/ChainSafe/inclusion-emulator/dot/parachain/util/inclusion-emulator"
)

const (
	// ReasonValid is the reason reported for a fragment which passed validation.
	ReasonValid = "valid"
	// ReasonSubsumed is the reason reported for a fragment already included
	// in the chain of the new anchor.
	ReasonSubsumed = "subsumed"
)

// RejectionReason maps an error to a short stable label, usable as a
// metric label value. It returns ReasonValid for a nil error.
func RejectionReason(err error) string {
	if err == nil {
		return ReasonValid
	}

	var modificationErr inclusionemulator.ModificationError
	var pvdMismatchErr inclusionemulator.PersistedValidationDataMismatchError
	var codeMismatchErr inclusionemulator.ValidationCodeMismatchError

	switch {
	case errors.As(err, &modificationErr):
		return modificationReason(modificationErr)
	case errors.As(err, &pvdMismatchErr):
		return "persisted_validation_data_mismatch"
	case errors.As(err, &codeMismatchErr):
		return "validation_code_mismatch"
	case errors.Is(err, ErrRelayParentMovedBackwards):
		return "relay_parent_moved_backwards"
	case errors.Is(err, ErrChainFull):
		return "chain_full"
	case errors.Is(err, ErrUnknownRelayParent):
		return "unknown_relay_parent"
	case errors.Is(err, ErrAncestorInvalidated):
		return "ancestor_invalidated"
	default:
		return "other"
	}
}

func modificationReason(err inclusionemulator.ModificationError) string {
	switch err.(type) {
	case inclusionemulator.DisallowedHrmpWatermarkError:
		return "disallowed_hrmp_watermark"
	case inclusionemulator.NoSuchHrmpChannelError:
		return "no_such_hrmp_channel"
	case inclusionemulator.HrmpMessagesOverflowError:
		return "hrmp_messages_overflow"
	case inclusionemulator.HrmpBytesOverflowError:
		return "hrmp_bytes_overflow"
	case inclusionemulator.UmpMessagesOverflowError:
		return "ump_messages_overflow"
	case inclusionemulator.UmpBytesOverflowError:
		return "ump_bytes_overflow"
	case inclusionemulator.DmpMessagesUnderflowError:
		return "dmp_messages_underflow"
	case inclusionemulator.AppliedNonexistentCodeUpgradeError:
		return "applied_nonexistent_code_upgrade"
	default:
		return "other"
	}
}
