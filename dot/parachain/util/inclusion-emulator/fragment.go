// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package inclusionemulator

import (
	"errors"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
)

// ErrNilConstraints is returned when a fragment is created or validated
// without constraints.
var ErrNilConstraints = errors.New("constraints are nil")

// CodeUpgradeActivation reports whether a pending code upgrade which activates
// at the given block number is applied by a candidate built on a relay parent
// with the given number.
type CodeUpgradeActivation func(activation, relayParentNumber parachaintypes.BlockNumber) bool

// ActivateAtOrAfter applies the upgrade from the activation block onwards.
// This is the default.
func ActivateAtOrAfter(activation, relayParentNumber parachaintypes.BlockNumber) bool {
	return relayParentNumber >= activation
}

// ActivateAfter applies the upgrade strictly after the activation block.
func ActivateAfter(activation, relayParentNumber parachaintypes.BlockNumber) bool {
	return relayParentNumber > activation
}

type fragmentSettings struct {
	codeUpgradeActivation CodeUpgradeActivation
}

// FragmentOption configures how a fragment derives its modifications.
type FragmentOption func(s *fragmentSettings)

// WithCodeUpgradeActivation sets the rule deciding whether the pending
// code upgrade is applied by the candidate.
func WithCodeUpgradeActivation(activation CodeUpgradeActivation) FragmentOption {
	return func(s *fragmentSettings) {
		if activation != nil {
			s.codeUpgradeActivation = activation
		}
	}
}

// Fragment is a prospective parachain block anchored to a relay parent.
// A Fragment can only be obtained through NewFragment, which guarantees that
// the candidate is valid under the operating constraints. It never changes
// after construction and its accessors return copies.
type Fragment struct {
	// The new relay-parent.
	relayParent RelayChainBlockInfo
	// The constraints this fragment is operating under.
	operatingConstraints *Constraints
	// The core information about the prospective candidate.
	candidate ProspectiveCandidate
	// Modifications to the constraints based on the outputs of the candidate.
	modifications *ConstraintModifications
}

// NewFragment creates a new Fragment. This fails if the fragment isn't in line
// with the operating constraints. That is, either its inputs or outputs fail
// checks against the constraints.
// This does not check that the collator signature is valid or whether the PoV is
// small enough.
func NewFragment(
	relayParent RelayChainBlockInfo,
	operatingConstraints *Constraints,
	candidate ProspectiveCandidate,
	options ...FragmentOption,
) (*Fragment, error) {
	if operatingConstraints == nil {
		return nil, ErrNilConstraints
	}

	settings := fragmentSettings{codeUpgradeActivation: ActivateAtOrAfter}
	for _, option := range options {
		option(&settings)
	}

	modifications := deriveModifications(relayParent, operatingConstraints, candidate.Commitments,
		settings.codeUpgradeActivation)

	err := validateAgainstConstraints(operatingConstraints, relayParent, candidate, modifications)
	if err != nil {
		return nil, err
	}

	return &Fragment{
		relayParent:          relayParent,
		operatingConstraints: operatingConstraints.Clone(),
		candidate:            candidate.Clone(),
		modifications:        modifications,
	}, nil
}

// RelayParent returns the relay parent the fragment is anchored to.
func (f *Fragment) RelayParent() RelayChainBlockInfo {
	return f.relayParent
}

// OperatingConstraints returns a copy of the constraints this fragment operates under.
func (f *Fragment) OperatingConstraints() *Constraints {
	return f.operatingConstraints.Clone()
}

// Candidate returns a copy of the underlying prospective candidate.
func (f *Fragment) Candidate() ProspectiveCandidate {
	return f.candidate.Clone()
}

// ConstraintModifications returns a copy of the modifications to constraints
// based on the outputs of the candidate.
func (f *Fragment) ConstraintModifications() *ConstraintModifications {
	return f.modifications.Clone()
}

// ValidateAgainstConstraints validates this fragment against some set of
// constraints instead of the operating constraints.
func (f *Fragment) ValidateAgainstConstraints(constraints *Constraints) error {
	if constraints == nil {
		return ErrNilConstraints
	}
	return validateAgainstConstraints(constraints, f.relayParent, f.candidate, f.modifications)
}

func deriveModifications(
	relayParent RelayChainBlockInfo,
	operatingConstraints *Constraints,
	commitments parachaintypes.CandidateCommitments,
	codeUpgradeActivation CodeUpgradeActivation,
) *ConstraintModifications {
	outboundHrmp := make(map[parachaintypes.ParaID]OutboundHrmpChannelModification)
	for _, message := range commitments.HorizontalMessages {
		record := outboundHrmp[message.Recipient]
		record.BytesSubmitted += uint(len(message.Data))
		record.MessagesSubmitted++
		outboundHrmp[message.Recipient] = record
	}

	var umpBytesSent uint
	for _, message := range commitments.UpwardMessages {
		umpBytesSent += uint(len(message))
	}

	codeUpgradeApplied := false
	if operatingConstraints.FutureValidationCode != nil {
		codeUpgradeApplied = codeUpgradeActivation(
			operatingConstraints.FutureValidationCode.BlockNumber, relayParent.Number)
	}

	requiredParent := commitments.HeadData.Clone()
	hrmpWatermark := commitments.HrmpWatermark

	return &ConstraintModifications{
		RequiredParent:       &requiredParent,
		HrmpWatermark:        &hrmpWatermark,
		OutboundHrmp:         outboundHrmp,
		UmpMessagesSent:      uint(len(commitments.UpwardMessages)),
		UmpBytesSent:         umpBytesSent,
		DmpMessagesProcessed: uint(commitments.ProcessedDownwardMessages),
		CodeUpgradeApplied:   codeUpgradeApplied,
	}
}

func validateAgainstConstraints(
	constraints *Constraints,
	relayParent RelayChainBlockInfo,
	candidate ProspectiveCandidate,
	modifications *ConstraintModifications,
) error {
	expectedPVD := parachaintypes.PersistedValidationData{
		ParentHead:             constraints.RequiredParent.Clone(),
		RelayParentNumber:      relayParent.Number,
		RelayParentStorageRoot: relayParent.StorageRoot,
		MaxPovSize:             constraints.MaxPoVSize,
	}

	if !expectedPVD.Equal(candidate.PersistedValidationData) {
		return PersistedValidationDataMismatchError{
			Expected: expectedPVD,
			Got:      candidate.PersistedValidationData.Clone(),
		}
	}

	if constraints.ValidationCodeHash != candidate.ValidationCodeHash {
		return ValidationCodeMismatchError{
			Expected: constraints.ValidationCodeHash,
			Got:      candidate.ValidationCodeHash,
		}
	}

	if err := constraints.checkModifications(modifications); err != nil {
		return OutputsInvalidError{ModificationError: err}
	}

	return nil
}
