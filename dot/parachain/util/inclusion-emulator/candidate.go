// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package inclusionemulator

import (
	"fmt"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
)

// RelayChainBlockInfo contains minimum information about a relay-chain block.
type RelayChainBlockInfo struct {
	// The hash of the relay-chain block.
	Hash common.Hash
	// The number of the relay-chain block.
	Number parachaintypes.BlockNumber
	// The storage-root of the relay-chain block.
	StorageRoot common.Hash
}

func (r RelayChainBlockInfo) String() string {
	return fmt.Sprintf("#%d (%s)", r.Number, r.Hash.Short())
}

// ProspectiveCandidate is a parachain candidate as seen by the inclusion
// emulator. It is authored and signed by a collator and is treated as
// opaque input.
type ProspectiveCandidate struct {
	// The commitments to the output of the execution.
	Commitments parachaintypes.CandidateCommitments
	// The collator that created the candidate.
	Collator parachaintypes.CollatorID
	// The signature of the collator on the payload.
	CollatorSignature parachaintypes.CollatorSignature
	// The persisted validation data used to create the candidate.
	PersistedValidationData parachaintypes.PersistedValidationData
	// The hash of the PoV.
	PoVHash common.Hash
	// The validation code hash used by the candidate.
	ValidationCodeHash parachaintypes.ValidationCodeHash
}

// Clone returns a deep copy of the candidate.
func (pc ProspectiveCandidate) Clone() ProspectiveCandidate {
	clone := pc
	clone.Commitments = pc.Commitments.Clone()
	clone.PersistedValidationData = pc.PersistedValidationData.Clone()
	return clone
}
