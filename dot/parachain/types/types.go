// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package parachaintypes

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
)

// BlockNumber is a relay-chain block number.
type BlockNumber uint32

// ParaID is the unique identifier of a parachain.
type ParaID uint32

// HeadData is parachain head data included in the chain.
type HeadData struct {
	Data []byte `scale:"1"`
}

// Equal returns true if both head data hold the same bytes.
func (hd HeadData) Equal(other HeadData) bool {
	return bytes.Equal(hd.Data, other.Data)
}

// Clone returns a deep copy of the head data.
func (hd HeadData) Clone() HeadData {
	return HeadData{Data: bytes.Clone(hd.Data)}
}

func (hd HeadData) String() string {
	return common.BytesToHex(hd.Data)
}

// ValidationCode is Parachain validation code.
type ValidationCode []byte

// Hash returns the hash of the validation code.
func (vc ValidationCode) Hash() (ValidationCodeHash, error) {
	h, err := common.Blake2bHash(vc)
	if err != nil {
		return ValidationCodeHash{}, err
	}
	return ValidationCodeHash(h), nil
}

// ValidationCodeHash is the blake2-256 hash of the validation code bytes.
type ValidationCodeHash common.Hash

func (v ValidationCodeHash) String() string {
	return common.Hash(v).String()
}

// UpwardMessage is a message from a parachain to its Relay Chain.
type UpwardMessage []byte

// OutboundHrmpMessage is an HRMP message seen from the perspective of a sender.
type OutboundHrmpMessage struct {
	Recipient ParaID `scale:"1"`
	Data      []byte `scale:"2"`
}

// CollatorID is the sr25519 public key of a collator.
type CollatorID [32]byte

// CollatorSignature is the sr25519 signature of a collator over a candidate descriptor.
type CollatorSignature [64]byte

// CandidateCommitments are the commitments made by a parachain candidate,
// i.e. the declared outputs of its execution.
type CandidateCommitments struct {
	// Messages destined to be interpreted by the Relay chain itself.
	UpwardMessages []UpwardMessage `scale:"1"`
	// Horizontal messages sent by the parachain.
	HorizontalMessages []OutboundHrmpMessage `scale:"2"`
	// New validation code.
	NewValidationCode *ValidationCode `scale:"3"`
	// The head-data produced as a result of execution.
	HeadData HeadData `scale:"4"`
	// The number of messages processed from the DMQ.
	ProcessedDownwardMessages uint32 `scale:"5"`
	// The mark which specifies the block number up to which all inbound HRMP messages are processed.
	HrmpWatermark BlockNumber `scale:"6"`
}

// Clone returns a deep copy of the commitments.
func (cc CandidateCommitments) Clone() CandidateCommitments {
	clone := CandidateCommitments{
		HeadData:                  cc.HeadData.Clone(),
		ProcessedDownwardMessages: cc.ProcessedDownwardMessages,
		HrmpWatermark:             cc.HrmpWatermark,
	}

	if cc.UpwardMessages != nil {
		clone.UpwardMessages = make([]UpwardMessage, len(cc.UpwardMessages))
		for i, msg := range cc.UpwardMessages {
			clone.UpwardMessages[i] = bytes.Clone(msg)
		}
	}

	if cc.HorizontalMessages != nil {
		clone.HorizontalMessages = make([]OutboundHrmpMessage, len(cc.HorizontalMessages))
		for i, msg := range cc.HorizontalMessages {
			clone.HorizontalMessages[i] = OutboundHrmpMessage{
				Recipient: msg.Recipient,
				Data:      bytes.Clone(msg.Data),
			}
		}
	}

	if cc.NewValidationCode != nil {
		code := ValidationCode(bytes.Clone(*cc.NewValidationCode))
		clone.NewValidationCode = &code
	}

	return clone
}

// Hash returns the blake2b hash of the SCALE encoded commitments.
func (cc CandidateCommitments) Hash() (common.Hash, error) {
	encoded, err := scale.Marshal(cc)
	if err != nil {
		return common.Hash{}, fmt.Errorf("scale encoding candidate commitments: %w", err)
	}
	return common.Blake2bHash(encoded)
}

// PersistedValidationData provides information about how to create the inputs for the validation
// of a candidate by calling the Runtime.
// This information is derived from the parachain state and will vary from parachain to parachain,
// although some of the fields may be the same for every parachain.
type PersistedValidationData struct {
	// The parent head-data
	ParentHead HeadData `scale:"1"`

	// The relay-chain block number this is in the context of
	RelayParentNumber BlockNumber `scale:"2"`

	// The relay-chain block storage root this is in the context of
	RelayParentStorageRoot common.Hash `scale:"3"`

	// The maximum legal size of a POV block, in bytes
	MaxPovSize uint32 `scale:"4"`
}

// Equal compares every field of the persisted validation data.
func (pvd PersistedValidationData) Equal(other PersistedValidationData) bool {
	return pvd.ParentHead.Equal(other.ParentHead) &&
		pvd.RelayParentNumber == other.RelayParentNumber &&
		pvd.RelayParentStorageRoot == other.RelayParentStorageRoot &&
		pvd.MaxPovSize == other.MaxPovSize
}

// Clone returns a deep copy of the persisted validation data.
func (pvd PersistedValidationData) Clone() PersistedValidationData {
	clone := pvd
	clone.ParentHead = pvd.ParentHead.Clone()
	return clone
}

// Hash returns the blake2b hash of the SCALE encoded persisted validation data.
func (pvd PersistedValidationData) Hash() (common.Hash, error) {
	encoded, err := scale.Marshal(pvd)
	if err != nil {
		return common.Hash{}, fmt.Errorf("scale encoding persisted validation data: %w", err)
	}
	return common.Blake2bHash(encoded)
}

func (pvd PersistedValidationData) String() string {
	return fmt.Sprintf("PersistedValidationData{ParentHead: %s, RelayParentNumber: %d, "+
		"RelayParentStorageRoot: %s, MaxPovSize: %d}",
		pvd.ParentHead, pvd.RelayParentNumber, pvd.RelayParentStorageRoot, pvd.MaxPovSize)
}
