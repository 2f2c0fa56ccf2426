// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package scenario

// File is the TOML representation of a scenario.
type File struct {
	// Anchor is the hash of the relay-chain block the chain is built upon.
	Anchor string `toml:"anchor" validate:"required,hash"`
	// RevalidateAt is the hash of the relay-chain block to revalidate
	// the chain against once it is built, if any.
	RevalidateAt string `toml:"revalidate_at" validate:"omitempty,hash"`
	// MaxDepth is the maximum number of fragments of the chain, zero for unlimited.
	MaxDepth uint `toml:"max_depth"`
	// CodeUpgradeActivation selects when a pending code upgrade is applied
	// relative to its activation block.
	CodeUpgradeActivation string `toml:"code_upgrade_activation" validate:"omitempty,oneof=at-or-after after"`

	Blocks      []Block       `toml:"blocks" validate:"required,dive"`
	Constraints []Constraints `toml:"constraints" validate:"required,dive"`
	Candidates  []CandidateFile `toml:"candidates" validate:"dive"`
}

// Block is a relay-chain block.
type Block struct {
	Hash        string `toml:"hash" validate:"required,hash"`
	Number      uint32 `toml:"number"`
	StorageRoot string `toml:"storage_root" validate:"required,hash"`
}

// Constraints are the base constraints of the parachain as of a relay-chain block.
// The current validation code is given by its hash, by its bytes, or by both
// in which case they must match. The same goes for candidates.
type Constraints struct {
	RelayParent            string               `toml:"relay_parent" validate:"required,hash"`
	UmpRemaining           uint                 `toml:"ump_remaining"`
	UmpRemainingBytes      uint                 `toml:"ump_remaining_bytes"`
	DmpRemainingMessages   uint                 `toml:"dmp_remaining_messages"`
	ValidWatermarks        []uint32             `toml:"valid_watermarks"`
	HrmpChannelsOut        []HrmpChannel        `toml:"hrmp_channels_out" validate:"dive"`
	MaxPoVSize             uint32               `toml:"max_pov_size" validate:"required"`
	MaxHrmpNumPerCandidate uint                 `toml:"max_hrmp_num_per_candidate"`
	RequiredParent         string               `toml:"required_parent" validate:"required,hexbytes"`
	ValidationCodeHash     string               `toml:"validation_code_hash" validate:"omitempty,hash"`
	ValidationCode         string               `toml:"validation_code" validate:"omitempty,hexbytes"`
	GoAhead                string               `toml:"go_ahead"`
	UpgradeRestriction     string               `toml:"upgrade_restriction"`
	FutureValidationCode   FutureValidationCode `toml:"future_validation_code"`
}

// HrmpChannel are the limitations of an outbound HRMP channel.
type HrmpChannel struct {
	Recipient         uint32 `toml:"recipient"`
	BytesRemaining    uint   `toml:"bytes_remaining"`
	MessagesRemaining uint   `toml:"messages_remaining"`
}

// FutureValidationCode is a pending code upgrade. It is absent if its
// validation code hash is empty.
type FutureValidationCode struct {
	BlockNumber        uint32 `toml:"block_number"`
	ValidationCodeHash string `toml:"validation_code_hash" validate:"omitempty,hash"`
}

// CandidateFile is a prospective candidate built on a relay-chain block.
type CandidateFile struct {
	RelayParent string `toml:"relay_parent" validate:"required,hash"`

	HeadData                  string              `toml:"head_data" validate:"required,hexbytes"`
	HrmpWatermark             uint32              `toml:"hrmp_watermark"`
	ProcessedDownwardMessages uint32              `toml:"processed_downward_messages"`
	UpwardMessages            []string            `toml:"upward_messages" validate:"dive,hexbytes"`
	HorizontalMessages        []HorizontalMessage `toml:"horizontal_messages" validate:"dive"`
	NewValidationCode         string              `toml:"new_validation_code" validate:"omitempty,hexbytes"`

	Collator           string `toml:"collator" validate:"omitempty,hash"`
	CollatorSignature  string `toml:"collator_signature" validate:"omitempty,hexbytes,len=130"`
	PoVHash            string `toml:"pov_hash" validate:"omitempty,hash"`
	ValidationCodeHash string `toml:"validation_code_hash" validate:"omitempty,hash"`
	ValidationCode     string `toml:"validation_code" validate:"omitempty,hexbytes"`

	PersistedValidationData PersistedValidationData `toml:"persisted_validation_data"`
}

// HorizontalMessage is an outbound HRMP message.
type HorizontalMessage struct {
	Recipient uint32 `toml:"recipient"`
	Data      string `toml:"data" validate:"required,hexbytes"`
}

// PersistedValidationData is the validation data the candidate
// claims it was built against.
type PersistedValidationData struct {
	ParentHead             string `toml:"parent_head" validate:"required,hexbytes"`
	RelayParentNumber      uint32 `toml:"relay_parent_number"`
	RelayParentStorageRoot string `toml:"relay_parent_storage_root" validate:"required,hash"`
	MaxPoVSize             uint32 `toml:"max_pov_size" validate:"required"`
}
