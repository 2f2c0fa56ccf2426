// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
	inclusionemulator "github.com/ChainSafe/inclusion-emulator/dot/parachain/util/inclusion-emulator"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
	"github.com/naoina/toml"
	"golang.org/x/exp/slices"
)

var (
	ErrUnknownBlock               = errors.New("unknown relay-chain block")
	ErrNoConstraints              = errors.New("no constraints for relay parent")
	ErrDuplicateBlock             = errors.New("duplicate relay-chain block")
	ErrDuplicateConstraints       = errors.New("duplicate constraints")
	ErrWatermarksNotAscending     = errors.New("valid watermarks are not strictly ascending")
	ErrUnknownUpgradeActivation   = errors.New("unknown code upgrade activation")
	ErrDuplicateHrmpChannel       = errors.New("duplicate outbound HRMP channel")
	ErrNoValidationCode           = errors.New("neither validation code nor its hash given")
	ErrValidationCodeHashMismatch = errors.New("validation code does not match its hash")
)

// Candidate is a prospective candidate together with the hash
// of the relay parent it is built on.
type Candidate struct {
	RelayParent common.Hash
	Candidate   inclusionemulator.ProspectiveCandidate
}

// Scenario is a decoded and validated scenario. It serves the relay-chain
// blocks and base constraints it describes.
type Scenario struct {
	anchor       common.Hash
	revalidateAt *common.Hash
	maxDepth     uint
	activation   inclusionemulator.CodeUpgradeActivation
	blocks       map[common.Hash]inclusionemulator.RelayChainBlockInfo
	constraints  map[common.Hash]*inclusionemulator.Constraints
	candidates   []Candidate
}

// Load reads, decodes and validates the scenario file at path.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario file: %w", err)
	}
	defer f.Close()

	scenario, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return scenario, nil
}

// Decode decodes and validates a TOML scenario.
func Decode(r io.Reader) (*Scenario, error) {
	var file File
	if err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}

	if err := newValidator().Struct(file); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}

	return fromFile(file)
}

func fromFile(file File) (*Scenario, error) {
	scenario := &Scenario{
		anchor:      common.MustHexToHash(file.Anchor),
		maxDepth:    file.MaxDepth,
		blocks:      make(map[common.Hash]inclusionemulator.RelayChainBlockInfo, len(file.Blocks)),
		constraints: make(map[common.Hash]*inclusionemulator.Constraints, len(file.Constraints)),
		candidates:  make([]Candidate, 0, len(file.Candidates)),
	}

	if file.RevalidateAt != "" {
		revalidateAt := common.MustHexToHash(file.RevalidateAt)
		scenario.revalidateAt = &revalidateAt
	}

	switch file.CodeUpgradeActivation {
	case "", "at-or-after":
		scenario.activation = inclusionemulator.ActivateAtOrAfter
	case "after":
		scenario.activation = inclusionemulator.ActivateAfter
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownUpgradeActivation, file.CodeUpgradeActivation)
	}

	for _, block := range file.Blocks {
		info := inclusionemulator.RelayChainBlockInfo{
			Hash:        common.MustHexToHash(block.Hash),
			Number:      parachaintypes.BlockNumber(block.Number),
			StorageRoot: common.MustHexToHash(block.StorageRoot),
		}
		if _, ok := scenario.blocks[info.Hash]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBlock, info.Hash)
		}
		scenario.blocks[info.Hash] = info
	}

	if _, ok := scenario.blocks[scenario.anchor]; !ok {
		return nil, fmt.Errorf("anchor: %w: %s", ErrUnknownBlock, scenario.anchor)
	}

	for i, c := range file.Constraints {
		relayParent := common.MustHexToHash(c.RelayParent)
		if _, ok := scenario.constraints[relayParent]; ok {
			return nil, fmt.Errorf("%w: relay parent %s", ErrDuplicateConstraints, relayParent)
		}

		constraints, err := c.toConstraints()
		if err != nil {
			return nil, fmt.Errorf("constraints %d: %w", i, err)
		}
		scenario.constraints[relayParent] = constraints
	}

	if _, ok := scenario.constraints[scenario.anchor]; !ok {
		return nil, fmt.Errorf("anchor: %w %s", ErrNoConstraints, scenario.anchor)
	}

	for i, c := range file.Candidates {
		candidate, err := c.toProspectiveCandidate()
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		scenario.candidates = append(scenario.candidates, Candidate{
			RelayParent: common.MustHexToHash(c.RelayParent),
			Candidate:   candidate,
		})
	}

	return scenario, nil
}

// Anchor returns the hash of the relay-chain block the chain is built upon.
func (s *Scenario) Anchor() common.Hash {
	return s.anchor
}

// RevalidateAt returns the hash of the relay-chain block to revalidate the
// chain against, and false if the scenario does not revalidate.
func (s *Scenario) RevalidateAt() (hash common.Hash, ok bool) {
	if s.revalidateAt == nil {
		return common.Hash{}, false
	}
	return *s.revalidateAt, true
}

// MaxDepth returns the maximum number of fragments of the chain, zero for unlimited.
func (s *Scenario) MaxDepth() uint {
	return s.maxDepth
}

// FragmentOptions returns the options to create fragments with.
func (s *Scenario) FragmentOptions() []inclusionemulator.FragmentOption {
	return []inclusionemulator.FragmentOption{
		inclusionemulator.WithCodeUpgradeActivation(s.activation),
	}
}

// Candidates returns the candidates of the scenario, in the order they
// extend the chain.
func (s *Scenario) Candidates() []Candidate {
	candidates := make([]Candidate, len(s.candidates))
	for i, c := range s.candidates {
		candidates[i] = Candidate{
			RelayParent: c.RelayParent,
			Candidate:   c.Candidate.Clone(),
		}
	}
	return candidates
}

// BlockInfo returns the relay-chain block with the given hash.
func (s *Scenario) BlockInfo(hash common.Hash) (inclusionemulator.RelayChainBlockInfo, error) {
	info, ok := s.blocks[hash]
	if !ok {
		return inclusionemulator.RelayChainBlockInfo{}, fmt.Errorf("%w: %s", ErrUnknownBlock, hash)
	}
	return info, nil
}

// BaseConstraints returns a copy of the base constraints as of the given relay parent.
func (s *Scenario) BaseConstraints(relayParent common.Hash) (*inclusionemulator.Constraints, error) {
	constraints, ok := s.constraints[relayParent]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoConstraints, relayParent)
	}
	return constraints.Clone(), nil
}

func (c Constraints) toConstraints() (*inclusionemulator.Constraints, error) {
	requiredParent, err := common.HexToBytes(c.RequiredParent)
	if err != nil {
		return nil, fmt.Errorf("required parent: %w", err)
	}

	codeHash, err := validationCodeHash(c.ValidationCode, c.ValidationCodeHash)
	if err != nil {
		return nil, err
	}

	goAhead, err := parachaintypes.ParseUpgradeGoAhead(c.GoAhead)
	if err != nil {
		return nil, err
	}

	upgradeRestriction, err := parachaintypes.ParseUpgradeRestriction(c.UpgradeRestriction)
	if err != nil {
		return nil, err
	}

	watermarks := make([]parachaintypes.BlockNumber, len(c.ValidWatermarks))
	for i, watermark := range c.ValidWatermarks {
		watermarks[i] = parachaintypes.BlockNumber(watermark)
	}
	if !isStrictlyAscending(watermarks) {
		return nil, fmt.Errorf("%w: %v", ErrWatermarksNotAscending, c.ValidWatermarks)
	}

	channels := make(map[parachaintypes.ParaID]inclusionemulator.OutboundHrmpChannelLimitations,
		len(c.HrmpChannelsOut))
	for _, channel := range c.HrmpChannelsOut {
		recipient := parachaintypes.ParaID(channel.Recipient)
		if _, ok := channels[recipient]; ok {
			return nil, fmt.Errorf("%w: recipient %d", ErrDuplicateHrmpChannel, recipient)
		}
		channels[recipient] = inclusionemulator.OutboundHrmpChannelLimitations{
			BytesRemaining:    channel.BytesRemaining,
			MessagesRemaining: channel.MessagesRemaining,
		}
	}

	constraints := &inclusionemulator.Constraints{
		UmpRemaining:         c.UmpRemaining,
		UmpRemainingBytes:    c.UmpRemainingBytes,
		DmpRemainingMessages: c.DmpRemainingMessages,
		HrmpInbound: inclusionemulator.InboundHrmpLimitations{
			ValidWatermarks: watermarks,
		},
		HrmpChannelsOut:        channels,
		MaxPoVSize:             c.MaxPoVSize,
		MaxHrmpNumPerCandidate: c.MaxHrmpNumPerCandidate,
		RequiredParent:         parachaintypes.HeadData{Data: requiredParent},
		ValidationCodeHash:     codeHash,
		GoAhead:                goAhead,
		UpgradeRestriction:     upgradeRestriction,
	}

	if c.FutureValidationCode.ValidationCodeHash != "" {
		futureHash, err := common.HexToHash(c.FutureValidationCode.ValidationCodeHash)
		if err != nil {
			return nil, fmt.Errorf("future validation code hash: %w", err)
		}
		constraints.FutureValidationCode = &inclusionemulator.FutureValidationCode{
			BlockNumber:        parachaintypes.BlockNumber(c.FutureValidationCode.BlockNumber),
			ValidationCodeHash: parachaintypes.ValidationCodeHash(futureHash),
		}
	}

	return constraints, nil
}

func (c CandidateFile) toProspectiveCandidate() (candidate inclusionemulator.ProspectiveCandidate, err error) {
	headData, err := common.HexToBytes(c.HeadData)
	if err != nil {
		return candidate, fmt.Errorf("head data: %w", err)
	}

	commitments := parachaintypes.CandidateCommitments{
		HeadData:                  parachaintypes.HeadData{Data: headData},
		ProcessedDownwardMessages: c.ProcessedDownwardMessages,
		HrmpWatermark:             parachaintypes.BlockNumber(c.HrmpWatermark),
	}

	for i, message := range c.UpwardMessages {
		data, err := common.HexToBytes(message)
		if err != nil {
			return candidate, fmt.Errorf("upward message %d: %w", i, err)
		}
		commitments.UpwardMessages = append(commitments.UpwardMessages, data)
	}

	for i, message := range c.HorizontalMessages {
		data, err := common.HexToBytes(message.Data)
		if err != nil {
			return candidate, fmt.Errorf("horizontal message %d: %w", i, err)
		}
		commitments.HorizontalMessages = append(commitments.HorizontalMessages,
			parachaintypes.OutboundHrmpMessage{
				Recipient: parachaintypes.ParaID(message.Recipient),
				Data:      data,
			})
	}

	if c.NewValidationCode != "" {
		code, err := common.HexToBytes(c.NewValidationCode)
		if err != nil {
			return candidate, fmt.Errorf("new validation code: %w", err)
		}
		validationCode := parachaintypes.ValidationCode(code)
		commitments.NewValidationCode = &validationCode
	}

	parentHead, err := common.HexToBytes(c.PersistedValidationData.ParentHead)
	if err != nil {
		return candidate, fmt.Errorf("parent head: %w", err)
	}

	codeHash, err := validationCodeHash(c.ValidationCode, c.ValidationCodeHash)
	if err != nil {
		return candidate, err
	}

	candidate = inclusionemulator.ProspectiveCandidate{
		Commitments: commitments,
		PersistedValidationData: parachaintypes.PersistedValidationData{
			ParentHead:             parachaintypes.HeadData{Data: parentHead},
			RelayParentNumber:      parachaintypes.BlockNumber(c.PersistedValidationData.RelayParentNumber),
			RelayParentStorageRoot: common.MustHexToHash(c.PersistedValidationData.RelayParentStorageRoot),
			MaxPovSize:             c.PersistedValidationData.MaxPoVSize,
		},
		ValidationCodeHash: codeHash,
	}

	if c.Collator != "" {
		copy(candidate.Collator[:], common.MustHexToBytes(c.Collator))
	}
	if c.CollatorSignature != "" {
		copy(candidate.CollatorSignature[:], common.MustHexToBytes(c.CollatorSignature))
	}
	if c.PoVHash != "" {
		candidate.PoVHash = common.MustHexToHash(c.PoVHash)
	}

	return candidate, nil
}

// validationCodeHash returns the hash of the validation code given as hex,
// or the validation code hash given as hex if there is no code.
// If both are given, the code must hash to the hash given.
func validationCodeHash(code, hash string) (parachaintypes.ValidationCodeHash, error) {
	if code == "" {
		if hash == "" {
			return parachaintypes.ValidationCodeHash{}, ErrNoValidationCode
		}
		parsed, err := common.ParseHash(hash)
		if err != nil {
			return parachaintypes.ValidationCodeHash{}, fmt.Errorf("validation code hash: %w", err)
		}
		return parachaintypes.ValidationCodeHash(parsed), nil
	}

	codeBytes, err := common.HexToBytes(code)
	if err != nil {
		return parachaintypes.ValidationCodeHash{}, fmt.Errorf("validation code: %w", err)
	}
	computed, err := parachaintypes.ValidationCode(codeBytes).Hash()
	if err != nil {
		return parachaintypes.ValidationCodeHash{}, fmt.Errorf("hashing validation code: %w", err)
	}

	if hash != "" && common.MustHexToHash(hash) != common.Hash(computed) {
		return parachaintypes.ValidationCodeHash{}, fmt.Errorf("%w: code hashes to %s, not %s",
			ErrValidationCodeHashMismatch, computed, hash)
	}
	return computed, nil
}

func isStrictlyAscending(watermarks []parachaintypes.BlockNumber) bool {
	if !slices.IsSorted(watermarks) {
		return false
	}
	return len(slices.Compact(slices.Clone(watermarks))) == len(watermarks)
}
