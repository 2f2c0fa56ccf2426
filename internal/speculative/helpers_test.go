// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package speculative

import (
	"io"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
	inclusionemulator "github.com/ChainSafe/inclusion-emulator/dot/parachain/util/inclusion-emulator"
	"github.com/ChainSafe/inclusion-emulator/internal/log"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
)

func init() {
	logger.Patch(log.SetWriter(io.Discard))
}

var (
	blockA = inclusionemulator.RelayChainBlockInfo{
		Hash:        common.Hash{0xa},
		Number:      6,
		StorageRoot: common.Hash{0xa, 0x1},
	}
	blockB = inclusionemulator.RelayChainBlockInfo{
		Hash:        common.Hash{0xb},
		Number:      8,
		StorageRoot: common.Hash{0xb, 0x1},
	}
)

func makeBaseConstraints() *inclusionemulator.Constraints {
	return &inclusionemulator.Constraints{
		UmpRemaining:         10,
		UmpRemainingBytes:    1024,
		DmpRemainingMessages: 5,
		HrmpInbound: inclusionemulator.InboundHrmpLimitations{
			ValidWatermarks: []parachaintypes.BlockNumber{6, 8},
		},
		HrmpChannelsOut: map[parachaintypes.ParaID]inclusionemulator.OutboundHrmpChannelLimitations{
			2: {BytesRemaining: 512, MessagesRemaining: 10},
		},
		MaxPoVSize:             1000,
		MaxHrmpNumPerCandidate: 5,
		RequiredParent:         parachaintypes.HeadData{Data: []byte{1}},
		ValidationCodeHash:     parachaintypes.ValidationCodeHash{0xc0},
	}
}

// makeCandidate returns a candidate producing the head given, built on the
// parent head and relay parent given.
func makeCandidate(parent, head byte, relayParent inclusionemulator.RelayChainBlockInfo,
	upwardMessages ...parachaintypes.UpwardMessage) inclusionemulator.ProspectiveCandidate {
	return inclusionemulator.ProspectiveCandidate{
		Commitments: parachaintypes.CandidateCommitments{
			UpwardMessages: upwardMessages,
			HeadData:       parachaintypes.HeadData{Data: []byte{head}},
			HrmpWatermark:  relayParent.Number,
		},
		PersistedValidationData: parachaintypes.PersistedValidationData{
			ParentHead:             parachaintypes.HeadData{Data: []byte{parent}},
			RelayParentNumber:      relayParent.Number,
			RelayParentStorageRoot: relayParent.StorageRoot,
			MaxPovSize:             1000,
		},
		ValidationCodeHash: parachaintypes.ValidationCodeHash{0xc0},
	}
}
