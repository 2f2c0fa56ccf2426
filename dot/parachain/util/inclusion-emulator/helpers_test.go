// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package inclusionemulator

import (
	"testing"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
	"github.com/stretchr/testify/require"
)

const (
	paraA parachaintypes.ParaID = 1
	paraB parachaintypes.ParaID = 2
)

func ptrTo[T any](v T) *T {
	return &v
}

func validationCodeHash(t *testing.T, code []byte) parachaintypes.ValidationCodeHash {
	t.Helper()

	hash, err := parachaintypes.ValidationCode(code).Hash()
	require.NoError(t, err)
	return hash
}

func makeConstraints(t *testing.T) *Constraints {
	t.Helper()

	return &Constraints{
		UmpRemaining:         10,
		UmpRemainingBytes:    1024,
		DmpRemainingMessages: 5,
		HrmpInbound: InboundHrmpLimitations{
			ValidWatermarks: []parachaintypes.BlockNumber{6, 8},
		},
		HrmpChannelsOut: map[parachaintypes.ParaID]OutboundHrmpChannelLimitations{
			paraA: {BytesRemaining: 512, MessagesRemaining: 10},
		},
		MaxPoVSize:             1000,
		MaxHrmpNumPerCandidate: 5,
		RequiredParent:         parachaintypes.HeadData{Data: []byte{1, 2, 3}},
		ValidationCodeHash:     validationCodeHash(t, []byte{4, 5, 6}),
		GoAhead:                parachaintypes.NoGoAheadSignal,
		UpgradeRestriction:     parachaintypes.NoUpgradeRestriction,
	}
}

func makeRelayParent() RelayChainBlockInfo {
	return RelayChainBlockInfo{
		Hash:        common.Hash{0x0a},
		Number:      6,
		StorageRoot: common.Hash{0x0b},
	}
}

// makeCandidate returns a candidate which is valid under the given constraints
// when built on the given relay parent.
func makeCandidate(constraints *Constraints, relayParent RelayChainBlockInfo) ProspectiveCandidate {
	return ProspectiveCandidate{
		Commitments: parachaintypes.CandidateCommitments{
			HeadData:                  parachaintypes.HeadData{Data: []byte{1, 2, 3, 4}},
			ProcessedDownwardMessages: 0,
			HrmpWatermark:             relayParent.Number,
		},
		PersistedValidationData: parachaintypes.PersistedValidationData{
			ParentHead:             constraints.RequiredParent.Clone(),
			RelayParentNumber:      relayParent.Number,
			RelayParentStorageRoot: relayParent.StorageRoot,
			MaxPovSize:             constraints.MaxPoVSize,
		},
		PoVHash:            common.Hash{0x0c},
		ValidationCodeHash: constraints.ValidationCodeHash,
	}
}
