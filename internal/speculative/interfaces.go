// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package speculative

import (
	inclusionemulator "github.com/ChainSafe/inclusion-emulator/dot/parachain/util/inclusion-emulator"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
)

// ConstraintsLoader provides the base constraints of the parachain
// as of a relay-chain block.
type ConstraintsLoader interface {
	BaseConstraints(relayParent common.Hash) (*inclusionemulator.Constraints, error)
}

// RelayChain provides information about relay-chain blocks.
type RelayChain interface {
	BlockInfo(hash common.Hash) (inclusionemulator.RelayChainBlockInfo, error)
}

// Metrics records the outcome of extending and revalidating chains.
type Metrics interface {
	FragmentAccepted()
	FragmentRejected(reason string)
	Revalidated(result string)
}
