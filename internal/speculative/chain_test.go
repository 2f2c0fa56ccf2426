// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package speculative

import (
	"errors"
	"sync"
	"testing"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
	inclusionemulator "github.com/ChainSafe/inclusion-emulator/dot/parachain/util/inclusion-emulator"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errTest = errors.New("test error")

func Test_NewChain(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		relayChainBuilder func(ctrl *gomock.Controller) RelayChain
		loaderBuilder     func(ctrl *gomock.Controller) ConstraintsLoader
		errWrapped        error
		errMessage        string
	}{
		"block_info_error": {
			relayChainBuilder: func(ctrl *gomock.Controller) RelayChain {
				relayChain := NewMockRelayChain(ctrl)
				relayChain.EXPECT().BlockInfo(blockA.Hash).
					Return(inclusionemulator.RelayChainBlockInfo{}, errTest)
				return relayChain
			},
			loaderBuilder: func(ctrl *gomock.Controller) ConstraintsLoader {
				return NewMockConstraintsLoader(ctrl)
			},
			errWrapped: errTest,
			errMessage: "getting block info of anchor " + blockA.Hash.String() + ": test error",
		},
		"base_constraints_error": {
			relayChainBuilder: func(ctrl *gomock.Controller) RelayChain {
				relayChain := NewMockRelayChain(ctrl)
				relayChain.EXPECT().BlockInfo(blockA.Hash).Return(blockA, nil)
				return relayChain
			},
			loaderBuilder: func(ctrl *gomock.Controller) ConstraintsLoader {
				loader := NewMockConstraintsLoader(ctrl)
				loader.EXPECT().BaseConstraints(blockA.Hash).Return(nil, errTest)
				return loader
			},
			errWrapped: errTest,
			errMessage: "loading base constraints of anchor " + blockA.Hash.String() + ": test error",
		},
		"success": {
			relayChainBuilder: func(ctrl *gomock.Controller) RelayChain {
				relayChain := NewMockRelayChain(ctrl)
				relayChain.EXPECT().BlockInfo(blockA.Hash).Return(blockA, nil)
				return relayChain
			},
			loaderBuilder: func(ctrl *gomock.Controller) ConstraintsLoader {
				loader := NewMockConstraintsLoader(ctrl)
				loader.EXPECT().BaseConstraints(blockA.Hash).Return(makeBaseConstraints(), nil)
				return loader
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			chain, err := NewChain(blockA.Hash, testCase.loaderBuilder(ctrl),
				testCase.relayChainBuilder(ctrl), NewMockMetrics(ctrl))

			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errWrapped != nil {
				assert.EqualError(t, err, testCase.errMessage)
				assert.Nil(t, chain)
				return
			}

			assert.Equal(t, blockA, chain.Anchor())
			assert.Equal(t, 0, chain.Len())
			assert.Empty(t, chain.Fragments())

			operatingConstraints, err := chain.OperatingConstraints()
			require.NoError(t, err)
			assert.Equal(t, makeBaseConstraints(), operatingConstraints)
		})
	}
}

// newTestChain returns a chain anchored at block A, knowing blocks A and B.
func newTestChain(t *testing.T, ctrl *gomock.Controller, metrics Metrics, options ...Option) *Chain {
	t.Helper()

	relayChain := NewMockRelayChain(ctrl)
	relayChain.EXPECT().BlockInfo(blockA.Hash).Return(blockA, nil).AnyTimes()
	relayChain.EXPECT().BlockInfo(blockB.Hash).Return(blockB, nil).AnyTimes()

	loader := NewMockConstraintsLoader(ctrl)
	loader.EXPECT().BaseConstraints(blockA.Hash).Return(makeBaseConstraints(), nil)

	chain, err := NewChain(blockA.Hash, loader, relayChain, metrics, options...)
	require.NoError(t, err)
	return chain
}

func Test_Chain_Extend(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().FragmentAccepted().Times(2)
	chain := newTestChain(t, ctrl, metrics)

	first, err := chain.Extend(blockA.Hash, makeCandidate(1, 2, blockA, parachaintypes.UpwardMessage{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, blockA, first.RelayParent())

	second, err := chain.Extend(blockB.Hash, makeCandidate(2, 3, blockB))
	require.NoError(t, err)
	assert.Equal(t, blockB, second.RelayParent())

	assert.Equal(t, 2, chain.Len())
	assert.Equal(t, []*inclusionemulator.Fragment{first, second}, chain.Fragments())

	expected := makeBaseConstraints()
	expected.RequiredParent = parachaintypes.HeadData{Data: []byte{3}}
	expected.UmpRemaining = 9
	expected.UmpRemainingBytes = 1022

	operatingConstraints, err := chain.OperatingConstraints()
	require.NoError(t, err)
	assert.Equal(t, expected.RequiredParent, operatingConstraints.RequiredParent)
	assert.Empty(t, operatingConstraints.HrmpInbound.ValidWatermarks)
	assert.Equal(t, expected.UmpRemaining, operatingConstraints.UmpRemaining)
	assert.Equal(t, expected.UmpRemainingBytes, operatingConstraints.UmpRemainingBytes)
	assert.Equal(t, expected.HrmpChannelsOut, operatingConstraints.HrmpChannelsOut)
}

func Test_Chain_Extend_rejections(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		candidate   inclusionemulator.ProspectiveCandidate
		relayParent common.Hash
		reason      string
		errAs       interface{}
		errMessage  string
	}{
		"wrong_parent_head": {
			candidate:   makeCandidate(9, 2, blockA),
			relayParent: blockA.Hash,
			reason:      "persisted_validation_data_mismatch",
			errAs:       &inclusionemulator.PersistedValidationDataMismatchError{},
		},
		"ump_messages_overflow": {
			candidate: makeCandidate(1, 2, blockA,
				parachaintypes.UpwardMessage{1}, parachaintypes.UpwardMessage{2},
				parachaintypes.UpwardMessage{3}, parachaintypes.UpwardMessage{4},
				parachaintypes.UpwardMessage{5}, parachaintypes.UpwardMessage{6},
				parachaintypes.UpwardMessage{7}, parachaintypes.UpwardMessage{8},
				parachaintypes.UpwardMessage{9}, parachaintypes.UpwardMessage{10},
				parachaintypes.UpwardMessage{11}),
			relayParent: blockA.Hash,
			reason:      "ump_messages_overflow",
			errAs:       &inclusionemulator.OutputsInvalidError{},
			errMessage: "creating fragment: outputs invalid: " +
				"UMP messages overflow: messages remaining 10, messages submitted 11",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			metrics := NewMockMetrics(ctrl)
			metrics.EXPECT().FragmentRejected(testCase.reason)
			chain := newTestChain(t, ctrl, metrics)

			fragment, err := chain.Extend(testCase.relayParent, testCase.candidate)

			assert.Nil(t, fragment)
			assert.ErrorAs(t, err, testCase.errAs)
			if testCase.errMessage != "" {
				assert.EqualError(t, err, testCase.errMessage)
			}
			assert.Equal(t, 0, chain.Len())

			operatingConstraints, err := chain.OperatingConstraints()
			require.NoError(t, err)
			assert.Equal(t, makeBaseConstraints(), operatingConstraints)
		})
	}
}

func Test_Chain_Extend_relayParentMovedBackwards(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().FragmentAccepted()
	metrics.EXPECT().FragmentRejected("relay_parent_moved_backwards")
	chain := newTestChain(t, ctrl, metrics)

	_, err := chain.Extend(blockB.Hash, makeCandidate(1, 2, blockB))
	require.NoError(t, err)

	fragment, err := chain.Extend(blockA.Hash, makeCandidate(2, 3, blockA))
	assert.Nil(t, fragment)
	assert.ErrorIs(t, err, ErrRelayParentMovedBackwards)
	assert.Equal(t, 1, chain.Len())
}

func Test_Chain_Extend_unknownRelayParent(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	relayChain := NewMockRelayChain(ctrl)
	relayChain.EXPECT().BlockInfo(blockA.Hash).Return(blockA, nil)
	relayChain.EXPECT().BlockInfo(blockB.Hash).Return(inclusionemulator.RelayChainBlockInfo{}, errTest)
	loader := NewMockConstraintsLoader(ctrl)
	loader.EXPECT().BaseConstraints(blockA.Hash).Return(makeBaseConstraints(), nil)

	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().FragmentRejected("unknown_relay_parent")

	chain, err := NewChain(blockA.Hash, loader, relayChain, metrics)
	require.NoError(t, err)

	_, err = chain.Extend(blockB.Hash, makeCandidate(1, 2, blockB))
	assert.ErrorIs(t, err, errTest)
	assert.ErrorIs(t, err, ErrUnknownRelayParent)
	assert.EqualError(t, err, "unknown relay parent: getting block info of relay parent "+
		blockB.Hash.String()+": test error")
}

func Test_Chain_Extend_maxDepth(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().FragmentAccepted()
	metrics.EXPECT().FragmentRejected("chain_full")
	chain := newTestChain(t, ctrl, metrics, WithMaxDepth(1))

	_, err := chain.Extend(blockA.Hash, makeCandidate(1, 2, blockA))
	require.NoError(t, err)

	_, err = chain.Extend(blockB.Hash, makeCandidate(2, 3, blockB))
	assert.ErrorIs(t, err, ErrChainFull)
	assert.EqualError(t, err, "chain is full: maximum depth 1")
}

func Test_Chain_Extend_fragmentOptions(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		options []Option
		applied bool
	}{
		"default_activation": {
			applied: true,
		},
		"activate_after": {
			options: []Option{WithFragmentOptions(
				inclusionemulator.WithCodeUpgradeActivation(inclusionemulator.ActivateAfter))},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			base := makeBaseConstraints()
			base.FutureValidationCode = &inclusionemulator.FutureValidationCode{
				BlockNumber:        blockA.Number,
				ValidationCodeHash: parachaintypes.ValidationCodeHash{0xc1},
			}

			relayChain := NewMockRelayChain(ctrl)
			relayChain.EXPECT().BlockInfo(blockA.Hash).Return(blockA, nil).Times(2)
			loader := NewMockConstraintsLoader(ctrl)
			loader.EXPECT().BaseConstraints(blockA.Hash).Return(base, nil)
			metrics := NewMockMetrics(ctrl)
			metrics.EXPECT().FragmentAccepted()

			chain, err := NewChain(blockA.Hash, loader, relayChain, metrics, testCase.options...)
			require.NoError(t, err)

			fragment, err := chain.Extend(blockA.Hash, makeCandidate(1, 2, blockA))
			require.NoError(t, err)
			assert.Equal(t, testCase.applied, fragment.ConstraintModifications().CodeUpgradeApplied)

			operatingConstraints, err := chain.OperatingConstraints()
			require.NoError(t, err)
			if testCase.applied {
				assert.Equal(t, parachaintypes.ValidationCodeHash{0xc1}, operatingConstraints.ValidationCodeHash)
				assert.Nil(t, operatingConstraints.FutureValidationCode)
			} else {
				assert.Equal(t, parachaintypes.ValidationCodeHash{0xc0}, operatingConstraints.ValidationCodeHash)
				assert.NotNil(t, operatingConstraints.FutureValidationCode)
			}
		})
	}
}

func Test_Chain_Revalidate(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		newBase         func() *inclusionemulator.Constraints
		expectedReasons []string
	}{
		"unchanged_base": {
			newBase:         makeBaseConstraints,
			expectedReasons: []string{ReasonValid, ReasonValid},
		},
		"first_fragment_included": {
			newBase: func() *inclusionemulator.Constraints {
				base := makeBaseConstraints()
				base.RequiredParent = parachaintypes.HeadData{Data: []byte{2}}
				base.HrmpInbound.ValidWatermarks = []parachaintypes.BlockNumber{8}
				return base
			},
			expectedReasons: []string{ReasonSubsumed, ReasonValid},
		},
		"both_fragments_included": {
			newBase: func() *inclusionemulator.Constraints {
				base := makeBaseConstraints()
				base.RequiredParent = parachaintypes.HeadData{Data: []byte{3}}
				return base
			},
			expectedReasons: []string{ReasonSubsumed, ReasonSubsumed},
		},
		"first_fragment_included_watermark_gone": {
			newBase: func() *inclusionemulator.Constraints {
				base := makeBaseConstraints()
				base.RequiredParent = parachaintypes.HeadData{Data: []byte{2}}
				base.HrmpInbound.ValidWatermarks = []parachaintypes.BlockNumber{9}
				return base
			},
			expectedReasons: []string{ReasonSubsumed, "disallowed_hrmp_watermark"},
		},
		"competitor_included": {
			newBase: func() *inclusionemulator.Constraints {
				base := makeBaseConstraints()
				base.RequiredParent = parachaintypes.HeadData{Data: []byte{7}}
				return base
			},
			expectedReasons: []string{
				"persisted_validation_data_mismatch",
				"ancestor_invalidated",
			},
		},
		"ump_budget_shrunk": {
			newBase: func() *inclusionemulator.Constraints {
				base := makeBaseConstraints()
				base.UmpRemaining = 1
				return base
			},
			expectedReasons: []string{
				ReasonValid,
				"ump_messages_overflow",
			},
		},
		"code_upgraded": {
			newBase: func() *inclusionemulator.Constraints {
				base := makeBaseConstraints()
				base.ValidationCodeHash = parachaintypes.ValidationCodeHash{0xc1}
				return base
			},
			expectedReasons: []string{
				"validation_code_mismatch",
				"ancestor_invalidated",
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			relayChain := NewMockRelayChain(ctrl)
			relayChain.EXPECT().BlockInfo(blockA.Hash).Return(blockA, nil).Times(2)
			relayChain.EXPECT().BlockInfo(blockB.Hash).Return(blockB, nil).Times(2)
			loader := NewMockConstraintsLoader(ctrl)
			loader.EXPECT().BaseConstraints(blockA.Hash).Return(makeBaseConstraints(), nil)
			loader.EXPECT().BaseConstraints(blockB.Hash).Return(testCase.newBase(), nil)

			metrics := NewMockMetrics(ctrl)
			metrics.EXPECT().FragmentAccepted().Times(2)
			for _, reason := range testCase.expectedReasons {
				metrics.EXPECT().Revalidated(reason)
			}

			chain, err := NewChain(blockA.Hash, loader, relayChain, metrics)
			require.NoError(t, err)
			_, err = chain.Extend(blockA.Hash, makeCandidate(1, 2, blockA, parachaintypes.UpwardMessage{1}))
			require.NoError(t, err)
			_, err = chain.Extend(blockB.Hash, makeCandidate(2, 3, blockB, parachaintypes.UpwardMessage{2}))
			require.NoError(t, err)

			verdicts, err := chain.Revalidate(blockB.Hash)
			require.NoError(t, err)

			require.Len(t, verdicts, len(testCase.expectedReasons))
			fragments := chain.Fragments()
			for i, verdict := range verdicts {
				assert.Equal(t, i, verdict.Index)
				assert.Same(t, fragments[i], verdict.Fragment)
				expectedReason := testCase.expectedReasons[i]
				assert.Equal(t, expectedReason, verdict.Reason())
				assert.Equal(t, expectedReason == ReasonValid, verdict.Valid())
				assert.Equal(t, expectedReason == ReasonSubsumed, verdict.Subsumed)
				assert.Equal(t, expectedReason != ReasonValid && expectedReason != ReasonSubsumed,
					verdict.Invalidated())
			}

			assert.Equal(t, blockA, chain.Anchor())
			assert.Equal(t, 2, chain.Len())
		})
	}
}

func Test_Chain_Revalidate_loadError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	relayChain := NewMockRelayChain(ctrl)
	relayChain.EXPECT().BlockInfo(blockA.Hash).Return(blockA, nil)
	relayChain.EXPECT().BlockInfo(blockB.Hash).Return(blockB, nil)
	loader := NewMockConstraintsLoader(ctrl)
	loader.EXPECT().BaseConstraints(blockA.Hash).Return(makeBaseConstraints(), nil)
	loader.EXPECT().BaseConstraints(blockB.Hash).Return(nil, errTest)

	chain, err := NewChain(blockA.Hash, loader, relayChain, NewMockMetrics(ctrl))
	require.NoError(t, err)

	verdicts, err := chain.Revalidate(blockB.Hash)
	assert.Nil(t, verdicts)
	assert.ErrorIs(t, err, errTest)
}

func Test_Chain_concurrentUse(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().FragmentAccepted().AnyTimes()
	metrics.EXPECT().FragmentRejected(gomock.Any()).AnyTimes()
	chain := newTestChain(t, ctrl, metrics)

	const readers = 8
	var wg sync.WaitGroup
	wg.Add(readers + 1)

	go func() {
		defer wg.Done()
		_, _ = chain.Extend(blockA.Hash, makeCandidate(1, 2, blockA))
		_, _ = chain.Extend(blockB.Hash, makeCandidate(2, 3, blockB))
	}()

	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = chain.Len()
				_ = chain.Fragments()
				_, _ = chain.OperatingConstraints()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, chain.Len())
}
