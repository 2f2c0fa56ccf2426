// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package speculative

import (
	"errors"
	"fmt"
	"sync"

	parachaintypes "github.com/ChainSafe/inclusion-emulator/dot/parachain/types"
	inclusionemulator "github.com/ChainSafe/inclusion-emulator/dot/parachain/util/inclusion-emulator"
	"github.com/ChainSafe/inclusion-emulator/internal/log"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "speculative"))

var (
	// ErrRelayParentMovedBackwards is returned when a candidate is built on a
	// relay parent older than the relay parent of the previous fragment.
	ErrRelayParentMovedBackwards = errors.New("relay parent moved backwards")
	// ErrChainFull is returned when the chain already holds the maximum
	// number of fragments.
	ErrChainFull = errors.New("chain is full")
	// ErrUnknownRelayParent is returned when the relay parent of a
	// candidate cannot be found.
	ErrUnknownRelayParent = errors.New("unknown relay parent")
	// ErrAncestorInvalidated is the revalidation error of a fragment
	// built on top of an invalidated fragment.
	ErrAncestorInvalidated = errors.New("ancestor invalidated")
)

// Option configures a Chain.
type Option func(c *Chain)

// WithMaxDepth limits the number of fragments the chain can hold.
// Zero means unlimited, which is the default.
func WithMaxDepth(maxDepth uint) Option {
	return func(c *Chain) {
		c.maxDepth = maxDepth
	}
}

// WithFragmentOptions sets the options used to create every fragment.
func WithFragmentOptions(options ...inclusionemulator.FragmentOption) Option {
	return func(c *Chain) {
		c.fragmentOptions = append(c.fragmentOptions, options...)
	}
}

// Verdict is the outcome of revalidating one fragment of the chain.
type Verdict struct {
	// Index is the position of the fragment in the chain, starting at 0.
	Index    int
	Fragment *inclusionemulator.Fragment
	// Subsumed is true if the candidate of the fragment is already
	// included in the chain of the new anchor.
	Subsumed bool
	// Err is nil unless the fragment is invalidated.
	Err error
}

// Valid returns true if the fragment is neither subsumed nor invalidated.
func (v Verdict) Valid() bool {
	return v.Err == nil && !v.Subsumed
}

// Invalidated returns true if the fragment can no longer be included.
func (v Verdict) Invalidated() bool {
	return v.Err != nil
}

// Reason returns the label of the verdict, one of ReasonValid,
// ReasonSubsumed or a rejection reason.
func (v Verdict) Reason() string {
	if v.Subsumed {
		return ReasonSubsumed
	}
	return RejectionReason(v.Err)
}

// Chain is a speculative chain of fragments built on top of the base
// constraints of an anchor relay-chain block. Each fragment operates under
// the base constraints with the modifications of all its ancestors applied.
// Chain is safe for concurrent use.
type Chain struct {
	mutex sync.RWMutex

	anchor     inclusionemulator.RelayChainBlockInfo
	base       *inclusionemulator.Constraints
	cumulative *inclusionemulator.ConstraintModifications
	fragments  []*inclusionemulator.Fragment

	loader     ConstraintsLoader
	relayChain RelayChain
	metrics    Metrics

	maxDepth        uint
	fragmentOptions []inclusionemulator.FragmentOption
}

// NewChain creates an empty chain anchored at the relay-chain block given.
func NewChain(anchor common.Hash, loader ConstraintsLoader, relayChain RelayChain,
	metrics Metrics, options ...Option) (*Chain, error) {
	anchorInfo, base, err := loadAnchor(anchor, loader, relayChain)
	if err != nil {
		return nil, err
	}

	chain := &Chain{
		anchor:     anchorInfo,
		base:       base,
		cumulative: inclusionemulator.NewConstraintModificationsIdentity(),
		loader:     loader,
		relayChain: relayChain,
		metrics:    metrics,
	}
	for _, option := range options {
		option(chain)
	}

	logger.Debugf("new chain anchored at %s", anchorInfo)
	return chain, nil
}

func loadAnchor(anchor common.Hash, loader ConstraintsLoader, relayChain RelayChain) (
	inclusionemulator.RelayChainBlockInfo, *inclusionemulator.Constraints, error) {
	anchorInfo, err := relayChain.BlockInfo(anchor)
	if err != nil {
		return inclusionemulator.RelayChainBlockInfo{}, nil,
			fmt.Errorf("getting block info of anchor %s: %w", anchor, err)
	}

	base, err := loader.BaseConstraints(anchor)
	if err != nil {
		return inclusionemulator.RelayChainBlockInfo{}, nil,
			fmt.Errorf("loading base constraints of anchor %s: %w", anchor, err)
	}

	return anchorInfo, base, nil
}

// Anchor returns the relay-chain block the chain is anchored to.
func (c *Chain) Anchor() inclusionemulator.RelayChainBlockInfo {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.anchor
}

// Len returns the number of fragments in the chain.
func (c *Chain) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.fragments)
}

// Fragments returns the fragments of the chain, oldest first.
func (c *Chain) Fragments() []*inclusionemulator.Fragment {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	fragments := make([]*inclusionemulator.Fragment, len(c.fragments))
	copy(fragments, c.fragments)
	return fragments
}

// OperatingConstraints returns the constraints the next fragment
// of the chain would operate under.
func (c *Chain) OperatingConstraints() (*inclusionemulator.Constraints, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.operatingConstraints()
}

func (c *Chain) operatingConstraints() (*inclusionemulator.Constraints, error) {
	constraints, err := c.base.ApplyModifications(c.cumulative)
	if err != nil {
		return nil, fmt.Errorf("applying cumulative modifications: %w", err)
	}
	return constraints, nil
}

// Extend appends the candidate built on the given relay parent to the chain.
// The candidate is rejected if it is not valid under the current operating
// constraints of the chain.
func (c *Chain) Extend(relayParent common.Hash, candidate inclusionemulator.ProspectiveCandidate) (
	*inclusionemulator.Fragment, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.maxDepth > 0 && uint(len(c.fragments)) >= c.maxDepth {
		c.metrics.FragmentRejected(RejectionReason(ErrChainFull))
		return nil, fmt.Errorf("%w: maximum depth %d", ErrChainFull, c.maxDepth)
	}

	relayParentInfo, err := c.relayChain.BlockInfo(relayParent)
	if err != nil {
		c.metrics.FragmentRejected(RejectionReason(ErrUnknownRelayParent))
		return nil, fmt.Errorf("%w: getting block info of relay parent %s: %w",
			ErrUnknownRelayParent, relayParent, err)
	}

	minimum := c.anchor
	if len(c.fragments) > 0 {
		minimum = c.fragments[len(c.fragments)-1].RelayParent()
	}
	if relayParentInfo.Number < minimum.Number {
		c.metrics.FragmentRejected(RejectionReason(ErrRelayParentMovedBackwards))
		return nil, fmt.Errorf("%w: relay parent %s is older than %s",
			ErrRelayParentMovedBackwards, relayParentInfo, minimum)
	}

	operatingConstraints, err := c.operatingConstraints()
	if err != nil {
		c.metrics.FragmentRejected(RejectionReason(err))
		return nil, err
	}

	fragment, err := inclusionemulator.NewFragment(relayParentInfo, operatingConstraints, candidate,
		c.fragmentOptions...)
	if err != nil {
		reason := RejectionReason(err)
		c.metrics.FragmentRejected(reason)
		logger.Debugf("candidate at depth %d on relay parent %s rejected: %s",
			len(c.fragments), relayParentInfo, err)
		return nil, fmt.Errorf("creating fragment: %w", err)
	}

	c.cumulative.Stack(fragment.ConstraintModifications())
	c.fragments = append(c.fragments, fragment)
	c.metrics.FragmentAccepted()
	logger.Debugf("candidate at depth %d on relay parent %s accepted",
		len(c.fragments)-1, relayParentInfo)

	return fragment, nil
}

// Revalidate checks every fragment of the chain against the constraints
// derived from the base constraints of the new anchor, as if the chain was
// rebuilt on top of it. Fragments up to the deepest one whose head data is
// the required parent of the new anchor are subsumed, and the fragments
// after it are checked on top of the new anchor alone. Once a fragment is
// invalidated, so are all its descendants. The chain itself is
// left unchanged. A verdict is returned for each fragment, and deciding what
// to do with fragments that are no longer valid is left to the caller.
func (c *Chain) Revalidate(newAnchor common.Hash) ([]Verdict, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	anchorInfo, base, err := loadAnchor(newAnchor, c.loader, c.relayChain)
	if err != nil {
		return nil, err
	}

	included := includedDepth(c.fragments, base.RequiredParent)

	verdicts := make([]Verdict, len(c.fragments))
	cumulative := inclusionemulator.NewConstraintModificationsIdentity()
	invalidated := -1
	for i, fragment := range c.fragments {
		verdicts[i] = Verdict{Index: i, Fragment: fragment}

		switch {
		case i <= included:
			verdicts[i].Subsumed = true
		case invalidated >= 0:
			verdicts[i].Err = fmt.Errorf("%w: fragment at depth %d", ErrAncestorInvalidated, invalidated)
		default:
			constraints, err := base.ApplyModifications(cumulative)
			if err != nil {
				verdicts[i].Err = fmt.Errorf("applying ancestor modifications: %w", err)
			} else {
				verdicts[i].Err = fragment.ValidateAgainstConstraints(constraints)
			}
			if verdicts[i].Err != nil {
				invalidated = i
			}
			cumulative.Stack(fragment.ConstraintModifications())
		}

		result := verdicts[i].Reason()
		c.metrics.Revalidated(result)
		logger.Debugf("fragment at depth %d revalidated against anchor %s: %s", i, anchorInfo, result)
	}

	return verdicts, nil
}

// includedDepth returns the index of the deepest fragment producing the
// head data given, or -1 if there is none.
func includedDepth(fragments []*inclusionemulator.Fragment, head parachaintypes.HeadData) int {
	for i := len(fragments) - 1; i >= 0; i-- {
		if fragments[i].Candidate().Commitments.HeadData.Equal(head) {
			return i
		}
	}
	return -1
}
