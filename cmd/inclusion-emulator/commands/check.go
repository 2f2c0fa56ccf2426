// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"errors"
	"fmt"

	inclusionemulator "github.com/ChainSafe/inclusion-emulator/dot/parachain/util/inclusion-emulator"
	"github.com/ChainSafe/inclusion-emulator/internal/metrics"
	"github.com/ChainSafe/inclusion-emulator/internal/scenario"
	"github.com/ChainSafe/inclusion-emulator/internal/speculative"
	"github.com/ChainSafe/inclusion-emulator/lib/common"
	"github.com/disiqueira/gotree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrCandidatesRejected = errors.New("candidates rejected")
	ErrRevalidationFailed = errors.New("fragments invalid after revalidation")
)

const revalidateAtFlag = "revalidate-at"

func newCheckCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <scenario-file>",
		Short: "Check the candidates of a scenario extend its chain",
		Long: `check <scenario-file> extends a chain anchored at the scenario anchor with
each candidate of the scenario, in order. Rejected candidates are reported
and skipped. If a revalidation block is given, the resulting chain is then
revalidated against the base constraints of that block.
The command fails if any candidate is rejected or any fragment is invalid
after revalidation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execCheck(cmd, v, args[0])
		},
	}

	cmd.Flags().String(revalidateAtFlag, "",
		"Hash of the relay-chain block to revalidate the chain against, overriding the scenario")

	return cmd
}

// candidateResult is the outcome of extending the chain with a candidate.
type candidateResult struct {
	candidate       scenario.Candidate
	commitmentsHash common.Hash
	pvdHash         common.Hash
	fragment        *inclusionemulator.Fragment
	err             error
}

func execCheck(cmd *cobra.Command, v *viper.Viper, path string) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	logger.Infof("loaded scenario %s with %d candidates", path, len(s.Candidates()))

	revalidateAt, revalidate, err := revalidationTarget(cmd, s)
	if err != nil {
		return err
	}

	promMetrics, err := metrics.NewPrometheus()
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}

	chain, err := speculative.NewChain(s.Anchor(), s, s, promMetrics,
		speculative.WithMaxDepth(s.MaxDepth()),
		speculative.WithFragmentOptions(s.FragmentOptions()...))
	if err != nil {
		return fmt.Errorf("creating chain: %w", err)
	}

	results := make([]candidateResult, 0, len(s.Candidates()))
	var rejected int
	for i, candidate := range s.Candidates() {
		commitmentsHash, err := candidate.Candidate.Commitments.Hash()
		if err != nil {
			return fmt.Errorf("hashing commitments of candidate %d: %w", i, err)
		}
		pvdHash, err := candidate.Candidate.PersistedValidationData.Hash()
		if err != nil {
			return fmt.Errorf("hashing persisted validation data of candidate %d: %w", i, err)
		}

		fragment, err := chain.Extend(candidate.RelayParent, candidate.Candidate)
		if err != nil {
			rejected++
			logger.Warnf("candidate %d with commitments %s rejected: %s", i, commitmentsHash.Short(), err)
		}
		results = append(results, candidateResult{
			candidate:       candidate,
			commitmentsHash: commitmentsHash,
			pvdHash:         pvdHash,
			fragment:        fragment,
			err:             err,
		})
	}

	var verdicts []speculative.Verdict
	if revalidate {
		verdicts, err = chain.Revalidate(revalidateAt)
		if err != nil {
			return fmt.Errorf("revalidating chain: %w", err)
		}
	}

	tree := report(chain.Anchor(), results, revalidateAt, revalidate, verdicts)
	if _, err := fmt.Fprint(cmd.OutOrStdout(), tree.Print()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if metricsFile := v.GetString(metricsFileKey); metricsFile != "" {
		if err := promMetrics.WriteToTextfile(metricsFile); err != nil {
			return err
		}
		logger.Debugf("metrics written to %s", metricsFile)
	}

	if rejected > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCandidatesRejected, rejected, len(results))
	}

	var invalid int
	for _, verdict := range verdicts {
		if verdict.Invalidated() {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRevalidationFailed, invalid, len(verdicts))
	}

	return nil
}

// revalidationTarget returns the block to revalidate the chain against,
// with the --revalidate-at flag taking precedence over the scenario.
func revalidationTarget(cmd *cobra.Command, s *scenario.Scenario) (
	hash common.Hash, ok bool, err error) {
	flagValue, err := cmd.Flags().GetString(revalidateAtFlag)
	if err != nil {
		return hash, false, fmt.Errorf("failed to get --%s: %w", revalidateAtFlag, err)
	}

	if flagValue == "" {
		hash, ok = s.RevalidateAt()
		return hash, ok, nil
	}

	hash, err = common.ParseHash(flagValue)
	if err != nil {
		return hash, false, fmt.Errorf("parsing --%s: %w", revalidateAtFlag, err)
	}
	return hash, true, nil
}

func report(anchor inclusionemulator.RelayChainBlockInfo, results []candidateResult,
	revalidateAt common.Hash, revalidate bool, verdicts []speculative.Verdict) gotree.Tree {
	tree := gotree.New(fmt.Sprintf("chain anchored at %s", anchor))

	candidates := tree.Add("candidates")
	for i, result := range results {
		if result.err != nil {
			node := candidates.Add(fmt.Sprintf("candidate %d on relay parent %s: rejected (%s)",
				i, result.candidate.RelayParent.Short(), speculative.RejectionReason(result.err)))
			addHashes(node, result)
			node.Add(result.err.Error())
			continue
		}

		node := candidates.Add(fmt.Sprintf("candidate %d on relay parent %s: accepted",
			i, result.candidate.RelayParent.Short()))
		addHashes(node, result)
		addModifications(node, result.fragment.ConstraintModifications())
	}

	if !revalidate {
		return tree
	}

	revalidation := tree.Add(fmt.Sprintf("revalidated against %s", revalidateAt.Short()))
	for _, verdict := range verdicts {
		node := revalidation.Add(fmt.Sprintf("fragment %d: %s", verdict.Index, verdict.Reason()))
		if verdict.Err != nil {
			node.Add(verdict.Err.Error())
		}
	}

	return tree
}

func addHashes(tree gotree.Tree, result candidateResult) {
	tree.Add(fmt.Sprintf("commitments: %s", result.commitmentsHash))
	tree.Add(fmt.Sprintf("persisted validation data: %s", result.pvdHash))
}

func addModifications(tree gotree.Tree, modifications *inclusionemulator.ConstraintModifications) {
	if modifications.RequiredParent != nil {
		tree.Add(fmt.Sprintf("head data: %s", common.BytesToHex(modifications.RequiredParent.Data)))
	}
	if modifications.HrmpWatermark != nil {
		tree.Add(fmt.Sprintf("hrmp watermark: %d", *modifications.HrmpWatermark))
	}
	tree.Add(fmt.Sprintf("ump: %d messages, %d bytes",
		modifications.UmpMessagesSent, modifications.UmpBytesSent))
	recipients := maps.Keys(modifications.OutboundHrmp)
	slices.Sort(recipients)
	for _, recipient := range recipients {
		outbound := modifications.OutboundHrmp[recipient]
		tree.Add(fmt.Sprintf("hrmp to %d: %d messages, %d bytes",
			recipient, outbound.MessagesSubmitted, outbound.BytesSubmitted))
	}
	if modifications.DmpMessagesProcessed > 0 {
		tree.Add(fmt.Sprintf("dmp processed: %d messages", modifications.DmpMessagesProcessed))
	}
	if modifications.CodeUpgradeApplied {
		tree.Add("code upgrade applied")
	}
}
