// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package inclusionemulator emulates the checks the relay-chain runtime runs
// when including parachain candidates, so that node-side code can build
// prospective parachains ahead of the relay chain.
//
// Constraints describe every valid input and output of a parachain block
// built on a given relay parent. ConstraintModifications describe the effect
// of one or more candidates and can be stacked, in chain order, on top of
// each other. A Fragment is a candidate which was valid under the constraints
// it was built against, its operating constraints. The operating constraints
// of a fragment are the base constraints of the relay parent with the stacked
// modifications of every ancestor fragment applied.
//
// As the relay chain advances, fragments are revalidated against the newer
// constraints with Fragment.ValidateAgainstConstraints. Deciding what to do
// with a fragment that no longer validates is up to the caller.
//
// Everything in this package is a pure value computation and safe to use from
// multiple goroutines as long as callers don't mutate shared values.
package inclusionemulator
