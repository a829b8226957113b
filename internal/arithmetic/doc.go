// Package arithmetic generates arithmetic practice problems and assembles
// them into paginated worksheets.
//
// # Randomness
//
// All randomness flows through a Generator, which owns a single seeded
// pseudo-random source. Given the same seed and the same specs, a Generator
// produces the same problems in the same order. A Generator is not safe for
// concurrent use; create one per generation request.
//
// # Constraints
//
// Problems are produced by bounded rejection sampling: up to MaxAttempts
// candidate operand sets are drawn and shaped for the requested operation,
// easy mode and carry control. When no candidate satisfies the constraints,
// an unconstrained draw is returned instead and the Result reports
// OutcomeFallback. Generation never fails.
//
// The package performs no I/O, keeps no shared state and does not enforce
// plan limits; callers decide which specs are reachable.
package arithmetic
