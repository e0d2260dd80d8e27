// Package match implements feature correspondence between two
// snapshots: a uniform grid index over centroids bounds the candidate
// search, a three-gate similarity predicate decides whether two
// features are the same real-world object, and a greedy first-fit pass
// produces a one-to-one correspondence.
//
// The matcher is deliberately greedy and order-dependent; it trades a
// globally optimal assignment for a single linear pass. Callers that
// need reproducible output must feed features in a deterministic
// order (loaders preserve file order, which is stable).
package match
