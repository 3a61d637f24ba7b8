// Package ofc implements a self-play trainer for heads-up Pineapple
// Open-Face Chinese Poker.
//
// The Solver runs Monte Carlo CFR: every iteration shuffles a fresh deck
// (the sampled chance outcome) and performs a vanilla CFR traversal of
// the resulting action tree, accumulating per-infoset regret and strategy
// sums in a shared table. The average strategy recovered from the
// accumulated sums converges to an approximate Nash equilibrium.
//
// Game rules, hand evaluation and the infoset abstraction live in the
// game subpackage. Trained tables persist to a flat binary checkpoint
// (SaveStrategy/LoadStrategy) or to a LevelDB database via the diskstore
// subpackage.
package ofc
