package ofc

import (
	"sync"

	"github.com/timpalpant/go-ofc/internal/f64"
)

// node accumulates counterfactual regret and strategy weight for one
// infoset. The mutex guards the compound read-modify-write of both
// vectors so concurrent traversals never tear them.
type node struct {
	mu          sync.Mutex
	regretSum   []float64
	strategySum []float64
}

func newNode(nActions int) *node {
	return &node{
		regretSum:   make([]float64, nActions),
		strategySum: make([]float64, nActions),
	}
}

// ensureSize resets the node to fresh zero vectors when the observed
// action count no longer matches. The lossy infoset key can collapse
// states with different dealt cards, so this throws away learning for the
// colliding situations; checkpoints assume this behaviour.
func (n *node) ensureSize(nActions int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.regretSum) == nActions {
		return false
	}
	n.regretSum = make([]float64, nActions)
	n.strategySum = make([]float64, nActions)
	return true
}

// strategyInto fills buf with the regret-matching distribution: positive
// regrets normalized, uniform when no action has positive regret.
func (n *node) strategyInto(buf []float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	copy(buf, n.regretSum)
	makePositive(buf)
	total := f64.Sum(buf)
	if total > 0 {
		f64.ScalUnitary(1.0/total, buf)
	} else {
		for i := range buf {
			buf[i] = 1.0 / float64(len(buf))
		}
	}
}

// update applies one traversal's regret and strategy-weight increments.
// If the node was resized concurrently the increments no longer line up
// with the action set and are dropped.
func (n *node) update(regrets, weights []float64) {
	n.mu.Lock()
	if len(regrets) == len(n.regretSum) {
		f64.Add(n.regretSum, regrets)
		f64.Add(n.strategySum, weights)
	}
	n.mu.Unlock()
}

// averageStrategy returns the normalized strategy sum, the profile that
// converges to equilibrium. Unvisited nodes fall back to uniform.
func (n *node) averageStrategy() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	avg := make([]float64, len(n.strategySum))
	total := f64.Sum(n.strategySum)
	if total > 0 {
		f64.ScalUnitaryTo(avg, 1.0/total, n.strategySum)
	} else {
		for i := range avg {
			avg[i] = 1.0 / float64(len(avg))
		}
	}
	return avg
}

// snapshot copies both vectors under the node lock.
func (n *node) snapshot() (regretSum, strategySum []float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	regretSum = append([]float64(nil), n.regretSum...)
	strategySum = append([]float64(nil), n.strategySum...)
	return regretSum, strategySum
}

func makePositive(v []float64) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}
