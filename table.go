package ofc

import (
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
)

// strategyTable is the shared map of infoset key -> node. Lookups take the
// read lock; node creation takes the write lock. Vector updates are
// guarded per node, so cross-node updates proceed without contention.
type strategyTable struct {
	mu     sync.RWMutex
	nodes  map[string]*node
	resets uint64
}

func newStrategyTable() *strategyTable {
	return &strategyTable{nodes: make(map[string]*node)}
}

// node returns the entry for key, creating it lazily with zero vectors
// sized to nActions. An existing entry whose action count no longer
// matches is reset.
func (t *strategyTable) node(key string, nActions int) *node {
	t.mu.RLock()
	n := t.nodes[key]
	t.mu.RUnlock()

	if n == nil {
		t.mu.Lock()
		n = t.nodes[key]
		if n == nil {
			n = newNode(nActions)
			t.nodes[key] = n
			if len(t.nodes)%100000 == 0 {
				glog.V(2).Infof("strategy table grew to %d infosets", len(t.nodes))
			}
		}
		t.mu.Unlock()
	}

	if n.ensureSize(nActions) {
		resets := atomic.AddUint64(&t.resets, 1)
		glog.V(2).Infof("reset node %q to %d actions (%d resets total)", key, nActions, resets)
	}
	return n
}

// get returns the entry for key without creating one.
func (t *strategyTable) get(key string) *node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[key]
}

func (t *strategyTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// each calls fn with a snapshot of every node until fn returns false.
func (t *strategyTable) each(fn func(key string, regretSum, strategySum []float64) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for key, n := range t.nodes {
		regrets, strats := n.snapshot()
		if !fn(key, regrets, strats) {
			return
		}
	}
}

// put overwrites the entry for key with the given vectors.
func (t *strategyTable) put(key string, regretSum, strategySum []float64) {
	n := newNode(len(regretSum))
	copy(n.regretSum, regretSum)
	copy(n.strategySum, strategySum)
	t.mu.Lock()
	t.nodes[key] = n
	t.mu.Unlock()
}
