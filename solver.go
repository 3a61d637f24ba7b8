package ofc

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-ofc/game"
)

// Params configure a Solver.
type Params struct {
	// Workers is the number of concurrent self-play goroutines.
	// Zero means runtime.NumCPU().
	Workers int
	// Generator overrides the placement generator used during self-play.
	// Nil means game.PatternGenerator.
	Generator game.ActionGenerator
}

// Solver learns an approximate Nash-equilibrium placement policy for
// heads-up Pineapple OFC by vanilla CFR over the action tree, with chance
// sampled through each iteration's shuffled deck.
type Solver struct {
	params Params
	eval   *game.Evaluator
	gen    game.ActionGenerator

	table *strategyTable

	iterations      uint64
	noActionWarning sync.Once
}

// NewSolver creates a Solver with an empty strategy table.
func NewSolver(params Params) *Solver {
	gen := params.Generator
	if gen == nil {
		gen = game.PatternGenerator{}
	}
	return &Solver{
		params: params,
		eval:   game.NewEvaluator(),
		gen:    gen,
		table:  newStrategyTable(),
	}
}

// Train runs the given number of self-play iterations, distributing them
// across worker goroutines. Each iteration shuffles a fresh deck with the
// worker's own generator and performs a full traversal. Train blocks
// until all iterations complete.
func (s *Solver) Train(iterations uint32) {
	workers := s.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > int(iterations) {
		workers = int(iterations)
	}

	var next uint64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t := &traverser{
				solver: s,
				rng:    mrand.New(mrand.NewSource(entropySeed())),
				pool:   &floatSlicePool{},
			}
			for {
				i := atomic.AddUint64(&next, 1)
				if i > uint64(iterations) {
					return
				}
				state := game.NewGameStateWithGenerator(t.rng, -1, s.gen)
				t.traverse(state, 1.0, 1.0)
				done := atomic.AddUint64(&s.iterations, 1)
				if done%100 == 0 {
					glog.V(1).Infof("iteration %d: %d infosets", done, s.table.len())
				}
			}
		}()
	}
	wg.Wait()
}

// Iterations returns the total number of completed training iterations.
func (s *Solver) Iterations() uint64 {
	return atomic.LoadUint64(&s.iterations)
}

// NumInfoSets returns the number of infosets visited so far.
func (s *Solver) NumInfoSets() int {
	return s.table.len()
}

// AverageStrategy returns the normalized strategy sum for an infoset key,
// or nil if the key has never been visited. This average profile, not the
// latest regret-matched strategy, is what converges to equilibrium.
func (s *Solver) AverageStrategy(key string) []float64 {
	n := s.table.get(key)
	if n == nil {
		return nil
	}
	return n.averageStrategy()
}

// EachNode calls fn with a copy of every node's accumulated vectors until
// fn returns false.
func (s *Solver) EachNode(fn func(key string, regretSum, strategySum []float64) bool) {
	s.table.each(fn)
}

// SetNode overwrites the accumulated vectors for an infoset key. It is
// intended for restoring externally stored tables and must not be called
// during Train.
func (s *Solver) SetNode(key string, regretSum, strategySum []float64) error {
	if len(regretSum) != len(strategySum) {
		return errors.Errorf("mismatched vector lengths %d != %d for key %q",
			len(regretSum), len(strategySum), key)
	}
	s.table.put(key, regretSum, strategySum)
	return nil
}

// traverser is one worker's traversal context: its own RNG and slice pool.
type traverser struct {
	solver *Solver
	rng    *mrand.Rand
	pool   *floatSlicePool
}

// traverse walks the remainder of a deal, updating regret and strategy
// sums for the acting player's infoset at every decision. Returns the
// expected utility vector under the current strategy profile.
func (t *traverser) traverse(state *game.GameState, reach0, reach1 float64) [2]float64 {
	if state.IsTerminal() {
		p0, p1 := state.Payoffs(t.solver.eval)
		return [2]float64{p0, p1}
	}

	actions := state.LegalActions()
	if len(actions) == 0 {
		// Safety valve: the generators always produce an action when the
		// board has room, so this path should be unreachable.
		t.solver.noActionWarning.Do(func() {
			glog.Warningf("no legal actions in non-terminal state at street %d; passing", state.Street())
		})
		return t.traverse(state.ApplyAction(game.Action{Discard: game.InvalidCard}), reach0, reach1)
	}

	player := state.CurrentPlayer()
	n := t.solver.table.node(state.InfosetKey(), len(actions))

	sigma := t.pool.alloc(len(actions))
	n.strategyInto(sigma)

	u0 := t.pool.alloc(len(actions))
	u1 := t.pool.alloc(len(actions))
	var ev [2]float64
	for i, a := range actions {
		var child [2]float64
		if player == 0 {
			child = t.traverse(state.ApplyAction(a), reach0*sigma[i], reach1)
		} else {
			child = t.traverse(state.ApplyAction(a), reach0, reach1*sigma[i])
		}
		u0[i], u1[i] = child[0], child[1]
		ev[0] += sigma[i] * child[0]
		ev[1] += sigma[i] * child[1]
	}

	reachMe, reachOpp := reach0, reach1
	myUtils := u0
	if player == 1 {
		reachMe, reachOpp = reach1, reach0
		myUtils = u1
	}

	regrets := t.pool.alloc(len(actions))
	weights := t.pool.alloc(len(actions))
	for i := range actions {
		regrets[i] = reachOpp * (myUtils[i] - ev[player])
		weights[i] = reachMe * sigma[i]
	}
	n.update(regrets, weights)

	t.pool.free(sigma)
	t.pool.free(u0)
	t.pool.free(u1)
	t.pool.free(regrets)
	t.pool.free(weights)
	return ev
}

// entropySeed draws a per-worker RNG seed from the OS entropy source.
func entropySeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(errors.Wrap(err, "seeding worker rng"))
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// floatSlicePool recycles the scratch vectors a traversal allocates at
// every decision node. Each traverser owns one, so no locking is needed.
type floatSlicePool struct {
	pool [][]float64
}

func (p *floatSlicePool) alloc(n int) []float64 {
	if p == nil {
		return make([]float64, n)
	}

	if len(p.pool) > 0 {
		m := len(p.pool)
		next := p.pool[m-1]
		p.pool = p.pool[:m-1]
		return append(next, make([]float64, n)...)
	}

	return make([]float64, n)
}

func (p *floatSlicePool) free(s []float64) {
	if p != nil && cap(s) > 0 {
		p.pool = append(p.pool, s[:0])
	}
}
