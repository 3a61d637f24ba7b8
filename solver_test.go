package ofc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/timpalpant/go-ofc/game"
)

// narrowGenerator caps the pattern generator's branching so that
// full-tree test traversals stay tiny.
type narrowGenerator struct{ limit int }

func (g narrowGenerator) Actions(s *game.GameState) []game.Action {
	actions := game.PatternGenerator{}.Actions(s)
	if len(actions) > g.limit {
		actions = actions[:g.limit]
	}
	return actions
}

func TestRegretMatchingIsDistribution(t *testing.T) {
	n := newNode(3)
	n.regretSum = []float64{3, -1, 1}
	sigma := make([]float64, 3)
	n.strategyInto(sigma)

	want := []float64{0.75, 0, 0.25}
	for i := range want {
		if math.Abs(sigma[i]-want[i]) > 1e-12 {
			t.Errorf("sigma[%d] = %v, expected %v", i, sigma[i], want[i])
		}
	}
	assertDistribution(t, sigma)
}

func TestRegretMatchingUniformFallback(t *testing.T) {
	n := newNode(4)
	n.regretSum = []float64{-2, -1, 0, -5}
	sigma := make([]float64, 4)
	n.strategyInto(sigma)
	for i := range sigma {
		if math.Abs(sigma[i]-0.25) > 1e-12 {
			t.Errorf("sigma[%d] = %v, expected uniform 0.25", i, sigma[i])
		}
	}
}

func TestAverageStrategy(t *testing.T) {
	n := newNode(3)
	n.strategySum = []float64{1, 1, 2}
	avg := n.averageStrategy()
	want := []float64{0.25, 0.25, 0.5}
	for i := range want {
		if math.Abs(avg[i]-want[i]) > 1e-12 {
			t.Errorf("avg[%d] = %v, expected %v", i, avg[i], want[i])
		}
	}

	// Unvisited nodes fall back to uniform.
	fresh := newNode(2)
	for _, p := range fresh.averageStrategy() {
		if math.Abs(p-0.5) > 1e-12 {
			t.Errorf("fresh average strategy %v, expected uniform", p)
		}
	}
}

func TestNodeResetOnActionCountChange(t *testing.T) {
	table := newStrategyTable()
	n := table.node("key", 3)
	n.regretSum[0] = 7
	n.strategySum[1] = 2

	same := table.node("key", 3)
	if same != n || same.regretSum[0] != 7 {
		t.Fatal("matching action count should preserve the node")
	}

	reset := table.node("key", 5)
	if len(reset.regretSum) != 5 || len(reset.strategySum) != 5 {
		t.Fatalf("reset node sized %d/%d, expected 5", len(reset.regretSum), len(reset.strategySum))
	}
	for i := range reset.regretSum {
		if reset.regretSum[i] != 0 || reset.strategySum[i] != 0 {
			t.Fatal("reset node vectors not zeroed")
		}
	}
}

func TestTraverseZeroSum(t *testing.T) {
	gen := narrowGenerator{limit: 2}
	s := NewSolver(Params{Generator: gen})
	tr := &traverser{solver: s, rng: rand.New(rand.NewSource(17)), pool: &floatSlicePool{}}

	state := game.NewGameStateWithGenerator(tr.rng, 0, gen)
	ev := tr.traverse(state, 1.0, 1.0)
	if math.Abs(ev[0]+ev[1]) > 1e-9 {
		t.Errorf("traversal utilities (%v, %v) do not sum to zero", ev[0], ev[1])
	}
	if s.NumInfoSets() == 0 {
		t.Error("traversal created no infosets")
	}
	assertTableDistributions(t, s)
}

func TestTrainAccumulates(t *testing.T) {
	s := NewSolver(Params{Workers: 2, Generator: narrowGenerator{limit: 2}})
	s.Train(10)
	if got := s.Iterations(); got != 10 {
		t.Errorf("Iterations = %d, expected 10", got)
	}
	if s.NumInfoSets() == 0 {
		t.Fatal("training created no infosets")
	}
	assertTableDistributions(t, s)

	// At least one node should have accumulated strategy weight (the
	// street-1 roots are reached with probability 1).
	weighted := 0
	s.EachNode(func(key string, regretSum, strategySum []float64) bool {
		for _, w := range strategySum {
			if w > 0 {
				weighted++
				break
			}
		}
		return true
	})
	if weighted == 0 {
		t.Error("no node accumulated strategy weight")
	}
}

func TestTrainFullPatternGenerator(t *testing.T) {
	if testing.Short() {
		t.Skip("full pattern-generator traversal is slow")
	}
	s := NewSolver(Params{Workers: 2})
	s.Train(2)
	if got := s.Iterations(); got != 2 {
		t.Errorf("Iterations = %d, expected 2", got)
	}
	assertTableDistributions(t, s)
}

func TestAverageStrategyUnknownKey(t *testing.T) {
	s := NewSolver(Params{})
	if got := s.AverageStrategy("no such key"); got != nil {
		t.Errorf("AverageStrategy(unknown) = %v, expected nil", got)
	}
}

// assertTableDistributions checks that every node yields valid
// regret-matching and average-strategy distributions.
func assertTableDistributions(t *testing.T, s *Solver) {
	t.Helper()
	checked := 0
	s.EachNode(func(key string, regretSum, strategySum []float64) bool {
		checked++
		sigma := make([]float64, len(regretSum))
		n := s.table.get(key)
		n.strategyInto(sigma)
		assertDistribution(t, sigma)
		assertDistribution(t, s.AverageStrategy(key))
		return true
	})
	if checked == 0 {
		t.Fatal("no nodes to check")
	}
}

func assertDistribution(t *testing.T, p []float64) {
	t.Helper()
	sum := 0.0
	for _, v := range p {
		if v < 0 {
			t.Fatalf("negative probability %v in %v", v, p)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("distribution %v sums to %v", p, sum)
	}
}
