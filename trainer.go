package cfr

import (
	"github.com/golang/glog"
)

// Trainer drives CFR to convergence: it repeats the full-tree traversal
// for a fixed number of iterations, once per traversing player per
// chance outcome, and then reduces the accumulated strategy weights to
// the average strategy table.
//
// Convergence is not tested inside the loop; the iteration count is a
// fixed external parameter.
type Trainer struct {
	game    Game
	profile StrategyProfile
	engine  *CFR

	iters    int
	sumValue float32 // running sum of the game value for player 0
}

// NewTrainer creates a Trainer for the given game, accumulating into
// the given StrategyProfile.
func NewTrainer(game Game, profile StrategyProfile) *Trainer {
	return &Trainer{
		game:    game,
		profile: profile,
		engine:  New(profile),
	}
}

// Train runs nIter CFR iterations and returns the average strategy for
// every information set visited, keyed by its InfoSet Key. Each
// iteration traverses the full tree once per player per chance outcome.
func (t *Trainer) Train(nIter int) map[string][]float32 {
	logEvery := nIter / 10
	for i := 1; i <= nIter; i++ {
		t.RunIter()
		if logEvery > 0 && i%logEvery == 0 {
			glog.V(1).Infof("[iter=%d] Expected game value: %.4f", i, t.GameValue())
		}
	}

	return t.AverageStrategyProfile()
}

// RunIter performs a single CFR iteration: one full-tree traversal per
// traversing player per chance outcome, followed by the end-of-iteration
// profile update.
func (t *Trainer) RunIter() {
	for player := 0; player < t.game.NumPlayers(); player++ {
		var ev float32
		for _, outcome := range t.game.ChanceOutcomes() {
			ev += outcome.Prob * t.engine.Run(outcome.Root, player, outcome.Prob)
		}

		if player == 0 {
			t.sumValue += ev
		}
	}

	t.profile.Update()
	t.iters++
}

// GameValue returns the expected value of the game for player 0,
// averaged over all iterations run so far.
func (t *Trainer) GameValue() float32 {
	if t.iters == 0 {
		return 0
	}

	return t.sumValue / float32(t.iters)
}

// AverageStrategyProfile reduces the accumulated strategy weights to
// the average strategy for every information set reachable in the game.
func (t *Trainer) AverageStrategyProfile() map[string][]float32 {
	result := make(map[string][]float32)
	for _, outcome := range t.game.ChanceOutcomes() {
		t.collectAverageStrategies(outcome.Root, result)
	}

	return result
}

func (t *Trainer) collectAverageStrategies(node GameTreeNode, result map[string][]float32) {
	if node.Type() == PlayerNode {
		key := node.InfoSet(node.Player()).Key()
		if _, ok := result[key]; !ok {
			result[key] = t.profile.GetPolicy(node).GetAverageStrategy()
		}
	}

	for i := 0; i < node.NumChildren(); i++ {
		t.collectAverageStrategies(node.GetChild(i), result)
	}
}
