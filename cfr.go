package cfr

import (
	"github.com/onatozer/kuhn-poker/internal/f32"
)

// CFR performs full-tree ("vanilla") counterfactual regret minimization:
// one call to Run walks the entire subtree below the given root for one
// traversing player, computing counterfactual utilities bottom-up and
// accumulating regrets and strategy weights into the StrategyProfile at
// every information set owned by the traversing player.
//
// Chance is resolved outside the recursion: the game's single chance
// event (the deal) is enumerated by the Trainer, which calls Run once
// per outcome with that outcome's probability. The recursion therefore
// only ever sees player and terminal nodes; an in-tree chance node
// indicates a programming defect.
type CFR struct {
	strategyProfile StrategyProfile
	slicePool       *floatSlicePool
}

// New creates a new CFR engine that accumulates into the given
// StrategyProfile.
func New(strategyProfile StrategyProfile) *CFR {
	return &CFR{
		strategyProfile: strategyProfile,
		slicePool:       &floatSlicePool{},
	}
}

// Run traverses the subtree below node once on behalf of the traversing
// player and returns the expected utility of the subtree for that
// player under the current strategy profile. chanceP is the probability
// of the chance outcome that produced node; both players' reach
// probabilities start at 1.
func (c *CFR) Run(node GameTreeNode, traversingPlayer int, chanceP float32) float32 {
	return c.runHelper(node, traversingPlayer, 1.0, 1.0, chanceP)
}

func (c *CFR) runHelper(node GameTreeNode, traversingPlayer int, reachP0, reachP1, chanceP float32) float32 {
	switch node.Type() {
	case TerminalNode:
		return node.Utility(traversingPlayer)
	case ChanceNode:
		panic("cfr: chance nodes must be enumerated by the Trainer, not reached in traversal")
	}

	return c.handlePlayerNode(node, traversingPlayer, reachP0, reachP1, chanceP)
}

func (c *CFR) handlePlayerNode(node GameTreeNode, traversingPlayer int, reachP0, reachP1, chanceP float32) float32 {
	player := node.Player()
	nChildren := node.NumChildren()
	policy := c.strategyProfile.GetPolicy(node)

	// The policy's strategy slice is recomputed on each lookup, so take
	// a copy before recursing in case a deeper frame touches the table.
	strategy := c.slicePool.alloc(nChildren)
	copy(strategy, policy.GetStrategy())
	actionUtils := c.slicePool.alloc(nChildren)

	for i := 0; i < nChildren; i++ {
		child := node.GetChild(i)
		p := strategy[i]
		if player == 0 {
			actionUtils[i] = c.runHelper(child, traversingPlayer, p*reachP0, reachP1, chanceP)
		} else {
			actionUtils[i] = c.runHelper(child, traversingPlayer, reachP0, p*reachP1, chanceP)
		}
	}

	// Expected utility under the current strategy. All utilities are
	// from the traversing player's point of view, so the node value
	// flows back up unchanged whoever acts here.
	nodeUtil := f32.DotUnitary(strategy, actionUtils)

	if player == traversingPlayer {
		// Regret is weighted by the counterfactual reach probability:
		// chance times the opponent's reach, never the traversing
		// player's own.
		for i := range actionUtils {
			actionUtils[i] -= nodeUtil
		}
		policy.AddRegret(counterFactualProb(player, reachP0, reachP1, chanceP), actionUtils)
		policy.AddStrategyWeight(reachProb(player, reachP0, reachP1, chanceP))
	}

	c.slicePool.free(actionUtils)
	c.slicePool.free(strategy)
	return nodeUtil
}

// The probability of reaching this node including the player's own
// action probabilities.
func reachProb(player int, reachP0, reachP1, chanceP float32) float32 {
	if player == 0 {
		return reachP0 * chanceP
	}

	return reachP1 * chanceP
}

// The probability of reaching this node, assuming that the current
// player tried to reach it.
func counterFactualProb(player int, reachP0, reachP1, chanceP float32) float32 {
	if player == 0 {
		return reachP1 * chanceP
	}

	return reachP0 * chanceP
}
