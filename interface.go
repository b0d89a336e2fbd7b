package cfr

// NodeType is the type of node in an extensive-form game tree.
type NodeType int

const (
	ChanceNode NodeType = iota
	TerminalNode
	PlayerNode
)

// InfoSet is the observable game history from the point of view of one player.
type InfoSet interface {
	// Key is an identifier used to uniquely look up this InfoSet
	// when accumulating regrets and strategy weights in tabular CFR.
	//
	// It may be an arbitrary string of bytes and does not need to be
	// human-readable, although for small games a readable encoding
	// (such as the player's card followed by the action history)
	// doubles as a display label.
	Key() string
}

// GameTreeNode is the interface for a node in a two-player zero-sum
// extensive-form game tree.
type GameTreeNode interface {
	// NodeType returns the type of game node.
	Type() NodeType

	// The number of direct children of this node.
	NumChildren() int
	// Get the ith child of this node.
	GetChild(i int) GameTreeNode

	// Player returns this node's acting player.
	// It may only be called for nodes with Type == PlayerNode.
	Player() int
	// InfoSet returns the information set for this node for the given player.
	InfoSet(player int) InfoSet
	// Utility returns this node's utility for the given player.
	// It must only be called for nodes with Type == TerminalNode.
	Utility(player int) float32
}

// ChanceOutcome is a single resolution of a game's chance event:
// the root of the subtree that follows it, together with the
// probability of the event occurring.
type ChanceOutcome struct {
	Root GameTreeNode
	Prob float32
}

// Game is a two-player zero-sum game whose single chance event occurs
// before any player acts. Rather than modeling chance as a branch inside
// the tree, the game enumerates all outcomes up front and the Trainer
// traverses each resulting subtree with the outcome's probability.
// This is exact (not sampled), and is viable only because the chance
// branching factor is small enough to enumerate exhaustively.
type Game interface {
	// NumPlayers returns the number of players in the game.
	NumPlayers() int
	// ChanceOutcomes enumerates all chance outcomes with their
	// probabilities. The probabilities must sum to 1.
	ChanceOutcomes() []ChanceOutcome
}

// NodePolicy is the accumulated regret and strategy state for a single
// information set.
type NodePolicy interface {
	// GetStrategy returns the current action distribution obtained by
	// regret matching over the accumulated regrets. It is recomputed
	// from the accumulated regrets on every call.
	GetStrategy() []float32
	// AddRegret accumulates the instantaneous advantages (per-action
	// utility minus node utility), weighted by the counterfactual
	// reach probability.
	AddRegret(counterfactualP float32, instantaneousAdvantages []float32)
	// AddStrategyWeight accumulates the current strategy into the
	// strategy sum, weighted by the acting player's own reach
	// probability (times the chance probability).
	AddStrategyWeight(w float32)
	// GetAverageStrategy returns the strategy averaged over all
	// iterations so far. If the information set has never been reached
	// with positive weight, it is the uniform distribution.
	GetAverageStrategy() []float32
}

// StrategyProfile maintains a NodePolicy for each information set
// visited in a traversal of the game tree.
type StrategyProfile interface {
	// GetPolicy returns the NodePolicy for the information set of the
	// given node's current player, creating a zero-initialized one if
	// the information set has not been seen before.
	GetPolicy(node GameTreeNode) NodePolicy
	// Update advances the iteration counter and applies the configured
	// discount factors to all policies touched since the last call.
	Update()
	// Iter returns the current iteration (the number of times Update
	// has been called, plus one).
	Iter() int
}
