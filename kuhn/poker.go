// Package kuhn implements the extensive-form game tree for three-card
// Kuhn Poker: each player antes 1, is dealt one of {A, K, Q}, and a
// single round of betting (bet size 1) follows. The deal is the game's
// only chance event and is exposed through ChanceOutcomes rather than
// as in-tree chance nodes, so histories contain player actions only.
package kuhn

import (
	"fmt"

	"github.com/pkg/errors"

	cfr "github.com/onatozer/kuhn-poker"
)

const (
	player0 = 0
	player1 = 1
)

// Action is a single player move, with its canonical one-character
// encoding used in history strings and information set keys.
type Action byte

const (
	Check Action = 'c'
	Bet   Action = 'b'
)

// Card is one of the three ranks, ordered Queen < King < Ace for
// showdown comparison.
type Card int

const (
	Queen Card = iota
	King
	Ace
)

var cardStr = [...]string{
	"Q",
	"K",
	"A",
}

func (c Card) String() string {
	return cardStr[c]
}

// Cards lists all ranks in the deck.
var Cards = []Card{Queen, King, Ace}

var (
	// ErrInvalidDeal is returned by Deal when both players are
	// assigned the same card.
	ErrInvalidDeal = errors.New("kuhn: both players dealt the same card")
	// ErrIllegalAction is returned by Act when the history is already
	// terminal or the action is not in the legal set. It signals a
	// programming defect in the caller, not a transient condition.
	ErrIllegalAction = errors.New("kuhn: action is not legal for this history")
)

// PokerNode is one node of the post-deal game tree: the pair of private
// cards fixed at the deal plus the sequence of actions taken since.
// Nodes are immutable; taking an action produces a new node.
// PokerNode implements cfr.GameTreeNode.
type PokerNode struct {
	history string

	// Private card held by either player.
	p0Card, p1Card Card

	children []PokerNode
}

// Deal returns the root History for one outcome of the chance node:
// both players' private cards are fixed and no actions have been taken.
func Deal(p0Card, p1Card Card) (*PokerNode, error) {
	if p0Card == p1Card {
		return nil, errors.Wrapf(ErrInvalidDeal, "card %v", p0Card)
	}

	return &PokerNode{p0Card: p0Card, p1Card: p1Card}, nil
}

// Act returns the child History reached by taking the given action.
// It fails with ErrIllegalAction if the history is already terminal or
// the action is not one of the legal actions.
func Act(node *PokerNode, action Action) (*PokerNode, error) {
	if node.IsTerminal() {
		return nil, errors.Wrapf(ErrIllegalAction, "history %q is terminal", node.history)
	}

	if action != Check && action != Bet {
		return nil, errors.Wrapf(ErrIllegalAction, "unknown action %q", action)
	}

	child := *node
	child.history += string(action)
	child.children = nil
	return &child, nil
}

// String implements fmt.Stringer.
func (k *PokerNode) String() string {
	return fmt.Sprintf("Player %v's turn. History: %3s [Cards: P0 - %s, P1 - %s]",
		k.Player(), k.history, k.p0Card, k.p1Card)
}

// Type implements cfr.GameTreeNode.
func (k *PokerNode) Type() cfr.NodeType {
	if k.IsTerminal() {
		return cfr.TerminalNode
	}

	return cfr.PlayerNode
}

// IsTerminal returns true once the action sequence matches a terminal
// pattern: two consecutive checks, a bet followed by a call, or a bet
// followed by a fold.
func (k *PokerNode) IsTerminal() bool {
	switch k.history {
	case "cc", "bc", "bb", "cbc", "cbb":
		return true
	}

	return false
}

// Player implements cfr.GameTreeNode. Players alternate by the parity
// of the number of actions taken since the deal.
func (k *PokerNode) Player() int {
	return len(k.history) % 2
}

// LegalActions returns the actions available at this node. Kuhn Poker
// imposes no restriction beyond the action alphabet: every non-terminal
// node offers both check and bet.
func (k *PokerNode) LegalActions() []Action {
	if k.IsTerminal() {
		return nil
	}

	return []Action{Check, Bet}
}

// NumChildren implements cfr.GameTreeNode.
func (k *PokerNode) NumChildren() int {
	if k.children == nil {
		k.buildChildren()
	}

	return len(k.children)
}

// GetChild implements cfr.GameTreeNode.
func (k *PokerNode) GetChild(i int) cfr.GameTreeNode {
	if k.children == nil {
		k.buildChildren()
	}

	return &k.children[i]
}

func (k *PokerNode) buildChildren() {
	for _, action := range k.LegalActions() {
		child := *k
		child.history += string(action)
		child.children = nil
		k.children = append(k.children, child)
	}
}

// Utility implements cfr.GameTreeNode. Payoffs are zero-sum with
// ante = 1 and bet = 1: a fold forfeits the ante, a no-bet showdown is
// worth 1 and a bet-call showdown 2.
func (k *PokerNode) Utility(player int) float32 {
	cardPlayer := k.playerCard(player)
	cardOpponent := k.playerCard(1 - player)

	switch k.history {
	case "bc", "cbc":
		// The player facing the bet folded, forfeiting their ante.
		// The last player to act folded, so the player whose turn it
		// would be wins.
		if k.Player() == player {
			return 1.0
		}
		return -1.0
	case "cc":
		// Showdown with no bets.
		if cardPlayer > cardOpponent {
			return 1.0
		}
		return -1.0
	case "bb", "cbb":
		// Showdown with a called bet.
		if cardPlayer > cardOpponent {
			return 2.0
		}
		return -2.0
	}

	panic("utility of non-terminal history: " + k.history)
}

type pokerInfoSet string

func (p pokerInfoSet) Key() string {
	return string(p)
}

// InfoSet implements cfr.GameTreeNode. The key is the observing
// player's own card followed by the public action history; the
// opponent's card is never part of it.
func (k *PokerNode) InfoSet(player int) cfr.InfoSet {
	return pokerInfoSet(k.playerCard(player).String() + k.history)
}

func (k *PokerNode) playerCard(player int) Card {
	if player == player0 {
		return k.p0Card
	}

	return k.p1Card
}

// Game is the two-player Kuhn Poker game. It implements cfr.Game.
type Game struct{}

// NewGame returns the Kuhn Poker game.
func NewGame() Game {
	return Game{}
}

// NumPlayers implements cfr.Game.
func (Game) NumPlayers() int {
	return 2
}

// ChanceOutcomes implements cfr.Game: all ordered assignments of
// distinct cards to the two players, each with uniform probability
// 1/6. Enumerating only valid permutations prevents invalid deals by
// construction.
func (Game) ChanceOutcomes() []cfr.ChanceOutcome {
	var result []cfr.ChanceOutcome
	for _, p0Card := range Cards {
		for _, p1Card := range Cards {
			if p0Card == p1Card {
				continue // Both players can't be dealt the same card.
			}

			root, err := Deal(p0Card, p1Card)
			if err != nil {
				panic(err)
			}

			result = append(result, cfr.ChanceOutcome{Root: root, Prob: 1.0 / 6.0})
		}
	}

	return result
}
