// Package tree implements simple traversal helpers over extensive-form
// game trees, used for reporting and for verifying tree shape in tests.
package tree

import (
	cfr "github.com/onatozer/kuhn-poker"
)

// Visit calls visitor for root and every node below it, depth-first.
func Visit(root cfr.GameTreeNode, visitor func(node cfr.GameTreeNode)) {
	visitor(root)
	for i := 0; i < root.NumChildren(); i++ {
		child := root.GetChild(i)
		Visit(child, visitor)
	}
}

// VisitInfoSets calls visitor once for each distinct information set
// reachable below root, with the player who owns it.
func VisitInfoSets(root cfr.GameTreeNode, visitor func(player int, node cfr.GameTreeNode)) {
	seen := make(map[string]struct{})
	visitInfoSets(root, seen, visitor)
}

// VisitGameInfoSets is VisitInfoSets over all of a game's chance
// outcomes, deduplicating information sets that appear under more than
// one deal.
func VisitGameInfoSets(game cfr.Game, visitor func(player int, node cfr.GameTreeNode)) {
	seen := make(map[string]struct{})
	for _, outcome := range game.ChanceOutcomes() {
		visitInfoSets(outcome.Root, seen, visitor)
	}
}

func visitInfoSets(root cfr.GameTreeNode, seen map[string]struct{}, visitor func(player int, node cfr.GameTreeNode)) {
	Visit(root, func(node cfr.GameTreeNode) {
		if node.Type() != cfr.PlayerNode {
			return
		}

		player := node.Player()
		key := node.InfoSet(player).Key()
		if _, ok := seen[key]; ok {
			return
		}

		visitor(player, node)
		seen[key] = struct{}{}
	})
}

// CountNodes returns the total number of nodes in all of the game's
// subtrees.
func CountNodes(game cfr.Game) int {
	total := 0
	for _, outcome := range game.ChanceOutcomes() {
		Visit(outcome.Root, func(node cfr.GameTreeNode) { total++ })
	}

	return total
}

// CountTerminalNodes returns the number of terminal nodes in all of the
// game's subtrees.
func CountTerminalNodes(game cfr.Game) int {
	total := 0
	for _, outcome := range game.ChanceOutcomes() {
		Visit(outcome.Root, func(node cfr.GameTreeNode) {
			if node.Type() == cfr.TerminalNode {
				total++
			}
		})
	}

	return total
}

// CountInfoSets returns the number of distinct information sets in the
// game.
func CountInfoSets(game cfr.Game) int {
	total := 0
	VisitGameInfoSets(game, func(player int, node cfr.GameTreeNode) { total++ })
	return total
}

// MaxDepth returns the length of the longest path from any chance
// outcome root to a terminal node, counting both endpoints.
func MaxDepth(game cfr.Game) int {
	max := 0
	for _, outcome := range game.ChanceOutcomes() {
		if d := depth(outcome.Root); d > max {
			max = d
		}
	}

	return max
}

func depth(node cfr.GameTreeNode) int {
	max := 0
	for i := 0; i < node.NumChildren(); i++ {
		if d := depth(node.GetChild(i)); d > max {
			max = d
		}
	}

	return max + 1
}
