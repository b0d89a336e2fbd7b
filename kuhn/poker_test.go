package kuhn

import (
	"bytes"
	"errors"
	"math"
	"testing"

	cfr "github.com/onatozer/kuhn-poker"
	"github.com/onatozer/kuhn-poker/tree"
)

func TestPoker_GameTree(t *testing.T) {
	game := NewGame()

	if n := len(game.ChanceOutcomes()); n != 6 {
		t.Errorf("expected %d chance outcomes, got %d", 6, n)
	}

	var totalProb float32
	for _, outcome := range game.ChanceOutcomes() {
		totalProb += outcome.Prob
	}
	if math.Abs(float64(totalProb-1.0)) > 1e-6 {
		t.Errorf("chance outcome probabilities sum to %v, expected 1", totalProb)
	}

	if n := tree.CountNodes(game); n != 54 {
		t.Errorf("expected %d nodes, got %d", 54, n)
	}

	if n := tree.CountTerminalNodes(game); n != 30 {
		t.Errorf("expected %d terminal nodes, got %d", 30, n)
	}

	if n := tree.CountInfoSets(game); n != 12 {
		t.Errorf("expected %d info sets, got %d", 12, n)
	}

	// Deal, action, action, optional third action.
	if d := tree.MaxDepth(game); d != 4 {
		t.Errorf("expected max depth %d, got %d", 4, d)
	}
}

func TestPoker_ZeroSum(t *testing.T) {
	game := NewGame()
	for _, outcome := range game.ChanceOutcomes() {
		tree.Visit(outcome.Root, func(node cfr.GameTreeNode) {
			if node.Type() != cfr.TerminalNode {
				return
			}

			if u0, u1 := node.Utility(0), node.Utility(1); u0+u1 != 0 {
				t.Errorf("%v: utilities %v + %v != 0", node, u0, u1)
			}
		})
	}
}

func TestPoker_TerminalUtilities(t *testing.T) {
	cases := []struct {
		p0Card, p1Card Card
		actions        string
		expectedP0     float32
	}{
		{Ace, Queen, "cc", 1.0},   // showdown, no bet
		{Queen, King, "cc", -1.0}, // showdown, no bet
		{Ace, Queen, "bb", 2.0},   // bet-call showdown
		{Queen, Ace, "bb", -2.0},  // bet-call showdown
		{Ace, Queen, "cbb", 2.0},  // check, bet, call
		{Queen, Ace, "cbb", -2.0}, // check, bet, call
		{Queen, Ace, "bc", 1.0},   // P1 folds; cards are irrelevant
		{Ace, Queen, "bc", 1.0},
		{Ace, Queen, "cbc", -1.0}, // P0 folds; cards are irrelevant
		{Queen, Ace, "cbc", -1.0},
	}

	for _, tc := range cases {
		node := mustPlay(t, tc.p0Card, tc.p1Card, tc.actions)
		if !node.IsTerminal() {
			t.Fatalf("%v/%v %q: expected terminal history", tc.p0Card, tc.p1Card, tc.actions)
		}

		if u := node.Utility(0); u != tc.expectedP0 {
			t.Errorf("%v/%v %q: expected utility %v for P0, got %v",
				tc.p0Card, tc.p1Card, tc.actions, tc.expectedP0, u)
		}

		if u := node.Utility(1); u != -tc.expectedP0 {
			t.Errorf("%v/%v %q: expected utility %v for P1, got %v",
				tc.p0Card, tc.p1Card, tc.actions, -tc.expectedP0, u)
		}
	}
}

func TestPoker_InvalidDeal(t *testing.T) {
	for _, card := range Cards {
		if _, err := Deal(card, card); !errors.Is(err, ErrInvalidDeal) {
			t.Errorf("Deal(%v, %v): expected ErrInvalidDeal, got %v", card, card, err)
		}
	}
}

func TestPoker_IllegalAction(t *testing.T) {
	terminal := mustPlay(t, Ace, Queen, "cc")
	if _, err := Act(terminal, Bet); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("acting on a terminal history: expected ErrIllegalAction, got %v", err)
	}

	root := mustPlay(t, Ace, Queen, "")
	if _, err := Act(root, Action('x')); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("unknown action: expected ErrIllegalAction, got %v", err)
	}
}

func TestPoker_Players(t *testing.T) {
	// Players alternate by parity of the action count.
	cases := []struct {
		actions string
		player  int
	}{
		{"", 0},
		{"c", 1},
		{"b", 1},
		{"cb", 0},
	}

	for _, tc := range cases {
		node := mustPlay(t, King, Ace, tc.actions)
		if p := node.Player(); p != tc.player {
			t.Errorf("history %q: expected player %d, got %d", tc.actions, tc.player, p)
		}
	}
}

func TestPoker_InfoSetKeys(t *testing.T) {
	// The key is the observing player's own card plus the public
	// history; the opponent's card must not leak into it.
	a := mustPlay(t, Ace, Queen, "b")
	b := mustPlay(t, King, Queen, "b")

	if key := a.InfoSet(1).Key(); key != "Qb" {
		t.Errorf("expected key %q, got %q", "Qb", key)
	}

	if aKey, bKey := a.InfoSet(1).Key(), b.InfoSet(1).Key(); aKey != bKey {
		t.Errorf("indistinguishable histories have distinct keys: %q vs %q", aKey, bKey)
	}

	if aKey, bKey := a.InfoSet(0).Key(), b.InfoSet(0).Key(); aKey == bKey {
		t.Errorf("dealer's key must include their card: got %q for both", aKey)
	}
}

func TestPoker_VanillaCFR(t *testing.T) {
	testCFR(t, cfr.DiscountParams{}, 100000)
}

func TestPoker_CFRPlus(t *testing.T) {
	testCFR(t, cfr.DiscountParams{
		UseRegretMatchingPlus: true,
	}, 100000)
}

func TestPoker_LinearCFR(t *testing.T) {
	testCFR(t, cfr.DiscountParams{
		LinearWeighting: true,
	}, 100000)
}

func TestPoker_DiscountedCFR(t *testing.T) {
	testCFR(t, cfr.DiscountParams{
		// From https://arxiv.org/pdf/1809.04040.pdf
		//   we found that setting α=3/2, β=0, and γ=2
		//   led to performance that was consistently stronger than CFR+
		DiscountAlpha: 1.5,
		DiscountBeta:  0.0,
		DiscountGamma: 2.0,
	}, 100000)
}

// testCFR trains for nIter iterations and checks the known equilibrium
// structure of Kuhn Poker: the bettor's bluffing frequency with the
// lowest card is at most 1/3 (any value in [0, 1/3] is an equilibrium
// point), a bet is always called with the highest card and always
// folded with the lowest, and the game is worth -1/18 to player 0.
func testCFR(t *testing.T, params cfr.DiscountParams, nIter int) {
	game := NewGame()
	trainer := cfr.NewTrainer(game, cfr.NewPolicyTable(params))
	strategies := trainer.Train(nIter)

	for key, strat := range strategies {
		t.Logf("%4s: check=%.2f bet=%.2f", key, strat[0], strat[1])

		var total float32
		for _, p := range strat {
			if p < 0 || p > 1 {
				t.Errorf("%v: probability %v outside [0, 1]", key, p)
			}
			total += p
		}

		if math.Abs(float64(total-1.0)) > 1e-3 {
			t.Errorf("%v: strategy sums to %v, expected 1", key, total)
		}
	}

	const bet = 1 // action index

	if p := strategies["Q"][bet]; p > 1.0/3.0+0.05 {
		t.Errorf("bluffing with Q at p=%v, equilibrium requires p <= 1/3", p)
	}

	if p := strategies["Ab"][bet]; p < 0.95 {
		t.Errorf("calling a bet with A at p=%v, expected ~1", p)
	}

	if p := strategies["Acb"][bet]; p < 0.95 {
		t.Errorf("calling a check-raise bet with A at p=%v, expected ~1", p)
	}

	if p := strategies["Qb"][bet]; p > 0.05 {
		t.Errorf("calling a bet with Q at p=%v, expected ~0", p)
	}

	if p := strategies["Qcb"][bet]; p > 0.05 {
		t.Errorf("calling a check-raise bet with Q at p=%v, expected ~0", p)
	}

	// In equilibrium the value bet with A is made at three times the
	// bluffing frequency with Q.
	if pA, pQ := strategies["A"][bet], strategies["Q"][bet]; math.Abs(float64(pA-3*pQ)) > 0.15 {
		t.Errorf("A bet frequency %v is not ~3x Q bluff frequency %v", pA, pQ)
	}

	if v := trainer.GameValue(); math.Abs(float64(v)+1.0/18.0) > 0.02 {
		t.Errorf("game value for player 0 is %v, expected ~%v", v, -1.0/18.0)
	}
}

func TestPoker_NodeUtilityDecomposition(t *testing.T) {
	game := NewGame()
	policies := cfr.NewPolicyTable(cfr.DiscountParams{})
	trainer := cfr.NewTrainer(game, policies)
	for i := 0; i < 100; i++ {
		trainer.RunIter()
	}

	// The utility the engine reports for a subtree must equal the
	// reach-weighted sum of child utilities, recomputed independently
	// of the traversal.
	engine := cfr.New(policies)
	for _, outcome := range game.ChanceOutcomes() {
		for player := 0; player < game.NumPlayers(); player++ {
			expected := expectedUtility(outcome.Root, player, policies)
			got := engine.Run(outcome.Root, player, outcome.Prob)
			if math.Abs(float64(got-expected)) > 1e-5 {
				t.Errorf("%v (traverser %d): engine utility %v, recomputed %v",
					outcome.Root, player, got, expected)
			}
		}
	}
}

// expectedUtility recomputes the expected utility of a subtree for the
// given player under the current strategy profile, without touching any
// accumulated state.
func expectedUtility(node cfr.GameTreeNode, player int, policies cfr.StrategyProfile) float32 {
	if node.Type() == cfr.TerminalNode {
		return node.Utility(player)
	}

	strategy := append([]float32(nil), policies.GetPolicy(node).GetStrategy()...)
	var total float32
	for i := 0; i < node.NumChildren(); i++ {
		total += strategy[i] * expectedUtility(node.GetChild(i), player, policies)
	}

	return total
}

func TestPoker_LoadSave(t *testing.T) {
	game := NewGame()
	policies := cfr.NewPolicyTable(cfr.DiscountParams{})
	trainer := cfr.NewTrainer(game, policies)
	strategies := trainer.Train(10)

	var buf bytes.Buffer
	if err := policies.MarshalTo(&buf); err != nil {
		t.Fatal(err)
	}

	reloaded, err := cfr.LoadPolicyTable(&buf)
	if err != nil {
		t.Fatal(err)
	}

	reloadedStrategies := cfr.NewTrainer(game, reloaded).AverageStrategyProfile()
	checkProfilesEqual(t, strategies, reloadedStrategies)
}

func TestPoker_AverageStrategyIdempotentRead(t *testing.T) {
	game := NewGame()
	trainer := cfr.NewTrainer(game, cfr.NewPolicyTable(cfr.DiscountParams{}))
	trainer.Train(10)

	first := trainer.AverageStrategyProfile()
	second := trainer.AverageStrategyProfile()
	checkProfilesEqual(t, first, second)
}

func checkProfilesEqual(t *testing.T, expected, got map[string][]float32) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %d infosets, got %d", len(expected), len(got))
	}

	for key, strat := range expected {
		other, ok := got[key]
		if !ok {
			t.Errorf("missing infoset %v", key)
			continue
		}

		for i, p := range strat {
			if other[i] != p {
				t.Errorf("%v action %d: expected p=%v, got %v", key, i, p, other[i])
			}
		}
	}
}

func mustPlay(t *testing.T, p0Card, p1Card Card, actions string) *PokerNode {
	t.Helper()
	node, err := Deal(p0Card, p1Card)
	if err != nil {
		t.Fatal(err)
	}

	for _, action := range actions {
		node, err = Act(node, Action(action))
		if err != nil {
			t.Fatal(err)
		}
	}

	return node
}

func BenchmarkVanillaCFR(b *testing.B) {
	game := NewGame()
	trainer := cfr.NewTrainer(game, cfr.NewPolicyTable(cfr.DiscountParams{}))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		trainer.RunIter()
	}
}
