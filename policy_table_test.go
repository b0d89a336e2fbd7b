package cfr

import (
	"math"
	"testing"
)

type testInfoSet string

func (is testInfoSet) Key() string { return string(is) }

type testNode struct {
	key       string
	nChildren int
}

func (n testNode) Type() NodeType              { return PlayerNode }
func (n testNode) NumChildren() int            { return n.nChildren }
func (n testNode) GetChild(i int) GameTreeNode { return nil }
func (n testNode) Player() int                 { return 0 }
func (n testNode) InfoSet(player int) InfoSet  { return testInfoSet(n.key) }
func (n testNode) Utility(player int) float32  { return 0 }

func TestPolicyTable_LazyCreation(t *testing.T) {
	pt := NewPolicyTable(DiscountParams{})

	if strat := pt.GetAverageStrategy("unseen"); strat != nil {
		t.Errorf("expected nil average strategy for unseen key, got %v", strat)
	}

	node := testNode{key: "abc", nChildren: 2}
	np := pt.GetPolicy(node)
	for i, p := range np.GetStrategy() {
		if p != 0.5 {
			t.Errorf("fresh policy action %d: expected p=0.5, got %v", i, p)
		}
	}

	if np2 := pt.GetPolicy(node); np2 != np {
		t.Error("expected the same policy on repeated lookup")
	}
}

func TestPolicyTable_ActionCountMismatchPanics(t *testing.T) {
	pt := NewPolicyTable(DiscountParams{})
	pt.GetPolicy(testNode{key: "abc", nChildren: 2})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on action count mismatch")
		}
	}()

	pt.GetPolicy(testNode{key: "abc", nChildren: 3})
}

func TestPolicyTable_Iter(t *testing.T) {
	pt := NewPolicyTable(DiscountParams{})
	if pt.Iter() != 1 {
		t.Errorf("expected initial iter 1, got %d", pt.Iter())
	}

	pt.Update()
	pt.Update()
	if pt.Iter() != 3 {
		t.Errorf("expected iter 3 after two updates, got %d", pt.Iter())
	}
}

func TestDiscountParams_Vanilla(t *testing.T) {
	pos, neg, sum := DiscountParams{}.GetDiscountFactors(10)
	if pos != 1.0 || neg != 1.0 || sum != 1.0 {
		t.Errorf("vanilla CFR must not discount: got %v, %v, %v", pos, neg, sum)
	}
}

func TestDiscountParams_CFRPlus(t *testing.T) {
	_, neg, _ := DiscountParams{UseRegretMatchingPlus: true}.GetDiscountFactors(10)
	if neg != 0.0 {
		t.Errorf("CFR+ must zero negative regrets: got %v", neg)
	}
}

func TestDiscountParams_LinearWeighting(t *testing.T) {
	_, _, sum := DiscountParams{LinearWeighting: true}.GetDiscountFactors(4)
	if math.Abs(float64(sum)-0.8) > 1e-6 {
		t.Errorf("linear CFR at iter 4: expected sum discount 0.8, got %v", sum)
	}
}
