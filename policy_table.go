package cfr

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/onatozer/kuhn-poker/internal/policy"
)

// PolicyTable implements StrategyProfile by keeping accumulated regrets
// and strategy sums for each information set in memory, looked up by the
// InfoSet Key(). Information sets are created lazily on first visit,
// since the reachable key set is not known in advance.
type PolicyTable struct {
	params DiscountParams
	iter   int

	// Map of InfoSet Key -> policy for that infoset.
	policiesByKey map[string]*policy.Policy
	needsUpdate   map[*policy.Policy]struct{}
}

// NewPolicyTable creates a new PolicyTable with the given DiscountParams.
func NewPolicyTable(params DiscountParams) *PolicyTable {
	return &PolicyTable{
		params:        params,
		iter:          1,
		policiesByKey: make(map[string]*policy.Policy),
		needsUpdate:   make(map[*policy.Policy]struct{}),
	}
}

// Update implements StrategyProfile. It applies the configured discount
// factors once to each policy touched since the last call and advances
// the iteration counter.
func (pt *PolicyTable) Update() {
	discountPos, discountNeg, discountSum := pt.params.GetDiscountFactors(pt.iter)
	glog.V(1).Infof("Updating %d policies", len(pt.needsUpdate))
	for p := range pt.needsUpdate {
		p.NextStrategy(discountPos, discountNeg, discountSum)
	}

	pt.needsUpdate = make(map[*policy.Policy]struct{})
	pt.iter++
}

// Iter implements StrategyProfile.
func (pt *PolicyTable) Iter() int {
	return pt.iter
}

// GetPolicy implements StrategyProfile.
func (pt *PolicyTable) GetPolicy(node GameTreeNode) NodePolicy {
	p := node.Player()
	key := node.InfoSet(p).Key()

	np, ok := pt.policiesByKey[key]
	if !ok {
		np = policy.New(node.NumChildren())
		pt.policiesByKey[key] = np
		if len(pt.policiesByKey)%100000 == 0 {
			glog.V(2).Infof("%d infosets", len(pt.policiesByKey))
		}
	}

	if np.NumActions() != node.NumChildren() {
		panic(fmt.Errorf("policy has n_actions=%v but node has n_children=%v: %v",
			np.NumActions(), node.NumChildren(), node))
	}

	pt.needsUpdate[np] = struct{}{}
	return np
}

// GetAverageStrategy returns the average strategy for the given infoset
// key, or nil if the key has never been visited.
func (pt *PolicyTable) GetAverageStrategy(key string) []float32 {
	np, ok := pt.policiesByKey[key]
	if !ok {
		return nil
	}

	return np.GetAverageStrategy()
}
