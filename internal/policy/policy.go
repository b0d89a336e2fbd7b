// Package policy implements the per-information-set state for tabular
// CFR: the accumulated regrets and the accumulated, reach-weighted
// strategy sum, with regret matching to derive the current strategy.
package policy

import (
	"bytes"
	"encoding/gob"

	"github.com/onatozer/kuhn-poker/internal/f32"
)

// Policy is the accumulated regret and strategy state for a single
// information set. It implements cfr.NodePolicy.
//
// Policy is not safe for concurrent use: each information set has a
// single writer, the traversal that visits it.
type Policy struct {
	current     []float32
	regretSum   []float32
	strategySum []float32
}

// New returns a new Policy for an information set with the given
// number of actions. All sums start at zero, so the initial strategy
// is the uniform distribution.
func New(nActions int) *Policy {
	return &Policy{
		current:     uniformDist(nActions),
		regretSum:   make([]float32, nActions),
		strategySum: make([]float32, nActions),
	}
}

// GetStrategy returns the current strategy obtained by regret matching:
// accumulated regrets are clipped at zero and normalized, falling back
// to the uniform distribution when no action has positive regret.
//
// The strategy is recomputed from the accumulated regrets on every call,
// since the regrets change between visits. The returned slice is reused
// by the next call; callers that recurse must copy it first.
func (p *Policy) GetStrategy() []float32 {
	p.calcStrategy()
	return p.current
}

func (p *Policy) calcStrategy() {
	copy(p.current, p.regretSum)
	makePositive(p.current)
	total := f32.Sum(p.current)
	if total > 0 {
		f32.ScalUnitary(1.0/total, p.current)
	} else {
		for i := range p.current {
			p.current[i] = 1.0 / float32(len(p.current))
		}
	}
}

// AddRegret accumulates the counterfactually-weighted instantaneous
// advantages into the regret sum.
func (p *Policy) AddRegret(counterfactualP float32, instantaneousAdvantages []float32) {
	f32.AxpyUnitary(counterfactualP, instantaneousAdvantages, p.regretSum)
}

// AddStrategyWeight accumulates w times the strategy most recently
// returned by GetStrategy into the strategy sum. It must be called
// during the visit that computed that strategy, before the information
// set is looked at again.
func (p *Policy) AddStrategyWeight(w float32) {
	f32.AxpyUnitary(w, p.current, p.strategySum)
}

// GetAverageStrategy returns the strategy sum normalized over all
// iterations so far. An information set that has never been reached
// with positive weight gets the uniform distribution.
func (p *Policy) GetAverageStrategy() []float32 {
	avgStrat := make([]float32, len(p.strategySum))
	total := f32.Sum(p.strategySum)
	if total > 0 {
		f32.ScalUnitaryTo(avgStrat, 1.0/total, p.strategySum)
	} else {
		f32.AddConst(1.0/float32(len(avgStrat)), avgStrat)
	}

	return avgStrat
}

// NextStrategy applies the end-of-iteration discount factors to the
// accumulated sums. With all factors equal to 1 (vanilla CFR) it is a
// no-op.
func (p *Policy) NextStrategy(discountPositiveRegret, discountNegativeRegret, discountStrategySum float32) {
	if discountStrategySum != 1.0 {
		f32.ScalUnitary(discountStrategySum, p.strategySum)
	}

	if discountPositiveRegret != 1.0 {
		for i, x := range p.regretSum {
			if x > 0 {
				p.regretSum[i] *= discountPositiveRegret
			}
		}
	}

	if discountNegativeRegret != 1.0 {
		for i, x := range p.regretSum {
			if x < 0 {
				p.regretSum[i] *= discountNegativeRegret
			}
		}
	}
}

// NumActions returns the number of actions at this information set.
func (p *Policy) NumActions() int {
	return len(p.regretSum)
}

// GobEncode implements gob.GobEncoder.
func (p *Policy) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(p.NumActions()); err != nil {
		return nil, err
	}

	if err := enc.Encode(p.regretSum); err != nil {
		return nil, err
	}

	if err := enc.Encode(p.strategySum); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (p *Policy) GobDecode(buf []byte) error {
	r := bytes.NewReader(buf)
	dec := gob.NewDecoder(r)

	var nActions int
	if err := dec.Decode(&nActions); err != nil {
		return err
	}

	regretSum := make([]float32, 0, nActions)
	if err := dec.Decode(&regretSum); err != nil {
		return err
	}

	strategySum := make([]float32, 0, nActions)
	if err := dec.Decode(&strategySum); err != nil {
		return err
	}

	p.regretSum = regretSum
	p.strategySum = strategySum
	p.current = make([]float32, nActions)
	p.calcStrategy()
	return nil
}

func uniformDist(n int) []float32 {
	result := make([]float32, n)
	f32.AddConst(1.0/float32(n), result)
	return result
}

func makePositive(v []float32) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}
