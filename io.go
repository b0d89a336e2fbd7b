package cfr

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"

	"github.com/onatozer/kuhn-poker/internal/policy"
)

// MarshalTo serializes this PolicyTable to the given io.Writer so that
// a training run can be checkpointed and resumed.
func (pt *PolicyTable) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(pt.params); err != nil {
		return err
	}

	if err := enc.Encode(pt.iter); err != nil {
		return err
	}

	if err := enc.Encode(len(pt.policiesByKey)); err != nil {
		return err
	}

	for key, p := range pt.policiesByKey {
		if err := enc.Encode(key); err != nil {
			return err
		}

		if err := enc.Encode(p); err != nil {
			return err
		}
	}

	return nil
}

// LoadPolicyTable deserializes a PolicyTable written by MarshalTo.
func LoadPolicyTable(r io.Reader) (*PolicyTable, error) {
	dec := gob.NewDecoder(r)
	var params DiscountParams
	if err := dec.Decode(&params); err != nil {
		return nil, errors.Wrap(err, "loading policy table params")
	}

	var iter int
	if err := dec.Decode(&iter); err != nil {
		return nil, errors.Wrap(err, "loading policy table iteration")
	}

	var nPolicies int
	if err := dec.Decode(&nPolicies); err != nil {
		return nil, errors.Wrap(err, "loading policy table size")
	}

	policiesByKey := make(map[string]*policy.Policy, nPolicies)
	for i := 0; i < nPolicies; i++ {
		var key string
		if err := dec.Decode(&key); err != nil {
			return nil, errors.Wrapf(err, "loading key %d of %d", i, nPolicies)
		}

		var p policy.Policy
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrapf(err, "loading policy for %v", key)
		}

		policiesByKey[key] = &p
	}

	return &PolicyTable{
		params:        params,
		iter:          iter,
		policiesByKey: policiesByKey,
		needsUpdate:   make(map[*policy.Policy]struct{}),
	}, nil
}
