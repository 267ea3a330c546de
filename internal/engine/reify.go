package engine

import (
	"fmt"

	"github.com/gitrdm/gokanlogic/pkg/minikanren"
)

// boolVar allocates a fresh {1=false, 2=true} variable, the convention every
// reified constraint in this library uses.
func boolVar(m *minikanren.Model) *minikanren.FDVariable {
	return m.NewVariable(minikanren.NewBitSetDomain(2))
}

// reifyInSet returns a bool that is 2 (true) iff v's value lands in set.
func reifyInSet(m *minikanren.Model, v *minikanren.FDVariable, set []int) (*minikanren.FDVariable, error) {
	b := boolVar(m)
	c, err := minikanren.NewInSetReified(v, set, b)
	if err != nil {
		return nil, fmt.Errorf("engine: reifyInSet: %w", err)
	}
	m.AddConstraint(c)
	return b, nil
}

// reifyEquals returns a bool that is 2 (true) iff v's value equals target.
func reifyEquals(m *minikanren.Model, v *minikanren.FDVariable, target int) (*minikanren.FDVariable, error) {
	b := boolVar(m)
	c, err := minikanren.NewValueEqualsReified(v, target, b)
	if err != nil {
		return nil, fmt.Errorf("engine: reifyEquals: %w", err)
	}
	m.AddConstraint(c)
	return b, nil
}

// reifySameValue returns a bool that is 2 (true) iff x and y hold equal values.
func reifySameValue(m *minikanren.Model, x, y *minikanren.FDVariable) (*minikanren.FDVariable, error) {
	b := boolVar(m)
	c, err := minikanren.NewEqualityReified(x, y, b)
	if err != nil {
		return nil, fmt.Errorf("engine: reifySameValue: %w", err)
	}
	m.AddConstraint(c)
	return b, nil
}

// reifyNot flips a {1,2} boolean: returns 2 (true) iff b is 1 (false).
func reifyNot(m *minikanren.Model, b *minikanren.FDVariable) (*minikanren.FDVariable, error) {
	return reifyInSet(m, b, []int{1})
}

// reifyCount sums a list of {1,2} booleans; the result's domain is
// [1, len(bools)+1] where value-1 is the number of true entries.
func reifyCount(m *minikanren.Model, bools []*minikanren.FDVariable) (*minikanren.FDVariable, error) {
	total := m.IntVar(1, len(bools)+1, "")
	c, err := minikanren.NewBoolSum(bools, total)
	if err != nil {
		return nil, fmt.Errorf("engine: reifyCount: %w", err)
	}
	m.AddConstraint(c)
	return total, nil
}

// reifyAtLeastOne returns a bool that is 2 (true) iff at least one of bools
// is true.
func reifyAtLeastOne(m *minikanren.Model, bools []*minikanren.FDVariable) (*minikanren.FDVariable, error) {
	total, err := reifyCount(m, bools)
	if err != nil {
		return nil, err
	}
	atLeastOne := make([]int, 0, len(bools))
	for v := 2; v <= len(bools)+1; v++ {
		atLeastOne = append(atLeastOne, v)
	}
	return reifyInSet(m, total, atLeastOne)
}

// reifyAll returns a bool that is 2 (true) iff every entry in bools is true.
func reifyAll(m *minikanren.Model, bools []*minikanren.FDVariable) (*minikanren.FDVariable, error) {
	total, err := reifyCount(m, bools)
	if err != nil {
		return nil, err
	}
	return reifyInSet(m, total, []int{len(bools) + 1})
}
