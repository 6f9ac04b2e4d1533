package compat

import "strconv"

// checkSchooling flags a schooling subject stocked below its minimum group
// size. The finding depends only on the subject's own quantity, but it is
// emitted per ordered pair so every partner's cell carries the same advisory.
func checkSchooling(in PairInput) []Finding {
	if in.A == nil || in.A.MinGroupSize <= 0 {
		return nil
	}
	if in.QuantityA <= 0 || in.QuantityA >= in.A.MinGroupSize {
		return nil
	}
	return []Finding{{
		SpeciesA: in.NameA,
		SpeciesB: in.NameB,
		Level:    Caution,
		Key:      KeySchoolingGroup,
		Params: map[string]string{
			"quantity": strconv.Itoa(in.QuantityA),
			"minimum":  strconv.Itoa(in.A.MinGroupSize),
		},
	}}
}
