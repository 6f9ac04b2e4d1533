package compat

// checkWaterType flags pairs whose water chemistry requirements cannot both be
// met. Strict freshwater against strict saltwater is incompatible; a brackish
// species against either strict type is workable with caution. Species tagged
// WaterBoth never conflict. The rule emits the A-to-B direction only; the
// evaluator's reverse ordered pair produces the mirror finding.
func checkWaterType(in PairInput) []Finding {
	if in.A == nil || in.B == nil {
		return nil
	}
	a, b := in.A.WaterType, in.B.WaterType
	if a == "" || b == "" || a == WaterBoth || b == WaterBoth || a == b {
		return nil
	}
	level := Caution
	if (a == WaterFreshwater && b == WaterSaltwater) || (a == WaterSaltwater && b == WaterFreshwater) {
		level = Incompatible
	}
	return []Finding{{
		SpeciesA: in.NameA,
		SpeciesB: in.NameB,
		Level:    level,
		Key:      KeyWaterTypeConflict,
		Params:   map[string]string{"water_a": string(a), "water_b": string(b)},
	}}
}
