package compat

// checkAggression flags behavioral mismatches between mobile species.
// An aggressive or predatory subject against a peaceful, non-schooling
// species is incompatible, directional aggressor to victim; a peaceful
// schooler diffuses the harassment across its group and downgrades the
// pairing to caution. Two aggressive species, or two territorial species
// sharing a niche group, earn caution.
func checkAggression(in PairInput) []Finding {
	if in.A == nil || in.B == nil {
		return nil
	}
	if in.A.SessileLike() || in.B.SessileLike() {
		return nil
	}

	aHostile := in.A.Temperament == TemperamentAggressive || in.A.Temperament == TemperamentPredatory
	if aHostile && in.B.Temperament == TemperamentPeaceful {
		level := Incompatible
		if in.B.MinGroupSize > 0 {
			level = Caution
		}
		return []Finding{{
			SpeciesA: in.NameA,
			SpeciesB: in.NameB,
			Level:    level,
			Key:      KeyAggressionConflict,
			Params: map[string]string{
				"temperament_a": string(in.A.Temperament),
				"temperament_b": string(in.B.Temperament),
			},
		}}
	}
	if in.A.Temperament == TemperamentAggressive && in.B.Temperament == TemperamentAggressive {
		return []Finding{{
			SpeciesA: in.NameA,
			SpeciesB: in.NameB,
			Level:    Caution,
			Key:      KeyAggressionConflict,
			Params: map[string]string{
				"temperament_a": string(in.A.Temperament),
				"temperament_b": string(in.B.Temperament),
			},
		}}
	}
	if in.A.Territorial && in.B.Territorial && in.A.Group != "" && in.A.Group == in.B.Group {
		return []Finding{{
			SpeciesA: in.NameA,
			SpeciesB: in.NameB,
			Level:    Caution,
			Key:      KeyTerritorialOverlap,
			Params:   map[string]string{"group": in.A.Group},
		}}
	}
	return nil
}
