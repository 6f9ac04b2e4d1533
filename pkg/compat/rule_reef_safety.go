package compat

// checkReefSafety flags a reef-unsafe subject kept with a coral or other
// sessile invertebrate. One-directional: the mobile species threatens the
// sessile one, never the reverse.
func checkReefSafety(in PairInput) []Finding {
	if in.A == nil || in.B == nil {
		return nil
	}
	if in.A.SessileLike() || !in.B.SessileLike() {
		return nil
	}
	var level Severity
	switch in.A.ReefSafety {
	case ReefUnsafe:
		level = Incompatible
	case ReefSafeCaution:
		level = Caution
	default:
		return nil
	}
	return []Finding{{
		SpeciesA: in.NameA,
		SpeciesB: in.NameB,
		Level:    level,
		Key:      KeyReefSafety,
		Params:   map[string]string{"reef_safety": string(in.A.ReefSafety)},
	}}
}
