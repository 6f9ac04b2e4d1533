package compat

import "strconv"

// checkPredation flags prey-sized tankmates of a predatory subject.
// Directional: predator to prey. Prey within the configured envelope of the
// predator's size is incompatible; borderline or unknown sizes escalate to
// caution rather than silently passing.
func checkPredation(in PairInput) []Finding {
	if in.A == nil || in.B == nil {
		return nil
	}
	if in.A.Temperament != TemperamentPredatory || in.B.SessileLike() {
		return nil
	}
	predator, prey := in.A.AdultSizeCM, in.B.AdultSizeCM
	if predator <= 0 || prey <= 0 {
		return []Finding{{
			SpeciesA: in.NameA,
			SpeciesB: in.NameB,
			Level:    Caution,
			Key:      KeyPredationRisk,
			Params:   map[string]string{"reason": "size_unknown"},
		}}
	}
	var level Severity
	switch {
	case prey <= predator*in.Thresholds.PreyRatio:
		level = Incompatible
	case prey <= predator*in.Thresholds.PreyCautionRatio:
		level = Caution
	default:
		return nil
	}
	return []Finding{{
		SpeciesA: in.NameA,
		SpeciesB: in.NameB,
		Level:    level,
		Key:      KeyPredationRisk,
		Params: map[string]string{
			"predator_cm": strconv.FormatFloat(predator, 'f', -1, 64),
			"prey_cm":     strconv.FormatFloat(prey, 'f', -1, 64),
		},
	}}
}
