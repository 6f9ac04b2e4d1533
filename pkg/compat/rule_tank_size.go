package compat

import "strconv"

// checkTankSize flags a subject whose minimum tank volume exceeds the actual
// tank. Directional against the oversized species regardless of its pairing:
// the subject is the source of the problem, whoever it is paired with. The
// escalation cutoff between caution and incompatible comes from catalog
// thresholds, not the engine.
func checkTankSize(in PairInput) []Finding {
	if in.A == nil || in.A.MinTankLiters <= 0 || in.Tank.VolumeL <= 0 {
		return nil
	}
	if in.Tank.VolumeL >= in.A.MinTankLiters {
		return nil
	}
	level := Incompatible
	if in.Tank.VolumeL >= in.A.MinTankLiters*in.Thresholds.VolumeCautionRatio {
		level = Caution
	}
	return []Finding{{
		SpeciesA: in.NameA,
		SpeciesB: in.NameB,
		Level:    level,
		Key:      KeyTankTooSmall,
		Params: map[string]string{
			"min_liters":  strconv.FormatFloat(in.A.MinTankLiters, 'f', -1, 64),
			"tank_liters": strconv.FormatFloat(in.Tank.VolumeL, 'f', -1, 64),
		},
	}}
}
