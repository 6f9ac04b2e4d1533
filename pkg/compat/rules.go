package compat

// TankContext carries the attributes of the tank a pairing is evaluated in.
// It is supplied by the caller from the external tank record; the engine does
// not store it.
type TankContext struct {
	WaterType WaterType `json:"water_type"`
	VolumeL   float64   `json:"volume_liters"`
}

// PairInput is the full context a rule may inspect for one ordered pair.
// A is the subject (potential source of risk), B the affected party. Either
// trait record may be nil when the species did not resolve; every rule must
// guard the fields it needs and return no findings rather than fail.
type PairInput struct {
	A, B         *TraitRecord
	NameA, NameB string
	QuantityA    int
	Tank         TankContext
	Thresholds   Thresholds
}

// RuleFunc is the single shape all compatibility rules share: a pure,
// stateless function from one ordered pair to zero or more findings whose
// SpeciesA/SpeciesB are drawn from the pair's names.
type RuleFunc func(in PairInput) []Finding

// PairRule names a rule function. Key is used as the finding description key
// and in evaluator diagnostics.
type PairRule struct {
	Key   string
	Check RuleFunc
}

// DefaultRules returns the built-in rule catalog in its fixed evaluation
// order. The slice is assembled at startup and never mutated; evaluation
// order is part of the engine's deterministic output contract.
func DefaultRules() []PairRule {
	return []PairRule{
		{Key: KeyWaterTypeConflict, Check: checkWaterType},
		{Key: KeyReefSafety, Check: checkReefSafety},
		{Key: KeyPredationRisk, Check: checkPredation},
		{Key: KeyAggressionConflict, Check: checkAggression},
		{Key: KeyTankTooSmall, Check: checkTankSize},
		{Key: KeySchoolingGroup, Check: checkSchooling},
	}
}

// Finding description keys emitted by the built-in rules.
const (
	KeyWaterTypeConflict  = "water_type_conflict"
	KeyReefSafety         = "reef_safety"
	KeyPredationRisk      = "predation_risk"
	KeyAggressionConflict = "aggression_conflict"
	KeyTerritorialOverlap = "territorial_overlap"
	KeyTankTooSmall       = "tank_too_small"
	KeySchoolingGroup     = "schooling_group_too_small"
)
