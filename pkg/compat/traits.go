package compat

import "aquacore/pkg/domain"

// WaterType classifies the water chemistry a species tolerates. It extends the
// tank water types with WaterBoth for euryhaline species that tolerate any.
type WaterType string

// Canonical species water tolerances.
const (
	WaterFreshwater WaterType = "freshwater"
	WaterSaltwater  WaterType = "saltwater"
	WaterBrackish   WaterType = "brackish"
	WaterBoth       WaterType = "both"
)

// Temperament classifies the behavioral disposition of a species.
type Temperament string

// Canonical temperament classes. The empty string means unknown.
const (
	TemperamentPeaceful       Temperament = "peaceful"
	TemperamentSemiAggressive Temperament = "semi-aggressive"
	TemperamentAggressive     Temperament = "aggressive"
	TemperamentPredatory      Temperament = "predatory"
)

// ReefSafety classifies whether a species can be kept with corals and other
// sessile invertebrates. Meaningful for saltwater contexts only; the empty
// string means unknown or not applicable.
type ReefSafety string

// Canonical reef safety classes.
const (
	ReefSafe        ReefSafety = "safe"
	ReefSafeCaution ReefSafety = "safe-with-caution"
	ReefUnsafe      ReefSafety = "unsafe"
)

// TraitRecord holds the compatibility-relevant attributes of one species.
// Records are owned by the Catalog and are immutable after load; the engine
// never mutates them. Zero values mean the trait is unknown, and every rule
// guards against traits it needs being absent.
type TraitRecord struct {
	Name           string                `json:"name" yaml:"name"`
	Aliases        []string              `json:"aliases,omitempty" yaml:"aliases"`
	Classification domain.Classification `json:"classification" yaml:"classification"`
	WaterType      WaterType             `json:"water_type" yaml:"water_type"`
	Temperament    Temperament           `json:"temperament" yaml:"temperament"`
	ReefSafety     ReefSafety            `json:"reef_safety,omitempty" yaml:"reef_safety"`
	MinTankLiters  float64               `json:"min_tank_liters,omitempty" yaml:"min_tank_liters"`
	AdultSizeCM    float64               `json:"adult_size_cm,omitempty" yaml:"adult_size_cm"`
	Territorial    bool                  `json:"territorial,omitempty" yaml:"territorial"`
	Sessile        bool                  `json:"sessile,omitempty" yaml:"sessile"`
	MinGroupSize   int                   `json:"min_group_size,omitempty" yaml:"min_group_size"`
	Group          string                `json:"group,omitempty" yaml:"group"`
}

// SessileLike reports whether the species is a coral or otherwise fixed to the
// rockwork, making it a potential victim of reef-unsafe tankmates.
func (t TraitRecord) SessileLike() bool {
	return t.Sessile || t.Classification == domain.ClassCoral
}
