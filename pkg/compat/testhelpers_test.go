package compat

import (
	"testing"

	"aquacore/pkg/domain"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog([]TraitRecord{
		{
			Name:           "Amphiprion ocellaris",
			Aliases:        []string{"ocellaris clownfish", "common clownfish"},
			Classification: domain.ClassFish,
			WaterType:      WaterSaltwater,
			Temperament:    TemperamentSemiAggressive,
			ReefSafety:     ReefSafe,
			MinTankLiters:  75,
			AdultSizeCM:    8,
			Territorial:    true,
			Group:          "clownfish",
		},
		{
			Name:           "Chromis viridis",
			Aliases:        []string{"green chromis"},
			Classification: domain.ClassFish,
			WaterType:      WaterSaltwater,
			Temperament:    TemperamentPeaceful,
			ReefSafety:     ReefSafe,
			MinTankLiters:  100,
			AdultSizeCM:    8,
			MinGroupSize:   6,
		},
		{
			Name:           "Cephalopholis miniata",
			Aliases:        []string{"coral grouper", "miniata grouper"},
			Classification: domain.ClassFish,
			WaterType:      WaterSaltwater,
			Temperament:    TemperamentPredatory,
			ReefSafety:     ReefSafeCaution,
			MinTankLiters:  500,
			AdultSizeCM:    40,
		},
		{
			Name:           "Paracheirodon innesi",
			Aliases:        []string{"neon tetra"},
			Classification: domain.ClassFish,
			WaterType:      WaterFreshwater,
			Temperament:    TemperamentPeaceful,
			MinTankLiters:  40,
			AdultSizeCM:    3,
			MinGroupSize:   6,
		},
		{
			Name:           "Euphyllia glabrescens",
			Aliases:        []string{"torch coral"},
			Classification: domain.ClassCoral,
			WaterType:      WaterSaltwater,
		},
		{
			Name:           "Balistoides conspicillum",
			Aliases:        []string{"clown triggerfish"},
			Classification: domain.ClassFish,
			WaterType:      WaterSaltwater,
			Temperament:    TemperamentAggressive,
			ReefSafety:     ReefUnsafe,
			MinTankLiters:  400,
			AdultSizeCM:    50,
		},
	}, Thresholds{})
	if err != nil {
		t.Fatalf("build test catalog: %v", err)
	}
	return catalog
}

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return NewEngine(NewCatalogRef(testCatalog(t)), opts...)
}
