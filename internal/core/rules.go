package core

import (
	"aquacore/pkg/compat"
	"aquacore/pkg/domain"
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
// The catalog may be nil, in which case the advisory rules stay silent.
func NewDefaultRulesEngine(catalog *compat.CatalogRef) *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewTankStockingRule())
	engine.Register(NewStateTransitionRule())
	if catalog != nil {
		engine.Register(NewWaterTypeMatchRule(catalog))
		engine.Register(NewCompatibilityAdvisoryRule(compat.NewEngine(catalog)))
	}
	return engine
}
