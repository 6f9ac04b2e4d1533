package core

import (
	"context"
	"fmt"

	"aquacore/pkg/compat"
	"aquacore/pkg/domain"
)

// NewCompatibilityAdvisoryRule runs the pairwise compatibility engine over
// every tank touched by the transaction and surfaces its findings as warning
// violations. Findings never block a commit; the keeper decides.
func NewCompatibilityAdvisoryRule(engine *compat.Engine) domain.Rule {
	return compatAdvisoryRule{engine: engine}
}

type compatAdvisoryRule struct {
	engine *compat.Engine
}

func (compatAdvisoryRule) Name() string { return "compatibility_advisory" }

func (r compatAdvisoryRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	if r.engine == nil {
		return res, nil
	}

	tankIDs := touchedTanks(changes)
	if len(tankIDs) == 0 {
		return res, nil
	}

	for tankID := range tankIDs {
		tank, ok := view.FindTank(tankID)
		if !ok {
			continue
		}
		var stock []compat.StockEntry
		for _, l := range view.ListLivestock() {
			if l.TankID == nil || *l.TankID != tankID || l.State != domain.LivestockStateActive {
				continue
			}
			stock = append(stock, compat.StockEntry{
				DisplayName:    l.SpeciesName,
				Classification: l.Classification,
				Quantity:       l.Quantity,
			})
		}
		if len(stock) < 2 {
			continue
		}
		report := r.engine.Evaluate(stock, compat.TankContext{
			WaterType: compat.WaterType(tank.WaterType),
			VolumeL:   tank.VolumeL,
		})
		for _, finding := range report.Alerts() {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "compatibility_advisory",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("tank %s: %s vs %s: %s (%s)", tank.Name, finding.SpeciesA, finding.SpeciesB, finding.Key, finding.Level),
				Entity:   domain.EntityTank,
				EntityID: tank.ID,
			})
		}
	}
	return res, nil
}

// touchedTanks collects the tank IDs affected by a change set: tanks mutated
// directly plus the before and after assignments of mutated livestock.
func touchedTanks(changes []domain.Change) map[string]struct{} {
	ids := make(map[string]struct{})
	collect := func(payload any) {
		switch v := payload.(type) {
		case domain.Tank:
			ids[v.ID] = struct{}{}
		case domain.Livestock:
			if v.TankID != nil {
				ids[*v.TankID] = struct{}{}
			}
		}
	}
	for _, change := range changes {
		collect(change.Before)
		collect(change.After)
	}
	return ids
}
