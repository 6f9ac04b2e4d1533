package core

import (
	"context"
	"fmt"

	"aquacore/pkg/compat"
	"aquacore/pkg/domain"
)

// NewWaterTypeMatchRule warns when livestock is assigned to a tank whose
// water chemistry conflicts with the species' catalog tolerance. Unresolved
// species produce no violations; the catalog is advisory, not authoritative.
func NewWaterTypeMatchRule(catalog *compat.CatalogRef) domain.Rule {
	return waterTypeMatchRule{catalog: catalog}
}

type waterTypeMatchRule struct {
	catalog *compat.CatalogRef
}

func (waterTypeMatchRule) Name() string { return "water_type_match" }

func (r waterTypeMatchRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	if r.catalog == nil {
		return res, nil
	}
	catalog := r.catalog.Current()
	if catalog == nil {
		return res, nil
	}

	for _, stock := range view.ListLivestock() {
		if stock.TankID == nil || stock.State != domain.LivestockStateActive {
			continue
		}
		tank, ok := view.FindTank(*stock.TankID)
		if !ok || tank.WaterType == "" {
			continue
		}
		traits := catalog.Resolve(stock.SpeciesName, stock.Classification)
		if traits == nil || traits.WaterType == "" || traits.WaterType == compat.WaterBoth {
			continue
		}
		if traits.WaterType == compat.WaterType(tank.WaterType) {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "water_type_match",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("%s needs %s water but tank %s is %s", stock.SpeciesName, traits.WaterType, tank.Name, tank.WaterType),
			Entity:   domain.EntityLivestock,
			EntityID: stock.ID,
		})
	}
	return res, nil
}
