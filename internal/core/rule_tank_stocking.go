package core

import (
	"context"
	"fmt"

	"aquacore/pkg/domain"
)

// NewTankStockingRule returns the default in-transaction rule enforcing
// per-tank stocking limits. A tank's StockLimit caps the summed quantity of
// its assigned active and quarantined livestock; a limit of zero means
// unbounded.
func NewTankStockingRule() domain.Rule {
	return tankStockingRule{}
}

type tankStockingRule struct{}

func (tankStockingRule) Name() string { return "tank_stocking_limit" }

func (tankStockingRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	occupancy := make(map[string]int)
	for _, stock := range view.ListLivestock() {
		if stock.TankID == nil {
			continue
		}
		if stock.State != domain.LivestockStateActive && stock.State != domain.LivestockStateQuarantine {
			continue
		}
		occupancy[*stock.TankID] += stock.Quantity
	}

	res := domain.Result{}
	for _, tank := range view.ListTanks() {
		if tank.StockLimit <= 0 {
			continue
		}
		count := occupancy[tank.ID]
		if count > tank.StockLimit {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "tank_stocking_limit",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("tank %s (%s) over stocking limit: %d/%d individuals", tank.Name, tank.ID, count, tank.StockLimit),
				Entity:   domain.EntityTank,
				EntityID: tank.ID,
			})
		}
	}
	return res, nil
}
