package core

import (
	"context"
	"fmt"

	"aquacore/pkg/domain"
)

// NewStateTransitionRule blocks illegal state transitions on stateful entities.
// Terminal states are final: a deceased or rehomed livestock record and a
// decommissioned tank can no longer change state.
func NewStateTransitionRule() domain.Rule {
	return stateTransitionRule{}
}

type stateTransitionRule struct{}

type stateMachine struct {
	entity    domain.EntityType
	label     string
	terminal  map[string]struct{}
	valid     map[string]struct{}
	extractor func(payload any) (id string, state string, ok bool)
}

var stateMachines = map[domain.EntityType]stateMachine{
	domain.EntityLivestock: {
		entity:   domain.EntityLivestock,
		label:    "livestock",
		terminal: toSet(string(domain.LivestockStateDeceased), string(domain.LivestockStateRehomed)),
		valid: toSet(
			string(domain.LivestockStateActive),
			string(domain.LivestockStateQuarantine),
			string(domain.LivestockStateDeceased),
			string(domain.LivestockStateRehomed),
		),
		extractor: func(payload any) (string, string, bool) {
			stock, ok := payload.(domain.Livestock)
			if !ok {
				return "", "", false
			}
			return stock.ID, string(stock.State), true
		},
	},
	domain.EntityTank: {
		entity:   domain.EntityTank,
		label:    "tank",
		terminal: toSet(string(domain.TankStateDecommissioned)),
		valid: toSet(
			string(domain.TankStateCycling),
			string(domain.TankStateActive),
			string(domain.TankStateMaintenance),
			string(domain.TankStateDecommissioned),
		),
		extractor: func(payload any) (string, string, bool) {
			tank, ok := payload.(domain.Tank)
			if !ok {
				return "", "", false
			}
			return tank.ID, string(tank.State), true
		},
	},
	domain.EntityEquipment: {
		entity:   domain.EntityEquipment,
		label:    "equipment",
		terminal: toSet(string(domain.EquipmentStateRetired)),
		valid: toSet(
			string(domain.EquipmentStateActive),
			string(domain.EquipmentStateSpare),
			string(domain.EquipmentStateRetired),
		),
		extractor: func(payload any) (string, string, bool) {
			equipment, ok := payload.(domain.Equipment)
			if !ok {
				return "", "", false
			}
			return equipment.ID, string(equipment.State), true
		},
	},
}

func (stateTransitionRule) Name() string { return "state_transition" }

func (stateTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		machine, ok := stateMachines[change.Entity]
		if !ok {
			continue
		}

		afterID, newState, ok := machine.extractor(change.After)
		if ok {
			if _, valid := machine.valid[newState]; !valid {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "state_transition",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("%s %s is set to invalid state %s", machine.label, afterID, newState),
					Entity:   machine.entity,
					EntityID: afterID,
				})
				continue
			}
		}

		beforeID, beforeState, ok := machine.extractor(change.Before)
		if !ok {
			continue
		}
		if _, terminal := machine.terminal[beforeState]; !terminal {
			continue
		}
		afterID, afterState, ok := machine.extractor(change.After)
		if !ok {
			continue
		}
		if afterState != beforeState {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "state_transition",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("cannot move %s %s from terminal state %s to %s", machine.label, beforeID, beforeState, afterState),
				Entity:   machine.entity,
				EntityID: afterID,
			})
		}
	}
	return res, nil
}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
