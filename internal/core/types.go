package core

import "aquacore/pkg/domain"

type (
	EntityType         = domain.EntityType
	WaterType          = domain.WaterType
	TankState          = domain.TankState
	LivestockState     = domain.LivestockState
	Classification     = domain.Classification
	Severity           = domain.Severity
	Base               = domain.Base
	Tank               = domain.Tank
	Livestock          = domain.Livestock
	Equipment          = domain.Equipment
	ConsumableItem     = domain.ConsumableItem
	Expense            = domain.Expense
	Photo              = domain.Photo
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Rule               = domain.Rule
	RuleView           = domain.RuleView
	RulesEngine        = domain.RulesEngine
	Transaction        = domain.Transaction
	PersistentStore    = domain.PersistentStore
)

const (
	EntityTank       = domain.EntityTank
	EntityLivestock  = domain.EntityLivestock
	EntityEquipment  = domain.EntityEquipment
	EntityConsumable = domain.EntityConsumable
	EntityExpense    = domain.EntityExpense
	EntityPhoto      = domain.EntityPhoto
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
