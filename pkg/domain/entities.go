// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by aquacore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityTank identifies an aquarium tank record.
	EntityTank EntityType = "tank"
	// EntityLivestock identifies a livestock record (fish, coral, invertebrate).
	EntityLivestock EntityType = "livestock"
	// EntityEquipment identifies an equipment record.
	EntityEquipment EntityType = "equipment"
	// EntityConsumable identifies a consumable inventory record.
	EntityConsumable EntityType = "consumable"
	// EntityExpense identifies a recorded expense.
	EntityExpense EntityType = "expense"
	// EntityPhoto identifies a stored photo's metadata record.
	EntityPhoto EntityType = "photo"
)

// TankState represents the canonical tank lifecycle states.
type TankState string

// Canonical tank states used by stocking rule evaluation.
const (
	// TankStateCycling indicates a tank still establishing its nitrogen cycle.
	TankStateCycling TankState = "cycling"
	// TankStateActive indicates a tank ready to hold livestock.
	TankStateActive         TankState = "active"
	TankStateMaintenance    TankState = "maintenance"
	TankStateDecommissioned TankState = "decommissioned"
)

// WaterType classifies the water chemistry of a tank.
type WaterType string

// Canonical tank water types.
const (
	WaterFreshwater WaterType = "freshwater"
	WaterSaltwater  WaterType = "saltwater"
	WaterBrackish   WaterType = "brackish"
)

// LivestockState enumerates livestock lifecycle states.
type LivestockState string

// Canonical livestock states used for stocking and transition validation.
const (
	LivestockStateActive     LivestockState = "active"
	LivestockStateQuarantine LivestockState = "quarantine"
	LivestockStateDeceased   LivestockState = "deceased"
	LivestockStateRehomed    LivestockState = "rehomed"
)

// Classification groups livestock into broad biological categories.
type Classification string

// Canonical livestock classifications.
const (
	ClassFish         Classification = "fish"
	ClassCoral        Classification = "coral"
	ClassInvertebrate Classification = "invertebrate"
)

// EquipmentState enumerates equipment lifecycle states.
type EquipmentState string

// Canonical equipment states.
const (
	EquipmentStateActive  EquipmentState = "active"
	EquipmentStateSpare   EquipmentState = "spare"
	EquipmentStateRetired EquipmentState = "retired"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tank represents a single aquarium managed by the system.
type Tank struct {
	Base
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	WaterType   WaterType  `json:"water_type"`
	VolumeL     float64    `json:"volume_liters"`
	StockLimit  int        `json:"stock_limit"`
	State       TankState  `json:"state"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Livestock represents one stocked species entry in a tank. Quantity counts
// individuals of the same species kept together (a school is one record).
type Livestock struct {
	Base
	Name           string         `json:"name"`
	SpeciesName    string         `json:"species_name"`
	Classification Classification `json:"classification"`
	Quantity       int            `json:"quantity"`
	TankID         *string        `json:"tank_id"`
	State          LivestockState `json:"state"`
	AcquiredAt     *time.Time     `json:"acquired_at,omitempty"`
	Notes          string         `json:"notes,omitempty"`
}

// Equipment represents a piece of hardware attached to a tank or held as spare.
type Equipment struct {
	Base
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	TankID      *string        `json:"tank_id"`
	State       EquipmentState `json:"state"`
	InstalledAt *time.Time     `json:"installed_at,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}

// ConsumableItem tracks stock of food, additives, filter media and similar supplies.
type ConsumableItem struct {
	Base
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`
	Unit           string  `json:"unit"`
	QuantityOnHand float64 `json:"quantity_on_hand"`
	ReorderLevel   float64 `json:"reorder_level"`
}

// Expense records a purchase or running cost, optionally tied to a tank.
type Expense struct {
	Base
	Description string    `json:"description"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	TankID      *string   `json:"tank_id"`
	IncurredAt  time.Time `json:"incurred_at"`
}

// Photo holds metadata for an image stored in the blob layer. The image bytes
// themselves live under BlobKey in the configured blob store.
type Photo struct {
	Base
	Caption     string     `json:"caption,omitempty"`
	BlobKey     string     `json:"blob_key"`
	ContentType string     `json:"content_type,omitempty"`
	TankID      *string    `json:"tank_id"`
	LivestockID *string    `json:"livestock_id"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
