package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() RuleView
	CreateTank(Tank) (Tank, error)
	UpdateTank(id string, mutator func(*Tank) error) (Tank, error)
	DeleteTank(id string) error
	CreateLivestock(Livestock) (Livestock, error)
	UpdateLivestock(id string, mutator func(*Livestock) error) (Livestock, error)
	DeleteLivestock(id string) error
	CreateEquipment(Equipment) (Equipment, error)
	UpdateEquipment(id string, mutator func(*Equipment) error) (Equipment, error)
	DeleteEquipment(id string) error
	CreateConsumable(ConsumableItem) (ConsumableItem, error)
	UpdateConsumable(id string, mutator func(*ConsumableItem) error) (ConsumableItem, error)
	DeleteConsumable(id string) error
	CreateExpense(Expense) (Expense, error)
	UpdateExpense(id string, mutator func(*Expense) error) (Expense, error)
	DeleteExpense(id string) error
	CreatePhoto(Photo) (Photo, error)
	UpdatePhoto(id string, mutator func(*Photo) error) (Photo, error)
	DeletePhoto(id string) error
	FindTank(id string) (Tank, bool)
	FindLivestock(id string) (Livestock, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(RuleView) error) error
	GetTank(id string) (Tank, bool)
	ListTanks() []Tank
	GetLivestock(id string) (Livestock, bool)
	ListLivestock() []Livestock
	ListEquipment() []Equipment
	ListConsumables() []ConsumableItem
	ListExpenses() []Expense
	ListPhotos() []Photo
}
