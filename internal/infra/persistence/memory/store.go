// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"aquacore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Tank aliases domain.Tank for in-memory persistence operations.
	Tank = domain.Tank
	// Livestock aliases domain.Livestock.
	Livestock = domain.Livestock
	// Equipment aliases domain.Equipment.
	Equipment = domain.Equipment
	// ConsumableItem aliases domain.ConsumableItem.
	ConsumableItem = domain.ConsumableItem
	// Expense aliases domain.Expense.
	Expense = domain.Expense
	// Photo aliases domain.Photo.
	Photo = domain.Photo
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// RuleView aliases domain.RuleView providing read-only state.
	RuleView = domain.RuleView
)

type memoryState struct {
	tanks       map[string]Tank
	livestock   map[string]Livestock
	equipment   map[string]Equipment
	consumables map[string]ConsumableItem
	expenses    map[string]Expense
	photos      map[string]Photo
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Tanks       map[string]Tank           `json:"tanks"`
	Livestock   map[string]Livestock      `json:"livestock"`
	Equipment   map[string]Equipment      `json:"equipment"`
	Consumables map[string]ConsumableItem `json:"consumables"`
	Expenses    map[string]Expense        `json:"expenses"`
	Photos      map[string]Photo          `json:"photos"`
}

func newMemoryState() memoryState {
	return memoryState{
		tanks:       make(map[string]Tank),
		livestock:   make(map[string]Livestock),
		equipment:   make(map[string]Equipment),
		consumables: make(map[string]ConsumableItem),
		expenses:    make(map[string]Expense),
		photos:      make(map[string]Photo),
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Tanks:       make(map[string]Tank, len(state.tanks)),
		Livestock:   make(map[string]Livestock, len(state.livestock)),
		Equipment:   make(map[string]Equipment, len(state.equipment)),
		Consumables: make(map[string]ConsumableItem, len(state.consumables)),
		Expenses:    make(map[string]Expense, len(state.expenses)),
		Photos:      make(map[string]Photo, len(state.photos)),
	}
	for k, v := range state.tanks {
		s.Tanks[k] = cloneTank(v)
	}
	for k, v := range state.livestock {
		s.Livestock[k] = cloneLivestock(v)
	}
	for k, v := range state.equipment {
		s.Equipment[k] = cloneEquipment(v)
	}
	for k, v := range state.consumables {
		s.Consumables[k] = cloneConsumable(v)
	}
	for k, v := range state.expenses {
		s.Expenses[k] = cloneExpense(v)
	}
	for k, v := range state.photos {
		s.Photos[k] = clonePhoto(v)
	}
	return s
}

// memoryStateFromSnapshot normalizes a snapshot loaded from external storage.
// Nil buckets become empty maps and records whose tank or livestock references
// no longer resolve have those references cleared rather than failing load.
func memoryStateFromSnapshot(snapshot Snapshot) memoryState {
	if snapshot.Tanks == nil {
		snapshot.Tanks = map[string]Tank{}
	}
	if snapshot.Livestock == nil {
		snapshot.Livestock = map[string]Livestock{}
	}
	if snapshot.Equipment == nil {
		snapshot.Equipment = map[string]Equipment{}
	}
	if snapshot.Consumables == nil {
		snapshot.Consumables = map[string]ConsumableItem{}
	}
	if snapshot.Expenses == nil {
		snapshot.Expenses = map[string]Expense{}
	}
	if snapshot.Photos == nil {
		snapshot.Photos = map[string]Photo{}
	}

	tankExists := func(id string) bool {
		_, ok := snapshot.Tanks[id]
		return ok
	}
	livestockExists := func(id string) bool {
		_, ok := snapshot.Livestock[id]
		return ok
	}

	for id, l := range snapshot.Livestock {
		if l.TankID != nil && !tankExists(*l.TankID) {
			l.TankID = nil
		}
		if l.Quantity <= 0 {
			l.Quantity = 1
		}
		snapshot.Livestock[id] = l
	}
	for id, e := range snapshot.Equipment {
		if e.TankID != nil && !tankExists(*e.TankID) {
			e.TankID = nil
		}
		snapshot.Equipment[id] = e
	}
	for id, e := range snapshot.Expenses {
		if e.TankID != nil && !tankExists(*e.TankID) {
			e.TankID = nil
		}
		snapshot.Expenses[id] = e
	}
	for id, p := range snapshot.Photos {
		if p.TankID != nil && !tankExists(*p.TankID) {
			p.TankID = nil
		}
		if p.LivestockID != nil && !livestockExists(*p.LivestockID) {
			p.LivestockID = nil
		}
		snapshot.Photos[id] = p
	}

	state := newMemoryState()
	for k, v := range snapshot.Tanks {
		state.tanks[k] = cloneTank(v)
	}
	for k, v := range snapshot.Livestock {
		state.livestock[k] = cloneLivestock(v)
	}
	for k, v := range snapshot.Equipment {
		state.equipment[k] = cloneEquipment(v)
	}
	for k, v := range snapshot.Consumables {
		state.consumables[k] = cloneConsumable(v)
	}
	for k, v := range snapshot.Expenses {
		state.expenses[k] = cloneExpense(v)
	}
	for k, v := range snapshot.Photos {
		state.photos[k] = clonePhoto(v)
	}
	return state
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.tanks {
		cloned.tanks[k] = cloneTank(v)
	}
	for k, v := range s.livestock {
		cloned.livestock[k] = cloneLivestock(v)
	}
	for k, v := range s.equipment {
		cloned.equipment[k] = cloneEquipment(v)
	}
	for k, v := range s.consumables {
		cloned.consumables[k] = cloneConsumable(v)
	}
	for k, v := range s.expenses {
		cloned.expenses[k] = cloneExpense(v)
	}
	for k, v := range s.photos {
		cloned.photos[k] = clonePhoto(v)
	}
	return cloned
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTank(t Tank) Tank {
	cp := t
	cp.StartedAt = cloneTimePtr(t.StartedAt)
	return cp
}

func cloneLivestock(l Livestock) Livestock {
	cp := l
	cp.TankID = cloneStringPtr(l.TankID)
	cp.AcquiredAt = cloneTimePtr(l.AcquiredAt)
	return cp
}

func cloneEquipment(e Equipment) Equipment {
	cp := e
	cp.TankID = cloneStringPtr(e.TankID)
	cp.InstalledAt = cloneTimePtr(e.InstalledAt)
	return cp
}

func cloneConsumable(c ConsumableItem) ConsumableItem { return c }

func cloneExpense(e Expense) Expense {
	cp := e
	cp.TankID = cloneStringPtr(e.TankID)
	return cp
}

func clonePhoto(p Photo) Photo {
	cp := p
	cp.TankID = cloneStringPtr(p.TankID)
	cp.LivestockID = cloneStringPtr(p.LivestockID)
	cp.TakenAt = cloneTimePtr(p.TakenAt)
	return cp
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RunInTransaction executes fn within a transactional copy of the store state.
// Registered rules are evaluated before commit and blocking violations abort
// the transaction with a RuleViolationError.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newRuleView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(RuleView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newRuleView(&snapshot))
}

// GetTank retrieves a tank by ID from committed state.
func (s *Store) GetTank(id string) (Tank, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.tanks[id]
	if !ok {
		return Tank{}, false
	}
	return cloneTank(t), true
}

// ListTanks returns all tanks from committed state.
func (s *Store) ListTanks() []Tank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tank, 0, len(s.state.tanks))
	for _, t := range s.state.tanks {
		out = append(out, cloneTank(t))
	}
	return out
}

// GetLivestock retrieves a livestock record by ID.
func (s *Store) GetLivestock(id string) (Livestock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.state.livestock[id]
	if !ok {
		return Livestock{}, false
	}
	return cloneLivestock(l), true
}

// ListLivestock returns all livestock records.
func (s *Store) ListLivestock() []Livestock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Livestock, 0, len(s.state.livestock))
	for _, l := range s.state.livestock {
		out = append(out, cloneLivestock(l))
	}
	return out
}

// ListEquipment returns all equipment records.
func (s *Store) ListEquipment() []Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Equipment, 0, len(s.state.equipment))
	for _, e := range s.state.equipment {
		out = append(out, cloneEquipment(e))
	}
	return out
}

// ListConsumables returns all consumable inventory records.
func (s *Store) ListConsumables() []ConsumableItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ConsumableItem, 0, len(s.state.consumables))
	for _, c := range s.state.consumables {
		out = append(out, cloneConsumable(c))
	}
	return out
}

// ListExpenses returns all expense records.
func (s *Store) ListExpenses() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Expense, 0, len(s.state.expenses))
	for _, e := range s.state.expenses {
		out = append(out, cloneExpense(e))
	}
	return out
}

// ListPhotos returns all photo metadata records.
func (s *Store) ListPhotos() []Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Photo, 0, len(s.state.photos))
	for _, p := range s.state.photos {
		out = append(out, clonePhoto(p))
	}
	return out
}

type ruleView struct {
	state *memoryState
}

func newRuleView(state *memoryState) RuleView {
	return ruleView{state: state}
}

func (v ruleView) ListTanks() []Tank {
	out := make([]Tank, 0, len(v.state.tanks))
	for _, t := range v.state.tanks {
		out = append(out, cloneTank(t))
	}
	return out
}

func (v ruleView) ListLivestock() []Livestock {
	out := make([]Livestock, 0, len(v.state.livestock))
	for _, l := range v.state.livestock {
		out = append(out, cloneLivestock(l))
	}
	return out
}

func (v ruleView) ListEquipment() []Equipment {
	out := make([]Equipment, 0, len(v.state.equipment))
	for _, e := range v.state.equipment {
		out = append(out, cloneEquipment(e))
	}
	return out
}

func (v ruleView) ListConsumables() []ConsumableItem {
	out := make([]ConsumableItem, 0, len(v.state.consumables))
	for _, c := range v.state.consumables {
		out = append(out, cloneConsumable(c))
	}
	return out
}

func (v ruleView) ListExpenses() []Expense {
	out := make([]Expense, 0, len(v.state.expenses))
	for _, e := range v.state.expenses {
		out = append(out, cloneExpense(e))
	}
	return out
}

func (v ruleView) ListPhotos() []Photo {
	out := make([]Photo, 0, len(v.state.photos))
	for _, p := range v.state.photos {
		out = append(out, clonePhoto(p))
	}
	return out
}

func (v ruleView) FindTank(id string) (Tank, bool) {
	t, ok := v.state.tanks[id]
	if !ok {
		return Tank{}, false
	}
	return cloneTank(t), true
}

func (v ruleView) FindLivestock(id string) (Livestock, bool) {
	l, ok := v.state.livestock[id]
	if !ok {
		return Livestock{}, false
	}
	return cloneLivestock(l), true
}

func (v ruleView) FindEquipment(id string) (Equipment, bool) {
	e, ok := v.state.equipment[id]
	if !ok {
		return Equipment{}, false
	}
	return cloneEquipment(e), true
}

func (v ruleView) FindConsumable(id string) (ConsumableItem, bool) {
	c, ok := v.state.consumables[id]
	if !ok {
		return ConsumableItem{}, false
	}
	return cloneConsumable(c), true
}

func (v ruleView) FindExpense(id string) (Expense, bool) {
	e, ok := v.state.expenses[id]
	if !ok {
		return Expense{}, false
	}
	return cloneExpense(e), true
}

func (v ruleView) FindPhoto(id string) (Photo, bool) {
	p, ok := v.state.photos[id]
	if !ok {
		return Photo{}, false
	}
	return clonePhoto(p), true
}

type transaction struct {
	store   *Store
	state   memoryState
	now     time.Time
	changes []Change
}

var _ Transaction = (*transaction)(nil)

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() RuleView {
	return newRuleView(&tx.state)
}

// FindTank retrieves a tank from the transactional state.
func (tx *transaction) FindTank(id string) (Tank, bool) {
	t, ok := tx.state.tanks[id]
	if !ok {
		return Tank{}, false
	}
	return cloneTank(t), true
}

// FindLivestock retrieves a livestock record from the transactional state.
func (tx *transaction) FindLivestock(id string) (Livestock, bool) {
	l, ok := tx.state.livestock[id]
	if !ok {
		return Livestock{}, false
	}
	return cloneLivestock(l), true
}

func (tx *transaction) tankRefValid(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.tanks[*id]; !ok {
		return fmt.Errorf("tank %q not found", *id)
	}
	return nil
}

func (tx *transaction) livestockRefValid(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := tx.state.livestock[*id]; !ok {
		return fmt.Errorf("livestock %q not found", *id)
	}
	return nil
}

// CreateTank inserts a tank, assigning an ID and timestamps.
func (tx *transaction) CreateTank(t Tank) (Tank, error) {
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.tanks[t.ID]; exists {
		return Tank{}, fmt.Errorf("tank %q already exists", t.ID)
	}
	if t.Name == "" {
		return Tank{}, errors.New("tank name is required")
	}
	if t.VolumeL <= 0 {
		return Tank{}, errors.New("tank volume must be positive")
	}
	if t.State == "" {
		t.State = domain.TankStateCycling
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.tanks[t.ID] = cloneTank(t)
	tx.recordChange(Change{Entity: domain.EntityTank, Action: domain.ActionCreate, After: cloneTank(t)})
	return cloneTank(t), nil
}

// UpdateTank applies a mutator to an existing tank.
func (tx *transaction) UpdateTank(id string, mutator func(*Tank) error) (Tank, error) {
	existing, ok := tx.state.tanks[id]
	if !ok {
		return Tank{}, fmt.Errorf("tank %q not found", id)
	}
	before := cloneTank(existing)
	updated := cloneTank(existing)
	if err := mutator(&updated); err != nil {
		return Tank{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.VolumeL <= 0 {
		return Tank{}, errors.New("tank volume must be positive")
	}
	updated.UpdatedAt = tx.now
	tx.state.tanks[id] = cloneTank(updated)
	tx.recordChange(Change{Entity: domain.EntityTank, Action: domain.ActionUpdate, Before: before, After: cloneTank(updated)})
	return cloneTank(updated), nil
}

// DeleteTank removes a tank unless livestock, equipment, expenses, or photos
// still reference it.
func (tx *transaction) DeleteTank(id string) error {
	existing, ok := tx.state.tanks[id]
	if !ok {
		return fmt.Errorf("tank %q not found", id)
	}
	for _, l := range tx.state.livestock {
		if l.TankID != nil && *l.TankID == id {
			return fmt.Errorf("tank %q has assigned livestock %q", id, l.ID)
		}
	}
	for _, e := range tx.state.equipment {
		if e.TankID != nil && *e.TankID == id {
			return fmt.Errorf("tank %q has installed equipment %q", id, e.ID)
		}
	}
	for _, e := range tx.state.expenses {
		if e.TankID != nil && *e.TankID == id {
			return fmt.Errorf("tank %q is referenced by expense %q", id, e.ID)
		}
	}
	for _, p := range tx.state.photos {
		if p.TankID != nil && *p.TankID == id {
			return fmt.Errorf("tank %q is referenced by photo %q", id, p.ID)
		}
	}
	delete(tx.state.tanks, id)
	tx.recordChange(Change{Entity: domain.EntityTank, Action: domain.ActionDelete, Before: cloneTank(existing)})
	return nil
}

// CreateLivestock inserts a livestock record.
func (tx *transaction) CreateLivestock(l Livestock) (Livestock, error) {
	if l.ID == "" {
		l.ID = tx.store.newID()
	}
	if _, exists := tx.state.livestock[l.ID]; exists {
		return Livestock{}, fmt.Errorf("livestock %q already exists", l.ID)
	}
	if l.SpeciesName == "" {
		return Livestock{}, errors.New("livestock species name is required")
	}
	if err := tx.tankRefValid(l.TankID); err != nil {
		return Livestock{}, err
	}
	if l.Quantity <= 0 {
		l.Quantity = 1
	}
	if l.State == "" {
		l.State = domain.LivestockStateActive
	}
	l.CreatedAt = tx.now
	l.UpdatedAt = tx.now
	tx.state.livestock[l.ID] = cloneLivestock(l)
	tx.recordChange(Change{Entity: domain.EntityLivestock, Action: domain.ActionCreate, After: cloneLivestock(l)})
	return cloneLivestock(l), nil
}

// UpdateLivestock applies a mutator to an existing livestock record.
func (tx *transaction) UpdateLivestock(id string, mutator func(*Livestock) error) (Livestock, error) {
	existing, ok := tx.state.livestock[id]
	if !ok {
		return Livestock{}, fmt.Errorf("livestock %q not found", id)
	}
	before := cloneLivestock(existing)
	updated := cloneLivestock(existing)
	if err := mutator(&updated); err != nil {
		return Livestock{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := tx.tankRefValid(updated.TankID); err != nil {
		return Livestock{}, err
	}
	if updated.Quantity <= 0 {
		return Livestock{}, errors.New("livestock quantity must be positive")
	}
	updated.UpdatedAt = tx.now
	tx.state.livestock[id] = cloneLivestock(updated)
	tx.recordChange(Change{Entity: domain.EntityLivestock, Action: domain.ActionUpdate, Before: before, After: cloneLivestock(updated)})
	return cloneLivestock(updated), nil
}

// DeleteLivestock removes a livestock record unless photos reference it.
func (tx *transaction) DeleteLivestock(id string) error {
	existing, ok := tx.state.livestock[id]
	if !ok {
		return fmt.Errorf("livestock %q not found", id)
	}
	for _, p := range tx.state.photos {
		if p.LivestockID != nil && *p.LivestockID == id {
			return fmt.Errorf("livestock %q is referenced by photo %q", id, p.ID)
		}
	}
	delete(tx.state.livestock, id)
	tx.recordChange(Change{Entity: domain.EntityLivestock, Action: domain.ActionDelete, Before: cloneLivestock(existing)})
	return nil
}

// CreateEquipment inserts an equipment record.
func (tx *transaction) CreateEquipment(e Equipment) (Equipment, error) {
	if e.ID == "" {
		e.ID = tx.store.newID()
	}
	if _, exists := tx.state.equipment[e.ID]; exists {
		return Equipment{}, fmt.Errorf("equipment %q already exists", e.ID)
	}
	if e.Name == "" {
		return Equipment{}, errors.New("equipment name is required")
	}
	if err := tx.tankRefValid(e.TankID); err != nil {
		return Equipment{}, err
	}
	if e.State == "" {
		e.State = domain.EquipmentStateActive
	}
	e.CreatedAt = tx.now
	e.UpdatedAt = tx.now
	tx.state.equipment[e.ID] = cloneEquipment(e)
	tx.recordChange(Change{Entity: domain.EntityEquipment, Action: domain.ActionCreate, After: cloneEquipment(e)})
	return cloneEquipment(e), nil
}

// UpdateEquipment applies a mutator to an existing equipment record.
func (tx *transaction) UpdateEquipment(id string, mutator func(*Equipment) error) (Equipment, error) {
	existing, ok := tx.state.equipment[id]
	if !ok {
		return Equipment{}, fmt.Errorf("equipment %q not found", id)
	}
	before := cloneEquipment(existing)
	updated := cloneEquipment(existing)
	if err := mutator(&updated); err != nil {
		return Equipment{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := tx.tankRefValid(updated.TankID); err != nil {
		return Equipment{}, err
	}
	updated.UpdatedAt = tx.now
	tx.state.equipment[id] = cloneEquipment(updated)
	tx.recordChange(Change{Entity: domain.EntityEquipment, Action: domain.ActionUpdate, Before: before, After: cloneEquipment(updated)})
	return cloneEquipment(updated), nil
}

// DeleteEquipment removes an equipment record.
func (tx *transaction) DeleteEquipment(id string) error {
	existing, ok := tx.state.equipment[id]
	if !ok {
		return fmt.Errorf("equipment %q not found", id)
	}
	delete(tx.state.equipment, id)
	tx.recordChange(Change{Entity: domain.EntityEquipment, Action: domain.ActionDelete, Before: cloneEquipment(existing)})
	return nil
}

// CreateConsumable inserts a consumable inventory record.
func (tx *transaction) CreateConsumable(c ConsumableItem) (ConsumableItem, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.consumables[c.ID]; exists {
		return ConsumableItem{}, fmt.Errorf("consumable %q already exists", c.ID)
	}
	if c.Name == "" {
		return ConsumableItem{}, errors.New("consumable name is required")
	}
	if c.QuantityOnHand < 0 {
		return ConsumableItem{}, errors.New("consumable quantity cannot be negative")
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.consumables[c.ID] = cloneConsumable(c)
	tx.recordChange(Change{Entity: domain.EntityConsumable, Action: domain.ActionCreate, After: cloneConsumable(c)})
	return cloneConsumable(c), nil
}

// UpdateConsumable applies a mutator to an existing consumable record.
func (tx *transaction) UpdateConsumable(id string, mutator func(*ConsumableItem) error) (ConsumableItem, error) {
	existing, ok := tx.state.consumables[id]
	if !ok {
		return ConsumableItem{}, fmt.Errorf("consumable %q not found", id)
	}
	before := cloneConsumable(existing)
	updated := cloneConsumable(existing)
	if err := mutator(&updated); err != nil {
		return ConsumableItem{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.QuantityOnHand < 0 {
		return ConsumableItem{}, errors.New("consumable quantity cannot be negative")
	}
	updated.UpdatedAt = tx.now
	tx.state.consumables[id] = cloneConsumable(updated)
	tx.recordChange(Change{Entity: domain.EntityConsumable, Action: domain.ActionUpdate, Before: before, After: cloneConsumable(updated)})
	return cloneConsumable(updated), nil
}

// DeleteConsumable removes a consumable record.
func (tx *transaction) DeleteConsumable(id string) error {
	existing, ok := tx.state.consumables[id]
	if !ok {
		return fmt.Errorf("consumable %q not found", id)
	}
	delete(tx.state.consumables, id)
	tx.recordChange(Change{Entity: domain.EntityConsumable, Action: domain.ActionDelete, Before: cloneConsumable(existing)})
	return nil
}

// CreateExpense inserts an expense record.
func (tx *transaction) CreateExpense(e Expense) (Expense, error) {
	if e.ID == "" {
		e.ID = tx.store.newID()
	}
	if _, exists := tx.state.expenses[e.ID]; exists {
		return Expense{}, fmt.Errorf("expense %q already exists", e.ID)
	}
	if e.AmountCents < 0 {
		return Expense{}, errors.New("expense amount cannot be negative")
	}
	if err := tx.tankRefValid(e.TankID); err != nil {
		return Expense{}, err
	}
	if e.IncurredAt.IsZero() {
		e.IncurredAt = tx.now
	}
	e.CreatedAt = tx.now
	e.UpdatedAt = tx.now
	tx.state.expenses[e.ID] = cloneExpense(e)
	tx.recordChange(Change{Entity: domain.EntityExpense, Action: domain.ActionCreate, After: cloneExpense(e)})
	return cloneExpense(e), nil
}

// UpdateExpense applies a mutator to an existing expense record.
func (tx *transaction) UpdateExpense(id string, mutator func(*Expense) error) (Expense, error) {
	existing, ok := tx.state.expenses[id]
	if !ok {
		return Expense{}, fmt.Errorf("expense %q not found", id)
	}
	before := cloneExpense(existing)
	updated := cloneExpense(existing)
	if err := mutator(&updated); err != nil {
		return Expense{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := tx.tankRefValid(updated.TankID); err != nil {
		return Expense{}, err
	}
	if updated.AmountCents < 0 {
		return Expense{}, errors.New("expense amount cannot be negative")
	}
	updated.UpdatedAt = tx.now
	tx.state.expenses[id] = cloneExpense(updated)
	tx.recordChange(Change{Entity: domain.EntityExpense, Action: domain.ActionUpdate, Before: before, After: cloneExpense(updated)})
	return cloneExpense(updated), nil
}

// DeleteExpense removes an expense record.
func (tx *transaction) DeleteExpense(id string) error {
	existing, ok := tx.state.expenses[id]
	if !ok {
		return fmt.Errorf("expense %q not found", id)
	}
	delete(tx.state.expenses, id)
	tx.recordChange(Change{Entity: domain.EntityExpense, Action: domain.ActionDelete, Before: cloneExpense(existing)})
	return nil
}

// CreatePhoto inserts a photo metadata record.
func (tx *transaction) CreatePhoto(p Photo) (Photo, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.photos[p.ID]; exists {
		return Photo{}, fmt.Errorf("photo %q already exists", p.ID)
	}
	if p.BlobKey == "" {
		return Photo{}, errors.New("photo blob key is required")
	}
	if err := tx.tankRefValid(p.TankID); err != nil {
		return Photo{}, err
	}
	if err := tx.livestockRefValid(p.LivestockID); err != nil {
		return Photo{}, err
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.photos[p.ID] = clonePhoto(p)
	tx.recordChange(Change{Entity: domain.EntityPhoto, Action: domain.ActionCreate, After: clonePhoto(p)})
	return clonePhoto(p), nil
}

// UpdatePhoto applies a mutator to an existing photo record.
func (tx *transaction) UpdatePhoto(id string, mutator func(*Photo) error) (Photo, error) {
	existing, ok := tx.state.photos[id]
	if !ok {
		return Photo{}, fmt.Errorf("photo %q not found", id)
	}
	before := clonePhoto(existing)
	updated := clonePhoto(existing)
	if err := mutator(&updated); err != nil {
		return Photo{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.BlobKey == "" {
		return Photo{}, errors.New("photo blob key is required")
	}
	if err := tx.tankRefValid(updated.TankID); err != nil {
		return Photo{}, err
	}
	if err := tx.livestockRefValid(updated.LivestockID); err != nil {
		return Photo{}, err
	}
	updated.UpdatedAt = tx.now
	tx.state.photos[id] = clonePhoto(updated)
	tx.recordChange(Change{Entity: domain.EntityPhoto, Action: domain.ActionUpdate, Before: before, After: clonePhoto(updated)})
	return clonePhoto(updated), nil
}

// DeletePhoto removes a photo metadata record.
func (tx *transaction) DeletePhoto(id string) error {
	existing, ok := tx.state.photos[id]
	if !ok {
		return fmt.Errorf("photo %q not found", id)
	}
	delete(tx.state.photos, id)
	tx.recordChange(Change{Entity: domain.EntityPhoto, Action: domain.ActionDelete, Before: clonePhoto(existing)})
	return nil
}
