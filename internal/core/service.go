package core

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	blobcore "aquacore/internal/blob/core"
	"aquacore/pkg/compat"
	"aquacore/pkg/domain"
)

// Service exposes higher-level transactional CRUD operations for the core
// schema together with the compatibility engine operations. All mutations go
// through the store's transaction boundary so registered rules see them.
type Service struct {
	store   PersistentStore
	catalog *compat.CatalogRef
	engine  *compat.Engine
	photos  blobcore.Store
	metrics MetricsRecorder
	tracer  Tracer
}

// ServiceOption customizes optional service collaborators.
type ServiceOption func(*Service)

// WithMetrics installs a metrics recorder observing every service operation.
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer installs a tracer opening one span per service operation.
func WithTracer(t Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithPhotoStore installs the blob store backing photo payloads. Without it
// photo attachment operations fail.
func WithPhotoStore(store blobcore.Store) ServiceOption {
	return func(s *Service) {
		s.photos = store
	}
}

// NewService constructs a service backed by the supplied store and trait
// catalog. The catalog may be nil when compatibility operations are unused.
func NewService(store PersistentStore, catalog *compat.CatalogRef, opts ...ServiceOption) *Service {
	svc := &Service{
		store:   store,
		catalog: catalog,
		metrics: noopMetrics{},
		tracer:  noopTracer{},
	}
	if catalog != nil {
		svc.engine = compat.NewEngine(catalog)
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// Catalog returns the live trait catalog reference, or nil when the service
// was built without one.
func (s *Service) Catalog() *compat.CatalogRef {
	return s.catalog
}

// ErrNotFound is returned when reference validation fails within transactional helpers.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ErrCatalogUnavailable is returned by compatibility operations when the
// service has no trait catalog configured.
type ErrCatalogUnavailable struct{}

func (ErrCatalogUnavailable) Error() string {
	return "trait catalog not configured"
}

// ErrPhotoStoreUnavailable is returned by photo operations when no blob
// store was configured.
type ErrPhotoStoreUnavailable struct{}

func (ErrPhotoStoreUnavailable) Error() string {
	return "photo blob store not configured"
}

// CreateTank persists a new tank.
func (s *Service) CreateTank(ctx context.Context, tank Tank) (Tank, Result, error) {
	var created Tank
	var res Result
	err := s.instrument(ctx, "create_tank", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateTank(tank)
			return err
		})
		return err
	})
	return created, res, err
}

// UpdateTank mutates a tank using the provided mutator.
func (s *Service) UpdateTank(ctx context.Context, id string, mutator func(*Tank) error) (Tank, Result, error) {
	var updated Tank
	var res Result
	err := s.instrument(ctx, "update_tank", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateTank(id, mutator)
			return err
		})
		return err
	})
	return updated, res, err
}

// DeleteTank removes a tank record. Deletion fails while dependent records
// still reference the tank.
func (s *Service) DeleteTank(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.instrument(ctx, "delete_tank", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteTank(id)
		})
		return err
	})
	return res, err
}

// CreateLivestock persists a new livestock record.
func (s *Service) CreateLivestock(ctx context.Context, stock Livestock) (Livestock, Result, error) {
	var created Livestock
	var res Result
	err := s.instrument(ctx, "create_livestock", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateLivestock(stock)
			return err
		})
		return err
	})
	return created, res, err
}

// UpdateLivestock mutates a livestock record using the provided mutator.
func (s *Service) UpdateLivestock(ctx context.Context, id string, mutator func(*Livestock) error) (Livestock, Result, error) {
	var updated Livestock
	var res Result
	err := s.instrument(ctx, "update_livestock", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateLivestock(id, mutator)
			return err
		})
		return err
	})
	return updated, res, err
}

// DeleteLivestock removes a livestock record.
func (s *Service) DeleteLivestock(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.instrument(ctx, "delete_livestock", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteLivestock(id)
		})
		return err
	})
	return res, err
}

// AssignLivestockTank moves a livestock record into a tank within a
// transaction that validates the tank reference.
func (s *Service) AssignLivestockTank(ctx context.Context, livestockID, tankID string) (Livestock, Result, error) {
	var updated Livestock
	var res Result
	err := s.instrument(ctx, "assign_livestock_tank", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindTank(tankID); !ok {
				return ErrNotFound{Entity: EntityTank, ID: tankID}
			}
			var err error
			updated, err = tx.UpdateLivestock(livestockID, func(l *Livestock) error {
				l.TankID = &tankID
				return nil
			})
			return err
		})
		return err
	})
	return updated, res, err
}

// ReleaseLivestockTank clears a livestock record's tank assignment.
func (s *Service) ReleaseLivestockTank(ctx context.Context, livestockID string) (Livestock, Result, error) {
	var updated Livestock
	var res Result
	err := s.instrument(ctx, "release_livestock_tank", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateLivestock(livestockID, func(l *Livestock) error {
				l.TankID = nil
				return nil
			})
			return err
		})
		return err
	})
	return updated, res, err
}

// CreateEquipment persists a new equipment record.
func (s *Service) CreateEquipment(ctx context.Context, equipment Equipment) (Equipment, Result, error) {
	var created Equipment
	var res Result
	err := s.instrument(ctx, "create_equipment", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateEquipment(equipment)
			return err
		})
		return err
	})
	return created, res, err
}

// UpdateEquipment mutates an equipment record using the provided mutator.
func (s *Service) UpdateEquipment(ctx context.Context, id string, mutator func(*Equipment) error) (Equipment, Result, error) {
	var updated Equipment
	var res Result
	err := s.instrument(ctx, "update_equipment", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateEquipment(id, mutator)
			return err
		})
		return err
	})
	return updated, res, err
}

// DeleteEquipment removes an equipment record.
func (s *Service) DeleteEquipment(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.instrument(ctx, "delete_equipment", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteEquipment(id)
		})
		return err
	})
	return res, err
}

// CreateConsumable persists a new consumable inventory record.
func (s *Service) CreateConsumable(ctx context.Context, item ConsumableItem) (ConsumableItem, Result, error) {
	var created ConsumableItem
	var res Result
	err := s.instrument(ctx, "create_consumable", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateConsumable(item)
			return err
		})
		return err
	})
	return created, res, err
}

// UpdateConsumable mutates a consumable record using the provided mutator.
func (s *Service) UpdateConsumable(ctx context.Context, id string, mutator func(*ConsumableItem) error) (ConsumableItem, Result, error) {
	var updated ConsumableItem
	var res Result
	err := s.instrument(ctx, "update_consumable", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateConsumable(id, mutator)
			return err
		})
		return err
	})
	return updated, res, err
}

// DeleteConsumable removes a consumable record.
func (s *Service) DeleteConsumable(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.instrument(ctx, "delete_consumable", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteConsumable(id)
		})
		return err
	})
	return res, err
}

// AdjustConsumableStock adds delta to a consumable's quantity on hand. The
// resulting quantity must not go negative.
func (s *Service) AdjustConsumableStock(ctx context.Context, id string, delta float64) (ConsumableItem, Result, error) {
	var updated ConsumableItem
	var res Result
	err := s.instrument(ctx, "adjust_consumable_stock", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateConsumable(id, func(c *ConsumableItem) error {
				next := c.QuantityOnHand + delta
				if next < 0 {
					return fmt.Errorf("consumable %s stock cannot go negative (have %.2f, delta %.2f)", id, c.QuantityOnHand, delta)
				}
				c.QuantityOnHand = next
				return nil
			})
			return err
		})
		return err
	})
	return updated, res, err
}

// RecordExpense persists a new expense, validating the optional tank
// reference inside the transaction.
func (s *Service) RecordExpense(ctx context.Context, expense Expense) (Expense, Result, error) {
	var created Expense
	var res Result
	err := s.instrument(ctx, "record_expense", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateExpense(expense)
			return err
		})
		return err
	})
	return created, res, err
}

// UpdateExpense mutates an expense using the provided mutator.
func (s *Service) UpdateExpense(ctx context.Context, id string, mutator func(*Expense) error) (Expense, Result, error) {
	var updated Expense
	var res Result
	err := s.instrument(ctx, "update_expense", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateExpense(id, mutator)
			return err
		})
		return err
	})
	return updated, res, err
}

// DeleteExpense removes an expense record.
func (s *Service) DeleteExpense(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.instrument(ctx, "delete_expense", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteExpense(id)
		})
		return err
	})
	return res, err
}

// AttachPhoto uploads image bytes to the blob store and records the photo
// metadata in the same logical operation. The blob is written first under a
// fresh object key; when the metadata transaction fails the blob is removed
// again so no orphan payloads accumulate.
func (s *Service) AttachPhoto(ctx context.Context, photo Photo, r io.Reader, contentType string) (Photo, Result, error) {
	var created Photo
	var res Result
	err := s.instrument(ctx, "attach_photo", func(ctx context.Context) error {
		if s.photos == nil {
			return ErrPhotoStoreUnavailable{}
		}
		key := "photos/" + uuid.NewString()
		info, err := s.photos.Put(ctx, key, r, blobcore.PutOptions{ContentType: contentType})
		if err != nil {
			return fmt.Errorf("store photo payload: %w", err)
		}
		photo.BlobKey = info.Key
		if photo.ContentType == "" {
			photo.ContentType = contentType
		}
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreatePhoto(photo)
			return err
		})
		if err != nil {
			if _, delErr := s.photos.Delete(ctx, key); delErr != nil {
				return fmt.Errorf("%w (orphan blob %s not cleaned: %v)", err, key, delErr)
			}
			return err
		}
		return nil
	})
	return created, res, err
}

// UpdatePhoto mutates photo metadata using the provided mutator. The blob key
// is immutable and restored after the mutator runs.
func (s *Service) UpdatePhoto(ctx context.Context, id string, mutator func(*Photo) error) (Photo, Result, error) {
	var updated Photo
	var res Result
	err := s.instrument(ctx, "update_photo", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdatePhoto(id, func(p *Photo) error {
				key := p.BlobKey
				if err := mutator(p); err != nil {
					return err
				}
				p.BlobKey = key
				return nil
			})
			return err
		})
		return err
	})
	return updated, res, err
}

// RemovePhoto deletes the photo metadata record and then its blob payload.
// A missing blob is not an error; the metadata record is authoritative.
func (s *Service) RemovePhoto(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.instrument(ctx, "remove_photo", func(ctx context.Context) error {
		var blobKey string
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			view := tx.Snapshot()
			photo, ok := view.FindPhoto(id)
			if !ok {
				return ErrNotFound{Entity: EntityPhoto, ID: id}
			}
			blobKey = photo.BlobKey
			return tx.DeletePhoto(id)
		})
		if err != nil {
			return err
		}
		if s.photos != nil && blobKey != "" {
			if _, delErr := s.photos.Delete(ctx, blobKey); delErr != nil {
				return fmt.Errorf("photo %s removed but blob %s not cleaned: %w", id, blobKey, delErr)
			}
		}
		return nil
	})
	return res, err
}

// OpenPhoto streams the image bytes for a stored photo.
func (s *Service) OpenPhoto(ctx context.Context, id string) (blobcore.Info, io.ReadCloser, error) {
	if s.photos == nil {
		return blobcore.Info{}, nil, ErrPhotoStoreUnavailable{}
	}
	photo, ok := s.findPhoto(id)
	if !ok {
		return blobcore.Info{}, nil, ErrNotFound{Entity: EntityPhoto, ID: id}
	}
	return s.photos.Get(ctx, photo.BlobKey)
}

// PhotoURL returns a presigned or local URL for a stored photo's payload.
func (s *Service) PhotoURL(ctx context.Context, id string, opts blobcore.SignedURLOptions) (string, error) {
	if s.photos == nil {
		return "", ErrPhotoStoreUnavailable{}
	}
	photo, ok := s.findPhoto(id)
	if !ok {
		return "", ErrNotFound{Entity: EntityPhoto, ID: id}
	}
	return s.photos.PresignURL(ctx, photo.BlobKey, opts)
}

func (s *Service) findPhoto(id string) (Photo, bool) {
	for _, photo := range s.store.ListPhotos() {
		if photo.ID == id {
			return photo, true
		}
	}
	return Photo{}, false
}

// EvaluateTankCompatibility runs the compatibility engine over the active
// livestock currently assigned to the given tank and returns the full
// directional report.
func (s *Service) EvaluateTankCompatibility(ctx context.Context, tankID string) (compat.Report, error) {
	var report compat.Report
	err := s.instrument(ctx, "evaluate_tank_compatibility", func(ctx context.Context) error {
		if s.engine == nil {
			return ErrCatalogUnavailable{}
		}
		return s.store.View(ctx, func(view RuleView) error {
			tank, ok := view.FindTank(tankID)
			if !ok {
				return ErrNotFound{Entity: EntityTank, ID: tankID}
			}
			stock := tankStockEntries(view, tankID)
			report = s.engine.Evaluate(stock, tankContext(tank))
			return nil
		})
	})
	return report, err
}

// CheckStockingAddition previews adding a candidate species to a tank without
// mutating any state. It returns the findings against the tank's current
// active stock and the worst severity among them.
func (s *Service) CheckStockingAddition(ctx context.Context, tankID string, candidate compat.StockEntry) ([]compat.Finding, compat.Severity, error) {
	var findings []compat.Finding
	worst := compat.Compatible
	err := s.instrument(ctx, "check_stocking_addition", func(ctx context.Context) error {
		if s.engine == nil {
			return ErrCatalogUnavailable{}
		}
		return s.store.View(ctx, func(view RuleView) error {
			tank, ok := view.FindTank(tankID)
			if !ok {
				return ErrNotFound{Entity: EntityTank, ID: tankID}
			}
			existing := tankStockEntries(view, tankID)
			findings, worst = s.engine.CheckAddition(candidate, existing, tankContext(tank))
			return nil
		})
	})
	return findings, worst, err
}

// ReloadTraitCatalog parses the catalog file at path and atomically swaps it
// into the live reference. In-flight evaluations keep their old snapshot.
func (s *Service) ReloadTraitCatalog(ctx context.Context, path string) error {
	return s.instrument(ctx, "reload_trait_catalog", func(ctx context.Context) error {
		if s.catalog == nil {
			return ErrCatalogUnavailable{}
		}
		catalog, err := compat.LoadCatalogFile(path)
		if err != nil {
			return err
		}
		s.catalog.Replace(catalog)
		return nil
	})
}

// tankStockEntries collects the active livestock assigned to tankID as
// compatibility engine input.
func tankStockEntries(view RuleView, tankID string) []compat.StockEntry {
	var stock []compat.StockEntry
	for _, l := range view.ListLivestock() {
		if l.TankID == nil || *l.TankID != tankID {
			continue
		}
		if l.State != domain.LivestockStateActive {
			continue
		}
		stock = append(stock, compat.StockEntry{
			DisplayName:    l.SpeciesName,
			Classification: l.Classification,
			Quantity:       l.Quantity,
		})
	}
	return stock
}

func tankContext(tank Tank) compat.TankContext {
	return compat.TankContext{
		WaterType: compat.WaterType(tank.WaterType),
		VolumeL:   tank.VolumeL,
	}
}
