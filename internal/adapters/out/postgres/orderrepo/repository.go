package orderrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order row together with its items, shipments and history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order row only if its stored version is the one the
// aggregate was loaded at. Items are replaced, shipments upserted by id and
// history entries inserted once by sequence number.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loadedVersion := dto.Version
	dto.Version = loadedVersion + 1

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, loadedVersion).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.versionMismatch(ctx, aggregate.ID(), loadedVersion)
	}

	itemIDs := make([]any, 0, len(dto.Items))
	for _, item := range dto.Items {
		itemIDs = append(itemIDs, item.ID)
	}
	if err := db.Where("order_id = ? AND id NOT IN ?", dto.ID, itemIDs).Delete(&ItemDTO{}).Error; err != nil {
		return err
	}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto.Items).Error; err != nil {
		return err
	}

	if len(dto.Shipments) > 0 {
		lines := make([]ShipmentLineDTO, 0)
		for _, s := range dto.Shipments {
			lines = append(lines, s.Lines...)
		}
		if err := db.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.Shipments).Error; err != nil {
			return err
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lines).Error; err != nil {
			return err
		}
	}

	if len(dto.History) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.History).Error; err != nil {
			return err
		}
	}

	aggregate.MarkPersisted()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) versionMismatch(ctx context.Context, id kernel.UUID, expected int) error {
	var stored OrderDTO
	err := r.db.WithContext(ctx).Select("version").First(&stored, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return err
	}
	return errs.NewConcurrencyConflictError("order", id.String(), expected, stored.Version)
}

// Get retrieves an order with items, shipments and history in their original order.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate takes a FOR UPDATE lock on the orders row, then loads the
// aggregate. The lock is released when the surrounding transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var locked OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.Get(ctx, id)
}

// List returns the orders matching filter, newest order date first.
func (r *GormOrderRepository) List(ctx context.Context, filter order.Filter) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.preloaded(ctx).Scopes(FilterScope(filter)).
		Order("order_date DESC, serial_number").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListForBoard returns every non-terminal order plus terminal ones overridden
// at or after alertsSince.
func (r *GormOrderRepository) ListForBoard(ctx context.Context, alertsSince time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.preloaded(ctx).
		Where("status NOT IN ? OR admin_emergency_at >= ?",
			[]int{int(order.Completed), int(order.Canceled)}, alertsSince).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// FilterScope translates an order.Filter into SQL predicates on the orders
// table. Date bounds are whole UTC days, both inclusive.
func FilterScope(f order.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.From != nil {
			db = db.Where("orders.order_date >= ?", startOfDay(*f.From))
		}
		if f.To != nil {
			db = db.Where("orders.order_date < ?", startOfDay(*f.To).AddDate(0, 0, 1))
		}
		if f.Status != nil {
			db = db.Where("orders.status = ?", int(*f.Status))
		}
		if term := strings.TrimSpace(f.Search); term != "" {
			pattern := "%" + escapeLike(term) + "%"
			db = db.Where("(orders.customer_name ILIKE ? OR orders.serial_number ILIKE ?)", pattern, pattern)
		}
		return db
	}
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Shipments", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Shipments.Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
