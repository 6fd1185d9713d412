package orderrepo

import (
	"context"
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const newestFirst = "created_at DESC, order_number ASC"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository over db, which may be a
// transaction handle.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order. A taken order number or id yields an
// errs.ObjectAlreadyExistsError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order", aggregate.Number(), err)
		}
		return err
	}
	return nil
}

// Update overwrites every column of an existing order.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order", aggregate.Number(), result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), id.String(), "id = ?", id.Bytes())
}

// GetByNumber retrieves an order by its order number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.first(r.db.WithContext(ctx), number, "order_number = ?", number)
}

// GetByNumberForUpdate reads the order with SELECT ... FOR UPDATE. The sqlite
// dialector drops the locking clause.
func (r *GormOrderRepository) GetByNumberForUpdate(ctx context.Context, number string) (*order.Order, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(tx, number, "order_number = ?", number)
}

// Delete removes an order by number and returns what was stored.
func (r *GormOrderRepository) Delete(ctx context.Context, number string) (*order.Order, error) {
	db := r.db.WithContext(ctx)

	var dto OrderDTO
	if err := db.First(&dto, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number)
		}
		return nil, err
	}

	result := db.Delete(&OrderDTO{}, "id = ?", dto.ID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("order", number)
	}

	return toDomain(dto)
}

// List returns every order, newest first.
func (r *GormOrderRepository) List(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// ListByStatus returns the orders in status, newest first.
func (r *GormOrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Where("order_status = ?", status.String()).
		Order(newestFirst).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (r *GormOrderRepository) first(db *gorm.DB, key string, query string, args ...any) (*order.Order, error) {
	var dto OrderDTO
	if err := db.Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", key)
		}
		return nil, err
	}
	return toDomain(dto)
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
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
