package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/shared"
	"github.com/shoestock/backend/internal/domain/trade"
	"github.com/shoestock/backend/internal/infrastructure/persistence/models"
)

// GormTradeReferenceRepository implements the trade ReferenceRepository
// using GORM.
type GormTradeReferenceRepository struct {
	db *gorm.DB
}

// NewGormTradeReferenceRepository creates a new GormTradeReferenceRepository
func NewGormTradeReferenceRepository(db *gorm.DB) *GormTradeReferenceRepository {
	return &GormTradeReferenceRepository{db: db}
}

// GetOrCreateOrderStatus resolves an order status by name, creating it on first mention
func (r *GormTradeReferenceRepository) GetOrCreateOrderStatus(ctx context.Context, name string) (*trade.OrderStatus, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.OrderStatusModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.OrderStatusModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &trade.OrderStatus{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}

// GetOrCreatePaymentStatus resolves a payment status by name, creating it on first mention
func (r *GormTradeReferenceRepository) GetOrCreatePaymentStatus(ctx context.Context, name string) (*trade.PaymentStatus, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.PaymentStatusModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.PaymentStatusModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &trade.PaymentStatus{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}

// GetOrCreateDeliveryMethod resolves a delivery method by name, creating it on first mention
func (r *GormTradeReferenceRepository) GetOrCreateDeliveryMethod(ctx context.Context, name string) (*trade.DeliveryMethod, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.DeliveryMethodModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.DeliveryMethodModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &trade.DeliveryMethod{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}
