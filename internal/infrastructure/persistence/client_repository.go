package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoestock/backend/internal/domain/partner"
	"github.com/shoestock/backend/internal/domain/shared"
	"github.com/shoestock/backend/internal/infrastructure/persistence/models"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByPhone finds a client by normalized phone number
func (r *GormClientRepository) FindByPhone(ctx context.Context, phone string) (*partner.Client, error) {
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot be empty")
	}
	var model models.ClientModel
	if err := session(ctx, r.db).
		Where("phone = ?", phone).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var handleColumns = map[partner.HandleKind]string{
	partner.HandleFacebook:  "facebook",
	partner.HandleViber:     "viber",
	partner.HandleTelegram:  "telegram",
	partner.HandleInstagram: "instagram",
}

// FindByHandle finds a client by a normalized social handle
func (r *GormClientRepository) FindByHandle(ctx context.Context, kind partner.HandleKind, handle string) (*partner.Client, error) {
	column, ok := handleColumns[kind]
	if !ok {
		return nil, shared.NewDomainError("INVALID_HANDLE_KIND", fmt.Sprintf("Unknown handle kind: %s", kind))
	}
	if handle == "" {
		return nil, shared.NewDomainError("INVALID_HANDLE", "Handle cannot be empty")
	}
	var model models.ClientModel
	if err := session(ctx, r.db).
		Where(fmt.Sprintf("%s = ?", column), handle).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	var model models.ClientModel
	model.FromDomain(client)
	return session(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

// Count returns the number of stored clients
func (r *GormClientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := session(ctx, r.db).Model(&models.ClientModel{}).Count(&count).Error
	return count, err
}
