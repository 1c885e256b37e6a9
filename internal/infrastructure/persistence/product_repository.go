package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/shared"
	"github.com/shoestock/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByNumber finds the entry with exactly this catalog number
func (r *GormProductRepository) FindByNumber(ctx context.Context, number string) (*catalog.Product, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Catalog number cannot be empty")
	}
	var model models.ProductModel
	if err := session(ctx, r.db).
		Where("number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID finds an entry by its identifier
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := session(ctx, r.db).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllByBase finds every entry of a variant group, suffix ascending.
// The denormalized base_number column keeps this on an index.
func (r *GormProductRepository) FindAllByBase(ctx context.Context, base string) ([]*catalog.Product, error) {
	var rows []models.ProductModel
	if err := session(ctx, r.db).
		Where("base_number = ?", base).
		Order("length(number), number").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(rows), nil
}

// FindAll returns every catalog entry
func (r *GormProductRepository) FindAll(ctx context.Context) ([]*catalog.Product, error) {
	var rows []models.ProductModel
	if err := session(ctx, r.db).
		Order("number").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(rows), nil
}

// NumberExists reports whether an entry with this exact number exists
func (r *GormProductRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := session(ctx, r.db).
		Model(&models.ProductModel{}).
		Where("number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates an entry
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(product)
	return session(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

// Delete removes an entry
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return session(ctx, r.db).
		Delete(&models.ProductModel{}, "id = ?", id).Error
}

// DeleteAllExcept removes every entry whose ID is not in keep
func (r *GormProductRepository) DeleteAllExcept(ctx context.Context, keep []uuid.UUID) (int64, error) {
	query := session(ctx, r.db).Model(&models.ProductModel{})
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	} else {
		query = query.Where("1 = 1")
	}
	result := query.Delete(&models.ProductModel{})
	return result.RowsAffected, result.Error
}

// Count returns the number of stored entries
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := session(ctx, r.db).Model(&models.ProductModel{}).Count(&count).Error
	return count, err
}

func toDomainProducts(rows []models.ProductModel) []*catalog.Product {
	out := make([]*catalog.Product, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
