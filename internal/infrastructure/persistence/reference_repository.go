package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/shared"
	"github.com/shoestock/backend/internal/infrastructure/persistence/models"
)

// GormReferenceRepository implements the catalog ReferenceRepository using
// GORM. Name lookups are case-insensitive; the stored row keeps the casing
// of the first mention.
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewGormReferenceRepository creates a new GormReferenceRepository
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

func newReferenceModel(name string) models.ReferenceModel {
	ref := models.ReferenceModel{Name: name}
	ref.FromDomainBaseEntity(shared.NewBaseEntity())
	return ref
}

// GetOrCreateType resolves a product type by name, creating it on first mention
func (r *GormReferenceRepository) GetOrCreateType(ctx context.Context, name string) (*catalog.ProductType, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.ProductTypeModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.ProductTypeModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &catalog.ProductType{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}

// GetOrCreateSubtype resolves a subtype by name, creating it on first mention
func (r *GormReferenceRepository) GetOrCreateSubtype(ctx context.Context, name string) (*catalog.Subtype, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.SubtypeModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.SubtypeModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Subtype{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}

// GetOrCreateBrand resolves a brand by name, creating it on first mention
func (r *GormReferenceRepository) GetOrCreateBrand(ctx context.Context, name string) (*catalog.Brand, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.BrandModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.BrandModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Brand{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}

// GetOrCreateColor resolves a color by name, creating it on first mention
func (r *GormReferenceRepository) GetOrCreateColor(ctx context.Context, name string) (*catalog.Color, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.ColorModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.ColorModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Color{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}

// GetOrCreateCountry resolves a country by name, creating it with its ISO
// code on first mention
func (r *GormReferenceRepository) GetOrCreateCountry(ctx context.Context, name, code string) (*catalog.Country, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.CountryModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.CountryModel{ReferenceModel: newReferenceModel(name), Code: code}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Country{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name, Code: row.Code}, nil
}

// GetOrCreateCondition resolves a condition by name, creating it on first mention
func (r *GormReferenceRepository) GetOrCreateCondition(ctx context.Context, name string) (*catalog.Condition, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.ConditionModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.ConditionModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Condition{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}

// GetOrCreateStatus resolves a product status by name, creating it on first mention
func (r *GormReferenceRepository) GetOrCreateStatus(ctx context.Context, name string) (*catalog.ProductStatus, error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, shared.ErrInvalidInput
	}
	var row models.ProductStatusModel
	err := session(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.ProductStatusModel{ReferenceModel: newReferenceModel(name)}
		err = session(ctx, r.db).Create(&row).Error
	}
	if err != nil {
		return nil, err
	}
	return &catalog.ProductStatus{BaseEntity: row.BaseModel.ToDomain(), Name: row.Name}, nil
}
