package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoestock/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Number        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	BaseNumber    string          `gorm:"type:varchar(100);not null;index"`
	ClonedNumbers string          `gorm:"type:text"`
	TypeID        *uuid.UUID      `gorm:"type:uuid;index"`
	SubtypeID     *uuid.UUID      `gorm:"type:uuid;index"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index"`
	Gender        catalog.Gender  `gorm:"not null;default:0"`
	ColorID       *uuid.UUID      `gorm:"type:uuid"`
	CountryID     *uuid.UUID      `gorm:"type:uuid"`
	ConditionID   *uuid.UUID      `gorm:"type:uuid"`
	StatusID      *uuid.UUID      `gorm:"type:uuid"`
	Model         string          `gorm:"type:varchar(200)"`
	Marking       string          `gorm:"type:varchar(200)"`
	Year          int             `gorm:"not null;default:0"`
	Description   string          `gorm:"type:text"`
	SizeEU        string          `gorm:"type:varchar(20)"`
	MeasurementCM string          `gorm:"type:varchar(20)"`
	Quantity      int             `gorm:"not null;default:1"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OldPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DateAdded     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:    m.BaseModel.ToDomain(),
		Number:        m.Number,
		ClonedNumbers: m.ClonedNumbers,
		TypeID:        m.TypeID,
		SubtypeID:     m.SubtypeID,
		BrandID:       m.BrandID,
		Gender:        m.Gender,
		ColorID:       m.ColorID,
		CountryID:     m.CountryID,
		ConditionID:   m.ConditionID,
		StatusID:      m.StatusID,
		Model:         m.Model,
		Marking:       m.Marking,
		Year:          m.Year,
		Description:   m.Description,
		SizeEU:        m.SizeEU,
		MeasurementCM: m.MeasurementCM,
		Quantity:      m.Quantity,
		Price:         m.Price,
		OldPrice:      m.OldPrice,
		DateAdded:     m.DateAdded,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
// The denormalized base number keeps the variant-group lookup on an index.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Number = p.Number
	m.BaseNumber = p.BaseNumber()
	m.ClonedNumbers = p.ClonedNumbers
	m.TypeID = p.TypeID
	m.SubtypeID = p.SubtypeID
	m.BrandID = p.BrandID
	m.Gender = p.Gender
	m.ColorID = p.ColorID
	m.CountryID = p.CountryID
	m.ConditionID = p.ConditionID
	m.StatusID = p.StatusID
	m.Model = p.Model
	m.Marking = p.Marking
	m.Year = p.Year
	m.Description = p.Description
	m.SizeEU = p.SizeEU
	m.MeasurementCM = p.MeasurementCM
	m.Quantity = p.Quantity
	m.Price = p.Price
	m.OldPrice = p.OldPrice
	m.DateAdded = p.DateAdded
}

// ReferenceModel is the shared shape of the small name tables.
type ReferenceModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// ProductTypeModel persists catalog.ProductType.
type ProductTypeModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (ProductTypeModel) TableName() string { return "product_types" }

// SubtypeModel persists catalog.Subtype.
type SubtypeModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (SubtypeModel) TableName() string { return "product_subtypes" }

// BrandModel persists catalog.Brand.
type BrandModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (BrandModel) TableName() string { return "brands" }

// ColorModel persists catalog.Color.
type ColorModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (ColorModel) TableName() string { return "colors" }

// CountryModel persists catalog.Country.
type CountryModel struct {
	ReferenceModel
	Code string `gorm:"type:varchar(2);not null"`
}

// TableName returns the table name for GORM
func (CountryModel) TableName() string { return "countries" }

// ConditionModel persists catalog.Condition.
type ConditionModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (ConditionModel) TableName() string { return "conditions" }

// ProductStatusModel persists catalog.ProductStatus.
type ProductStatusModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (ProductStatusModel) TableName() string { return "product_statuses" }
