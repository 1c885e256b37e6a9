package models

import (
	"github.com/shoestock/backend/internal/domain/partner"
)

// ClientModel is the persistence model for the Client domain entity.
// Phone and handles are stored in normalized form and carry indexes; they
// are the identity-resolution keys.
type ClientModel struct {
	BaseModel
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100)"`
	Phone     string `gorm:"type:varchar(50);index"`
	Email     string `gorm:"type:varchar(200)"`
	Facebook  string `gorm:"type:varchar(200);index"`
	Viber     string `gorm:"type:varchar(200);index"`
	Telegram  string `gorm:"type:varchar(200);index"`
	Instagram string `gorm:"type:varchar(200);index"`
	Notes     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseEntity: m.BaseModel.ToDomain(),
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Phone:      m.Phone,
		Email:      m.Email,
		Facebook:   m.Facebook,
		Viber:      m.Viber,
		Telegram:   m.Telegram,
		Instagram:  m.Instagram,
		Notes:      m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Phone = c.Phone
	m.Email = c.Email
	m.Facebook = c.Facebook
	m.Viber = c.Viber
	m.Telegram = c.Telegram
	m.Instagram = c.Instagram
	m.Notes = c.Notes
}
