package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoestock/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order domain entity. The
// fingerprint carries a unique index; it is what makes re-running a pass
// over already-ingested sheets idempotent.
type OrderModel struct {
	BaseModel
	Fingerprint      string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	ClientID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	StatusID         *uuid.UUID      `gorm:"type:uuid"`
	PaymentStatusID  *uuid.UUID      `gorm:"type:uuid"`
	DeliveryMethodID *uuid.UUID      `gorm:"type:uuid"`
	PaymentMethod    string          `gorm:"type:varchar(50)"`
	Date             time.Time       `gorm:"not null;index"`
	Total            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TrackingNumber   string          `gorm:"type:varchar(100)"`
	Notes            string          `gorm:"type:text"`
	Priority         int             `gorm:"not null;default:0"`
	DeferredUntil    *time.Time
	Items            []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel persists one product line of an order.
type OrderItemModel struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null;default:1"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseEntity:       m.BaseModel.ToDomain(),
		Fingerprint:      m.Fingerprint,
		ClientID:         m.ClientID,
		StatusID:         m.StatusID,
		PaymentStatusID:  m.PaymentStatusID,
		DeliveryMethodID: m.DeliveryMethodID,
		PaymentMethod:    m.PaymentMethod,
		Date:             m.Date,
		Total:            m.Total,
		TrackingNumber:   m.TrackingNumber,
		Notes:            m.Notes,
		Priority:         m.Priority,
		DeferredUntil:    m.DeferredUntil,
	}
	for _, item := range m.Items {
		order.Items = append(order.Items, trade.OrderItem{
			BaseEntity: item.BaseModel.ToDomain(),
			OrderID:    item.OrderID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}
	return order
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Fingerprint = o.Fingerprint
	m.ClientID = o.ClientID
	m.StatusID = o.StatusID
	m.PaymentStatusID = o.PaymentStatusID
	m.DeliveryMethodID = o.DeliveryMethodID
	m.PaymentMethod = o.PaymentMethod
	m.Date = o.Date
	m.Total = o.Total
	m.TrackingNumber = o.TrackingNumber
	m.Notes = o.Notes
	m.Priority = o.Priority
	m.DeferredUntil = o.DeferredUntil
	m.Items = m.Items[:0]
	for _, item := range o.Items {
		var im OrderItemModel
		im.FromDomainBaseEntity(item.BaseEntity)
		im.OrderID = item.OrderID
		im.ProductID = item.ProductID
		im.Quantity = item.Quantity
		im.Price = item.Price
		m.Items = append(m.Items, im)
	}
}

// OrderStatusModel persists trade.OrderStatus.
type OrderStatusModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (OrderStatusModel) TableName() string { return "order_statuses" }

// PaymentStatusModel persists trade.PaymentStatus.
type PaymentStatusModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (PaymentStatusModel) TableName() string { return "payment_statuses" }

// DeliveryMethodModel persists trade.DeliveryMethod.
type DeliveryMethodModel struct{ ReferenceModel }

// TableName returns the table name for GORM
func (DeliveryMethodModel) TableName() string { return "delivery_methods" }
