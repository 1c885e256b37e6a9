package trade

import (
	"strings"

	"github.com/shoestock/backend/internal/domain/shared"
)

// OrderStatus is the fulfillment state of an order, e.g. "Відправлено".
type OrderStatus struct {
	shared.BaseEntity
	Name string
}

// PaymentStatus tracks how much of the order total was collected.
type PaymentStatus struct {
	shared.BaseEntity
	Name string
}

// DeliveryMethod is the shipping carrier or pickup option.
type DeliveryMethod struct {
	shared.BaseEntity
	Name string
}

// Canonical status names. Rows spell these in several languages and
// abbreviations; the alias tables below fold them to one spelling each.
const (
	StatusNew      = "Нове"
	StatusSent     = "Відправлено"
	StatusSold     = "Продано"
	StatusReturned = "Повернення"
	StatusCanceled = "Скасовано"

	PaymentPaid    = "Оплачено"
	PaymentUnpaid  = "Не оплачено"
	PaymentPartial = "Частково оплачено"

	DeliveryNovaPoshta = "Нова Пошта"
	DeliveryUkrposhta  = "Укрпошта"
	DeliveryPickup     = "Самовивіз"
	DeliveryCourier    = "Кур'єр"
)

var orderStatusAliases = map[string]string{
	"нове":         StatusNew,
	"новое":        StatusNew,
	"new":          StatusNew,
	"відправлено":  StatusSent,
	"отправлено":   StatusSent,
	"відправлений": StatusSent,
	"вислано":      StatusSent,
	"sent":         StatusSent,
	"продано":      StatusSold,
	"проданий":     StatusSold,
	"sold":         StatusSold,
	"повернення":   StatusReturned,
	"возврат":      StatusReturned,
	"повернуто":    StatusReturned,
	"return":       StatusReturned,
	"скасовано":    StatusCanceled,
	"відміна":      StatusCanceled,
	"отмена":       StatusCanceled,
	"отменено":     StatusCanceled,
	"canceled":     StatusCanceled,
}

var paymentStatusAliases = map[string]string{
	"оплачено":          PaymentPaid,
	"оплачений":         PaymentPaid,
	"оплата":            PaymentPaid,
	"paid":              PaymentPaid,
	"не оплачено":       PaymentUnpaid,
	"неоплачено":        PaymentUnpaid,
	"не оплачений":      PaymentUnpaid,
	"unpaid":            PaymentUnpaid,
	"частково":          PaymentPartial,
	"частково оплачено": PaymentPartial,
	"частично":          PaymentPartial,
	"частично оплачено": PaymentPartial,
	"аванс":             PaymentPartial,
	"завдаток":          PaymentPartial,
}

var deliveryMethodAliases = map[string]string{
	"нова пошта":   DeliveryNovaPoshta,
	"новая почта":  DeliveryNovaPoshta,
	"нп":           DeliveryNovaPoshta,
	"nova poshta":  DeliveryNovaPoshta,
	"укрпошта":     DeliveryUkrposhta,
	"укрпочта":     DeliveryUkrposhta,
	"самовивіз":    DeliveryPickup,
	"самовывоз":    DeliveryPickup,
	"самовивоз":    DeliveryPickup,
	"кур'єр":       DeliveryCourier,
	"курєр":        DeliveryCourier,
	"курьер":       DeliveryCourier,
	"кур'єром":     DeliveryCourier,
	"доставка":     DeliveryCourier,
}

func lookupAlias(aliases map[string]string, text string) (string, bool) {
	name, ok := aliases[strings.ToLower(strings.Join(strings.Fields(text), " "))]
	return name, ok
}

// ParseOrderStatus folds row text to a canonical order status. The second
// return reports whether the text was recognized; unrecognized text gets
// StatusNew so the caller can count it.
func ParseOrderStatus(text string) (string, bool) {
	if name, ok := lookupAlias(orderStatusAliases, text); ok {
		return name, true
	}
	return StatusNew, false
}

// ParsePaymentStatus folds row text to a canonical payment status,
// defaulting to PaymentUnpaid.
func ParsePaymentStatus(text string) (string, bool) {
	if name, ok := lookupAlias(paymentStatusAliases, text); ok {
		return name, true
	}
	return PaymentUnpaid, false
}

// ParseDeliveryMethod folds row text to a canonical delivery method,
// defaulting to DeliveryNovaPoshta.
func ParseDeliveryMethod(text string) (string, bool) {
	if name, ok := lookupAlias(deliveryMethodAliases, text); ok {
		return name, true
	}
	return DeliveryNovaPoshta, false
}
