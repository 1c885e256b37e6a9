package trade

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoestock/backend/internal/domain/shared"
)

// Order is one sale assembled from a spreadsheet row: a client, the products
// sold, the money collected and the delivery state at the time of the pass.
type Order struct {
	shared.BaseEntity
	Fingerprint      string
	ClientID         uuid.UUID
	StatusID         *uuid.UUID
	PaymentStatusID  *uuid.UUID
	DeliveryMethodID *uuid.UUID
	PaymentMethod    string
	Date             time.Time
	Total            decimal.Decimal
	TrackingNumber   string
	Notes            string
	Priority         int
	DeferredUntil    *time.Time
	Items            []OrderItem
}

// OrderItem is one product line of an order.
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// refundNotePrefix marks a clamped negative total in the order notes.
const refundNotePrefix = "ПОВЕРНЕННЯ"

// NewOrder assembles an order. A negative total means the row records a
// refund; the total is clamped to zero and the refunded amount is kept in
// the notes instead.
func NewOrder(clientID uuid.UUID, date time.Time, total decimal.Decimal, notes string) *Order {
	if total.IsNegative() {
		refund := fmt.Sprintf("%s: %s", refundNotePrefix, total.Abs().String())
		if notes != "" {
			notes = refund + "; " + notes
		} else {
			notes = refund
		}
		total = decimal.Zero
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		ClientID:   clientID,
		Date:       date,
		Total:      total,
		Notes:      notes,
	}
}

// AddItem appends a product line.
func (o *Order) AddItem(productID uuid.UUID, quantity int, price decimal.Decimal) {
	o.Items = append(o.Items, OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		ProductID:  productID,
		Quantity:   quantity,
		Price:      price,
	})
}

// IsRefund reports whether the order's total was clamped from a negative
// amount.
func (o *Order) IsRefund() bool {
	return strings.HasPrefix(o.Notes, refundNotePrefix+":")
}

// ComputeFingerprint derives the stable identity of a spreadsheet row so a
// re-run never inserts the same sale twice. The source coordinates pin the
// row; the client and the sorted product set guard against a reshuffled
// sheet reusing a row index for a different sale.
func ComputeFingerprint(documentTitle, sheetTitle string, rowIndex int, clientID uuid.UUID, productIDs []uuid.UUID) string {
	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s|%s", documentTitle, sheetTitle, rowIndex, clientID, strings.Join(ids, ","))
	return hex.EncodeToString(h.Sum(nil))
}

// SetFingerprint computes and stores the row fingerprint from the order's
// current items.
func (o *Order) SetFingerprint(documentTitle, sheetTitle string, rowIndex int) {
	ids := make([]uuid.UUID, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.ProductID
	}
	o.Fingerprint = ComputeFingerprint(documentTitle, sheetTitle, rowIndex, o.ClientID, ids)
}
