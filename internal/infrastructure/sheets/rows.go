package sheets

import "strings"

// Typed row schemas for the three sheet layouts. Decoding tolerates short
// rows (trailing empty cells are dropped by the workbook reader) and skips
// the header row and fully blank rows.

// ProductRow is one row of a product arrival sheet or the Data sheet.
type ProductRow struct {
	Index         int
	Number        string
	Type          string
	Subtype       string
	Brand         string
	Gender        string
	Color         string
	Country       string
	Model         string
	Marking       string
	Year          string
	Description   string
	Size          string
	Measurement   string
	Price         string
	Condition     string
}

// ClientRow is one row of the client directory sheet.
type ClientRow struct {
	Index     int
	FullName  string
	Phone     string
	Email     string
	Facebook  string
	Viber     string
	Telegram  string
	Instagram string
	Notes     string
}

// OrderRow is one row of a dated order sheet.
type OrderRow struct {
	Index          int
	ClientName     string
	Phone          string
	Products       string
	Total          string
	Status         string
	PaymentStatus  string
	Delivery       string
	Annotation     string
	Comments       string
	TrackingNumber string
	Priority       string
	DeferredUntil  string
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// DecodeProductRows maps raw cells to product rows. Row indices are
// 1-based sheet positions including the header.
func DecodeProductRows(rows [][]string) []ProductRow {
	out := make([]ProductRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		out = append(out, ProductRow{
			Index:       i + 1,
			Number:      cell(row, 0),
			Type:        cell(row, 1),
			Subtype:     cell(row, 2),
			Brand:       cell(row, 3),
			Gender:      cell(row, 4),
			Color:       cell(row, 5),
			Country:     cell(row, 6),
			Model:       cell(row, 7),
			Marking:     cell(row, 8),
			Year:        cell(row, 9),
			Description: cell(row, 10),
			Size:        cell(row, 11),
			Measurement: cell(row, 12),
			Price:       cell(row, 13),
			Condition:   cell(row, 14),
		})
	}
	return out
}

// DecodeClientRows maps raw cells to client directory rows.
func DecodeClientRows(rows [][]string) []ClientRow {
	out := make([]ClientRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		out = append(out, ClientRow{
			Index:     i + 1,
			FullName:  cell(row, 0),
			Phone:     cell(row, 1),
			Email:     cell(row, 2),
			Facebook:  cell(row, 3),
			Viber:     cell(row, 4),
			Telegram:  cell(row, 5),
			Instagram: cell(row, 6),
			Notes:     cell(row, 7),
		})
	}
	return out
}

// DecodeOrderRows maps raw cells to order rows.
func DecodeOrderRows(rows [][]string) []OrderRow {
	out := make([]OrderRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		out = append(out, OrderRow{
			Index:          i + 1,
			ClientName:     cell(row, 0),
			Phone:          cell(row, 1),
			Products:       cell(row, 2),
			Total:          cell(row, 3),
			Status:         cell(row, 4),
			PaymentStatus:  cell(row, 5),
			Delivery:       cell(row, 6),
			Annotation:     cell(row, 7),
			Comments:       cell(row, 8),
			TrackingNumber: cell(row, 9),
			Priority:       cell(row, 10),
			DeferredUntil:  cell(row, 11),
		})
	}
	return out
}
