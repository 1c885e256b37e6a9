package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoestock/backend/internal/domain/shared"
)

// Product represents one catalog entry identified by its catalog number.
// Entries sharing a base number are either distinct variants (kept apart
// with an ascending "(n)" suffix) or duplicate observations of the same
// physical item, which the merge pass collapses into one entry.
type Product struct {
	shared.BaseEntity
	Number        string
	ClonedNumbers string
	TypeID        *uuid.UUID
	SubtypeID     *uuid.UUID
	BrandID       *uuid.UUID
	Gender        Gender
	ColorID       *uuid.UUID
	CountryID     *uuid.UUID
	ConditionID   *uuid.UUID
	StatusID      *uuid.UUID
	Model         string
	Marking       string
	Year          int
	Description   string
	SizeEU        string
	MeasurementCM string
	Quantity      int
	Price         decimal.Decimal
	OldPrice      decimal.Decimal
	DateAdded     time.Time
}

var (
	numberJunk   = regexp.MustCompile(`[^a-zA-Z0-9а-яА-ЯёЁіІїЇєЄґҐ\-\.\(\)/_#]+`)
	numberSuffix = regexp.MustCompile(`\((\d+)\)$`)
)

// SanitizeNumber strips characters that cannot appear in a catalog number.
// Operator-entered numbers routinely carry stray spaces and punctuation.
func SanitizeNumber(number string) string {
	return strings.TrimSpace(numberJunk.ReplaceAllString(number, ""))
}

// BaseNumber strips a trailing "(n)" variant suffix from a catalog number.
func BaseNumber(number string) string {
	return strings.TrimSpace(numberSuffix.ReplaceAllString(number, ""))
}

// SuffixIndex parses the "(n)" variant suffix of a catalog number.
// Unsuffixed numbers return 0.
func SuffixIndex(number string) int {
	m := numberSuffix.FindStringSubmatch(number)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// SuffixedNumber builds "base(n)".
func SuffixedNumber(base string, n int) string {
	return fmt.Sprintf("%s(%d)", base, n)
}

// BaseNumber returns the product's catalog number without a variant suffix.
func (p *Product) BaseNumber() string {
	return BaseNumber(p.Number)
}

// SuffixIndex returns the product's variant suffix, 0 when unsuffixed.
func (p *Product) SuffixIndex() int {
	return SuffixIndex(p.Number)
}

// NewProduct creates a catalog entry for the first observation of a number.
func NewProduct(number string, dateAdded time.Time) (*Product, error) {
	number = SanitizeNumber(number)
	if number == "" || number == "#" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Catalog number cannot be empty")
	}
	if dateAdded.IsZero() {
		dateAdded = time.Now()
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Number:     number,
		Gender:     GenderUnknown,
		Quantity:   1,
		DateAdded:  dateAdded,
	}, nil
}

// Rename assigns a new catalog number, normally during the renumber pass.
func (p *Product) Rename(number string) {
	if number == p.Number {
		return
	}
	p.Number = number
	p.Touch()
}

// AddUnit records one more physical unit of the same style run.
func (p *Product) AddUnit() {
	p.Quantity++
	p.Touch()
}

func eqFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func uuidEq(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// styleRunThreshold is the minimum number of matching descriptive attributes
// for a row to count as another unit of an existing style run ("rostovka").
const styleRunThreshold = 3

// MatchesStyleRun reports whether an incoming observation under the same
// catalog number describes another unit of this entry's style run. At least
// three of brand, type, subtype, model and marking must match, each
// case-insensitively and with both sides non-empty.
func (p *Product) MatchesStyleRun(typeID, subtypeID, brandID *uuid.UUID, model, marking string) bool {
	matches := 0
	if p.BrandID != nil && brandID != nil && *p.BrandID == *brandID {
		matches++
	}
	if p.TypeID != nil && typeID != nil && *p.TypeID == *typeID {
		matches++
	}
	if p.SubtypeID != nil && subtypeID != nil && *p.SubtypeID == *subtypeID {
		matches++
	}
	if p.Model != "" && model != "" && eqFold(p.Model, model) {
		matches++
	}
	if p.Marking != "" && marking != "" && eqFold(p.Marking, marking) {
		matches++
	}
	return matches >= styleRunThreshold
}

// MergePolicy tunes the same-item equality rule.
type MergePolicy struct {
	// StrictVariant compares size and measurement literally. The default
	// treats a blank on either side as "don't care", which merges entries
	// whose unknown sizes might in fact differ.
	StrictVariant bool
}

// IdenticalForMerge reports whether two entries describe the same physical
// item: category attributes equal by reference, descriptive attributes equal
// case-insensitively, and size/measurement compatible under the policy.
func IdenticalForMerge(a, b *Product, policy MergePolicy) bool {
	if !uuidEq(a.TypeID, b.TypeID) {
		return false
	}
	if !uuidEq(a.SubtypeID, b.SubtypeID) {
		return false
	}
	if !uuidEq(a.BrandID, b.BrandID) {
		return false
	}
	if a.Gender != b.Gender {
		return false
	}
	if !uuidEq(a.ColorID, b.ColorID) {
		return false
	}
	if !eqFold(a.Model, b.Model) {
		return false
	}
	if !eqFold(a.Marking, b.Marking) {
		return false
	}
	if a.Year != b.Year {
		return false
	}
	if !eqFold(a.Description, b.Description) {
		return false
	}

	if policy.StrictVariant {
		return eqFold(a.SizeEU, b.SizeEU) && eqFold(a.MeasurementCM, b.MeasurementCM)
	}
	if a.SizeEU != "" && b.SizeEU != "" && !eqFold(a.SizeEU, b.SizeEU) {
		return false
	}
	if a.MeasurementCM != "" && b.MeasurementCM != "" && !eqFold(a.MeasurementCM, b.MeasurementCM) {
		return false
	}
	return true
}

// SetPrice replaces the current price, preserving the previous one in
// OldPrice only if OldPrice is still unset.
func (p *Product) SetPrice(price decimal.Decimal) {
	if p.Price.Equal(price) {
		return
	}
	if !p.Price.IsZero() && p.OldPrice.IsZero() {
		p.OldPrice = p.Price
	}
	p.Price = price
	p.Touch()
}

// SetSizeIfEmpty records an observed size only when none is stored yet.
// Operator-entered values are never overwritten by observations.
func (p *Product) SetSizeIfEmpty(size string) bool {
	size = strings.TrimSpace(size)
	if p.SizeEU != "" || size == "" {
		return false
	}
	p.SizeEU = size
	p.Touch()
	return true
}

// SetMeasurementIfEmpty records an observed insole measurement only when
// none is stored yet.
func (p *Product) SetMeasurementIfEmpty(cm string) bool {
	cm = strings.TrimSpace(cm)
	if p.MeasurementCM != "" || cm == "" {
		return false
	}
	p.MeasurementCM = cm
	p.Touch()
	return true
}

// AttributeCount counts the populated descriptive attributes. Placeholder
// entries with fewer than two are pruned after a full pass.
func (p *Product) AttributeCount() int {
	count := 0
	if p.BrandID != nil {
		count++
	}
	if strings.TrimSpace(p.Model) != "" {
		count++
	}
	if strings.TrimSpace(p.Marking) != "" {
		count++
	}
	if strings.TrimSpace(p.Description) != "" {
		count++
	}
	return count
}
