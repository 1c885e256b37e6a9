package classify

import (
	"regexp"
	"strings"
)

// Kind is what an order-row annotation turned out to carry.
type Kind int

const (
	// KindComment is the fallback: free text for the order notes.
	KindComment Kind = iota
	// KindSizeWithCode names a product and its size, e.g. "Ф123 (42)".
	KindSizeWithCode
	// KindMeasurement carries an insole length in centimeters.
	KindMeasurement
	// KindSize carries a bare EU shoe size.
	KindSize
	// KindPayment carries a payment method keyword.
	KindPayment
)

// SizePair names a product and the size noted for it.
type SizePair struct {
	ProductNumber string
	Size          string
}

// Annotation is the classification of one free-text note on an order row.
type Annotation struct {
	Kind          Kind
	Text          string
	Pairs         []SizePair // KindSizeWithCode, one per coded size
	Size          string     // KindSize
	MeasurementCM string
	Payment       PaymentMethod
}

var (
	// "Ф123 (42)" or "ф123(38.5)": a product code with its size in parens.
	sizeWithCodePattern = regexp.MustCompile(`([Фф]\d+)\s*\(\s*([234]\d(?:[.,][05])?)\s*\)`)

	// "27,5 см", "замір 28", "стелька 27.5 см": insole length.
	measurementCMPattern      = regexp.MustCompile(`(\d{2}(?:[.,]\d)?)\s*см`)
	measurementKeywordPattern = regexp.MustCompile(`(?i)(?:замір|замер|устілка|стелька)\D{0,6}(\d{2}(?:[.,]\d)?)`)

	// "42", "розмір 38,5", "39 eu": an EU shoe size on its own.
	sizePattern = regexp.MustCompile(`(?:^|[^\d.,])([234]\d(?:[.,][05])?)(?:$|[^\d.,])`)
)

func normalizeDecimal(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

// Classify decides what one annotation means, checking the most specific
// shape first: a product code with a size, then an insole measurement, then
// a bare size, then a payment keyword. Anything else is a comment.
func Classify(text string) Annotation {
	a := Annotation{Kind: KindComment, Text: strings.TrimSpace(text)}
	if a.Text == "" {
		return a
	}

	if matches := sizeWithCodePattern.FindAllStringSubmatch(a.Text, -1); matches != nil {
		a.Kind = KindSizeWithCode
		for _, m := range matches {
			a.Pairs = append(a.Pairs, SizePair{
				ProductNumber: strings.ToUpper(m[1][:len("Ф")]) + m[1][len("Ф"):],
				Size:          normalizeDecimal(m[2]),
			})
		}
		return a
	}

	if m := measurementCMPattern.FindStringSubmatch(a.Text); m != nil {
		a.Kind = KindMeasurement
		a.MeasurementCM = normalizeDecimal(m[1])
		return a
	}
	if m := measurementKeywordPattern.FindStringSubmatch(a.Text); m != nil {
		a.Kind = KindMeasurement
		a.MeasurementCM = normalizeDecimal(m[1])
		return a
	}

	if m := sizePattern.FindStringSubmatch(a.Text); m != nil {
		a.Kind = KindSize
		a.Size = normalizeDecimal(m[1])
		return a
	}

	if method, ok := DetectPaymentMethod(a.Text); ok {
		a.Kind = KindPayment
		a.Payment = method
		return a
	}

	return a
}
