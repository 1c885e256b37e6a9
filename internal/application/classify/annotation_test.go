package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySizeWithCode(t *testing.T) {
	a := Classify("ф123 (42)")
	assert.Equal(t, KindSizeWithCode, a.Kind)
	assert.Equal(t, []SizePair{{ProductNumber: "Ф123", Size: "42"}}, a.Pairs)

	a = Classify("Ф55(38,5)")
	assert.Equal(t, KindSizeWithCode, a.Kind)
	assert.Equal(t, []SizePair{{ProductNumber: "Ф55", Size: "38.5"}}, a.Pairs)

	a = Classify("ф1(40) ф2 (41,5)")
	assert.Equal(t, KindSizeWithCode, a.Kind)
	assert.Equal(t, []SizePair{
		{ProductNumber: "Ф1", Size: "40"},
		{ProductNumber: "Ф2", Size: "41.5"},
	}, a.Pairs)
}

func TestClassifyMeasurement(t *testing.T) {
	a := Classify("27,5 см")
	assert.Equal(t, KindMeasurement, a.Kind)
	assert.Equal(t, "27.5", a.MeasurementCM)

	a = Classify("замір 28")
	assert.Equal(t, KindMeasurement, a.Kind)
	assert.Equal(t, "28", a.MeasurementCM)

	a = Classify("стелька 26.5")
	assert.Equal(t, KindMeasurement, a.Kind)
	assert.Equal(t, "26.5", a.MeasurementCM)
}

func TestClassifySize(t *testing.T) {
	a := Classify("42")
	assert.Equal(t, KindSize, a.Kind)
	assert.Equal(t, "42", a.Size)

	a = Classify("розмір 38,5")
	assert.Equal(t, KindSize, a.Kind)
	assert.Equal(t, "38.5", a.Size)
}

func TestClassifyPayment(t *testing.T) {
	tests := []struct {
		text     string
		expected PaymentMethod
	}{
		{"оплата карткою", PaymentCard},
		{"на приват", PaymentCard},
		{"готівкою при отриманні", PaymentCash},
		{"наложенный платеж", PaymentCash},
		{"переказ на рахунок", PaymentTransfer},
	}

	for _, tt := range tests {
		a := Classify(tt.text)
		assert.Equal(t, KindPayment, a.Kind, "text %q", tt.text)
		assert.Equal(t, tt.expected, a.Payment, "text %q", tt.text)
	}
}

func TestClassifyComment(t *testing.T) {
	a := Classify("передзвонити завтра")
	assert.Equal(t, KindComment, a.Kind)
	assert.Equal(t, "передзвонити завтра", a.Text)

	assert.Equal(t, KindComment, Classify("  ").Kind)
}

// The most specific interpretation wins when several would match.
func TestClassifyPrecedence(t *testing.T) {
	a := Classify("Ф123 (42), оплата карткою")
	assert.Equal(t, KindSizeWithCode, a.Kind)

	a = Classify("27,5 см, карта")
	assert.Equal(t, KindMeasurement, a.Kind)

	a = Classify("42, переказ")
	assert.Equal(t, KindSize, a.Kind)
}

func TestDetectPaymentMethodBoundaries(t *testing.T) {
	// A keyword inside another word is not a payment method.
	_, ok := DetectPaymentMethod("декартові координати")
	assert.False(t, ok)

	method, ok := DetectPaymentMethod("Карта")
	assert.True(t, ok)
	assert.Equal(t, PaymentCard, method)

	_, ok = DetectPaymentMethod("самовивіз із магазину")
	assert.False(t, ok)
}
