package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Ф123", "Ф123"},
		{"spaces", "  Ф 123 ", "Ф123"},
		{"junk characters", "Ф123!@%", "Ф123"},
		{"suffix kept", "Ф123(2)", "Ф123(2)"},
		{"slash and dash kept", "A-12/3", "A-12/3"},
		{"hash kept", "#Ф123", "#Ф123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeNumber(tt.input))
		})
	}
}

func TestBaseNumberAndSuffix(t *testing.T) {
	assert.Equal(t, "Ф123", BaseNumber("Ф123(2)"))
	assert.Equal(t, "Ф123", BaseNumber("Ф123"))
	assert.Equal(t, 2, SuffixIndex("Ф123(2)"))
	assert.Equal(t, 0, SuffixIndex("Ф123"))
	assert.Equal(t, "Ф123(3)", SuffixedNumber("Ф123", 3))

	// A mid-string "(n)" is part of the number, not a variant suffix.
	assert.Equal(t, "Ф1(2)3", BaseNumber("Ф1(2)3"))
	assert.Equal(t, 0, SuffixIndex("Ф1(2)3"))
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(" Ф55 ", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Ф55", p.Number)
	assert.Equal(t, 1, p.Quantity)
	assert.Equal(t, GenderUnknown, p.Gender)

	_, err = NewProduct("  ", time.Time{})
	assert.Error(t, err)
	_, err = NewProduct("#", time.Time{})
	assert.Error(t, err)
}

func TestMatchesStyleRun(t *testing.T) {
	brand := uuid.New()
	typ := uuid.New()
	sub := uuid.New()

	p := &Product{
		BrandID:   &brand,
		TypeID:    &typ,
		SubtypeID: &sub,
		Model:     "Air Max",
		Marking:   "AM-90",
	}

	t.Run("three matches is enough", func(t *testing.T) {
		assert.True(t, p.MatchesStyleRun(&typ, &sub, &brand, "", ""))
	})

	t.Run("model comparison is case-insensitive", func(t *testing.T) {
		assert.True(t, p.MatchesStyleRun(&typ, nil, &brand, "air max", ""))
	})

	t.Run("two matches is not", func(t *testing.T) {
		assert.False(t, p.MatchesStyleRun(&typ, nil, &brand, "", ""))
	})

	t.Run("empty fields never match", func(t *testing.T) {
		blank := &Product{BrandID: &brand, TypeID: &typ}
		assert.False(t, blank.MatchesStyleRun(&typ, nil, &brand, "", ""))
	})
}

func TestIdenticalForMerge(t *testing.T) {
	brand := uuid.New()
	base := func() *Product {
		return &Product{
			BrandID: &brand,
			Model:   "Air Max",
			Marking: "AM-90",
			Year:    2023,
			SizeEU:  "42",
		}
	}

	t.Run("case difference still identical", func(t *testing.T) {
		a, b := base(), base()
		b.Model = "AIR MAX"
		assert.True(t, IdenticalForMerge(a, b, MergePolicy{}))
	})

	t.Run("different marking not identical", func(t *testing.T) {
		a, b := base(), base()
		b.Marking = "AM-95"
		assert.False(t, IdenticalForMerge(a, b, MergePolicy{}))
	})

	t.Run("blank size matches any size by default", func(t *testing.T) {
		a, b := base(), base()
		b.SizeEU = ""
		assert.True(t, IdenticalForMerge(a, b, MergePolicy{}))
	})

	t.Run("blank size does not match under strict policy", func(t *testing.T) {
		a, b := base(), base()
		b.SizeEU = ""
		assert.False(t, IdenticalForMerge(a, b, MergePolicy{StrictVariant: true}))
	})

	t.Run("conflicting sizes never identical", func(t *testing.T) {
		a, b := base(), base()
		b.SizeEU = "43"
		assert.False(t, IdenticalForMerge(a, b, MergePolicy{}))
	})

	t.Run("different year not identical", func(t *testing.T) {
		a, b := base(), base()
		b.Year = 2024
		assert.False(t, IdenticalForMerge(a, b, MergePolicy{}))
	})
}

func TestSetPrice(t *testing.T) {
	p := &Product{}

	p.SetPrice(decimal.NewFromInt(100))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, p.OldPrice.IsZero())

	p.SetPrice(decimal.NewFromInt(140))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(140)))
	assert.True(t, p.OldPrice.Equal(decimal.NewFromInt(100)), "first change keeps the previous price")

	p.SetPrice(decimal.NewFromInt(150))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(150)))
	assert.True(t, p.OldPrice.Equal(decimal.NewFromInt(100)), "old price is set once")
}

func TestSetSizeIfEmpty(t *testing.T) {
	p := &Product{}
	assert.True(t, p.SetSizeIfEmpty("42"))
	assert.False(t, p.SetSizeIfEmpty("43"), "stored size is never overwritten")
	assert.Equal(t, "42", p.SizeEU)

	assert.True(t, p.SetMeasurementIfEmpty("27.5"))
	assert.False(t, p.SetMeasurementIfEmpty("28"))
	assert.Equal(t, "27.5", p.MeasurementCM)
}

func TestAttributeCount(t *testing.T) {
	brand := uuid.New()
	assert.Equal(t, 0, (&Product{}).AttributeCount())
	assert.Equal(t, 2, (&Product{BrandID: &brand, Model: "Air Max"}).AttributeCount())
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, GenderFemale, ParseGender("Жіноча"))
	assert.Equal(t, GenderMale, ParseGender("мужская"))
	assert.Equal(t, GenderUnisex, ParseGender("UNISEX"))
	assert.Equal(t, GenderUnknown, ParseGender("щось інше"))
	assert.Equal(t, GenderUnknown, ParseGender(""))
}

func TestCountryCode(t *testing.T) {
	assert.Equal(t, "VN", CountryCode("В'єтнам"))
	assert.Equal(t, "CN", CountryCode("китай"))
	assert.Equal(t, "UA", CountryCode(" Україна "))
	assert.Equal(t, UnknownCountryCode, CountryCode("Атлантида"))
}
