package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+38 (067) 123-45-67", "+380671234567"},
		{"067 123 45 67", "0671234567"},
		{"тел. 0671234567", "0671234567"},
		{"  ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizePhone(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "instagram.com/shoe.fan", NormalizeHandle("https://www.Instagram.com/shoe.fan"))
	assert.Equal(t, "@olena_ua", NormalizeHandle(" @Olena_UA "))
}

func TestSplitFullName(t *testing.T) {
	first, last := SplitFullName("Олена Коваленко")
	assert.Equal(t, "Олена", first)
	assert.Equal(t, "Коваленко", last)

	first, last = SplitFullName("Олена")
	assert.Equal(t, "Олена", first)
	assert.Empty(t, last)

	first, last = SplitFullName("ОЛЕНА коваленко")
	assert.Equal(t, "Олена", first)
	assert.Equal(t, "Коваленко", last)

	first, last = SplitFullName("  ")
	assert.Equal(t, PlaceholderFirstName, first)
	assert.Equal(t, PlaceholderLastName, last)
}

func TestNewClient(t *testing.T) {
	c := NewClient(ContactInfo{
		FullName: "Олена Коваленко",
		Phone:    "+38 (067) 123-45-67",
		Telegram: "https://t.me/Olena",
	})

	assert.Equal(t, "Олена", c.FirstName)
	assert.Equal(t, "+380671234567", c.Phone)
	assert.Equal(t, "t.me/olena", c.Telegram)
	assert.Equal(t, "Олена Коваленко", c.FullName())
}

func TestBackfill(t *testing.T) {
	c := NewClient(ContactInfo{FullName: "Олена", Phone: "0671234567"})

	t.Run("fills empty fields only", func(t *testing.T) {
		changed := c.Backfill(ContactInfo{
			Phone:    "0990000000",
			Email:    "olena@example.com",
			Telegram: "@olena",
		})
		assert.True(t, changed)
		assert.Equal(t, "0671234567", c.Phone, "populated phone is kept")
		assert.Equal(t, "olena@example.com", c.Email)
		assert.Equal(t, "@olena", c.Telegram)
	})

	t.Run("no change reports false", func(t *testing.T) {
		assert.False(t, c.Backfill(ContactInfo{Email: "other@example.com"}))
		assert.Equal(t, "olena@example.com", c.Email)
	})
}
