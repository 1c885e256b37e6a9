package catalog

import "strings"

// Gender classifies a product's target audience.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderUnisex
	GenderFemale
	GenderMale
)

// genderAliases maps operator-entered gender text, lower-cased, to the enum.
// Sheets mix Ukrainian, Russian and English spellings.
var genderAliases = map[string]Gender{
	"жіноча":   GenderFemale,
	"женская":  GenderFemale,
	"жіночі":   GenderFemale,
	"женские":  GenderFemale,
	"woman":    GenderFemale,
	"women":    GenderFemale,
	"female":   GenderFemale,
	"чоловіча": GenderMale,
	"мужская":  GenderMale,
	"чоловічі": GenderMale,
	"мужские":  GenderMale,
	"man":      GenderMale,
	"men":      GenderMale,
	"male":     GenderMale,
	"унісекс":  GenderUnisex,
	"унисекс":  GenderUnisex,
	"unisex":   GenderUnisex,
}

// ParseGender maps free text to a Gender. Unrecognized or empty text maps to
// GenderUnknown rather than failing the row.
func ParseGender(text string) Gender {
	if g, ok := genderAliases[strings.ToLower(strings.TrimSpace(text))]; ok {
		return g
	}
	return GenderUnknown
}

// String returns the canonical Ukrainian display name.
func (g Gender) String() string {
	switch g {
	case GenderUnisex:
		return "Унісекс"
	case GenderFemale:
		return "Жіноча"
	case GenderMale:
		return "Чоловіча"
	default:
		return "Невідомо"
	}
}
