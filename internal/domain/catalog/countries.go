package catalog

import "strings"

// Unknown-country sentinel. Unrecognized origin text maps here instead of
// polluting the country table with misspellings.
const (
	UnknownCountryName = "Unknown"
	UnknownCountryCode = "ZZ"
)

// countryCodes maps origin text, lower-cased, to ISO 3166-1 alpha-2 codes.
// Sheets write countries in Ukrainian, Russian or English.
var countryCodes = map[string]string{
	"україна":        "UA",
	"украина":        "UA",
	"ukraine":        "UA",
	"китай":          "CN",
	"china":          "CN",
	"кнр":            "CN",
	"в'єтнам":        "VN",
	"вьетнам":        "VN",
	"vietnam":        "VN",
	"індонезія":      "ID",
	"индонезия":      "ID",
	"indonesia":      "ID",
	"італія":         "IT",
	"италия":         "IT",
	"italy":          "IT",
	"туреччина":      "TR",
	"турция":         "TR",
	"turkey":         "TR",
	"польща":         "PL",
	"польша":         "PL",
	"poland":         "PL",
	"німеччина":      "DE",
	"германия":       "DE",
	"germany":        "DE",
	"сша":            "US",
	"usa":            "US",
	"united states":  "US",
	"франція":        "FR",
	"франция":        "FR",
	"france":         "FR",
	"іспанія":        "ES",
	"испания":        "ES",
	"spain":          "ES",
	"португалія":     "PT",
	"португалия":     "PT",
	"portugal":       "PT",
	"індія":          "IN",
	"индия":          "IN",
	"india":          "IN",
	"бангладеш":      "BD",
	"bangladesh":     "BD",
	"камбоджа":       "KH",
	"cambodia":       "KH",
	"таїланд":        "TH",
	"таиланд":        "TH",
	"thailand":       "TH",
	"бразилія":       "BR",
	"бразилия":       "BR",
	"brazil":         "BR",
	"румунія":        "RO",
	"румыния":        "RO",
	"romania":        "RO",
	"велика британія": "GB",
	"великобритания": "GB",
	"united kingdom": "GB",
	"англія":         "GB",
	"англия":         "GB",
	"нідерланди":     "NL",
	"нидерланды":     "NL",
	"netherlands":    "NL",
	"чехія":          "CZ",
	"чехия":          "CZ",
	"czechia":        "CZ",
	"словаччина":     "SK",
	"словакия":       "SK",
	"slovakia":       "SK",
	"данія":          "DK",
	"дания":          "DK",
	"denmark":        "DK",
	"швейцарія":      "CH",
	"швейцария":      "CH",
	"switzerland":    "CH",
	"японія":         "JP",
	"япония":         "JP",
	"japan":          "JP",
	"південна корея": "KR",
	"южная корея":    "KR",
	"south korea":    "KR",
	"мексика":        "MX",
	"mexico":         "MX",
}

// CountryCode maps origin text to its ISO alpha-2 code, returning the
// unknown sentinel for anything unrecognized.
func CountryCode(name string) string {
	if code, ok := countryCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return UnknownCountryCode
}
