package sheets

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Reserved worksheet titles.
const (
	DataSheetTitle    = "Data"
	ClientsSheetTitle = "Клієнти"
)

// Sheet titles carry the arrival or sale date plus an optional operator
// label: "15.03.2024", "5.1.24 (Андрій)".
var titlePattern = regexp.MustCompile(`^\s*(\d{1,2})\.(\d{1,2})\.(\d{2,4})\s*(?:\(([^)]*)\))?\s*$`)

// legacyTitles are undated sheets that predate the naming convention and
// keep a fixed date.
var legacyTitles = map[string]struct {
	date  time.Time
	label string
}{
	"Валізи(Андрій)": {time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Андрій"},
}

// ParseTitle extracts the date and optional label from a worksheet title.
// Two-digit years are taken as 2000-based. Titles that are neither dated nor
// a known legacy name return ok=false.
func ParseTitle(title string) (date time.Time, label string, ok bool) {
	if legacy, found := legacyTitles[strings.TrimSpace(title)]; found {
		return legacy.date, legacy.label, true
	}

	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return time.Time{}, "", false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, "", false
	}

	date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != time.Month(month) {
		return time.Time{}, "", false
	}
	return date, strings.TrimSpace(m[4]), true
}
