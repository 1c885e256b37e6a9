package partner

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shoestock/backend/internal/domain/shared"
)

// Placeholder name parts used when a row carries no client name at all.
const (
	PlaceholderFirstName = "Невідомий"
	PlaceholderLastName  = "клієнт"
)

// HandleKind identifies a social-network handle field on a client.
type HandleKind string

const (
	HandleFacebook  HandleKind = "facebook"
	HandleViber     HandleKind = "viber"
	HandleTelegram  HandleKind = "telegram"
	HandleInstagram HandleKind = "instagram"
)

// HandleKinds lists all handle fields in a fixed order.
var HandleKinds = []HandleKind{HandleFacebook, HandleViber, HandleTelegram, HandleInstagram}

// Client represents a deduplicated customer identity assembled from
// operator-entered contact fields. Identity is anchored on the normalized
// phone number and social handles; descriptive fields fill once and are
// never overwritten.
type Client struct {
	shared.BaseEntity
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Facebook  string
	Viber     string
	Telegram  string
	Instagram string
	Notes     string
}

var phoneJunk = regexp.MustCompile(`[^\d+]`)

// NormalizePhone reduces a free-text phone number to digits and a leading
// plus sign. Anything that normalizes to empty is excluded from matching.
func NormalizePhone(phone string) string {
	return phoneJunk.ReplaceAllString(strings.TrimSpace(phone), "")
}

// NormalizeHandle lower-cases a social handle or profile URL and strips the
// protocol and "www." prefix so the same profile always maps to one key.
func NormalizeHandle(handle string) string {
	h := strings.ToLower(strings.TrimSpace(handle))
	h = strings.TrimPrefix(h, "https://")
	h = strings.TrimPrefix(h, "http://")
	h = strings.TrimPrefix(h, "www.")
	return h
}

// CanonicalName title-cases an operator-entered name part. Rows carry the
// same client as "олена", "ОЛЕНА" and "Олена"; all three store as one form.
func CanonicalName(name string) string {
	return cases.Title(language.Ukrainian).String(strings.TrimSpace(name))
}

// SplitFullName splits an operator-entered full name into first name and the
// remainder, title-casing both. An empty name yields the placeholder pair.
func SplitFullName(fullName string) (first, last string) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return PlaceholderFirstName, PlaceholderLastName
	}
	parts := strings.SplitN(name, " ", 2)
	first = CanonicalName(parts[0])
	if len(parts) > 1 {
		last = CanonicalName(parts[1])
	}
	return first, last
}

// ContactInfo carries the raw contact fields of one spreadsheet row.
type ContactInfo struct {
	FullName  string
	Phone     string
	Email     string
	Facebook  string
	Viber     string
	Telegram  string
	Instagram string
}

// NormalizedPhone returns the matching key for the phone field.
func (c ContactInfo) NormalizedPhone() string {
	return NormalizePhone(c.Phone)
}

// Handle returns the raw value of the given handle field.
func (c ContactInfo) Handle(kind HandleKind) string {
	switch kind {
	case HandleFacebook:
		return c.Facebook
	case HandleViber:
		return c.Viber
	case HandleTelegram:
		return c.Telegram
	case HandleInstagram:
		return c.Instagram
	}
	return ""
}

// NormalizedHandle returns the matching key for the given handle field.
func (c ContactInfo) NormalizedHandle(kind HandleKind) string {
	return NormalizeHandle(c.Handle(kind))
}

// NewClient creates a client from one row's contact fields. The full name is
// split into first/last; phone and handles are stored normalized.
func NewClient(info ContactInfo) *Client {
	first, last := SplitFullName(info.FullName)
	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		FirstName:  first,
		LastName:   last,
		Phone:      info.NormalizedPhone(),
		Email:      strings.TrimSpace(info.Email),
		Facebook:   info.NormalizedHandle(HandleFacebook),
		Viber:      info.NormalizedHandle(HandleViber),
		Telegram:   info.NormalizedHandle(HandleTelegram),
		Instagram:  info.NormalizedHandle(HandleInstagram),
	}
}

// HandleValue returns the stored handle of the given kind.
func (c *Client) HandleValue(kind HandleKind) string {
	switch kind {
	case HandleFacebook:
		return c.Facebook
	case HandleViber:
		return c.Viber
	case HandleTelegram:
		return c.Telegram
	case HandleInstagram:
		return c.Instagram
	}
	return ""
}

func (c *Client) setHandle(kind HandleKind, value string) {
	switch kind {
	case HandleFacebook:
		c.Facebook = value
	case HandleViber:
		c.Viber = value
	case HandleTelegram:
		c.Telegram = value
	case HandleInstagram:
		c.Instagram = value
	}
}

// Backfill copies incoming contact fields into currently-empty fields only.
// Populated fields are never overwritten: first non-empty value wins. It
// reports whether anything changed.
func (c *Client) Backfill(info ContactInfo) bool {
	changed := false

	if c.Phone == "" {
		if phone := info.NormalizedPhone(); phone != "" {
			c.Phone = phone
			changed = true
		}
	}
	if c.Email == "" {
		if email := strings.TrimSpace(info.Email); email != "" {
			c.Email = email
			changed = true
		}
	}
	for _, kind := range HandleKinds {
		if c.HandleValue(kind) != "" {
			continue
		}
		if handle := info.NormalizedHandle(kind); handle != "" {
			c.setHandle(kind, handle)
			changed = true
		}
	}

	if changed {
		c.Touch()
	}
	return changed
}

// FullName returns the display name.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
