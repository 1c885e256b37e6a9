package classify

import "regexp"

// PaymentMethod is how the client paid, folded to one canonical name.
type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "Карта"
	PaymentCash     PaymentMethod = "Готівка"
	PaymentTransfer PaymentMethod = "Переказ"
)

// Payment keyword patterns. Go's \b is ASCII-only, so Cyrillic keywords get
// an explicit non-letter boundary on the left; the stem form absorbs the
// Ukrainian and Russian case endings (картою, готівкою, переводом).
var (
	cardPattern     = regexp.MustCompile(`(?i)(?:^|[^\p{L}\d])(?:карт|приват|моно|mono|безготівк|безнал)`)
	cashPattern     = regexp.MustCompile(`(?i)(?:^|[^\p{L}\d])(?:готівк|наличк|наличн|кеш|cash|накладен|наложен)`)
	transferPattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}\d])(?:переказ|перевод|реквізит|реквизит|рахунок|iban)`)
)

// DetectPaymentMethod scans annotation text for a payment keyword. The first
// matching method in card, cash, transfer order wins. The second return is
// false when no keyword matches.
func DetectPaymentMethod(text string) (PaymentMethod, bool) {
	switch {
	case cardPattern.MatchString(text):
		return PaymentCard, true
	case cashPattern.MatchString(text):
		return PaymentCash, true
	case transferPattern.MatchString(text):
		return PaymentTransfer, true
	}
	return "", false
}
