package notification

import (
	"fmt"
	"time"
)

// Urgency classifies how close a fridge item is to its expiration date.
// It is computed once from daysUntilExpiry and drives both the message
// wording and the deduplication window.
type Urgency int

const (
	UrgencyExpired Urgency = iota
	UrgencyCritical
	UrgencySoon
)

// UrgencyFor buckets daysUntilExpiry into a tier. Negative values are
// treated as already expired.
func UrgencyFor(daysUntilExpiry int) Urgency {
	switch {
	case daysUntilExpiry <= 0:
		return UrgencyExpired
	case daysUntilExpiry == 1:
		return UrgencyCritical
	default:
		return UrgencySoon
	}
}

// DedupWindow returns the rolling window inside which a repeat
// notification for the same (user, type, reference) is suppressed.
// Urgent tiers use a shorter window so reminders can repeat sooner.
func (u Urgency) DedupWindow() time.Duration {
	if u == UrgencySoon {
		return 24 * time.Hour
	}
	return 12 * time.Hour
}

// ExpiryText returns the localized title and message for a fridge item
// at this urgency tier.
func (u Urgency) ExpiryText(productName, familyName string, daysUntilExpiry int) (title, message string) {
	switch u {
	case UrgencyExpired:
		title = fmt.Sprintf("🔴 %s đã hết hạn!", productName)
		message = fmt.Sprintf("%s trong tủ lạnh của gia đình %s đã hết hạn sử dụng. Hãy kiểm tra và xử lý ngay!", productName, familyName)
	case UrgencyCritical:
		title = fmt.Sprintf("🟠 %s sắp hết hạn!", productName)
		message = fmt.Sprintf("%s trong tủ lạnh của gia đình %s sẽ hết hạn vào ngày mai. Hãy sử dụng sớm!", productName, familyName)
	default:
		title = fmt.Sprintf("🟡 %s sắp hết hạn", productName)
		message = fmt.Sprintf("%s trong tủ lạnh của gia đình %s sẽ hết hạn trong %d ngày.", productName, familyName, daysUntilExpiry)
	}
	return title, message
}
