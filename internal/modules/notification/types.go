package notification

import "errors"

type ListQueryDTO struct {
	UnreadOnly bool   `form:"unreadOnly"`
	Type       string `form:"type"`
}

var errNotificationNotFound = errors.New("notification not found")

// excerpt shortens entity text embedded in notification messages, cutting on
// a rune boundary so multi-byte content stays valid UTF-8.
func excerpt(s string) string {
	const max = 30
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
