package models

import "fmt"

// NotificationType represents the category of a system notification.
type NotificationType string

const (
	NotificationCritical NotificationType = "Critical"
	NotificationHigh     NotificationType = "High"
	NotificationSystem   NotificationType = "System"
)

// NotificationEntry is a notification shown in the header panel.
type NotificationEntry struct {
	ID        int64            `json:"id" yaml:"id"`
	Type      NotificationType `json:"type" yaml:"type"`
	Message   string           `json:"message" yaml:"message"`
	Timestamp string           `json:"timestamp" yaml:"timestamp"`
	IsRead    bool             `json:"is_read" yaml:"is_read"`
}

// Validate validates the notification fields.
func (n NotificationEntry) Validate() error {
	switch n.Type {
	case NotificationCritical, NotificationHigh, NotificationSystem:
	default:
		return fmt.Errorf("invalid notification type %q", n.Type)
	}
	if n.Message == "" {
		return fmt.Errorf("notification %d: message is required", n.ID)
	}
	return nil
}

// Title returns the heading displayed for the notification type.
func (t NotificationType) Title() string {
	switch t {
	case NotificationCritical:
		return "Critical Alert"
	case NotificationHigh:
		return "High Alert"
	case NotificationSystem:
		return "System Update"
	default:
		return string(t)
	}
}
