// Package notify delivers reminders and canned messages through a
// notification platform.
package notify

import (
	"context"
	"log"
)

// Notification is what a platform shows to the recipient.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
}

// Platform is the external notification capability. Recipients are profile
// keys.
type Platform interface {
	// Status reports whether the recipient already allows notifications.
	Status(ctx context.Context, recipient string) (bool, error)
	RequestPermission(ctx context.Context, recipient string) (bool, error)
	Deliver(ctx context.Context, recipient string, n Notification) error
}

// LogPlatform writes notifications to the process log. It grants every
// permission request.
type LogPlatform struct{}

func (LogPlatform) Status(context.Context, string) (bool, error) { return true, nil }

func (LogPlatform) RequestPermission(context.Context, string) (bool, error) { return true, nil }

func (LogPlatform) Deliver(_ context.Context, recipient string, n Notification) error {
	log.Printf("[notify] %s: %s %s | %s", recipient, n.Icon, n.Title, n.Body)
	return nil
}
