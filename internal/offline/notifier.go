// Package offline provides the offline-aware mutation wrapper UI code calls.
package offline

import "github.com/lunchline/core/internal/logging"

// NotifyKind classifies a user-facing notification.
type NotifyKind string

const (
	NotifyInfo    NotifyKind = "info"
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

// Notifier delivers fire-and-forget messages to the user.
type Notifier interface {
	Notify(message string, kind NotifyKind)
}

// LogNotifier routes notifications to the structured log. Used by headless
// callers (CLI, tests) that have no UI surface.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(message string, kind NotifyKind) {
	logging.Info("notification", map[string]interface{}{
		"kind":    string(kind),
		"message": message,
	})
}
