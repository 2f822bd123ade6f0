// Package notify dispatches local desktop notifications when a focus
// session completes. Dispatch failures are the caller's to log; they never
// block session completion.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// sessionEndBody is the fixed notification body.
const sessionEndBody = "Your focus session has finished."

// Dispatcher schedules an immediate local notification.
type Dispatcher interface {
	SessionEnded(taskTitle string) error
}

// Noop discards notifications; used when they are disabled and in tests.
type Noop struct{}

func (Noop) SessionEnded(string) error { return nil }

// Desktop sends notifications through the platform notification service.
type Desktop struct{}

// NewDesktop creates a desktop dispatcher.
func NewDesktop() *Desktop {
	return &Desktop{}
}

func (d *Desktop) SessionEnded(taskTitle string) error {
	title := "Focus session complete"
	if taskTitle != "" {
		title = fmt.Sprintf("Focus complete: %s", taskTitle)
	}
	if err := beeep.Notify(title, sessionEndBody, ""); err != nil {
		return fmt.Errorf("dispatching notification: %w", err)
	}
	return nil
}
