package session

import (
	"time"

	"github.com/alexanderramin/doone/internal/domain"
)

// EventType defines the type of session event.
type EventType string

const (
	EventPhaseChange EventType = "phase_change"
	EventProgress    EventType = "progress"
	EventCompleted   EventType = "completed"
)

// Event represents a session update for observers.
type Event struct {
	Type     EventType
	Phase    domain.Phase
	State    domain.SessionState
	Progress float64
	At       time.Time
}
