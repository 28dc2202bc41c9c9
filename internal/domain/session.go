package domain

import (
	"fmt"
	"time"
)

// Session tracks which direction steps of a recipe have been ticked off.
type Session struct {
	ID         string        `yaml:"id"`
	RecipeID   string        `yaml:"recipe_id"`
	RecipeName string        `yaml:"recipe_name"`
	Steps      []string      `yaml:"steps"`
	StepStates []StepState   `yaml:"step_states"`
	Status     SessionStatus `yaml:"status"`
	StartedAt  time.Time     `yaml:"started_at"`
	UpdatedAt  time.Time     `yaml:"updated_at"`
}

// Done returns how many steps are checked.
func (s *Session) Done() int {
	n := 0
	for _, st := range s.StepStates {
		if st.Status == StepDone {
			n++
		}
	}
	return n
}

// SessionStatus tracks the lifecycle of a checklist session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionCompleted
	SessionAbandoned
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionCompleted:
		return "completed"
	case SessionAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s SessionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *SessionStatus) UnmarshalText(b []byte) error {
	for _, v := range []SessionStatus{SessionActive, SessionCompleted, SessionAbandoned} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown session status %q", b)
}

// StepState tracks a single step within a session.
type StepState struct {
	Status      StepStatus `yaml:"status"`
	CompletedAt time.Time  `yaml:"completed_at,omitempty"`
}

// StepStatus tracks the state of a single step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepDone
)

// String returns a human-readable step status.
func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s StepStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *StepStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pending":
		*s = StepPending
	case "done":
		*s = StepDone
	default:
		return fmt.Errorf("unknown step status %q", b)
	}
	return nil
}
