package store

import "github.com/kachijames/intake/internal/api"

// Level is the severity of a Notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a user-facing message about a finished remote operation.
type Notification struct {
	Level   Level
	Op      api.Operation
	Message string
}

// Default notification texts.
const (
	MsgRegistered = "Registration completed successfully!"
	MsgCleared    = "Form cleared"
)

// DuplicateMessage is the notification for an already registered email.
func DuplicateMessage(email string) string {
	return "User with email " + email + " already exists!"
}
