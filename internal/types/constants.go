package types

import (
	"os"
	"strings"
)

const ContextIdentityKey = "identity"

// User and membership roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectOnHold    = "on_hold"
)

// Task statuses.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Description fields are bounded to keep rows sane.
const MaxDescriptionLength = 2000

func ValidProjectStatus(status string) bool {
	return status == ProjectActive || status == ProjectCompleted || status == ProjectOnHold
}

func ValidTaskStatus(status string) bool {
	return status == TaskTodo || status == TaskInProgress || status == TaskCompleted
}

func ValidTaskPriority(priority string) bool {
	return priority == PriorityLow || priority == PriorityMedium || priority == PriorityHigh
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
