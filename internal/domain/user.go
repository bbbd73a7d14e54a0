package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. PasswordHash is empty for accounts created through
// Google sign-in; GoogleID is empty for password accounts.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToolUsage records one successful tool invocation.
type ToolUsage struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	ToolName   string         `json:"tool_name"`
	UsedAt     time.Time      `json:"used_at"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

const (
	ToolPDFMerger   = "pdf-merger"
	ToolResumeMaker = "resume-maker"
)
