package domain

import "time"

// UserProfile is the provisioning-owned user record. Profiles are created by
// an external identity process; the ledger only mutates the denormalized code
// fields, and only inside a transaction together with the CodeRecord.
type UserProfile struct {
	ID              string
	DisplayName     string
	Email           string
	CurrentCode     *string // Denormalized copy of the active code (nullable)
	CodeVerified    bool
	CodeGeneratedAt *time.Time
	CodeVerifiedAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
