package domain

import "time"

// CodeRecord is the authoritative copy of a user's secret code. It is created
// on first issuance and overwritten, never deleted, on every rotation.
type CodeRecord struct {
	UserID    string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CodeState is the combined read model of a user's code lifecycle, merged
// from the profile's denormalized fields and the CodeRecord.
type CodeState struct {
	Code        string
	GeneratedAt *time.Time
	Verified    bool
	VerifiedAt  *time.Time
}

// UserCode is one row of the administrative listing: profile identity plus
// the active code.
type UserCode struct {
	UserID      string
	DisplayName string
	Email       string
	Code        string
	Verified    bool
}
