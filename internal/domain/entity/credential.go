package entity

import "time"

// Credential holds the password digest of one actor.
type Credential struct {
	OwnerID            int64
	PasswordHash       string
	LastResetRequestAt *time.Time
}
