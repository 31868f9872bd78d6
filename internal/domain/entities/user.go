package entities

import "time"

// User represents one registration of a Telegram user.
//
// A Telegram user may own several rows over time: at most one of them is
// active, the others are archived identities that keep their answer log.
type User struct {
	ID           int64      // row identity, referenced by the answer log
	TelegramID   int64      // Telegram user ID
	Phone        string     // phone number shared on registration
	Name         string     // display name
	RegisteredAt time.Time  // time of registration
	IsActive     bool       // false once archived or deactivated
	ArchiveKey   *string    // set only for archived rows
	ArchivedAt   *time.Time // set only for archived rows
}

// NewUser creates an active user for the given Telegram identity.
func NewUser(telegramID int64, phone, name string) *User {
	return &User{
		TelegramID:   telegramID,
		Phone:        phone,
		Name:         name,
		RegisteredAt: time.Now(),
		IsActive:     true,
	}
}

// IsArchived reports whether the row was retired by a statistics reset.
func (u *User) IsArchived() bool {
	return u.ArchiveKey != nil
}
