package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a teacher account. It gates the single-device login screen only; no
// permission logic depends on it.
type User struct {
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"passwordHash,omitempty"` // persisted in the bundle, never rendered by the API
	LoginCount   int       `json:"loginCount"`
	LastLogin    time.Time `json:"lastLogin"` // UTC
	CreatedAt    time.Time `json:"createdAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}
