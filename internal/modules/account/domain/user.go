package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	MinPasswordLength = 6

	DemoEmail    = "demo@selflab.com"
	DemoPassword = "password123"
	DemoName     = "Demo User"
)

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session identifies the signed-in user for the current runtime context.
type Session struct {
	UserID     string
	Email      string
	Name       string
	SignedInAt time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email %q is not a valid address", email)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}

func (u User) Session(at time.Time) Session {
	return Session{UserID: u.ID, Email: u.Email, Name: u.Name, SignedInAt: at}
}
