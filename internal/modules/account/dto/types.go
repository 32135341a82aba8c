package dto

import "time"

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type ChangePasswordInput struct {
	UserID      string
	OldPassword string
	NewPassword string
}

type UserOutput struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

type SessionOutput struct {
	UserID     string
	Email      string
	Name       string
	SignedInAt time.Time
}

type MessageOutput struct {
	Message string
}
