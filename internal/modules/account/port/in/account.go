package in

import (
	"context"

	"selflab/internal/modules/account/dto"
)

type Usecase interface {
	Register(ctx context.Context, input dto.RegisterInput) (dto.UserOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (dto.SessionOutput, error)
	RequestPasswordReset(ctx context.Context, email string) (dto.MessageOutput, error)
	ChangePassword(ctx context.Context, input dto.ChangePasswordInput) error
	SetupDemo(ctx context.Context) (dto.SessionOutput, error)
}
