package in

import (
	"context"

	"selflab/internal/modules/account/dto"
	accountin "selflab/internal/modules/account/port/in"
)

type CLIHandler struct {
	usecase accountin.Usecase
}

func NewCLIHandler(usecase accountin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Register(ctx context.Context, email, password, name string) (dto.UserOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{Email: email, Password: password, Name: name})
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (dto.SessionOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) RequestPasswordReset(ctx context.Context, email string) (dto.MessageOutput, error) {
	return h.usecase.RequestPasswordReset(ctx, email)
}

func (h CLIHandler) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return h.usecase.ChangePassword(ctx, dto.ChangePasswordInput{UserID: userID, OldPassword: oldPassword, NewPassword: newPassword})
}

func (h CLIHandler) SetupDemo(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.SetupDemo(ctx)
}
