package usecase

import (
	"context"

	"selflab/internal/modules/account/domain"
	"selflab/internal/modules/account/dto"
	accountin "selflab/internal/modules/account/port/in"
	"selflab/internal/modules/account/service"
)

type Interactor struct {
	svc *service.AccountService
}

func NewInteractor(svc *service.AccountService) accountin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.UserOutput, error) {
	user, err := i.svc.Register(ctx, input.Email, input.Password, input.Name)
	if err != nil {
		return dto.UserOutput{}, err
	}
	return dto.UserOutput{ID: user.ID, Email: user.Email, Name: user.Name, CreatedAt: user.CreatedAt}, nil
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	session, err := i.svc.Login(ctx, input.Email, input.Password)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Logout(ctx)
}

func (i *Interactor) Current(ctx context.Context) (dto.SessionOutput, error) {
	session, err := i.svc.Current(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func (i *Interactor) RequestPasswordReset(ctx context.Context, email string) (dto.MessageOutput, error) {
	msg, err := i.svc.RequestPasswordReset(ctx, email)
	if err != nil {
		return dto.MessageOutput{}, err
	}
	return dto.MessageOutput{Message: msg}, nil
}

func (i *Interactor) ChangePassword(ctx context.Context, input dto.ChangePasswordInput) error {
	return i.svc.ChangePassword(ctx, input.UserID, input.OldPassword, input.NewPassword)
}

func (i *Interactor) SetupDemo(ctx context.Context) (dto.SessionOutput, error) {
	session, err := i.svc.SetupDemo(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func toSessionOutput(session domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		UserID:     session.UserID,
		Email:      session.Email,
		Name:       session.Name,
		SignedInAt: session.SignedInAt,
	}
}
