package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	repo "github.com/oksasatya/mycookbook-api/internal/domain/repository"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

// UpdateUserInput carries the editable profile fields. Nil means unchanged.
type UpdateUserInput struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=50"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

type UserService struct {
	Users    repo.UserRepository
	Identity *Identity
	Notify   *Notifier
	Logger   *logrus.Logger
}

func NewUserService(users repo.UserRepository, identity *Identity, notify *Notifier, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Identity: identity, Notify: notify, Logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.Users.List(ctx)
}

// Update changes the caller's own name and e-mail.
func (s *UserService) Update(ctx context.Context, actorID, id string, in UpdateUserInput) (*entity.User, error) {
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
	}
	if in.Email != nil {
		v := normalizeEmail(*in.Email)
		in.Email = &v
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}
	u, err := loadOwned(ctx, s.Users.GetByID, id, actorID, "update this user")
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password before storing the new one,
// then ends the session so other devices have to sign in again.
func (s *UserService) ChangePassword(ctx context.Context, actorID, id string, in ChangePasswordInput) error {
	if err := checkInput(in); err != nil {
		return err
	}
	u, err := loadOwned(ctx, s.Users.GetByID, id, actorID, "change this password")
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, in.CurrentPassword) {
		return errs.Invalid("current password is incorrect")
	}
	hash, err := helpers.HashPassword(in.NewPassword)
	if err != nil {
		return errs.Internal("hash password", err)
	}
	u.Password = hash
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	if err := s.Identity.Revoke(ctx, u.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("revoke session failed")
	}
	s.Notify.PasswordChanged(ctx, u.Name, u.Email)
	return nil
}

// Delete removes the caller's own account and session. Recipes and comments
// the user authored are kept.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	u, err := loadOwned(ctx, s.Users.GetByID, id, actorID, "delete this user")
	if err != nil {
		return err
	}
	if err := s.Users.Delete(ctx, u.ID); err != nil {
		return err
	}
	if err := s.Identity.Revoke(ctx, u.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("revoke session failed")
	}
	return nil
}
