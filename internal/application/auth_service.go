package application

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	repo "github.com/oksasatya/mycookbook-api/internal/domain/repository"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
	"github.com/oksasatya/mycookbook-api/pkg/validation"
)

var validate = validation.New()

// checkInput runs the binding rules of in and reports the first violation
// as errs.ErrInvalidInput.
func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		for field, msg := range validation.ToDetails(verrs[:1]) {
			return errs.Invalid("%s %s", field, msg)
		}
	}
	return errs.Invalid("%v", err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by every operation that opens a session.
type AuthResult struct {
	User   *entity.User
	Tokens TokenPair
}

type AuthService struct {
	Users    repo.UserRepository
	Identity *Identity
	Notify   *Notifier
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, identity *Identity, notify *Notifier, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Identity: identity, Notify: notify, Logger: logger}
}

// Register creates the account, opens a session and enqueues the welcome
// e-mail. A taken e-mail fails with errs.ErrConflict and creates nothing.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := checkInput(in); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, errs.Internal("hash password", err)
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	pair, err := s.Identity.Issue(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	s.Notify.Welcome(ctx, u.Name, u.Email)
	return &AuthResult{User: u, Tokens: pair}, nil
}

// Authenticate checks the credentials without opening a session. Unknown
// e-mail and wrong password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, errs.ErrUnauthenticated
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	u, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	pair, err := s.Identity.Issue(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Tokens: pair}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	pair, u, err := s.Identity.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Tokens: pair}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Identity.Revoke(ctx, userID)
}
