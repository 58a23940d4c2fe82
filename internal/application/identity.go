package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	repo "github.com/oksasatya/mycookbook-api/internal/domain/repository"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Identity turns bearer credentials into users. When Sessions is nil tokens
// are checked by signature and expiry only.
type Identity struct {
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Users    repo.UserRepository
	Logger   *logrus.Logger
}

func NewIdentity(jwt *helpers.JWTManager, sessions SessionStore, users repo.UserRepository, logger *logrus.Logger) *Identity {
	return &Identity{JWT: jwt, Sessions: sessions, Users: users, Logger: logger}
}

// Issue starts a new session for u and signs a token pair bound to it.
func (i *Identity) Issue(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := i.sign(u.ID, sid)
	if err != nil {
		if i.Logger != nil {
			i.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return TokenPair{}, errs.Internal("issue tokens", err)
	}
	if i.Sessions != nil {
		sess := Session{UserID: u.ID, Email: u.Email, Name: u.Name, SID: sid}
		if err := i.Sessions.Save(ctx, sess, i.JWT.RefreshTTL); err != nil {
			return TokenPair{}, errs.External("save session", err)
		}
	}
	return pair, nil
}

func (i *Identity) sign(userID, sid string) (TokenPair, error) {
	access, aexp, err := i.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := i.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// checkSession fails unless the stored session still carries sid.
func (i *Identity) checkSession(ctx context.Context, userID, sid string) error {
	if i.Sessions == nil {
		return nil
	}
	sess, ok, err := i.Sessions.Get(ctx, userID)
	if err != nil {
		return errs.External("load session", err)
	}
	if !ok || sess.SID != sid {
		return errs.ErrUnauthenticated
	}
	return nil
}

func (i *Identity) user(ctx context.Context, id string) (*entity.User, error) {
	u, err := i.Users.GetByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.ErrUnauthenticated
	}
	return u, err
}

// Resolve returns the user an access token was issued to. Any missing,
// malformed, expired or revoked credential yields errs.ErrUnauthenticated.
func (i *Identity) Resolve(ctx context.Context, accessToken string) (*entity.User, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, errs.ErrUnauthenticated
	}
	claims, err := i.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, errs.ErrUnauthenticated
	}
	if err := i.checkSession(ctx, claims.UserID, claims.SessionID); err != nil {
		return nil, err
	}
	return i.user(ctx, claims.UserID)
}

// Rotate exchanges a refresh token for a new pair and a new sid, which
// invalidates the old pair.
func (i *Identity) Rotate(ctx context.Context, refreshToken string) (TokenPair, *entity.User, error) {
	claims, err := i.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, nil, errs.ErrUnauthenticated
	}
	if err := i.checkSession(ctx, claims.UserID, claims.SessionID); err != nil {
		return TokenPair{}, nil, err
	}
	u, err := i.user(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, nil, err
	}
	pair, err := i.Issue(ctx, u)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, u, nil
}

// Revoke ends userID's session.
func (i *Identity) Revoke(ctx context.Context, userID string) error {
	if i.Sessions == nil {
		return nil
	}
	if err := i.Sessions.Delete(ctx, userID); err != nil {
		return errs.External("delete session", err)
	}
	return nil
}
