package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/mzansigreen/office-backend/pkg/auth"
	"github.com/mzansigreen/office-backend/pkg/config"
	"github.com/mzansigreen/office-backend/pkg/db/models"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// rateLimiter guards the login endpoint per scope key.
type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest, remoteIP string) (*LoginResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Limiter        rateLimiter
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	RateLimit      config.AuthRateLimitConfig
}

type service struct {
	users       userRepository
	limiter     rateLimiter
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	rateCfg     config.AuthRateLimitConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		users:       params.UserRepo,
		limiter:     params.Limiter,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		rateCfg:     params.RateLimit,
	}, nil
}

// Login authenticates an approved account. Accounts holding a temporary
// credential get a must-change-password response instead of a token.
func (s *service) Login(ctx context.Context, req LoginRequest, remoteIP string) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkRateLimit(ctx, email, remoteIP); err != nil {
		return nil, err
	}

	user, err := s.authenticate(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	if user.MustChangePassword {
		return &LoginResponse{
			MustChangePassword: true,
			UserID:             user.ID,
			Email:              user.Email,
			Role:               user.Role,
		}, nil
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
	}, nil
}

// ChangePassword verifies the current credential, stores the new hash, and
// clears must_change_password.
func (s *service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.authenticate(ctx, email, req.CurrentPassword)
	if err != nil {
		return err
	}

	if req.NewPassword == req.CurrentPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must differ from the current one")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user.PasswordHash = hash
	user.MustChangePassword = false
	if err := s.users.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update credentials")
	}
	return nil
}

func (s *service) checkRateLimit(ctx context.Context, email, remoteIP string) error {
	if s.limiter == nil {
		return nil
	}

	windows := []struct {
		scope string
		limit int
	}{
		{scope: "login:email:" + email, limit: s.rateCfg.LoginEmailLimit},
		{scope: "login:ip:" + remoteIP, limit: s.rateCfg.LoginIPLimit},
	}
	for _, w := range windows {
		if w.limit <= 0 {
			continue
		}
		allowed, _, err := s.limiter.FixedWindowAllow(ctx, w.scope, int64(w.limit), s.rateCfg.LoginWindow)
		if err != nil {
			// Redis being down should not lock every admin out.
			continue
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
		}
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsApproved {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
