package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/internal/users"
	pkgAuth "github.com/MaxKocheshkov/API-service-for-retail/pkg/auth"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/auth/session"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/config"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	verificationTokenLength   = 40
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Verify(ctx context.Context, req VerifyRequest) error
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}

type shopFinder interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type verificationStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	VerificationTokenKey(email string) string
}

type service struct {
	users        userRepository
	shops        shopFinder
	session      sessionManager
	verification verificationStore
	jwtCfg       config.JWTConfig
	passwordCfg  config.PasswordConfig
	appCfg       config.AppConfig
	tokenTTL     time.Duration
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo          userRepository
	ShopFinder        shopFinder
	SessionManager    sessionManager
	VerificationStore verificationStore
	JWTConfig         config.JWTConfig
	PasswordConfig    config.PasswordConfig
	AppConfig         config.AppConfig
	VerificationTTL   time.Duration
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ShopFinder == nil {
		return nil, fmt.Errorf("shop finder is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.VerificationStore == nil {
		return nil, fmt.Errorf("verification store is required")
	}
	ttl := params.VerificationTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{
		users:        params.UserRepo,
		shops:        params.ShopFinder,
		session:      params.SessionManager,
		verification: params.VerificationStore,
		jwtCfg:       params.JWTConfig,
		passwordCfg:  params.PasswordConfig,
		appCfg:       params.AppConfig,
		tokenTTL:     ttl,
	}, nil
}

// Register creates an inactive account and issues an email verification token.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	role := req.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	if role == enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin accounts cannot self-register")
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		UserName:     strings.TrimSpace(req.UserName),
		Company:      req.Company,
		Position:     req.Position,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	token, err := security.GenerateToken(verificationTokenLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification token")
	}
	if err := s.verification.Set(ctx, s.verification.VerificationTokenKey(email), token, s.tokenTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store verification token")
	}

	resp := &RegisterResponse{User: users.FromModel(user)}
	// Without an outbound mailer the token is surfaced directly in dev/test.
	if !s.appCfg.IsProd() {
		resp.VerificationToken = token
	}
	return resp, nil
}

// Verify confirms the email token and activates the account.
func (s *service) Verify(ctx context.Context, req VerifyRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	token := strings.TrimSpace(req.Token)
	if email == "" || token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and token are required")
	}

	key := s.verification.VerificationTokenKey(email)
	stored, err := s.verification.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "verification token invalid or expired")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load verification token")
	}
	if stored != token {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "verification token invalid or expired")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	if !user.IsActive {
		if err := s.users.MarkVerified(ctx, user.ID, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate account")
		}
	}

	// Best effort: the token is single use.
	_ = s.verification.Del(ctx, key)
	return nil
}

// Login authenticates the user and issues an access/refresh token pair.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	shopID, err := s.lookupShopID(ctx, user)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		ShopID: shopID,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh rotates the session and mints a new token pair for the same user.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is not active")
	}

	shopID, err := s.lookupShopID(ctx, user)
	if err != nil {
		return nil, err
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		ShopID: shopID,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

// Logout revokes the refresh session tied to the provided access token.
func (s *service) Logout(ctx context.Context, req LogoutRequest) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
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
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}

func (s *service) lookupShopID(ctx context.Context, user *models.User) (*uuid.UUID, error) {
	if user.Role != enums.UserRolePartner {
		return nil, nil
	}
	shop, err := s.shops.FindByOwner(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A partner without a shop yet can still log in; the shop is
			// created on first feed import.
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shop")
	}
	id := shop.ID
	return &id, nil
}
