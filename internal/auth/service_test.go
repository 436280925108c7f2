package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MaxKocheshkov/API-service-for-retail/internal/users"
	pkgAuth "github.com/MaxKocheshkov/API-service-for-retail/pkg/auth"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/config"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db/models"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if _, exists := s.byEmail[dto.Email]; exists {
		return nil, fmt.Errorf(`duplicate key value violates unique constraint "users_email_key"`)
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byEmail[dto.Email] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if user, ok := s.byID[id]; ok {
		user.LastLoginAt = &at
	}
	return nil
}

func (s *stubUserRepo) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	user, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsActive = true
	user.EmailVerifiedAt = &at
	return nil
}

type stubShopFinder struct {
	shopsByOwner map[uuid.UUID]*models.Shop
}

func (s *stubShopFinder) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	if shop, ok := s.shopsByOwner[ownerID]; ok {
		return shop, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessions struct {
	tokens map[string]string
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}}
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", fmt.Errorf("invalid refresh token")
	}
	delete(s.tokens, oldAccessID)
	newID := uuid.NewString()
	token := "refresh-" + newID
	s.tokens[newID] = token
	return newID, token, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	return nil
}

type stubVerification struct {
	data map[string]string
}

func newStubVerification() *stubVerification {
	return &stubVerification{data: map[string]string{}}
}

func (s *stubVerification) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = fmt.Sprint(value)
	return nil
}

func (s *stubVerification) Get(ctx context.Context, key string) (string, error) {
	val, ok := s.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (s *stubVerification) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubVerification) VerificationTokenKey(email string) string {
	return "verification:" + email
}

func newTestService(t *testing.T) (Service, *stubUserRepo, *stubShopFinder, *stubSessions, *stubVerification) {
	t.Helper()
	repo := newStubUserRepo()
	shops := &stubShopFinder{shopsByOwner: map[uuid.UUID]*models.Shop{}}
	sessions := newStubSessions()
	verification := newStubVerification()

	svc, err := NewService(ServiceParams{
		UserRepo:          repo,
		ShopFinder:        shops,
		SessionManager:    sessions,
		VerificationStore: verification,
		JWTConfig: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "retail-api",
			ExpirationMinutes: 15,
		},
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB:    32768,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		AppConfig:       config.AppConfig{Env: config.AppEnvDev},
		VerificationTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, shops, sessions, verification
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Email:    "Buyer@Example.com",
		Password: "super-secret-pw",
		UserName: "Buyer One",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %q", reg.User.Email)
	}
	if reg.User.IsActive {
		t.Fatal("new account must start inactive")
	}
	if reg.VerificationToken == "" {
		t.Fatal("expected verification token outside prod")
	}

	// Login before verification is rejected.
	if _, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "super-secret-pw"}); err == nil {
		t.Fatal("expected login rejection before verification")
	}

	if err := svc.Verify(ctx, VerifyRequest{Email: "buyer@example.com", Token: reg.VerificationToken}); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !repo.byEmail["buyer@example.com"].IsActive {
		t.Fatal("account should be active after verification")
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "super-secret-pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.AccessToken == "" || login.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if login.User.LastLoginAt == nil {
		t.Fatal("expected last login recorded")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "dup@example.com", Password: "super-secret-pw", UserName: "Dup"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, req)
	if err == nil {
		t.Fatal("expected conflict for duplicate email")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestRegisterAdminRoleRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "root@example.com",
		Password: "super-secret-pw",
		UserName: "Root",
		Role:     enums.UserRoleAdmin,
	})
	if err == nil {
		t.Fatal("expected rejection of admin self-registration")
	}
}

func TestVerifyWrongToken(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "v@example.com", Password: "super-secret-pw", UserName: "V"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := svc.Verify(ctx, VerifyRequest{Email: "v@example.com", Token: "nope"})
	if err == nil {
		t.Fatal("expected invalid token error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
}

func TestLoginEmbedsPartnerShop(t *testing.T) {
	svc, repo, shops, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Email:    "partner@example.com",
		Password: "super-secret-pw",
		UserName: "Partner",
		Role:     enums.UserRolePartner,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Verify(ctx, VerifyRequest{Email: "partner@example.com", Token: reg.VerificationToken}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	shopID := uuid.New()
	shops.shopsByOwner[repo.byEmail["partner@example.com"].ID] = &models.Shop{ID: shopID, Name: "Partner Shop"}

	login, err := svc.Login(ctx, LoginRequest{Email: "partner@example.com", Password: "super-secret-pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "retail-api",
		ExpirationMinutes: 15,
	}, login.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRolePartner {
		t.Fatalf("expected partner role, got %s", claims.Role)
	}
	if claims.ShopID == nil || *claims.ShopID != shopID {
		t.Fatal("expected shop id embedded in claims")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, _, sessions, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Email: "r@example.com", Password: "super-secret-pw", UserName: "R"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Verify(ctx, VerifyRequest{Email: "r@example.com", Token: reg.VerificationToken}); err != nil {
		t.Fatalf("verify: %v", err)
	}
	login, err := svc.Login(ctx, LoginRequest{Email: "r@example.com", Password: "super-secret-pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == login.AccessToken {
		t.Fatal("expected a fresh access token")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected a fresh refresh token")
	}

	// The old pair is no longer usable.
	if _, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	}); err == nil {
		t.Fatal("expected rejection of reused refresh token")
	}

	if len(sessions.tokens) != 1 {
		t.Fatalf("expected exactly one live session, got %d", len(sessions.tokens))
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, _, sessions, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Email: "out@example.com", Password: "super-secret-pw", UserName: "Out"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Verify(ctx, VerifyRequest{Email: "out@example.com", Token: reg.VerificationToken}); err != nil {
		t.Fatalf("verify: %v", err)
	}
	login, err := svc.Login(ctx, LoginRequest{Email: "out@example.com", Password: "super-secret-pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, LogoutRequest{AccessToken: login.AccessToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatal("expected session revoked")
	}
}
