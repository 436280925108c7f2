package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MaxKocheshkov/API-service-for-retail/internal/auth"
	pkgerrors "github.com/MaxKocheshkov/API-service-for-retail/pkg/errors"
)

type stubAuthService struct {
	loginResult *auth.LoginResponse
	err         error
	verified    bool
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return nil, s.err
}

func (s *stubAuthService) Verify(ctx context.Context, req auth.VerifyRequest) error {
	s.verified = true
	return s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginResult, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, req auth.LogoutRequest) error {
	return s.err
}

func TestAuthVerifyRequiresQueryParams(t *testing.T) {
	handler := AuthVerify(&stubAuthService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify?email=a@b.c", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthVerifySuccess(t *testing.T) {
	stub := &stubAuthService{}
	handler := AuthVerify(stub, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify?email=a@b.c&token=abc123", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !stub.verified {
		t.Fatalf("verify was not called")
	}
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	body := `{"email":"a@b.c","password":"secretpass","extra":true}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginUnauthorizedPassthrough(t *testing.T) {
	stub := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(stub, nil)

	body := `{"email":"a@b.c","password":"wrongpass1"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
