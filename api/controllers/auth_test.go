package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkrishnan-dev/orderhub-backend/api/middleware"
	"github.com/mkrishnan-dev/orderhub-backend/internal/auth"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/config"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/types"
)

type stubAuthService struct {
	loginResp  *auth.LoginResponse
	loginErr   error
	refresh    *auth.RefreshResponse
	refreshErr error
	loggedOut  []string
}

func (s *stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return s.refresh, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{CookieName: "orderhub_session"}
}

func loginJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "s", Issuer: "i", ExpirationMinutes: 60}
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{loginResp: &auth.LoginResponse{
		AccessToken:   "access-token",
		RefreshToken:  "refresh-token",
		Username:      "acme",
		SupplierCodes: []string{"S001"},
		StoreName:     "NMC",
	}}
	handler := AuthLogin(svc, sessionConfig(), loginJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"acme","password":"pw"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-OH-Token") != "access-token" {
		t.Fatal("token header not set")
	}

	cookieFound := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "orderhub_session" {
			cookieFound = true
			if c.Value != "access-token" || !c.HttpOnly {
				t.Fatalf("cookie = %+v", c)
			}
		}
	}
	if !cookieFound {
		t.Fatal("session cookie not set")
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Data.Username != "acme" || envelope.Data.StoreName != "NMC" {
		t.Fatalf("payload = %+v", envelope.Data)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, sessionConfig(), loginJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"acme","password":"bad"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeUnauthorized) || envelope.Error.Message != "invalid credentials" {
		t.Fatalf("error = %+v", envelope.Error)
	}
}

func TestAuthLoginRejectsMissingFields(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, sessionConfig(), loginJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"acme"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAuthLogoutRevokesAndClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogout(svc, sessionConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "jti-1"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "jti-1" {
		t.Fatalf("logout calls = %v", svc.loggedOut)
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "orderhub_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("session cookie not expired")
	}
}

func TestAuthRefreshReturnsRotatedPair(t *testing.T) {
	svc := &stubAuthService{refresh: &auth.RefreshResponse{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
	}}
	handler := AuthRefresh(svc, sessionConfig(), loginJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"access_token":"old","refresh_token":"r"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-OH-Token") != "new-access" {
		t.Fatal("token header not set")
	}
}
