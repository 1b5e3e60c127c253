package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mkrishnan-dev/orderhub-backend/internal/suppliers"
	"github.com/mkrishnan-dev/orderhub-backend/internal/users"
	pkgAuth "github.com/mkrishnan-dev/orderhub-backend/pkg/auth"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/config"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
)

type stubUserRepo struct {
	rows map[string]*users.User
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (*users.User, error) {
	if u, ok := s.rows[username]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

type stubSupplierDir struct {
	row *suppliers.Supplier
}

func (s *stubSupplierDir) FindForStore(context.Context, string, string) (*suppliers.Supplier, error) {
	if s.row == nil {
		return nil, suppliers.ErrNotFound
	}
	return s.row, nil
}

type stubResolver struct{}

func (stubResolver) ResolveName(_ context.Context, name string) string {
	return strings.TrimSpace(name)
}

type stubSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-" + oldAccessID, "rotated-" + provided, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "orderhub-test", ExpirationMinutes: 60}
}

func newTestService(t *testing.T, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo: &stubUserRepo{rows: map[string]*users.User{
			"acme": {Username: "acme", Password: "pw", SupplierCode: "S001,S002"},
		}},
		SupplierDir: &stubSupplierDir{row: &suppliers.Supplier{
			SupplierCode: "S001",
			SupplierName: "Acme Traders",
			GSTNumber:    "GST123",
		}},
		StoreCatalog:   stubResolver{},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		DefaultStore:   "NMC",
	})
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestLoginIssuesTokenPair(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newTestService(t, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "acme", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("token pair incomplete")
	}
	if resp.StoreName != "NMC" {
		t.Fatalf("store = %q, want NMC", resp.StoreName)
	}
	if len(resp.SupplierCodes) != 2 {
		t.Fatalf("codes = %v", resp.SupplierCodes)
	}
	if resp.SupplierName != "Acme Traders" || resp.GSTNumber != "GST123" {
		t.Fatalf("directory enrichment missing: %+v", resp)
	}
	if len(sessions.generated) != 1 {
		t.Fatal("refresh session not created")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Username != "acme" || claims.ID != sessions.generated[0] {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginHonorsRequestedStore(t *testing.T) {
	svc := newTestService(t, &stubSessionManager{})

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "acme", Password: "pw", StoreName: "KLM"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StoreName != "KLM" {
		t.Fatalf("store = %q, want KLM", resp.StoreName)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "acme", Password: "nope"})
	assertInvalidCredentials(t, err)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "pw"})
	assertInvalidCredentials(t, err)
}

func TestLoginBlankUsername(t *testing.T) {
	svc := newTestService(t, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Username: "  ", Password: "pw"})
	assertInvalidCredentials(t, err)
}

func assertInvalidCredentials(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("error = %v, want UNAUTHORIZED", err)
	}
	if typed.Message() != "invalid credentials" {
		t.Fatalf("message = %q, want invalid credentials", typed.Message())
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newTestService(t, sessions)

	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{
		Username:      "acme",
		SupplierCodes: []string{"S001"},
		StoreName:     "NMC",
		JTI:           "old-access",
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: token, RefreshToken: "refresh-old"})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken != "rotated-refresh-old" {
		t.Fatalf("resp = %+v", resp)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.ID != "new-old-access" || claims.Username != "acme" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	svc := newTestService(t, &stubSessionManager{})

	_, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: "not-a-jwt", RefreshToken: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("error = %v, want UNAUTHORIZED", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newTestService(t, sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatal(err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("revoked = %v", sessions.revoked)
	}

	// A blank access id is a no-op, not an error.
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if len(sessions.revoked) != 1 {
		t.Fatal("blank access id should not hit the session store")
	}
}
