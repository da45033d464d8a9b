package auth

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/config"
	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
	"github.com/digifund/digifund-backend/pkg/security"
)

type fakeUserRepo struct {
	user *models.User
	err  error
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeSessionManager struct {
	created []string
	revoked []string
	err     error
}

func (f *fakeSessionManager) Create(_ context.Context, accessID string) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, accessID)
	return nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	if f.err != nil {
		return f.err
	}
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "digifund-test",
		ExpirationMinutes: 15,
		SessionTTLMinutes: 60,
	}
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	cfg := config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16}
	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		PublicID:     "BIZ-deadbeef",
		Email:        "owner@acme.test",
		PasswordHash: hash,
		BusinessName: "Acme Ltd",
		Role:         enums.UserRoleBusiness,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUserRepo{user: testUser(t, "hunter22aa")},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "OWNER@acme.test", Password: "hunter22aa"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.User == nil || resp.User.PublicID != "BIZ-deadbeef" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.created))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUserRepo{user: testUser(t, "hunter22aa")},
		SessionManager: &fakeSessionManager{},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "owner@acme.test", Password: "nope"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUserRepo{err: gorm.ErrRecordNotFound},
		SessionManager: &fakeSessionManager{},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@acme.test", Password: "whatever"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := testUser(t, "hunter22aa")
	user.IsActive = false
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUserRepo{user: user},
		SessionManager: &fakeSessionManager{},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "owner@acme.test", Password: "hunter22aa"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUserRepo{user: testUser(t, "hunter22aa")},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Logout(context.Background(), "access-123"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-123" {
		t.Fatalf("unexpected revocations: %v", sessions.revoked)
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}
