package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakif/sweet-shop/internal/apperror"
	"github.com/sakif/sweet-shop/internal/model"
)

// fakeUserRepo serves a single known user by ID.
type fakeUserRepo struct {
	user *model.User
}

func (f *fakeUserRepo) CreateUser(_ context.Context, _ *model.User) error { return nil }

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, apperror.NotFound("user", email)
}

func newAuthFixture(t *testing.T) (*TokenService, *fakeUserRepo) {
	t.Helper()
	tokens, err := NewTokenService("test-secret-at-least-16", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	repo := &fakeUserRepo{user: &model.User{
		ID:       "user-123",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     model.RoleAdmin,
	}}
	return tokens, repo
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens, repo := newAuthFixture(t)

	token, err := tokens.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var got Identity
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = IdentityFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sweets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	RequireAuth(tokens, repo)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !found {
		t.Fatal("identity missing from request context")
	}
	if got.ID != "user-123" || got.Username != "alice" || !got.IsAdmin() {
		t.Errorf("identity = %+v, want the stored user's fields", got)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tokens, repo := newAuthFixture(t)

	expired, err := tokens.GenerateWithDuration("user-123", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}
	unknownUser, err := tokens.Generate("no-such-user")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not a bearer header", "Basic abc123"},
		{"malformed token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"token for a deleted user", "Bearer " + unknownUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			req := httptest.NewRequest(http.MethodGet, "/api/sweets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			RequireAuth(tokens, repo)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if called {
				t.Error("next handler ran for an unauthenticated request")
			}
		})
	}
}

func TestIdentityFromContext_Anonymous(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("IdentityFromContext() reported an identity on a bare context")
	}
}
