package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/park-booking/internal/domain"
	apperrors "github.com/spec-kit/park-booking/pkg/util"
)

type stubUsers map[string]*domain.User

func (s stubUsers) Get(_ context.Context, username string) (*domain.User, error) {
	if u, ok := s[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func newGuardedApp(t *testing.T, tm *TokenManager) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	mw := NewAuthMiddleware(tm, stubUsers{"alice": {Username: "alice"}})

	app.Get("/user", mw.Handle, RequireUser(), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.User.Username)
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/unguarded-admin", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	app := newGuardedApp(t, tm)

	userToken, err := tm.GenerateToken("alice", domain.SubjectTypeUser)
	require.NoError(t, err)
	adminToken, err := tm.GenerateToken("admin", domain.SubjectTypeAdmin)
	require.NoError(t, err)
	goneToken, err := tm.GenerateToken("bob", domain.SubjectTypeUser)
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"user reaches user route", "/user", "Bearer " + userToken.Value, http.StatusOK, "alice"},
		{"admin reaches admin route", "/admin", "Bearer " + adminToken.Value, http.StatusOK, "ok"},
		{"scheme is case-insensitive", "/admin", "bearer " + adminToken.Value, http.StatusOK, "ok"},
		{"user blocked from admin route", "/admin", "Bearer " + userToken.Value, http.StatusForbidden, "FORBIDDEN"},
		{"admin blocked from user route", "/user", "Bearer " + adminToken.Value, http.StatusForbidden, "FORBIDDEN"},
		{"guard without principal", "/unguarded-admin", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing header", "/user", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "/user", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", "/user", "Bearer abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"deleted user", "/user", "Bearer " + goneToken.Value, http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}
