package auth_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
)

func protected(t *testing.T) http.Handler {
	return auth.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.GetUserClaimsFromContext(r.Context())
		if err != nil {
			t.Errorf("claims missing: %v", err)
		}
		if claims.UserID != testUserID {
			t.Errorf("unexpected user id %d", claims.UserID)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestAuthMiddleware(t *testing.T) {
	os.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	access, _ := auth.GenerateJWT(testUserID, testRole, auth.TokenTypeAccess, time.Minute)
	refresh, _ := auth.GenerateJWT(testUserID, testRole, auth.TokenTypeRefresh, time.Minute)

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"BearerHeader", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+access) }, http.StatusNoContent},
		{"Cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: access}) }, http.StatusNoContent},
		{"Missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"Garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"RefreshToken", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+refresh) }, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/session", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()

			protected(t).ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	os.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	h := auth.AuthMiddleware(auth.RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	for role, want := range map[string]int{auth.RoleAdmin: http.StatusOK, auth.RoleUser: http.StatusForbidden} {
		token, _ := auth.GenerateJWT(1, role, auth.TokenTypeAccess, time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %s: expected %d, got %d", role, want, rec.Code)
		}
	}
}

func TestLogout(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.NewHandler().Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != auth.CookieName || cookies[0].MaxAge >= 0 {
		t.Errorf("expected the jwt cookie to be cleared, got %+v", cookies)
	}
}
