package module_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/module"
)

func TestHandlerStatuses(t *testing.T) {
	os.Setenv("JWT_SECRET", "module-handler-secret")
	auth.Init()
	f := newFixture(t)

	r := chi.NewRouter()
	module.Routes(r, module.NewHandler(f.svc))
	token, _ := auth.GenerateJWT(f.userID, auth.RoleUser, auth.TokenTypeAccess, time.Minute)

	cases := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/dashboard", http.StatusOK},
		{http.MethodGet, "/module-progress", http.StatusOK},
		{http.MethodGet, fmt.Sprintf("/module/%d", f.modules[0].ID), http.StatusOK},
		{http.MethodGet, fmt.Sprintf("/module/%d", f.modules[1].ID), http.StatusForbidden},
		{http.MethodGet, "/module/abc", http.StatusNotFound},
		{http.MethodGet, fmt.Sprintf("/module/%d/quiz", f.modules[1].ID), http.StatusNotFound},
		{http.MethodPost, fmt.Sprintf("/module/%d/complete", f.modules[0].ID), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Errorf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("Unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}
