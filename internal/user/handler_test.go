package user_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
)

func newRouter(t *testing.T) (http.Handler, *inbox) {
	svc, box := newService(t)
	r := chi.NewRouter()
	user.Routes(r, user.NewHandler(svc))
	return r, box
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHandlers(t *testing.T) {
	registerBody := `{"email":"ana@example.com","password":"correct-horse","first_name":"Ana","last_name":"Lima"}`

	t.Run("RegisterVerifySession", func(t *testing.T) {
		h, box := newRouter(t)

		rec := do(h, http.MethodPost, "/register", registerBody, "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = do(h, http.MethodPost, "/verify-otp", `{"email":"ana@example.com","code":"`+box.code("ana@example.com")+`"}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("verify: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
		access, _ := data["access"].(string)

		rec = do(h, http.MethodGet, "/session", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("session: expected 200, got %d", rec.Code)
		}
	})

	t.Run("RegisterValidation", func(t *testing.T) {
		h, _ := newRouter(t)
		rec := do(h, http.MethodPost, "/register", `{"email":"bad","password":"x"}`, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeEnvelope(t, rec)
		if body["status"] != "error" || body["message"] != "Registration failed" {
			t.Errorf("unexpected envelope %v", body)
		}
		errs := body["errors"].(map[string]interface{})
		for _, field := range []string{"email", "password", "first_name", "last_name"} {
			if _, ok := errs[field]; !ok {
				t.Errorf("missing error for %s", field)
			}
		}
	})

	t.Run("LoginMalformedIsUnauthorized", func(t *testing.T) {
		h, _ := newRouter(t)
		rec := do(h, http.MethodPost, "/login", `{}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("SessionRequiresToken", func(t *testing.T) {
		h, _ := newRouter(t)
		if rec := do(h, http.MethodGet, "/session", "", ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
