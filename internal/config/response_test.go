package config_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	config.Success(rec, http.StatusCreated, "created", map[string]int{"id": 7})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "success" || body["message"] != "created" {
		t.Errorf("unexpected envelope: %v", body)
	}
	if _, ok := body["data"]; !ok {
		t.Error("success envelope must carry data")
	}
}

func TestErrorEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("Validation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := apperr.Validation("Registration failed", map[string]string{"email": "is required"})
		config.Error(rec, req, fmt.Errorf("register: %w", err))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		var body config.ErrorEnvelope
		json.Unmarshal(rec.Body.Bytes(), &body)
		if body.Status != "error" || body.Message != "Registration failed" {
			t.Errorf("unexpected envelope: %+v", body)
		}
		if body.Errors["email"] != "is required" {
			t.Errorf("expected field error, got %v", body.Errors)
		}
	})

	t.Run("InternalHidesCause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		config.Error(rec, req, errors.New("pq: connection refused"))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		var body config.ErrorEnvelope
		json.Unmarshal(rec.Body.Bytes(), &body)
		if body.Message != "internal server error" {
			t.Errorf("internal cause leaked: %q", body.Message)
		}
	})
}
