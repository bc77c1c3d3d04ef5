package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"QrestAPI/internal/auth"
	"QrestAPI/internal/config"
)

func TestWithAuthDisabledReadsHeaders(t *testing.T) {
	var got auth.Principal
	h := withAuth(nil, false, func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.PrincipalFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("X-User-ID", "42")
	req.Header.Set("X-Organization-ID", "7")
	req.Header.Set("X-User-Email", "dev@example.com")
	h(httptest.NewRecorder(), req)

	if got.UserID != 42 || got.OrganizationID != 7 || got.Email != "dev@example.com" {
		t.Fatalf("principal = %+v", got)
	}
}

func TestWithAuthMissingToken(t *testing.T) {
	h := withAuth(nil, true, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a token")
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not a JSON envelope: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("empty error message")
	}
}

func TestWithAuthValidToken(t *testing.T) {
	v, err := auth.NewJWTValidator(config.JWTConfig{
		ValidationType: "HS256",
		HMACSecret:     "router-test-secret",
		ClockSkewSec:   30,
	})
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "42",
		"org_id": float64(7),
		"email":  "user@example.com",
		"iat":    now.Unix(),
		"exp":    now.Add(time.Hour).Unix(),
	}).SignedString([]byte("router-test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	var got auth.Principal
	h := withAuth(v, true, func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.PrincipalFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got.UserID != 42 || got.OrganizationID != 7 {
		t.Fatalf("principal = %+v", got)
	}
}

func TestWithRequestID(t *testing.T) {
	h := withRequestID(func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("request id not assigned")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "client-supplied")
	h(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "client-supplied" {
		t.Fatalf("request id = %q, want client value kept", got)
	}
}
