package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	claims := TokenClaims{
		Sub:      "alice@example.com",
		Admin:    true,
		Exp:      time.Now().Add(time.Hour).Unix(),
		Issuer:   "promail-api",
		Audience: "promail-web",
	}
	token, err := SignJWT("secret", claims)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	got, err := VerifyJWT("secret", token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if got.Sub != claims.Sub || !got.Admin || got.Issuer != claims.Issuer {
		t.Fatalf("claims = %+v", got)
	}
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{Sub: "alice@example.com"})
	if _, err := VerifyJWT("other", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestVerifyJWTRejectsTamperedPayload(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{Sub: "alice@example.com"})
	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	if _, err := VerifyJWT("secret", strings.Join(parts, ".")); err == nil {
		t.Fatal("expected verification error")
	}
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{
		Sub: "alice@example.com",
		Exp: time.Now().Add(-time.Minute).Unix(),
	})
	if _, err := VerifyJWT("secret", token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	handler := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ProfileIDFromContext(r.Context()) != "alice@example.com" {
			t.Fatal("profile missing from context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no header status = %d, want 401", rec.Code)
	}

	token, _ := SignJWT("secret", TokenClaims{
		Sub: "alice@example.com",
		Exp: time.Now().Add(time.Hour).Unix(),
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", rec.Code)
	}
}
