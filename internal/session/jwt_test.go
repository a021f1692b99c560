package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker("0123456789abcdef0123456789abcdef")

	tok, err := tm.New("7001A", time.Minute)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	c, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.CustomerID != "7001A" || c.Subject != "7001A" {
		t.Fatalf("claims=%+v", c)
	}
	if c.ID == "" {
		t.Fatalf("empty jti")
	}
}

func TestTokenMaker_RejectsOtherSecret(t *testing.T) {
	tok, err := NewTokenMaker("secret-a").New("c1", time.Minute)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := NewTokenMaker("secret-b").Parse(tok); err != ErrInvalidToken {
		t.Fatalf("err=%v want=%v", err, ErrInvalidToken)
	}
}

func TestTokenMaker_RejectsExpired(t *testing.T) {
	tm := NewTokenMaker("secret")

	tok, err := tm.New("c1", -time.Minute)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := tm.Parse(tok); err != ErrInvalidToken {
		t.Fatalf("err=%v want=%v", err, ErrInvalidToken)
	}
}

func TestTokenMaker_RejectsForeignIssuer(t *testing.T) {
	claims := Claims{
		CustomerID: "c1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewTokenMaker("secret").Parse(tok); err != ErrInvalidIssuer {
		t.Fatalf("err=%v want=%v", err, ErrInvalidIssuer)
	}
}

func TestRequire(t *testing.T) {
	tm := NewTokenMaker("secret")
	tok, err := tm.New("c42", time.Minute)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var seen string
	h := Require(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CustomerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		authz  string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tc.authz != "" {
				req.Header.Set("Authorization", tc.authz)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
	if seen != "c42" {
		t.Fatalf("customer=%q", seen)
	}
}
