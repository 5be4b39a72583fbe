package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	ts := NewTokenService([]byte("gateway-signing-secret"), time.Hour)

	token, expires, err := ts.Issue("alice", "operator")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if !expires.After(time.Now()) {
		t.Error("expected a future expiration")
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Username() != "alice" || claims.Role != "operator" {
		t.Errorf("unexpected claims: sub=%q role=%q", claims.Username(), claims.Role)
	}
}

func TestVerifyRejections(t *testing.T) {
	secret := []byte("gateway-signing-secret")

	expired := NewTokenService(secret, -time.Minute)
	expiredToken, _, err := expired.Issue("bob", "operator")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewTokenService([]byte("a different secret"), time.Hour)
	foreignToken, _, err := other.Issue("carol", "operator")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ts := NewTokenService(secret, time.Hour)
	cases := []struct {
		name  string
		token string
	}{
		{"expired token", expiredToken},
		{"token signed with another secret", foreignToken},
		{"garbage", "definitely.not.a-jwt"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ts.Verify(tc.token); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}
