package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestSeatTokenIssueClaims(t *testing.T) {
	svc := NewSeatTokenService("test-secret", time.Minute)
	tokenString, err := svc.Issue("user123", "match-456")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	claims := parseSeatClaims(t, tokenString, "test-secret")
	if got := stringClaim(t, claims, "sub"); got != "user123" {
		t.Fatalf("sub = %s, want user123", got)
	}
	if got := stringClaim(t, claims, "mid"); got != "match-456" {
		t.Fatalf("mid = %s, want match-456", got)
	}
	if got := stringClaim(t, claims, "iss"); got != seatTokenIssuer {
		t.Fatalf("iss = %s, want %s", got, seatTokenIssuer)
	}
	if stringClaim(t, claims, "jti") == "" {
		t.Fatal("jti is empty")
	}
}

func TestSeatTokenVerify(t *testing.T) {
	svc := NewSeatTokenService("test-secret", time.Minute)
	token, err := svc.Issue("user123", "match-456")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	if err := svc.Verify(token, "user123", "match-456"); err != nil {
		t.Fatalf("verify error: %v", err)
	}

	tests := []struct {
		name    string
		svc     *SeatTokenService
		token   string
		user    string
		matchID string
	}{
		{"other user", svc, token, "someone-else", "match-456"},
		{"other match", svc, token, "user123", "match-789"},
		{"wrong secret", NewSeatTokenService("other-secret", time.Minute), token, "user123", "match-456"},
		{"garbage", svc, "not-a-token", "user123", "match-456"},
		{"unconfigured", NewSeatTokenService("", time.Minute), token, "user123", "match-456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.svc.Verify(tt.token, tt.user, tt.matchID)
			if !errors.Is(err, ErrInvalidSeatToken) {
				t.Fatalf("err = %v, want ErrInvalidSeatToken", err)
			}
		})
	}
}

func TestSeatTokenExpired(t *testing.T) {
	svc := NewSeatTokenService("test-secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := svc.Issue("user123", "match-456")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if err := svc.Verify(token, "user123", "match-456"); !errors.Is(err, ErrInvalidSeatToken) {
		t.Fatalf("err = %v, want ErrInvalidSeatToken", err)
	}
}

func TestSeatTokenIssueRequiresConfig(t *testing.T) {
	if _, err := NewSeatTokenService("", time.Minute).Issue("user", "match"); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewSeatTokenService("secret", time.Minute).Issue("", "match"); err == nil {
		t.Fatal("expected error for empty user")
	}
}

func parseSeatClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, name string) string {
	t.Helper()
	value, ok := claims[name]
	if !ok {
		t.Fatalf("missing %s claim", name)
	}
	str, ok := value.(string)
	if !ok {
		t.Fatalf("%s claim is not a string", name)
	}
	return str
}
