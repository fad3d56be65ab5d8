package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

var ErrInvalidSeatToken = errors.New("invalid seat token")

const seatTokenIssuer = "azool"

// SeatTokenService signs the short-lived tokens quick_match hands out so a
// client can only join the match it was matched into.
type SeatTokenService struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewSeatTokenService(secret string, ttl time.Duration) *SeatTokenService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SeatTokenService{secret: secret, ttl: ttl, now: time.Now}
}

func (s *SeatTokenService) Issue(userID, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("seat token service is nil")
	}
	if userID == "" || matchID == "" {
		return "", fmt.Errorf("user and match are required")
	}
	if s.secret == "" {
		return "", fmt.Errorf("seat token secret is not configured")
	}

	claims := jwt.MapClaims{
		"iss": seatTokenIssuer,
		"sub": userID,
		"mid": matchID,
		"exp": s.now().Add(s.ttl).Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature, expiry and that the token was issued to userID
// for matchID.
func (s *SeatTokenService) Verify(tokenString, userID, matchID string) error {
	if s == nil || s.secret == "" {
		return fmt.Errorf("%w: service not configured", ErrInvalidSeatToken)
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeatToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ErrInvalidSeatToken
	}
	if !claims.VerifyIssuer(seatTokenIssuer, true) {
		return fmt.Errorf("%w: wrong issuer", ErrInvalidSeatToken)
	}
	if sub, _ := claims["sub"].(string); sub != userID {
		return fmt.Errorf("%w: issued to another user", ErrInvalidSeatToken)
	}
	if mid, _ := claims["mid"].(string); mid != matchID {
		return fmt.Errorf("%w: issued for another match", ErrInvalidSeatToken)
	}
	return nil
}
