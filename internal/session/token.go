package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
)

// ErrInvalidToken wraps every token verification failure.
var ErrInvalidToken = errors.New("session: invalid token")

const tokenIssuer = "wordfall"

// Claims are carried by a session token.
type Claims struct {
	Mode       string `json:"mode"`
	Difficulty int    `json:"difficulty"`
	Score      int    `json:"score"`
	Actions    int    `json:"actions"`
	GameTimeMs int64  `json:"game_time_ms"`
	jwt.RegisteredClaims
}

// SessionID returns the id of the session the token was issued for.
func (c *Claims) SessionID() string {
	return c.ID
}

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	secret []byte
	tp     engine.TimeProvider
	ttl    time.Duration
}

// NewSigner creates a signer. Tokens expire after ttl.
func NewSigner(secret []byte, tp engine.TimeProvider, ttl time.Duration) *Signer {
	return &Signer{secret: secret, tp: tp, ttl: ttl}
}

// Issue validates the session and signs a token for the reported score.
func (sg *Signer) Issue(s *Session, reported int) (string, error) {
	if err := s.Validate(reported); err != nil {
		return "", err
	}
	now := sg.tp.Now()
	claims := Claims{
		Mode:       s.Mode.String(),
		Difficulty: s.Difficulty,
		Score:      reported,
		Actions:    len(s.Actions()),
		GameTimeMs: s.Duration().Milliseconds(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sg.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sg.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry of a token.
func (sg *Signer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return sg.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(sg.tp.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
