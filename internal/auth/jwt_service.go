package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultAccessTokenExpiry is used when no expiry is configured or requested.
const DefaultAccessTokenExpiry = 30 * time.Minute

// ErrInvalidToken is the only error VerifyToken returns. Callers must not
// distinguish between bad signatures, malformed input and expiry.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the principal resolved from a verified token.
type Identity struct {
	ID        uint
	TokenID   string
	ExpiresAt time.Time
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret        []byte
	method        jwt.SigningMethod
	defaultExpiry time.Duration
	now           func() time.Time
}

// NewJWTService creates a JWT service. algorithm must name an HMAC method
// (HS256, HS384 or HS512); defaultExpiry <= 0 means DefaultAccessTokenExpiry.
func NewJWTService(secret, algorithm string, defaultExpiry time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if defaultExpiry <= 0 {
		defaultExpiry = DefaultAccessTokenExpiry
	}
	return &JWTService{
		secret:        []byte(secret),
		method:        method,
		defaultExpiry: defaultExpiry,
		now:           time.Now,
	}, nil
}

// DefaultExpiry returns the lifetime applied when IssueToken gets no expiry.
func (s *JWTService) DefaultExpiry() time.Duration {
	return s.defaultExpiry
}

// IssueToken signs {sub: identityID, exp: now+expiry, jti: random}. expiry <= 0
// uses the service default.
func (s *JWTService) IssueToken(identityID uint, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.defaultExpiry
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(identityID), 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates signature, algorithm and expiry and returns the
// identity encoded in the subject.
func (s *JWTService) VerifyToken(tokenString string) (*Identity, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.method.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrInvalidToken
	}

	return &Identity{
		ID:        uint(id),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
