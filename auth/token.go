package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dwoolworth/inkwell/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Purpose scopes a one-time token to a single flow.
type Purpose string

const (
	PurposeVerification Purpose = "verification"
	PurposeReset        Purpose = "reset"
	PurposeInvitation   Purpose = "invitation"
)

// Default lifetimes.
const (
	DefaultSessionTTL = 7 * 24 * time.Hour
	DefaultTokenTTL   = 24 * time.Hour
)

// ErrInvalidToken is returned for tokens that are malformed, expired, signed
// with another key or issued for another purpose.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Claims is the JWT payload for sessions and one-time tokens. Session tokens
// carry no purpose. Binding ties a one-time token to account state that its
// use changes, so a spent token no longer matches.
type Claims struct {
	Email   string      `json:"email"`
	Role    models.Role `json:"role,omitempty"`
	Purpose Purpose     `json:"purpose,omitempty"`
	Binding string      `json:"bnd,omitempty"`
	jwt.RegisteredClaims
}

// Session is a signed-in user's bearer token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Principal Principal `json:"-"`
}

// Signer issues and verifies HS256 tokens.
type Signer struct {
	secret     []byte
	sessionTTL time.Duration
	tokenTTL   time.Duration
	now        func() time.Time
}

// NewSigner returns a Signer. Non-positive TTLs select the defaults.
func NewSigner(secret string, sessionTTL, tokenTTL time.Duration) *Signer {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Signer{secret: []byte(secret), sessionTTL: sessionTTL, tokenTTL: tokenTTL, now: time.Now}
}

// IssueSession signs a session token for p.
func (s *Signer) IssueSession(p Principal) (Session, error) {
	now := s.now()
	exp := now.Add(s.sessionTTL)
	tok, err := s.sign(Claims{
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, ExpiresAt: exp, Principal: p}, nil
}

// ParseSession verifies a session token and returns its principal.
func (s *Signer) ParseSession(token string) (Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return Principal{}, err
	}
	if claims.Purpose != "" {
		return Principal{}, ErrInvalidToken
	}
	id, err := bson.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: id, Email: claims.Email, Role: claims.Role}, nil
}

// IssueToken signs a one-time token for email scoped to purpose. binding is
// returned unchanged by ParseToken; pass "" when the flow needs none.
func (s *Signer) IssueToken(purpose Purpose, email, binding string) (string, error) {
	now := s.now()
	return s.sign(Claims{
		Email:   email,
		Purpose: purpose,
		Binding: binding,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
}

// ParseToken verifies a one-time token for purpose and returns its email and
// binding.
func (s *Signer) ParseToken(token string, purpose Purpose) (email, binding string, err error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", "", err
	}
	if claims.Purpose != purpose || claims.Email == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Email, claims.Binding, nil
}

// CredentialBinding fingerprints a stored password hash. A reset token bound
// to it stops matching once the password changes.
func CredentialBinding(passwordHash string) string {
	sum := sha256.Sum256([]byte("credential:" + passwordHash))
	return hex.EncodeToString(sum[:12])
}

func (s *Signer) sign(c Claims) (string, error) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return tok, nil
}

func (s *Signer) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
