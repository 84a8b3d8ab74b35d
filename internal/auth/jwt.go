package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrUnexpectedMethod = errors.New("unexpected signing method")
	ErrIssuerMismatch   = errors.New("issuer mismatch")
)

// Claims is the access token payload. The subject is the username.
type Claims struct {
	UserID  uint64 `json:"uid"`
	IsAdmin bool   `json:"adm"`
	jwt.RegisteredClaims
}

// Token is a signed access token and its metadata
type Token struct {
	AccessToken string
	ID          string
	ExpiresAt   time.Time
}

// Issuer signs and verifies HS256 access tokens
type Issuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer signing with key and stamping tokens with issuer
func NewIssuer(key, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{
		key:    []byte(key),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the given user
func (i *Issuer) Issue(username string, userID uint64, isAdmin bool) (Token, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	id := uuid.NewString()

	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    i.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return Token{}, err
	}

	return Token{AccessToken: signed, ID: id, ExpiresAt: exp}, nil
}

// Parse validates a token and returns its claims
func (i *Issuer) Parse(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnexpectedMethod
		}
		return i.key, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return Claims{}, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	if i.issuer != "" && claims.Issuer != i.issuer {
		return Claims{}, ErrIssuerMismatch
	}
	return *claims, nil
}
