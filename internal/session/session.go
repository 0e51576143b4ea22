// Package session issues and verifies the access and refresh tokens that
// represent an authenticated account.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/carson-networks/wallet-server/internal/apperr"
)

// ErrNotAuthorized is the message of every session failure.
const ErrNotAuthorized = "Not authorized"

// Kind tells access tokens and refresh tokens apart. A token of one kind is
// never accepted where the other is expected.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// Pair is one issued access/refresh token pair.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

type claims struct {
	Kind Kind `json:"knd"`
	jwt.RegisteredClaims
}

type Manager struct {
	config Config
	now    func() time.Time
}

func NewManager(config Config) (*Manager, error) {
	if len(config.Secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	if config.AccessTTL <= 0 || config.RefreshTTL <= 0 {
		return nil, errors.New("session token lifetimes must be positive")
	}
	if config.Issuer == "" {
		config.Issuer = "wallet-server"
	}
	return &Manager{config: config, now: time.Now}, nil
}

// Issue signs a fresh pair for the account. Every pair carries a random token
// id, so two pairs issued in the same second still differ.
func (m *Manager) Issue(accountID uuid.UUID) (Pair, error) {
	access, err := m.sign(accountID, KindAccess, m.config.AccessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(accountID, KindRefresh, m.config.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) sign(accountID uuid.UUID, kind Kind, ttl time.Duration) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   accountID.String(),
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(m.config.Secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and kind of a token and returns the
// account it names. Any failure is reported as unauthorized.
func (m *Manager) Parse(token string, kind Kind) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, apperr.Unauthorized(ErrNotAuthorized)
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || c.Kind != kind {
		return uuid.Nil, apperr.Unauthorized(ErrNotAuthorized)
	}

	accountID, err := uuid.FromString(c.Subject)
	if err != nil {
		return uuid.Nil, apperr.Unauthorized(ErrNotAuthorized)
	}
	return accountID, nil
}

// Matches reports whether presented is the token currently stored for the
// account. A cleared slot matches nothing.
func Matches(stored null.Val[string], presented string) bool {
	current, ok := stored.Get()
	if !ok || current == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(current), []byte(presented)) == 1
}
