package session

import (
	"strings"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carson-networks/wallet-server/internal/apperr"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestManager(t *testing.T, now time.Time) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: testSecret, AccessTTL: 2 * time.Hour, RefreshTTL: 30 * 24 * time.Hour})
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestNewManager_RejectsWeakConfig(t *testing.T) {
	_, err := NewManager(Config{Secret: []byte("short"), AccessTTL: time.Hour, RefreshTTL: time.Hour})
	assert.Error(t, err)

	_, err = NewManager(Config{Secret: testSecret, AccessTTL: 0, RefreshTTL: time.Hour})
	assert.Error(t, err)
}

func TestIssueAndParse_RoundTrip(t *testing.T) {
	m := newTestManager(t, time.Now())
	account := uuid.Must(uuid.NewV4())

	pair, err := m.Issue(account)
	require.NoError(t, err)

	got, err := m.Parse(pair.AccessToken, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, account, got)

	got, err = m.Parse(pair.RefreshToken, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, account, got)
}

func TestIssue_PairsAlwaysDiffer(t *testing.T) {
	m := newTestManager(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	account := uuid.Must(uuid.NewV4())

	first, err := m.Issue(account)
	require.NoError(t, err)
	second, err := m.Issue(account)
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, first.RefreshToken)
}

func TestParse_KindsAreNotInterchangeable(t *testing.T) {
	m := newTestManager(t, time.Now())
	pair, err := m.Issue(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	_, err = m.Parse(pair.RefreshToken, KindAccess)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = m.Parse(pair.AccessToken, KindRefresh)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestParse_Expired(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, issuedAt)
	pair, err := m.Issue(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(2*time.Hour + time.Second) }

	_, err = m.Parse(pair.AccessToken, KindAccess)
	assert.EqualError(t, err, ErrNotAuthorized)
	_, err = m.Parse(pair.RefreshToken, KindRefresh)
	assert.NoError(t, err, "refresh tokens outlive access tokens")
}

func TestParse_RejectsForeignAndMalformedTokens(t *testing.T) {
	m := newTestManager(t, time.Now())
	account := uuid.Must(uuid.NewV4())

	other, err := NewManager(Config{Secret: []byte(strings.Repeat("z", 32)), AccessTTL: time.Hour, RefreshTTL: time.Hour})
	require.NoError(t, err)
	foreign, err := other.Issue(account)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		Kind:             KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: account.String(), Issuer: "wallet-server", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"foreign secret": foreign.AccessToken,
		"alg none":       unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token, KindAccess)
			assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches(null.From("abc"), "abc"))
	assert.False(t, Matches(null.From("abc"), "abd"))
	assert.False(t, Matches(null.From("abc"), ""))
	assert.False(t, Matches(null.Val[string]{}, "abc"))
	assert.False(t, Matches(null.From(""), ""))
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	ok, err := CheckPassword(hash, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "secret124")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPassword_EmptyHashNeverMatches(t *testing.T) {
	ok, err := CheckPassword("", "wallet-server-dummy-password")

	require.NoError(t, err)
	assert.False(t, ok)
}
