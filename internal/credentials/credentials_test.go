package credentials

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix(), "sub": "u1"})
	s, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)
	return "Bearer " + s
}

func TestJarExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	jar := NewJar().WithClock(func() time.Time { return now })

	jar.Set("a", "1", now.Add(time.Minute))
	v, ok := jar.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	now = now.Add(2 * time.Minute)
	_, ok = jar.Get("a")
	assert.False(t, ok)
}

func TestJarExpiryOf(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	jar := NewJar().WithClock(func() time.Time { return now })

	exp := now.Add(5 * time.Minute)
	assert.Equal(t, exp.Unix(), jar.ExpiryOf(signed(t, exp)).Unix())
	assert.Equal(t, now.Add(DefaultAccessTTL), jar.ExpiryOf("not-a-jwt"))
}

func TestVaultAccessToken(t *testing.T) {
	v := NewVault(NewMemoryStorage())
	assert.Empty(t, v.AccessToken())

	token := signed(t, time.Now().Add(time.Hour))
	v.SetAccessToken(token)
	assert.Equal(t, token, v.AccessToken())

	v.DeleteAccessToken()
	assert.Empty(t, v.AccessToken())
}

func TestVaultExpiredAccessTokenReadsEmpty(t *testing.T) {
	v := NewVault(NewMemoryStorage())
	v.SetAccessToken(signed(t, time.Now().Add(-time.Minute)))
	assert.Empty(t, v.AccessToken())
}

func TestVaultRefreshToken(t *testing.T) {
	v := NewVault(NewMemoryStorage())

	got, err := v.RefreshToken()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, HasAny(v))

	require.NoError(t, v.SetRefreshToken("r1"))
	got, err = v.RefreshToken()
	require.NoError(t, err)
	assert.Equal(t, "r1", got)
	assert.True(t, HasAny(v))

	require.NoError(t, v.DeleteRefreshToken())
	require.NoError(t, v.DeleteRefreshToken())
	got, err = v.RefreshToken()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLStorageRoundTrip(t *testing.T) {
	storage, err := OpenSQL("sqlite3", filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	defer storage.Close()

	_, err = storage.GetItem(RefreshTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.SetItem(RefreshTokenKey, "first"))
	require.NoError(t, storage.SetItem(RefreshTokenKey, "second"))

	got, err := storage.GetItem(RefreshTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	require.NoError(t, storage.RemoveItem(RefreshTokenKey))
	_, err = storage.GetItem(RefreshTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStoragePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.db")

	first, err := OpenSQL("sqlite3", path)
	require.NoError(t, err)
	require.NoError(t, NewVault(first).SetRefreshToken("keep-me"))
	require.NoError(t, first.Close())

	second, err := OpenSQL("sqlite3", path)
	require.NoError(t, err)
	defer second.Close()

	got, err := NewVault(second).RefreshToken()
	require.NoError(t, err)
	assert.Equal(t, "keep-me", got)
}
