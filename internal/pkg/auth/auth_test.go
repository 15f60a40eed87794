package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:  "test-secret",
		Expiration: time.Hour,
		Issuer:     "devcamper-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateToken("5d7a514b5d2c12c7449be042")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "5d7a514b5d2c12c7449be042", claims.UserID)
	assert.Equal(t, "devcamper-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateToken("user-1")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := newTestService().GenerateToken("user-1")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "another", Expiration: time.Hour})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := newTestService().ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestService().ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	_, _, err := newTestService().GenerateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: true},
		{name: "no scheme", header: "abc.def.ghi", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "scheme only", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	defer func() { BcryptCost = 12 }()

	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "1234567"))
}

func TestResetToken(t *testing.T) {
	token, hash, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 40)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashResetToken(token))

	other, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
