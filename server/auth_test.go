package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswords(t *testing.T) {
	hash, err := GeneratePassword("hunter2")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := ValidatePassword("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ValidatePassword("hunter3", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ValidatePassword("hunter2", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestTokens(t *testing.T) {
	auth := NewAuth("secret")
	token, err := auth.CreateToken(&User{Name: "ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana", token.Name)

	claims, err := auth.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Name)

	_, err = NewAuth("other").ValidateToken(token.AccessToken)
	assert.Error(t, err)

	expired := &Auth{secret: []byte("secret"), expire: -time.Minute}
	old, err := expired.CreateToken(&User{Name: "ana"})
	require.NoError(t, err)
	_, err = auth.ValidateToken(old.AccessToken)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	auth := NewAuth("secret")
	token, err := auth.CreateToken(&User{Name: "ana"})
	require.NoError(t, err)

	var seen any
	handler := auth.Middleware(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context().Value(UserContextKey)
	})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing", "", http.StatusBadRequest},
		{"invalid", "?token=garbage", http.StatusForbidden},
		{"valid", "?token=" + token.AccessToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/ws"+tt.query, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, "ana", seen)
}
