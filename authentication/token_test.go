package authentication

import (
	"os"
	"strings"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateToken(t *testing.T) {

	os.Setenv("ACCESS_SECRET", "at-test-secret")
	os.Setenv("REFRESH_SECRET", "rt-test-secret")
	defer os.Unsetenv("ACCESS_SECRET")
	defer os.Unsetenv("REFRESH_SECRET")

	td, err := CreateToken("user-1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(td.AccessUUID, "at_"))
	assert.True(t, strings.HasPrefix(td.RefreshUUID, "rt_"))
	assert.Greater(t, td.RtExpires, td.AtExpires)

	// the access token must verify against its secret and carry the
	// claims the registry look-up needs
	token, err := jwt.Parse(td.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("at-test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, td.AccessUUID, claims["access_uuid"])

	// the refresh token uses its own secret
	_, err = jwt.Parse(td.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("at-test-secret"), nil
	})
	assert.Error(t, err)

	token, err = jwt.Parse(td.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("rt-test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok = token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, td.RefreshUUID, claims["refresh_uuid"])
}
