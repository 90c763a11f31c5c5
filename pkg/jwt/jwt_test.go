package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", "u-1", "cashier", "tienda-pos", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("s3cr3t", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "cashier", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", "u-1", "admin", "tienda-pos", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", "u-1", "admin", "tienda-pos", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("s3cr3t", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "admin", "tienda-pos", 5)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
