package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Orcamentos-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "c-1", "vendedor", "orcamentos-api", 5)
	require.NoError(t, err)

	userID, companyID, role, err := jwt.Parse("secreto", token)

	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "c-1", companyID)
	assert.Equal(t, "vendedor", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "c-1", "admin", "orcamentos-api", 5)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro", token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "c-1", "admin", "orcamentos-api", -1)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestParse_SinEmpresa(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "", "admin", "orcamentos-api", 5)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("secreto", token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "c-1", "admin", "orcamentos-api", 5)
	assert.Error(t, err)
}
