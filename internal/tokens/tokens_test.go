package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/clientes_api/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer([]byte("secret"), 15*time.Minute)

	tok, err := iss.Issue(42, models.RoleEmpleado)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, uint(42), claims.PersonaID)
	assert.Equal(t, models.RoleEmpleado, claims.Rol)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now()))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewIssuer([]byte("a"), time.Minute).Issue(1, models.RoleCliente)
	require.NoError(t, err)

	_, err = NewIssuer([]byte("b"), time.Minute).Parse(tok)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseRejectsExpired(t *testing.T) {
	iss := NewIssuer([]byte("secret"), time.Minute)
	iss.Now = func() time.Time { return time.Now().Add(-time.Hour) }

	tok, err := iss.Issue(1, models.RoleAdministrador)
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := AccessClaims{Rol: models.RoleAdministrador, PersonaID: 1}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer([]byte("secret"), time.Minute).Parse(tok)
	require.Error(t, err)
}
