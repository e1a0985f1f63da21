package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costos-api/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "secreto-de-prueba")
	t.Setenv("JWT_ISSUER", "costos-test")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIssueToken_TokenValido(t *testing.T) {
	out, err := run(t, "issue-token", "--user", "u1", "--role", "shop_manager")
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto-de-prueba", "costos-test", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, jwt.RoleShopManager, claims.Role)
}

func TestIssueToken_RolInvalido(t *testing.T) {
	_, err := run(t, "issue-token", "--role", "customer")
	assert.Error(t, err)
}

func TestApplyCosts_ModoInvalido(t *testing.T) {
	_, err := run(t, "apply-costs", "--mode", "todo")
	assert.Error(t, err)
}

func TestApplyCosts_CatalogoVacioTermina(t *testing.T) {
	out, err := run(t, "apply-costs", "--mode", "overwrite-all", "--pages-per-second", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "apply-costs: 0 actualizados en 1 páginas, completado")
}

func TestMigrateVariableCosts_CatalogoVacioTermina(t *testing.T) {
	out, err := run(t, "migrate-variable-costs")
	require.NoError(t, err)
	assert.Contains(t, out, "completado")
}

func TestMigrateSchema_RequierePostgres(t *testing.T) {
	_, err := run(t, "migrate-schema")
	assert.Error(t, err)
}
