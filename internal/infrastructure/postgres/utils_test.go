package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%taza%`, likePattern("taza"))
	assert.Equal(t, `%100\%\_algodón%`, likePattern("100%_algodón"))
	assert.Equal(t, `%%`, likePattern(""))
}

func TestSortedKeys_OrdenDeterminista(t *testing.T) {
	keys := sortedKeys(map[string]string{"_cogs_max_variant_cost": "7", "_cogs_cost": "5", "_cogs_min_variant_cost": "5"})
	assert.Equal(t, []string{"_cogs_cost", "_cogs_max_variant_cost", "_cogs_min_variant_cost"}, keys)
}

func TestWrap_TablaInexistenteSugiereMigrar(t *testing.T) {
	err := wrap("get product", &pgconn.PgError{Code: "42P01"})
	assert.Contains(t, err.Error(), "migrate-schema")

	err = wrap("get product", &pgconn.PgError{Code: "23505"})
	assert.NotContains(t, err.Error(), "migrate-schema")
}
