package upgrader_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgupgrader/pgupgrader/pkg/postgres"
	. "github.com/pgupgrader/pgupgrader/pkg/upgrader"
)

func TestOptionsDefaults(t *testing.T) {
	opts := NewOptions().Build()

	require.Empty(t, opts.Schema())
	require.False(t, opts.CreateSchema())
	require.Equal(t, postgres.SSLDisable, opts.SSLMode())
}

func TestOptionsBuilder(t *testing.T) {
	opts := NewOptions().
		Schema("app").
		CreateSchema(true).
		SSLMode(postgres.SSLRequire).
		Build()

	require.Equal(t, "app", opts.Schema())
	require.True(t, opts.CreateSchema())
	require.Equal(t, postgres.SSLRequire, opts.SSLMode())
}

func TestSubstituteSchema(t *testing.T) {
	sql := "CREATE TABLE {{SCHEMA}}.users (id INT); COMMENT ON SCHEMA {{SCHEMA}} IS 'app';"

	withSchema := NewOptions().Schema("tenant_a").Build()
	require.Equal(t,
		"CREATE TABLE tenant_a.users (id INT); COMMENT ON SCHEMA tenant_a IS 'app';",
		withSchema.SubstituteSchema(sql),
	)

	// Without a schema the placeholder passes through untouched.
	require.Equal(t, sql, NewOptions().Build().SubstituteSchema(sql))
}
