package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgupgrader/pgupgrader/pkg/cmd/testutil"
	"github.com/pgupgrader/pgupgrader/pkg/postgres"
)

func TestCheckConnectionCommand_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testutil.SkipIfNoDocker(t)

	_, dsn := testutil.StartPostgresContainer(t)

	require.NoError(t, runCLI(t, "check-connection", "--url", dsn))
}

func TestCheckConnectionCommand_Unreachable(t *testing.T) {
	err := runCLI(t, "check-connection", "--url", "postgres://nobody@127.0.0.1:1/nothing?connect_timeout=2")

	var connErr *postgres.ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestCheckConnectionCommand_MissingTarget(t *testing.T) {
	err := runCLI(t, "check-connection")
	require.Error(t, err)
}
