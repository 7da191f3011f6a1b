// Package testutil provides helpers shared by the CLI tests: Docker
// gating, disposable PostgreSQL containers, and upgrade file fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgupgrader/pgupgrader/pkg/consts"
)

// WriteUpgradeFile writes an upgrade file into dir and returns its path.
func WriteUpgradeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), consts.ModeFile))
	return path
}
