package testutil

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgupgrader/pgupgrader/pkg/docker"
)

// SkipIfNoDocker skips the test if Docker is not available
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	// Check if Docker binary exists
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}

	// Check if Docker daemon is running
	cmd := exec.CommandContext(context.Background(), "docker", "ps")
	if err := cmd.Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}

// StartPostgresContainer starts a PostgreSQL container and returns it along
// with its DSN. The container is terminated when the test finishes.
func StartPostgresContainer(t *testing.T) (*docker.Container, string) {
	t.Helper()

	SkipIfNoDocker(t)

	container := docker.NewWithOptions(docker.DockerOptions{
		Database: "upgrade_test",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	require.NoError(t, container.Start(ctx), "Failed to start PostgreSQL container")

	t.Cleanup(func() {
		_ = container.Stop(context.Background())
	})

	dsn, err := container.GetDSN(ctx)
	require.NoError(t, err, "Failed to get container DSN")

	return container, dsn
}
