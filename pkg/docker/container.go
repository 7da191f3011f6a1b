package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/pgupgrader/pgupgrader/pkg/consts"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultPostgresPort is the default port for PostgreSQL server
const DefaultPostgresPort = 5432

type (
	// DockerOptions represents options for running PostgreSQL in Docker
	DockerOptions struct {
		// Version is the PostgreSQL version to run (default: latest)
		Version string

		// Database is the database created on startup (default: postgres)
		Database string

		// Username is the superuser name (default: postgres)
		Username string

		// Password is the superuser password (default: postgres)
		Password string
	}

	// Container manages PostgreSQL Docker containers for upgrade testing
	Container struct {
		options   DockerOptions
		container *tcpostgres.PostgresContainer
	}
)

// New creates a new Docker container with default options
//
// Example:
//
//	container := docker.New()
//
//	// Start PostgreSQL container
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
func New() *Container {
	return &Container{
		options: DockerOptions{},
	}
}

// NewWithOptions creates a new Docker container with custom options
func NewWithOptions(opts DockerOptions) *Container {
	return &Container{
		options: opts,
	}
}

// Start starts a PostgreSQL Docker container with the configured version
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	version := c.options.Version
	if version == "" {
		version = consts.DefaultPostgresVersion
	}

	database := c.options.Database
	if database == "" {
		database = "postgres"
	}

	username := c.options.Username
	if username == "" {
		username = "postgres"
	}

	password := c.options.Password
	if password == "" {
		password = "postgres"
	}

	container, err := tcpostgres.Run(ctx,
		fmt.Sprintf("postgres:%s-alpine", version),
		tcpostgres.WithDatabase(database),
		tcpostgres.WithUsername(username),
		tcpostgres.WithPassword(password),
		testcontainers.WithWaitStrategyAndDeadline(
			5*time.Minute,
			wait.
				ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start PostgreSQL container")
	}

	c.container = container
	return nil
}

// Stop stops and removes the PostgreSQL Docker container
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil // Already stopped
	}

	err := c.container.Terminate(ctx)
	c.container = nil

	if err != nil {
		return errors.Wrap(err, "failed to stop PostgreSQL container")
	}

	return nil
}

// GetDSN returns the DSN for connecting to the Docker PostgreSQL instance
func (c *Container) GetDSN(ctx context.Context) (string, error) {
	if c.container == nil {
		return "", errors.New("container is not running")
	}

	connectionString, err := c.container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", errors.Wrap(err, "failed to get connection string")
	}

	return connectionString, nil
}

// IsRunning returns true if the container is currently running
func (c *Container) IsRunning() bool {
	return c.container != nil
}
