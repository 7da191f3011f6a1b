// Package docker provides Docker integration for running temporary
// PostgreSQL instances for upgrade testing.
//
// The package stands up disposable PostgreSQL containers so integration
// tests and local experiments can exercise the full upgrade protocol,
// ledger bootstrap and all, against a real server instead of a fake.
//
// # Usage Example
//
//	container := docker.NewWithOptions(docker.DockerOptions{
//		Version:  "16",
//		Database: "app",
//	})
//
//	ctx := context.Background()
//	defer container.Stop(ctx)
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	// Get connection details
//	dsn, _ := container.GetDSN(ctx)
package docker
