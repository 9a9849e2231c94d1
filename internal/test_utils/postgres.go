package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoafs081993/love-execu-o/internal/config"
	"github.com/cristianoafs081993/love-execu-o/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	dbName       = "execucao"
	dbUser       = "test_execucao"
	dbPassword   = "test_execucao"
	snapshotName = "execucao-test-snapshot"
)

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	return postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
}

// TestDB is a migrated Postgres container shared by the tests of one package.
type TestDB struct {
	container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// Restore brings the database back to the freshly migrated snapshot.
// Pool connections are closed first because Postgres refuses to drop a database in use.
func (d *TestDB) Restore(ctx context.Context) error {
	d.Pool.Reset()
	return d.container.Restore(ctx, postgres.WithSnapshotName(snapshotName))
}

// Terminate stops the container.
func (d *TestDB) Terminate() {
	d.Pool.Close()
	if err := testcontainers.TerminateContainer(d.container); err != nil {
		log.Errorf("failed to terminate postgres container: %v", err)
	}
}

// StartDB starts Postgres in a container, applies all migrations and snapshots the
// result. It exits the process when anything fails, as it is meant for TestMain.
func StartDB() *TestDB {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		log.Errorf("failed to start postgres container: %v", err)
		os.Exit(1)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432/tcp")
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: "execucao",
	}

	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	if err := container.Snapshot(ctx, postgres.WithSnapshotName(snapshotName)); err != nil {
		log.Fatalf("Failed to snapshot postgres container: %v", err)
	}

	pool, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	return &TestDB{container: container, Pool: pool}
}

// findProjectRoot walks up from the working directory to the directory holding go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
