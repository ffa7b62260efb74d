package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"
	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/laxenta/laxenta-web/internal/migrate"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skip(args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestDBConfig holds configuration for test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB from docker-compose test profile).
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "laxenta"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "laxenta"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "laxenta"),
	}
}

func (c TestDBConfig) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		c.User, c.Password, net.JoinHostPort(c.Host, c.Port), c.DBName)
}

// SkipIfNoTestDB skips the test if the test database is not reachable.
// Set TEST_REQUIRE_DB=true to fail instead.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().dsn())
	if err != nil {
		skipOrFail(t, "Test database not available:", err)
		return
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			t.Logf("test db close failed: %v", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		skipOrFail(t, "Test database not available:", pingErr)
	}
}

// SetupTestDB opens the test database, applies migrations, and clears user data.
// The connection is closed when the test finishes.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := sql.Open("pgx", DefaultTestDBConfig().dsn())
	if err != nil {
		t.Fatal("Failed to open database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if migrateErr := migrate.Run(ctx, db, nil); migrateErr != nil {
		t.Fatal("Failed to run migrations:", migrateErr)
	}

	CleanupTestDB(t, db)
	t.Cleanup(func() {
		CleanupTestDB(t, db)
		if cerr := db.Close(); cerr != nil {
			t.Logf("warning: failed to close database: %v", cerr)
		}
	})
	return db
}

// CleanupTestDB removes all user data from the database.
func CleanupTestDB(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// user_sessions cascades from users.
	if _, err := db.ExecContext(ctx, "DELETE FROM users"); err != nil {
		t.Fatalf("Failed to clean up table users: %v", err)
	}
}

// SetupMiniRedis starts an in-process Redis server and returns a client bound to it.
// Both are closed when the test finishes.
func SetupMiniRedis(t TestingTB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client: %v", cerr)
		}
		mr.Close()
	})
	return mr, client
}

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func skipOrFail(t TestingTB, args ...any) {
	if requireDB() {
		t.Fatal(args...)
	}
	t.Skip(args...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
