package database

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/event-tracker-api/pkg/config"
)

func TestDSN(t *testing.T) {
	pg := config.DatabaseConfig{Driver: config.DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", Name: "events", SSLMode: "disable"}
	dsn, err := DSN(pg)
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=events sslmode=disable", dsn)

	pg.Driver = config.DriverPgx
	dsn, err = DSN(pg)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/events?sslmode=disable", dsn)

	path := filepath.Join(t.TempDir(), "nested", "app.db")
	dsn, err = DSN(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.DirExists(t, filepath.Dir(path))

	_, err = DSN(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestMigrateRunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	stmts := schema("postgres")
	for _, stmt := range stmts {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), sqlx.NewDb(db, "postgres")))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, stmts[0], "TIMESTAMPTZ")
	assert.Contains(t, schema("sqlite3")[0], "TIMESTAMP NOT NULL")
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "app.db")}
	db, err := Open(context.Background(), cfg)
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 driver requires cgo")
	}
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM events"))
	assert.Zero(t, count)

	require.NoError(t, Migrate(context.Background(), db), "migrations are idempotent")
}
