package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_UsesEmbeddedDir(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, "migrations", gotDir)
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	boom := errors.New("boom")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}

	err = RunMigrations(context.Background(), db)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_discovery_schema.sql", entries[0].Name())
}

func TestNewRedisClientFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClientFromURL(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.Equal(t, "v", client.Get(context.Background(), "k").Val())
}

func TestNewRedisClientFromURL_BadURL(t *testing.T) {
	_, err := NewRedisClientFromURL(context.Background(), "::not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse Redis URL")
}

func TestDefaultPoolConfig(t *testing.T) {
	pool := DefaultPoolConfig()
	assert.Equal(t, 25, pool.MaxOpenConns)
	assert.Equal(t, 5, pool.MaxIdleConns)
}
