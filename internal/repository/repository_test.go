package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rrens/support-chat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "chat.db")}

	repos, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer repos.Close()

	assert.Equal(t, "sqlite", repos.Driver)
	assert.NoError(t, repos.Ping(context.Background()))
	assert.NotNil(t, repos.Sessions)
	assert.NotNil(t, repos.Stats)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
