package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookpos-backend/config"
	"bookpos-backend/testutil"
)

func TestResolveSchema_MigratedTablesHavePriority(t *testing.T) {
	db := testutil.NewDB(t)
	assert.True(t, config.ResolveSchema(db).HasPriority)
	assert.True(t, config.Schema.HasPriority)
}

func TestResolveSchema_ExternalSchemaWithoutPriority(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:legacy_schema?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, table := range []string{"services", "products", "spaces"} {
		require.NoError(t, db.Exec("CREATE TABLE "+table+" (id TEXT PRIMARY KEY, name TEXT, priority INTEGER)").Error)
	}
	require.NoError(t, db.Exec("CREATE TABLE staff (id TEXT PRIMARY KEY, name TEXT)").Error)

	caps := config.ResolveSchema(db)
	assert.False(t, caps.HasPriority)
	assert.False(t, config.Schema.HasPriority)
}
