package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:2000", cfg.App.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "bdeo.db?_foreign_keys=on", cfg.Database.DSN())
	assert.Equal(t, "local", cfg.Upload.Driver)
	assert.Equal(t, "static/uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(100*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, "memory", cfg.Notice.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Notice.TTLDuration())
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Elasticsearch.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BDEO_UPLOAD_DIR", "/srv/videos")
	t.Setenv("BDEO_APP_PORT", "8080")
	t.Setenv("BDEO_UPLOAD_MAX_SIZE", "1024")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/videos", cfg.Upload.Dir)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, int64(1024), cfg.Upload.MaxSize)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  port: 3000
database:
  driver: postgres
  host: db
  port: 5433
  user: bdeo
  password: secret
  dbname: videos
notice:
  driver: redis
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, "127.0.0.1", cfg.App.Host)
	assert.Equal(t, "redis", cfg.Notice.Driver)
	assert.Equal(t, "host=db port=5433 user=bdeo password=secret dbname=videos sslmode=disable", cfg.Database.DSN())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_MySQLDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", DBName: "bdeo"}
	assert.Equal(t, "u:p@tcp(db:3306)/bdeo?charset=utf8mb4&parseTime=True&loc=Local", d.DSN())
}
