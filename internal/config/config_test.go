package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAMLOverDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
database:
  host: db.internal
  port: 6432
  database: restaurant
rabbitmq:
  user: dinein
kafka:
  order_topic: orders.v2
server:
  port: 8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "restaurant", cfg.Database.Database)
	assert.Equal(t, "dinein", cfg.Database.User, "unset keys keep defaults")
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, "dinein", cfg.RabbitMQ.User)
	assert.Equal(t, "orders.v2", cfg.Kafka.OrderTopic)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "database:\n  host: db.internal\n")
	t.Setenv("DB_HOST", "postgres")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("KAFKA_BROKER", "kafka:29092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "kafka:29092", cfg.Kafka.Broker)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RABBITMQ_HOST=mq.internal\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("RABBITMQ_HOST") })

	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "mq.internal", cfg.RabbitMQ.Host)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "http")

	_, err := Load("config.yaml")
	assert.ErrorContains(t, err, "invalid SERVER_PORT")
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", Database: "d"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", c.DSN())
	assert.Equal(t, "amqp://g:s@mq:5672/", RabbitMQConfig{Host: "mq", Port: 5672, User: "g", Password: "s"}.URL())
}
