package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "lesson-order-placed", cfg.Infra.Kafka.OrderPlacedTopic)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson-service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 9090
store:
  driver: redis
infra:
  redis:
    addrs: ["redis-a:6379"]
  zookeeper:
    servers: ["zk:2181"]
    sessionTimeout: 5s
`), 0o600))

	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Store.OrderDriver())
	assert.Equal(t, []string{"redis-a:6379"}, cfg.Infra.Redis.Addrs)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Infra.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Infra.Zookeeper.SessionTimeout)
	// 文件中没有写的字段保留默认值
	assert.Equal(t, "lessonhub", cfg.Infra.Mysql.Database)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestStoreConfig_OrderDriver(t *testing.T) {
	assert.Equal(t, "mysql", StoreConfig{Driver: "mysql"}.OrderDriver())
	assert.Equal(t, "memory", StoreConfig{Driver: "redis"}.OrderDriver())
	assert.Equal(t, "mysql", StoreConfig{Driver: "redis", Orders: "mysql"}.OrderDriver())
}

func TestLoadConfig_BadPort(t *testing.T) {
	t.Setenv("PORT", "http")
	_, err := LoadConfig("")
	assert.Error(t, err)
}
