// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是服务的完整配置。先读 YAML 文件, 再用环境变量覆盖。
type Config struct {
	App   AppConfig   `yaml:"app"`
	Store StoreConfig `yaml:"store"`
	Infra InfraConfig `yaml:"infra"`
}

type AppConfig struct {
	ServiceName string `yaml:"serviceName"`
	Port        int    `yaml:"port"`
	LogLevel    string `yaml:"logLevel"`
	// SeedOnStart 为 true 时启动后立即写入示例目录
	SeedOnStart bool `yaml:"seedOnStart"`
}

// StoreConfig 选择存储实现。
// Driver 决定课程库存: mysql / redis / memory;
// Orders 决定订单: mysql / memory, 为空时 Driver 为 mysql 则用 mysql, 否则用 memory。
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Orders string `yaml:"orders"`
}

// OrderDriver 返回订单实际使用的存储
func (s StoreConfig) OrderDriver() string {
	if s.Orders != "" {
		return s.Orders
	}
	if s.Driver == "mysql" {
		return "mysql"
	}
	return "memory"
}

type InfraConfig struct {
	Mysql     MysqlConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Nacos     NacosConfig     `yaml:"nacos"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
}

type MysqlConfig struct {
	Addr            string        `yaml:"addr"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
}

type KafkaConfig struct {
	Brokers          []string `yaml:"brokers"`
	OrderPlacedTopic string   `yaml:"orderPlacedTopic"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type NacosConfig struct {
	ServerAddrs string `yaml:"serverAddrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

type ZookeeperConfig struct {
	Servers        []string      `yaml:"servers"`
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
}

// DefaultConfig 是不依赖任何外部组件的配置, 适合本地开发。
func DefaultConfig() Config {
	return Config{
		App:   AppConfig{ServiceName: "lesson-service", Port: 8080, LogLevel: "info"},
		Store: StoreConfig{Driver: "memory"},
		Infra: InfraConfig{
			Mysql: MysqlConfig{
				Addr:            "localhost:3306",
				User:            "root",
				Database:        "lessonhub",
				MaxOpenConns:    20,
				MaxIdleConns:    5,
				ConnMaxLifetime: 30 * time.Minute,
			},
			Kafka:     KafkaConfig{OrderPlacedTopic: "lesson-order-placed"},
			Nacos:     NacosConfig{Group: "DEFAULT_GROUP"},
			Zookeeper: ZookeeperConfig{SessionTimeout: 10 * time.Second},
		},
	}
}

// LoadConfig 读取 path 指向的 YAML 文件 (为空时只用默认值), 然后应用环境变量。
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "mysql", "redis", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Store.OrderDriver() {
	case "mysql", "memory":
	default:
		return fmt.Errorf("unknown order store %q", c.Store.Orders)
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.App.Port)
	}
	if c.Store.Driver == "redis" && len(c.Infra.Redis.Addrs) == 0 {
		return fmt.Errorf("store driver redis requires infra.redis.addrs")
	}
	return nil
}

func applyEnv(c *Config) error {
	c.App.ServiceName = getEnv("SERVICE_NAME", c.App.ServiceName)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Orders = getEnv("ORDER_STORE", c.Store.Orders)

	c.Infra.Mysql.Addr = getEnv("MYSQL_ADDR", c.Infra.Mysql.Addr)
	c.Infra.Mysql.User = getEnv("MYSQL_USER", c.Infra.Mysql.User)
	c.Infra.Mysql.Password = getEnv("MYSQL_PASSWORD", c.Infra.Mysql.Password)
	c.Infra.Mysql.Database = getEnv("MYSQL_DATABASE", c.Infra.Mysql.Database)

	c.Infra.Redis.Addrs = getEnvList("REDIS_ADDRS", c.Infra.Redis.Addrs)
	c.Infra.Redis.Password = getEnv("REDIS_PASSWORD", c.Infra.Redis.Password)

	c.Infra.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Infra.Kafka.Brokers)
	c.Infra.Kafka.OrderPlacedTopic = getEnv("KAFKA_ORDER_PLACED_TOPIC", c.Infra.Kafka.OrderPlacedTopic)

	c.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", c.Infra.Jaeger.Endpoint)

	c.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", c.Infra.Nacos.ServerAddrs)
	c.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", c.Infra.Nacos.Namespace)
	c.Infra.Nacos.Group = getEnv("NACOS_GROUP", c.Infra.Nacos.Group)

	c.Infra.Zookeeper.Servers = getEnvList("ZOOKEEPER_SERVERS", c.Infra.Zookeeper.Servers)

	if v, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.App.Port = port
	}
	if v, ok := os.LookupEnv("SEED_ON_START"); ok {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SEED_ON_START %q: %w", v, err)
		}
		c.App.SeedOnStart = seed
	}
	return nil
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvList 读取逗号分隔的列表
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
