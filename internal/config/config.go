// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Board      BoardConfig      `mapstructure:"board"`
	Client     ClientConfig     `mapstructure:"client"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MinConnections int           `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" или "localstore"
}

// BoardConfig хранит общий PIN записи.
type BoardConfig struct {
	Pin string `mapstructure:"pin"`
}

// ClientConfig задаёт настройки клиента доски (cmd/board).
type ClientConfig struct {
	APIURL  string `mapstructure:"api_url"`
	DataDir string `mapstructure:"data_dir"`
}

const DefaultPin = "696969"

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", "postgres")
	v.SetDefault("board.pin", DefaultPin)
	v.SetDefault("client.api_url", "http://localhost:8080")
	v.SetDefault("client.data_dir", ".taskboard")

	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// без config.yml работаем на значениях по умолчанию и переменных окружения
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("чтение config.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	return &cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
