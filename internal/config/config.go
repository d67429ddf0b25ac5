// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"fortinat-shop/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	Env        string        `yaml:"env" env:"APP_ENV" env-default:"local" env-description:"Environment: local, dev or prod"`
	ServerPort string        `yaml:"server_port" env:"SERVER_PORT" env-default:"8080"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
	Storage    StorageConfig `yaml:"storage"`
	Catalog    CatalogConfig `yaml:"catalog"`
}

// StorageConfig selects and configures the database.
type StorageConfig struct {
	Driver      string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres" env-description:"postgres or sqlite"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"STORAGE_AUTO_MIGRATE" env-default:"true"`
	SQLitePath  string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"fortinat-shop.db"`
	Host        string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port        int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User        string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password    string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	Name        string `yaml:"name" env:"DB_NAME" env-default:"shopdb"`
	SSLMode     string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

// CatalogConfig configures the catalog provider client.
type CatalogConfig struct {
	BaseURL  string        `yaml:"base_url" env:"CATALOG_BASE_URL" env-default:"https://fortnite-api.com/v2"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CATALOG_CACHE_TTL" env-default:"2m"`
	Timeout  time.Duration `yaml:"timeout" env:"CATALOG_TIMEOUT" env-default:"10s"`
}

// DB converts the storage section into a pkg/db configuration.
func (s StorageConfig) DB() db.Config {
	return db.Config{
		Driver:     s.Driver,
		Host:       s.Host,
		Port:       s.Port,
		User:       s.User,
		Password:   s.Password,
		DBName:     s.Name,
		SSLMode:    s.SSLMode,
		SQLitePath: s.SQLitePath,
	}
}

// LoadConfig reads the YAML file named by CONFIG_PATH when set, otherwise
// environment variables only. Environment variables override the file.
func LoadConfig() (*AppConfig, error) {
	var cfg AppConfig

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Storage.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: want %s or %s", c.Storage.Driver, db.DriverPostgres, db.DriverSQLite)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("invalid CATALOG_TIMEOUT %s", c.Catalog.Timeout)
	}
	return nil
}
