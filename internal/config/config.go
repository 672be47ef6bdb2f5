package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the client and the development server.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

// APIConfig points the client at the REST backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeocoderConfig points at the external place-search service.
type GeocoderConfig struct {
	URL       string `mapstructure:"url"`
	UserAgent string `mapstructure:"user_agent"`
}

// StorageConfig selects where the token and cached user are persisted.
// An empty path keeps them in memory only.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// JWTConfig is only read by the development server.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// DefaultTimeout is the per-request limit of the api client.
const DefaultTimeout = 10 * time.Second

// LoadConfig reads configuration from path/config.yaml and the environment.
// Variables in path/.env are exported first without overriding ones that
// are already set. Missing files are not an error.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return
	}
	err = nil

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// api.base_url -> API_BASE_URL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", DefaultTimeout.String())
	v.SetDefault("geocoder.url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "fitness-client/1.0")
	v.SetDefault("storage.path", "")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if config.API.Timeout <= 0 {
		config.API.Timeout = DefaultTimeout
	}
	return config, nil
}
