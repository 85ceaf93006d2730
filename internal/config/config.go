package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	LogLevel   string `mapstructure:"log_level"`
	DBPath     string `mapstructure:"db_path"`
	MaxPlayers int    `mapstructure:"max_players"`
	WinPoints  int    `mapstructure:"win_points"`
	DrawPoints int    `mapstructure:"draw_points"`
	LosePoints int    `mapstructure:"lose_points"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("db_path", "champ.db")
	v.SetDefault("max_players", 64)
	v.SetDefault("win_points", 3)
	v.SetDefault("draw_points", 1)
	v.SetDefault("lose_points", 0)
}

// Load reads app_config.json from the given directories. A missing file
// is fine; every key falls back to its default and may be overridden by a
// CHAMP_ prefixed environment variable.
func Load(paths ...string) (*AppConfig, error) {
	v := viper.New()

	v.SetConfigName("app_config")
	v.SetConfigType("json")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("CHAMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if config.MaxPlayers <= 0 {
		return nil, fmt.Errorf("max_players must be positive, got %d", config.MaxPlayers)
	}

	return &config, nil
}

func InitConfig() *AppConfig {
	config, err := Load(".")
	if err != nil {
		panic(err)
	}

	return config
}
