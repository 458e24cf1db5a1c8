package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
//
// Environment variables use the CARDGRAPH_ prefix with underscores for
// nesting, e.g. CARDGRAPH_DATA_DIR, CARDGRAPH_LOG_LEVEL,
// CARDGRAPH_HOMEPAGE_ROW_SIZE.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults mirror the behavior of the original system: eight sets per
	// row, six featured creators, non-cyclic navigation.
	v.SetDefault("data.dir", "data")
	v.SetDefault("log.level", "info")
	v.SetDefault("homepage.rows", []string{"featured", "popular"})
	v.SetDefault("homepage.row_size", 8)
	v.SetDefault("homepage.min_row_members", 3)
	v.SetDefault("homepage.creator_rail_size", 6)
	v.SetDefault("navigation.cyclic", false)

	// Optional config file alongside the binary or in the working
	// directory; absence is not an error.
	v.SetConfigName("cardgraph")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables take precedence.
	v.SetEnvPrefix("CARDGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
