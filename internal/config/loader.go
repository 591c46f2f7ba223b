package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional YAML file and
// ENERGY_-prefixed environment variables, then validates it.
// With configPath empty, config.yaml is looked up in . and ./configs;
// its absence is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("ENERGY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults do not unmarshal: %v", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "energy-predictor")
	v.SetDefault("app.mode", "production")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("dataset.path", "energy.csv")
	v.SetDefault("dataset.delimiter", ",")
	v.SetDefault("dataset.missing_tokens", []string{"", "?", "NA", "NaN", "nan"})
	v.SetDefault("dataset.datetime_layouts", []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2/1/2006 15:04:05",
		"2/1/2006 15:04",
	})
	v.SetDefault("dataset.preview_rows", 5)

	v.SetDefault("split.test_ratio", 0.2)
	v.SetDefault("split.seed", 42)

	v.SetDefault("estimator.type", "forest")
	v.SetDefault("estimator.seed", 42)
	v.SetDefault("estimator.forest.trees", 100)
	v.SetDefault("estimator.forest.max_depth", 0)
	v.SetDefault("estimator.forest.min_samples_leaf", 1)
	v.SetDefault("estimator.mlp.hidden", []int{32, 16})
	v.SetDefault("estimator.mlp.epochs", 200)
	v.SetDefault("estimator.mlp.learning_rate", 0.005)
	v.SetDefault("estimator.mlp.batch_size", 64)

	v.SetDefault("output.predictions", "predictions.csv")
	v.SetDefault("output.model", "energy_model.json")
	v.SetDefault("output.workbook", "")
	v.SetDefault("output.metrics_file", "")

	v.SetDefault("dashboard.addr", ":8080")
	v.SetDefault("dashboard.predictions", "predictions.csv")
	v.SetDefault("dashboard.static_dir", "")
	v.SetDefault("dashboard.max_points", 50)
}
