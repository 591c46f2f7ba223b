package config

import (
	"energy_predictor/internal/predictor"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Split     SplitConfig     `mapstructure:"split"`
	Estimator EstimatorConfig `mapstructure:"estimator"`
	Output    OutputConfig    `mapstructure:"output"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

type AppConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Mode     string `mapstructure:"mode" validate:"oneof=development production"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
}

type DatasetConfig struct {
	Path            string   `mapstructure:"path" validate:"required"`
	Delimiter       string   `mapstructure:"delimiter" validate:"len=1"`
	MissingTokens   []string `mapstructure:"missing_tokens"`
	DatetimeLayouts []string `mapstructure:"datetime_layouts" validate:"min=1,dive,required"`
	PreviewRows     int      `mapstructure:"preview_rows" validate:"gte=0"`
}

// DelimiterRune returns the field delimiter as a rune.
func (d DatasetConfig) DelimiterRune() rune {
	for _, r := range d.Delimiter {
		return r
	}
	return ','
}

type SplitConfig struct {
	TestRatio float64 `mapstructure:"test_ratio" validate:"gte=0,lt=1"`
	Seed      uint64  `mapstructure:"seed"`
}

type EstimatorConfig struct {
	Type   string       `mapstructure:"type" validate:"oneof=forest linear mlp"`
	Seed   uint64       `mapstructure:"seed"`
	Forest ForestConfig `mapstructure:"forest"`
	MLP    MLPConfig    `mapstructure:"mlp"`
}

type ForestConfig struct {
	Trees          int `mapstructure:"trees" validate:"gte=1"`
	MaxDepth       int `mapstructure:"max_depth" validate:"gte=0"`
	MinSamplesLeaf int `mapstructure:"min_samples_leaf" validate:"gte=1"`
}

type MLPConfig struct {
	Hidden       []int   `mapstructure:"hidden" validate:"min=1,dive,gte=1"`
	Epochs       int     `mapstructure:"epochs" validate:"gte=1"`
	LearningRate float64 `mapstructure:"learning_rate" validate:"gt=0"`
	BatchSize    int     `mapstructure:"batch_size" validate:"gte=1"`
}

// Predictor converts the estimator section into a predictor.Config.
func (e EstimatorConfig) Predictor() predictor.Config {
	train := predictor.DefaultTrainConfig()
	train.Epochs = e.MLP.Epochs
	train.LearningRate = e.MLP.LearningRate
	train.BatchSize = e.MLP.BatchSize

	return predictor.Config{
		Type: e.Type,
		Seed: e.Seed,
		Forest: predictor.ForestConfig{
			Trees:          e.Forest.Trees,
			MaxDepth:       e.Forest.MaxDepth,
			MinSamplesLeaf: e.Forest.MinSamplesLeaf,
		},
		MLP: predictor.MLPConfig{
			Hidden:      append([]int(nil), e.MLP.Hidden...),
			TrainConfig: train,
		},
	}
}

type OutputConfig struct {
	Predictions string `mapstructure:"predictions" validate:"required,nefield=Model"`
	Model       string `mapstructure:"model" validate:"required"`
	// Workbook and MetricsFile are written only when set.
	Workbook    string `mapstructure:"workbook"`
	MetricsFile string `mapstructure:"metrics_file"`
}

type DashboardConfig struct {
	Addr        string `mapstructure:"addr" validate:"required"`
	Predictions string `mapstructure:"predictions" validate:"required"`
	StaticDir   string `mapstructure:"static_dir"`
	MaxPoints   int    `mapstructure:"max_points" validate:"gte=1"`
}
