package config

import (
	"costdb/pkg/logging"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// MaxJoinsLimit is the largest number of join conditions the optimizer can
// enumerate: plan-cache keys are 64-bit subset masks.
const MaxJoinsLimit = 64

// Config is the top-level costdb configuration.
type Config struct {
	Log        LogConfig        `toml:"log" json:"log"`
	Statistics StatisticsConfig `toml:"statistics" json:"statistics"`
	Optimizer  OptimizerConfig  `toml:"optimizer" json:"optimizer"`
}

// LogConfig is the [log] section.
type LogConfig struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
	File   string `toml:"file" json:"file"`
}

// StatisticsConfig controls how table statistics are collected.
type StatisticsConfig struct {
	// HistogramBuckets is the bucket count of every per-column and joint
	// histogram.
	HistogramBuckets int `toml:"histogram-buckets" json:"histogram-buckets"`
	// IOCostPerPage is the cost of reading one page during a sequential scan.
	IOCostPerPage float64 `toml:"io-cost-per-page" json:"io-cost-per-page"`
	// BuildConcurrency bounds the number of tables scanned at once.
	BuildConcurrency int `toml:"build-concurrency" json:"build-concurrency"`
	// JointHistograms enables the pairwise join-column histograms.
	JointHistograms bool `toml:"joint-histograms" json:"joint-histograms"`
}

// OptimizerConfig controls join ordering.
type OptimizerConfig struct {
	MaxJoins int  `toml:"max-joins" json:"max-joins"`
	Explain  bool `toml:"explain" json:"explain"`
}

var defaultConf = Config{
	Log: LogConfig{
		Level:  "info",
		Format: "text",
	},
	Statistics: StatisticsConfig{
		HistogramBuckets: 100,
		IOCostPerPage:    1000,
		BuildConcurrency: 4,
		JointHistograms:  true,
	},
	Optimizer: OptimizerConfig{
		MaxJoins: 16,
	},
}

// NewConfig creates a new config instance with default values.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// Load loads config options from a toml file. Keys the file sets override
// the current values; unknown keys are rejected.
func (c *Config) Load(confFile string) error {
	meta, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return errors.Wrapf(err, "load config %s", confFile)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return errors.Errorf("unknown keys in config file %s: %s", confFile, strings.Join(keys, ", "))
	}
	return c.Valid()
}

// Valid checks that every option is within its accepted range.
func (c *Config) Valid() error {
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, expected text or json", c.Log.Format)
	}
	if c.Statistics.HistogramBuckets < 1 {
		return fmt.Errorf("histogram-buckets must be positive, got %d", c.Statistics.HistogramBuckets)
	}
	if c.Statistics.IOCostPerPage < 0 {
		return fmt.Errorf("io-cost-per-page must be non-negative, got %v", c.Statistics.IOCostPerPage)
	}
	if c.Statistics.BuildConcurrency < 1 {
		return fmt.Errorf("build-concurrency must be positive, got %d", c.Statistics.BuildConcurrency)
	}
	if c.Optimizer.MaxJoins < 1 || c.Optimizer.MaxJoins > MaxJoinsLimit {
		return fmt.Errorf("max-joins must be in [1, %d], got %d", MaxJoinsLimit, c.Optimizer.MaxJoins)
	}
	return nil
}

// ToLogConfig converts the [log] section into a logging.Config.
func (l *LogConfig) ToLogConfig() logging.Config {
	return logging.Config{
		Level:      logging.LogLevel(strings.ToUpper(l.Level)),
		OutputPath: l.File,
		Format:     strings.ToLower(l.Format),
	}
}
