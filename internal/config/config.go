package config

import (
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ConfidenceWeights tunes the classifier's confidence formula. The first
// three weights sum to the nominal 1.0; the multi-column bonus is additive
// and the final score is capped at 1.0.
type ConfidenceWeights struct {
	YearPresence     float64 `yaml:"year_presence" mapstructure:"year_presence"`
	YearCount        float64 `yaml:"year_count" mapstructure:"year_count"`
	Content          float64 `yaml:"content" mapstructure:"content"`
	MultiColumnBonus float64 `yaml:"multi_column_bonus" mapstructure:"multi_column_bonus"`
}

// YearRange bounds which 4-digit tokens count as reporting years.
type YearRange struct {
	Min int `yaml:"min" mapstructure:"min"`
	Max int `yaml:"max" mapstructure:"max"`
}

// EngineConfig is the full tunable surface of the consolidation engine.
// It is passed into constructors explicitly; nothing in the engine reads
// package-level state, so parallel per-company runs cannot interfere.
type EngineConfig struct {
	ConfidenceThreshold float64           `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	Weights             ConfidenceWeights `yaml:"confidence_weights" mapstructure:"confidence_weights"`
	FinancialKeywords   []string          `yaml:"financial_keywords" mapstructure:"financial_keywords"`
	SynonymTable        map[string]string `yaml:"synonym_table" mapstructure:"synonym_table"`
	SynonymFile         string            `yaml:"synonym_file" mapstructure:"synonym_file"`
	YearRange           YearRange         `yaml:"year_range" mapstructure:"year_range"`
}

// BatchConfig bounds the per-company worker pool. Each company's full row
// set must fit in memory through the merge barrier, so the limit caps peak
// memory rather than throughput.
type BatchConfig struct {
	MaxConcurrentCompanies int `yaml:"max_concurrent_companies" mapstructure:"max_concurrent_companies"`
}

// StoreConfig configures run-report persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// defaultKeywords is the financial vocabulary used for content scoring when
// the config file supplies none.
var defaultKeywords = []string{
	"revenue", "income", "assets", "liabilities", "equity", "cash",
	"operating", "gross margin", "net income", "total revenue",
	"cost of revenue", "earnings", "sales", "expenses", "margin",
	"balance sheet", "income statement", "cash flow", "comprehensive income",
}

// defaultSynonyms maps canonical-label aliases seen across filing years.
// The table is data, not code; extend it via engine.synonym_file.
var defaultSynonyms = map[string]string{
	"total revenues":             "total revenue",
	"net revenues":               "net revenue",
	"total stockholders equity":  "total shareholders equity",
	"stockholders equity":        "shareholders equity",
	"net income loss":            "net income",
	"provision for income taxes": "income tax expense",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("STATEMENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("engine.confidence_threshold", 0.6)
	v.SetDefault("engine.confidence_weights.year_presence", 0.5)
	v.SetDefault("engine.confidence_weights.year_count", 0.4)
	v.SetDefault("engine.confidence_weights.content", 0.1)
	v.SetDefault("engine.confidence_weights.multi_column_bonus", 0.1)
	v.SetDefault("engine.financial_keywords", defaultKeywords)
	v.SetDefault("engine.year_range.min", 1900)
	v.SetDefault("engine.year_range.max", 2099)
	v.SetDefault("batch.max_concurrent_companies", 5)
	v.SetDefault("store.path", "statements.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Engine.SynonymTable == nil {
		cfg.Engine.SynonymTable = make(map[string]string)
	}
	for alias, canonical := range defaultSynonyms {
		if _, ok := cfg.Engine.SynonymTable[alias]; !ok {
			cfg.Engine.SynonymTable[alias] = canonical
		}
	}
	if cfg.Engine.SynonymFile != "" {
		if err := loadSynonymFile(cfg.Engine.SynonymFile, cfg.Engine.SynonymTable); err != nil {
			return nil, err
		}
	}

	if err := ValidateEngine(cfg.Engine); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadSynonymFile merges alias -> canonical pairs from a YAML file into the
// synonym table. File entries win over defaults.
func loadSynonymFile(path string, table map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "config: read synonym file")
	}
	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return eris.Wrap(err, "config: parse synonym file")
	}
	for alias, canonical := range extra {
		table[strings.ToLower(strings.TrimSpace(alias))] = strings.ToLower(strings.TrimSpace(canonical))
	}
	return nil
}

// ValidateEngine checks that the engine tunables can classify at all.
// A malformed engine config is a startup error, reported once, never
// per-table.
func ValidateEngine(c EngineConfig) error {
	var errs []string

	w := c.Weights
	for name, v := range map[string]float64{
		"year_presence":      w.YearPresence,
		"year_count":         w.YearCount,
		"content":            w.Content,
		"multi_column_bonus": w.MultiColumnBonus,
	} {
		if v < 0 {
			errs = append(errs, name+" must be >= 0")
		}
	}

	sum := w.YearPresence + w.YearCount + w.Content
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	} else if math.Abs(sum-1.0) > 0.01 {
		errs = append(errs, "year_presence + year_count + content must sum to 1.0")
	}

	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		errs = append(errs, "confidence_threshold must be in [0,1]")
	}
	if len(c.FinancialKeywords) == 0 {
		errs = append(errs, "financial_keywords must not be empty")
	}
	if c.YearRange.Min <= 0 || c.YearRange.Max < c.YearRange.Min {
		errs = append(errs, "year_range must satisfy 0 < min <= max")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: engine validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
