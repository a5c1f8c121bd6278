package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Log        LogConfig
	CORS       CORSConfig
	Extraction ExtractionConfig
	Validation ValidationConfig
	Batch      BatchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractionConfig holds the layout and candidate-finding thresholds.
// Every value has a default and may be overridden per extraction request.
type ExtractionConfig struct {
	// LineHeightFactor scales the median token height on a page into the
	// vertical-center tolerance for grouping tokens onto one line.
	LineHeightFactor float64 `mapstructure:"line_height_factor" json:"line_height_factor"`

	// BlockBreakFactor scales the median line height into the vertical gap
	// that starts a new block.
	BlockBreakFactor float64 `mapstructure:"block_break_factor" json:"block_break_factor"`

	// IndentationJump is the left-edge shift (page-normalized) that starts
	// a new block even without a vertical gap.
	IndentationJump float64 `mapstructure:"indentation_jump" json:"indentation_jump"`

	// Per-heuristic weights.
	KeywordWeight    float64 `mapstructure:"keyword_weight" json:"keyword_weight"`
	PatternWeight    float64 `mapstructure:"pattern_weight" json:"pattern_weight"`
	PositionalWeight float64 `mapstructure:"positional_weight" json:"positional_weight"`

	// SearchRadius bounds keyword-anchored value lookup, in page-normalized
	// units. Proximity decay reaches zero at this distance.
	SearchRadius float64 `mapstructure:"search_radius" json:"search_radius"`

	// LineItemMinScore is the minimum score for a line-item candidate to
	// survive resolution.
	LineItemMinScore float64 `mapstructure:"line_item_min_score" json:"line_item_min_score"`
}

// ValidationConfig holds the arithmetic consistency tolerance policy.
// The effective tolerance is max(Epsilon, Percent*total); both knobs are
// explicit here so the policy is never hardcoded invisibly.
type ValidationConfig struct {
	Epsilon   float64 `mapstructure:"epsilon" json:"epsilon"`
	Percent   float64 `mapstructure:"percent" json:"percent"`
	Precision int32   `mapstructure:"precision" json:"precision"`
}

// BatchConfig holds settings for concurrent multi-document processing.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// DefaultExtraction returns the default extraction thresholds.
func DefaultExtraction() ExtractionConfig {
	return ExtractionConfig{
		LineHeightFactor: 0.5,
		BlockBreakFactor: 1.5,
		IndentationJump:  0.15,
		KeywordWeight:    1.0,
		PatternWeight:    0.6,
		PositionalWeight: 0.5,
		SearchRadius:     0.35,
		LineItemMinScore: 0.4,
	}
}

// DefaultValidation returns the default tolerance policy: two-decimal
// precision, consistent when the discrepancy is within the larger of an
// absolute 0.02 and 1% of the total.
func DefaultValidation() ValidationConfig {
	return ValidationConfig{
		Epsilon:   0.02,
		Percent:   0.01,
		Precision: 2,
	}
}

// Load reads configuration from environment variables with the DOCINTEL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docintel")
	v.SetDefault("db.password", "docintel_secret")
	v.SetDefault("db.name", "docintel_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extraction defaults
	ext := DefaultExtraction()
	v.SetDefault("extraction.line_height_factor", ext.LineHeightFactor)
	v.SetDefault("extraction.block_break_factor", ext.BlockBreakFactor)
	v.SetDefault("extraction.indentation_jump", ext.IndentationJump)
	v.SetDefault("extraction.keyword_weight", ext.KeywordWeight)
	v.SetDefault("extraction.pattern_weight", ext.PatternWeight)
	v.SetDefault("extraction.positional_weight", ext.PositionalWeight)
	v.SetDefault("extraction.search_radius", ext.SearchRadius)
	v.SetDefault("extraction.line_item_min_score", ext.LineItemMinScore)

	// Validation defaults
	val := DefaultValidation()
	v.SetDefault("validation.epsilon", val.Epsilon)
	v.SetDefault("validation.percent", val.Percent)
	v.SetDefault("validation.precision", int(val.Precision))

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "DOCINTEL_SERVER_PORT",
		"server.read_timeout":            "DOCINTEL_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "DOCINTEL_SERVER_WRITE_TIMEOUT",
		"server.environment":             "DOCINTEL_SERVER_ENVIRONMENT",
		"db.host":                        "DOCINTEL_DB_HOST",
		"db.port":                        "DOCINTEL_DB_PORT",
		"db.user":                        "DOCINTEL_DB_USER",
		"db.password":                    "DOCINTEL_DB_PASSWORD",
		"db.name":                        "DOCINTEL_DB_NAME",
		"db.sslmode":                     "DOCINTEL_DB_SSLMODE",
		"db.max_open":                    "DOCINTEL_DB_MAX_OPEN",
		"db.max_idle":                    "DOCINTEL_DB_MAX_IDLE",
		"log.level":                      "DOCINTEL_LOG_LEVEL",
		"log.format":                     "DOCINTEL_LOG_FORMAT",
		"cors.allowed_origins":           "DOCINTEL_CORS_ALLOWED_ORIGINS",
		"extraction.line_height_factor":  "DOCINTEL_EXTRACTION_LINE_HEIGHT_FACTOR",
		"extraction.block_break_factor":  "DOCINTEL_EXTRACTION_BLOCK_BREAK_FACTOR",
		"extraction.indentation_jump":    "DOCINTEL_EXTRACTION_INDENTATION_JUMP",
		"extraction.keyword_weight":      "DOCINTEL_EXTRACTION_KEYWORD_WEIGHT",
		"extraction.pattern_weight":      "DOCINTEL_EXTRACTION_PATTERN_WEIGHT",
		"extraction.positional_weight":   "DOCINTEL_EXTRACTION_POSITIONAL_WEIGHT",
		"extraction.search_radius":       "DOCINTEL_EXTRACTION_SEARCH_RADIUS",
		"extraction.line_item_min_score": "DOCINTEL_EXTRACTION_LINE_ITEM_MIN_SCORE",
		"validation.epsilon":             "DOCINTEL_VALIDATION_EPSILON",
		"validation.percent":             "DOCINTEL_VALIDATION_PERCENT",
		"validation.precision":           "DOCINTEL_VALIDATION_PRECISION",
		"batch.concurrency":              "DOCINTEL_BATCH_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCINTEL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCINTEL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Extraction = ExtractionConfig{
		LineHeightFactor: v.GetFloat64("extraction.line_height_factor"),
		BlockBreakFactor: v.GetFloat64("extraction.block_break_factor"),
		IndentationJump:  v.GetFloat64("extraction.indentation_jump"),
		KeywordWeight:    v.GetFloat64("extraction.keyword_weight"),
		PatternWeight:    v.GetFloat64("extraction.pattern_weight"),
		PositionalWeight: v.GetFloat64("extraction.positional_weight"),
		SearchRadius:     v.GetFloat64("extraction.search_radius"),
		LineItemMinScore: v.GetFloat64("extraction.line_item_min_score"),
	}
	cfg.Validation = ValidationConfig{
		Epsilon:   v.GetFloat64("validation.epsilon"),
		Percent:   v.GetFloat64("validation.percent"),
		Precision: int32(v.GetInt("validation.precision")),
	}
	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
	}

	return cfg, nil
}
