// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/warebridge/hcat-ingress/pkg/schema"
)

// Config represents the import session configuration.
type Config struct {
	// Source database and query
	Source *SourceConfig

	// Target schema metadata
	Schema *SchemaConfig

	// Large-object resolution
	LOB *LOBConfig

	// Conversion settings
	BigDecimalFormatString bool // plain decimal-to-string rendering
	DebugImport            bool // per-field conversion logging

	// Harness settings
	WorkerPoolSize int // 0 means one worker per CPU
	OutputPath     string

	// Logging
	LogLevel  string
	LogFormat string
}

// SourceConfig selects and parameterizes the source database.
type SourceConfig struct {
	Driver string // "postgres" or "snowflake"

	Postgres  *PostgresConfig
	Snowflake *SnowflakeConfig

	// Query drives a single-partition import; PartitionQueries fan the
	// import out across independent execution units.
	Query            string
	PartitionQueries []string

	KeyColumn      string
	DecimalColumns []string // columns scanned as arbitrary-precision decimals
	DateColumns    []string // columns scanned as dates rather than timestamps
}

// LOBConfig parameterizes large-object materialization.
type LOBConfig struct {
	Dir            string
	InlineMaxBytes int64 // larger payloads stay external
}

// SchemaConfig carries the externally supplied column metadata, each entry
// in name:type form.
type SchemaConfig struct {
	DataColumns      []string
	PartitionColumns []string
}

// Fields parses the column metadata into schema field lists.
func (sc *SchemaConfig) Fields() (data, partition []schema.Field, err error) {
	data, err = parseFields(sc.DataColumns)
	if err != nil {
		return nil, nil, fmt.Errorf("data columns: %w", err)
	}
	partition, err = parseFields(sc.PartitionColumns)
	if err != nil {
		return nil, nil, fmt.Errorf("partition columns: %w", err)
	}
	return data, partition, nil
}

func parseFields(cols []string) ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(cols))
	for _, col := range cols {
		name, typeName, ok := strings.Cut(col, ":")
		if !ok {
			return nil, fmt.Errorf("column %q is not in name:type form", col)
		}
		t, err := schema.ParseFieldType(typeName)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		fields = append(fields, schema.NewField(strings.TrimSpace(name), t))
	}
	return fields, nil
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Schema: &SchemaConfig{
			DataColumns:      getEnvAsStringSlice("SCHEMA_DATA_COLUMNS", nil),
			PartitionColumns: getEnvAsStringSlice("SCHEMA_PARTITION_COLUMNS", nil),
		},
		LOB: &LOBConfig{
			Dir:            getEnv("LOB_DIR", ""),
			InlineMaxBytes: getEnvAsInt64("LOB_INLINE_MAX_BYTES", 16*1024*1024),
		},
		BigDecimalFormatString: getEnvAsBool("BIGDECIMAL_FORMAT_STRING", true),
		DebugImport:            getEnvAsBool("DEBUG_IMPORT", false),
		WorkerPoolSize:         getEnvAsInt("WORKER_POOL_SIZE", 0),
		OutputPath:             getEnv("OUTPUT_PATH", "converted.jsonl"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
	}

	source, err := LoadSourceConfig()
	if err != nil {
		return nil, errors.New("failed to load source configuration: " + err.Error())
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadSourceConfig loads the source database configuration for the
// selected driver.
func LoadSourceConfig() (*SourceConfig, error) {
	cfg := &SourceConfig{
		Driver:           getEnv("SOURCE_DRIVER", "postgres"),
		Query:            getEnv("SOURCE_QUERY", ""),
		PartitionQueries: getEnvAsStringSlice("SOURCE_PARTITION_QUERIES", nil),
		KeyColumn:        getEnv("SOURCE_KEY_COLUMN", "id"),
		DecimalColumns:   getEnvAsStringSlice("SOURCE_DECIMAL_COLUMNS", nil),
		DateColumns:      getEnvAsStringSlice("SOURCE_DATE_COLUMNS", nil),
	}

	switch cfg.Driver {
	case "postgres":
		pg, err := LoadPostgresConfig()
		if err != nil {
			return nil, err
		}
		cfg.Postgres = pg
	case "snowflake":
		sf, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, err
		}
		cfg.Snowflake = sf
	default:
		return nil, fmt.Errorf("unsupported source driver: %q", cfg.Driver)
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Source == nil {
		return errors.New("source configuration is required")
	}

	if c.Source.Query == "" && len(c.Source.PartitionQueries) == 0 {
		return errors.New("a source query or partition queries are required")
	}

	if len(c.Schema.DataColumns) == 0 {
		return errors.New("schema data columns are required")
	}

	if c.WorkerPoolSize < 0 {
		return errors.New("worker pool size cannot be negative")
	}

	if c.LOB.InlineMaxBytes < 0 {
		return errors.New("LOB inline threshold cannot be negative")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsStringSlice parses a comma-separated list, trimming whitespace
// and dropping empty entries.
func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}
	return result
}
