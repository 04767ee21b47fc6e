package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog source kinds understood by source.New.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourceS3       = "s3"
	SourceDynamoDB = "dynamodb"
	SourceLambda   = "lambda"
	SourcePostgres = "postgres"
)

const DefaultCatalogURL = "https://raw.githubusercontent.com/cederdorff/race/refs/heads/master/data/games.json"

type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Server
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// Catalog source
	CatalogSource       string        `mapstructure:"CATALOG_SOURCE"`
	CatalogURL          string        `mapstructure:"CATALOG_URL"`
	CatalogFile         string        `mapstructure:"CATALOG_FILE"`
	CatalogFetchTimeout time.Duration `mapstructure:"CATALOG_FETCH_TIMEOUT"`

	// AWS
	AWSRegion             string `mapstructure:"AWS_REGION"`
	CatalogS3Bucket       string `mapstructure:"CATALOG_S3_BUCKET"`
	CatalogS3Key          string `mapstructure:"CATALOG_S3_KEY"`
	CatalogDynamoDBTable  string `mapstructure:"CATALOG_DYNAMODB_TABLE"`
	CatalogLambdaFunction string `mapstructure:"CATALOG_LAMBDA_FUNCTION"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Presentation
	FeaturedGameID    int    `mapstructure:"FEATURED_GAME_ID"`
	FeaturedBadge     string `mapstructure:"FEATURED_BADGE"`
	CollationLanguage string `mapstructure:"COLLATION_LANGUAGE"`
}

func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables take precedence
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 8080)
	v.SetDefault("SHUTDOWN_TIMEOUT", time.Second*30)
	v.SetDefault("CATALOG_SOURCE", SourceHTTP)
	v.SetDefault("CATALOG_URL", DefaultCatalogURL)
	v.SetDefault("CATALOG_FILE", "")
	v.SetDefault("CATALOG_FETCH_TIMEOUT", time.Duration(0))
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("CATALOG_S3_BUCKET", "")
	v.SetDefault("CATALOG_S3_KEY", "games.json")
	v.SetDefault("CATALOG_DYNAMODB_TABLE", "")
	v.SetDefault("CATALOG_LAMBDA_FUNCTION", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("FEATURED_GAME_ID", 17)
	v.SetDefault("FEATURED_BADGE", "Game of the week")
	v.SetDefault("COLLATION_LANGUAGE", "da")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK if we're using env vars
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.CatalogSource = strings.ToLower(strings.TrimSpace(config.CatalogSource))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the selected catalog source has what it needs.
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case SourceHTTP:
		if c.CatalogURL == "" {
			return fmt.Errorf("CATALOG_URL is required for the http source")
		}
	case SourceFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("CATALOG_FILE is required for the file source")
		}
	case SourceS3:
		if c.CatalogS3Bucket == "" {
			return fmt.Errorf("CATALOG_S3_BUCKET is required for the s3 source")
		}
	case SourceDynamoDB:
		if c.CatalogDynamoDBTable == "" {
			return fmt.Errorf("CATALOG_DYNAMODB_TABLE is required for the dynamodb source")
		}
	case SourceLambda:
		if c.CatalogLambdaFunction == "" {
			return fmt.Errorf("CATALOG_LAMBDA_FUNCTION is required for the lambda source")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}

	if c.Port <= 0 {
		return fmt.Errorf("PORT must be positive")
	}
	return nil
}
