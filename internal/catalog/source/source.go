// Package source provides the catalog collaborators that fetch the raw game
// list: a JSON URL, a local file, an S3 object, a DynamoDB table, a Lambda
// function or a Postgres table.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"boardgame-catalog/config"
	"boardgame-catalog/internal/catalog"
	"boardgame-catalog/internal/infrastructure/aws"
)

var (
	ErrUnknownKind = errors.New("unknown catalog source")
	ErrBadStatus   = errors.New("unexpected response status")
)

// New builds the source selected by cfg.CatalogSource.
func New(ctx context.Context, cfg *config.Config) (catalog.Source, error) {
	switch cfg.CatalogSource {
	case config.SourceHTTP, "":
		return NewHTTP(cfg.CatalogURL, &http.Client{Timeout: cfg.CatalogFetchTimeout}), nil
	case config.SourceFile:
		return NewFile(cfg.CatalogFile), nil
	case config.SourcePostgres:
		return NewPostgres(cfg.DatabaseURL), nil
	case config.SourceS3, config.SourceDynamoDB, config.SourceLambda:
		awsCfg, err := aws.NewAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		switch cfg.CatalogSource {
		case config.SourceS3:
			return NewS3(awsCfg.S3, cfg.CatalogS3Bucket, cfg.CatalogS3Key), nil
		case config.SourceDynamoDB:
			return NewDynamoDB(awsCfg.DynamoDB, cfg.CatalogDynamoDBTable), nil
		default:
			return NewLambda(awsCfg.Lambda, cfg.CatalogLambdaFunction), nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.CatalogSource)
	}
}
