package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AWSConfig bundles the service clients the catalog sources read from.
type AWSConfig struct {
	Region   string
	Config   aws.Config
	DynamoDB *dynamodb.Client
	S3       *s3.Client
	Lambda   *lambda.Client
}

func NewAWSConfig(ctx context.Context, region string) (*AWSConfig, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &AWSConfig{
		Region:   region,
		Config:   cfg,
		DynamoDB: dynamodb.NewFromConfig(cfg),
		S3:       s3.NewFromConfig(cfg),
		Lambda:   lambda.NewFromConfig(cfg),
	}, nil
}
