package source

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"boardgame-catalog/internal/catalog"
)

// S3GetObjectAPI is the part of the S3 client the S3 source uses.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LambdaInvokeAPI is the part of the Lambda client the Lambda source uses.
type LambdaInvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// S3 reads the catalog JSON from a single object.
type S3 struct {
	client S3GetObjectAPI
	bucket string
	key    string
}

func NewS3(client S3GetObjectAPI, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

func (s *S3) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func (s *S3) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object: %w", err)
	}
	defer out.Body.Close()

	return catalog.DecodeRecords(out.Body)
}

// DynamoDB scans a table where each item is one game.
type DynamoDB struct {
	client dynamodb.ScanAPIClient
	table  string
}

func NewDynamoDB(client dynamodb.ScanAPIClient, table string) *DynamoDB {
	return &DynamoDB{client: client, table: table}
}

func (s *DynamoDB) Name() string {
	return "dynamodb " + s.table
}

func (s *DynamoDB) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	records := []catalog.RawRecord{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table %s: %w", s.table, err)
		}

		var items []catalog.RawRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		records = append(records, items...)
	}

	return records, nil
}

// Lambda invokes a function whose response payload is the catalog JSON.
type Lambda struct {
	client   LambdaInvokeAPI
	function string
}

func NewLambda(client LambdaInvokeAPI, function string) *Lambda {
	return &Lambda{client: client, function: function}
}

func (s *Lambda) Name() string {
	return "lambda " + s.function
}

func (s *Lambda) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	out, err := s.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(s.function),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", s.function, err)
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("function %s failed: %s: %s", s.function, aws.ToString(out.FunctionError), string(out.Payload))
	}

	return catalog.DecodeRecords(bytes.NewReader(out.Payload))
}
