package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"boardgame-catalog/internal/catalog"
)

// maxBatchSize is the BatchWriteItem request limit.
const maxBatchSize = 25

const maxUnprocessedRetries = 5

const tableReadyTimeout = 2 * time.Minute

var ErrUnprocessed = errors.New("items left unprocessed")

// GenreIndex is the secondary index that groups games by genre.
const GenreIndex = "genre_games"

// TableAPI is the part of the DynamoDB client the catalog table needs.
type TableAPI interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	dynamodb.DescribeTableAPIClient
}

// Item is a catalog record as stored in DynamoDB. The attribute names match
// what the dynamodb catalog source reads back.
type Item struct {
	ID          int         `dynamodbav:"id"`
	Title       string      `dynamodbav:"title"`
	Genre       string      `dynamodbav:"genre,omitempty"`
	Rating      float64     `dynamodbav:"rating"`
	Players     ItemPlayers `dynamodbav:"players"`
	Playtime    *int        `dynamodbav:"playtime,omitempty"`
	Description string      `dynamodbav:"description,omitempty"`
	Rules       string      `dynamodbav:"rules,omitempty"`
	Shelf       string      `dynamodbav:"shelf,omitempty"`
	Difficulty  string      `dynamodbav:"difficulty,omitempty"`
	Image       string      `dynamodbav:"image,omitempty"`
}

type ItemPlayers struct {
	Min int `dynamodbav:"min"`
	Max int `dynamodbav:"max"`
}

func NewItem(rec catalog.GameRecord) Item {
	item := Item{
		ID:          rec.ID,
		Title:       rec.Title,
		Genre:       rec.Genre,
		Rating:      rec.Rating,
		Players:     ItemPlayers{Min: rec.Players.Min, Max: rec.Players.Max},
		Description: rec.Description,
		Rules:       rec.Rules,
		Shelf:       rec.Shelf,
		Difficulty:  rec.Difficulty,
		Image:       rec.Image,
	}
	if rec.PlaytimeKnown {
		pt := rec.Playtime
		item.Playtime = &pt
	}
	return item
}

type CatalogTable struct {
	client TableAPI
	name   string
}

func NewCatalogTable(client TableAPI, name string) *CatalogTable {
	return &CatalogTable{client: client, name: name}
}

// Schema returns the create request for the games table: a numeric id hash
// key and a genre index.
func (t *CatalogTable) Schema() *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(t.name),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("id"),
				AttributeType: types.ScalarAttributeTypeN,
			},
			{
				AttributeName: aws.String("genre"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("id"),
				KeyType:       types.KeyTypeHash,
			},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(GenreIndex),
				KeySchema: []types.KeySchemaElement{
					{
						AttributeName: aws.String("genre"),
						KeyType:       types.KeyTypeHash,
					},
				},
				Projection: &types.Projection{
					ProjectionType: types.ProjectionTypeAll,
				},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
}

// CreateTable creates the games table and waits until it is active. An
// existing table is not an error.
func (t *CatalogTable) CreateTable(ctx context.Context) error {
	_, err := t.client.CreateTable(ctx, t.Schema())
	var inUse *types.ResourceInUseException
	if err != nil && !errors.As(err, &inUse) {
		return fmt.Errorf("failed to create table %s: %w", t.name, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(t.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(t.name)}, tableReadyTimeout); err != nil {
		return fmt.Errorf("failed waiting for table %s: %w", t.name, err)
	}
	return nil
}

// PutRecords writes records in batches, resubmitting anything DynamoDB
// reports as unprocessed.
func (t *CatalogTable) PutRecords(ctx context.Context, records []catalog.GameRecord) error {
	for start := 0; start < len(records); start += maxBatchSize {
		end := min(start+maxBatchSize, len(records))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, rec := range records[start:end] {
			av, err := attributevalue.MarshalMap(NewItem(rec))
			if err != nil {
				return fmt.Errorf("failed to marshal game %d: %w", rec.ID, err)
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
		}

		if err := t.writeBatch(ctx, requests); err != nil {
			return err
		}
	}
	return nil
}

func (t *CatalogTable) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{t.name: requests}

	for attempt := 0; attempt < maxUnprocessedRetries; attempt++ {
		out, err := t.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to write to table %s: %w", t.name, err)
		}
		if len(out.UnprocessedItems[t.name]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
	}

	return fmt.Errorf("table %s: %d %w", t.name, len(pending[t.name]), ErrUnprocessed)
}
