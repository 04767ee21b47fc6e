package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"boardgame-catalog/config"
	"boardgame-catalog/internal/catalog"
	"boardgame-catalog/internal/catalog/source"
	awsinfra "boardgame-catalog/internal/infrastructure/aws"
	"boardgame-catalog/internal/infrastructure/aws/dynamodb"
	"boardgame-catalog/internal/logging"
)

var seedTable string

var dynamodbCmd = &cobra.Command{
	Use:   "dynamodb",
	Short: "Manage the DynamoDB games table",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the games table and copy the configured catalog into it",
	Long: `Loads the catalog from CATALOG_SOURCE, creates the DynamoDB table if it
does not exist, and writes every game to it. Point the server at the table
afterwards with CATALOG_SOURCE=dynamodb.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedTable, "table", "", "target table (defaults to CATALOG_DYNAMODB_TABLE)")
	dynamodbCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dynamodbCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.Environment, cfg.LogLevel)

	table := seedTable
	if table == "" {
		table = cfg.CatalogDynamoDBTable
	}
	if table == "" {
		return errors.New("no table given: set --table or CATALOG_DYNAMODB_TABLE")
	}
	if cfg.CatalogSource == config.SourceDynamoDB && table == cfg.CatalogDynamoDBTable {
		return errors.New("refusing to seed the table the catalog is read from")
	}

	src, err := source.New(ctx, cfg)
	if err != nil {
		return err
	}
	store := catalog.NewStore(logger)
	if err := store.Load(ctx, src); err != nil {
		return err
	}

	awsCfg, err := awsinfra.NewAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return err
	}

	t := dynamodb.NewCatalogTable(awsCfg.DynamoDB, table)
	if err := t.CreateTable(ctx); err != nil {
		return err
	}
	if err := t.PutRecords(ctx, store.Records()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d games to %s\n", store.Len(), table)
	return nil
}
