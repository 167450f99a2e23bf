// Package dynamodb implements the Lit Up repositories on Amazon DynamoDB.
// Production deployments use the serverless tables provisioned alongside the
// CDN; local development points the same code at DynamoDB Local through the
// endpoint override.
package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
)

// songPK is the partition key shared by all song items in the music table.
const songPK = "SONG"

// Config holds DynamoDB connection settings.
type Config struct {
	// Region is the AWS region of the tables.
	Region string

	// MusicTable is the table holding song items.
	MusicTable string

	// ConfigTable is the table holding app-config revisions.
	ConfigTable string

	// Endpoint overrides the service endpoint, for DynamoDB Local.
	Endpoint string

	// AccessKeyID and SecretAccessKey are static credentials for local
	// development. Empty in production, where the default chain applies.
	AccessKeyID     string
	SecretAccessKey string
}

// DB wraps the DynamoDB client and table names.
type DB struct {
	client      *dynamodb.Client
	musicTable  string
	configTable string
	logger      zerolog.Logger
}

// NewDB creates a DynamoDB-backed database handle.
func NewDB(ctx context.Context, cfg Config, logger zerolog.Logger) (*DB, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &DB{
		client:      client,
		musicTable:  cfg.MusicTable,
		configTable: cfg.ConfigTable,
		logger:      logger.With().Str("component", "dynamodb").Logger(),
	}, nil
}

// Ping verifies the music table is reachable.
func (db *DB) Ping(ctx context.Context) error {
	_, err := db.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(db.musicTable),
	})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", db.musicTable, err)
	}
	return nil
}

// Close is a no-op; the DynamoDB client holds no connections.
func (db *DB) Close() error {
	return nil
}
