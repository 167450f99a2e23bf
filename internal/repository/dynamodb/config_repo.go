package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/prn-tf/litup/internal/domain"
)

// configItem is the item layout for a stored config revision. The config
// document itself is stored as a JSON string to keep the table schema flat.
type configItem struct {
	ID        string `dynamodbav:"id"`
	Config    string `dynamodbav:"config"`
	CreatedAt string `dynamodbav:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

// configRepository implements repository.ConfigRepository for DynamoDB.
type configRepository struct {
	db *DB
}

// NewConfigRepository creates a DynamoDB config repository.
func NewConfigRepository(db *DB) *configRepository {
	return &configRepository{db: db}
}

func configKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func toConfigItem(cfg *domain.StoredConfig) (configItem, error) {
	doc, err := json.Marshal(cfg.Config)
	if err != nil {
		return configItem{}, fmt.Errorf("failed to marshal config document: %w", err)
	}
	return configItem{
		ID:        cfg.ID,
		Config:    string(doc),
		CreatedAt: cfg.CreatedAt.Format(timeFormat),
		UpdatedAt: cfg.UpdatedAt.Format(timeFormat),
	}, nil
}

func (i configItem) toDomain() (*domain.StoredConfig, error) {
	var doc domain.AppConfig
	if err := json.Unmarshal([]byte(i.Config), &doc); err != nil {
		return nil, fmt.Errorf("config %s: bad document: %w", i.ID, err)
	}
	createdAt, err := parseTime(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("config %s: bad createdAt: %w", i.ID, err)
	}
	updatedAt, err := parseTime(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("config %s: bad updatedAt: %w", i.ID, err)
	}

	return &domain.StoredConfig{
		ID:        i.ID,
		Config:    doc,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Create creates a new config revision.
func (r *configRepository) Create(ctx context.Context, cfg *domain.StoredConfig) error {
	record, err := toConfigItem(cfg)
	if err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = r.db.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.db.configTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return domain.ErrConfigAlreadyExists
		}
		return fmt.Errorf("failed to create config: %w", err)
	}
	return nil
}

// GetByID retrieves a config revision by ID.
func (r *configRepository) GetByID(ctx context.Context, id string) (*domain.StoredConfig, error) {
	out, err := r.db.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.db.configTable),
		Key:       configKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrConfigNotFound
	}

	var item configItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return item.toDomain()
}

// List returns all config revisions.
func (r *configRepository) List(ctx context.Context) ([]*domain.StoredConfig, error) {
	out, err := r.db.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.db.configTable),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list configs: %w", err)
	}

	configs := make([]*domain.StoredConfig, 0, len(out.Items))
	for _, raw := range out.Items {
		var item configItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		cfg, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Update replaces an existing config revision.
func (r *configRepository) Update(ctx context.Context, cfg *domain.StoredConfig) error {
	record, err := toConfigItem(cfg)
	if err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = r.db.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.db.configTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return domain.ErrConfigNotFound
		}
		return fmt.Errorf("failed to update config: %w", err)
	}
	return nil
}

// Delete deletes a config revision by ID.
func (r *configRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.db.configTable),
		Key:                 configKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return domain.ErrConfigNotFound
		}
		return fmt.Errorf("failed to delete config: %w", err)
	}
	return nil
}
