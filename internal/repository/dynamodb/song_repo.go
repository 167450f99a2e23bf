package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/prn-tf/litup/internal/domain"
)

// songItem is the single-table item layout for a song: a fixed partition key
// with the song ID in the sort key.
type songItem struct {
	PK                string     `dynamodbav:"PK"`
	SK                string     `dynamodbav:"SK"`
	ID                string     `dynamodbav:"id"`
	Type              string     `dynamodbav:"type"`
	AudioOriginURL    string     `dynamodbav:"audioOriginUrl"`
	AudioURL          *string    `dynamodbav:"audioUrl"`
	Length            *string    `dynamodbav:"length"`
	LengthSeconds     *float64   `dynamodbav:"lengthSeconds"`
	Artist            string     `dynamodbav:"artist"`
	Title             string     `dynamodbav:"title"`
	AlbumArtOriginURL string     `dynamodbav:"albumArtOriginUrl"`
	AlbumArtURL       *string    `dynamodbav:"albumArtUrl"`
	IsSecret          bool       `dynamodbav:"isSecret"`
	Status            string     `dynamodbav:"status"`
	CreatedAt         string     `dynamodbav:"createdAt"`
	UpdatedAt         string     `dynamodbav:"updatedAt"`
}

// songRepository implements repository.SongRepository for DynamoDB.
type songRepository struct {
	db *DB
}

// NewSongRepository creates a DynamoDB song repository.
func NewSongRepository(db *DB) *songRepository {
	return &songRepository{db: db}
}

// songKey builds the composite key for a song item.
func songKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: songPK},
		"SK": &types.AttributeValueMemberS{Value: "SONG#" + id},
	}
}

func toSongItem(song *domain.Song) songItem {
	return songItem{
		PK:                songPK,
		SK:                "SONG#" + song.ID,
		ID:                song.ID,
		Type:              songPK,
		AudioOriginURL:    song.AudioOriginURL,
		AudioURL:          song.AudioURL,
		Length:            song.Length,
		LengthSeconds:     song.LengthSeconds,
		Artist:            song.Artist,
		Title:             song.Title,
		AlbumArtOriginURL: song.AlbumArtOriginURL,
		AlbumArtURL:       song.AlbumArtURL,
		IsSecret:          song.IsSecret,
		Status:            string(song.Status),
		CreatedAt:         song.CreatedAt.Format(timeFormat),
		UpdatedAt:         song.UpdatedAt.Format(timeFormat),
	}
}

func (i songItem) toDomain() (*domain.Song, error) {
	createdAt, err := parseTime(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("song %s: bad createdAt: %w", i.ID, err)
	}
	updatedAt, err := parseTime(i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("song %s: bad updatedAt: %w", i.ID, err)
	}

	return &domain.Song{
		ID:                i.ID,
		AudioOriginURL:    i.AudioOriginURL,
		AudioURL:          i.AudioURL,
		Length:            i.Length,
		LengthSeconds:     i.LengthSeconds,
		Artist:            i.Artist,
		Title:             i.Title,
		AlbumArtOriginURL: i.AlbumArtOriginURL,
		AlbumArtURL:       i.AlbumArtURL,
		IsSecret:          i.IsSecret,
		Status:            domain.SongStatus(i.Status),
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}

// Create creates a new song, refusing to overwrite an existing item.
func (r *songRepository) Create(ctx context.Context, song *domain.Song) error {
	item, err := attributevalue.MarshalMap(toSongItem(song))
	if err != nil {
		return fmt.Errorf("failed to marshal song: %w", err)
	}

	_, err = r.db.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.db.musicTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return domain.ErrSongAlreadyExists
		}
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

// GetByID retrieves a song by ID.
func (r *songRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	out, err := r.db.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.db.musicTable),
		Key:       songKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrSongNotFound
	}

	var item songItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal song: %w", err)
	}
	return item.toDomain()
}

// List returns all songs, newest first.
func (r *songRepository) List(ctx context.Context) ([]*domain.Song, error) {
	out, err := r.db.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.db.musicTable),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: songPK},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	songs := make([]*domain.Song, 0, len(out.Items))
	for _, raw := range out.Items {
		var item songItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal song: %w", err)
		}
		song, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	sort.Slice(songs, func(a, b int) bool {
		return songs[a].CreatedAt.After(songs[b].CreatedAt)
	})
	return songs, nil
}

// ListByStatus returns all songs in a given ingest state, newest first.
func (r *songRepository) ListByStatus(ctx context.Context, status domain.SongStatus) ([]*domain.Song, error) {
	songs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := songs[:0]
	for _, song := range songs {
		if song.Status == status {
			filtered = append(filtered, song)
		}
	}
	return filtered, nil
}

// Update replaces an existing song item.
func (r *songRepository) Update(ctx context.Context, song *domain.Song) error {
	item, err := attributevalue.MarshalMap(toSongItem(song))
	if err != nil {
		return fmt.Errorf("failed to marshal song: %w", err)
	}

	_, err = r.db.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.db.musicTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(PK) AND attribute_exists(SK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return domain.ErrSongNotFound
		}
		return fmt.Errorf("failed to update song: %w", err)
	}
	return nil
}

// Delete deletes a song by ID.
func (r *songRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.db.musicTable),
		Key:                 songKey(id),
		ConditionExpression: aws.String("attribute_exists(PK) AND attribute_exists(SK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return domain.ErrSongNotFound
		}
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return nil
}
