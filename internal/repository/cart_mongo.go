package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abelprasad/SathikaBoutique/internal/domain"
)

type cartMongoRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &cartMongoRepository{
		collection: db.Collection("carts"),
	}
}

func (m *cartMongoRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"session_id": sessionID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *cartMongoRepository) Insert(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	cart.CreatedAt = now
	cart.UpdatedAt = now
	if cart.LastActivity.IsZero() {
		cart.LastActivity = now
	}

	_, err := m.collection.InsertOne(ctx, cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert cart: %w", err)
	}

	return nil
}

func (m *cartMongoRepository) Replace(ctx context.Context, cart *domain.Cart, expectedVersion int64) error {
	cart.UpdatedAt = time.Now()

	filter := bson.M{
		"session_id": cart.SessionID,
		"version":    expectedVersion,
	}

	result, err := m.collection.ReplaceOne(ctx, filter, cart)
	if err != nil {
		return fmt.Errorf("failed to replace cart: %w", err)
	}

	if result.MatchedCount == 0 {
		// Either the cart is gone or someone else bumped the version.
		n, errCount := m.collection.CountDocuments(ctx, bson.M{"session_id": cart.SessionID})
		if errCount != nil {
			return fmt.Errorf("failed to check cart existence: %w", errCount)
		}
		if n == 0 {
			return ErrCartNotFound
		}
		return ErrVersionConflict
	}

	return nil
}

// EnsureIndexes creates the unique session index and the TTL index that
// removes expired carts.
func (m *cartMongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}

	return nil
}
