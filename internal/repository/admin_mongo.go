package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abelprasad/SathikaBoutique/internal/domain"
)

type adminMongoRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) AdminRepository {
	return &adminMongoRepository{
		collection: db.Collection("admins"),
	}
}

func (m *adminMongoRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var admin domain.Admin

	filter := bson.M{"email": strings.ToLower(email)}
	err := m.collection.FindOne(ctx, filter).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}

func (m *adminMongoRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	var admin domain.Admin

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}

func (m *adminMongoRepository) Insert(ctx context.Context, admin *domain.Admin) error {
	now := time.Now()
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	admin.Email = strings.ToLower(admin.Email)
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := m.collection.InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert admin: %w", err)
	}

	return nil
}

func (m *adminMongoRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{"last_login": now, "updated_at": now}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAdminNotFound
	}

	return nil
}

// EnsureIndexes creates the unique email index.
func (m *adminMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create admin indexes: %w", err)
	}

	return nil
}
