package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/abelprasad/SathikaBoutique/internal/config"
	"github.com/abelprasad/SathikaBoutique/internal/domain"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, config.MongoConfig{
		URI:            uri,
		DB:             "testdb",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    10,
		MinPoolSize:    1,
	})
	require.NoError(t, err)

	repo := NewCartRepository(db)

	mongoRepo := repo.(*cartMongoRepository)
	err = mongoRepo.EnsureIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func newFixtureCart(sessionID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		SessionID: sessionID,
		Items: []domain.CartItem{
			{ID: "item-1", ProductID: "prod-1", VariantID: "var-1", Quantity: 2, AddedAt: now},
		},
		Version:      1,
		LastActivity: now,
		ExpiresAt:    now.Add(7 * 24 * time.Hour),
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Get(context.Background(), "never-seen")

	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestInsertAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := newFixtureCart("session-1")

	require.NoError(t, repo.Insert(ctx, cart))
	assert.NotEmpty(t, cart.ID)

	got, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, int64(1), got.Version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)
}

func TestInsert_DuplicateSession(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newFixtureCart("session-1")))

	err := repo.Insert(ctx, newFixtureCart("session-1"))

	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestReplace_BumpsVersion(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := newFixtureCart("session-1")
	require.NoError(t, repo.Insert(ctx, cart))

	cart.Items[0].Quantity = 7
	cart.Version = 2
	require.NoError(t, repo.Replace(ctx, cart, 1))

	got, err := repo.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, 7, got.Items[0].Quantity)
}

func TestReplace_StaleVersionConflicts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := newFixtureCart("session-1")
	require.NoError(t, repo.Insert(ctx, cart))

	winner := *cart
	winner.Version = 2
	require.NoError(t, repo.Replace(ctx, &winner, 1))

	// Second writer still holds version 1.
	loser := *cart
	loser.Version = 2
	err := repo.Replace(ctx, &loser, 1)

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestReplace_MissingCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	cart := newFixtureCart("never-seen")
	cart.ID = "cart-x"
	err := repo.Replace(context.Background(), cart, 1)

	assert.ErrorIs(t, err, ErrCartNotFound)
}
