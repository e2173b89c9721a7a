//go:build integration

package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/Kariqs/bookstore-api/models"
	"github.com/Kariqs/bookstore-api/testhelpers"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_DB":       "bookstore",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=bookstore sslmode=disable", host, port.Port())
	db, err := initializers.OpenDB("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, initializers.Migrate(db))
	return db
}

func TestPostgresUniqueViolationIsConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := startPostgres(t)
	testhelpers.CreateUser(t, db, "Alice", "alice@example.com", false)

	err := db.Create(&models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}).Error
	require.Error(t, err)
	assert.True(t, apperrors.IsUniqueViolation(err))
	assert.True(t, apperrors.Is(apperrors.FromDB(err, "", "Email already exists"), apperrors.KindConflict))
}

func TestPostgresConcurrentCartAndBorrow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db := startPostgres(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "Reader", "reader@example.com", false)
	book := testhelpers.CreateBook(t, db, "Clean Code", "25.99", 3)

	carts := NewCartService(db, zap.NewNop())
	borrowings := NewBorrowingService(db, zap.NewNop())

	const workers = 8
	var wg sync.WaitGroup
	borrowErrs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := carts.AddToCart(ctx, user.ID, book.ID, 1)
			assert.NoError(t, err)
			_, err = borrowings.Borrow(ctx, user.ID, book.ID, 0)
			borrowErrs <- err
		}()
	}
	wg.Wait()
	close(borrowErrs)

	cart, err := carts.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, workers, cart.Items[0].Quantity)

	succeeded := 0
	for err := range borrowErrs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.Is(err, apperrors.KindConflict), err)
	}
	assert.LessOrEqual(t, succeeded, 3)

	var stored models.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.GreaterOrEqual(t, stored.Stock, 0)
	assert.Equal(t, 3-succeeded, stored.Stock)
}

func TestRedisDenylist(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	denylist := NewRedisDenylist(client)
	tokens := NewTokenService("secret", time.Hour, denylist)

	token, err := tokens.Issue(7)
	require.NoError(t, err)
	id, err := tokens.Parse(ctx, token)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(ctx, id))
	revoked, err := denylist.IsRevoked(ctx, id.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = tokens.Parse(ctx, token)
	assert.True(t, apperrors.Is(err, apperrors.KindAuth))
}
