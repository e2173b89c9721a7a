package services

import (
	"context"
	"testing"

	"github.com/Kariqs/bookstore-api/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealthCheck(t *testing.T) {
	db := testhelpers.NewDB(t)
	svc := NewHealthService(db, nil, zap.NewNop())

	result := svc.Check(context.Background())
	assert.True(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Empty(t, result.Redis)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	result = svc.Check(context.Background())
	assert.False(t, result.Healthy())
	assert.Equal(t, "unreachable", result.Database)
	assert.Contains(t, result.Details, "database_error")
}
