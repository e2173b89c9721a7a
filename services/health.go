package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type HealthCheckResult struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Redis    string            `json:"redis,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

func (r HealthCheckResult) Healthy() bool {
	return r.Status == StatusHealthy
}

type HealthService struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

// NewHealthService checks db and, when non-nil, redis.
func NewHealthService(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *HealthService {
	return &HealthService{db: db, redis: redisClient, logger: logger}
}

func (s *HealthService) Check(ctx context.Context) HealthCheckResult {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result := HealthCheckResult{Status: StatusHealthy, Database: "ok", Details: map[string]string{}}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Database = "unreachable"
		result.Details["database_error"] = err.Error()
		s.logger.Warn("health check failed - database", zap.Error(err))
	}

	if s.redis != nil {
		result.Redis = "ok"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			result.Status = StatusUnhealthy
			result.Redis = "unreachable"
			result.Details["redis_error"] = err.Error()
			s.logger.Warn("health check failed - redis", zap.Error(err))
		}
	}

	if len(result.Details) == 0 {
		result.Details = nil
	}
	return result
}
