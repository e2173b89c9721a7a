package services

import (
	"context"
	"time"

	"github.com/Kariqs/bookstore-api/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Denylist remembers revoked token ids until they expire.
type Denylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "bookstore:revoked:"

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DBDenylist keeps revoked ids in the revoked_tokens table.
type DBDenylist struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBDenylist(db *gorm.DB) *DBDenylist {
	return &DBDenylist{db: db, now: time.Now}
}

func (d *DBDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	db := d.db.WithContext(ctx)
	// drop rows that can no longer match a live token
	if err := db.Where("expires_at < ?", d.now().UTC()).Delete(&models.RevokedToken{}).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RevokedToken{JTI: jti, ExpiresAt: expiresAt.UTC()}).Error
}

func (d *DBDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ? AND expires_at >= ?", jti, d.now().UTC()).
		Count(&count).Error
	return count > 0, err
}
