package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	msgInvalidToken = "Invalid or expired token"
	msgTokenRevoked = "Token has been revoked"
)

// Identity is what a verified bearer token says about its holder.
type Identity struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

type TokenService struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
	now      func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, denylist Denylist) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, denylist: denylist, now: time.Now}
}

// SetClock overrides the time source. Tests only.
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
}

// Issue signs a token for userID that expires after the configured TTL.
func (s *TokenService) Issue(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and denylist status of a token.
func (s *TokenService) Parse(ctx context.Context, tokenString string) (*Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperrors.New(apperrors.KindAuth, msgInvalidToken, err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, apperrors.New(apperrors.KindAuth, msgInvalidToken, errors.New("bad subject"))
	}

	if claims.ID != "" && s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.Internal("Failed to check token", err)
		}
		if revoked {
			return nil, apperrors.Auth(msgTokenRevoked)
		}
	}

	return &Identity{UserID: uint(userID), TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Revoke puts a still-valid token on the denylist until it expires.
func (s *TokenService) Revoke(ctx context.Context, id *Identity) error {
	if s.denylist == nil || id == nil || id.TokenID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, id.TokenID, id.ExpiresAt)
}
