package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	msgMissingFields      = "Missing required fields"
	msgEmailExists        = "Email already exists"
	msgInvalidEmail       = "Invalid email address"
	msgInvalidCredentials = "Invalid credentials"
	msgUserNotFound       = "User not found"
	msgPasswordTooLong    = "Password must be at most 72 bytes"

	// bcrypt rejects longer passwords.
	maxPasswordBytes = 72
)

// WelcomeSender greets newly registered users.
type WelcomeSender interface {
	SendWelcome(name, email string) error
}

type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	mailer WelcomeSender
	logger *zap.Logger
}

// NewAuthService builds the identity service. mailer may be nil.
func NewAuthService(db *gorm.DB, tokens *TokenService, mailer WelcomeSender, logger *zap.Logger) *AuthService {
	return &AuthService{db: db, tokens: tokens, mailer: mailer, logger: logger}
}

// HashPassword hashes password with the service bcrypt cost.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Register creates a user. Emails are unique; a concurrent duplicate is caught by the index.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.Validation(msgMissingFields)
	}
	if !models.ValidEmail(email) {
		return nil, apperrors.Validation(msgInvalidEmail)
	}
	if len(password) > maxPasswordBytes {
		return nil, apperrors.Validation(msgPasswordTooLong)
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, apperrors.Internal("Failed to check email", err)
	}
	if existing > 0 {
		return nil, apperrors.Conflict(msgEmailExists)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := db.Create(user).Error; err != nil {
		return nil, apperrors.FromDB(err, msgUserNotFound, msgEmailExists)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	s.sendWelcome(user)
	return user, nil
}

func (s *AuthService) sendWelcome(user *models.User) {
	if s.mailer == nil {
		return
	}
	name, email := user.Name, user.Email
	go func() {
		if err := s.mailer.SendWelcome(name, email); err != nil {
			s.logger.Warn("welcome email failed", zap.String("email", email), zap.Error(err))
		}
	}()
}

// Login checks credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.Auth(msgInvalidCredentials)
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperrors.Auth(msgInvalidCredentials)
	}
	if err != nil {
		return "", nil, apperrors.Internal("Failed to load user", err)
	}

	if err := comparePasswords(user.PasswordHash, password); err != nil {
		return "", nil, apperrors.Auth(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, apperrors.Internal("Failed to generate token", err)
	}
	return token, &user, nil
}

// Authenticate resolves a bearer token into an identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	return s.tokens.Parse(ctx, token)
}

// Logout revokes the token if it is still valid. Anything else is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := s.tokens.Parse(ctx, token)
	if err != nil {
		return nil
	}
	if err := s.tokens.Revoke(ctx, id); err != nil {
		return apperrors.Internal("Failed to revoke token", err)
	}
	s.logger.Info("token revoked", zap.Uint("user_id", id.UserID))
	return nil
}

// IsAdmin is false for an unknown or missing user.
func (s *AuthService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "is_admin").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Internal("Failed to load user", err)
	}
	return user.IsAdmin, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Internal("Failed to list users", err)
	}
	return users, nil
}

// GrantAdmin promotes the user with email to admin, creating the account when
// it does not exist yet. password is only needed for a new account.
func (s *AuthService) GrantAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.Validation(msgMissingFields)
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error
		if err == nil {
			return tx.Model(&user).Update("is_admin", true).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		name = strings.TrimSpace(name)
		if name == "" || password == "" {
			return apperrors.Validation(msgMissingFields)
		}
		if !models.ValidEmail(email) {
			return apperrors.Validation(msgInvalidEmail)
		}
		if len(password) > maxPasswordBytes {
			return apperrors.Validation(msgPasswordTooLong)
		}
		hash, err := HashPassword(password)
		if err != nil {
			return apperrors.Internal("Failed to hash password", err)
		}
		user = models.User{Name: name, Email: email, PasswordHash: hash, IsAdmin: true}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, msgUserNotFound, msgEmailExists)
	}

	s.logger.Info("admin granted", zap.Uint("user_id", user.ID))
	return &user, nil
}
