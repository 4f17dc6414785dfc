package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopfront/internal/models"
	"shopfront/internal/obs"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminStore stores admin accounts.
type AdminStore interface {
	GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	SaveAdminUser(ctx context.Context, user *models.AdminUser) error
}

// AuthService, admin girişlerini doğrular ve güvenlik olaylarını loglar.
type AuthService struct {
	admins AdminStore
}

// NewAuthService creates an AuthService.
func NewAuthService(admins AdminStore) *AuthService {
	return &AuthService{admins: admins}
}

// LogSecurityEvent, güvenlik olayını loglar
func LogSecurityEvent(eventType, details, ipAddress string) {
	obs.Logger.Info("security_event",
		zap.String("event", eventType),
		zap.String("details", details),
		zap.String("ip", ipAddress))
}

// Authenticate checks username and password. Unknown users and wrong passwords
// both return ErrInvalidCredentials.
func (as *AuthService) Authenticate(ctx context.Context, username, password, ipAddress string) (*models.AdminUser, error) {
	user, err := as.admins.GetAdminByUsername(ctx, username)
	if isNotFound(err) {
		LogSecurityEvent("LOGIN_FAILED", fmt.Sprintf("unknown user %q", username), ipAddress)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load admin user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		LogSecurityEvent("LOGIN_FAILED", fmt.Sprintf("wrong password for %q", username), ipAddress)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("compare password hash: %w", err)
	}

	LogSecurityEvent("LOGIN_SUCCESS", fmt.Sprintf("admin %q logged in", username), ipAddress)
	return user, nil
}

// CreateAdmin hashes password and inserts the admin, or resets the password of an existing one.
func (as *AuthService) CreateAdmin(ctx context.Context, username, password string) (*models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.AdminUser{Username: username, PasswordHash: string(hash)}
	if err := as.admins.SaveAdminUser(ctx, user); err != nil {
		return nil, err
	}
	LogSecurityEvent("ADMIN_SAVED", fmt.Sprintf("admin %q saved", username), "local")
	return user, nil
}
