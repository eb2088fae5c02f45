package database

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

const minPasswordLength = 8

var (
	ErrAdminExists  = errors.New("admin with this email already exists")
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidRole  = errors.New("role must be admin or staff")
)

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.WithField("tables", len(models.All())).Info("database migrated")
	return nil
}

// CreateAdmin stores a back-office account with a bcrypt hashed password.
func CreateAdmin(db *gorm.DB, name, email, password, role string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if role == "" {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin && role != models.RoleStaff {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}

	var count int64
	if err := db.Model(&models.AdminUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &models.AdminUser{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.WithField("email", email).WithField("role", role).Info("admin account created")
	return admin, nil
}
