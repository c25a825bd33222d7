package store

import (
	"context"      // Request-scoped queries
	"crypto/rand"  // Generated admin password
	"encoding/hex" // Password encoding
	"errors"       // Sentinel error checks
	"fmt"          // Error wrapping

	"taskboard/internal/domain" // User model

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// UserStore persists users and verifies their passwords.
type UserStore struct {
	db *gorm.DB // Database connection
}

// NewUserStore returns a UserStore backed by db.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser hashes password and stores a new user. It returns
// ErrDuplicateIdentity if the username or email is taken.
func (s *UserStore) CreateUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&domain.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check identity: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateIdentity // Username or email taken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil { // Insert the user
		// Lost a race with a concurrent registration
		if isDuplicateKey(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// FindByUsername looks up a user for login.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound // Unknown username
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks up a user by primary key.
func (s *UserStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error // Lookup by primary key
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound // Unknown id
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Verify reports whether password matches the stored hash of user.
func (s *UserStore) Verify(user *domain.User, password string) bool {
	if user == nil {
		return false // Unknown user never verifies
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// ListUsers returns every user ordered by username.
func (s *UserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// AdminCredentials describes the first-run account.
type AdminCredentials struct {
	Username string
	Email    string
	Password string // generated when empty
}

// BootstrapAdmin creates the first-run account unless a user with that
// username already exists. It returns whether the account was created and
// the password it was created with.
func (s *UserStore) BootstrapAdmin(ctx context.Context, creds AdminCredentials) (bool, string, error) {
	_, err := s.FindByUsername(ctx, creds.Username)
	if err == nil {
		return false, "", nil // Already provisioned
	}
	if !errors.Is(err, ErrNotFound) {
		return false, "", err
	}

	password := creds.Password
	if password == "" {
		// No password configured, make one up
		if password, err = randomPassword(); err != nil {
			return false, "", err
		}
	}
	if _, err := s.CreateUser(ctx, creds.Username, creds.Email, password); err != nil {
		return false, "", fmt.Errorf("create admin: %w", err)
	}
	return true, password, nil
}

// ProvisionAdmin runs BootstrapAdmin and logs the outcome. A generated
// password is logged once so the operator can sign in.
func ProvisionAdmin(ctx context.Context, users *UserStore, creds AdminCredentials) error {
	created, password, err := users.BootstrapAdmin(ctx, creds)
	if err != nil {
		return err
	}
	if !created {
		logrus.WithField("username", creds.Username).Debug("Admin account already present")
		return nil
	}
	entry := logrus.WithFields(logrus.Fields{
		"username": creds.Username,
		"email":    creds.Email,
	})
	if creds.Password == "" {
		entry.WithField("password", password).Warn("Admin account created with a generated password, change it or set ADMIN_PASSWORD")
		return nil
	}
	entry.Info("Admin account created")
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
