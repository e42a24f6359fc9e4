package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chopie/restaurant/internal/logger"
	"github.com/chopie/restaurant/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// UserRepository is interface for interacting with staff accounts
type UserRepository interface {
	// CreateUser inserts new staff account
	CreateUser(ctx context.Context, user *models.StaffUser) (*models.StaffUser, error)
	// GetUserByEmail returns staff account by email
	GetUserByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	// GetUserByID returns staff account by id
	GetUserByID(ctx context.Context, id uint64) (*models.StaffUser, error)
	// GetUsers returns all staff accounts
	GetUsers(ctx context.Context) ([]models.StaffUser, error)
	// ToggleUserStatus flips account active flag
	ToggleUserStatus(ctx context.Context, id uint64) (bool, error)
	// AwardStar increments staff star count
	AwardStar(ctx context.Context, id uint64) (int, error)
}

// CredentialsMailer queues the welcome email with initial credentials
type CredentialsMailer interface {
	QueueStaffCredentials(user *models.StaffUser, password string)
}

// AuthService implements staff authentication and account management
type AuthService struct {
	repo   UserRepository
	token  TokenService
	audit  AuditRecorder
	mailer CredentialsMailer
}

// NewAuthService creates new AuthService instance
func NewAuthService(repo UserRepository, token TokenService, audit AuditRecorder, mailer CredentialsMailer) *AuthService {
	return &AuthService{
		repo:   repo,
		token:  token,
		audit:  audit,
		mailer: mailer,
	}
}

// Login authenticates staff member and issues token. Unknown email and wrong
// password are indistinguishable to the caller.
func (as *AuthService) Login(ctx context.Context, email, password string) (string, *models.StaffUser, error) {
	user, err := as.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, models.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := as.token.CreateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// CreateStaff provisions a staff account and queues a credentials email
func (as *AuthService) CreateStaff(ctx context.Context, actor models.TokenPayload, name, email, password, role, sourceAddr string) (*models.StaffUser, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, models.NewValidationError("name, email and password are required")
	}
	if !ValidRole(role) {
		return nil, models.NewValidationError("unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.StaffUser{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         role,
	}

	user, err = as.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	as.recordAudit(ctx, actor.UserID, models.AuditActionCreateUser,
		fmt.Sprintf("Created %s account for %s", role, user.Email), sourceAddr)

	as.mailer.QueueStaffCredentials(user, password)

	return user, nil
}

// ListStaff returns all staff accounts
func (as *AuthService) ListStaff(ctx context.Context) ([]models.StaffUser, error) {
	return as.repo.GetUsers(ctx)
}

// ToggleStatus flips account active flag
func (as *AuthService) ToggleStatus(ctx context.Context, actor models.TokenPayload, userID uint64, sourceAddr string) (bool, error) {
	isActive, err := as.repo.ToggleUserStatus(ctx, userID)
	if err != nil {
		return false, err
	}

	as.recordAudit(ctx, actor.UserID, models.AuditActionToggleUser,
		fmt.Sprintf("Set user %d active=%t", userID, isActive), sourceAddr)

	return isActive, nil
}

// AwardStar gives a performance star to staff member
func (as *AuthService) AwardStar(ctx context.Context, actor models.TokenPayload, userID uint64, sourceAddr string) (int, error) {
	stars, err := as.repo.AwardStar(ctx, userID)
	if err != nil {
		return 0, err
	}

	as.recordAudit(ctx, actor.UserID, models.AuditActionAwardStar,
		fmt.Sprintf("Awarded star to user %d", userID), sourceAddr)

	return stars, nil
}

func (as *AuthService) recordAudit(ctx context.Context, staffID uint64, action, details, sourceAddr string) {
	entry := models.AuditEntry{
		StaffID:    staffID,
		Action:     action,
		Details:    details,
		SourceAddr: sourceAddr,
	}
	if err := as.audit.CreateEntry(ctx, entry); err != nil {
		logger.Log.Error("write audit entry", zap.String("action", action), zap.Error(err))
	}
}
