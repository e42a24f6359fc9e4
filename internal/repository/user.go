package repository

import (
	"context"
	"errors"

	"github.com/chopie/restaurant/internal/models"
	"github.com/chopie/restaurant/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertUserQuery = `
						INSERT INTO staff_users (name, email, password_hash, role)
						VALUES ($1, $2, $3, $4)
						RETURNING id, name, email, password_hash, role, is_active, stars, created_at, updated_at
`
	selectUserByEmailQuery = `
						SELECT id, name, email, password_hash, role, is_active, stars, created_at, updated_at FROM staff_users
						WHERE email = $1
`
	selectUserByIDQuery = `
						SELECT id, name, email, password_hash, role, is_active, stars, created_at, updated_at FROM staff_users
						WHERE id = $1
`
	selectUsersQuery = `
						SELECT id, name, email, password_hash, role, is_active, stars, created_at, updated_at FROM staff_users
						ORDER BY created_at DESC
`
	toggleUserStatusQuery = `
						UPDATE staff_users
						SET is_active = NOT is_active, updated_at = now()
						WHERE id = $1
						RETURNING is_active
`
	awardStarQuery = `
						UPDATE staff_users
						SET stars = stars + 1, updated_at = now()
						WHERE id = $1
						RETURNING stars
`
)

// UserRepository implements staff account storage
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row, user *models.StaffUser) error {
	return row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.IsActive, &user.Stars, &user.CreatedAt, &user.UpdatedAt)
}

// CreateUser inserts new staff account. Duplicate email is reported as
// models.ErrConflictData.
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.StaffUser) (*models.StaffUser, error) {
	err := scanUser(ur.db.QueryRow(ctx, insertUserQuery, user.Name, user.Email, user.PasswordHash, user.Role), user)
	if err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByEmail returns staff account by email
func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	user := models.StaffUser{}
	err := scanUser(ur.db.QueryRow(ctx, selectUserByEmailQuery, email), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByID returns staff account by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id uint64) (*models.StaffUser, error) {
	user := models.StaffUser{}
	err := scanUser(ur.db.QueryRow(ctx, selectUserByIDQuery, id), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUsers returns all staff accounts
func (ur *UserRepository) GetUsers(ctx context.Context) ([]models.StaffUser, error) {
	rows, err := ur.db.Query(ctx, selectUsersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.StaffUser{}

	for rows.Next() {
		user := models.StaffUser{}
		err = scanUser(rows, &user)
		if err != nil {
			continue
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// ToggleUserStatus flips account active flag and returns the new value
func (ur *UserRepository) ToggleUserStatus(ctx context.Context, id uint64) (bool, error) {
	var isActive bool
	err := ur.db.QueryRow(ctx, toggleUserStatusQuery, id).Scan(&isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, models.ErrDataNotFound
		}
		return false, err
	}

	return isActive, nil
}

// AwardStar increments staff member star count and returns the new value
func (ur *UserRepository) AwardStar(ctx context.Context, id uint64) (int, error) {
	var stars int
	err := ur.db.QueryRow(ctx, awardStarQuery, id).Scan(&stars)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrDataNotFound
		}
		return 0, err
	}

	return stars, nil
}
