package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chopie/restaurant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*models.StaffUser
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*models.StaffUser)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.StaffUser) (*models.StaffUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, models.ErrConflictData
		}
	}

	f.nextID++
	user.ID = f.nextID
	user.IsActive = true
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.StaffUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrDataNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uint64) (*models.StaffUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetUsers(_ context.Context) ([]models.StaffUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := []models.StaffUser{}
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeUserRepo) ToggleUserStatus(_ context.Context, id uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return false, models.ErrDataNotFound
	}
	u.IsActive = !u.IsActive
	return u.IsActive, nil
}

func (f *fakeUserRepo) AwardStar(_ context.Context, id uint64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return 0, models.ErrDataNotFound
	}
	u.Stars++
	return u.Stars, nil
}

type fakeCredentialsMailer struct {
	mu   sync.Mutex
	sent int
}

func (f *fakeCredentialsMailer) QueueStaffCredentials(_ *models.StaffUser, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent++
}

func authFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeCredentialsMailer) {
	t.Helper()

	repo := newFakeUserRepo()
	token := NewAuthToken([]byte("0123456789abcdef"), time.Hour)
	mail := &fakeCredentialsMailer{}

	return NewAuthService(repo, token, &fakeAudit{}, mail), repo, mail
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password, role string, active bool) *models.StaffUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := repo.CreateUser(context.Background(), &models.StaffUser{
		Name:         "Seeded",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	require.NoError(t, err)

	if !active {
		repo.mu.Lock()
		repo.users[user.ID].IsActive = false
		repo.mu.Unlock()
	}

	return user
}

func TestLogin(t *testing.T) {
	svc, repo, _ := authFixture(t)
	seedUser(t, repo, "chef@chopie.test", "secret123", models.RoleStaff, true)

	token, user, err := svc.Login(context.Background(), "chef@chopie.test", "secret123")
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleStaff, user.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, _ := authFixture(t)
	seedUser(t, repo, "chef@chopie.test", "secret123", models.RoleStaff, true)

	_, _, err := svc.Login(context.Background(), "chef@chopie.test", "nope")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := authFixture(t)

	// unknown email reads the same as a wrong password
	_, _, err := svc.Login(context.Background(), "ghost@chopie.test", "secret123")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, repo, _ := authFixture(t)
	seedUser(t, repo, "gone@chopie.test", "secret123", models.RoleStaff, false)

	_, _, err := svc.Login(context.Background(), "gone@chopie.test", "secret123")
	require.ErrorIs(t, err, models.ErrUserInactive)
}

func TestCreateStaff(t *testing.T) {
	svc, _, mail := authFixture(t)
	admin := models.TokenPayload{UserID: 1, Role: models.RoleAdmin}

	user, err := svc.CreateStaff(context.Background(), admin, "Ngozi", "Ngozi@Chopie.Test", "initialpw", models.RoleStaff, "")
	require.NoError(t, err)

	assert.Equal(t, "ngozi@chopie.test", user.Email)
	assert.Equal(t, 1, mail.sent)

	// stored hash verifies against the initial password
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("initialpw")))
}

func TestCreateStaffUnknownRole(t *testing.T) {
	svc, _, _ := authFixture(t)
	admin := models.TokenPayload{UserID: 1, Role: models.RoleAdmin}

	_, err := svc.CreateStaff(context.Background(), admin, "Ngozi", "n@chopie.test", "pw", "SuperAdmin", "")

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	svc, repo, _ := authFixture(t)
	seedUser(t, repo, "taken@chopie.test", "pw", models.RoleStaff, true)
	admin := models.TokenPayload{UserID: 1, Role: models.RoleAdmin}

	_, err := svc.CreateStaff(context.Background(), admin, "Dup", "taken@chopie.test", "pw2", models.RoleStaff, "")
	require.ErrorIs(t, err, models.ErrConflictData)
}

func TestTokenRoundTrip(t *testing.T) {
	token := NewAuthToken([]byte("0123456789abcdef"), time.Hour)

	user := &models.StaffUser{ID: 42, Name: "Chidi", Role: models.RoleManager}

	signed, err := token.CreateToken(user)
	require.NoError(t, err)

	payload, err := token.VerifyToken(signed)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), payload.UserID)
	assert.Equal(t, "Chidi", payload.Name)
	assert.Equal(t, models.RoleManager, payload.Role)
}

func TestTokenWrongKey(t *testing.T) {
	token := NewAuthToken([]byte("0123456789abcdef"), time.Hour)
	other := NewAuthToken([]byte("fedcba9876543210"), time.Hour)

	signed, err := token.CreateToken(&models.StaffUser{ID: 1, Role: models.RoleStaff})
	require.NoError(t, err)

	_, err = other.VerifyToken(signed)
	require.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	token := NewAuthToken([]byte("0123456789abcdef"), -time.Minute)

	signed, err := token.CreateToken(&models.StaffUser{ID: 1, Role: models.RoleStaff})
	require.NoError(t, err)

	_, err = token.VerifyToken(signed)
	require.Error(t, err)
}

type failingAudit struct{}

func (failingAudit) CreateEntry(context.Context, models.AuditEntry) error {
	return errors.New("audit store down")
}

func TestCreateStaffSurvivesAuditFailure(t *testing.T) {
	repo := newFakeUserRepo()
	token := NewAuthToken([]byte("0123456789abcdef"), time.Hour)
	svc := NewAuthService(repo, token, failingAudit{}, &fakeCredentialsMailer{})

	actor := models.TokenPayload{UserID: 1, Name: "Root", Role: models.RoleAdmin}
	user, err := svc.CreateStaff(context.Background(), actor, "Chidi", "chidi@chopie.test", "secret123", models.RoleStaff, "")
	require.NoError(t, err)
	assert.Equal(t, "chidi@chopie.test", user.Email)
}
