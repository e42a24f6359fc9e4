package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chopie/restaurant/internal/models"
	"github.com/go-chi/chi/v5"
)

// AuthService is staff authentication and account management consumed by
// HTTP handlers
type AuthService interface {
	// Login authenticates staff member and issues token
	Login(ctx context.Context, email, password string) (string, *models.StaffUser, error)
	// CreateStaff provisions a staff account
	CreateStaff(ctx context.Context, actor models.TokenPayload, name, email, password, role, sourceAddr string) (*models.StaffUser, error)
	// ListStaff returns all staff accounts
	ListStaff(ctx context.Context) ([]models.StaffUser, error)
	// ToggleStatus flips account active flag
	ToggleStatus(ctx context.Context, actor models.TokenPayload, userID uint64, sourceAddr string) (bool, error)
	// AwardStar gives a performance star
	AwardStar(ctx context.Context, actor models.TokenPayload, userID uint64, sourceAddr string) (int, error)
}

// UserHandler represents HTTP handler for staff account requests
type UserHandler struct {
	svc AuthService
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(svc AuthService) *UserHandler {
	return &UserHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  *models.StaffUser `json:"user"`
}

// Login authenticates staff member
// 200 — token issued;
// 400 — malformed request;
// 401 — invalid credentials or deactivated account;
func (uh *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondErr(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		token, user, err := uh.svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", loginResponse{Token: token, User: user})
	}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser provisions a staff account
func (uh *UserHandler) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondErr(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		user, err := uh.svc.CreateStaff(r.Context(), *actor, req.Name, req.Email, req.Password, req.Role, r.RemoteAddr)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusCreated, "Staff account created", user)
	}
}

// ListUsers returns all staff accounts
func (uh *UserHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := uh.svc.ListStaff(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", users)
	}
}

// ToggleUserStatus activates or deactivates a staff account
func (uh *UserHandler) ToggleUserStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		userID, err := userIDParam(r)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid user id")
			return
		}

		isActive, err := uh.svc.ToggleStatus(r.Context(), *actor, userID, r.RemoteAddr)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", map[string]bool{"isActive": isActive})
	}
}

// AwardStar gives a performance star to a staff member
func (uh *UserHandler) AwardStar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context())
		if !ok {
			respondErr(w, http.StatusUnauthorized, "not authorized")
			return
		}

		userID, err := userIDParam(r)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid user id")
			return
		}

		stars, err := uh.svc.AwardStar(r.Context(), *actor, userID, r.RemoteAddr)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondOK(w, http.StatusOK, "", map[string]int{"stars": stars})
	}
}

func userIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
}
