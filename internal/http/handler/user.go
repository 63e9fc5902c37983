package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Rohit2924/news-sub000/internal/domain/user"
	"github.com/Rohit2924/news-sub000/internal/gateway"
	apperrors "github.com/Rohit2924/news-sub000/pkg/errors"
)

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	List(ctx context.Context, limit, offset int) ([]*user.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, input user.UpdateProfileInput) (*user.User, error)
}

type UserHandler struct {
	users userStore
}

func NewUserHandler(users userStore) *UserHandler {
	return &UserHandler{users: users}
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toProfileResponse(u *user.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Profile returns the calling user's own profile.
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := identityFromContext(c)
	if err != nil {
		return err
	}

	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProfileResponse(u))
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		if normalized == "" || !strings.Contains(normalized, "@") {
			return apperrors.BadRequest("invalid email")
		}
		req.Email = &normalized
	}

	u, err := h.users.UpdateProfile(c.Request().Context(), id, user.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProfileResponse(u))
}

// ListUsers is the admin back-office user listing.
func (h *UserHandler) ListUsers(c echo.Context) error {
	limit, offset := pagination(c)

	users, err := h.users.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	out := make([]ProfileResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toProfileResponse(u))
	}

	return c.JSON(http.StatusOK, out)
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole promotes or demotes a user. Only roles from the known
// enumeration are accepted; the caller cannot invent privilege levels.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("invalid user id")
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	role := gateway.ParseRole(req.Role)
	if string(role) != strings.ToLower(strings.TrimSpace(req.Role)) {
		return apperrors.BadRequest("unknown role")
	}

	if err := h.users.UpdateRole(c.Request().Context(), id, string(role)); err != nil {
		return err
	}

	return okResponse(c)
}
