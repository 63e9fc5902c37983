package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Rohit2924/news-sub000/internal/config"
	"github.com/Rohit2924/news-sub000/internal/domain/user"
	"github.com/Rohit2924/news-sub000/internal/gateway"
	apperrors "github.com/Rohit2924/news-sub000/pkg/errors"
	"github.com/Rohit2924/news-sub000/pkg/password"
)

// Pre-computed bcrypt hash (cost 12) used to equalize timing on failed
// lookups. The plaintext is irrelevant.
const dummyBcryptHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

const (
	minPasswordLength = 8

	msgEmailRequired    = "email is required"
	msgPasswordTooShort = "password must be at least 8 characters"
	msgMissingRefresh   = "missing refresh token"
	msgInvalidRefresh   = "invalid or expired refresh token"
)

type userAuthStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
}

type AuthHandler struct {
	users   userAuthStore
	codec   *gateway.Codec
	cookies config.CookieConfig
	jwt     config.JWTConfig
}

func NewAuthHandler(users userAuthStore, codec *gateway.Codec, cookies config.CookieConfig, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		users:   users,
		codec:   codec,
		cookies: cookies,
		jwt:     jwt,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return apperrors.BadRequest(msgEmailRequired)
	}
	if len(req.Password) < minPasswordLength {
		return apperrors.BadRequest(msgPasswordTooShort)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return apperrors.InternalServer("failed to hash password", err)
	}

	u, err := h.users.Create(c.Request().Context(), user.CreateUserInput{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         string(gateway.RoleUser),
	})
	if err != nil {
		return err
	}

	return h.establishSession(c, u, http.StatusCreated)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := h.users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		// Burn a bcrypt comparison so a missing account is not
		// distinguishable by response time.
		password.Verify(req.Password, dummyBcryptHash)
		return apperrors.InvalidCredentials()
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return apperrors.InvalidCredentials()
	}

	return h.establishSession(c, u, http.StatusOK)
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// gateway redirects expired sessions here with the original destination
// in the redirect parameter so the client can resume.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(h.cookies.RefreshName)
	if err != nil || cookie.Value == "" {
		return apperrors.Unauthorized(msgMissingRefresh)
	}

	res := h.codec.VerifyRefresh(cookie.Value)
	if !res.Valid {
		h.clearCookie(c, h.cookies.RefreshName)
		h.clearCookie(c, h.cookies.AccessName)
		return apperrors.Unauthorized(msgInvalidRefresh)
	}

	role := gateway.ParseRole(res.Claims.Role)
	accessToken, err := h.codec.Sign(res.Claims.UserID, res.Claims.Email, role)
	if err != nil {
		return apperrors.InternalServer("failed to sign access token", err)
	}

	h.setCookie(c, h.cookies.AccessName, accessToken, h.jwt.AccessExpiry)

	if target := c.QueryParam("redirect"); isLocalRedirect(target) {
		return c.Redirect(http.StatusFound, target)
	}

	return okResponse(c)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearCookie(c, h.cookies.AccessName)
	h.clearCookie(c, h.cookies.RefreshName)
	return okResponse(c)
}

func (h *AuthHandler) establishSession(c echo.Context, u *user.User, status int) error {
	role := gateway.ParseRole(u.Role)

	accessToken, err := h.codec.Sign(u.ID.String(), u.Email, role)
	if err != nil {
		return apperrors.InternalServer("failed to sign access token", err)
	}

	refreshToken, err := h.codec.SignRefresh(u.ID.String(), u.Email, role)
	if err != nil {
		return apperrors.InternalServer("failed to sign refresh token", err)
	}

	h.setCookie(c, h.cookies.AccessName, accessToken, h.jwt.AccessExpiry)
	h.setCookie(c, h.cookies.RefreshName, refreshToken, h.jwt.RefreshExpiry)

	return c.JSON(status, SessionResponse{
		UserID:   u.ID.String(),
		Email:    u.Email,
		Role:     string(role),
		Redirect: gateway.LandingPath(role),
	})
}

func (h *AuthHandler) setCookie(c echo.Context, name, value string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// isLocalRedirect accepts only same-site absolute paths, rejecting
// protocol-relative and absolute URLs.
func isLocalRedirect(target string) bool {
	return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//")
}
