package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rohit2924/news-sub000/internal/config"
	"github.com/Rohit2924/news-sub000/internal/domain/user"
	"github.com/Rohit2924/news-sub000/internal/gateway"
	apperrors "github.com/Rohit2924/news-sub000/pkg/errors"
	"github.com/Rohit2924/news-sub000/pkg/password"
)

const testJWTSecret = "0123456789abcdefghijklmnopqrstuvwxyz"

type fakeUserStore struct {
	byEmail map[string]*user.User
	created []user.CreateUserInput
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*user.User)}
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Create(_ context.Context, input user.CreateUserInput) (*user.User, error) {
	if _, exists := s.byEmail[input.Email]; exists {
		return nil, apperrors.ErrEmailExists
	}
	s.created = append(s.created, input)
	u := &user.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		FullName:     input.FullName,
		Role:         input.Role,
	}
	s.byEmail[input.Email] = u
	return u, nil
}

func newAuthHandler(store *fakeUserStore) (*AuthHandler, *gateway.Codec) {
	codec := gateway.NewCodec(testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	cookies := config.CookieConfig{AccessName: "auth-token", RefreshName: "refresh-token"}
	jwtCfg := config.JWTConfig{AccessExpiry: 15 * time.Minute, RefreshExpiry: 7 * 24 * time.Hour}
	return NewAuthHandler(store, codec, cookies, jwtCfg), codec
}

func jsonContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	store := newFakeUserStore()
	h, codec := newAuthHandler(store)

	c, rec := jsonContext(http.MethodPost, "/api/auth/register",
		`{"email":"Reader@Example.com","password":"hunter2hunter2","full_name":"A Reader"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, store.created, 1)
	assert.Equal(t, "reader@example.com", store.created[0].Email)
	assert.Equal(t, "user", store.created[0].Role)
	assert.NotEqual(t, "hunter2hunter2", store.created[0].PasswordHash)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "reader@example.com", resp.Email)
	assert.Equal(t, "user", resp.Role)
	assert.Equal(t, "/dashboard", resp.Redirect)

	access := cookieByName(rec, "auth-token")
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.True(t, codec.Verify(access.Value).Valid)

	refresh := cookieByName(rec, "refresh-token")
	require.NotNil(t, refresh)
	assert.True(t, codec.VerifyRefresh(refresh.Value).Valid)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	h, _ := newAuthHandler(newFakeUserStore())

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"hunter2hunter2"}`},
		{"bad email", `{"email":"not-an-email","password":"hunter2hunter2"}`},
		{"short password", `{"email":"reader@example.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := jsonContext(http.MethodPost, "/api/auth/register", tt.body)
			err := h.Register(c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeUserStore()
	hash, err := password.Hash("hunter2hunter2")
	require.NoError(t, err)
	store.byEmail["editor@example.com"] = &user.User{
		ID:           uuid.New(),
		Email:        "editor@example.com",
		PasswordHash: hash,
		Role:         "editor",
	}

	h, _ := newAuthHandler(store)
	c, rec := jsonContext(http.MethodPost, "/api/auth/login",
		`{"email":"Editor@Example.com","password":"hunter2hunter2"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "editor", resp.Role)
	assert.Equal(t, "/editor/dashboard", resp.Redirect)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	hash, err := password.Hash("hunter2hunter2")
	require.NoError(t, err)
	store.byEmail["editor@example.com"] = &user.User{
		ID:           uuid.New(),
		Email:        "editor@example.com",
		PasswordHash: hash,
		Role:         "editor",
	}

	h, _ := newAuthHandler(store)
	c, _ := jsonContext(http.MethodPost, "/api/auth/login",
		`{"email":"editor@example.com","password":"wrong-password"}`)

	err = h.Login(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _ := newAuthHandler(newFakeUserStore())

	c, _ := jsonContext(http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"hunter2hunter2"}`)

	err := h.Login(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestRefreshIssuesAccessTokenAndRedirects(t *testing.T) {
	h, codec := newAuthHandler(newFakeUserStore())

	refresh, err := codec.SignRefresh("user-1", "reader@example.com", gateway.RoleUser)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/refresh?redirect=%2Fapi%2Fdashboard%2Fx", nil)
	req.AddCookie(&http.Cookie{Name: "refresh-token", Value: refresh})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/dashboard/x", rec.Header().Get(echo.HeaderLocation))

	access := cookieByName(rec, "auth-token")
	require.NotNil(t, access)
	assert.True(t, codec.Verify(access.Value).Valid)
}

func TestRefreshRejectsOffSiteRedirect(t *testing.T) {
	h, codec := newAuthHandler(newFakeUserStore())

	refresh, err := codec.SignRefresh("user-1", "reader@example.com", gateway.RoleUser)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/refresh?redirect=%2F%2Fevil.example.com", nil)
	req.AddCookie(&http.Cookie{Name: "refresh-token", Value: refresh})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code, "off-site targets fall back to a plain ok response")
}

func TestRefreshWithoutCookie(t *testing.T) {
	h, _ := newAuthHandler(newFakeUserStore())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Refresh(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestRefreshWithInvalidTokenClearsCookies(t *testing.T) {
	h, _ := newAuthHandler(newFakeUserStore())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh-token", Value: "garbage"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Refresh(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	for _, name := range []string{"auth-token", "refresh-token"} {
		cookie := cookieByName(rec, name)
		require.NotNil(t, cookie, "cookie %s must be present", name)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestRefreshRejectsAccessTokenInRefreshCookie(t *testing.T) {
	h, codec := newAuthHandler(newFakeUserStore())

	access, err := codec.Sign("user-1", "reader@example.com", gateway.RoleUser)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh-token", Value: access})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = h.Refresh(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestLogoutClearsBothCookies(t *testing.T) {
	h, _ := newAuthHandler(newFakeUserStore())

	c, rec := jsonContext(http.MethodPost, "/api/auth/logout", "")

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, name := range []string{"auth-token", "refresh-token"} {
		cookie := cookieByName(rec, name)
		require.NotNil(t, cookie)
		assert.Negative(t, cookie.MaxAge)
	}
}
