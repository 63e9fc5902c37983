// Package gateway is the edge-level request interceptor: it classifies
// routes, rate-limits login attempts, verifies access tokens, enforces
// the role hierarchy, and hardens every outgoing response. Exactly one
// terminal action is taken per request: pass through, redirect, or
// reject.
package gateway

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Rohit2924/news-sub000/internal/audit"
	"github.com/Rohit2924/news-sub000/internal/config"
)

// Gateway sequences the per-request security pipeline. It holds no
// per-request state; the only shared mutable resource is the lazily
// connected attempt counter, owned by its backend.
type Gateway struct {
	codec      *Codec
	classifier *Classifier
	limiter    *AttemptLimiter
	hardener   *Hardener
	recorder   *audit.Recorder
	cookies    config.CookieConfig
	logger     zerolog.Logger
}

func New(codec *Codec, classifier *Classifier, limiter *AttemptLimiter, hardener *Hardener, recorder *audit.Recorder, cookies config.CookieConfig, logger zerolog.Logger) *Gateway {
	return &Gateway{
		codec:      codec,
		classifier: classifier,
		limiter:    limiter,
		hardener:   hardener,
		recorder:   recorder,
		cookies:    cookies,
		logger:     logger,
	}
}

// Middleware returns the Echo middleware that runs the pipeline for
// every request except static assets.
func (g *Gateway) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			if isStaticAsset(c.Request().URL.Path) {
				return next(c)
			}

			nonce := g.hardener.Apply(c.Response().Header())
			c.Set(ContextKeyNonce, nonce)

			// A panic inside the pipeline must never fall through to an
			// allow-by-default: degrade to deny and redirect to login.
			defer func() {
				if r := recover(); r != nil {
					g.logger.Error().Interface("panic", r).
						Str("path", c.Request().URL.Path).
						Msg("gateway panic, denying request")
					err = c.Redirect(http.StatusFound, loginPagePath)
				}
			}()

			return g.handle(c, next)
		}
	}
}

func (g *Gateway) handle(c echo.Context, next echo.HandlerFunc) error {
	req := c.Request()
	path := req.URL.Path

	// 1. Rate-check login submissions.
	if req.Method == http.MethodPost && isLoginPath(path) {
		if g.limiter.Check(req.Context(), c.RealIP()) {
			g.record(c, audit.KindRateLimitExceeded, audit.LevelWarn, nil, nil)
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				jsonKeyError: msgTooManyAttempts,
			})
		}
	}

	// 2. Extract credentials.
	accessToken := readCookie(c, g.cookies.AccessName)
	refreshToken := readCookie(c, g.cookies.RefreshName)

	// 3. Classify the route.
	route := g.classifier.Classify(path)

	// 4. Public branch. An authenticated user revisiting a login or
	// registration page is sent to their landing page instead.
	if route.Public {
		if isAuthEntryPath(path) && accessToken != "" {
			if res := g.codec.Verify(accessToken); res.Valid {
				role := ParseRole(res.Claims.Role)
				g.record(c, audit.KindAuthenticatedRedirect, audit.LevelInfo, res.Claims, nil)
				return c.Redirect(http.StatusFound, LandingPath(role))
			}
		}
		return next(c)
	}

	// 5. Protected route with no credential.
	if accessToken == "" {
		g.record(c, audit.KindUnauthorizedNoToken, audit.LevelWarn, nil, nil)
		return c.Redirect(http.StatusFound, loginPagePath)
	}

	// 6. Verify the token.
	res := g.codec.Verify(accessToken)
	if !res.Valid {
		if res.Reason == FailureExpired && refreshToken != "" {
			g.record(c, audit.KindTokenRefreshRedirect, audit.LevelInfo, nil, nil)
			target := refreshAPIPath + "?" + redirectParam + "=" + url.QueryEscape(req.URL.RequestURI())
			return c.Redirect(http.StatusFound, target)
		}

		g.clearAccessCookie(c)
		g.record(c, audit.KindUnauthorizedInvalidToken, audit.LevelWarn, nil, map[string]string{
			"reason": string(res.Reason),
		})
		return c.Redirect(http.StatusFound, loginPagePath+"?"+expiredMarker)
	}

	role := ParseRole(res.Claims.Role)

	// 7. Authorize against the route's required role. Denial is not an
	// error: the user lands on their own role's page.
	if !Authorize(role, route.RequiredRole) {
		g.record(c, audit.KindInsufficientPermissions, audit.LevelWarn, res.Claims, map[string]string{
			"required_role": string(route.RequiredRole),
		})
		return c.Redirect(http.StatusFound, LandingPath(role))
	}

	// 8. Admit. API handlers receive the verified identity and a fresh
	// correlation id as request headers so they need not re-verify.
	c.Set(ContextKeyUserID, res.Claims.UserID)
	c.Set(ContextKeyUserEmail, res.Claims.Email)
	c.Set(ContextKeyUserRole, role)

	if isAPIPath(path) {
		header := req.Header
		header.Set(HeaderUserID, res.Claims.UserID)
		header.Set(HeaderUserEmail, res.Claims.Email)
		header.Set(HeaderUserRole, string(role))
		header.Set(HeaderCorrelationID, uuid.New().String())
		header.Set(HeaderAuthToken, accessToken)
	}

	g.record(c, audit.KindAuthorizedAccess, audit.LevelInfo, res.Claims, nil)
	return next(c)
}

func (g *Gateway) record(c echo.Context, kind audit.Kind, level audit.Level, claims *Claims, fields map[string]string) {
	e := audit.Event{
		Kind:      kind,
		Level:     level,
		Method:    c.Request().Method,
		Path:      c.Request().URL.Path,
		ClientIP:  c.RealIP(),
		RequestID: c.Response().Header().Get(HeaderRequestID),
		Fields:    fields,
	}
	if claims != nil {
		e.Subject = claims.UserID
		e.Email = claims.Email
		e.Role = claims.Role
	}
	g.recorder.Record(e)
}

func (g *Gateway) clearAccessCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     g.cookies.AccessName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   g.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}
