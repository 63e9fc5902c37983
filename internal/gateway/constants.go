package gateway

const (
	// ContextKeyUserID and friends expose the verified identity to handlers.
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyNonce     = "csp_nonce"

	HeaderUserID        = "X-User-Id"
	HeaderUserEmail     = "X-User-Email"
	HeaderUserRole      = "X-User-Role"
	HeaderCorrelationID = "X-Correlation-Id"
	HeaderAuthToken     = "X-Auth-Token"
	HeaderNonce         = "X-Nonce"
	HeaderRequestID     = "X-Request-ID"

	loginPagePath    = "/login"
	registerPagePath = "/register"
	loginAPIPath     = "/api/auth/login"
	registerAPIPath  = "/api/auth/register"
	refreshAPIPath   = "/api/auth/refresh"
	apiPathPrefix    = "/api/"

	redirectParam = "redirect"
	expiredMarker = "expired=true"

	attemptKeyPrefix = "login_attempts:"
)

const (
	msgTooManyAttempts = "too many login attempts, try again later"

	jsonKeyError = "error"
)

// isLoginPath reports whether the path is a login submission target.
// Only these paths are subject to the attempt limiter.
func isLoginPath(path string) bool {
	return path == loginPagePath || path == loginAPIPath
}

// isAuthEntryPath reports whether the path is a login/registration-style
// page that an already-authenticated user should be redirected away from.
func isAuthEntryPath(path string) bool {
	switch path {
	case loginPagePath, registerPagePath, loginAPIPath, registerAPIPath:
		return true
	}
	return false
}

func isAPIPath(path string) bool {
	return len(path) >= len(apiPathPrefix) && path[:len(apiPathPrefix)] == apiPathPrefix
}
