package gateway

import "strings"

// RouteContext is the derived security classification of a request path.
// It is recomputed per request and never stored.
type RouteContext struct {
	Public       bool
	RequiredRole Role
}

type matchKind int

const (
	matchExact matchKind = iota
	matchPrefix
)

type routeRule struct {
	kind    matchKind
	pattern string
	public  bool
	role    Role
}

func (r routeRule) matches(path string) bool {
	if r.kind == matchExact {
		return path == r.pattern
	}
	return strings.HasPrefix(path, r.pattern)
}

// defaultRules is the authored route table. Order is load-bearing: public
// rules come first and short-circuit, then role groups from most to least
// privileged, so a path matching both an admin and a user pattern
// resolves to admin. Author the most specific patterns first.
var defaultRules = []routeRule{
	// Public pages and APIs.
	{matchExact, "/", true, RoleGuest},
	{matchExact, "/login", true, RoleGuest},
	{matchExact, "/register", true, RoleGuest},
	{matchExact, "/search", true, RoleGuest},
	{matchExact, "/about", true, RoleGuest},
	{matchExact, "/contact", true, RoleGuest},
	{matchExact, "/health", true, RoleGuest},
	{matchPrefix, "/news", true, RoleGuest},
	{matchPrefix, "/category", true, RoleGuest},
	{matchPrefix, "/api/auth/", true, RoleGuest},
	{matchPrefix, "/api/news", true, RoleGuest},
	{matchPrefix, "/api/categories", true, RoleGuest},

	// Admin back office.
	{matchPrefix, "/admin", false, RoleAdmin},
	{matchPrefix, "/api/admin", false, RoleAdmin},

	// Editor desk.
	{matchPrefix, "/editor", false, RoleEditor},
	{matchPrefix, "/api/editor", false, RoleEditor},

	// Authenticated user surfaces.
	{matchExact, "/dashboard", false, RoleUser},
	{matchPrefix, "/profile", false, RoleUser},
	{matchPrefix, "/api/dashboard", false, RoleUser},
	{matchPrefix, "/api/user", false, RoleUser},
	{matchPrefix, "/api/comments", false, RoleUser},
}

// Classifier maps request paths to their security context using an
// explicit ordered rule list; first match wins.
type Classifier struct {
	rules []routeRule
}

func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules}
}

// NewClassifierWithRules builds a classifier over a custom route table.
func NewClassifierWithRules(rules []routeRule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify derives the security context for a path. Unknown paths fail
// closed: they require authentication at user level, never guest.
func (c *Classifier) Classify(path string) RouteContext {
	normalized := strings.ToLower(path)

	for _, rule := range c.rules {
		if rule.matches(normalized) {
			if rule.public {
				return RouteContext{Public: true, RequiredRole: RoleGuest}
			}
			return RouteContext{Public: false, RequiredRole: rule.role}
		}
	}

	return RouteContext{Public: false, RequiredRole: RoleUser}
}

var staticExtensions = map[string]bool{
	".css": true, ".js": true, ".map": true, ".png": true, ".jpg": true,
	".jpeg": true, ".gif": true, ".svg": true, ".ico": true, ".webp": true,
	".woff": true, ".woff2": true, ".ttf": true,
}

// isStaticAsset reports whether the path is outside the gateway's filter:
// static files are served as-is without security processing.
func isStaticAsset(path string) bool {
	if strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/assets/") {
		return true
	}
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		return staticExtensions[strings.ToLower(path[idx:])]
	}
	return false
}
