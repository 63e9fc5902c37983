// Package audit emits ephemeral security-decision events. Events are not
// persisted here; they are handed to the process log sink and collected
// externally.
package audit

import (
	"time"

	"github.com/rs/zerolog"
)

// Kind identifies the security decision being recorded.
type Kind string

const (
	KindRateLimitExceeded        Kind = "RATE_LIMIT_EXCEEDED"
	KindAuthenticatedRedirect    Kind = "AUTHENTICATED_USER_REDIRECT"
	KindUnauthorizedNoToken      Kind = "UNAUTHORIZED_ACCESS_NO_TOKEN"
	KindTokenRefreshRedirect     Kind = "TOKEN_REFRESH_REDIRECT"
	KindUnauthorizedInvalidToken Kind = "UNAUTHORIZED_ACCESS_INVALID_TOKEN"
	KindInsufficientPermissions  Kind = "INSUFFICIENT_PERMISSIONS"
	KindAuthorizedAccess         Kind = "AUTHORIZED_ACCESS"
)

// Level is the severity attached to an event.
type Level string

const (
	LevelInfo Level = "info"
	LevelWarn Level = "warn"
)

// Event is one security decision with its request context.
type Event struct {
	Kind      Kind
	Level     Level
	Method    string
	Path      string
	ClientIP  string
	RequestID string
	Subject   string
	Email     string
	Role      string
	Fields    map[string]string
	Time      time.Time
}

// Recorder writes audit events to a structured log sink.
type Recorder struct {
	logger zerolog.Logger
}

func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{logger: logger.With().Str("component", "audit").Logger()}
}

// Record emits the event. It never blocks on I/O beyond the sink write
// and never returns an error to the caller.
func (r *Recorder) Record(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	var evt *zerolog.Event
	switch e.Level {
	case LevelWarn:
		evt = r.logger.Warn()
	default:
		evt = r.logger.Info()
	}

	evt = evt.
		Str("event", string(e.Kind)).
		Str("method", e.Method).
		Str("path", e.Path).
		Str("client_ip", e.ClientIP).
		Time("at", e.Time)

	if e.RequestID != "" {
		evt = evt.Str("request_id", e.RequestID)
	}
	if e.Subject != "" {
		evt = evt.Str("subject", e.Subject)
	}
	if e.Email != "" {
		evt = evt.Str("email", e.Email)
	}
	if e.Role != "" {
		evt = evt.Str("role", e.Role)
	}
	for k, v := range e.Fields {
		evt = evt.Str(k, v)
	}

	evt.Msg("security decision")
}
