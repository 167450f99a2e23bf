// Package config loads and caches the edge routing configuration.
package config

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrConfigUnavailable indicates no usable configuration could be loaded:
// credentials missing, the remote call failed, the response was unparsable,
// or a required parameter was absent. The caller must surface a 500-class
// response, never fall through to an unauthenticated default.
var ErrConfigUnavailable = errors.New("edge configuration unavailable")

// UnavailableError wraps ErrConfigUnavailable with diagnostic detail. The
// detail is for logs only; clients see a generic error.
type UnavailableError struct {
	// Reason describes what failed.
	Reason string

	// InvalidParameters are the names the parameter service reported as
	// invalid, when that is the cause.
	InvalidParameters []string

	// Err is the underlying cause, if any.
	Err error
}

func (e *UnavailableError) Error() string {
	msg := "edge configuration unavailable: " + e.Reason
	if len(e.InvalidParameters) > 0 {
		msg += " (invalid parameters: " + strings.Join(e.InvalidParameters, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConfigUnavailable) hold for wrapped errors.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrConfigUnavailable
}

// ParameterSource fetches named parameters from the remote parameter service.
// Implemented by paramstore.Client.
type ParameterSource interface {
	GetParameters(ctx context.Context, names []string) (values map[string]string, invalid []string, err error)
}

// ParameterNames are the Parameter Store entries holding the edge
// configuration. The exact names are a deploy-time contract with the
// provisioning stack.
type ParameterNames struct {
	AuthUsername   string
	AuthPassword   string
	ActiveVersions string
}

// All returns the names in request order.
func (n ParameterNames) All() []string {
	return []string{n.AuthUsername, n.AuthPassword, n.ActiveVersions}
}

// Loader provides a fresh-enough configuration to every request.
type Loader struct {
	source ParameterSource
	store  Store
	names  ParameterNames
	now    func() time.Time
	logger zerolog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithClock sets the time source. Used in tests to cross the TTL boundary
// without sleeping.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// NewLoader creates a Loader backed by a parameter source and a cache store.
func NewLoader(source ParameterSource, store Store, names ParameterNames, logger zerolog.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		store:  store,
		names:  names,
		now:    time.Now,
		logger: logger.With().Str("component", "config-loader").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the cached configuration when fresh, otherwise performs one
// signed fetch. On failure nothing is cached, so the next request naturally
// retries; no retry happens within a single call.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	now := l.now()

	if cached := l.store.Get(); cached != nil && cached.Fresh(now) {
		return cached, nil
	}

	values, invalid, err := l.source.GetParameters(ctx, l.names.All())
	if err != nil {
		return nil, &UnavailableError{Reason: "parameter fetch failed", Err: err}
	}

	username, hasUsername := values[l.names.AuthUsername]
	password, hasPassword := values[l.names.AuthPassword]
	if !hasUsername || !hasPassword {
		return nil, &UnavailableError{
			Reason:            "auth parameters missing from response",
			InvalidParameters: invalid,
		}
	}

	cfg := &Config{
		AuthUsername:   username,
		AuthPassword:   password,
		AuthChallenge:  BasicChallenge(username, password),
		ActiveVersions: ParseActiveVersions(values[l.names.ActiveVersions]),
		FetchedAt:      l.now(),
	}
	l.store.Set(cfg)

	l.logger.Debug().
		Strs("active_versions", cfg.ActiveVersions).
		Dur("ttl", CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}
