package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"

	"github.com/AnshRaj112/contact-manager/internal/metrics"
	"github.com/AnshRaj112/contact-manager/internal/models"
	"github.com/AnshRaj112/contact-manager/internal/services"
)

const (
	ChainAPI = "api"
	ChainWeb = "web"

	APIPrefix = "/api"
	LoginPath = "/login"
)

// PrincipalResolver turns credentials or a session's user id into a principal.
type PrincipalResolver interface {
	Authenticate(ctx context.Context, username, password string) (*models.Principal, error)
	PrincipalByID(ctx context.Context, userID int64) (*models.Principal, error)
}

// Chain is one ordered rule set of the authentication gate.
type Chain struct {
	Name string
	// Match selects the requests this chain is responsible for.
	Match func(r *http.Request) bool
	// Resolve returns the request's principal, nil when anonymous.
	Resolve func(w http.ResponseWriter, r *http.Request) (*models.Principal, error)
	// Public lists paths served to anonymous requests.
	Public func(path string) bool
	// Challenge answers an anonymous request to a protected path.
	Challenge func(w http.ResponseWriter, r *http.Request)
}

// Gate runs the first chain whose Match accepts the request. A request no chain
// matches is rejected with 403.
func Gate(chains []Chain, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			chain, ok := selectChain(chains, r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			p, err := chain.Resolve(w, r)
			if err != nil {
				logger.Error("failed to resolve principal", "chain", chain.Name, "path", r.URL.Path, "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if p != nil {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
				return
			}
			if chain.Public(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			m.RecordAuthFailure(chain.Name)
			chain.Challenge(w, r)
		})
	}
}

func selectChain(chains []Chain, r *http.Request) (Chain, bool) {
	for _, c := range chains {
		if c.Match(r) {
			return c, true
		}
	}
	return Chain{}, false
}

// APIChain authenticates every /api request with HTTP Basic credentials. It never
// reads or creates a session and never redirects.
func APIChain(auth PrincipalResolver, logger *slog.Logger) Chain {
	return Chain{
		Name:  ChainAPI,
		Match: func(r *http.Request) bool { return IsAPIPath(r.URL.Path) },
		Resolve: func(w http.ResponseWriter, r *http.Request) (*models.Principal, error) {
			username, password, ok := r.BasicAuth()
			if !ok {
				return nil, nil
			}
			p, err := auth.Authenticate(r.Context(), username, password)
			if errors.Is(err, services.ErrAuthenticationFailed) {
				logger.Debug("basic authentication rejected", "path", r.URL.Path)
				return nil, nil
			}
			return p, err
		},
		Public: pathIn("/error"),
		Challenge: func(w http.ResponseWriter, r *http.Request) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "Unauthorized"})
		},
	}
}

// WebChainConfig wires the session-backed chain.
type WebChainConfig struct {
	Auth     PrincipalResolver
	Sessions services.SessionStore
	Cookie   SessionCookie
	Logger   *slog.Logger
}

// WebChain resolves the principal from the session cookie on every path and sends
// anonymous requests for protected pages to the login form.
func WebChain(cfg WebChainConfig) Chain {
	return Chain{
		Name:  ChainWeb,
		Match: func(*http.Request) bool { return true },
		Resolve: func(w http.ResponseWriter, r *http.Request) (*models.Principal, error) {
			token := cfg.Cookie.Read(r)
			if token == "" {
				return nil, nil
			}

			userID, ok, err := cfg.Sessions.Lookup(r.Context(), token)
			if err != nil {
				return nil, err
			}
			if !ok {
				cfg.Cookie.Clear(w)
				return nil, nil
			}

			p, err := cfg.Auth.PrincipalByID(r.Context(), userID)
			if errors.Is(err, services.ErrUnauthenticated) {
				cfg.Logger.Info("session for missing user dropped", "user_id", userID)
				_ = cfg.Sessions.Invalidate(r.Context(), token)
				cfg.Cookie.Clear(w)
				return nil, nil
			}
			if err != nil {
				return nil, err
			}

			if err := cfg.Sessions.Refresh(r.Context(), token); err != nil {
				cfg.Logger.Warn("failed to refresh session", "user_id", userID, "error", err)
			}
			return p, nil
		},
		Public: pathIn("/", LoginPath, "/register", "/error", "/logout", "/health", "/metrics"),
		Challenge: func(w http.ResponseWriter, r *http.Request) {
			target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
		},
	}
}

// IsAPIPath reports whether path belongs to the JSON API.
func IsAPIPath(path string) bool {
	return path == APIPrefix || strings.HasPrefix(path, APIPrefix+"/")
}

func pathIn(paths ...string) func(string) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[path]
		return ok
	}
}
