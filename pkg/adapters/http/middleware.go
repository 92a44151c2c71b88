package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/ports"
)

// errBadRequest marks errors caused by the request itself.
var errBadRequest = errors.New("bad request")

// requestValidator rejects requests that do not match openapi.yaml.
// Paths that are not part of the document pass through untouched.
func requestValidator(doc *openapi3.T, onError func(http.ResponseWriter, *http.Request, error)) (func(http.Handler) http.Handler, error) {
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				onError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// publicPaths are served without a bearer token. They carry no session data.
var publicPaths = map[string]bool{
	"/health":       true,
	"/openapi.yaml": true,
	"/swagger":      true,
	"/metrics":      true,
}

// authenticate resolves the bearer token of every non-public request into an
// identity. This includes the /events stream.
func authenticate(provider ports.IdentityProvider, logger *slog.Logger, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				onError(w, r, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthorized))
				return
			}
			identity, err := provider.Verify(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					logger.Error("identity verification failed", "err", err)
				}
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrMissingSessionID),
		errors.Is(err, domain.ErrInvalidContext):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotReadyForSubmission):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
