package middleware

import (
	"fmt"
	"innkeeper/config"
	"innkeeper/infras/otel"
	"innkeeper/shared"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	"innkeeper/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
	SearchCooldown(next http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spanName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)

		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, spanName)
		defer scope.End()

		rctx := chi.RouteContext(ctx)
		routePattern := ""

		if rctx != nil {
			routePattern = rctx.RoutePattern()
		}

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.route":      routePattern,
			"http.method":     r.Method,
			"http.user_agent": r.Header.Get(constant.RequestHeaderUserAgent),
			"http.host":       r.Host,
			"http.source":     a.getClientIP(r),
		})

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(ctx))

		scope.SetAttributes(map[string]any{
			"http.status_code": rec.status,
		})
	})
}

const (
	cacheKeySearchCooldown = "search-cooldown"
)

// SearchCooldown throttles repeated availability searches per user. The cooldown
// window lives in redis so it holds across instances.
func (a *appMiddleware) SearchCooldown(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cooldownMillis := a.config.App.SearchCooldownMillis
		if cooldownMillis <= 0 {
			next.ServeHTTP(w, r)

			return
		}

		userID, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		if userID == "" {
			userID = a.getClientIP(r)
		}

		cacheKey := shared.BuildCacheKey(cacheKeySearchCooldown, userID)

		var marker string

		err := a.cache.Get(r.Context(), cacheKey, &marker)
		if err == nil {
			response.WithSearchCooldown(w)

			return
		}

		cooldownSecs := max(1, cooldownMillis/1000)

		if err := a.cache.Save(r.Context(), cacheKey, "1", cooldownSecs); err != nil {
			next.ServeHTTP(w, r)

			return
		}

		next.ServeHTTP(w, r)
	})
}
