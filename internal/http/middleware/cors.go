package middleware

import (
	"net/http"

	"github.com/arredo/backoffice-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// eventHeaders are always exposed so browser clients can read them
var eventHeaders = []string{"X-Event", RequestIDHeader, "Content-Disposition", "Location"}

func isDevelopment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

// CORS returns a CORS middleware configured from the application config
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   mergeHeaders(cfg.ExposedHeaders, eventHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	allowAny := func(r *http.Request, origin string) bool {
		return origin != ""
	}

	wildcard := false
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			wildcard = true
			break
		}
	}

	switch {
	case wildcard:
		if !isDevelopment(environment) {
			logger.Warn("CORS configured with wildcard origin in non-development environment",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAny
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))
	case isDevelopment(environment):
		options.AllowOriginFunc = allowAny
		logger.Info("CORS configured to allow all origins in development mode")
	default:
		// empty AllowedOrigins would mean "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return false
		}
		logger.Warn("CORS configured with no allowed origins - all cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func mergeHeaders(configured, required []string) []string {
	out := append([]string{}, configured...)
	seen := make(map[string]bool, len(out))
	for _, h := range out {
		seen[http.CanonicalHeaderKey(h)] = true
	}
	for _, h := range required {
		if !seen[http.CanonicalHeaderKey(h)] {
			out = append(out, h)
			seen[http.CanonicalHeaderKey(h)] = true
		}
	}
	return out
}
