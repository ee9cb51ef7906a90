package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"clubsite/pkg/logger"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins holds exact origins, "*" or wildcard subdomain patterns
	// such as "https://*.pages.dev". Empty allows any origin.
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns the configuration used by the site frontend.
// Streams need Last-Event-ID; exports need Content-Disposition exposed.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"Authorization",
			"Last-Event-ID",
			"X-Request-ID",
		},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

type originMatcher struct {
	any      bool
	exact    map[string]bool
	suffixes []string // "https://*.example.com" is kept as scheme + "://" and ".example.com"
	schemes  []string
}

func newOriginMatcher(origins []string) *originMatcher {
	m := &originMatcher{any: len(origins) == 0, exact: make(map[string]bool)}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case o == "*":
			m.any = true
		case strings.Contains(o, "://*."):
			scheme, host, _ := strings.Cut(o, "://*")
			m.schemes = append(m.schemes, scheme+"://")
			m.suffixes = append(m.suffixes, host)
		case o != "":
			m.exact[o] = true
		}
	}
	return m
}

func (m *originMatcher) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if m.any || m.exact[origin] {
		return true
	}
	for i, suffix := range m.suffixes {
		if strings.HasPrefix(origin, m.schemes[i]) && strings.HasSuffix(origin, suffix) &&
			len(origin) > len(m.schemes[i])+len(suffix) {
			return true
		}
	}
	return false
}

// CORS creates a CORS middleware. Preflight requests are answered directly.
func CORS(config *CORSConfig, logger *logger.Logger) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultCORSConfig()
	}

	origins := newOriginMatcher(config.AllowedOrigins)

	static := map[string]string{}
	if config.AllowCredentials {
		static["Access-Control-Allow-Credentials"] = "true"
	}
	if len(config.AllowedMethods) > 0 {
		static["Access-Control-Allow-Methods"] = strings.Join(config.AllowedMethods, ", ")
	}
	if len(config.AllowedHeaders) > 0 {
		static["Access-Control-Allow-Headers"] = strings.Join(config.AllowedHeaders, ", ")
	}
	if len(config.ExposedHeaders) > 0 {
		static["Access-Control-Expose-Headers"] = strings.Join(config.ExposedHeaders, ", ")
	}
	if config.MaxAge > 0 {
		static["Access-Control-Max-Age"] = strconv.Itoa(config.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")

			if origins.allows(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				for k, v := range static {
					h.Set(k, v)
				}
			} else if origin != "" {
				logger.WithField("origin", origin).Debug("CORS origin not allowed")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
