package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/multiview/multiview/internal/httputil"
	"github.com/multiview/multiview/internal/videoid"
)

type SecurityConfig struct {
	BaseURL string
	// EmbedBaseURL is the player host the grid frames; its origin is added
	// to frame-src.
	EmbedBaseURL   string
	FrameAncestors string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := hasHTTPS(cfg.BaseURL)

	embedBase := cfg.EmbedBaseURL
	if embedBase == "" {
		embedBase = videoid.DefaultEmbedBase
	}
	frameSrc := "'self'"
	autoplay := "self"
	if origin := originOf(embedBase); origin != "" {
		frameSrc += " " + origin
		autoplay += ` "` + origin + `"`
	}
	permissions := "autoplay=(" + autoplay + "), fullscreen=*, camera=(), microphone=(), geolocation=()"

	connectSrc := "'self'"
	if ws := websocketOrigin(cfg.BaseURL); ws != "" {
		connectSrc += " " + ws
	}

	extraAncestors := strings.TrimSpace(cfg.FrameAncestors)
	ancestors := "'self'"
	if extraAncestors != "" {
		ancestors += " " + extraAncestors
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := httputil.GenerateNonce()
			ctx := httputil.ContextWithNonce(r.Context(), nonce)

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			if extraAncestors == "" {
				w.Header().Set("X-Frame-Options", "SAMEORIGIN")
			}
			w.Header().Set("Permissions-Policy", permissions)

			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data:; script-src 'self' 'nonce-%s'; style-src 'self' 'nonce-%s'; frame-src %s; connect-src %s; frame-ancestors %s;",
				nonce, nonce, frameSrc, connectSrc, ancestors,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasHTTPS(baseURL string) bool {
	return strings.HasPrefix(baseURL, "https://")
}

// originOf returns scheme://host of raw, or "" when raw is not absolute.
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func websocketOrigin(baseURL string) string {
	origin := originOf(baseURL)
	switch {
	case strings.HasPrefix(origin, "https://"):
		return "wss://" + strings.TrimPrefix(origin, "https://")
	case strings.HasPrefix(origin, "http://"):
		return "ws://" + strings.TrimPrefix(origin, "http://")
	}
	return ""
}
