package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/api/responses"
	"github.com/alanhoffer/hf-dashboard/pkg/config"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

// maxLoginBody bounds how much of a login body is buffered to read the email.
const maxLoginBody = 8 << 10

type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type loginBucket struct {
	dimension string
	value     string
	limit     int
}

// LoginRateLimit throttles login attempts per client IP and per email. Email
// counters are keyed by a sha256 of the normalized address.
func LoginRateLimit(cfg config.AuthRateLimitConfig, store windowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.LoginWindow <= 0 || (cfg.LoginIPLimit <= 0 && cfg.LoginEmailLimit <= 0) {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			buckets := make([]loginBucket, 0, 2)
			if cfg.LoginIPLimit > 0 {
				buckets = append(buckets, loginBucket{dimension: "ip", value: clientIP(r, cfg.TrustProxyHeaders), limit: cfg.LoginIPLimit})
			}
			if cfg.LoginEmailLimit > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBody))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if email := loginEmail(body); email != "" {
					buckets = append(buckets, loginBucket{dimension: "email", value: sha256Hex(email), limit: cfg.LoginEmailLimit})
				}
			}

			for _, b := range buckets {
				if b.value == "" {
					continue
				}
				allowed, attempts, err := store.FixedWindowAllow(ctx, "login:"+b.dimension+":"+b.value, int64(b.limit), cfg.LoginWindow)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"dimension": b.dimension,
							"attempts":  attempts,
							"limit":     b.limit,
						}), "auth.login.rate_limited")
					}
					w.Header().Set("Retry-After", strconv.Itoa(int(cfg.LoginWindow.Seconds())))
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func loginEmail(body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(payload.Email))
}

func sha256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// clientIP uses the peer address unless proxy headers are trusted, in which
// case the first X-Forwarded-For hop wins, then X-Real-IP.
func clientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
