package middleware

import (
	"net"
	"net/http"

	"chai-duka/internal/model"

	"github.com/rs/zerolog"
)

// SafaricomCallbackIPs are the published source addresses the payment
// gateway delivers callbacks from.
var SafaricomCallbackIPs = []string{
	"196.201.214.200",
	"196.201.214.206",
	"196.201.213.114",
	"196.201.214.207",
	"196.201.214.208",
	"196.201.213.44",
	"196.201.212.127",
	"196.201.212.138",
	"196.201.212.129",
	"196.201.212.136",
	"196.201.212.74",
	"196.201.212.69",
}

// IPAllowlist rejects requests whose peer address is not on the list. The
// decision uses the TCP peer address only; forwarding headers are spoofable
// and ignored.
func IPAllowlist(allowed []string, logger zerolog.Logger) func(http.Handler) http.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, ip := range allowed {
		allowedSet[ip] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if _, ok := allowedSet[host]; !ok {
				logger.Warn().
					Str("remote_addr", r.RemoteAddr).
					Str("path", r.URL.Path).
					Msg("callback from unlisted address rejected")
				writeAuthError(w, http.StatusForbidden, model.ErrCodeForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
