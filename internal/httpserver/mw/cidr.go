package mw

import (
	"net/http"

	"github.com/JRomainG/TGVMaxBot/internal/logger"
	"github.com/JRomainG/TGVMaxBot/internal/utils"
)

// AllowOnlyCIDRS restricts a route to the listed IPs and CIDRs. An empty
// list lets everything through. trustProxy resolves the client from proxy
// headers instead of the socket address.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("request rejected by CIDR allow-list",
					logger.String("client_ip", ip),
					logger.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
