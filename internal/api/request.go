package api

import (
	"net"
	"net/http"
	"strings"
)

// Response headers set by the usage gate and the LLM-backed handlers.
const (
	HeaderUsageRemaining    = "X-Usage-Remaining"
	HeaderUsageLimitReached = "X-Usage-Limit-Reached"
	HeaderResultDegraded    = "X-Result-Degraded"
)

// ClientIP identifies the caller for quota purposes. Forwarding headers are
// honored only when trustProxy is set; otherwise any client could pick its own id.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}
