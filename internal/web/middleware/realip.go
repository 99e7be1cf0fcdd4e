package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP rewrites RemoteAddr from the X-Real-IP or X-Forwarded-For
// header, but only when the connection comes from a trusted proxy network.
// The rate limiter buckets imports per client IP, so a client must not be
// able to pick its own bucket with a forged header; requests from anywhere
// else keep their original RemoteAddr and the headers are ignored.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	trustedNets := parseTrustedNets(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remoteIP := extractIP(r.RemoteAddr)
			if isTrusted(remoteIP, trustedNets) {
				if ip := headerClientIP(r); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parseTrustedNets parses the configured proxy list once at startup. A
// plain IP is accepted as a single-host network; invalid entries are
// logged and skipped rather than failing startup.
func parseTrustedNets(cidrs []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range cidrs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if _, network, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, network)
			continue
		}
		ip := net.ParseIP(cidr)
		if ip == nil {
			slog.Warn("realip: invalid trusted proxy entry, skipping", "entry", cidr)
			continue
		}
		mask := net.CIDRMask(128, 128)
		if ip.To4() != nil {
			mask = net.CIDRMask(32, 32)
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: mask})
	}
	return nets
}

// headerClientIP returns the client IP claimed by the proxy headers, or
// nil when neither header carries a valid address. X-Real-IP takes
// precedence; when present its value is final even if malformed. Only the
// first hop of an X-Forwarded-For chain is considered.
func headerClientIP(r *http.Request) net.IP {
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return net.ParseIP(strings.TrimSpace(rip))
	}
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return nil
	}
	if idx := strings.Index(xff, ","); idx > 0 {
		xff = xff[:idx]
	}
	return net.ParseIP(strings.TrimSpace(xff))
}

// extractIP parses an IP address from a host:port string or plain IP.
func extractIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}

// isTrusted checks whether an IP falls inside any trusted network.
func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
