package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/OsuLink_Go/internal/logger"
)

// AuthMiddleware validates the API key, sent either as X-API-Key or as a
// bearer Authorization header. Clients that keep failing are locked out
// until the detector window rolls over.
func AuthMiddleware(apiKey string, ips *IPResolver, detector *ActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ip := ips.ClientIP(r)
			if detector.LockedOut(ip) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			providedKey := providedAPIKey(r)
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func providedAPIKey(r *http.Request) string {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return key
	}
	if auth := r.Header.Get(HeaderAuthorization); strings.HasPrefix(auth, HeaderValueBearerPrefix) {
		return strings.TrimPrefix(auth, HeaderValueBearerPrefix)
	}
	return ""
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// ipWindow counts one client's activity inside a fixed window that starts
// at the first request seen.
type ipWindow struct {
	requests   int
	failedAuth int
}

// ActivityDetector rate limits clients and tracks failed authentication.
// Windows live in an expiring LRU so idle clients cost nothing.
type ActivityDetector struct {
	mu      sync.Mutex
	windows *expirable.LRU[string, *ipWindow]
}

// NewActivityDetector creates a detector with the default window
func NewActivityDetector() *ActivityDetector {
	return NewActivityDetectorWithWindow(DetectorWindow)
}

// NewActivityDetectorWithWindow creates a detector whose counters reset
// after window
func NewActivityDetectorWithWindow(window time.Duration) *ActivityDetector {
	return &ActivityDetector{
		windows: expirable.NewLRU[string, *ipWindow](MaxTrackedClients, nil, window),
	}
}

// window must be called with mu held. Get does not extend the ttl, so the
// window stays anchored to its first request.
func (d *ActivityDetector) window(ip string) *ipWindow {
	if w, ok := d.windows.Get(ip); ok {
		return w
	}
	w := &ipWindow{}
	d.windows.Add(ip, w)
	return w
}

// RecordFailedAuth counts a failed authentication attempt
func (d *ActivityDetector) RecordFailedAuth(ip string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := d.window(ip)
	w.failedAuth++
	if w.failedAuth == FailedAuthAlertThreshold || w.failedAuth == AuthLockoutThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", w.failedAuth,
			"locked_out", w.failedAuth >= AuthLockoutThreshold)
	}
}

// LockedOut reports whether ip failed authentication too often this window
func (d *ActivityDetector) LockedOut(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.windows.Peek(ip)
	return ok && w.failedAuth >= AuthLockoutThreshold
}

// RecordRequest counts a request and returns false once ip exceeds the
// per-window limit
func (d *ActivityDetector) RecordRequest(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := d.window(ip)
	w.requests++
	if w.requests <= RequestsPerWindow {
		return true
	}
	if w.requests%HighRateLogEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count", w.requests)
	}
	return false
}

// RateLimitMiddleware rejects clients over the request budget
func RateLimitMiddleware(ips *IPResolver, detector *ActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.RecordRequest(ips.ClientIP(r)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IPResolver finds the client address, honouring X-Forwarded-For only when
// the direct peer is a trusted proxy.
type IPResolver struct {
	trusted []netip.Prefix
}

// NewIPResolver accepts proxy addresses and CIDR ranges. Unparseable entries
// are logged and skipped.
func NewIPResolver(trustedProxies []string) *IPResolver {
	res := &IPResolver{}
	for _, entry := range trustedProxies {
		entry = strings.TrimSpace(entry)
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			res.trusted = append(res.trusted, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			res.trusted = append(res.trusted, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		slog.Warn(LogMsgBadTrustedProxy, "entry", entry)
	}
	return res
}

func (res *IPResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range res.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the caller's address. With a trusted peer the rightmost
// forwarded hop wins, since that is the one the proxy itself observed.
func (res *IPResolver) ClientIP(r *http.Request) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}
	if res == nil || !res.isTrusted(remoteIP) {
		return remoteIP
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	hops := strings.Split(forwarded, ",")
	if hop := strings.TrimSpace(hops[len(hops)-1]); hop != "" {
		return hop
	}
	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses. Responses
// are never cached and never leak the callback URL through Referer; HSTS
// is only sent on requests that arrived over https.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueDeny)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerNoReferrer)
			h.Set(HeaderCacheControl, HeaderValueNoStore)
			if r.TLS != nil || strings.EqualFold(r.Header.Get(HeaderForwardedProto), "https") {
				h.Set(HeaderStrictTransport, HeaderValueHSTS)
			}

			next.ServeHTTP(w, r)
		})
	}
}
