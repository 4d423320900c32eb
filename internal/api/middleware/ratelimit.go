package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-OpenHouseService/internal/api/handlers"
)

const msgTooManyRequests = "troppe richieste, riprova più tardi"

// RateLimiter ограничивает частоту запросов с одного IP.
// Лимитеры, к которым давно не обращались, удаляются через Cleanup.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	trusted  []*net.IPNet
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterOption настройка лимитера
type RateLimiterOption func(*RateLimiter)

// WithTrustedProxies включает чтение X-Forwarded-For для соединений от этих сетей
func WithTrustedProxies(nets []*net.IPNet) RateLimiterOption {
	return func(l *RateLimiter) {
		l.trusted = nets
	}
}

// NewRateLimiter создает лимитер на requestsPerMinute запросов в минуту
func NewRateLimiter(requestsPerMinute, burst int, opts ...RateLimiterOption) *RateLimiter {
	if burst <= 0 {
		burst = 5
	}
	l := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(float64(requestsPerMinute) / 60),
		burst:    burst,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseTrustedProxies разбирает список CIDR; одиночный IP считается сетью из одного адреса
func ParseTrustedProxies(values []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if _, ipNet, err := net.ParseCIDR(v); err == nil {
			nets = append(nets, ipNet)
			continue
		}
		ip := net.ParseIP(v)
		if ip == nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", v)
		}
		bits := 8 * net.IPv6len
		if ip4 := ip.To4(); ip4 != nil {
			ip, bits = ip4, 8*net.IPv4len
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets, nil
}

// Allow расходует один токен ключа
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = l.now()
	l.mu.Unlock()

	return entry.limiter.Allow()
}

// Len количество ключей, для которых сейчас хранится лимитер
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Cleanup удаляет лимитеры, простаивающие дольше idle, и возвращает их количество.
// За время простоя бакет успевает наполниться, поэтому удаление не ослабляет лимит.
func (l *RateLimiter) Cleanup(idle time.Duration) int {
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// Run периодически вызывает Cleanup, пока не отменён ctx
func (l *RateLimiter) Run(ctx context.Context, interval, idle time.Duration, logger Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := l.Cleanup(idle); removed > 0 {
				logger.Info("RateLimit: evicted %d idle limiters, %d left", removed, l.Len())
			}
		}
	}
}

// Middleware отвечает 429, когда лимит IP исчерпан
func (l *RateLimiter) Middleware(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := l.ClientIP(r)
			if !l.Allow(ip) {
				logger.Warn("RateLimit: limit exceeded for %s on %s %s", ip, r.Method, r.URL.Path)
				handlers.RespondTooManyRequests(w, msgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP адрес клиента. По умолчанию это адрес соединения; если соединение
// пришло от доверенного прокси, X-Forwarded-For читается справа налево
// до первого недоверенного адреса.
func (l *RateLimiter) ClientIP(r *http.Request) string {
	remote := remoteHost(r)
	if len(l.trusted) == 0 || !l.isTrusted(net.ParseIP(remote)) {
		return remote
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	client := remote
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		ip := net.ParseIP(hop)
		if ip == nil {
			// Мусор в заголовке: дальше цепочке верить нельзя
			return client
		}
		client = ip.String()
		if !l.isTrusted(ip) {
			return client
		}
	}
	return client
}

func (l *RateLimiter) isTrusted(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range l.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// remoteHost адрес соединения без порта
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
