package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// maxTrackedClients bounds the per-IP limiter pool.
	maxTrackedClients = 4096

	// clientIdleTimeout is how long an IP may stay quiet before its
	// limiter is eligible for eviction.
	clientIdleTimeout = 10 * time.Minute
)

type rateLimiterClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiterPool struct {
	mu      sync.Mutex
	rate    rate.Limit
	burst   int
	clients map[string]*rateLimiterClient
}

func newRateLimiterPool(r rate.Limit, burst int) *rateLimiterPool {
	return &rateLimiterPool{
		rate:    r,
		burst:   burst,
		clients: make(map[string]*rateLimiterClient),
	}
}

func (p *rateLimiterPool) allow(ip string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	client, ok := p.clients[ip]

	if !ok {
		if len(p.clients) >= maxTrackedClients {
			p.evictLocked()
		}

		client = &rateLimiterClient{limiter: rate.NewLimiter(p.rate, p.burst)}
		p.clients[ip] = client
	}

	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

// evictLocked drops idle clients first, then arbitrary ones until the pool
// is back under its cap. An evicted client simply starts a fresh limiter on
// its next attempt.
func (p *rateLimiterPool) evictLocked() {
	cutoff := time.Now().Add(-clientIdleTimeout)

	for ip, client := range p.clients {
		if client.lastSeen.Before(cutoff) {
			delete(p.clients, ip)
		}
	}

	for ip := range p.clients {
		if len(p.clients) < maxTrackedClients {
			break
		}
		delete(p.clients, ip)
	}
}

// LoginRateLimiter throttles credential attempts per client IP to slow down
// brute forcing. Limiters are kept in memory; a restart resets them.
func LoginRateLimiter(r rate.Limit, burst int) gin.HandlerFunc {
	pool := newRateLimiterPool(r, burst)

	return func(ctx *gin.Context) {
		if !pool.allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, try again later"})
			return
		}

		ctx.Next()
	}
}
