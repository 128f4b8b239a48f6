package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/model"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter limita requisições por IP de cliente
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter cria um limitador com requestsPerMinute por cliente.
// O burst permite rajadas de até um décimo do limite por minuto.
// Valores não positivos desativam o limite.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    limit,
		burst:    burst,
		idleTTL:  10 * time.Minute,
	}
}

// Allow informa se o cliente ainda tem requisições disponíveis
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cl, exists := rl.limiters[clientIP]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[clientIP] = cl
	}
	cl.lastSeen = now

	// Remove clientes inativos para não crescer indefinidamente
	if len(rl.limiters) > 1000 {
		for ip, other := range rl.limiters {
			if now.Sub(other.lastSeen) > rl.idleTTL {
				delete(rl.limiters, ip)
			}
		}
	}

	return cl.limiter.AllowN(now, 1)
}

// Middleware retorna o handler Gin que aplica o limite
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			logger.FromGin(c).Warn().
				Str("client_ip", c.ClientIP()).
				Msg("Rate limit excedido")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Success: false,
				Error:   "rate limit excedido",
				Details: "aguarde alguns segundos e tente novamente",
			})
			return
		}
		c.Next()
	}
}
