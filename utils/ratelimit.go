package utils

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookpos-backend/config"
)

type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	perMin   int
	mu       sync.Mutex
}

func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
		s.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per client IP to perMin per minute.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	if perMin <= 0 {
		perMin = 200
	}
	store := &rateLimiterStore{limiters: make(map[string]*rate.Limiter), perMin: perMin}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			config.GetLogger().Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
