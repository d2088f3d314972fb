package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterTTL 超过这个时长未提交的来源会被清理，
// 防止公开端点上的限流表随客户端 IP 无限增长
const limiterTTL = 10 * time.Minute

// clientLimiter 单个来源的令牌桶及其最近活跃时间
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter 按来源 IP 维护独立的令牌桶
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

func newIPLimiter(rps rate.Limit, burst int, ttl time.Duration) *ipLimiter {
	return &ipLimiter{
		clients:   make(map[string]*clientLimiter),
		rps:       rps,
		burst:     burst,
		ttl:       ttl,
		lastSweep: time.Now(),
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) >= l.ttl {
		l.sweepLocked(now)
	}

	client, ok := l.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

// sweepLocked 删除超过 TTL 未活跃的来源，调用方必须持有锁
func (l *ipLimiter) sweepLocked(now time.Time) {
	for ip, client := range l.clients {
		if now.Sub(client.lastSeen) > l.ttl {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

// SubmitRateLimit 限制单个 IP 的表单提交频率。
// 表单端点是公开的，没有这层限制容易被脚本刷爆通知邮箱。
func SubmitRateLimit(rps rate.Limit, burst int, log *zap.Logger) gin.HandlerFunc {
	limiter := newIPLimiter(rps, burst, limiterTTL)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.get(ip).Allow() {
			log.Warn("submission rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
