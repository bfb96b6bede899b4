package scraper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

const (
	// hostIdleTTL 網域閒置超過此時間即移除其限流器
	hostIdleTTL = 10 * time.Minute
	// hostCleanupInterval 清理閒置網域的間隔
	hostCleanupInterval = time.Minute
)

type hostEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// HostLimiter 依網域個別限流，避免對同一個食譜網站送出過多請求
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*hostEntry
	rps      float64
	idleTTL  time.Duration
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewHostLimiter 建立每個網域每秒 rps 次、突發量為 1 的限流器，並啟動閒置網域清理
func NewHostLimiter(rps float64) *HostLimiter {
	l := &HostLimiter{
		limiters: make(map[string]*hostEntry),
		rps:      rps,
		idleTTL:  hostIdleTTL,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go l.startCleanup(hostCleanupInterval)
	return l
}

// Wait 等待直到該網域允許下一個請求，context 取消時回傳錯誤
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	entry, ok := l.limiters[host]
	if !ok {
		entry = &hostEntry{limiter: rate.NewLimiter(rate.Limit(l.rps), 1)}
		l.limiters[host] = entry
	}
	entry.lastSeen = l.now()
	l.mu.Unlock()

	return entry.limiter.Wait(ctx)
}

func (l *HostLimiter) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.done:
			return
		}
	}
}

// cleanup 移除閒置超過 idleTTL 的網域
func (l *HostLimiter) cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	count := 0
	for host, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.limiters, host)
			count++
		}
	}

	if count > 0 {
		common.LogDebug("Removed idle host limiters",
			zap.Int("count", count),
			zap.Int("remaining", len(l.limiters)),
		)
	}
	return count
}

// Close 停止清理協程
func (l *HostLimiter) Close() {
	l.once.Do(func() { close(l.done) })
}
