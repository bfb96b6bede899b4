package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

// defaultDedupWindow 未設定時的去重時間窗
const defaultDedupWindow = time.Second

// Deduplicator 擋下在時間窗內重複送出的相同 POST 請求（例如前端連點）
type Deduplicator struct {
	mu       sync.Mutex
	requests map[uint64]time.Time
	window   time.Duration
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

// NewDeduplicator 建立去重器並啟動定期清理
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	d := &Deduplicator{
		requests: make(map[uint64]time.Time),
		window:   window,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go d.startCleanup(10 * time.Minute)
	return d
}

func (d *Deduplicator) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.cleanup()
		case <-d.done:
			return
		}
	}
}

// cleanup 移除超過十倍時間窗的紀錄
func (d *Deduplicator) cleanup() {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
		}
	}
}

// Close 停止清理協程
func (d *Deduplicator) Close() {
	d.once.Do(func() { close(d.done) })
}

// seen 記錄指紋，時間窗內已出現過則回傳 true
func (d *Deduplicator) seen(fingerprint uint64) bool {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Middleware 請求去重中間件，只處理 POST
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 請求指紋：方法、路徑、Content-Type 與請求體
		h := xxhash.New()
		_, _ = h.WriteString(c.Request.Method + ":" + c.Request.URL.Path + ":" + c.ContentType() + ":")
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("Failed to read request body", zap.Error(err))
				common.WriteError(c, common.ErrTooLarge.Wrap(err), false)
				return
			}
			_, _ = h.Write(body)

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		fingerprint := h.Sum64()

		if d.seen(fingerprint) {
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
				zap.String("fingerprint", strconv.FormatUint(fingerprint, 16)),
			)
			common.WriteError(c, common.ErrTooManyRequests, false)
			return
		}

		c.Next()
	}
}
