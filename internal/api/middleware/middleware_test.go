package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	handler := func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	}
	r.GET("/", handler)
	r.POST("/", handler)
	return r
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(8))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeTooLarge)
}

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	defer d.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	r := newEngine(d.Middleware())
	send := func(method, body string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/", bytes.NewBufferString(body)))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, `{"url":"a"}`))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, `{"url":"a"}`))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, `{"url":"b"}`))

	// GET 不去重
	assert.Equal(t, http.StatusOK, send(http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, ""))

	// 超過時間窗後允許再次送出
	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusOK, send(http.MethodPost, `{"url":"a"}`))

	// 清理超過十倍時間窗的紀錄
	now = now.Add(11 * time.Minute)
	d.cleanup()
	d.mu.Lock()
	assert.Empty(t, d.requests)
	d.mu.Unlock()
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Close()
	r := newEngine(rl.Middleware())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// 不同 IP 各自計算
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_DropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.mu.Lock()
	rl.now = func() time.Time { return now }
	rl.mu.Unlock()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("10.0.0.2"))

	now = now.Add(45 * time.Second)
	rl.cleanup()

	rl.mu.Lock()
	_, stale := rl.limiters["10.0.0.1"]
	_, recent := rl.limiters["10.0.0.2"]
	size := len(rl.limiters)
	rl.mu.Unlock()
	assert.False(t, stale)
	assert.True(t, recent)
	assert.Equal(t, 1, size)
}

func TestCleanupStopsOnClose(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	d := NewDeduplicator(time.Second)

	rl.Close()
	rl.Close()
	d.Close()
	d.Close()

	for _, done := range []chan struct{}{rl.done, d.done} {
		select {
		case <-done:
		default:
			t.Fatal("cleanup channel still open after Close")
		}
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeInternalError)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
