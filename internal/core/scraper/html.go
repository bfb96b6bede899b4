package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/jlucaspains/sharp-cooking-api/internal/infrastructure/config"
	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

var _ Scraper = (*HTMLScraper)(nil)

// NewClient 建立抓取網頁與圖片共用的 HTTP 客戶端
func NewClient(cfg config.ScraperConfig) *resty.Client {
	return resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")
}

// HTMLScraper 以 HTTP 下載網頁後擷取食譜，不執行 JavaScript
type HTMLScraper struct {
	client  *resty.Client
	limiter *HostLimiter
}

// NewHTMLScraper 建立網頁擷取器
func NewHTMLScraper(client *resty.Client, limiter *HostLimiter) *HTMLScraper {
	return &HTMLScraper{
		client:  client,
		limiter: limiter,
	}
}

// Scrape 下載並擷取網頁中的食譜
// 下載失敗回傳 common.ErrFetchFailed，找不到食譜回傳 common.ErrScrapeFailed
func (s *HTMLScraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, common.ErrFetchFailed.Wrap(fmt.Errorf("invalid url %q", rawURL))
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, common.ErrFetchFailed.Wrap(fmt.Errorf("waiting for %s: %w", u.Hostname(), err))
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, common.ErrFetchFailed.Wrap(fmt.Errorf("failed to fetch page: %w", err))
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, common.ErrFetchFailed.Wrap(fmt.Errorf("HTTP %d for %s", resp.StatusCode(), rawURL))
	}

	page, err := Extract(resp.Body(), hostOf(resp, u))
	if err != nil {
		if errors.Is(err, ErrNoRecipe) {
			return nil, common.ErrScrapeFailed.Wrap(err)
		}
		return nil, common.ErrScrapeFailed.Wrap(fmt.Errorf("failed to parse page: %w", err))
	}

	common.LogDebug("Scraped recipe page",
		zap.String("url", rawURL),
		zap.String("title", page.Title),
		zap.Int("ingredients", len(page.Ingredients)),
		zap.Int("instructions", len(page.Instructions)),
		zap.String("language", page.Language),
	)

	return page, nil
}

// hostOf 取得最終（跟隨轉址後）的網域，去掉 www. 前綴
func hostOf(resp *resty.Response, requested *url.URL) string {
	host := requested.Hostname()
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		host = raw.Request.URL.Hostname()
	}
	return strings.TrimPrefix(host, "www.")
}
