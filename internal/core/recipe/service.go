package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"go.uber.org/zap"

	"github.com/jlucaspains/sharp-cooking-api/internal/core/backup"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/cache"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/parser"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/scraper"
	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

// defaultLanguage 網頁沒有標示語言時使用
const defaultLanguage = "en"

// zipContentTypes 備份檔允許的上傳類型
var zipContentTypes = map[string]bool{
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

// ImageProcessor 圖片處理
type ImageProcessor interface {
	FromURL(ctx context.Context, url string) (string, error)
	FromBytes(name string, data []byte) (string, error)
}

// Service 食譜服務
type Service struct {
	scraper  scraper.Scraper
	images   ImageProcessor
	importer *backup.Importer
	catalog  *parser.UnitCatalog
	cache    cache.Store
}

// NewService 創建新的食譜服務，store 為 nil 時不快取
func NewService(scr scraper.Scraper, images ImageProcessor, store cache.Store, catalog *parser.UnitCatalog, backupWorkers int) *Service {
	return &Service{
		scraper:  scr,
		images:   images,
		importer: backup.NewImporter(images, catalog, backupWorkers),
		catalog:  catalog,
		cache:    store,
	}
}

// ParseURL 擷取網頁中的食譜並解析食材與步驟
func (s *Service) ParseURL(ctx context.Context, req ParseRequest) (*Recipe, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return nil, common.ErrFetchFailed.Wrap(fmt.Errorf("url is required"))
	}

	key := s.getCacheKey("recipe", url, fmt.Sprint(req.DownloadImage))
	var cached Recipe
	if s.getFromCache(ctx, key, &cached) {
		return &cached, nil
	}

	page, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	lang := page.Language
	if lang == "" {
		lang = defaultLanguage
	}

	result := &Recipe{
		Title:        page.Title,
		TotalTime:    page.TotalTime,
		Yields:       page.Yields,
		Ingredients:  parser.ParseIngredientLines(page.Ingredients, lang, s.catalog),
		Instructions: parser.ParseInstructionLines(page.Instructions, lang),
		Image:        page.Image,
		Host:         page.Host,
	}

	if req.DownloadImage && result.Image != "" {
		uri, err := s.images.FromURL(ctx, result.Image)
		if err != nil {
			return nil, err
		}
		result.Image = uri
	}

	s.setToCache(ctx, key, result)
	return result, nil
}

// ParseBackup 匯入 Sharp Cooking 備份檔，只接受 zip
func (s *Service) ParseBackup(ctx context.Context, contentType string, data []byte) ([]Recipe, error) {
	if !zipContentTypes[mediaType(contentType)] {
		return nil, common.ErrUnsupportedUpload.Wrap(fmt.Errorf("content type %q is not a zip archive", contentType))
	}

	entries, err := s.importer.Import(ctx, data)
	if err != nil {
		return nil, err
	}

	result := make([]Recipe, len(entries))
	for i, e := range entries {
		result[i] = Recipe{
			Title:        e.Title,
			Ingredients:  e.Ingredients,
			Instructions: e.Instructions,
			Image:        e.Image,
			Notes:        e.Notes,
		}
	}
	return result, nil
}

// ProcessImage 縮放上傳的圖片並轉為 data URI
func (s *Service) ProcessImage(ctx context.Context, name, contentType string, data []byte) (*ImageResult, error) {
	if !strings.HasPrefix(mediaType(contentType), "image") {
		return nil, common.ErrUnsupportedUpload.Wrap(fmt.Errorf("content type %q is not an image", contentType))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uri, err := s.images.FromBytes(name, data)
	if err != nil {
		return nil, err
	}
	return &ImageResult{Name: name, Image: uri}, nil
}

// mediaType 去除參數並轉小寫，例如 "Application/Zip; charset=binary" -> "application/zip"
func mediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// getCacheKey 生成緩存鍵
func (s *Service) getCacheKey(prefix string, parts ...string) string {
	return cache.Key(prefix, parts...)
}

// getFromCache 從緩存獲取數據
func (s *Service) getFromCache(ctx context.Context, key string, v interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := common.ParseJSONBytes(data, v); err != nil {
		common.LogWarn("Discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// setToCache 將數據存入緩存，失敗只記錄不影響回應
func (s *Service) setToCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		common.LogWarn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		common.LogWarn("Failed to store cache entry", zap.String("key", key), zap.Error(err))
	}
}
