// Package image 將食譜圖片轉為 data URI
package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 支援 WebP

	"github.com/jlucaspains/sharp-cooking-api/internal/infrastructure/config"
	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

// Service 圖片處理服務
type Service struct {
	config config.ImageConfig
	client *resty.Client
}

// NewService 創建新的圖片處理服務，client 用於下載網頁上的圖片
func NewService(cfg config.ImageConfig, client *resty.Client) *Service {
	if client == nil {
		client = resty.New()
	}
	return &Service{
		config: cfg,
		client: client,
	}
}

// FromURL 下載圖片並原樣包成 data URI，媒體類型取自回應的 Content-Type
func (s *Service) FromURL(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", common.ErrFetchFailed.Wrap(fmt.Errorf("invalid image url %q", url))
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return "", common.ErrFetchFailed.Wrap(fmt.Errorf("failed to download image: %w", err))
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return "", common.ErrFetchFailed.Wrap(fmt.Errorf("failed to download image: status code %d", resp.StatusCode()))
	}

	// 讀取圖片數據，多讀一個位元組以判斷是否超過上限
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(body, s.config.MaxSizeBytes+1)); err != nil {
		return "", common.ErrFetchFailed.Wrap(fmt.Errorf("failed to read image data: %w", err))
	}
	if int64(buf.Len()) > s.config.MaxSizeBytes {
		return "", common.ErrInvalidImage.Wrap(fmt.Errorf("image size exceeds maximum limit of %d bytes", s.config.MaxSizeBytes))
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(buf.Bytes())
	}

	common.LogImageProcessing("debug", "downloaded image",
		zap.String("url", url),
		zap.String("content_type", contentType),
		zap.Int("size", buf.Len()),
	)

	return dataURI(contentType, buf.Bytes()), nil
}

// FromBytes 解碼圖片、縮放為設定的尺寸並重新編碼為 JPEG data URI
func (s *Service) FromBytes(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", common.ErrInvalidImage.Wrap(fmt.Errorf("image %q is empty", name))
	}

	// 檢查文件大小
	if int64(len(data)) > s.config.MaxSizeBytes {
		return "", common.ErrInvalidImage.Wrap(fmt.Errorf("image size exceeds maximum limit of %d bytes", s.config.MaxSizeBytes))
	}

	// 解碼圖片
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", common.ErrInvalidImage.Wrap(fmt.Errorf("failed to decode image %q: %w", name, err))
	}

	// 檢查圖片格式
	if !isSupportedFormat(format) {
		return "", common.ErrInvalidImage.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}

	resized := s.resize(img)

	// 將圖片轉換為 JPEG 格式
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: s.config.Quality}); err != nil {
		return "", common.ErrInvalidImage.Wrap(fmt.Errorf("failed to encode image as JPEG: %w", err))
	}

	common.LogImageProcessing("debug", "resized image",
		zap.String("name", name),
		zap.String("format", format),
		zap.Int("original_width", img.Bounds().Dx()),
		zap.Int("original_height", img.Bounds().Dy()),
		zap.Int("size", buf.Len()),
	)

	return dataURI("image/jpeg", buf.Bytes()), nil
}

// resize 縮放為固定的寬高（不保留比例），透明區域以白色填滿
func (s *Service) resize(src image.Image) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, s.config.Width, s.config.Height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}

func dataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
