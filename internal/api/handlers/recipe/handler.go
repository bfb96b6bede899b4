package recipe

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	recipeService "github.com/jlucaspains/sharp-cooking-api/internal/core/recipe"
	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

// Service 處理器需要的食譜服務
type Service interface {
	ParseURL(ctx context.Context, req recipeService.ParseRequest) (*recipeService.Recipe, error)
	ParseBackup(ctx context.Context, contentType string, data []byte) ([]recipeService.Recipe, error)
	ProcessImage(ctx context.Context, name, contentType string, data []byte) (*recipeService.ImageResult, error)
}

// Handler 食譜處理器
type Handler struct {
	service Service
	debug   bool
}

// NewHandler 創建新的食譜處理器，debug 為 true 時錯誤響應附上原始錯誤
func NewHandler(service Service, debug bool) *Handler {
	return &Handler{
		service: service,
		debug:   debug,
	}
}

// HandleParse 解析網頁食譜
func (h *Handler) HandleParse(c *gin.Context) {
	requestID := getRequestID(c)
	start := time.Now()

	var req recipeService.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogRequestDone("parse", requestID, time.Since(start), err)
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	common.LogInfo("開始處理食譜解析請求",
		zap.String("request_id", requestID),
		zap.String("url", req.URL),
		zap.Bool("download_image", req.DownloadImage),
	)

	result, err := h.service.ParseURL(c.Request.Context(), req)
	common.LogRequestDone("parse", requestID, time.Since(start), err)
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}

	common.LogDebug("食譜解析成功",
		zap.String("request_id", requestID),
		zap.String("title", result.Title),
		zap.Int("ingredients", len(result.Ingredients)),
		zap.Int("instructions", len(result.Instructions)),
		zap.String("image_type", getImageType(result.Image)),
	)

	c.JSON(http.StatusOK, result)
}

// HandleBackup 匯入 Sharp Cooking 備份檔
func (h *Handler) HandleBackup(c *gin.Context) {
	requestID := getRequestID(c)
	start := time.Now()

	common.LogInfo("開始處理備份匯入請求", zap.String("request_id", requestID))

	file, err := readUpload(c)
	if err != nil {
		common.LogRequestDone("backup", requestID, time.Since(start), err)
		common.WriteError(c, err, h.debug)
		return
	}

	result, err := h.service.ParseBackup(c.Request.Context(), file.contentType, file.data)
	common.LogRequestDone("backup", requestID, time.Since(start), err)
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleImage 縮放上傳的圖片
func (h *Handler) HandleImage(c *gin.Context) {
	requestID := getRequestID(c)
	start := time.Now()

	common.LogInfo("開始處理圖片請求", zap.String("request_id", requestID))

	file, err := readUpload(c)
	if err != nil {
		common.LogRequestDone("image", requestID, time.Since(start), err)
		common.WriteError(c, err, h.debug)
		return
	}

	result, err := h.service.ProcessImage(c.Request.Context(), file.name, file.contentType, file.data)
	common.LogRequestDone("image", requestID, time.Since(start), err)
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}

	common.LogImageProcessing("debug", "image processed",
		zap.String("request_id", requestID),
		zap.String("name", result.Name),
		zap.String("image_type", getImageType(result.Image)),
	)

	c.JSON(http.StatusOK, result)
}
