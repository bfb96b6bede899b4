package recipe

import (
	"fmt"
	"io"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

// uploadField multipart 上傳檔案的欄位名稱
const uploadField = "file"

// upload 上傳的檔案
type upload struct {
	name        string
	contentType string
	data        []byte
}

// getRequestID 取得請求 ID，沒有時產生新的
func getRequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	return common.GenerateUUID()
}

// readUpload 讀取 multipart 的 file 欄位
func readUpload(c *gin.Context) (*upload, error) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(fmt.Errorf("missing %q form field: %w", uploadField, err))
	}

	f, err := header.Open()
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(fmt.Errorf("failed to open upload: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(fmt.Errorf("failed to read upload: %w", err))
	}

	return &upload{
		name:        header.Filename,
		contentType: header.Header.Get("Content-Type"),
		data:        data,
	}, nil
}

// getImageType 獲取圖片類型（用於日誌記錄）
func getImageType(image string) string {
	if image == "" {
		return "empty"
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return "url"
	}
	if strings.HasPrefix(image, "data:") {
		parts := strings.SplitN(image, ";base64,", 2)
		if len(parts) == 2 {
			return "data_uri_" + strings.TrimPrefix(parts[0], "data:")
		}
		return "invalid_data_uri"
	}
	return "unknown_format"
}
