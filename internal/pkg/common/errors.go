package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 取得原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is(err, ErrFetchFailed) 對包裝後的錯誤也成立
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Code == e.Code
}

// Wrap 以同樣的代碼與訊息包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Err:     err,
	}
}

// Response 轉為 API 錯誤響應，withDetails 為 true 時附上原始錯誤
func (e *CustomError) Response(withDetails bool) ErrorResponse {
	resp := ErrorResponse{Code: e.Code, Message: e.Message}
	if withDetails && e.Err != nil {
		resp.Details = e.Err.Error()
	}
	return resp
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError，沒有時包裝為內部錯誤
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrInternalError.Wrap(err)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeTooLarge        = "REQUEST_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError  = "INTERNAL_ERROR"  // 500
	ErrCodeGatewayTimeout = "GATEWAY_TIMEOUT" // 504

	// 業務錯誤
	ErrCodeFetchFailed       = "FETCH_FAILED"
	ErrCodeScrapeFailed      = "SCRAPE_FAILED"
	ErrCodeMalformedArchive  = "MALFORMED_ARCHIVE"
	ErrCodeUnsupportedUpload = "UNSUPPORTED_UPLOAD"
	ErrCodeInvalidImage      = "INVALID_IMAGE"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "Invalid request format", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Resource not found", http.StatusNotFound, nil)
	ErrTooLarge        = NewError(ErrCodeTooLarge, "Request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError  = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)
	ErrGatewayTimeout = NewError(ErrCodeGatewayTimeout, "Request timeout", http.StatusGatewayTimeout, nil)

	// 業務錯誤：外部協作者（網頁、備份檔、圖片）失敗，與解析核心的「辨識不到」無關
	ErrFetchFailed       = NewError(ErrCodeFetchFailed, "Could not find a recipe in the web page", http.StatusBadRequest, nil)
	ErrScrapeFailed      = NewError(ErrCodeScrapeFailed, "Could not find a recipe in the web page", http.StatusBadRequest, nil)
	ErrMalformedArchive  = NewError(ErrCodeMalformedArchive, "The backup file does not seem to be well formatted or generated by Sharp Cooking app", http.StatusBadRequest, nil)
	ErrUnsupportedUpload = NewError(ErrCodeUnsupportedUpload, "Unsupported file type", http.StatusBadRequest, nil)
	ErrInvalidImage      = NewError(ErrCodeInvalidImage, "The image file is invalid", http.StatusBadRequest, nil)
)
