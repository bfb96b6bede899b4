package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteError 寫入錯誤響應，debug 模式下附上原始錯誤
func WriteError(c *gin.Context, err error, debug bool) {
	ce := AsCustomError(err)
	c.AbortWithStatusJSON(ce.Status, ce.Response(debug))
}
