package recipe

import (
	"github.com/jlucaspains/sharp-cooking-api/internal/core/parser"
)

// Recipe 回傳給前端的食譜
type Recipe struct {
	Title        string                    `json:"title"`
	TotalTime    int                       `json:"totalTime"`
	Yields       string                    `json:"yields"`
	Ingredients  []parser.IngredientToken  `json:"ingredients"`
	Instructions []parser.InstructionToken `json:"instructions"`
	Image        string                    `json:"image"`
	Host         string                    `json:"host"`
	Notes        string                    `json:"notes,omitempty"`
}

// ParseRequest 解析網頁食譜的請求
type ParseRequest struct {
	URL           string `json:"url" binding:"required"`
	DownloadImage bool   `json:"downloadImage"`
}

// ImageResult 處理後的圖片
type ImageResult struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

