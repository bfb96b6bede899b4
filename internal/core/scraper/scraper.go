// Package scraper 從食譜網頁擷取標題、時間、食材、步驟與圖片
//
// 擷取依據網頁內嵌的 schema.org Recipe（application/ld+json），
// 缺少的欄位再由 Open Graph 與 <title>、<html lang> 補上。
package scraper

import (
	"context"
	"errors"
)

// ErrNoRecipe 網頁中找不到食譜資料
var ErrNoRecipe = errors.New("no recipe found in page")

// Page 從網頁擷取出的食譜原始資料
type Page struct {
	Title        string
	TotalTime    int // 分鐘
	Yields       string
	Ingredients  []string
	Instructions []string
	Image        string
	Host         string
	Language     string
}

// Scraper 擷取食譜網頁
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Page, error)
}
