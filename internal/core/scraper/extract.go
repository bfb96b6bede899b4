package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultLanguage 網頁未標示語言時使用
const defaultLanguage = "en"

// Extract 從 HTML 擷取食譜，host 直接寫入結果
func Extract(html []byte, host string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	recipe := findRecipe(doc)
	if recipe == nil {
		return nil, ErrNoRecipe
	}

	page := &Page{
		Title:        cleanText(stringValue(recipe["name"])),
		TotalTime:    totalMinutes(recipe),
		Yields:       yields(recipe["recipeYield"]),
		Ingredients:  stringList(recipe["recipeIngredient"]),
		Instructions: instructionList(recipe["recipeInstructions"]),
		Image:        imageURL(recipe["image"]),
		Host:         host,
		Language:     stringValue(recipe["inLanguage"]),
	}

	if len(page.Ingredients) == 0 {
		// 舊版 schema 使用 ingredients
		page.Ingredients = stringList(recipe["ingredients"])
	}
	if page.Title == "" {
		page.Title = metaContent(doc, "og:title")
	}
	if page.Title == "" {
		page.Title = cleanText(doc.Find("title").First().Text())
	}
	if page.Image == "" {
		page.Image = metaContent(doc, "og:image")
	}
	if page.Language == "" {
		page.Language = strings.TrimSpace(doc.Find("html").AttrOr("lang", ""))
	}
	if page.Language == "" {
		page.Language = defaultLanguage
	}

	return page, nil
}

// findRecipe 在所有 ld+json 區塊中找出第一個 @type 為 Recipe 的物件
func findRecipe(doc *goquery.Document) map[string]interface{} {
	var found map[string]interface{}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return true
		}
		found = searchRecipe(data)
		return found == nil
	})
	return found
}

func searchRecipe(node interface{}) map[string]interface{} {
	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			if r := searchRecipe(item); r != nil {
				return r
			}
		}
	case map[string]interface{}:
		if hasType(v, "Recipe") {
			return v
		}
		for _, key := range []string{"@graph", "mainEntity", "mainEntityOfPage"} {
			if r := searchRecipe(v[key]); r != nil {
				return r
			}
		}
	}
	return nil
}

func hasType(obj map[string]interface{}, want string) bool {
	switch t := obj["@type"].(type) {
	case string:
		return t == want
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

var isoDuration = regexp.MustCompile(`(?i)^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// parseISODuration 將 ISO 8601 時間長度（例如 PT1H30M）轉為分鐘，秒數無條件捨去
func parseISODuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, true
	}
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || strings.EqualFold(s, "PT") {
		return 0, false
	}
	minutes := 0
	if m[1] != "" {
		d, _ := strconv.Atoi(m[1])
		minutes += d * 24 * 60
	}
	if m[2] != "" {
		h, _ := strconv.Atoi(m[2])
		minutes += h * 60
	}
	if m[3] != "" {
		mm, _ := strconv.Atoi(m[3])
		minutes += mm
	}
	if m[4] != "" {
		sec, _ := strconv.ParseFloat(m[4], 64)
		minutes += int(math.Floor(sec / 60))
	}
	return minutes, true
}

// totalMinutes 優先使用 totalTime，沒有時以 prepTime + cookTime 計算
func totalMinutes(recipe map[string]interface{}) int {
	if total, ok := parseISODuration(stringValue(recipe["totalTime"])); ok {
		return total
	}
	prep, _ := parseISODuration(stringValue(recipe["prepTime"]))
	cook, _ := parseISODuration(stringValue(recipe["cookTime"]))
	return prep + cook
}

// yields 份量，純數字補上 servings
func yields(v interface{}) string {
	var s string
	switch y := v.(type) {
	case []interface{}:
		for _, item := range y {
			if s = cleanText(stringValue(item)); s != "" {
				break
			}
		}
	default:
		s = cleanText(stringValue(y))
	}
	if s == "" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n == 1 {
			return "1 serving"
		}
		return fmt.Sprintf("%d servings", n)
	}
	return s
}

// instructionList 攤平 recipeInstructions 的各種寫法
func instructionList(v interface{}) []string {
	var out []string
	switch x := v.(type) {
	case string:
		for _, line := range strings.Split(x, "\n") {
			if line = cleanText(line); line != "" {
				out = append(out, line)
			}
		}
	case []interface{}:
		for _, item := range x {
			out = append(out, instructionList(item)...)
		}
	case map[string]interface{}:
		if hasType(x, "HowToSection") {
			return instructionList(x["itemListElement"])
		}
		text := cleanText(stringValue(x["text"]))
		if text == "" {
			text = cleanText(stringValue(x["name"]))
		}
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// imageURL 取出第一個圖片網址，可能是字串、陣列或 ImageObject
func imageURL(v interface{}) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case []interface{}:
		for _, item := range x {
			if u := imageURL(item); u != "" {
				return u
			}
		}
	case map[string]interface{}:
		if u := imageURL(x["url"]); u != "" {
			return u
		}
		return imageURL(x["contentUrl"])
	}
	return ""
}

func stringList(v interface{}) []string {
	var out []string
	switch x := v.(type) {
	case string:
		if s := cleanText(x); s != "" {
			out = append(out, s)
		}
	case []interface{}:
		for _, item := range x {
			if s := cleanText(stringValue(item)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func stringValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []interface{}:
		if len(x) > 0 {
			return stringValue(x[0])
		}
	}
	return ""
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, property, property)).First()
	return cleanText(sel.AttrOr("content", ""))
}

// cleanText 去除 HTML 標籤與實體並合併空白
func cleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if frag, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = frag.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
