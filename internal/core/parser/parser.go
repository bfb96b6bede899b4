// Package parser 將食譜的食材與步驟文字正規化為結構化資料
//
// 所有函式皆為純函式：相同輸入必定得到相同輸出，無法辨識的內容回傳零值而不是錯誤，
// 可在多個 goroutine 中同時呼叫。語言標籤目前只被接受，不影響數字格式的解析。
package parser

import "strings"

// lineSeparator 備份檔中食材與步驟欄位的分行字元
const lineSeparator = "\n"

// ParseIngredient 解析單行食材，Raw 保留原始輸入
func ParseIngredient(text, lang string, catalog *UnitCatalog) IngredientToken {
	quantity, token := ParseQuantity(NormalizeFractions(text))
	return IngredientToken{
		Raw:      text,
		Quantity: quantity,
		Unit:     catalog.Resolve(token),
	}
}

// ParseInstruction 解析單行步驟並估算所需分鐘數
func ParseInstruction(text, lang string) InstructionToken {
	return InstructionToken{
		Raw:     text,
		Minutes: ExtractMinutes(text),
	}
}

// ParseIngredients 解析以換行分隔的食材區塊，空行同樣產生一筆結果
func ParseIngredients(block, lang string, catalog *UnitCatalog) []IngredientToken {
	lines := strings.Split(block, lineSeparator)
	result := make([]IngredientToken, 0, len(lines))
	for _, line := range lines {
		result = append(result, ParseIngredient(line, lang, catalog))
	}
	return result
}

// ParseInstructions 解析以換行分隔的步驟區塊，略過空行
func ParseInstructions(block, lang string) []InstructionToken {
	lines := strings.Split(block, lineSeparator)
	result := make([]InstructionToken, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		result = append(result, ParseInstruction(line, lang))
	}
	return result
}

// ParseIngredientLines 逐行解析已分好行的食材（例如從網頁擷取的清單）
func ParseIngredientLines(lines []string, lang string, catalog *UnitCatalog) []IngredientToken {
	result := make([]IngredientToken, len(lines))
	for i, line := range lines {
		result[i] = ParseIngredient(line, lang, catalog)
	}
	return result
}

// ParseInstructionLines 逐行解析已分好行的步驟
func ParseInstructionLines(lines []string, lang string) []InstructionToken {
	result := make([]InstructionToken, len(lines))
	for i, line := range lines {
		result[i] = ParseInstruction(line, lang)
	}
	return result
}
