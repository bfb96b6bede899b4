package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// maxDigits 單一整數區段最多可比對的位數
const maxDigits = 5

// quantityMatch 數量比對結果，end 為數值在字串中的結束位置
type quantityMatch struct {
	value float64
	end   int
}

// quantityMatcher 從字串開頭嘗試比對一種數量寫法
type quantityMatcher func(text string) (quantityMatch, bool)

// quantityMatchers 依優先順序排列，第一個成功者勝出
var quantityMatchers = []quantityMatcher{
	matchCompositeFraction,
	matchFraction,
	matchDecimal,
}

// ParseQuantity 解析行首的數量與緊接其後的單位字詞
// 行首沒有數字時回傳 0 與空字串
func ParseQuantity(text string) (float64, string) {
	for _, match := range quantityMatchers {
		m, ok := match(text)
		if !ok {
			continue
		}
		end := scanDigits(text, m.end, -1)
		return m.value, unitToken(text, end)
	}
	return 0, ""
}

// matchCompositeFraction 比對「整數 空白 分子/分母」，例如 "2 1/2"；只有分數部分四捨五入
func matchCompositeFraction(text string) (quantityMatch, bool) {
	wholeEnd := scanDigits(text, 0, maxDigits)
	if wholeEnd == 0 {
		return quantityMatch{}, false
	}
	r, size := utf8.DecodeRuneInString(text[wholeEnd:])
	if size == 0 || !unicode.IsSpace(r) {
		return quantityMatch{}, false
	}
	fracStart := wholeEnd + size
	num, den, fracEnd, ok := scanFraction(text, fracStart)
	if !ok {
		return quantityMatch{}, false
	}
	end := fracStart + fracEnd
	if den == 0 {
		return quantityMatch{value: 0, end: end}, true
	}
	whole, _ := strconv.ParseFloat(text[:wholeEnd], 64)
	return quantityMatch{value: whole + roundTo2(num/den), end: end}, true
}

// matchFraction 比對「分子/分母」，例如 "1/2"；分母為 0 時數量視為 0
func matchFraction(text string) (quantityMatch, bool) {
	num, den, end, ok := scanFraction(text, 0)
	if !ok {
		return quantityMatch{}, false
	}
	if den == 0 {
		return quantityMatch{value: 0, end: end}, true
	}
	return quantityMatch{value: roundTo2(num / den), end: end}, true
}

// scanFraction 從 start 開始比對 "分子/分母"，end 為相對於 start 的結束位置
func scanFraction(text string, start int) (num, den float64, end int, ok bool) {
	s := text[start:]
	numEnd := scanDigits(s, 0, maxDigits)
	if numEnd == 0 || numEnd >= len(s) || s[numEnd] != '/' {
		return 0, 0, 0, false
	}
	denStart := numEnd + 1
	denEnd := scanDigits(s, denStart, maxDigits)
	if denEnd == denStart {
		return 0, 0, 0, false
	}
	num, _ = strconv.ParseFloat(s[:numEnd], 64)
	den, _ = strconv.ParseFloat(s[denStart:denEnd], 64)
	return num, den, denEnd, true
}

// matchDecimal 比對整數或小數，例如 "10"、"2.5"；不做四捨五入
func matchDecimal(text string) (quantityMatch, bool) {
	intEnd := scanDigits(text, 0, maxDigits)
	if intEnd == 0 {
		return quantityMatch{}, false
	}
	end := intEnd
	if end < len(text) && text[end] == '.' {
		end++
	}
	end = scanDigits(text, end, maxDigits)

	value, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		// 只有病態輸入才會走到這裡，失敗時回傳 0 而不是錯誤
		return quantityMatch{value: 0, end: end}, true
	}
	return quantityMatch{value: value, end: end}, true
}

// unitToken 跳過最多一個空白字元後，取出連續的單字字元作為單位候選
func unitToken(text string, start int) string {
	i := start
	if r, size := utf8.DecodeRuneInString(text[i:]); size > 0 && unicode.IsSpace(r) {
		i += size
	}
	end := i
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	return text[i:end]
}

// scanDigits 從 start 開始掃描 ASCII 數字，limit < 0 表示不限長度
func scanDigits(text string, start, limit int) int {
	i := start
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		if limit >= 0 && i-start >= limit {
			break
		}
		i++
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// roundTo2 依實際二進位值四捨五入到小數第二位，剛好落在中間時取偶數
func roundTo2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
