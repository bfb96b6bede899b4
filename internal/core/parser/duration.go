package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// durationUnit 時間單位字詞與換算成分鐘的倍數，字詞依比對優先順序排列
type durationUnit struct {
	words   []string
	minutes float64
}

var durationUnits = []durationUnit{
	{words: []string{"minutes", "minute", "min"}, minutes: 1},
	{words: []string{"hours", "hour"}, minutes: 60},
	{words: []string{"days", "day"}, minutes: 24 * 60},
}

// ExtractMinutes 掃描整行文字中所有不重疊的「數字 單位」時間描述並加總為分鐘
func ExtractMinutes(text string) float64 {
	var total float64
	i := 0
	for i < len(text) {
		if !isASCIIDigit(text[i]) {
			i++
			continue
		}
		value, end, ok := matchDuration(text, i)
		if !ok {
			i++
			continue
		}
		total += value
		i = end
	}
	return total
}

// matchDuration 在 start 位置嘗試比對一段時間描述，回傳換算後的分鐘數與結束位置
func matchDuration(text string, start int) (float64, int, bool) {
	intEnd := scanDigits(text, start, maxDigits)
	numEnd := intEnd
	if numEnd < len(text) && text[numEnd] == '.' {
		numEnd++
	}
	numEnd = scanDigits(text, numEnd, maxDigits)

	j := numEnd
	for j < len(text) {
		r, size := utf8.DecodeRuneInString(text[j:])
		if !unicode.IsSpace(r) {
			break
		}
		j += size
	}

	for _, unit := range durationUnits {
		for _, word := range unit.words {
			if !strings.HasPrefix(text[j:], word) {
				continue
			}
			end := j + len(word)
			if r, size := utf8.DecodeRuneInString(text[end:]); size > 0 && isWordRune(r) {
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSuffix(text[start:numEnd], "."), 64)
			if err != nil {
				return 0, end, true
			}
			return value * unit.minutes, end, true
		}
	}
	return 0, 0, false
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
