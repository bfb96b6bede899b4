package parser

import "strings"

var fractionReplacer = strings.NewReplacer(
	"½", "1/2",
	"¼", "1/4",
	"¾", "3/4",
	"⅓", "1/3",
	"⅔", "2/3",
)

// NormalizeFractions 將 Unicode 分數字元（½ ¼ ¾ ⅓ ⅔）替換為 ASCII 的 a/b 形式
func NormalizeFractions(text string) string {
	return fractionReplacer.Replace(text)
}
