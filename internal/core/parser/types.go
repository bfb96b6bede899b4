package parser

// IngredientToken 單行食材解析結果
type IngredientToken struct {
	Raw      string  `json:"raw"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// InstructionToken 單行步驟解析結果
type InstructionToken struct {
	Raw     string  `json:"raw"`
	Minutes float64 `json:"minutes"`
}
