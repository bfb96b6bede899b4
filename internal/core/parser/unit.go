package parser

// UnitFamily 一個標準單位名稱及其所有寫法（縮寫、單數、複數）
type UnitFamily struct {
	Name  string
	Forms []string
}

// UnitCatalog 單位寫法到標準名稱的對照表，建立後唯讀，可在多個 goroutine 間共用
type UnitCatalog struct {
	forms map[string]string
}

// NewUnitCatalog 建立單位對照表，標準名稱本身也會被註冊為寫法之一
// 同一寫法出現在多個家族時以先註冊者為準
func NewUnitCatalog(families ...UnitFamily) *UnitCatalog {
	c := &UnitCatalog{forms: make(map[string]string)}
	for _, f := range families {
		c.register(f.Name, f.Name)
		for _, form := range f.Forms {
			c.register(form, f.Name)
		}
	}
	return c
}

func (c *UnitCatalog) register(form, name string) {
	if form == "" {
		return
	}
	if _, exists := c.forms[form]; !exists {
		c.forms[form] = name
	}
}

// DefaultUnitCatalog 建立涵蓋常見烹飪單位（質量、容量、溫度）的對照表
func DefaultUnitCatalog() *UnitCatalog {
	return NewUnitCatalog(defaultFamilies...)
}

// Resolve 將單位寫法（大小寫敏感）轉為標準名稱，無法辨識時回傳空字串
func (c *UnitCatalog) Resolve(token string) string {
	if c == nil || token == "" {
		return ""
	}
	return c.forms[token]
}

// Len 已註冊的寫法數量
func (c *UnitCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.forms)
}

var defaultFamilies = []UnitFamily{
	// 質量
	{Name: "gram", Forms: []string{"g", "grams", "gramme", "grammes"}},
	{Name: "grain", Forms: []string{"gr", "grains"}},
	{Name: "kilogram", Forms: []string{"kg", "kilograms", "kilogramme", "kilogrammes"}},
	{Name: "milligram", Forms: []string{"mg", "milligrams"}},
	{Name: "ounce", Forms: []string{"oz", "ounces"}},
	{Name: "pound", Forms: []string{"lb", "lbs", "pounds"}},

	// 容量
	{Name: "teaspoon", Forms: []string{"tsp", "teaspoons"}},
	{Name: "tablespoon", Forms: []string{"tbsp", "tablespoons"}},
	{Name: "cup", Forms: []string{"cups"}},
	{Name: "milliliter", Forms: []string{"ml", "mL", "milliliters", "millilitre", "millilitres"}},
	{Name: "centiliter", Forms: []string{"cl", "cL", "centiliters", "centilitre", "centilitres"}},
	{Name: "deciliter", Forms: []string{"dl", "dL", "deciliters", "decilitre", "decilitres"}},
	{Name: "liter", Forms: []string{"l", "L", "liters", "litre", "litres"}},
	{Name: "fluid_ounce", Forms: []string{"floz", "fluid_ounces"}},
	{Name: "pint", Forms: []string{"pt", "pints"}},
	{Name: "quart", Forms: []string{"qt", "quarts"}},
	{Name: "gallon", Forms: []string{"gal", "gallons"}},

	// 溫度
	{Name: "degree_Celsius", Forms: []string{"degC", "celsius", "Celsius", "degree_Celsius", "degrees_Celsius"}},
	{Name: "degree_Fahrenheit", Forms: []string{"degF", "fahrenheit", "Fahrenheit", "degree_Fahrenheit", "degrees_Fahrenheit"}},
	{Name: "kelvin", Forms: []string{"K", "kelvins"}},
}
