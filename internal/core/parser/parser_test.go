package parser_test

import (
	"sync"
	"testing"

	"github.com/jlucaspains/sharp-cooking-api/internal/core/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredient(t *testing.T) {
	t.Parallel()

	catalog := parser.DefaultUnitCatalog()

	tests := []struct {
		name     string
		input    string
		quantity float64
		unit     string
	}{
		{name: "integer with unit", input: "10 grams flour", quantity: 10, unit: "gram"},
		{name: "simple fraction", input: "1/2 grams flour", quantity: 0.5, unit: "gram"},
		{name: "composite fraction", input: "2 1/2 grams flour", quantity: 2.5, unit: "gram"},
		{name: "unknown unit resolves to empty", input: "10 ggg flour", quantity: 10, unit: ""},
		{name: "no unit", input: "10 flour", quantity: 10, unit: ""},
		{name: "no quantity", input: "flour", quantity: 0, unit: ""},
		{name: "empty line", input: "", quantity: 0, unit: ""},
		{name: "free text", input: "a pinch of salt", quantity: 0, unit: ""},
		{name: "decimal", input: "2.5 cups milk", quantity: 2.5, unit: "cup"},
		{name: "abbreviation", input: "2 tsp salt", quantity: 2, unit: "teaspoon"},
		{name: "plural", input: "2 teaspoons lemon juice", quantity: 2, unit: "teaspoon"},
		{name: "unit glued to number", input: "500g butter", quantity: 500, unit: "gram"},
		{name: "unicode half", input: "½ cups of water", quantity: 0.5, unit: "cup"},
		{name: "unicode composite", input: "1 ¾ cups sugar", quantity: 1.75, unit: "cup"},
		{name: "third rounds to two places", input: "1/3 cup oil", quantity: 0.33, unit: "cup"},
		{name: "composite third rounds", input: "2 2/3 cups oats", quantity: 2.67, unit: "cup"},
		{name: "eighth rounds half to even", input: "1/8 tsp salt", quantity: 0.12, unit: "teaspoon"},
		{name: "three eighths", input: "3/8 cup water", quantity: 0.38, unit: "cup"},
		{name: "five eighths", input: "5/8 cup milk", quantity: 0.62, unit: "cup"},
		{name: "composite eighth", input: "2 1/8 cups flour", quantity: 2.12, unit: "cup"},
		{name: "decimal is not rounded", input: "1.12345 kg beef", quantity: 1.12345, unit: "kilogram"},
		{name: "unit lookup is case sensitive", input: "2 Cups flour", quantity: 2, unit: ""},
		{name: "quantity only at start", input: "flour 200 g", quantity: 0, unit: ""},
		{name: "leading space is not a quantity", input: " 2 cups", quantity: 0, unit: ""},
		{name: "zero denominator", input: "1/0 cup", quantity: 0, unit: "cup"},
		{name: "trailing dot", input: "2. cups rice", quantity: 2, unit: "cup"},
		{name: "temperature", input: "180 degC oven", quantity: 180, unit: "degree_Celsius"},
		{name: "only one space before unit", input: "10  grams flour", quantity: 10, unit: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := parser.ParseIngredient(tc.input, "en", catalog)
			assert.Equal(t, tc.input, got.Raw)
			assert.InDelta(t, tc.quantity, got.Quantity, 1e-9)
			assert.Equal(t, tc.unit, got.Unit)
		})
	}
}

func TestParseIngredient_NilCatalog(t *testing.T) {
	t.Parallel()

	got := parser.ParseIngredient("10 grams flour", "en", nil)
	assert.Equal(t, 10.0, got.Quantity)
	assert.Equal(t, "", got.Unit)
}

func TestParseInstruction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		minutes float64
	}{
		{name: "minutes", input: "Do something and wait 15 minutes", minutes: 15},
		{name: "hours", input: "Do something and wait 1 hour", minutes: 60},
		{name: "days", input: "Do something and wait 2 days", minutes: 2880},
		{name: "composite", input: "Do something and wait 1 minute and 1 hour and 1 day", minutes: 1501},
		{name: "no time", input: "Do something", minutes: 0},
		{name: "empty", input: "", minutes: 0},
		{name: "abbreviation", input: "Bake for 20 min", minutes: 20},
		{name: "decimal hours", input: "Rest for 1.5 hours", minutes: 90},
		{name: "no space before unit", input: "Simmer 10minutes", minutes: 10},
		{name: "unit must end at word boundary", input: "Cook 5 mins", minutes: 0},
		{name: "unit words are case sensitive", input: "Wait 2 Hours", minutes: 0},
		{name: "number without unit", input: "Preheat to 180 degrees", minutes: 0},
		{name: "ranges count both ends", input: "Bake 10 minutes, then 5 minutes more", minutes: 15},
		{name: "unit followed by punctuation", input: "Chill (2 hours).", minutes: 120},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := parser.ParseInstruction(tc.input, "en")
			assert.Equal(t, tc.input, got.Raw)
			assert.InDelta(t, tc.minutes, got.Minutes, 1e-9)
		})
	}
}

func TestParseIngredients(t *testing.T) {
	t.Parallel()

	catalog := parser.DefaultUnitCatalog()

	t.Run("parses each line in order", func(t *testing.T) {
		t.Parallel()

		got := parser.ParseIngredients("100 grams flour\n1 cup water", "en", catalog)
		require.Len(t, got, 2)
		assert.Equal(t, parser.IngredientToken{Raw: "100 grams flour", Quantity: 100, Unit: "gram"}, got[0])
		assert.Equal(t, parser.IngredientToken{Raw: "1 cup water", Quantity: 1, Unit: "cup"}, got[1])
	})

	t.Run("keeps empty lines", func(t *testing.T) {
		t.Parallel()

		got := parser.ParseIngredients("1 cup water\n\n2 tbsp oil", "en", catalog)
		require.Len(t, got, 3)
		assert.Equal(t, parser.IngredientToken{Raw: ""}, got[1])
		assert.Equal(t, "tablespoon", got[2].Unit)
	})

	t.Run("empty block yields one empty token", func(t *testing.T) {
		t.Parallel()

		got := parser.ParseIngredients("", "en", catalog)
		require.Len(t, got, 1)
		assert.Equal(t, parser.IngredientToken{}, got[0])
	})
}

func TestParseInstructions(t *testing.T) {
	t.Parallel()

	t.Run("parses each line in order", func(t *testing.T) {
		t.Parallel()

		got := parser.ParseInstructions("Do something and wait 15 minutes\nAnd something else and wait 1 hour", "en")
		require.Len(t, got, 2)
		assert.Equal(t, parser.InstructionToken{Raw: "Do something and wait 15 minutes", Minutes: 15}, got[0])
		assert.Equal(t, parser.InstructionToken{Raw: "And something else and wait 1 hour", Minutes: 60}, got[1])
	})

	t.Run("skips empty lines", func(t *testing.T) {
		t.Parallel()

		got := parser.ParseInstructions("Mix\n\nBake 30 minutes\n", "en")
		require.Len(t, got, 2)
		assert.Equal(t, "Mix", got[0].Raw)
		assert.Equal(t, 30.0, got[1].Minutes)
	})

	t.Run("empty block yields nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, parser.ParseInstructions("", "en"))
	})
}

func TestParseLines(t *testing.T) {
	t.Parallel()

	catalog := parser.DefaultUnitCatalog()

	ingredients := parser.ParseIngredientLines([]string{"2 cups rice", "", "salt"}, "en", catalog)
	require.Len(t, ingredients, 3)
	assert.Equal(t, "cup", ingredients[0].Unit)
	assert.Equal(t, "", ingredients[1].Raw)

	instructions := parser.ParseInstructionLines([]string{"Boil 10 minutes", ""}, "en")
	require.Len(t, instructions, 2)
	assert.Equal(t, 10.0, instructions[0].Minutes)
}

func TestParseIngredient_Concurrent(t *testing.T) {
	t.Parallel()

	catalog := parser.DefaultUnitCatalog()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := parser.ParseIngredient("2 1/2 cups flour", "en", catalog)
				assert.Equal(t, 2.5, got.Quantity)
				assert.Equal(t, "cup", got.Unit)
			}
		}()
	}
	wg.Wait()
}

func FuzzParseIngredient(f *testing.F) {
	for _, seed := range []string{"", "10 grams flour", "2 1/2 cups", "½ tsp", "1/0", "99999999999.99999 g", "٣ cups"} {
		f.Add(seed)
	}
	catalog := parser.DefaultUnitCatalog()

	f.Fuzz(func(t *testing.T, line string) {
		got := parser.ParseIngredient(line, "en", catalog)
		if got.Raw != line {
			t.Fatalf("raw changed: %q != %q", got.Raw, line)
		}
		if got.Quantity < 0 {
			t.Fatalf("negative quantity %v for %q", got.Quantity, line)
		}
	})
}

func FuzzParseInstruction(f *testing.F) {
	for _, seed := range []string{"", "wait 1 minute and 1 hour and 1 day", "123456789012 minutes", "5. min", "1.5.5 hours"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, line string) {
		got := parser.ParseInstruction(line, "en")
		if got.Raw != line {
			t.Fatalf("raw changed: %q != %q", got.Raw, line)
		}
		if got.Minutes < 0 {
			t.Fatalf("negative minutes %v for %q", got.Minutes, line)
		}
	})
}
