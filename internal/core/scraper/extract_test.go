package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<title>Site title</title>
<meta property="og:image" content="https://example.com/og.jpg">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebSite","name":"Example"}</script>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "Organization", "name": "Example"},
    {
      "@type": ["Recipe", "NewsArticle"],
      "name": "Pão de queijo &amp; café",
      "prepTime": "PT15M",
      "cookTime": "PT1H",
      "recipeYield": ["24", "24 pães"],
      "recipeIngredient": ["500 g polvilho", " 2 <b>ovos</b> ", ""],
      "recipeInstructions": [
        {"@type": "HowToSection", "name": "Massa", "itemListElement": [
          {"@type": "HowToStep", "text": "Misture tudo."},
          {"@type": "HowToStep", "text": "Descanse 10 minutos."}
        ]},
        {"@type": "HowToStep", "name": "Asse por 25 minutos."}
      ],
      "image": {"@type": "ImageObject", "url": "https://example.com/pao.jpg"}
    }
  ]
}
</script>
</head>
<body></body>
</html>`

func TestExtract_Graph(t *testing.T) {
	t.Parallel()

	page, err := Extract([]byte(graphPage), "example.com")
	require.NoError(t, err)

	assert.Equal(t, "Pão de queijo & café", page.Title)
	assert.Equal(t, 75, page.TotalTime)
	assert.Equal(t, "24 servings", page.Yields)
	assert.Equal(t, []string{"500 g polvilho", "2 ovos"}, page.Ingredients)
	assert.Equal(t, []string{"Misture tudo.", "Descanse 10 minutos.", "Asse por 25 minutos."}, page.Instructions)
	assert.Equal(t, "https://example.com/pao.jpg", page.Image)
	assert.Equal(t, "example.com", page.Host)
	assert.Equal(t, "pt-BR", page.Language)
}

func TestExtract_FallbacksAndArray(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<title> Fallback   title </title>
<meta property="og:image" content="https://example.com/og.jpg">
<script type="application/ld+json">[{"@type":"Recipe","totalTime":"PT1H30M","recipeYield":6,
"recipeIngredient":["1 cup flour"],
"recipeInstructions":"Mix.\n\nBake 20 min.","inLanguage":"en-US"}]</script>
</head></html>`

	page, err := Extract([]byte(html), "example.com")
	require.NoError(t, err)

	assert.Equal(t, "Fallback title", page.Title)
	assert.Equal(t, 90, page.TotalTime)
	assert.Equal(t, "6 servings", page.Yields)
	assert.Equal(t, []string{"Mix.", "Bake 20 min."}, page.Instructions)
	assert.Equal(t, "https://example.com/og.jpg", page.Image)
	assert.Equal(t, "en-US", page.Language)
}

func TestExtract_DefaultLanguage(t *testing.T) {
	t.Parallel()

	html := `<html><script type="application/ld+json">{"@type":"Recipe","name":"Toast","image":["https://example.com/a.jpg"]}</script></html>`

	page, err := Extract([]byte(html), "")
	require.NoError(t, err)
	assert.Equal(t, "en", page.Language)
	assert.Equal(t, "https://example.com/a.jpg", page.Image)
	assert.Empty(t, page.Ingredients)
	assert.Zero(t, page.TotalTime)
}

func TestExtract_NoRecipe(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no scripts":   `<html><title>Hello</title></html>`,
		"broken json":  `<html><script type="application/ld+json">{"@type": "Recipe",</script></html>`,
		"other schema": `<html><script type="application/ld+json">{"@type":"Article","name":"x"}</script></html>`,
	}
	for name, html := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Extract([]byte(html), "example.com")
			assert.ErrorIs(t, err, ErrNoRecipe)
		})
	}
}

func TestParseISODuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PT20M", 20, true},
		{"PT1H30M", 90, true},
		{"P1DT2H", 1560, true},
		{"PT90S", 1, true},
		{"pt45m", 45, true},
		{"35", 35, true},
		{"", 0, false},
		{"PT", 0, false},
		{"about an hour", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseISODuration(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
