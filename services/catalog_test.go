package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"techreview/models"
)

func floatPtr(f float64) *float64 { return &f }

func catalogFixture() []models.Post {
	return []models.Post{
		{Title: "Phone A", Excerpt: "great", Category: "Smartphones & Mobile", ProductPrice: floatPtr(40)},
		{Title: "Phone B", Excerpt: "ok", Category: "Smartphones & Mobile", ProductPrice: floatPtr(150)},
		{Title: "Laptop Pro", Excerpt: "fast machine", Category: "Laptops", ProductPrice: floatPtr(999)},
		{Title: "Mystery Gadget", Excerpt: "no price listed", Category: "Electronics"}, // kein Preis
	}
}

func titles(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestFilterPostsSearch(t *testing.T) {
	posts := catalogFixture()

	// Leere Suche matcht alles.
	assert.Len(t, FilterPosts(posts, CatalogFilter{}), len(posts))

	// Case-insensitive Substring gegen Titel ODER Excerpt.
	assert.Equal(t, []string{"Phone A", "Phone B"}, titles(FilterPosts(posts, CatalogFilter{Search: "PHONE"})))
	assert.Equal(t, []string{"Laptop Pro"}, titles(FilterPosts(posts, CatalogFilter{Search: "fast mach"})))
	assert.Empty(t, FilterPosts(posts, CatalogFilter{Search: "toaster"}))
}

func TestFilterPostsCategory(t *testing.T) {
	posts := catalogFixture()

	assert.Len(t, FilterPosts(posts, CatalogFilter{Category: "all"}), len(posts))
	assert.Equal(t, []string{"Laptop Pro"}, titles(FilterPosts(posts, CatalogFilter{Category: "Laptops"})))
	assert.Empty(t, FilterPosts(posts, CatalogFilter{Category: "Pet Supplies"}))
}

func TestFilterPostsPriceBrackets(t *testing.T) {
	posts := catalogFixture()

	tests := []struct {
		name       string
		priceRange string
		want       []string
	}{
		{"all", PriceAll, []string{"Phone A", "Phone B", "Laptop Pro", "Mystery Gadget"}},
		{"under-50", PriceUnder50, []string{"Phone A", "Mystery Gadget"}},
		{"50-100", Price50To100, []string{"Mystery Gadget"}},
		{"100-200", Price100To200, []string{"Phone B", "Mystery Gadget"}},
		{"200-500", Price200To500, []string{"Mystery Gadget"}},
		{"over-500", PriceOver500, []string{"Laptop Pro", "Mystery Gadget"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPosts(posts, CatalogFilter{PriceRange: tt.priceRange})
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

// Posts ohne Preis matchen jeden Preis-Filter.
func TestFilterPostsUnpricedAlwaysMatches(t *testing.T) {
	unpriced := []models.Post{{Title: "Mystery Gadget", Excerpt: ""}}

	for _, pr := range []string{PriceAll, PriceUnder50, Price50To100, Price100To200, Price200To500, PriceOver500, PriceCustom} {
		got := FilterPosts(unpriced, CatalogFilter{PriceRange: pr})
		assert.Len(t, got, 1, "price range %q must not exclude unpriced posts", pr)
	}
}

func TestFilterPostsCustomRange(t *testing.T) {
	posts := catalogFixture()

	// Nur Min: ab 100 aufwärts.
	got := FilterPosts(posts, CatalogFilter{PriceRange: PriceCustom, CustomMin: floatPtr(100)})
	assert.Equal(t, []string{"Phone B", "Laptop Pro", "Mystery Gadget"}, titles(got))

	// Nur Max: bis 100.
	got = FilterPosts(posts, CatalogFilter{PriceRange: PriceCustom, CustomMax: floatPtr(100)})
	assert.Equal(t, []string{"Phone A", "Mystery Gadget"}, titles(got))

	// Min und Max.
	got = FilterPosts(posts, CatalogFilter{PriceRange: PriceCustom, CustomMin: floatPtr(100), CustomMax: floatPtr(200)})
	assert.Equal(t, []string{"Phone B", "Mystery Gadget"}, titles(got))

	// Grenzfall: beide Felder leer degeneriert zu 0..∞ und matcht alles.
	got = FilterPosts(posts, CatalogFilter{PriceRange: PriceCustom})
	assert.Len(t, got, len(posts))
}

// Szenario aus der Produktliste: Textsuche + Kategorie "all" + under-50.
func TestFilterPostsCombined(t *testing.T) {
	posts := []models.Post{
		{Title: "Phone A", Excerpt: "great", ProductPrice: floatPtr(40)},
		{Title: "Phone B", Excerpt: "ok", ProductPrice: floatPtr(150)},
	}

	got := FilterPosts(posts, CatalogFilter{Search: "phone", Category: "all", PriceRange: PriceUnder50})
	assert.Equal(t, []string{"Phone A"}, titles(got))
}

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Phone A", "phone-a"},
		{"  Best Laptop 2024!  ", "best-laptop-2024"},
		{"Überraschung: ein Gerät", "berraschung-ein-ger-t"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveSlug(tt.title), "title %q", tt.title)
	}
}
