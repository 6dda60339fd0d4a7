package services

import (
	"strings"

	"techreview/models"
)

// Benannte Preis-Bereiche des Katalog-Filters.
const (
	PriceAll      = "all"
	PriceUnder50  = "under-50"
	Price50To100  = "50-100"
	Price100To200 = "100-200"
	Price200To500 = "200-500"
	PriceOver500  = "over-500"
	PriceCustom   = "custom"
)

// CatalogFilter bündelt die drei unabhängigen Prädikate der Review-Liste.
// Jedes Feld mit Zero-Value ("" bzw. nil) lässt alles durch.
type CatalogFilter struct {
	Search     string // Case-insensitive Substring gegen Titel ODER Excerpt
	Category   string // exakte Kategorie oder "all"
	PriceRange string // benannter Bereich, "custom" oder "all"

	// Nur relevant bei PriceRange == "custom". Fehlendes Min zählt als 0,
	// fehlendes Max als +unendlich. Sind beide leer, matcht der Custom-Bereich
	// alles (0..∞) — Grenzfall, den Aufrufer kennen müssen.
	CustomMin *float64
	CustomMax *float64
}

// FilterPosts liefert die Teilmenge von posts, die alle drei Prädikate erfüllt
// (logisches UND). Reine Funktion, keine Seiteneffekte; die Eingabereihenfolge
// bleibt erhalten.
func FilterPosts(posts []models.Post, f CatalogFilter) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if matchesSearch(p, f.Search) && matchesCategory(p, f.Category) && matchesPrice(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func matchesSearch(p models.Post, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Excerpt), q)
}

func matchesCategory(p models.Post, category string) bool {
	if category == "" || category == "all" {
		return true
	}
	return p.Category == category
}

func matchesPrice(p models.Post, f CatalogFilter) bool {
	// Posts ohne Preis matchen jeden Preis-Filter; der Filter schränkt nur
	// bepreiste Posts ein.
	if p.ProductPrice == nil {
		return true
	}
	price := *p.ProductPrice

	if f.PriceRange == PriceCustom {
		if f.CustomMin == nil && f.CustomMax == nil {
			return true
		}
		min := 0.0
		if f.CustomMin != nil {
			min = *f.CustomMin
		}
		if f.CustomMax != nil {
			return price >= min && price <= *f.CustomMax
		}
		return price >= min
	}

	switch f.PriceRange {
	case "", PriceAll:
		return true
	case PriceUnder50:
		return price < 50
	case Price50To100:
		return price >= 50 && price <= 100
	case Price100To200:
		return price >= 100 && price <= 200
	case Price200To500:
		return price >= 200 && price <= 500
	case PriceOver500:
		return price > 500
	}
	// Unbekannter Bereich filtert nichts.
	return true
}

// DeriveSlug leitet aus einem Titel den URL-Slug ab: Kleinbuchstaben, alles
// außer [a-z0-9] wird zu "-" zusammengefasst, Ränder werden getrimmt.
func DeriveSlug(title string) string {
	var b strings.Builder
	lastDash := true // unterdrückt führende Bindestriche
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
