package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post repräsentiert eine veröffentlichte Produkt-Review.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Slug ist der öffentliche Lookup-Key (/product/:slug), eindeutig über alle Posts.
	Slug    string `json:"slug" gorm:"uniqueIndex;not null"`
	Title   string `json:"title" gorm:"not null"`
	Excerpt string `json:"excerpt" gorm:"type:text"`
	Content string `json:"content" gorm:"type:text"` // Markdown

	CoverImage string    `json:"cover_image,omitempty"`
	Date       time.Time `json:"date" gorm:"index"` // Publikationsdatum, wird bei jedem Update überschrieben

	AuthorName   string `json:"author_name" gorm:"default:'Admin'"`
	AuthorAvatar string `json:"author_avatar,omitempty"`

	Category    string                      `json:"category" gorm:"index"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	ReadingTime int                         `json:"reading_time" gorm:"default:5"` // Minuten

	// Produkt-Daten
	ProductName  string   `json:"product_name,omitempty"`
	ProductPrice *float64 `json:"product_price,omitempty"` // nil = kein Preis gesetzt
	AffiliateURL string   `json:"affiliate_url,omitempty"`

	Pros  datatypes.JSONSlice[string]           `json:"pros"`
	Cons  datatypes.JSONSlice[string]           `json:"cons"`
	Specs datatypes.JSONType[map[string]string] `json:"specs"`

	Featured bool `json:"featured" gorm:"index;default:false"`
}

// TableName gibt explizit den Tabellennamen an.
func (Post) TableName() string {
	return "posts"
}
