package models

import "time"

// PageContent ist der editierbare Inhalt einer statischen Seite. Je nach Seite
// ist Content ein HTML-Fragment oder ein JSON-Blob (IsJSON).
type PageContent struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UpdatedAt time.Time `json:"last_updated"`

	PageID  string `json:"id" gorm:"uniqueIndex;not null"` // z.B. "home", "about"
	Title   string `json:"title"`
	Content string `json:"content" gorm:"type:text"`
	IsJSON  bool   `json:"is_json"`
}

// TableName gibt explizit den Tabellennamen an.
func (PageContent) TableName() string {
	return "page_contents"
}
