package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event-Typen des Analytics-Logs.
const (
	EventPageView         = "page_view"
	EventPostView         = "post_view"
	EventAffiliateClick   = "affiliate_click"
	EventNewsletterSignup = "newsletter_signup"
	EventSearch           = "search"
)

// EventData ist der typ-spezifische Payload eines Events. Welche Felder gesetzt
// sind, bestimmt der Event-Typ; befüllt wird die Struktur ausschließlich über
// die Record-Methoden des AnalyticsService.
type EventData struct {
	PagePath     string `json:"pagePath,omitempty"`
	PageTitle    string `json:"pageTitle,omitempty"`
	PostID       string `json:"postId,omitempty"`
	PostTitle    string `json:"postTitle,omitempty"`
	AffiliateURL string `json:"affiliateUrl,omitempty"`
	Email        string `json:"email,omitempty"`
	SearchTerm   string `json:"searchTerm,omitempty"`
}

// AnalyticsEvent ist ein Eintrag im append-only Event-Log. Events werden nie
// mutiert oder gelöscht.
type AnalyticsEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"` // Server-Timestamp

	EventType string `json:"event_type" gorm:"index;not null"`
	SessionID string `json:"session_id" gorm:"index"`
	UserAgent string `json:"user_agent,omitempty"`

	Data datatypes.JSONType[EventData] `json:"data"`
}

// TableName gibt explizit den Tabellennamen an.
func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
