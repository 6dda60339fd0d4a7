package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSettingsName ist der feste Key des Settings-Singletons.
const SiteSettingsName = "siteSettings"

// SiteSettings ist das Singleton-Dokument mit der gesamten Site-Konfiguration.
// Der Inhalt liegt als JSON-Blob in Data; das Default-Merge passiert beim Lesen
// im SettingsService.
type SiteSettings struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string         `json:"name" gorm:"uniqueIndex;not null"`
	Data datatypes.JSON `json:"data" gorm:"type:jsonb"`
}

// TableName gibt explizit den Tabellennamen an.
func (SiteSettings) TableName() string {
	return "site_settings"
}
