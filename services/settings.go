package services

import (
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"techreview/models"
)

// SettingsDoc ist das vollständige Site-Settings-Dokument. Die JSON-Keys
// entsprechen dem gespeicherten Singleton; fehlende Keys behalten beim Laden
// ihren Default (Overlay Feld für Feld, siehe Load).
type SettingsDoc struct {
	// General
	SiteName        string  `json:"siteName"`
	SiteDescription string  `json:"siteDescription"`
	SiteTagline     string  `json:"siteTagline"`
	Logo            string  `json:"logo"`
	Favicon         string  `json:"favicon"`
	SiteIcon        string  `json:"siteIcon"`
	SiteRating      float64 `json:"siteRating"`

	// Social Media
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	YouTube   string `json:"youtube"`
	LinkedIn  string `json:"linkedin"`
	Pinterest string `json:"pinterest"`

	// Display
	FeaturedPostsLimit int  `json:"featuredPostsLimit"`
	PostsPerPage       int  `json:"postsPerPage"`
	ShowAuthor         bool `json:"showAuthor"`
	ShowReadingTime    bool `json:"showReadingTime"`
	ShowCategories     bool `json:"showCategories"`

	// SEO
	MetaTitle              string `json:"metaTitle"`
	MetaDescription        string `json:"metaDescription"`
	MetaKeywords           string `json:"metaKeywords"`
	GoogleAnalyticsID      string `json:"googleAnalyticsId"`
	GoogleSiteVerification string `json:"googleSiteVerification"`

	// Footer
	CopyrightText     string `json:"copyrightText"`
	FooterDescription string `json:"footerDescription"`

	// Rating-Widget
	RatingTitle           string `json:"ratingTitle"`
	RatingDescription     string `json:"ratingDescription"`
	RatingButtonText      string `json:"ratingButtonText"`
	RatingThankYouMessage string `json:"ratingThankYouMessage"`
	RatingReviewCount     string `json:"ratingReviewCount"`
}

// DefaultSettings liefert das explizite Default-Dokument, über das gespeicherte
// Werte gelegt werden.
func DefaultSettings() SettingsDoc {
	return SettingsDoc{
		SiteName:        "TechReview",
		SiteDescription: "Honest reviews and expert opinions on the latest tech products",
		SiteTagline:     "The Best Product For You",
		SiteRating:      4.8,

		FeaturedPostsLimit: 3,
		PostsPerPage:       12,
		ShowAuthor:         true,
		ShowReadingTime:    true,
		ShowCategories:     true,

		MetaTitle:       "TechReview - Expert Product Reviews & Buying Guides",
		MetaDescription: "Get honest, in-depth reviews of the latest tech products to help you make informed buying decisions.",
		MetaKeywords:    "tech reviews, product reviews, buying guides, gadgets",

		CopyrightText:     "© 2024 TechReview. All rights reserved.",
		FooterDescription: "Your trusted source for honest product reviews and buying guides.",

		RatingTitle:           "Rate Our Site",
		RatingDescription:     "Click to rate your experience",
		RatingButtonText:      "Site Rating",
		RatingThankYouMessage: "Thank you for rating!",
		RatingReviewCount:     "Based on 50,000+ reviews",
	}
}

// SettingsService lädt und speichert das Site-Settings-Singleton und die
// editierbaren Seiteninhalte.
type SettingsService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewSettingsService erstellt eine neue Instanz des SettingsService.
func NewSettingsService(db *gorm.DB, logger *zap.Logger) *SettingsService {
	return &SettingsService{DB: db, Logger: logger}
}

// Load liest das Singleton und legt die gespeicherten Werte über die Defaults.
// Jeder Lesefehler degradiert zum Default-Dokument; der Aufrufer sieht nie
// einen Fehler auf dem Lesepfad.
func (s *SettingsService) Load() SettingsDoc {
	doc := DefaultSettings()

	var row models.SiteSettings
	if err := s.DB.Where("name = ?", models.SiteSettingsName).First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.Logger.Error("Failed to load site settings", zap.Error(err))
		}
		return doc
	}
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		s.Logger.Error("Failed to decode site settings, serving defaults", zap.Error(err))
		return DefaultSettings()
	}
	return doc
}

// Save schreibt das komplette Dokument per Upsert. Kein Konflikt-Handling:
// bei konkurrierenden Schreibern gewinnt der letzte.
func (s *SettingsService) Save(doc SettingsDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	row := models.SiteSettings{Name: models.SiteSettingsName, Data: data}
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"data":       data,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}

// ListPages liefert alle editierbaren Seiteninhalte.
func (s *SettingsService) ListPages() ([]models.PageContent, error) {
	var pages []models.PageContent
	err := s.DB.Order("page_id asc").Find(&pages).Error
	return pages, err
}

// SavePage aktualisiert den Inhalt einer editierbaren Seite.
func (s *SettingsService) SavePage(pageID, content string) (*models.PageContent, error) {
	var page models.PageContent
	if err := s.DB.Where("page_id = ?", pageID).First(&page).Error; err != nil {
		return nil, err
	}
	page.Content = content
	if err := s.DB.Save(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// PageContent liefert den Inhalt einer Seite oder "" wenn keiner gepflegt ist.
func (s *SettingsService) PageContent(pageID string) *models.PageContent {
	var page models.PageContent
	if err := s.DB.Where("page_id = ?", pageID).First(&page).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.Logger.Error("Failed to load page content", zap.String("page_id", pageID), zap.Error(err))
		}
		return nil
	}
	return &page
}

// DefaultPageContents liefert die Seed-Inhalte der editierbaren Seiten.
func DefaultPageContents() []models.PageContent {
	return []models.PageContent{
		{
			PageID: "home",
			Title:  "Home",
			IsJSON: true,
			Content: `{
  "heroTitle": "The Best Product For You",
  "heroSubtitle": "TechReview",
  "heroDescription": "We created this platform for everyone who spends hours researching before buying online. Here, you'll discover the best products, best prices, and honest reviews, all in one place.",
  "badgeText": "Trusted by 50,000+ Familys"
}`,
		},
		{
			PageID: "reviews",
			Title:  "All Reviews",
			IsJSON: true,
			Content: `{
  "pageTitle": "Product Reviews",
  "pageDescription": "Expert reviews and honest opinions on the latest products"
}`,
		},
		{
			PageID: "about",
			Title:  "About Us",
			Content: `<h1>About TechReview</h1>
<p>Welcome to TechReview, your trusted source for honest, in-depth product reviews.</p>
<h2>Our Promise</h2>
<ul>
<li>Honest, unbiased reviews based on real testing</li>
<li>Clear pros and cons for every product</li>
<li>Transparent affiliate disclosure</li>
<li>Regular updates as products evolve</li>
</ul>`,
		},
		{
			PageID: "contact",
			Title:  "Contact",
			IsJSON: true,
			Content: `{
  "pageTitle": "Contact Us",
  "pageDescription": "Have questions or suggestions? We'd love to hear from you!"
}`,
		},
		{
			PageID:  "privacy-policy",
			Title:   "Privacy Policy",
			Content: `<h1>Privacy Policy</h1><p>We respect your privacy. This page explains what data we collect and why.</p>`,
		},
		{
			PageID:  "terms-of-service",
			Title:   "Terms of Service",
			Content: `<h1>Terms of Service</h1><p>By using this site you agree to these terms.</p>`,
		},
		{
			PageID:  "disclaimer",
			Title:   "Disclaimer",
			Content: `<h1>Affiliate Disclaimer</h1><p>As an Amazon Associate we earn from qualifying purchases.</p>`,
		},
	}
}
