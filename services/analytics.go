package services

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"techreview/models"
)

var eventsRecorded *prometheus.CounterVec

func init() {
	eventsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_recorded_total",
			Help: "Total number of analytics events appended to the event log.",
		},
		[]string{"event_type"},
	)
	prometheus.MustRegister(eventsRecorded)
}

const sessionAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID erzeugt einen Session-Identifier im Format
// session_<unixMillis>_<9 Zeichen base36>. Der Wert gruppiert alle Events
// eines Browser-Tabs und lebt als Session-Cookie genau so lange wie der Tab.
func NewSessionID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = sessionAlphabet[rand.Intn(len(sessionAlphabet))]
	}
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

// PostStats ist ein Eintrag der Top-Posts-Auswertung.
type PostStats struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Views  int    `json:"views"`
	Clicks int    `json:"clicks"`
}

// ActivityEntry ist ein menschenlesbarer Eintrag des Recent-Activity-Feeds.
type ActivityEntry struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// PeriodStats fasst die Event-Zahlen eines Zeitfensters zusammen.
type PeriodStats struct {
	PageViews       int `json:"page_views"`
	PostViews       int `json:"post_views"`
	AffiliateClicks int `json:"affiliate_clicks"`
	TotalEvents     int `json:"total_events"`
}

// Aggregator abstrahiert die Auswertung des Event-Logs. Die Implementierung
// hier scannt bei jedem Aufruf das volle Log; hinter dem Interface lässt sich
// das später durch vorab aggregierte Zähler ersetzen, ohne Aufrufer anzufassen.
type Aggregator interface {
	CountByType(eventType string) int64
	TopPosts(n int) []PostStats
	RecentActivity(n int) []ActivityEntry
	StatsForPeriod(start, end time.Time) PeriodStats
}

// AnalyticsService schreibt und aggregiert das append-only Event-Log.
type AnalyticsService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewAnalyticsService erstellt eine neue Instanz des AnalyticsService.
func NewAnalyticsService(db *gorm.DB, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{DB: db, Logger: logger}
}

// record hängt ein Event an das Log an. Fehler werden nur geloggt und nie an
// den Aufrufer gereicht; Tracking darf den Primärfluss nicht unterbrechen.
func (s *AnalyticsService) record(eventType, sessionID, userAgent string, data models.EventData) {
	ev := models.AnalyticsEvent{
		EventType: eventType,
		SessionID: sessionID,
		UserAgent: userAgent,
		Data:      datatypes.NewJSONType(data),
	}
	if err := s.DB.Create(&ev).Error; err != nil {
		s.Logger.Warn("Failed to record analytics event",
			zap.String("event_type", eventType), zap.Error(err))
		return
	}
	eventsRecorded.WithLabelValues(eventType).Inc()
}

// RecordPageView protokolliert den Aufruf einer statischen Seite.
func (s *AnalyticsService) RecordPageView(sessionID, userAgent, pagePath, pageTitle string) {
	s.record(models.EventPageView, sessionID, userAgent, models.EventData{
		PagePath:  pagePath,
		PageTitle: pageTitle,
	})
}

// RecordPostView protokolliert den Aufruf einer Review-Detailseite.
func (s *AnalyticsService) RecordPostView(sessionID, userAgent, postID, postTitle string) {
	s.record(models.EventPostView, sessionID, userAgent, models.EventData{
		PostID:    postID,
		PostTitle: postTitle,
	})
}

// RecordAffiliateClick protokolliert einen Klick auf einen Affiliate-Link.
func (s *AnalyticsService) RecordAffiliateClick(sessionID, userAgent, postID, postTitle, affiliateURL string) {
	s.record(models.EventAffiliateClick, sessionID, userAgent, models.EventData{
		PostID:       postID,
		PostTitle:    postTitle,
		AffiliateURL: affiliateURL,
	})
}

// RecordNewsletterSignup protokolliert eine Newsletter-Anmeldung.
func (s *AnalyticsService) RecordNewsletterSignup(sessionID, userAgent, email string) {
	s.record(models.EventNewsletterSignup, sessionID, userAgent, models.EventData{
		Email: email,
	})
}

// RecordSearch protokolliert eine Suche im Katalog.
func (s *AnalyticsService) RecordSearch(sessionID, userAgent, term string) {
	s.record(models.EventSearch, sessionID, userAgent, models.EventData{
		SearchTerm: term,
	})
}

// CountByType zählt alle Events eines Typs. Bei Lesefehlern 0, damit das
// Dashboard zu "keine Daten" degradiert statt zu erroren.
func (s *AnalyticsService) CountByType(eventType string) int64 {
	var count int64
	if err := s.DB.Model(&models.AnalyticsEvent{}).
		Where("event_type = ?", eventType).
		Count(&count).Error; err != nil {
		s.Logger.Error("Failed to count analytics events",
			zap.String("event_type", eventType), zap.Error(err))
		return 0
	}
	return count
}

// TopPosts liefert die n meistgesehenen Posts. Views werden pro Post-ID
// gezählt, der zuletzt gesehene Titel gewinnt; Klicks zählen nur für IDs, die
// bereits über ein View-Event bekannt sind. Tie-Break bei gleicher View-Zahl:
// Post-ID aufsteigend, damit die Auswertung deterministisch ist.
func (s *AnalyticsService) TopPosts(n int) []PostStats {
	var views []models.AnalyticsEvent
	if err := s.DB.Where("event_type = ?", models.EventPostView).
		Order("created_at asc").
		Find(&views).Error; err != nil {
		s.Logger.Error("Failed to load post_view events", zap.Error(err))
		return []PostStats{}
	}

	var clicks []models.AnalyticsEvent
	if err := s.DB.Where("event_type = ?", models.EventAffiliateClick).
		Find(&clicks).Error; err != nil {
		s.Logger.Error("Failed to load affiliate_click events", zap.Error(err))
		return []PostStats{}
	}

	stats := make(map[string]*PostStats)
	for _, ev := range views {
		data := ev.Data.Data()
		if data.PostID == "" {
			continue
		}
		st, ok := stats[data.PostID]
		if !ok {
			st = &PostStats{ID: data.PostID, Title: "Untitled"}
			stats[data.PostID] = st
		}
		if data.PostTitle != "" {
			st.Title = data.PostTitle
		}
		st.Views++
	}
	for _, ev := range clicks {
		data := ev.Data.Data()
		if st, ok := stats[data.PostID]; ok {
			st.Clicks++
		}
		// Klicks ohne zugehöriges View-Event werden bewusst verworfen.
	}

	top := make([]PostStats, 0, len(stats))
	for _, st := range stats {
		top = append(top, *st)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Views != top[j].Views {
			return top[i].Views > top[j].Views
		}
		return top[i].ID < top[j].ID
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// RecentActivity liefert die n jüngsten Events als menschenlesbare Einträge,
// absteigend nach Timestamp.
func (s *AnalyticsService) RecentActivity(n int) []ActivityEntry {
	var events []models.AnalyticsEvent
	if err := s.DB.Order("created_at desc").Limit(n).Find(&events).Error; err != nil {
		s.Logger.Error("Failed to load recent analytics events", zap.Error(err))
		return []ActivityEntry{}
	}

	entries := make([]ActivityEntry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, ActivityEntry{
			Type:        ev.EventType,
			Description: describeEvent(ev),
			Timestamp:   ev.CreatedAt,
		})
	}
	return entries
}

func describeEvent(ev models.AnalyticsEvent) string {
	data := ev.Data.Data()
	switch ev.EventType {
	case models.EventPageView:
		title := data.PageTitle
		if title == "" {
			title = "Unknown page"
		}
		return "Page view: " + title
	case models.EventPostView:
		title := data.PostTitle
		if title == "" {
			title = "Unknown post"
		}
		return "Post viewed: " + title
	case models.EventAffiliateClick:
		title := data.PostTitle
		if title == "" {
			title = "Unknown post"
		}
		return "Affiliate link clicked: " + title
	case models.EventNewsletterSignup:
		return "Newsletter signup"
	case models.EventSearch:
		return "Search: " + data.SearchTerm
	}
	return ev.EventType
}

// StatsForPeriod zählt die Events innerhalb eines Zeitfensters.
func (s *AnalyticsService) StatsForPeriod(start, end time.Time) PeriodStats {
	var events []models.AnalyticsEvent
	if err := s.DB.Where("created_at >= ? AND created_at <= ?", start, end).
		Find(&events).Error; err != nil {
		s.Logger.Error("Failed to load analytics events for period", zap.Error(err))
		return PeriodStats{}
	}

	stats := PeriodStats{TotalEvents: len(events)}
	for _, ev := range events {
		switch ev.EventType {
		case models.EventPageView:
			stats.PageViews++
		case models.EventPostView:
			stats.PostViews++
		case models.EventAffiliateClick:
			stats.AffiliateClicks++
		}
	}
	return stats
}
