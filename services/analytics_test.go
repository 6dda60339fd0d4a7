package services

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"techreview/models"
)

// newTestDB öffnet eine isolierte In-Memory-Datenbank pro Test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Post{}, &models.AdminUser{},
		&models.AnalyticsEvent{}, &models.SiteSettings{}, &models.PageContent{}))
	return db
}

func newAnalytics(t *testing.T) *AnalyticsService {
	return NewAnalyticsService(newTestDB(t), zap.NewNop())
}

func TestNewSessionIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^session_\d+_[0-9a-z]{9}$`)

	a := NewSessionID()
	b := NewSessionID()
	assert.Regexp(t, pattern, a)
	assert.Regexp(t, pattern, b)
	assert.NotEqual(t, a, b)
}

func TestCountByType(t *testing.T) {
	svc := newAnalytics(t)

	svc.RecordPageView("s1", "ua", "/", "Home")
	svc.RecordPageView("s1", "ua", "/reviews", "All Reviews")
	svc.RecordNewsletterSignup("s1", "ua", "a@b.com")

	assert.Equal(t, int64(2), svc.CountByType(models.EventPageView))
	assert.Equal(t, int64(1), svc.CountByType(models.EventNewsletterSignup))
	assert.Equal(t, int64(0), svc.CountByType(models.EventAffiliateClick))
}

// Szenario aus dem Event-Log: zwei Views auf p1, je ein Klick auf p1 und p2.
// Klicks ohne View-Event (p2) tauchen nicht auf.
func TestTopPostsClicksRequireViews(t *testing.T) {
	svc := newAnalytics(t)

	svc.RecordPostView("s1", "ua", "p1", "X")
	svc.RecordPostView("s2", "ua", "p1", "")
	svc.RecordAffiliateClick("s1", "ua", "p1", "X", "https://example.com/p1")
	svc.RecordAffiliateClick("s2", "ua", "p2", "Y", "https://example.com/p2")

	top := svc.TopPosts(5)
	require.Len(t, top, 1)
	assert.Equal(t, PostStats{ID: "p1", Title: "X", Views: 2, Clicks: 1}, top[0])
}

func TestTopPostsOrderingAndTruncation(t *testing.T) {
	svc := newAnalytics(t)

	// p1 und p2 mit je 2 Views (Tie), p3 mit 1 View.
	svc.RecordPostView("s", "ua", "p2", "B")
	svc.RecordPostView("s", "ua", "p2", "B")
	svc.RecordPostView("s", "ua", "p1", "A")
	svc.RecordPostView("s", "ua", "p1", "A")
	svc.RecordPostView("s", "ua", "p3", "C")

	top := svc.TopPosts(10)
	require.Len(t, top, 3)
	// Views absteigend, Tie-Break Post-ID aufsteigend.
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{top[0].ID, top[1].ID, top[2].ID})

	// Truncation auf n.
	assert.Len(t, svc.TopPosts(2), 2)

	// Idempotenz: derselbe Log liefert dieselbe Auswertung.
	assert.Equal(t, top, svc.TopPosts(10))
}

func TestTopPostsLastSeenTitleWins(t *testing.T) {
	svc := newAnalytics(t)

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"Old Title", "New Title"} {
		ev := models.AnalyticsEvent{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			EventType: models.EventPostView,
			Data:      datatypes.NewJSONType(models.EventData{PostID: "p1", PostTitle: title}),
		}
		require.NoError(t, svc.DB.Create(&ev).Error)
	}

	top := svc.TopPosts(1)
	require.Len(t, top, 1)
	assert.Equal(t, "New Title", top[0].Title)
	assert.Equal(t, 2, top[0].Views)
}

func TestRecentActivityDescriptionsAndOrder(t *testing.T) {
	svc := newAnalytics(t)

	base := time.Now().Add(-time.Hour)
	events := []models.AnalyticsEvent{
		{CreatedAt: base, EventType: models.EventPageView,
			Data: datatypes.NewJSONType(models.EventData{PagePath: "/", PageTitle: "Home"})},
		{CreatedAt: base.Add(time.Minute), EventType: models.EventPostView,
			Data: datatypes.NewJSONType(models.EventData{PostID: "p1", PostTitle: "Phone A"})},
		{CreatedAt: base.Add(2 * time.Minute), EventType: models.EventAffiliateClick,
			Data: datatypes.NewJSONType(models.EventData{PostID: "p1", PostTitle: "Phone A"})},
		{CreatedAt: base.Add(3 * time.Minute), EventType: models.EventNewsletterSignup,
			Data: datatypes.NewJSONType(models.EventData{Email: "a@b.com"})},
		{CreatedAt: base.Add(4 * time.Minute), EventType: models.EventSearch,
			Data: datatypes.NewJSONType(models.EventData{SearchTerm: "laptop"})},
	}
	for i := range events {
		require.NoError(t, svc.DB.Create(&events[i]).Error)
	}

	activity := svc.RecentActivity(3)
	require.Len(t, activity, 3)
	// Jüngstes Event zuerst.
	assert.Equal(t, "Search: laptop", activity[0].Description)
	assert.Equal(t, "Newsletter signup", activity[1].Description)
	assert.Equal(t, "Affiliate link clicked: Phone A", activity[2].Description)

	all := svc.RecentActivity(10)
	require.Len(t, all, 5)
	assert.Equal(t, "Post viewed: Phone A", all[3].Description)
	assert.Equal(t, "Page view: Home", all[4].Description)
}

func TestRecentActivityUnknownTitleFallback(t *testing.T) {
	svc := newAnalytics(t)

	svc.RecordPageView("s", "ua", "/x", "")
	svc.RecordPostView("s", "ua", "p1", "")

	activity := svc.RecentActivity(10)
	require.Len(t, activity, 2)
	descriptions := []string{activity[0].Description, activity[1].Description}
	assert.Contains(t, descriptions, "Page view: Unknown page")
	assert.Contains(t, descriptions, "Post viewed: Unknown post")
}

func TestStatsForPeriod(t *testing.T) {
	svc := newAnalytics(t)

	old := models.AnalyticsEvent{
		CreatedAt: time.Now().AddDate(0, 0, -30),
		EventType: models.EventPageView,
		Data:      datatypes.NewJSONType(models.EventData{PagePath: "/"}),
	}
	require.NoError(t, svc.DB.Create(&old).Error)

	svc.RecordPageView("s", "ua", "/", "Home")
	svc.RecordPostView("s", "ua", "p1", "X")
	svc.RecordAffiliateClick("s", "ua", "p1", "X", "u")
	svc.RecordSearch("s", "ua", "phone")

	now := time.Now()
	stats := svc.StatsForPeriod(now.AddDate(0, 0, -7), now.Add(time.Minute))
	assert.Equal(t, PeriodStats{PageViews: 1, PostViews: 1, AffiliateClicks: 1, TotalEvents: 4}, stats)
}
