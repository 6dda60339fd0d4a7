package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"techreview/config"
	"techreview/models"
	"techreview/services"
	"techreview/storage"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sessionCookieName = "analytics_session"

var httpRequestsCounter *prometheus.CounterVec

func init() {
	httpRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route group.",
		},
		[]string{"group"},
	)
	prometheus.MustRegister(httpRequestsCounter)
}

// corsMiddleware erlaubt dem konfigurierten Frontend-Origin den Zugriff.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.AllowedOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// sessionMiddleware stellt sicher, dass jeder Request eine Analytics-Session
// trägt. Fehlt das Cookie, wird eine neue ID gemintet und als Session-Cookie
// gesetzt (lebt so lange wie der Tab).
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookieName)
		if err != nil || sid == "" {
			sid = services.NewSessionID()
			c.SetCookie(sessionCookieName, sid, 0, "/", "", false, true)
		}
		c.Set("session_id", sid)
		c.Next()
	}
}

// authMiddleware schützt die Dashboard-Routen über ein Bearer-Token.
func authMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		uid, email, err := auth.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("uid", uid)
		c.Set("email", email)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Post{}, &models.AdminUser{}, &models.AnalyticsEvent{},
		&models.SiteSettings{}, &models.PageContent{})

	// Setup Services
	analyticsService := services.NewAnalyticsService(db, logging)
	authService := services.NewAuthService(db, logging, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	settingsService := services.NewSettingsService(db, logging)

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	// Seeding
	seedDefaultPageContents(db, logging)
	seedDefaultSiteSettings(db, settingsService, logging)
	bootstrapAdmin(db, cfg, authService, logging)

	// Audit-Log für Login/Logout-Übergänge; die Subscription lebt so lange wie
	// der Prozess.
	unsubscribe := authService.OnSessionChange(func(s *services.Session) {
		if s == nil {
			logging.Info("Admin session ended")
			return
		}
		logging.Info("Admin session active", zap.String("uid", s.User.UID))
	})
	defer unsubscribe()

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(sessionMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup Routes
	setupPublicRoutes(router, db, settingsService, analyticsService, logging)
	setupAdminRoutes(router, db, authService, settingsService, analyticsService, logging)
	setupMediaRoutes(router, cfg, s3Client, authService, logging)

	// Setup Cron: täglicher Read-only-Summary über das Event-Log.
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		now := time.Now()
		stats := analyticsService.StatsForPeriod(now.AddDate(0, 0, -1), now)
		logging.Info("Daily analytics summary",
			zap.Int("page_views", stats.PageViews),
			zap.Int("post_views", stats.PostViews),
			zap.Int("affiliate_clicks", stats.AffiliateClicks),
			zap.Int("total_events", stats.TotalEvents))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// setupPublicRoutes konfiguriert die öffentlichen Seiten-Endpunkte. Lesefehler
// degradieren zu Defaults bzw. leeren Listen; der Besucher sieht nie einen
// rohen Fehler.
func setupPublicRoutes(router *gin.Engine, db *gorm.DB, settings *services.SettingsService, analytics *services.AnalyticsService, log *zap.Logger) {
	// GET / - Hero-Inhalt, Featured Posts und Site-Settings der Startseite
	router.GET("/", func(c *gin.Context) {
		httpRequestsCounter.WithLabelValues("public").Inc()
		doc := settings.Load()

		var featured []models.Post
		if err := db.Where("featured = ?", true).
			Order("date desc").
			Limit(doc.FeaturedPostsLimit).
			Find(&featured).Error; err != nil {
			log.Error("Failed to load featured posts", zap.Error(err))
			featured = []models.Post{}
		}

		go analytics.RecordPageView(sessionID(c), c.Request.UserAgent(), "/", "Home")

		c.JSON(http.StatusOK, gin.H{
			"hero":     pageOrDefault(settings, "home"),
			"featured": featured,
			"settings": doc,
		})
	})

	// GET /reviews - komplette Post-Liste, gefiltert nach Text/Kategorie/Preis
	router.GET("/reviews", func(c *gin.Context) {
		httpRequestsCounter.WithLabelValues("public").Inc()

		filter := services.CatalogFilter{
			Search:     c.Query("q"),
			Category:   c.DefaultQuery("category", "all"),
			PriceRange: c.DefaultQuery("price", "all"),
		}
		if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
			filter.CustomMin = &v
		}
		if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
			filter.CustomMax = &v
		}

		// Kein Paging: alle Posts laden (vorsortiert nach Datum absteigend),
		// gefiltert wird in-memory.
		var posts []models.Post
		if err := db.Order("date desc").Find(&posts).Error; err != nil {
			log.Error("Failed to load posts", zap.Error(err))
			posts = []models.Post{}
		}
		filtered := services.FilterPosts(posts, filter)

		go analytics.RecordPageView(sessionID(c), c.Request.UserAgent(), "/reviews", "All Reviews")
		if filter.Search != "" {
			go analytics.RecordSearch(sessionID(c), c.Request.UserAgent(), filter.Search)
		}

		c.JSON(http.StatusOK, gin.H{
			"page":       pageOrDefault(settings, "reviews"),
			"posts":      filtered,
			"categories": models.Categories,
		})
	})

	// GET /product/:slug - Review-Detailseite
	router.GET("/product/:slug", func(c *gin.Context) {
		httpRequestsCounter.WithLabelValues("public").Inc()
		slug := c.Param("slug")

		var post models.Post
		if err := db.Where("slug = ?", slug).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
				return
			}
			log.Error("DB error loading post", zap.String("slug", slug), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		go analytics.RecordPostView(sessionID(c), c.Request.UserAgent(),
			strconv.FormatUint(uint64(post.ID), 10), post.Title)

		c.JSON(http.StatusOK, post)
	})

	// POST /product/:slug/affiliate-click - Klick-Tracking, liefert die Ziel-URL
	router.POST("/product/:slug/affiliate-click", func(c *gin.Context) {
		var post models.Post
		if err := db.Where("slug = ?", c.Param("slug")).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		go analytics.RecordAffiliateClick(sessionID(c), c.Request.UserAgent(),
			strconv.FormatUint(uint64(post.ID), 10), post.Title, post.AffiliateURL)

		c.JSON(http.StatusOK, gin.H{"affiliate_url": post.AffiliateURL})
	})

	// POST /newsletter - Anmeldung wird nur protokolliert
	router.POST("/newsletter", func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email address is required"})
			return
		}

		go analytics.RecordNewsletterSignup(sessionID(c), c.Request.UserAgent(), req.Email)
		c.JSON(http.StatusOK, gin.H{"message": "Thanks for subscribing!"})
	})

	// Statische, im Dashboard editierbare Seiten
	staticPages := []struct {
		route  string
		pageID string
		title  string
	}{
		{"/about", "about", "About Us"},
		{"/contact", "contact", "Contact"},
		{"/privacy-policy", "privacy-policy", "Privacy Policy"},
		{"/terms-of-service", "terms-of-service", "Terms of Service"},
		{"/disclaimer", "disclaimer", "Disclaimer"},
	}
	for _, p := range staticPages {
		page := p
		router.GET(page.route, func(c *gin.Context) {
			httpRequestsCounter.WithLabelValues("public").Inc()
			go analytics.RecordPageView(sessionID(c), c.Request.UserAgent(), page.route, page.title)
			c.JSON(http.StatusOK, pageOrDefault(settings, page.pageID))
		})
	}

	// GET /sitemap - alle statischen Routen plus Produkt-Slugs
	router.GET("/sitemap", func(c *gin.Context) {
		routes := []string{"/", "/reviews", "/about", "/contact", "/privacy-policy", "/terms-of-service", "/disclaimer", "/sitemap"}

		var posts []models.Post
		if err := db.Select("slug").Order("date desc").Find(&posts).Error; err != nil {
			log.Error("Failed to load slugs for sitemap", zap.Error(err))
			posts = []models.Post{}
		}
		products := make([]string, 0, len(posts))
		for _, p := range posts {
			products = append(products, "/product/"+p.Slug)
		}

		go analytics.RecordPageView(sessionID(c), c.Request.UserAgent(), "/sitemap", "Sitemap")
		c.JSON(http.StatusOK, gin.H{"routes": routes, "products": products})
	})

	// GET /site-settings - gemergtes Settings-Dokument (Footer, Rating-Widget)
	router.GET("/site-settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, settings.Load())
	})
}

// pageOrDefault liefert den gepflegten Seiteninhalt oder den Seed-Default,
// falls die Zeile fehlt.
func pageOrDefault(settings *services.SettingsService, pageID string) *models.PageContent {
	if page := settings.PageContent(pageID); page != nil {
		return page
	}
	for _, p := range services.DefaultPageContents() {
		if p.PageID == pageID {
			return &p
		}
	}
	return &models.PageContent{PageID: pageID}
}

// setupAdminRoutes konfiguriert die session-geschützten Dashboard-Endpunkte.
func setupAdminRoutes(router *gin.Engine, db *gorm.DB, auth *services.AuthService, settings *services.SettingsService, analytics *services.AnalyticsService, log *zap.Logger) {
	dash := router.Group("/dashboard")

	// POST /dashboard/login - einziger offener Dashboard-Endpunkt
	dash.POST("/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		session, err := auth.SignIn(req.Email, req.Password)
		if err != nil {
			// Bewusst generisch, Credentials werden nicht unterschieden.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusOK, session)
	})

	authed := dash.Group("", authMiddleware(auth))

	authed.POST("/logout", func(c *gin.Context) {
		auth.SignOut()
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
	})

	// GET /dashboard - Entity-Zähler für die Übersichtskacheln
	authed.GET("", func(c *gin.Context) {
		httpRequestsCounter.WithLabelValues("admin").Inc()
		var users, posts, pages, settingsCount int64
		db.Model(&models.AdminUser{}).Count(&users)
		db.Model(&models.Post{}).Count(&posts)
		db.Model(&models.PageContent{}).Count(&pages)
		db.Model(&models.SiteSettings{}).Count(&settingsCount)
		c.JSON(http.StatusOK, gin.H{
			"users":    users,
			"posts":    posts,
			"pages":    pages,
			"settings": settingsCount,
		})
	})

	setupPostAdminRoutes(authed, db, log)
	setupUserAdminRoutes(authed, auth, db, log)
	setupPageAdminRoutes(authed, settings, log)
	setupSettingsAdminRoutes(authed, settings, log)
	setupAnalyticsAdminRoutes(authed, analytics)
}

func setupPostAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	// GET - alle Posts, neueste zuerst
	rg.GET("/posts", func(c *gin.Context) {
		var posts []models.Post
		if err := db.Order("date desc").Find(&posts).Error; err != nil {
			log.Error("Database query for posts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, posts)
	})

	// POST - neuen Post anlegen
	rg.POST("/posts", func(c *gin.Context) {
		var post models.Post
		if err := c.ShouldBindJSON(&post); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if msg := normalizePost(&post); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		// Slug-Eindeutigkeit: Check-then-Insert ist nicht atomar, zwei
		// gleichzeitige Creates können beide passieren. Der Unique-Index auf
		// slug ist der finale Schiedsrichter.
		var count int64
		if err := db.Model(&models.Post{}).Where("slug = ?", post.Slug).Count(&count).Error; err != nil {
			log.Error("DB error checking slug", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Post with this slug already exists"})
			return
		}

		if err := db.Create(&post).Error; err != nil {
			if isDuplicateErr(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Post with this slug already exists"})
				return
			}
			log.Error("Failed to create post", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save post"})
			return
		}

		log.Info("Post created", zap.Uint("id", post.ID), zap.String("slug", post.Slug))
		c.JSON(http.StatusCreated, post)
	})

	// PUT - Post aktualisieren; das Publikationsdatum wird immer auf jetzt gesetzt
	rg.PUT("/posts/:id", func(c *gin.Context) {
		id := c.Param("id")
		var post models.Post
		if err := db.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
				return
			}
			log.Error("DB error fetching post", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		postID := post.ID
		if err := c.ShouldBindJSON(&post); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		// Ein id-Feld im Body darf den Save nicht auf eine andere Zeile umlenken.
		post.ID = postID
		post.Date = time.Now()
		if msg := normalizePost(&post); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		if err := db.Save(&post).Error; err != nil {
			if isDuplicateErr(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Post with this slug already exists"})
				return
			}
			log.Error("Failed to update post", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save post"})
			return
		}

		c.JSON(http.StatusOK, post)
	})

	// DELETE - Post löschen (kein Soft-Delete)
	rg.DELETE("/posts/:id", func(c *gin.Context) {
		id := c.Param("id")
		var post models.Post
		if err := db.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := db.Delete(&post).Error; err != nil {
			log.Error("Failed to delete post", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	})
}

// normalizePost füllt abgeleitete Felder und validiert die Eingabe. Gibt bei
// Validierungsfehlern die Meldung für den Client zurück, sonst "".
func normalizePost(post *models.Post) string {
	if strings.TrimSpace(post.Title) == "" {
		return "Title is required"
	}
	if post.Category != "" && !models.IsValidCategory(post.Category) {
		return "Unknown category"
	}
	if post.ProductPrice != nil && *post.ProductPrice < 0 {
		return "Product price must not be negative"
	}

	if post.Slug == "" {
		post.Slug = services.DeriveSlug(post.Title)
	}
	if post.Date.IsZero() {
		post.Date = time.Now()
	}
	if post.AuthorName == "" {
		post.AuthorName = "Admin"
	}
	if post.ReadingTime <= 0 {
		post.ReadingTime = 5
	}
	post.Pros = trimBlank(post.Pros)
	post.Cons = trimBlank(post.Cons)
	return ""
}

func trimBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func setupUserAdminRoutes(rg *gin.RouterGroup, auth *services.AuthService, db *gorm.DB, log *zap.Logger) {
	rg.GET("/users", func(c *gin.Context) {
		var users []models.AdminUser
		if err := db.Order("created_at asc").Find(&users).Error; err != nil {
			log.Error("Database query for users failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, users)
	})

	rg.POST("/users", func(c *gin.Context) {
		var req struct {
			Email       string `json:"email" binding:"required"`
			Password    string `json:"password" binding:"required"`
			DisplayName string `json:"display_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		user, err := auth.CreateUser(req.Email, req.Password, req.DisplayName)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmailInUse):
				c.JSON(http.StatusBadRequest, gin.H{"error": "This email is already registered. Please use a different email."})
			case errors.Is(err, services.ErrWeakPassword):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Password should be at least 6 characters."})
			case errors.Is(err, services.ErrInvalidEmail):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address."})
			default:
				log.Error("Failed to create user", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			}
			return
		}
		c.JSON(http.StatusCreated, user)
	})

	// PUT - Anzeigenamen eines Admins ändern
	rg.PUT("/users/:uid", func(c *gin.Context) {
		var req struct {
			DisplayName string `json:"display_name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Display name is required"})
			return
		}

		uid := c.Param("uid")
		var user models.AdminUser
		if err := db.Where("uid = ?", uid).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			log.Error("DB error fetching user", zap.String("uid", uid), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		if err := auth.UpdateProfile(uid, req.DisplayName); err != nil {
			log.Error("Failed to update profile", zap.String("uid", uid), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		user.DisplayName = req.DisplayName
		c.JSON(http.StatusOK, user)
	})
}

func setupPageAdminRoutes(rg *gin.RouterGroup, settings *services.SettingsService, log *zap.Logger) {
	rg.GET("/pages", func(c *gin.Context) {
		pages, err := settings.ListPages()
		if err != nil {
			log.Error("Failed to list pages", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, pages)
	})

	// PUT - Inhalt einer Seite speichern. Kein Schema-Check: was der Admin
	// speichert, wird so wieder ausgeliefert.
	rg.PUT("/pages/:id", func(c *gin.Context) {
		var req struct {
			Content string `json:"content" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
			return
		}

		page, err := settings.SavePage(c.Param("id"), req.Content)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
				return
			}
			log.Error("Failed to save page content", zap.String("page_id", c.Param("id")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save content"})
			return
		}
		c.JSON(http.StatusOK, page)
	})
}

func setupSettingsAdminRoutes(rg *gin.RouterGroup, settings *services.SettingsService, log *zap.Logger) {
	rg.GET("/settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, settings.Load())
	})

	rg.PUT("/settings", func(c *gin.Context) {
		var doc services.SettingsDoc
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := settings.Save(doc); err != nil {
			log.Error("Failed to save settings", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
		c.JSON(http.StatusOK, doc)
	})
}

func setupAnalyticsAdminRoutes(rg *gin.RouterGroup, analytics *services.AnalyticsService) {
	// GET - komplettes Dashboard in einem Response. Die Teil-Auswertungen
	// degradieren einzeln zu Null-Werten; geantwortet wird erst, wenn alle
	// vorliegen, damit nie Partial-Results rendern.
	rg.GET("/analytics", func(c *gin.Context) {
		httpRequestsCounter.WithLabelValues("admin").Inc()
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 {
			limit = 10
		}

		now := time.Now()
		c.JSON(http.StatusOK, gin.H{
			"total_page_views":        analytics.CountByType(models.EventPageView),
			"total_post_views":        analytics.CountByType(models.EventPostView),
			"total_affiliate_clicks":  analytics.CountByType(models.EventAffiliateClick),
			"total_newsletter_signups": analytics.CountByType(models.EventNewsletterSignup),
			"total_searches":          analytics.CountByType(models.EventSearch),
			"top_posts":               analytics.TopPosts(limit),
			"recent_activity":         analytics.RecentActivity(limit),
			"last_7_days":             analytics.StatsForPeriod(now.AddDate(0, 0, -7), now),
		})
	})
}

// setupMediaRoutes konfiguriert den Cover-Bild-Upload ins S3.
func setupMediaRoutes(router *gin.Engine, cfg *config.Config, s3Client *awss3.Client, auth *services.AuthService, log *zap.Logger) {
	rg := router.Group("/dashboard", authMiddleware(auth))

	rg.POST("/media", func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
			return
		}

		key := "media/" + uuid.NewString() + filepath.Ext(header.Filename)
		url, err := storage.UploadMedia(s3Client, cfg, key, header.Header.Get("Content-Type"), data)
		if err != nil {
			log.Error("Media upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload media"})
			return
		}

		log.Info("Media uploaded", zap.String("key", key))
		c.JSON(http.StatusCreated, gin.H{"url": url})
	})
}

func seedDefaultPageContents(db *gorm.DB, logger *zap.Logger) {
	var count int64
	db.Model(&models.PageContent{}).Count(&count)
	if count > 0 {
		return
	}
	pages := services.DefaultPageContents()
	if err := db.Create(&pages).Error; err != nil {
		logger.Warn("Failed to seed default page contents", zap.Error(err))
	} else {
		logger.Info("Default page contents seeded.")
	}
}

func seedDefaultSiteSettings(db *gorm.DB, settings *services.SettingsService, logger *zap.Logger) {
	var count int64
	db.Model(&models.SiteSettings{}).Where("name = ?", models.SiteSettingsName).Count(&count)
	if count > 0 {
		return
	}
	if err := settings.Save(services.DefaultSettings()); err != nil {
		logger.Warn("Failed to seed default site settings", zap.Error(err))
	} else {
		logger.Info("Default site settings seeded.")
	}
}

// bootstrapAdmin legt den ersten Admin aus der Umgebung an, wenn noch keiner
// existiert.
func bootstrapAdmin(db *gorm.DB, cfg *config.Config, auth *services.AuthService, logger *zap.Logger) {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return
	}
	var count int64
	db.Model(&models.AdminUser{}).Count(&count)
	if count > 0 {
		return
	}
	if _, err := auth.CreateUser(cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword, "Admin"); err != nil {
		logger.Warn("Failed to bootstrap admin user", zap.Error(err))
	} else {
		logger.Info("Bootstrap admin user created.", zap.String("email", cfg.BootstrapAdminEmail))
	}
}
