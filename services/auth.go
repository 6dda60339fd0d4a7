package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"techreview/models"
)

// Fehler des Auth-Service. Die Handler mappen sie auf die Meldungen des
// Login-Formulars bzw. der Benutzerverwaltung.
var (
	// ErrInvalidCredentials deckt unbekannte E-Mail UND falsches Passwort ab;
	// die beiden Fälle werden nach außen nie unterschieden.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too weak")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Session ist eine aktive Admin-Sitzung.
type Session struct {
	Token string           `json:"token"`
	User  models.AdminUser `json:"user"`
}

// AuthService verwaltet Admin-Identitäten, stellt JWTs aus und informiert
// Subscriber über Login/Logout-Übergänge.
type AuthService struct {
	DB     *gorm.DB
	Logger *zap.Logger

	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	current *Session
	nextSub int
	subs    map[int]func(*Session)
}

// NewAuthService erstellt eine neue Instanz des AuthService.
func NewAuthService(db *gorm.DB, logger *zap.Logger, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		DB:     db,
		Logger: logger,
		secret: []byte(secret),
		ttl:    ttl,
		subs:   make(map[int]func(*Session)),
	}
}

// SignIn prüft die Zugangsdaten und stellt bei Erfolg eine Session mit JWT
// aus. Unbekannte E-Mail und falsches Passwort liefern denselben Fehler.
func (a *AuthService) SignIn(email, password string) (*Session, error) {
	var user models.AdminUser
	if err := a.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			a.Logger.Error("DB error during sign-in", zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(a.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		a.Logger.Error("Failed to sign session token", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	session := &Session{Token: token, User: user}
	a.setSession(session)
	a.Logger.Info("Admin signed in", zap.String("uid", user.UID))
	return session, nil
}

// SignOut beendet die aktuelle Session und benachrichtigt alle Subscriber.
func (a *AuthService) SignOut() {
	a.setSession(nil)
	a.Logger.Info("Admin signed out")
}

// Verify parst ein Bearer-Token und gibt uid und email der Session zurück.
func (a *AuthService) Verify(token string) (uid, email string, err error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	uid, _ = claims["sub"].(string)
	email, _ = claims["email"].(string)
	if uid == "" {
		return "", "", ErrInvalidToken
	}
	return uid, email, nil
}

// CreateUser legt einen neuen Admin an. Duplikate, zu schwache Passwörter und
// ungültige E-Mails liefern unterscheidbare Fehler für die jeweilige Meldung
// in der Benutzerverwaltung.
func (a *AuthService) CreateUser(email, password, displayName string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	var count int64
	if err := a.DB.Model(&models.AdminUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.AdminUser{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	if err := a.DB.Create(&user).Error; err != nil {
		// Unique-Index auf email fängt das Check-then-Insert-Race ab.
		return nil, ErrEmailInUse
	}
	a.Logger.Info("Admin user created", zap.String("uid", user.UID), zap.String("email", user.Email))
	return &user, nil
}

// UpdateProfile setzt den Anzeigenamen eines Admins.
func (a *AuthService) UpdateProfile(uid, displayName string) error {
	return a.DB.Model(&models.AdminUser{}).
		Where("uid = ?", uid).
		Update("display_name", displayName).Error
}

// OnSessionChange registriert einen Callback, der sofort mit der aktuellen
// Session (oder nil) und danach bei jedem Übergang aufgerufen wird. Der
// zurückgegebene Disposer hebt die Registrierung auf; Aufrufer binden ihn an
// die Lebensdauer ihrer View.
func (a *AuthService) OnSessionChange(fn func(*Session)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	current := a.current
	a.mu.Unlock()

	fn(current)

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *AuthService) setSession(s *Session) {
	a.mu.Lock()
	a.current = s
	subs := make([]func(*Session), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}
