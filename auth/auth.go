package auth

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"gsipp-backend/config"
	"gsipp-backend/models"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrNothingToUpdate    = errors.New("nothing to update")
	ErrWeakPassword       = errors.New("password too short")
)

// MinPasswordLength applies to profile updates; the seed password is
// whatever the operator configured.
const MinPasswordLength = 6

// Session is one active admin sign-in.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChangeEvent describes a session transition passed to subscribers.
type ChangeEvent struct {
	Kind    string // "signed_in", "signed_out", "expired"
	Session Session
}

type claims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	jwtv5.RegisteredClaims
}

// Manager issues and tracks admin sessions. It is constructed once at
// process start and handed to every consumer; there is no ambient state.
type Manager struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]Session
	subs     []func(ChangeEvent)
}

func NewManager(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		db:       db,
		secret:   []byte(cfg.JWTSecret),
		ttl:      time.Duration(cfg.SessionTTLHours) * time.Hour,
		logger:   logger,
		sessions: make(map[string]Session),
	}
}

// OnChange registers a callback fired on every sign-in, sign-out and
// expiry purge. Must be called before the server starts handling requests.
func (m *Manager) OnChange(cb func(ChangeEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, cb)
}

func (m *Manager) notify(ev ChangeEvent) {
	m.mu.RLock()
	subs := m.subs
	m.mu.RUnlock()
	for _, cb := range subs {
		cb(ev)
	}
}

// SignIn verifies the email and password and issues a bearer token bound to
// a new session.
func (m *Manager) SignIn(email, password string) (string, Session, error) {
	var user models.AdminUser
	if err := m.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", Session{}, ErrInvalidCredentials
		}
		return "", Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", Session{}, ErrInvalidCredentials
	}

	now := time.Now()
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims{
		SessionID: sess.ID,
		Email:     sess.Email,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(sess.ExpiresAt),
			Issuer:    "gsipp-backend",
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Session{}, err
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	m.notify(ChangeEvent{Kind: "signed_in", Session: sess})
	return signed, sess, nil
}

// SessionFromToken parses a bearer token and returns its session, which
// must still be active.
func (m *Manager) SessionFromToken(tokenString string) (Session, error) {
	parsed, err := jwtv5.ParseWithClaims(tokenString, &claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	m.mu.RLock()
	sess, active := m.sessions[c.SessionID]
	m.mu.RUnlock()
	if !active {
		return Session{}, ErrSessionRevoked
	}
	if time.Now().After(sess.ExpiresAt) {
		m.SignOut(sess.ID)
		return Session{}, ErrInvalidToken
	}
	return sess, nil
}

// UpdateProfile changes the signed-in admin's email or password. Validation
// runs before any database work, so a rejected request never touches the
// row. An email change is propagated to every live session of that user.
func (m *Manager) UpdateProfile(sessionID, email, password string) (Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionRevoked
	}
	if email == "" && password == "" {
		return Session{}, ErrNothingToUpdate
	}
	if password != "" && len(password) < MinPasswordLength {
		return Session{}, ErrWeakPassword
	}

	updates := map[string]interface{}{}
	if email != "" {
		updates["email"] = email
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return Session{}, err
		}
		updates["password_hash"] = string(hash)
	}
	if err := m.db.Model(&models.AdminUser{}).Where("id = ?", sess.UserID).Updates(updates).Error; err != nil {
		return Session{}, err
	}

	if email != "" {
		m.mu.Lock()
		for id, s := range m.sessions {
			if s.UserID == sess.UserID {
				s.Email = email
				m.sessions[id] = s
			}
		}
		sess.Email = email
		m.mu.Unlock()
	}
	m.logger.Info("Admin profile updated",
		zap.Uint("user_id", sess.UserID), zap.Bool("password_changed", password != ""))
	return sess, nil
}

// SignOut revokes one session. Revoking an unknown session is a no-op.
func (m *Manager) SignOut(sessionID string) {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
	if ok {
		m.notify(ChangeEvent{Kind: "signed_out", Session: sess})
	}
}

// PurgeExpired drops every session past its expiry. Run from cron.
func (m *Manager) PurgeExpired() int {
	now := time.Now()
	var expired []Session
	m.mu.Lock()
	for id, sess := range m.sessions {
		if now.After(sess.ExpiresAt) {
			delete(m.sessions, id)
			expired = append(expired, sess)
		}
	}
	m.mu.Unlock()
	for _, sess := range expired {
		m.notify(ChangeEvent{Kind: "expired", Session: sess})
	}
	return len(expired)
}

// ActiveSessions returns the number of live sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Middleware guards admin routes: Authorization: Bearer <token> with a
// still-active session, else 401.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		sess, err := m.SessionFromToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or revoked session"})
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}

// CurrentSession returns the session stored by Middleware.
func CurrentSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get("session")
	if !ok {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}

// SeedAdmin creates the initial admin account when the table is empty and
// credentials were provided.
func SeedAdmin(db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	var count int64
	db.Model(&models.AdminUser{}).Count(&count)
	if count > 0 {
		return
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Warn("No admin users exist and ADMIN_EMAIL/ADMIN_PASSWORD are unset")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash seed admin password", zap.Error(err))
		return
	}
	user := models.AdminUser{Email: cfg.AdminEmail, PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		logger.Warn("Failed to seed admin user", zap.Error(err))
	} else {
		logger.Info("Seed admin user created", zap.String("email", user.Email))
	}
}
