package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gsipp-backend/config"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret", SessionTTLHours: 1}
	return NewManager(nil, cfg, zap.NewNop())
}

// addSession registers a session directly, sidestepping the credential check
// that would need a database.
func addSession(m *Manager, ttl time.Duration) (Session, string) {
	now := time.Now()
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    1,
		Email:     "admin@example.org",
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	// The token always validates; session expiry is enforced by the manager,
	// not the exp claim, so a short ttl here exercises that path.
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims{
		SessionID: sess.ID,
		Email:     sess.Email,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   sess.Email,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(time.Hour)),
			Issuer:    "gsipp-backend",
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		panic(err)
	}
	return sess, signed
}

func TestSessionFromToken(t *testing.T) {
	m := newTestManager(t)
	sess, token := addSession(m, time.Hour)

	got, err := m.SessionFromToken(token)
	if err != nil {
		t.Fatalf("SessionFromToken failed: %v", err)
	}
	if got.ID != sess.ID || got.Email != sess.Email {
		t.Errorf("got session %+v, want %+v", got, sess)
	}
}

func TestSessionFromTokenRejectsGarbage(t *testing.T) {
	m := newTestManager(t)
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.SessionFromToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: err = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestSessionFromTokenRejectsForeignSecret(t *testing.T) {
	m := newTestManager(t)
	other := NewManager(nil, &config.Config{JWTSecret: "other-secret", SessionTTLHours: 1}, zap.NewNop())
	_, token := addSession(other, time.Hour)

	if _, err := m.SessionFromToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestSessionFromTokenAfterSignOut(t *testing.T) {
	m := newTestManager(t)
	sess, token := addSession(m, time.Hour)

	m.SignOut(sess.ID)
	if _, err := m.SessionFromToken(token); !errors.Is(err, ErrSessionRevoked) {
		t.Errorf("err = %v, want ErrSessionRevoked", err)
	}
}

// Validation runs before any database work, so every rejection below is
// observable without one.
func TestUpdateProfileValidation(t *testing.T) {
	m := newTestManager(t)
	sess, _ := addSession(m, time.Hour)

	tests := []struct {
		name      string
		sessionID string
		email     string
		password  string
		wantErr   error
	}{
		{name: "unknown session", sessionID: "no-such-session", email: "a@b.c", wantErr: ErrSessionRevoked},
		{name: "nothing to update", sessionID: sess.ID, wantErr: ErrNothingToUpdate},
		{name: "short password", sessionID: sess.ID, password: "12345", wantErr: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.UpdateProfile(tt.sessionID, tt.email, tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSignOutUnknownSession(t *testing.T) {
	m := newTestManager(t)
	m.SignOut("no-such-session")
}

func TestPurgeExpired(t *testing.T) {
	m := newTestManager(t)
	addSession(m, -time.Minute)
	addSession(m, -time.Hour)
	live, _ := addSession(m, time.Hour)

	if purged := m.PurgeExpired(); purged != 2 {
		t.Errorf("PurgeExpired = %d, want 2", purged)
	}
	if n := m.ActiveSessions(); n != 1 {
		t.Errorf("ActiveSessions = %d, want 1", n)
	}
	if _, ok := m.sessions[live.ID]; !ok {
		t.Error("live session was purged")
	}
}

func TestOnChangeEvents(t *testing.T) {
	m := newTestManager(t)
	var events []string
	m.OnChange(func(ev ChangeEvent) { events = append(events, ev.Kind) })

	sess, _ := addSession(m, time.Hour)
	m.SignOut(sess.ID)
	addSession(m, -time.Minute)
	m.PurgeExpired()

	want := []string{"signed_out", "expired"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager(t)
	_, token := addSession(m, time.Hour)

	router := gin.New()
	router.GET("/admin/ping", m.Middleware(), func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": sess.Email})
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "no header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer garbage", wantStatus: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer " + token, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestMiddlewareRejectsExpiredSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager(t)
	_, token := addSession(m, -time.Minute)

	router := gin.New()
	router.GET("/admin/ping", m.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if m.ActiveSessions() != 0 {
		t.Error("expired session should be dropped on first use")
	}
}
