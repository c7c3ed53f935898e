package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gsipp-backend/auth"
	"gsipp-backend/config"
	"gsipp-backend/models"
	"gsipp-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func eventOn(title string, y int, m time.Month, d int) models.Event {
	date := time.Date(y, m, d, 12, 0, 0, 0, services.ReferenceLocation)
	return models.Event{Titulo: title, DataEvento: &date}
}

func titles(events []models.Event) string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Titulo
	}
	return strings.Join(names, ",")
}

// The public agenda lists the freshest past events first; the admin table
// keeps the past section oldest-first.
func TestOrderEventsPastDirection(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, services.ReferenceLocation)
	events := []models.Event{
		eventOn("old", 2024, time.December, 25),
		eventOn("future", 2025, time.June, 10),
		eventOn("recent", 2025, time.May, 31),
	}

	upcoming, past := orderEvents(events, eventDate, now, false)
	if got := titles(upcoming); got != "future" {
		t.Errorf("upcoming = %s, want future", got)
	}
	if got := titles(past); got != "recent,old" {
		t.Errorf("public past order = %s, want recent,old", got)
	}

	_, past = orderEvents(events, eventDate, now, true)
	if got := titles(past); got != "old,recent" {
		t.Errorf("admin past order = %s, want old,recent", got)
	}
}

func TestOrderEventsUndatedGoPast(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, services.ReferenceLocation)
	events := []models.Event{
		{Titulo: "undated"},
		eventOn("future", 2025, time.June, 10),
	}
	upcoming, past := orderEvents(events, eventDate, now, true)
	if got := titles(upcoming); got != "future" {
		t.Errorf("upcoming = %s, want future", got)
	}
	if got := titles(past); got != "undated" {
		t.Errorf("past = %s, want undated", got)
	}
}

// newTestRouter wires the routes like main does. The nil database is never
// reached: every request below is rejected by the auth middleware first.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret", SessionTTLHours: 1}
	sessions := auth.NewManager(nil, cfg, zap.NewNop())

	router := gin.New()
	admin := router.Group("/admin", sessions.Middleware())
	setupAuthRoutes(router, sessions, zap.NewNop())
	setupMemberRoutes(router, admin, nil, zap.NewNop())
	setupNewsRoutes(router, admin, nil, zap.NewNop())
	setupPublicationRoutes(router, admin, nil, cfg, zap.NewNop())
	setupEventRoutes(router, admin, nil, zap.NewNop())
	setupEditalRoutes(router, admin, nil, zap.NewNop())
	setupDashboardRoutes(admin, nil, zap.NewNop())
	return router
}

func TestAdminSurfaceRequiresAuth(t *testing.T) {
	router := newTestRouter()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/dashboard"},
		{http.MethodGet, "/admin/membros"},
		{http.MethodPost, "/admin/noticias"},
		{http.MethodPost, "/admin/publicacoes/importar"},
		{http.MethodDelete, "/admin/eventos/1"},
		{http.MethodPut, "/auth/profile"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/auth/session"},
	}

	for _, r := range requests {
		req := httptest.NewRequest(r.method, r.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		// 401, not 404: the route exists and the middleware guards it.
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", r.method, r.path, w.Code)
		}
	}
}
