package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/handler"
	"github.com/noah-isme/campus-events-api/internal/repository"
	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/config"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logr := zap.NewNop()
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1", Session: config.SessionConfig{AllowSwitch: true}}

	users := repository.NewMemoryUserRepository(repository.SeedUsers())
	events := repository.NewMemoryEventRepository(0)
	events.Seed(repository.SeedEvents(time.Now()))
	metrics := service.NewMetricsService()
	validate := validator.New()

	auditSvc := service.NewAuditService(repository.NewMemoryAuditRepository(0), users, nil, metrics, logr)
	sessionSvc := service.NewSessionService(users, repository.NewMemoryRevocationRepository(), auditSvc, validate, logr, service.SessionConfig{
		AccessTokenSecret: "router-test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "router-test",
		AllowSwitch:       true,
	})
	eventSvc := service.NewEventService(events, users, validate, logr,
		service.WithEventAudit(auditSvc),
		service.WithEventMetrics(metrics),
	)

	router := newRouter(cfg, logr, routerDeps{
		sessions: sessionSvc,
		session:  handler.NewSessionHandler(sessionSvc),
		events:   handler.NewEventHandler(eventSvc),
		audit:    handler.NewAuditHandler(auditSvc),
		metrics:  handler.NewMetricsHandler(metrics, nil),
		registry: metrics,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data.AccessToken
}

type eventEnvelope struct {
	Data struct {
		ID           string   `json:"id"`
		Status       string   `json:"status"`
		Participants []string `json:"participants"`
	} `json:"data"`
}

func decodeEvent(t *testing.T, w *httptest.ResponseRecorder) eventEnvelope {
	t.Helper()
	var env eventEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	organizer := srv.login("organizer@example.com")
	student := srv.login("student@example.com")
	admin := srv.login("ADMIN@example.com")

	draft := map[string]string{
		"title":       "Robotics Night",
		"description": "Build and race small robots.",
		"date":        time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		"time":        "18:00",
		"venue":       "Engineering Hall",
		"category":    "workshop",
	}

	w := srv.do(http.MethodPost, "/events", student, draft)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(http.MethodPost, "/events", organizer, draft)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeEvent(t, w)
	assert.Equal(t, "pending", created.Data.Status)
	id := created.Data.ID

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, "/events/"+id, student, nil).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, "/events/"+id, "", nil).Code)
	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodPut, "/events/"+id+"/status", organizer, map[string]string{"status": "approved"}).Code)

	w = srv.do(http.MethodPut, "/events/"+id+"/status", admin, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", decodeEvent(t, w).Data.Status)

	w = srv.do(http.MethodPut, "/events/"+id+"/status", admin, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, w.Code)

	for i := 0; i < 2; i++ {
		w = srv.do(http.MethodPost, "/events/"+id+"/registration", student, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Equal(t, []string{"3"}, decodeEvent(t, w).Data.Participants)

	w = srv.do(http.MethodGet, "/events/"+id+"/participants/export?format=csv", organizer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student@example.com")

	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodDelete, "/events/"+id, student, nil).Code)
	w = srv.do(http.MethodDelete, "/events/"+id, organizer, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, "/events/"+id, admin, nil).Code)
}

func TestSessionEndpointsOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, srv.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@example.com"}).Code)
	assert.Equal(t, http.StatusUnauthorized, srv.do(http.MethodGet, "/auth/me", "", nil).Code)

	token := srv.login("student@example.com")
	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/users", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodGet, "/audit-logs", token, nil).Code)

	w := srv.do(http.MethodPost, "/auth/switch", token, map[string]string{"user_id": "1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusUnauthorized, srv.do(http.MethodGet, "/auth/me", token, nil).Code)

	var switched struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &switched))
	admin := switched.Data.AccessToken
	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/audit-logs", admin, nil).Code)

	w = srv.do(http.MethodPost, "/auth/logout", admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusUnauthorized, srv.do(http.MethodGet, "/auth/me", admin, nil).Code)
}

func TestPublicListingsOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/events/upcoming", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Annual Tech Summit")
	assert.NotContains(t, w.Body.String(), "Spring Music Fest")

	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/events/calendar", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodGet, "/events/calendar?month=2026-13", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, srv.do(http.MethodGet, "/events", "", nil).Code)
}
