package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/service"
)

type stubService struct {
	assessments map[string]*domain.Assessment
	assessErr   error
	lastProfile *domain.HealthProfile
}

func newStubService() *stubService {
	return &stubService{assessments: make(map[string]*domain.Assessment)}
}

func (s *stubService) Assess(ctx context.Context, profile *domain.HealthProfile) (*domain.Assessment, error) {
	if s.assessErr != nil {
		return nil, s.assessErr
	}
	s.lastProfile = profile
	a := &domain.Assessment{
		ID:     "00000000-0000-0000-0000-000000000001",
		UserID: profile.UserID,
		Result: &domain.SynthesizedResult{
			Confidence:         domain.ConfidenceHigh,
			AgentContributions: map[string]domain.AgentContribution{},
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
	s.assessments[a.ID] = a
	return a, nil
}

func (s *stubService) GetAssessment(ctx context.Context, id string) (*domain.Assessment, error) {
	a, ok := s.assessments[id]
	if !ok {
		return nil, service.ErrAssessmentNotFound
	}
	return a, nil
}

func (s *stubService) ListAssessments(ctx context.Context, userID string, limit, offset int) ([]*domain.Assessment, error) {
	var result []*domain.Assessment
	for _, a := range s.assessments {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	return result, nil
}

func testConfig() *domain.Config {
	return &domain.Config{
		Server:  domain.ServerConfig{Host: "127.0.0.1", Port: 0},
		Logging: domain.LoggingConfig{Level: "info"},
	}
}

func testServer(svc AssessmentService) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(testConfig(), svc, logger)
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(newStubService())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAssessEndpoint(t *testing.T) {
	svc := newStubService()
	srv := testServer(svc)

	payload := `{
		"user_id": "user-1",
		"age": 35,
		"gender": "female",
		"height": 165,
		"weight": 62,
		"sleep_data": {"average_duration": 7.5, "quality": "high"}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", body["assessment_id"])
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, "2026-03-14T09:26:53Z", body["timestamp"])
	assert.Equal(t, "high", body["confidence"])
	assert.NotContains(t, body, "cached")

	require.NotNil(t, svc.lastProfile)
	assert.Equal(t, 35, svc.lastProfile.Age)
	require.NotNil(t, svc.lastProfile.Sleep)
	assert.Equal(t, 7.5, svc.lastProfile.Sleep.AverageDuration)
}

func TestAssessStampsAnonymousUserID(t *testing.T) {
	svc := newStubService()
	srv := testServer(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(`{"age": 35}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastProfile)
	assert.NotEmpty(t, svc.lastProfile.UserID)
}

func TestAssessRejectsInvalidBody(t *testing.T) {
	srv := testServer(newStubService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "invalid request body")
	assert.NotEmpty(t, body["correlation_id"])
}

func TestAssessRejectsInvalidProfile(t *testing.T) {
	srv := testServer(newStubService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(`{"age": -1}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAssessmentNotFound(t *testing.T) {
	srv := testServer(newStubService())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assessments/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAssessmentFound(t *testing.T) {
	svc := newStubService()
	srv := testServer(svc)

	// Seed via the assess endpoint.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(`{"user_id": "user-1", "age": 35}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assessments/00000000-0000-0000-0000-000000000001", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user_id"])
}

func TestListAssessments(t *testing.T) {
	svc := newStubService()
	srv := testServer(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(`{"user_id": "user-1", "age": 35}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/assessments", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID      string           `json:"user_id"`
		Count       int              `json:"count"`
		Assessments []map[string]any `json:"assessments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.UserID)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Assessments, 1)
}

func TestSecurityHeadersPresent(t *testing.T) {
	srv := testServer(newStubService())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer(newStubService())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/assess", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
