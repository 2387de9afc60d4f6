package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	er "github.com/certwatch/certwatch/internal/errors"
	"github.com/certwatch/certwatch/internal/logger"
	"github.com/certwatch/certwatch/internal/models"
)

type mockMonitorService struct {
	mock.Mock
}

func (m *mockMonitorService) RegisterDomain(ctx context.Context, domain, email string, notifyDays int) (*models.MonitoredDomain, error) {
	args := m.Called(ctx, domain, email, notifyDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonitoredDomain), args.Error(1)
}

func (m *mockMonitorService) ListDomains(ctx context.Context) ([]models.MonitoredDomain, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonitoredDomain), args.Error(1)
}

func (m *mockMonitorService) RemoveDomain(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockMonitorService) CheckCertificates(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func setupRouter(monitor *mockMonitorService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewDomainsHandler(monitor, getLogger())
	r.POST("/api/domains", h.AddDomain())
	r.GET("/api/domains", h.ListDomains())
	r.DELETE("/api/domains/:id", h.DeleteDomain())

	return r
}

func performRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddDomain_Created(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	record := &models.MonitoredDomain{
		ID:         "d1",
		Domain:     "example.com",
		Email:      "ops@example.com",
		NotifyDays: 30,
		ValidTo:    time.Now().Add(60 * 24 * time.Hour),
		Issuer:     "Let's Encrypt",
	}
	monitor.On("RegisterDomain", mock.Anything, "example.com", "ops@example.com", 30).Return(record, nil).Once()

	w := performRequest(router, http.MethodPost, "/api/domains", AddDomainRequest{
		Domain:     "example.com",
		Email:      "ops@example.com",
		NotifyDays: 30,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response models.MonitoredDomain
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "d1", response.ID)
	assert.Equal(t, "example.com", response.Domain)

	monitor.AssertExpectations(t)
}

func TestAddDomain_MissingFields(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	monitor.On("RegisterDomain", mock.Anything, "", "ops@example.com", 30).
		Return(nil, er.ErrMissingRequiredFields).Once()

	w := performRequest(router, http.MethodPost, "/api/domains", AddDomainRequest{
		Email:      "ops@example.com",
		NotifyDays: 30,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required fields")
}

func TestAddDomain_InvalidJSON(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	req := httptest.NewRequest(http.MethodPost, "/api/domains", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required fields")

	monitor.AssertNotCalled(t, "RegisterDomain", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddDomain_ProbeFailureHidesCause(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	cause := er.NewSSLCheckError("example.com", assert.AnError)
	monitor.On("RegisterDomain", mock.Anything, "example.com", "ops@example.com", 30).
		Return(nil, cause).Once()

	w := performRequest(router, http.MethodPost, "/api/domains", AddDomainRequest{
		Domain:     "example.com",
		Email:      "ops@example.com",
		NotifyDays: 30,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to check SSL certificate")
	// The raw cause never reaches the client
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestAddDomain_StorageFailure(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	monitor.On("RegisterDomain", mock.Anything, "example.com", "ops@example.com", 30).
		Return(nil, assert.AnError).Once()

	w := performRequest(router, http.MethodPost, "/api/domains", AddDomainRequest{
		Domain:     "example.com",
		Email:      "ops@example.com",
		NotifyDays: 30,
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to add domain")
}

func TestListDomains_OK(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	domains := []models.MonitoredDomain{
		{ID: "d1", Domain: "sooner.com"},
		{ID: "d2", Domain: "later.com"},
	}
	monitor.On("ListDomains", mock.Anything).Return(domains, nil).Once()

	w := performRequest(router, http.MethodGet, "/api/domains", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []models.MonitoredDomain
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, "sooner.com", response[0].Domain)
}

func TestListDomains_Error(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	monitor.On("ListDomains", mock.Anything).Return(nil, assert.AnError).Once()

	w := performRequest(router, http.MethodGet, "/api/domains", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch domains")
}

func TestDeleteDomain_OK(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	monitor.On("RemoveDomain", mock.Anything, "d1").Return(nil).Once()

	w := performRequest(router, http.MethodDelete, "/api/domains/d1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestDeleteDomain_NotFound(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	monitor.On("RemoveDomain", mock.Anything, "missing").Return(er.ErrDomainNotFound).Once()

	w := performRequest(router, http.MethodDelete, "/api/domains/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Domain not found")
}

func TestDeleteDomain_Error(t *testing.T) {
	monitor := new(mockMonitorService)
	router := setupRouter(monitor)

	monitor.On("RemoveDomain", mock.Anything, "d1").Return(assert.AnError).Once()

	w := performRequest(router, http.MethodDelete, "/api/domains/d1", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to delete domain")
}
