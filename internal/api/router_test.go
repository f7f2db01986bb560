package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"demo-generator/internal/common/logger"
	"demo-generator/internal/common/ratelimit"
	"demo-generator/internal/models"
	demolog "demo-generator/internal/workers/data-access/demo-log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []models.DemoRequest
	result   func(req models.DemoRequest) *models.DemoResult
}

func (f *fakeGenerator) GenerateDemo(_ context.Context, req models.DemoRequest) *models.DemoResult {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.result(req)
}

type fakeDemoLog struct {
	entries []demolog.Entry
	err     error
}

func (f *fakeDemoLog) Insert(_ context.Context, e demolog.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

type fakeLeads struct {
	published []string
	err       error
}

func (f *fakeLeads) Publish(_ context.Context, _ models.DemoRequest, result *models.DemoResult) (string, error) {
	f.published = append(f.published, result.DemoID)
	return "sns-1", f.err
}

func successResult(models.DemoRequest) *models.DemoResult {
	return &models.DemoResult{
		DemoID:         "demo_1767225600000_abcdef12",
		Success:        true,
		ProcessingTime: 1250 * time.Millisecond,
		Content: &models.DemoContent{
			Posts:    make([]models.SocialPost, 7),
			Graphics: [][]byte{[]byte("a"), []byte("b")},
			Insight:  &models.IndustryInsight{ID: "fb-restaurant-1"},
		},
		Warnings: []string{"PDF generation failed: print failed"},
		Errors:   []string{},
		Costs:    models.Costs{TokensUsed: 1800, EstimatedCost: 0.06},
	}
}

func failedResult(models.DemoRequest) *models.DemoResult {
	return &models.DemoResult{
		DemoID: "demo_1767225600000_00000000",
		Errors: []string{"OpenAI API key not configured"},
	}
}

type testServer struct {
	router    *gin.Engine
	generator *fakeGenerator
	demoLog   *fakeDemoLog
	leads     *fakeLeads
}

func newTestServer(t *testing.T, mutate func(*Dependencies)) *testServer {
	gin.SetMode(gin.TestMode)
	ts := &testServer{
		generator: &fakeGenerator{result: successResult},
		demoLog:   &fakeDemoLog{},
		leads:     &fakeLeads{},
	}
	deps := Dependencies{
		Logger:         logger.NewTestLogger(t),
		Generator:      ts.generator,
		DemoLog:        ts.demoLog,
		Leads:          ts.leads,
		AllowedOrigins: []string{"http://localhost:3000"},
		Status: func(context.Context) ServiceStatus {
			return ServiceStatus{TextGen: true, Email: false, Store: true}
		},
	}
	if mutate != nil {
		mutate(&deps)
	}
	ts.router = NewRouter(deps)
	return ts
}

func (ts *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

const validBody = `{
	"businessName": "Test Restaurant",
	"industry": "restaurant",
	"businessType": "local restaurant",
	"targetAudience": "local diners and families",
	"brandVoice": "friendly and welcoming",
	"recipientEmail": "test@example.com",
	"includeEmail": false
}`

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		status ServiceStatus
		want   string
	}{
		{name: "healthy", status: ServiceStatus{TextGen: true}, want: "healthy"},
		{name: "degraded", status: ServiceStatus{}, want: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(d *Dependencies) {
				d.Status = func(context.Context) ServiceStatus { return tt.status }
			})

			rec := ts.do(http.MethodGet, "/health", "")
			require.Equal(t, http.StatusOK, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Status)
			assert.Equal(t, tt.status, resp.Services)
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}

func TestGenerateDemo_Success(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/api/generate-demo", validBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp DemoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "demo_1767225600000_abcdef12", resp.DemoID)
	assert.Equal(t, int64(1250), resp.ProcessingTime)
	assert.Equal(t, models.Costs{TokensUsed: 1800, EstimatedCost: 0.06}, resp.Costs)
	assert.Equal(t, []string{"PDF generation failed: print failed"}, resp.Warnings)
	assert.Equal(t, []string{}, resp.Errors)
	assert.Equal(t, ContentSummary{PostsCount: 7, GraphicsCount: 2, HasInsight: true, HasPDF: false}, resp.Content)

	require.Len(t, ts.generator.requests, 1)
	got := ts.generator.requests[0]
	assert.Equal(t, "Test Restaurant", got.BusinessName)
	require.NotNil(t, got.IncludeEmail)
	assert.False(t, *got.IncludeEmail)
	assert.Nil(t, got.IncludeGraphics)

	require.Len(t, ts.demoLog.entries, 1)
	assert.Equal(t, "demo_1767225600000_abcdef12", ts.demoLog.entries[0].DemoID)
	assert.Equal(t, "restaurant", ts.demoLog.entries[0].Industry)
	assert.Equal(t, []string{"demo_1767225600000_abcdef12"}, ts.leads.published)
}

func TestGenerateDemo_FollowUpFailuresAreHidden(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.demoLog.err = errors.New("connection refused")
	ts.leads.err = errors.New("AuthorizationError")

	rec := ts.do(http.MethodPost, "/api/generate-demo", validBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody(t, rec)["success"].(bool))
}

func TestGenerateDemo_PipelineFailure(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.generator.result = failedResult

	rec := ts.do(http.MethodPost, "/api/generate-demo", validBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp FailureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, []string{"OpenAI API key not configured"}, resp.Errors)
	assert.Equal(t, []string{}, resp.Warnings)
	assert.Zero(t, resp.Costs)

	body := decodeBody(t, rec)
	assert.Contains(t, body, "costs")
	assert.NotContains(t, body, "demoId")

	assert.Empty(t, ts.demoLog.entries)
	assert.Empty(t, ts.leads.published)
}

func TestGenerateDemo_BadBodies(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "not json", body: `{"businessName":`, wantError: "Request body must be valid JSON"},
		{name: "empty", body: ``, wantError: "Request body must be valid JSON"},
		{name: "wrong type", body: `{"businessName": 42}`, wantError: "businessName"},
		{name: "toggle as string", body: `{"includePdf": "yes"}`, wantError: "includePdf"},
		{name: "array", body: `[]`, wantError: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)

			rec := ts.do(http.MethodPost, "/api/generate-demo", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, []interface{}{}, body["warnings"])
			assert.Equal(t, map[string]interface{}{"tokensUsed": float64(0), "estimatedCost": float64(0)}, body["costs"])
			errs, ok := body["errors"].([]interface{})
			require.True(t, ok)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0], tt.wantError)
			assert.Empty(t, ts.generator.requests)
		})
	}
}

func TestGenerateDemo_PanicIsInternalError(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.generator.result = func(models.DemoRequest) *models.DemoResult { panic("renderer exploded") }

	rec := ts.do(http.MethodPost, "/api/generate-demo", validBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, []interface{}{"Internal server error"}, body["errors"])
}

func TestTestDemo(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, req models.DemoRequest)
	}{
		{
			name: "empty body uses defaults",
			body: "",
			check: func(t *testing.T, req models.DemoRequest) {
				assert.Equal(t, "Test Restaurant", req.BusinessName)
				assert.Equal(t, "restaurant", req.Industry)
				assert.Equal(t, "test@example.com", req.RecipientEmail)
			},
		},
		{
			name: "given fields are kept",
			body: `{"businessName":"Yoga Loft","industry":"fitness"}`,
			check: func(t *testing.T, req models.DemoRequest) {
				assert.Equal(t, "Yoga Loft", req.BusinessName)
				assert.Equal(t, "fitness", req.Industry)
				assert.Equal(t, "local restaurant", req.BusinessType)
			},
		},
		{
			name: "email is always disabled",
			body: `{"includeEmail":true,"recipientEmail":"owner@yoga.example"}`,
			check: func(t *testing.T, req models.DemoRequest) {
				assert.Equal(t, "owner@yoga.example", req.RecipientEmail)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)

			rec := ts.do(http.MethodPost, "/api/test-demo", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			require.Len(t, ts.generator.requests, 1)
			req := ts.generator.requests[0]
			require.NotNil(t, req.IncludeEmail)
			assert.False(t, *req.IncludeEmail)
			tt.check(t, req)
		})
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.New(1, 1, ratelimit.WithClock(func() time.Time { return now }))
	ts := newTestServer(t, func(d *Dependencies) { d.Limiter = limiter })

	first := ts.do(http.MethodPost, "/api/test-demo", "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := ts.do(http.MethodPost, "/api/test-demo", "")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	body := decodeBody(t, second)
	assert.Equal(t, []interface{}{"Too many requests, please try again later"}, body["errors"])

	health := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Len(t, ts.generator.requests, 1)
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/health", "", "X-Request-Id", "req-123")
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))

	rec = ts.do(http.MethodGet, "/health", "")
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodOptions, "/api/generate-demo", "",
		"Origin", "http://localhost:3000",
		"Access-Control-Request-Method", "POST",
	)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = ts.do(http.MethodGet, "/health", "", "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
