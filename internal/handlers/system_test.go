package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotrends/internal/export"
	"github.com/jonesrussell/gotrends/internal/handlers"
	"github.com/jonesrussell/gotrends/internal/logger"
)

func systemRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dir, scanner := newOutputDir(t)
	gin.SetMode(gin.TestMode)
	h := handlers.NewSystemHandler(scanner, nil, "1.2.3", logger.NewNopLogger())
	router := gin.New()
	router.GET("/system/status", h.Status)
	router.GET("/system/env", h.Env)
	router.GET("/system/env/snippet", h.EnvSnippet)
	router.POST("/system/crawl", h.TriggerCrawl)
	router.POST("/export/segment-plan", h.SegmentPlan)
	router.POST("/export/preview", h.RenderPreview)
	return router, dir
}

func TestSystemHandler_Status(t *testing.T) {
	router, dir := systemRouter(t)
	writeReportFile(t, filepath.Join(dir, "index.html"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/system/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Version      string `json:"version"`
		OutputDir    string `json:"output_dir"`
		CrawlEnabled bool   `json:"crawl_enabled"`
		LatestReport *struct {
			ID string `json:"id"`
		} `json:"latest_report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, dir, resp.OutputDir)
	assert.False(t, resp.CrawlEnabled)
	require.NotNil(t, resp.LatestReport)
}

func TestSystemHandler_EnvRedaction(t *testing.T) {
	t.Setenv("GOTRENDS_TEST_PLAIN", "visible")
	t.Setenv("GOTRENDS_TEST_API_TOKEN", "hunter2")
	router, _ := systemRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/system/env", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Env map[string]string `json:"env"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "visible", resp.Env["GOTRENDS_TEST_PLAIN"])
	assert.Equal(t, "********", resp.Env["GOTRENDS_TEST_API_TOKEN"])
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestSystemHandler_EnvSnippet(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("ADMIN_TOKEN", "hunter2")
	router, _ := systemRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/system/env/snippet", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Snippet string `json:"snippet"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Snippet, "SERVER_PORT=8080\n")
	assert.Contains(t, resp.Snippet, "ADMIN_TOKEN=********\n")
	assert.NotContains(t, resp.Snippet, "hunter2")
	// SERVER_PORT is listed before ADMIN_TOKEN in the snippet ordering.
	assert.Less(t, strings.Index(resp.Snippet, "SERVER_PORT="), strings.Index(resp.Snippet, "ADMIN_TOKEN="))
}

func TestSystemHandler_TriggerCrawlUnconfigured(t *testing.T) {
	router, _ := systemRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/system/crawl", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSystemHandler_SegmentPlan(t *testing.T) {
	router, _ := systemRouter(t)

	body := `{
		"header_height": 80,
		"budget": 500,
		"nodes": [
			{"kind": "group", "group_id": "g1", "top": 80, "bottom": 400},
			{"kind": "group", "group_id": "g2", "top": 400, "bottom": 700},
			{"kind": "footer", "top": 700, "bottom": 760}
		]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/segment-plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Segments    []export.Segment `json:"segments"`
		Count       int              `json:"count"`
		TotalHeight float64          `json:"total_height"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.True(t, resp.Segments[0].IncludesHeader)
	assert.Equal(t, 400.0, resp.Segments[0].End)
	assert.Equal(t, 760.0, resp.TotalHeight)
}

func TestSystemHandler_RenderPreview(t *testing.T) {
	router, _ := systemRouter(t)

	body := `{
		"title": "Preview Trends",
		"total_titles": 12,
		"failed_platforms": ["toutiao"],
		"stats": [
			{"word": "ai", "count": 12, "percentage": 60, "items": [
				{"source_name": "weibo", "title": "model launch", "url": "https://example.com", "ranks": [1, 4], "occurrence_count": 2}
			]}
		],
		"new_titles": [
			{"source_name": "zhihu", "items": [
				{"source_name": "zhihu", "title": "fresh story", "ranks": [6]}
			]}
		]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	html := w.Body.String()
	assert.Contains(t, html, "Preview Trends")
	assert.Contains(t, html, "model launch")
	assert.Contains(t, html, `badge hot`)
	assert.Contains(t, html, `data-group="new-titles"`)
	assert.Contains(t, html, "toutiao")
}

func TestSystemHandler_RenderPreviewBadBody(t *testing.T) {
	router, _ := systemRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/preview", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSystemHandler_SegmentPlanBadBody(t *testing.T) {
	router, _ := systemRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/segment-plan", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
