package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gotrends/internal/classify"
	"github.com/jonesrussell/gotrends/internal/events"
	"github.com/jonesrussell/gotrends/internal/export"
	"github.com/jonesrussell/gotrends/internal/logger"
	"github.com/jonesrussell/gotrends/internal/render"
	"github.com/jonesrussell/gotrends/internal/reports"
)

const defaultSegmentBudget = 6000

// envRedactMarkers hide credential-bearing variables from the env snapshot.
var envRedactMarkers = []string{"TOKEN", "SECRET", "PASSWORD", "KEY", "WEBHOOK"}

// SystemHandler serves service status, the redacted environment snapshot,
// manual crawl triggering and export segment planning.
type SystemHandler struct {
	scanner   *reports.Scanner
	publisher *events.Publisher
	logger    logger.Logger
	version   string
	startedAt time.Time
}

func NewSystemHandler(scanner *reports.Scanner, publisher *events.Publisher, version string, log logger.Logger) *SystemHandler {
	return &SystemHandler{
		scanner:   scanner,
		publisher: publisher,
		logger:    log,
		version:   version,
		startedAt: time.Now(),
	}
}

func (h *SystemHandler) Status(c *gin.Context) {
	latest, err := h.scanner.Latest()
	if err != nil {
		h.logger.Error("Failed to inspect report directory",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read status"})
		return
	}

	status := gin.H{
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"output_dir":     h.scanner.OutputDir(),
		"crawl_enabled":  h.publisher != nil,
	}
	if latest != nil {
		status["latest_report"] = latest
	}

	c.JSON(http.StatusOK, status)
}

// Env returns the process environment with credential-bearing values masked.
func (h *SystemHandler) Env(c *gin.Context) {
	snapshot := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		if redactedEnvKey(key) {
			value = "********"
		}
		snapshot[key] = value
	}

	c.JSON(http.StatusOK, gin.H{"env": snapshot})
}

// envSnippetKeys orders the paste-ready .env block for deployment platforms.
var envSnippetKeys = []string{
	"TZ",
	"APP_DEBUG",
	"SERVER_HOST",
	"SERVER_PORT",
	"CORS_ORIGINS",
	"APP_CONFIG_PATH",
	"WORDS_PATH",
	"TEMPLATE_DIR",
	"OUTPUT_DIR",
	"REDIS_ADDRESS",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"REDIS_ENABLED",
	"SCHEDULER_ENABLED",
	"CRAWL_SPEC",
	"ADMIN_TOKEN",
}

// EnvSnippet renders the variables the service reads as a .env block ready
// to paste into a deployment platform, credential values masked.
func (h *SystemHandler) EnvSnippet(c *gin.Context) {
	var b strings.Builder
	for _, key := range envSnippetKeys {
		value, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if redactedEnvKey(key) {
			value = "********"
		}
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(value)
		b.WriteString("\n")
	}

	c.JSON(http.StatusOK, gin.H{"snippet": b.String()})
}

func redactedEnvKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range envRedactMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// TriggerCrawl publishes a manual crawl request to the command stream.
func (h *SystemHandler) TriggerCrawl(c *gin.Context) {
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Crawl triggering is not configured"})
		return
	}

	id, err := h.publisher.Publish(c.Request.Context(), events.CrawlRequest{
		TriggeredBy: events.TriggerManual,
	})
	if err != nil {
		h.logger.Error("Failed to trigger crawl",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger crawl"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "queued",
		"event_id": id,
	})
}

type segmentPlanRequest struct {
	Nodes        []export.Node `json:"nodes"`
	Budget       float64       `json:"budget"`
	HeaderHeight float64       `json:"header_height"`
}

// SegmentPlan computes export cut offsets for a measured report document.
func (h *SystemHandler) SegmentPlan(c *gin.Context) {
	var req segmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Budget <= 0 {
		req.Budget = defaultSegmentBudget
	}

	segments := export.Plan(req.Nodes, req.Budget, req.HeaderHeight)

	c.JSON(http.StatusOK, gin.H{
		"segments":     segments,
		"count":        len(segments),
		"total_height": export.TotalHeight(segments),
	})
}

type renderPreviewRequest struct {
	Title           string                    `json:"title"`
	TypeLabel       string                    `json:"type_label"`
	TotalTitles     int                       `json:"total_titles"`
	FailedPlatforms []string                  `json:"failed_platforms"`
	Stats           []classify.RawStat        `json:"stats"`
	NewTitles       []classify.RawSourceGroup `json:"new_titles"`
	ReverseContent  bool                      `json:"reverse_content"`
}

// RenderPreview classifies raw aggregates and renders the report document,
// so the frontend can preview a report without waiting for a crawl to write
// one to disk.
func (h *SystemHandler) RenderPreview(c *gin.Context) {
	var req renderPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	html, err := render.Report(render.Input{
		Title:           req.Title,
		TypeLabel:       req.TypeLabel,
		TotalTitles:     req.TotalTitles,
		FailedPlatforms: req.FailedPlatforms,
		Stats:           classify.Classify(req.Stats),
		NewTitles:       classify.ClassifyNewTitles(req.NewTitles),
		GeneratedAt:     time.Now(),
		ReverseContent:  req.ReverseContent,
	})
	if err != nil {
		h.logger.Error("Failed to render report preview",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render preview"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, html)
}
