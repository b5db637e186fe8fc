// Package handlers implements the HTTP API: report browsing, per-day news
// queries, export planning and the admin configuration surface.
package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gotrends/internal/inspect"
	"github.com/jonesrussell/gotrends/internal/logger"
	"github.com/jonesrussell/gotrends/internal/reports"
)

type ReportsHandler struct {
	scanner *reports.Scanner
	logger  logger.Logger
}

func NewReportsHandler(scanner *reports.Scanner, log logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		scanner: scanner,
		logger:  log,
	}
}

func (h *ReportsHandler) List(c *gin.Context) {
	files, err := h.scanner.Scan()
	if err != nil {
		h.logger.Error("Failed to scan report files",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": files,
		"count":   len(files),
	})
}

func (h *ReportsHandler) Latest(c *gin.Context) {
	latest, err := h.scanner.Latest()
	if err != nil {
		h.logger.Error("Failed to find latest report",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find latest report"})
		return
	}
	if latest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reports generated yet"})
		return
	}

	c.JSON(http.StatusOK, latest)
}

func (h *ReportsHandler) Dates(c *gin.Context) {
	dates, err := h.scanner.Dates()
	if err != nil {
		h.logger.Error("Failed to list report dates",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list dates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dates": dates,
		"count": len(dates),
	})
}

// Summary parses a stored report document into its structural digest.
func (h *ReportsHandler) Summary(c *gin.Context) {
	relPath := c.Query("path")

	abs, ok := h.scanner.ResolveOutputFile(relPath)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report path"})
		return
	}

	f, err := os.Open(abs)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	defer f.Close()

	summary, err := inspect.Report(f)
	if err != nil {
		h.logger.Error("Failed to parse report",
			logger.String("path", relPath),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse report"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

var safeOutputExtensions = map[string]struct{}{
	".html": {},
	".txt":  {},
	".json": {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".svg":  {},
	".css":  {},
	".js":   {},
}

// ServeFile serves a file from the report output tree. The wildcard path is
// confined to the output directory and to a fixed set of static extensions;
// anything else is a 404.
func (h *ReportsHandler) ServeFile(c *gin.Context) {
	relPath := c.Param("filepath")

	abs, ok := h.scanner.ResolveOutputFile(relPath)
	if ok {
		ext := strings.ToLower(filepath.Ext(abs))
		if _, allowed := safeOutputExtensions[ext]; !allowed {
			ok = false
		}
	}
	if ok {
		if info, err := os.Stat(abs); err != nil || info.IsDir() {
			ok = false
		}
	}
	if !ok {
		h.logger.Debug("Rejected output file request",
			logger.String("path", relPath),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.File(abs)
}
