package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gotrends/internal/configstore"
	"github.com/jonesrussell/gotrends/internal/importer"
	"github.com/jonesrussell/gotrends/internal/logger"
)

// AdminHandler exposes the configuration mutation surface. Routes mounted
// with it must sit behind the admin token middleware.
type AdminHandler struct {
	store  *configstore.Store
	logger logger.Logger
}

func NewAdminHandler(store *configstore.Store, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		logger: log,
	}
}

// storeError maps configstore failures to HTTP responses.
func (h *AdminHandler) storeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, configstore.ErrMalformedPatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed patch", "details": err.Error()})
	case errors.Is(err, configstore.ErrInvalidDocument):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid configuration document", "details": err.Error()})
	case errors.Is(err, configstore.ErrDefaultNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No default template available"})
	default:
		h.logger.Error("Config store operation failed",
			logger.String("op", op),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Configuration operation failed"})
	}
}

func (h *AdminHandler) GetConfig(c *gin.Context) {
	text, err := h.store.ReadConfigText()
	if err != nil {
		h.storeError(c, "read_config", err)
		return
	}
	if text == "" {
		// Surface the default template so the editor never opens blank.
		text, _, err = h.store.DefaultConfigText()
		if err != nil {
			h.storeError(c, "read_default_config", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"content": text})
}

func (h *AdminHandler) GetParsedConfig(c *gin.Context) {
	plain, err := h.store.ConfigPlain()
	if err != nil {
		h.storeError(c, "parse_config", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": plain})
}

// EffectiveConfig returns the parsed crawler configuration with
// credential-bearing values masked, alongside the path it was read from.
func (h *AdminHandler) EffectiveConfig(c *gin.Context) {
	plain, err := h.store.ConfigPlain()
	if err != nil {
		h.storeError(c, "effective_config", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"config_path": h.store.ConfigPath(),
		"effective":   redactTree(plain),
	})
}

// redactTree masks values under keys that look credential-bearing, walking
// nested mappings and sequences.
func redactTree(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if redactedEnvKey(key) {
				out[key] = "********"
				continue
			}
			out[key] = redactTree(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = redactTree(val)
		}
		return out
	default:
		return v
	}
}

func (h *AdminHandler) PutConfig(c *gin.Context) {
	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.store.ReplaceConfigText(body.Content); err != nil {
		h.storeError(c, "replace_config", err)
		return
	}

	h.logger.Info("Configuration replaced",
		logger.String("path", h.store.ConfigPath()),
	)
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *AdminHandler) PatchConfig(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed patch", "details": err.Error()})
		return
	}

	if err := h.store.PatchConfig(patch); err != nil {
		h.storeError(c, "patch_config", err)
		return
	}

	h.logger.Info("Configuration patched",
		logger.String("path", h.store.ConfigPath()),
		logger.Int("top_level_keys", len(patch)),
	)
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *AdminHandler) ResetConfig(c *gin.Context) {
	if err := h.store.ResetConfig(); err != nil {
		h.storeError(c, "reset_config", err)
		return
	}

	h.logger.Info("Configuration reset to default",
		logger.String("path", h.store.ConfigPath()),
	)
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (h *AdminHandler) GetWords(c *gin.Context) {
	text, err := h.store.ReadWordsText()
	if err != nil {
		h.storeError(c, "read_words", err)
		return
	}
	if text == "" {
		text, _, err = h.store.DefaultWordsText()
		if err != nil {
			h.storeError(c, "read_default_words", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"content": text})
}

// PutWords accepts either a JSON body with a "content" field or a raw
// text/plain body, matching what the admin frontend sends.
func (h *AdminHandler) PutWords(c *gin.Context) {
	var content string
	if c.ContentType() == "application/json" {
		var body struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		content = body.Content
	} else {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}
		content = string(raw)
	}

	if err := h.store.ReplaceWordsText(content); err != nil {
		h.storeError(c, "replace_words", err)
		return
	}

	h.logger.Info("Keyword list replaced",
		logger.String("path", h.store.WordsPath()),
	)
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// ImportWords replaces the keyword list from an uploaded Excel workbook.
// The workbook is rejected wholesale when any row fails validation, so a
// partial list never reaches the crawler.
func (h *AdminHandler) ImportWords(c *gin.Context) {
	body := io.Reader(c.Request.Body)
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		body = file
	}

	rows, importErrs, err := importer.ParseWorkbook(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workbook", "details": err.Error()})
		return
	}
	if len(importErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Workbook has invalid rows",
			"errors": importErrs,
		})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Workbook has no keyword rows"})
		return
	}

	if err := h.store.ReplaceWordsText(importer.RenderWordList(rows)); err != nil {
		h.storeError(c, "import_words", err)
		return
	}

	h.logger.Info("Keyword list imported",
		logger.String("path", h.store.WordsPath()),
		logger.Int("rows", len(rows)),
	)
	c.JSON(http.StatusOK, gin.H{"status": "saved", "rows": len(rows)})
}

func (h *AdminHandler) ResetWords(c *gin.Context) {
	if err := h.store.ResetWords(); err != nil {
		h.storeError(c, "reset_words", err)
		return
	}

	h.logger.Info("Keyword list reset to default",
		logger.String("path", h.store.WordsPath()),
	)
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
