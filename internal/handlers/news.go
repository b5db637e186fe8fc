package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gotrends/internal/database"
	"github.com/jonesrussell/gotrends/internal/logger"
	"github.com/jonesrussell/gotrends/internal/models"
	"github.com/jonesrussell/gotrends/internal/reports"
)

const defaultRankHistoryLimit = 200

// NewsHandler answers browse queries against a single day's crawl database.
// Each request opens the day's read-only SQLite file; the files are small
// and the OS page cache keeps repeat opens cheap.
type NewsHandler struct {
	scanner *reports.Scanner
	logger  logger.Logger
}

func NewNewsHandler(scanner *reports.Scanner, log logger.Logger) *NewsHandler {
	return &NewsHandler{
		scanner: scanner,
		logger:  log,
	}
}

// withRepo opens the crawl database for the request's date and hands the
// repository to fn. Responds with the appropriate error when the date is
// malformed or has no crawl data.
func (h *NewsHandler) withRepo(c *gin.Context, fn func(repo *database.NewsRepository)) {
	date := c.Param("date")
	if !reports.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	db, err := database.Open(h.scanner.DailyDatabasePath(date))
	if err != nil {
		h.logger.Debug("No crawl database for date",
			logger.String("date", date),
			logger.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "No crawl data for " + date})
		return
	}
	defer db.Close()

	fn(database.NewNewsRepository(db))
}

func (h *NewsHandler) Platforms(c *gin.Context) {
	h.withRepo(c, func(repo *database.NewsRepository) {
		platforms, err := repo.Platforms(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to list platforms",
				logger.String("date", c.Param("date")),
				logger.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list platforms"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"platforms": platforms,
			"count":     len(platforms),
		})
	})
}

func (h *NewsHandler) Search(c *gin.Context) {
	search := models.NewsSearch{
		Query:      c.Query("q"),
		PlatformID: c.Query("platform_id"),
		Sort:       c.Query("sort"),
	}
	search.Limit, _ = strconv.Atoi(c.Query("limit"))
	search.Offset, _ = strconv.Atoi(c.Query("offset"))

	h.withRepo(c, func(repo *database.NewsRepository) {
		page, err := repo.Search(c.Request.Context(), search)
		if err != nil {
			h.logger.Error("News search failed",
				logger.String("date", c.Param("date")),
				logger.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}

		c.JSON(http.StatusOK, page)
	})
}

func (h *NewsHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news id"})
		return
	}

	h.withRepo(c, func(repo *database.NewsRepository) {
		item, repoErr := repo.GetByID(c.Request.Context(), id)
		if repoErr != nil {
			if errors.Is(repoErr, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "News item not found"})
				return
			}
			h.logger.Error("Failed to load news item",
				logger.String("date", c.Param("date")),
				logger.Int("news_id", int(id)),
				logger.Error(repoErr),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load news item"})
			return
		}

		c.JSON(http.StatusOK, item)
	})
}

func (h *NewsHandler) RankHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news id"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = defaultRankHistoryLimit
	}

	h.withRepo(c, func(repo *database.NewsRepository) {
		history, repoErr := repo.RankHistory(c.Request.Context(), id, limit)
		if repoErr != nil {
			h.logger.Error("Failed to load rank history",
				logger.String("date", c.Param("date")),
				logger.Int("news_id", int(id)),
				logger.Error(repoErr),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rank history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"history": history,
			"count":   len(history),
		})
	})
}
