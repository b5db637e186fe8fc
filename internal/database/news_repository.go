package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/gotrends/internal/models"
)

const (
	// DefaultSearchLimit bounds a browse page when the caller does not ask
	// for one.
	DefaultSearchLimit = 50
	// MaxSearchLimit caps a browse page regardless of what the caller asks
	// for.
	MaxSearchLimit = 200

	// DefaultHistoryLimit bounds a rank-history page.
	DefaultHistoryLimit = 200
	// MaxHistoryLimit caps a rank-history page.
	MaxHistoryLimit = 2000
)

// DefaultSort orders browse results by most recent crawl first.
const DefaultSort = "last_crawl_time_desc"

// sortColumns whitelists the ORDER BY clauses a caller may select.
var sortColumns = map[string]string{
	"last_crawl_time_desc": "n.last_crawl_time DESC",
	"rank_asc":             "n.rank ASC",
	"crawl_count_desc":     "n.crawl_count DESC",
}

// NewsRepository browses one day's crawl database.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates a repository over an open crawl database.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Platforms lists the platforms recorded for the day.
func (r *NewsRepository) Platforms(ctx context.Context) ([]models.Platform, error) {
	platforms := []models.Platform{}
	err := r.db.SelectContext(ctx, &platforms,
		`SELECT id, name, is_active, updated_at FROM platforms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	return platforms, nil
}

// Search pages through the day's news items. The query matches titles as a
// substring; sort keys outside the whitelist fall back to the default order.
func (r *NewsRepository) Search(ctx context.Context, search models.NewsSearch) (*models.NewsPage, error) {
	search = normalizeSearch(search)

	var where []string
	var args []any
	if search.PlatformID != "" {
		where = append(where, "n.platform_id = ?")
		args = append(args, search.PlatformID)
	}
	if search.Query != "" {
		where = append(where, "n.title LIKE ?")
		args = append(args, "%"+search.Query+"%")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(1) FROM news_items n %s", whereSQL)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count news items: %w", err)
	}

	orderSQL := sortColumns[search.Sort]
	query := fmt.Sprintf(`
		SELECT
		  n.id, n.title, n.platform_id, p.name AS platform_name,
		  n.rank, n.url, n.mobile_url,
		  n.first_crawl_time, n.last_crawl_time, n.crawl_count
		FROM news_items n
		LEFT JOIN platforms p ON p.id = n.platform_id
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?`, whereSQL, orderSQL)

	items := []models.NewsItem{}
	queryArgs := append(args, search.Limit, search.Offset)
	if err := r.db.SelectContext(ctx, &items, query, queryArgs...); err != nil {
		return nil, fmt.Errorf("search news items: %w", err)
	}

	return &models.NewsPage{Total: total, Items: items}, nil
}

// GetByID fetches one news item.
func (r *NewsRepository) GetByID(ctx context.Context, id int64) (*models.NewsItem, error) {
	var item models.NewsItem
	err := r.db.GetContext(ctx, &item, `
		SELECT
		  n.id, n.title, n.platform_id, p.name AS platform_name,
		  n.rank, n.url, n.mobile_url,
		  n.first_crawl_time, n.last_crawl_time, n.crawl_count
		FROM news_items n
		LEFT JOIN platforms p ON p.id = n.platform_id
		WHERE n.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get news item: %w", err)
	}
	return &item, nil
}

// RankHistory lists a news item's observed ranks, newest first.
func (r *NewsRepository) RankHistory(ctx context.Context, newsID int64, limit int) ([]models.RankEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries := []models.RankEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT rank, crawl_time, created_at
		FROM rank_history
		WHERE news_item_id = ?
		ORDER BY crawl_time DESC
		LIMIT ?`, newsID, limit)
	if err != nil {
		return nil, fmt.Errorf("rank history: %w", err)
	}
	return entries, nil
}

func normalizeSearch(search models.NewsSearch) models.NewsSearch {
	search.Query = strings.TrimSpace(search.Query)
	search.PlatformID = strings.TrimSpace(search.PlatformID)
	if _, ok := sortColumns[search.Sort]; !ok {
		search.Sort = DefaultSort
	}
	if search.Limit <= 0 {
		search.Limit = DefaultSearchLimit
	}
	if search.Limit > MaxSearchLimit {
		search.Limit = MaxSearchLimit
	}
	if search.Offset < 0 {
		search.Offset = 0
	}
	return search
}
